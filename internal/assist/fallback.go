package assist

import "github.com/jonathan/proposal-pages/internal/types"

func applyFallback(section string, b brief, data *types.ProposalData) {
	s := types.String
	switch section {
	case SectionIntroduction:
		data.Introduction = &types.Introduction{
			Title:    s("Proposta para " + b.ClientName),
			Subtitle: s("Preparamos esta proposta de " + b.Service + " pensando nos objetivos de " + b.ClientName + "."),
		}
	case SectionAboutUs:
		data.AboutUs = &types.AboutUs{
			Title:     s("Sobre a " + b.CompanyName),
			Subtitle1: s("Somos a " + b.CompanyName + ", especialistas em " + b.Service + "."),
			Subtitle2: s("Trabalhamos lado a lado com cada cliente para entregar resultados mensuráveis."),
		}
	case SectionSteps:
		data.Steps = &types.Steps{
			Title:        s("Como vamos trabalhar"),
			Introduction: s("Nosso processo é dividido em etapas claras e acompanhadas de perto."),
			Topics: []types.Step{
				{ItemMeta: types.ItemMeta{SortOrder: types.Float(1)}, Title: s("Diagnóstico"), Description: s("Entendemos o momento do seu negócio e definimos metas.")},
				{ItemMeta: types.ItemMeta{SortOrder: types.Float(2)}, Title: s("Planejamento"), Description: s("Montamos o plano de ação e o cronograma de entregas.")},
				{ItemMeta: types.ItemMeta{SortOrder: types.Float(3)}, Title: s("Execução"), Description: s("Colocamos o plano em prática com revisões a cada entrega.")},
				{ItemMeta: types.ItemMeta{SortOrder: types.Float(4)}, Title: s("Acompanhamento"), Description: s("Medimos os resultados e ajustamos o que for preciso.")},
			},
		}
	case SectionFAQ:
		data.FAQ = &types.FAQ{
			Title: s("Perguntas frequentes"),
			Items: []types.FAQItem{
				{ItemMeta: types.ItemMeta{SortOrder: types.Float(1)}, Question: s("Qual é o prazo de entrega?"), Answer: s("O prazo é definido em conjunto após o diagnóstico inicial.")},
				{ItemMeta: types.ItemMeta{SortOrder: types.Float(2)}, Question: s("Como funciona o pagamento?"), Answer: s("As condições de pagamento estão descritas na seção de investimento.")},
				{ItemMeta: types.ItemMeta{SortOrder: types.Float(3)}, Question: s("Posso solicitar ajustes?"), Answer: s("Sim, ajustes estão previstos em todas as etapas do projeto.")},
			},
		}
	case SectionFooter:
		data.Footer = &types.Footer{
			CallToAction: s("Vamos começar?"),
			Disclaimer:   s("Esta proposta é válida pelo prazo indicado e está sujeita à disponibilidade da equipe."),
		}
	}
}

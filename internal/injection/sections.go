package injection

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/proposal-pages/internal/dom"
	"github.com/jonathan/proposal-pages/internal/format"
	"github.com/jonathan/proposal-pages/internal/types"
)

func (in *Injector) introduction(root *goquery.Selection, s *types.Introduction) {
	b := in.bindings.Introduction
	if s.Title != nil {
		if sel := in.find(root, b.Title, "introduction.title"); sel != nil {
			dom.WrapWords(sel, *s.Title)
		}
	}
	in.setText(root, b.Subtitle, "introduction.subtitle", s.Subtitle)
	if s.Email != nil {
		if sel := in.find(root, b.Email, "introduction.email"); sel != nil {
			sel.SetText(*s.Email)
			if goquery.NodeName(sel) == "a" && *s.Email != "" {
				sel.SetAttr("href", "mailto:"+*s.Email)
			}
		}
	}
}

func (in *Injector) aboutUs(root *goquery.Selection, s *types.AboutUs) {
	b := in.bindings.AboutUs
	if !in.section(root, b.Section, "aboutUs", s.HideSection) {
		return
	}
	in.setText(root, b.Title, "aboutUs.title", s.Title)
	in.setText(root, b.Subtitle1, "aboutUs.subtitle1", s.Subtitle1)
	in.setVisible(root, b.Subtitle1, "aboutUs.subtitle1", !s.HideSubtitle1)
	in.setText(root, b.Subtitle2, "aboutUs.subtitle2", s.Subtitle2)
	in.setVisible(root, b.Subtitle2, "aboutUs.subtitle2", !s.HideSubtitle2)
}

func (in *Injector) team(root *goquery.Selection, s *types.Team) {
	b := in.bindings.Team
	if !in.section(root, b.Section, "team", s.HideSection) {
		return
	}
	in.setText(root, b.Title, "team.title", s.Title)
	renderList(in, root, "team", b.List, s.Members, func(el *goquery.Selection, m types.TeamMember, _ int) {
		in.itemText(el, b.Name, "team.name", m.Name)
		in.itemText(el, b.Role, "team.role", m.Role)
		in.itemImage(el, b.Image, "team.image", m.Image, m.Name)
	})
}

func (in *Injector) expertise(root *goquery.Selection, s *types.Expertise) {
	b := in.bindings.Expertise
	if !in.section(root, b.Section, "expertise", s.HideSection) {
		return
	}
	in.setText(root, b.Title, "expertise.title", s.Title)
	renderList(in, root, "expertise", b.List, s.Topics, func(el *goquery.Selection, t types.ExpertiseTopic, _ int) {
		in.itemText(el, b.ItemTitle, "expertise.title", t.Title)
		in.itemText(el, b.Description, "expertise.description", t.Description)
		in.icon(el, b.Icon, t.Icon)
	})
}

// icon writes sanitized SVG markup; anything the policy strips to nothing hides the anchor.
func (in *Injector) icon(el *goquery.Selection, selector string, markup *string) {
	sel := in.find(el, selector, "expertise.icon")
	if sel == nil {
		return
	}
	clean := ""
	if markup != nil {
		clean = strings.TrimSpace(in.icons.Sanitize(*markup))
	}
	if clean == "" {
		sel.Empty()
		dom.SetVisible(sel, false)
		return
	}
	sel.SetHtml(clean)
	dom.SetVisible(sel, true)
}

func (in *Injector) results(root *goquery.Selection, s *types.Results) {
	b := in.bindings.Results
	if !in.section(root, b.Section, "results", s.HideSection) {
		return
	}
	in.setText(root, b.Title, "results.title", s.Title)
	renderList(in, root, "results", b.List, s.Items, func(el *goquery.Selection, r types.Result, _ int) {
		in.itemText(el, b.Client, "results.client", r.Client)
		in.instagram(el, b.Instagram, r.Instagram)
		in.itemText(el, b.Investment, "results.investment", currency(r.Investment))
		in.itemText(el, b.ROI, "results.roi", currency(r.ROI))
		in.itemImage(el, b.Photo, "results.photo", r.Photo, r.Client)
	})
}

// instagram renders "@handle" and, on links, points at the profile.
func (in *Injector) instagram(el *goquery.Selection, selector string, handle *string) {
	var label *string
	name := ""
	if handle != nil {
		name = strings.TrimPrefix(strings.TrimSpace(*handle), "@")
	}
	if name != "" {
		label = types.String("@" + name)
	}
	in.itemText(el, selector, "results.instagram", label)
	if sel := el.Find(selector); name != "" && sel.Length() > 0 && goquery.NodeName(sel) == "a" {
		sel.SetAttr("href", "https://instagram.com/"+name)
		sel.SetAttr("target", "_blank")
	}
}

func (in *Injector) testimonials(root *goquery.Selection, s *types.Testimonials) {
	b := in.bindings.Testimonials
	if !in.section(root, b.Section, "testimonials", s.HideSection) {
		return
	}
	in.setText(root, b.Title, "testimonials.title", s.Title)
	renderList(in, root, "testimonials", b.List, s.Items, func(el *goquery.Selection, t types.Testimonial, _ int) {
		in.itemText(el, b.Text, "testimonials.testimonial", t.Testimonial)
		in.itemText(el, b.Name, "testimonials.name", t.Name)
		in.itemText(el, b.Role, "testimonials.role", t.Role)
		in.itemImage(el, b.Photo, "testimonials.photo", t.Photo, t.Name)
	})
}

func (in *Injector) steps(root *goquery.Selection, s *types.Steps) {
	b := in.bindings.Steps
	if !in.section(root, b.Section, "steps", s.HideSection) {
		return
	}
	in.setText(root, b.Title, "steps.title", s.Title)
	in.setText(root, b.Introduction, "steps.introduction", s.Introduction)
	renderList(in, root, "steps", b.List, s.Topics, func(el *goquery.Selection, t types.Step, i int) {
		in.itemText(el, b.Number, "steps.number", types.String(format.Ordinal(i+1)))
		in.itemText(el, b.ItemTitle, "steps.title", t.Title)
		in.itemText(el, b.Description, "steps.description", t.Description)
	})
}

func (in *Injector) investment(root *goquery.Selection, s *types.Investment) {
	b := in.bindings.Investment
	if !in.section(root, b.Section, "investment", s.HideSection) {
		return
	}
	in.setText(root, b.Title, "investment.title", s.Title)
	in.setText(root, b.ProjectScope, "investment.projectScope", s.ProjectScope)
	in.setVisible(root, b.ProjectScope, "investment.projectScope", !s.HideProjectScope)
}

func (in *Injector) plans(root *goquery.Selection, s *types.Plans, fallback *types.ButtonConfig) {
	b := in.bindings.Plans
	if !in.section(root, b.Section, "plans", s.HideSection) {
		return
	}
	renderList(in, root, "plans", b.List, s.Items, func(el *goquery.Selection, p types.Plan, _ int) {
		in.itemText(el, b.Title, "plans.title", p.Title)
		in.itemText(el, b.Description, "plans.description", p.Description)
		in.itemText(el, b.Value, "plans.value", currency(p.Value))
		in.itemText(el, b.Period, "plans.planPeriod", p.PlanPeriod)

		if b.RecommendedClass != "" {
			if p.Recommended {
				el.AddClass(b.RecommendedClass)
			} else {
				el.RemoveClass(b.RecommendedClass)
			}
		}
		if badge := in.find(el, b.Badge, "plans.badge"); badge != nil {
			dom.SetVisible(badge, p.Recommended)
		}

		if button := in.find(el, b.Button, "plans.button"); button != nil {
			if url := planButtonURL(p, fallback); url != "" {
				button.SetAttr("href", url)
				setTarget(button, url)
			}
		}
		title := p.ButtonTitle
		if title == nil && fallback != nil {
			title = fallback.ButtonTitle
		}
		in.setText(el, b.ButtonText, "plans.buttonTitle", title)

		in.included(el, p.IncludedItems)
	})
}

// included renders the nested list of a plan card with the same list algorithm.
func (in *Injector) included(plan *goquery.Selection, items []types.IncludedItem) {
	b := in.bindings.Plans
	renderList(in, plan, "plans.includedItems", b.Included, items, func(el *goquery.Selection, it types.IncludedItem, _ int) {
		if b.IncludedText == "" {
			if it.Description != nil {
				el.SetText(*it.Description)
			}
			return
		}
		in.itemText(el, b.IncludedText, "plans.includedItems.description", it.Description)
	})
}

func (in *Injector) faq(root *goquery.Selection, s *types.FAQ) {
	b := in.bindings.FAQ
	if !in.section(root, b.Section, "faq", s.HideSection) {
		return
	}
	in.setText(root, b.Title, "faq.title", s.Title)
	renderList(in, root, "faq", b.List, s.Items, func(el *goquery.Selection, f types.FAQItem, i int) {
		in.itemText(el, b.Number, "faq.number", types.String(format.Ordinal(i+1)))
		in.itemText(el, b.Question, "faq.question", f.Question)
		in.itemText(el, b.Answer, "faq.answer", f.Answer)
	})
}

func (in *Injector) footer(root *goquery.Selection, s *types.Footer) {
	b := in.bindings.Footer
	in.setText(root, b.CallToAction, "footer.callToAction", s.CallToAction)
	in.setVisible(root, b.CallToAction, "footer.callToAction", !s.HideCallToAction)
	in.setText(root, b.Disclaimer, "footer.disclaimer", s.Disclaimer)
	in.setVisible(root, b.Disclaimer, "footer.disclaimer", !s.HideDisclaimer)
}

// buttons applies the shared title and target to every call-to-action of the page,
// including the duplicated shadow labels used for hover effects.
func (in *Injector) buttons(root *goquery.Selection, cfg *types.ButtonConfig) {
	b := in.bindings.Buttons
	if url := format.ButtonURL(types.Deref(cfg.ButtonWhereToOpen), types.Deref(cfg.ButtonHref), types.Deref(cfg.ButtonPhone)); url != "" {
		if links := in.find(root, b.Links, "buttonConfig.buttonHref"); links != nil {
			links.SetAttr("href", url)
			setTarget(links, url)
		}
	}
	in.setText(root, b.Titles, "buttonConfig.buttonTitle", cfg.ButtonTitle)
}

// planButtonURL uses the plan's own destination and falls back to the shared
// button configuration when the plan names none.
func planButtonURL(p types.Plan, fallback *types.ButtonConfig) string {
	if p.ButtonWhereToOpen != nil || p.ButtonHref != nil {
		return format.ButtonURL(types.Deref(p.ButtonWhereToOpen), types.Deref(p.ButtonHref), types.Deref(p.ButtonPhone))
	}
	if fallback == nil {
		return ""
	}
	return format.ButtonURL(types.Deref(fallback.ButtonWhereToOpen), types.Deref(fallback.ButtonHref), types.Deref(fallback.ButtonPhone))
}

// setTarget opens absolute links in a new tab.
func setTarget(sel *goquery.Selection, url string) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		sel.SetAttr("target", "_blank")
		sel.SetAttr("rel", "noopener noreferrer")
	}
}

func currency(v *string) *string {
	if v == nil {
		return nil
	}
	return types.String(format.Currency(*v))
}

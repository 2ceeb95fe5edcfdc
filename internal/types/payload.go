// Package types provides type definitions for structured data used throughout the proposal-pages system.
package types

// MessageTypeTemplateData is the only inbound message type the template pages react to.
const MessageTypeTemplateData = "FLASH_TEMPLATE_DATA"

// Message is the envelope posted by an embedding editor to a template page.
type Message struct {
	Type string   `json:"type"`
	Data *Payload `json:"data,omitempty"`
}

// Payload is the proposal data delivered to a template page.
// Every field is optional; nil means "no value".
type Payload struct {
	ProposalData      *ProposalData `json:"proposalData,omitempty"`
	ButtonConfig      *ButtonConfig `json:"buttonConfig,omitempty"`
	ProjectValidUntil *string       `json:"projectValidUntil,omitempty"`
}

// ProposalData groups the independently optional sections of a proposal.
type ProposalData struct {
	Introduction *Introduction `json:"introduction,omitempty"`
	AboutUs      *AboutUs      `json:"aboutUs,omitempty"`
	Team         *Team         `json:"team,omitempty"`
	Expertise    *Expertise    `json:"expertise,omitempty"`
	Results      *Results      `json:"results,omitempty"`
	Testimonials *Testimonials `json:"testimonials,omitempty"`
	Steps        *Steps        `json:"steps,omitempty"`
	Investment   *Investment   `json:"investment,omitempty"`
	Plans        *Plans        `json:"plans,omitempty"`
	FAQ          *FAQ          `json:"faq,omitempty"`
	Footer       *Footer       `json:"footer,omitempty"`
}

// ButtonConfig is applied to every call-to-action button of the page.
type ButtonConfig struct {
	ButtonTitle       *string `json:"buttonTitle,omitempty"`
	ButtonWhereToOpen *string `json:"buttonWhereToOpen,omitempty"`
	ButtonHref        *string `json:"buttonHref,omitempty"`
	ButtonPhone       *string `json:"buttonPhone,omitempty"`
}

// Introduction is the hero section.
type Introduction struct {
	Title    *string `json:"title,omitempty"`
	Subtitle *string `json:"subtitle,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// AboutUs describes the proposing company.
type AboutUs struct {
	Title         *string `json:"title,omitempty"`
	Subtitle1     *string `json:"subtitle1,omitempty"`
	Subtitle2     *string `json:"subtitle2,omitempty"`
	HideSection   bool    `json:"hideSection,omitempty"`
	HideSubtitle1 bool    `json:"hideSubtitle1,omitempty"`
	HideSubtitle2 bool    `json:"hideSubtitle2,omitempty"`
}

// Team lists the people behind the proposal.
type Team struct {
	Title       *string      `json:"title,omitempty"`
	HideSection bool         `json:"hideSection,omitempty"`
	Members     []TeamMember `json:"members,omitempty"`
}

// TeamMember is a single person card. It uses its own hide flag name.
type TeamMember struct {
	Name       *string  `json:"name,omitempty"`
	Role       *string  `json:"role,omitempty"`
	Image      *string  `json:"image,omitempty"`
	SortOrder  *float64 `json:"sortOrder,omitempty"`
	HideMember bool     `json:"hideMember,omitempty"`
}

// Order implements ListItem.
func (m TeamMember) Order() float64 { return orderOf(m.SortOrder) }

// Hidden implements ListItem.
func (m TeamMember) Hidden() bool { return m.HideMember }

// Expertise lists the topics the company is good at.
type Expertise struct {
	Title       *string          `json:"title,omitempty"`
	HideSection bool             `json:"hideSection,omitempty"`
	Topics      []ExpertiseTopic `json:"topics,omitempty"`
}

// ExpertiseTopic is one expertise card. Icon is SVG markup.
type ExpertiseTopic struct {
	ItemMeta
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

// Results lists past client results.
type Results struct {
	Title       *string  `json:"title,omitempty"`
	HideSection bool     `json:"hideSection,omitempty"`
	Items       []Result `json:"items,omitempty"`
}

// Result is a single case study.
type Result struct {
	ItemMeta
	Client     *string `json:"client,omitempty"`
	Instagram  *string `json:"instagram,omitempty"`
	Investment *string `json:"investment,omitempty"`
	ROI        *string `json:"roi,omitempty"`
	Photo      *string `json:"photo,omitempty"`
}

// Testimonials lists client quotes.
type Testimonials struct {
	Title       *string       `json:"title,omitempty"`
	HideSection bool          `json:"hideSection,omitempty"`
	Items       []Testimonial `json:"items,omitempty"`
}

// Testimonial is a single quote slide.
type Testimonial struct {
	ItemMeta
	Name        *string `json:"name,omitempty"`
	Role        *string `json:"role,omitempty"`
	Testimonial *string `json:"testimonial,omitempty"`
	Photo       *string `json:"photo,omitempty"`
}

// Steps describes the delivery process.
type Steps struct {
	Title        *string `json:"title,omitempty"`
	Introduction *string `json:"introduction,omitempty"`
	HideSection  bool    `json:"hideSection,omitempty"`
	Topics       []Step  `json:"topics,omitempty"`
}

// Step is one numbered accordion entry.
type Step struct {
	ItemMeta
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Investment introduces the pricing section.
type Investment struct {
	Title            *string `json:"title,omitempty"`
	ProjectScope     *string `json:"projectScope,omitempty"`
	HideSection      bool    `json:"hideSection,omitempty"`
	HideProjectScope bool    `json:"hideProjectScope,omitempty"`
}

// Plans lists the pricing cards.
type Plans struct {
	HideSection bool   `json:"hideSection,omitempty"`
	Items       []Plan `json:"items,omitempty"`
}

// Plan is a pricing card with its own call-to-action.
type Plan struct {
	ItemMeta
	Title             *string        `json:"title,omitempty"`
	Description       *string        `json:"description,omitempty"`
	Value             *string        `json:"value,omitempty"`
	PlanPeriod        *string        `json:"planPeriod,omitempty"`
	Recommended       bool           `json:"recommended,omitempty"`
	ButtonTitle       *string        `json:"buttonTitle,omitempty"`
	ButtonWhereToOpen *string        `json:"buttonWhereToOpen,omitempty"`
	ButtonHref        *string        `json:"buttonHref,omitempty"`
	ButtonPhone       *string        `json:"buttonPhone,omitempty"`
	IncludedItems     []IncludedItem `json:"includedItems,omitempty"`
}

// IncludedItem is a bullet inside a plan card.
type IncludedItem struct {
	ItemMeta
	Description *string `json:"description,omitempty"`
}

// FAQ lists frequently asked questions.
type FAQ struct {
	Title       *string   `json:"title,omitempty"`
	HideSection bool      `json:"hideSection,omitempty"`
	Items       []FAQItem `json:"items,omitempty"`
}

// FAQItem is one numbered question.
type FAQItem struct {
	ItemMeta
	Question *string `json:"question,omitempty"`
	Answer   *string `json:"answer,omitempty"`
}

// Footer closes the page.
type Footer struct {
	CallToAction     *string `json:"callToAction,omitempty"`
	Disclaimer       *string `json:"disclaimer,omitempty"`
	HideCallToAction bool    `json:"hideCallToAction,omitempty"`
	HideDisclaimer   bool    `json:"hideDisclaimer,omitempty"`
}

// String returns a pointer to s.
func String(s string) *string { return &s }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

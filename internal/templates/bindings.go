package templates

// Bindings maps every payload field of a layout to its anchor in the document.
// Scalar targets are element selectors (usually ids); list fields are selectors
// scoped to a cloned item. An empty selector means the layout has no anchor for
// that field and it is skipped without a warning.
type Bindings struct {
	Reveal       Reveal       `yaml:"reveal"`
	Buttons      Buttons      `yaml:"buttons"`
	Introduction Introduction `yaml:"introduction"`
	AboutUs      AboutUs      `yaml:"aboutUs"`
	Team         Team         `yaml:"team"`
	Expertise    Expertise    `yaml:"expertise"`
	Results      Results      `yaml:"results"`
	Testimonials Testimonials `yaml:"testimonials"`
	Steps        Steps        `yaml:"steps"`
	Investment   Investment   `yaml:"investment"`
	Plans        Plans        `yaml:"plans"`
	FAQ          FAQ          `yaml:"faq"`
	Footer       Footer       `yaml:"footer"`
}

// List locates a repeated region: a container and the selector of its clone-template item.
type List struct {
	Container string `yaml:"container"`
	Item      string `yaml:"item"`
}

// Reveal names the loading indicator and the content wrapper.
type Reveal struct {
	Loading string `yaml:"loading"`
	Content string `yaml:"content"`
}

// Buttons targets every shared call-to-action link and its label nodes.
type Buttons struct {
	Links  string `yaml:"links"`
	Titles string `yaml:"titles"`
}

type Introduction struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Email    string `yaml:"email"`
}

type AboutUs struct {
	Section   string `yaml:"section"`
	Title     string `yaml:"title"`
	Subtitle1 string `yaml:"subtitle1"`
	Subtitle2 string `yaml:"subtitle2"`
}

type Team struct {
	Section string `yaml:"section"`
	Title   string `yaml:"title"`
	List    List   `yaml:"list"`
	Name    string `yaml:"name"`
	Role    string `yaml:"role"`
	Image   string `yaml:"image"`
}

type Expertise struct {
	Section     string `yaml:"section"`
	Title       string `yaml:"title"`
	List        List   `yaml:"list"`
	ItemTitle   string `yaml:"itemTitle"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
}

type Results struct {
	Section    string `yaml:"section"`
	Title      string `yaml:"title"`
	List       List   `yaml:"list"`
	Client     string `yaml:"client"`
	Instagram  string `yaml:"instagram"`
	Investment string `yaml:"investment"`
	ROI        string `yaml:"roi"`
	Photo      string `yaml:"photo"`
}

type Testimonials struct {
	Section string `yaml:"section"`
	Title   string `yaml:"title"`
	List    List   `yaml:"list"`
	Name    string `yaml:"name"`
	Role    string `yaml:"role"`
	Text    string `yaml:"text"`
	Photo   string `yaml:"photo"`
}

type Steps struct {
	Section      string `yaml:"section"`
	Title        string `yaml:"title"`
	Introduction string `yaml:"introduction"`
	List         List   `yaml:"list"`
	Number       string `yaml:"number"`
	ItemTitle    string `yaml:"itemTitle"`
	Description  string `yaml:"description"`
}

type Investment struct {
	Section      string `yaml:"section"`
	Title        string `yaml:"title"`
	ProjectScope string `yaml:"projectScope"`
}

type Plans struct {
	Section          string `yaml:"section"`
	List             List   `yaml:"list"`
	Title            string `yaml:"title"`
	Description      string `yaml:"description"`
	Value            string `yaml:"value"`
	Period           string `yaml:"period"`
	Badge            string `yaml:"badge"`
	RecommendedClass string `yaml:"recommendedClass"`
	Button           string `yaml:"button"`
	ButtonText       string `yaml:"buttonText"`
	Included         List   `yaml:"included"`
	// IncludedText is the label inside an included item; empty means the item itself.
	IncludedText string `yaml:"includedText"`
}

type FAQ struct {
	Section  string `yaml:"section"`
	Title    string `yaml:"title"`
	List     List   `yaml:"list"`
	Number   string `yaml:"number"`
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

type Footer struct {
	CallToAction string `yaml:"callToAction"`
	Validity     string `yaml:"validity"`
	Disclaimer   string `yaml:"disclaimer"`
}

// DocumentAnchors lists every non-empty selector resolved against the whole document.
func (b *Bindings) DocumentAnchors() []string {
	all := []string{
		b.Reveal.Loading, b.Reveal.Content, b.Buttons.Links, b.Buttons.Titles,
		b.Introduction.Title, b.Introduction.Subtitle, b.Introduction.Email,
		b.AboutUs.Section, b.AboutUs.Title, b.AboutUs.Subtitle1, b.AboutUs.Subtitle2,
		b.Team.Section, b.Team.Title, b.Team.List.Container,
		b.Expertise.Section, b.Expertise.Title, b.Expertise.List.Container,
		b.Results.Section, b.Results.Title, b.Results.List.Container,
		b.Testimonials.Section, b.Testimonials.Title, b.Testimonials.List.Container,
		b.Steps.Section, b.Steps.Title, b.Steps.Introduction, b.Steps.List.Container,
		b.Investment.Section, b.Investment.Title, b.Investment.ProjectScope,
		b.Plans.Section, b.Plans.List.Container,
		b.FAQ.Section, b.FAQ.Title, b.FAQ.List.Container,
		b.Footer.CallToAction, b.Footer.Validity, b.Footer.Disclaimer,
	}
	out := all[:0]
	for _, s := range all {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Lists returns the top-level repeated regions keyed by section name.
func (b *Bindings) Lists() map[string]List {
	lists := map[string]List{
		"team":         b.Team.List,
		"expertise":    b.Expertise.List,
		"results":      b.Results.List,
		"testimonials": b.Testimonials.List,
		"steps":        b.Steps.List,
		"plans":        b.Plans.List,
		"faq":          b.FAQ.List,
	}
	for name, l := range lists {
		if l.Container == "" {
			delete(lists, name)
		}
	}
	return lists
}

// Package injection populates a static proposal layout from a proposal payload.
//
// Every handler is defensive: a missing anchor is logged and skipped, a missing
// value leaves the anchor at its template default, and nothing is ever returned
// or raised to the caller. Lists are rendered by cloning the single example item
// each container ships with.
package injection

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/jonathan/proposal-pages/internal/dom"
	"github.com/jonathan/proposal-pages/internal/format"
	"github.com/jonathan/proposal-pages/internal/templates"
	"github.com/jonathan/proposal-pages/internal/types"
)

// Injector writes payloads into documents of one layout.
// It is not safe for concurrent use; callers serialize access per document.
type Injector struct {
	bindings *templates.Bindings
	logger   *zap.Logger
	icons    *bluemonday.Policy

	// pristine clone templates keyed by list name, captured on first render
	listTemplates map[string]*goquery.Selection
	warnings      int
}

// New creates an Injector for the given anchor table.
func New(bindings *templates.Bindings, logger *zap.Logger) *Injector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bindings == nil {
		bindings = &templates.Bindings{}
	}
	return &Injector{
		bindings:      bindings,
		logger:        logger,
		icons:         IconPolicy(),
		listTemplates: make(map[string]*goquery.Selection),
	}
}

// Bindings returns the anchor table the injector writes to.
func (in *Injector) Bindings() *templates.Bindings {
	return in.bindings
}

// Warnings returns how many missing anchors were reported so far.
func (in *Injector) Warnings() int {
	return in.warnings
}

// Inject populates doc from payload. A nil payload or one without proposalData
// leaves the sections untouched. Calling Inject again re-renders every list it
// touches from scratch.
func (in *Injector) Inject(doc *goquery.Document, payload *types.Payload) {
	if doc == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			in.logger.Error("injection aborted", zap.Any("panic", r))
		}
	}()

	if payload == nil || payload.ProposalData == nil {
		in.logger.Debug("no proposal data, skipping field population")
		return
	}

	root := doc.Selection
	pd := payload.ProposalData

	if pd.Introduction != nil {
		in.introduction(root, pd.Introduction)
	}
	if pd.AboutUs != nil {
		in.aboutUs(root, pd.AboutUs)
	}
	if pd.Team != nil {
		in.team(root, pd.Team)
	}
	if pd.Expertise != nil {
		in.expertise(root, pd.Expertise)
	}
	if pd.Results != nil {
		in.results(root, pd.Results)
	}
	if pd.Testimonials != nil {
		in.testimonials(root, pd.Testimonials)
	}
	if pd.Steps != nil {
		in.steps(root, pd.Steps)
	}
	if pd.Investment != nil {
		in.investment(root, pd.Investment)
	}
	if pd.Plans != nil {
		in.plans(root, pd.Plans, payload.ButtonConfig)
	}
	if pd.FAQ != nil {
		in.faq(root, pd.FAQ)
	}
	if pd.Footer != nil {
		in.footer(root, pd.Footer)
	}
	if payload.ButtonConfig != nil {
		in.buttons(root, payload.ButtonConfig)
	}
	if payload.ProjectValidUntil != nil {
		in.setText(root, in.bindings.Footer.Validity, "projectValidUntil", types.String(format.Date(*payload.ProjectValidUntil)))
	}
}

// find resolves selector under scope. An empty selector means the layout has
// no anchor for field and yields nil silently; a selector matching nothing is
// logged as a warning and also yields nil.
func (in *Injector) find(scope *goquery.Selection, selector, field string) *goquery.Selection {
	if selector == "" {
		return nil
	}
	sel := scope.Find(selector)
	if sel.Length() == 0 {
		in.warnings++
		in.logger.Warn("anchor not found", zap.String("field", field), zap.String("anchor", selector))
		return nil
	}
	return sel
}

// setText writes value as plain text. A nil value leaves the anchor unchanged.
func (in *Injector) setText(scope *goquery.Selection, selector, field string, value *string) {
	sel := in.find(scope, selector, field)
	if sel == nil || value == nil {
		return
	}
	sel.SetText(*value)
}

// setVisible toggles the inline display of the anchor.
func (in *Injector) setVisible(scope *goquery.Selection, selector, field string, visible bool) {
	if sel := in.find(scope, selector, field); sel != nil {
		dom.SetVisible(sel, visible)
	}
}

// section shows or hides a whole region and reports whether it should be populated.
func (in *Injector) section(root *goquery.Selection, selector, field string, hidden bool) bool {
	in.setVisible(root, selector, field, !hidden)
	return !hidden
}

// itemText fills a sub-element of a cloned item, hiding it when the value is absent.
func (in *Injector) itemText(item *goquery.Selection, selector, field string, value *string) {
	sel := in.find(item, selector, field)
	if sel == nil {
		return
	}
	if value == nil || *value == "" {
		dom.SetVisible(sel, false)
		return
	}
	dom.SetVisible(sel, true)
	sel.SetText(*value)
}

// itemImage points an <img> of a cloned item at src, hiding it when there is none.
func (in *Injector) itemImage(item *goquery.Selection, selector, field string, src, alt *string) {
	sel := in.find(item, selector, field)
	if sel == nil {
		return
	}
	if src == nil || *src == "" {
		dom.SetVisible(sel, false)
		return
	}
	dom.SetVisible(sel, true)
	sel.SetAttr("src", *src)
	if alt != nil {
		sel.SetAttr("alt", *alt)
	}
}

// listTemplate returns the pristine clone template of a list, capturing it from
// container the first time the list is rendered.
func (in *Injector) listTemplate(key string, container *goquery.Selection, itemSelector string) *goquery.Selection {
	if tmpl, ok := in.listTemplates[key]; ok {
		return tmpl
	}
	tmpl := dom.CaptureTemplate(container, itemSelector)
	if tmpl.Length() == 0 {
		in.warnings++
		in.logger.Warn("list has no clone template", zap.String("field", key), zap.String("anchor", itemSelector))
		return tmpl
	}
	in.listTemplates[key] = tmpl
	return tmpl
}

// renderList runs the shared list algorithm: resolve the container, drop hidden
// items, sort by sortOrder, clone the template per item and populate it.
func renderList[T types.ListItem](in *Injector, scope *goquery.Selection, key string, list templates.List, items []T, populate func(el *goquery.Selection, item T, index int)) int {
	container := in.find(scope, list.Container, key)
	if container == nil {
		return 0
	}
	container = container.First()
	tmpl := in.listTemplate(key, container, list.Item)
	return dom.Fill(container, tmpl, types.Visible(items), populate)
}

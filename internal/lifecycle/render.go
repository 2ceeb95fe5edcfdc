package lifecycle

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/proposal-pages/internal/dom"
	"github.com/jonathan/proposal-pages/internal/injection"
	"github.com/jonathan/proposal-pages/internal/templates"
	"github.com/jonathan/proposal-pages/internal/types"
)

// RenderNow injects payload and leaves doc in its final revealed state in one
// synchronous step, for documents served already populated.
func RenderNow(doc *goquery.Document, injector *injection.Injector, payload *types.Payload) {
	injector.Inject(doc, payload)
	applyRevealed(doc, injector.Bindings().Reveal)
}

// applyRevealed writes the end state of a reveal without transitions.
func applyRevealed(doc *goquery.Document, r templates.Reveal) {
	if r.Loading != "" {
		dom.SetVisible(doc.Find(r.Loading), false)
	}
	if r.Content != "" {
		content := doc.Find(r.Content)
		dom.SetVisible(content, true)
		dom.SetStyle(content, "opacity", "1")
	}
}

package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// WordClass is set on every span produced by WrapWords.
const WordClass = "word"

// WrapWords replaces the content of every element of sel with one <span> per
// whitespace-separated word of text, separated by single spaces. Nodes are
// built directly so the text is never interpreted as markup.
func WrapWords(sel *goquery.Selection, text string) {
	words := strings.Fields(text)
	sel.Each(func(_ int, el *goquery.Selection) {
		el.Empty()
		nodes := make([]*html.Node, 0, len(words)*2)
		for i, w := range words {
			if i > 0 {
				nodes = append(nodes, &html.Node{Type: html.TextNode, Data: " "})
			}
			span := &html.Node{
				Type:     html.ElementNode,
				Data:     atom.Span.String(),
				DataAtom: atom.Span,
				Attr:     []html.Attribute{{Key: "class", Val: WordClass}},
			}
			span.AppendChild(&html.Node{Type: html.TextNode, Data: w})
			nodes = append(nodes, span)
		}
		if len(nodes) > 0 {
			el.AppendNodes(nodes...)
		}
	})
}

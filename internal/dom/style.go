// Package dom provides the small set of document mutations proposal pages need:
// inline style edits, visibility toggles, safe text and per-word markup, and
// clone-template list rendering.
package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// declarations parses an inline style attribute. Unparseable styles are treated as empty.
// The parser drops the value of a final declaration that lacks its ";".
func declarations(style string) []*css.Declaration {
	style = strings.TrimSpace(style)
	if style == "" {
		return nil
	}
	if !strings.HasSuffix(style, ";") {
		style += ";"
	}
	decls, err := parser.ParseDeclarations(style)
	if err != nil {
		return nil
	}
	return decls
}

func serialize(decls []*css.Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		s := d.Property + ": " + d.Value
		if d.Important {
			s += " !important"
		}
		parts = append(parts, s+";")
	}
	return strings.Join(parts, " ")
}

// StyleValue returns the inline value of property on the first element of sel.
func StyleValue(sel *goquery.Selection, property string) (string, bool) {
	style, ok := sel.Attr("style")
	if !ok {
		return "", false
	}
	var value string
	found := false
	for _, d := range declarations(style) {
		if strings.EqualFold(d.Property, property) {
			value, found = d.Value, true
		}
	}
	return value, found
}

// SetStyle sets an inline style property on every element of sel, keeping other declarations.
func SetStyle(sel *goquery.Selection, property, value string) {
	sel.Each(func(_ int, el *goquery.Selection) {
		style, _ := el.Attr("style")
		decls := declarations(style)
		replaced := false
		kept := decls[:0]
		for _, d := range decls {
			if strings.EqualFold(d.Property, property) {
				if replaced {
					continue
				}
				d.Value, d.Important, replaced = value, false, true
			}
			kept = append(kept, d)
		}
		if !replaced {
			kept = append(kept, &css.Declaration{Property: property, Value: value})
		}
		el.SetAttr("style", serialize(kept))
	})
}

// RemoveStyle drops an inline style property from every element of sel.
// The style attribute is removed entirely when nothing else remains.
func RemoveStyle(sel *goquery.Selection, property string) {
	sel.Each(func(_ int, el *goquery.Selection) {
		style, ok := el.Attr("style")
		if !ok {
			return
		}
		decls := declarations(style)
		kept := decls[:0]
		for _, d := range decls {
			if !strings.EqualFold(d.Property, property) {
				kept = append(kept, d)
			}
		}
		if len(kept) == 0 {
			el.RemoveAttr("style")
			return
		}
		el.SetAttr("style", serialize(kept))
	})
}

package dom

import "github.com/PuerkitoBio/goquery"

// SetVisible hides sel with an inline display:none, or clears the inline
// display override so the element falls back to its stylesheet display.
func SetVisible(sel *goquery.Selection, visible bool) {
	if visible {
		RemoveStyle(sel, "display")
		return
	}
	SetStyle(sel, "display", "none")
}

// IsHidden reports whether the first element of sel carries an inline display:none.
func IsHidden(sel *goquery.Selection) bool {
	v, ok := StyleValue(sel, "display")
	return ok && v == "none"
}

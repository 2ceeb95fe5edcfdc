package dom

import "github.com/PuerkitoBio/goquery"

// CaptureTemplate returns a detached deep copy of the first element under
// container matching itemSelector. The result is empty when there is none.
func CaptureTemplate(container *goquery.Selection, itemSelector string) *goquery.Selection {
	return container.Find(itemSelector).First().Clone()
}

// Fill empties container and appends one clone of tmpl per item, in order.
// populate receives the clone, the item and its 0-based position. An empty
// template leaves the container empty.
func Fill[T any](container, tmpl *goquery.Selection, items []T, populate func(el *goquery.Selection, item T, index int)) int {
	container.Empty()
	if tmpl == nil || tmpl.Length() == 0 {
		return 0
	}
	for i, item := range items {
		el := tmpl.Clone()
		populate(el, item, i)
		container.AppendSelection(el)
	}
	return len(items)
}

package injection

import "github.com/microcosm-cc/bluemonday"

// IconPolicy allows inline SVG drawing primitives and nothing else: no scripts,
// no event handlers, no foreign references.
func IconPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements("svg", "g", "path", "circle", "ellipse", "rect", "line", "polyline", "polygon", "title", "defs", "lineargradient", "stop")
	// containers routinely carry no attributes and would otherwise be stripped
	p.AllowNoAttrs().OnElements("svg", "g", "title", "defs", "lineargradient")

	p.AllowAttrs("xmlns", "viewbox", "width", "height", "role", "aria-hidden", "focusable").OnElements("svg")
	p.AllowAttrs("d", "fill-rule", "clip-rule").OnElements("path")
	p.AllowAttrs("cx", "cy", "r").OnElements("circle")
	p.AllowAttrs("cx", "cy", "rx", "ry").OnElements("ellipse")
	p.AllowAttrs("x", "y", "width", "height", "rx", "ry").OnElements("rect")
	p.AllowAttrs("x1", "y1", "x2", "y2").OnElements("line", "lineargradient")
	p.AllowAttrs("points").OnElements("polyline", "polygon")
	p.AllowAttrs("offset", "stop-color", "stop-opacity").OnElements("stop")
	p.AllowAttrs("id").OnElements("lineargradient")

	p.AllowAttrs(
		"fill", "stroke", "stroke-width", "stroke-linecap", "stroke-linejoin",
		"stroke-miterlimit", "opacity", "fill-opacity", "stroke-opacity", "transform",
	).Globally()
	p.AllowAttrs("class").Globally()

	return p
}

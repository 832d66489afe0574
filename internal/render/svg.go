package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/1broseidon/hyprcycle/internal/order"
	"github.com/1broseidon/hyprcycle/internal/switcher"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width   float64
	titles  bool
	padding float64
}

// WithWidth sets the rendered width in pixels. Height follows the layout's
// aspect ratio.
func WithWidth(w float64) SVGOption { return func(r *svgRenderer) { r.width = w } }

// WithTitles prints window titles under the class name.
func WithTitles() SVGOption { return func(r *svgRenderer) { r.titles = true } }

// RenderSVG draws monitors and the view's entries at their compositor
// coordinates. Each entry is annotated with its cycle index and jump label.
func RenderSVG(v *switcher.View, monitors []order.MonitorFrame, opts ...SVGOption) []byte {
	r := svgRenderer{width: 960, padding: 20}
	for _, opt := range opts {
		opt(&r)
	}

	box := bounds(v, monitors)
	w := float64(box.Width) + 2*r.padding
	h := float64(box.Height) + 2*r.padding
	height := r.width * h / w

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		float64(box.X)-r.padding, float64(box.Y)-r.padding, w, h, r.width, height)
	buf.WriteString("  <style>\n")
	buf.WriteString("    .monitor { fill: #1e1e2e; stroke: #585b70; stroke-width: 4; }\n")
	buf.WriteString("    .entry { fill: #313244; stroke: #89b4fa; stroke-width: 3; }\n")
	buf.WriteString("    .entry.selected { fill: #45475a; stroke: #a6e3a1; stroke-width: 6; }\n")
	buf.WriteString("    text { font-family: monospace; fill: #cdd6f4; }\n")
	buf.WriteString("    .index { font-size: 48px; font-weight: bold; }\n")
	buf.WriteString("    .label { font-size: 28px; fill: #f9e2af; }\n")
	buf.WriteString("    .name { font-size: 24px; fill: #bac2de; }\n")
	buf.WriteString("  </style>\n")

	for _, m := range monitors {
		renderMonitor(&buf, m)
	}
	for _, e := range v.Entries {
		r.renderEntry(&buf, e)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderMonitor(buf *bytes.Buffer, m order.MonitorFrame) {
	fmt.Fprintf(buf, `  <rect class="monitor" x="%d" y="%d" width="%d" height="%d"/>`+"\n",
		m.Rect.X, m.Rect.Y, m.Rect.Width, m.Rect.Height)
	if m.Name != "" {
		fmt.Fprintf(buf, `  <text class="name" x="%d" y="%d">%s</text>`+"\n",
			m.Rect.X+12, m.Rect.Bottom()-12, html.EscapeString(m.Name))
	}
}

func (r svgRenderer) renderEntry(buf *bytes.Buffer, e switcher.Entry) {
	rect, ok := entryRect(e)
	if !ok {
		return
	}
	class := "entry"
	if e.Selected {
		class += " selected"
	}
	fmt.Fprintf(buf, `  <g id="entry-%d">`+"\n", e.Index)
	fmt.Fprintf(buf, `    <rect class="%s" x="%d" y="%d" width="%d" height="%d" rx="8"/>`+"\n",
		class, rect.X, rect.Y, rect.Width, rect.Height)

	cx, cy := rect.X+rect.Width/2, rect.Y+rect.Height/2
	fmt.Fprintf(buf, `    <text class="index" x="%d" y="%d" text-anchor="middle">%d</text>`+"\n", cx, cy, e.Index)
	if e.Label != nil {
		fmt.Fprintf(buf, `    <text class="label" x="%d" y="%d" text-anchor="middle">%s</text>`+"\n",
			cx, cy+36, formatLabel(*e.Label))
	}

	name := e.Title()
	if e.Window != nil {
		name = e.Window.Class
		if r.titles && e.Window.Title != "" {
			name += ": " + e.Window.Title
		}
	}
	fmt.Fprintf(buf, `    <text class="name" x="%d" y="%d">%s</text>`+"\n",
		rect.X+10, rect.Y+30, html.EscapeString(name))
	buf.WriteString("  </g>\n")
}

func entryRect(e switcher.Entry) (order.Rect, bool) {
	switch {
	case e.Window != nil:
		return e.Window.Rect, true
	case e.Workspace != nil && e.Workspace.Rect.Width > 0:
		return e.Workspace.Rect, true
	}
	return order.Rect{}, false
}

func formatLabel(k int) string {
	if k > 0 {
		return fmt.Sprintf("+%d", k)
	}
	return fmt.Sprintf("%d", k)
}

// bounds is the smallest rectangle covering every monitor and entry.
func bounds(v *switcher.View, monitors []order.MonitorFrame) order.Rect {
	var rects []order.Rect
	for _, m := range monitors {
		rects = append(rects, m.Rect)
	}
	for _, e := range v.Entries {
		if r, ok := entryRect(e); ok {
			rects = append(rects, r)
		}
	}
	if len(rects) == 0 {
		return order.Rect{Width: 1, Height: 1}
	}

	minX, minY := rects[0].X, rects[0].Y
	maxX, maxY := rects[0].Right(), rects[0].Bottom()
	for _, r := range rects[1:] {
		minX = min(minX, r.X)
		minY = min(minY, r.Y)
		maxX = max(maxX, r.Right())
		maxY = max(maxY, r.Bottom())
	}
	return order.Rect{X: minX, Y: minY, Width: max(maxX-minX, 1), Height: max(maxY-minY, 1)}
}

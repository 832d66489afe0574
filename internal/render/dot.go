package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/1broseidon/hyprcycle/internal/switcher"
)

// ToDOT describes the cycle as a Graphviz graph: one cluster per group and
// an edge from every entry to the one after it, wrapping at the end.
func ToDOT(v *switcher.View) string {
	var buf bytes.Buffer
	buf.WriteString("digraph cycle {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=monospace];\n")
	buf.WriteString("\n")

	for gi, g := range v.Groups {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", gi)
		fmt.Fprintf(&buf, "    label=%q;\n", g.Title)
		for _, e := range v.Entries[g.Start:g.End] {
			fmt.Fprintf(&buf, "    %s [%s];\n", nodeID(e), strings.Join(nodeAttrs(e), ", "))
		}
		buf.WriteString("  }\n")
	}

	n := v.Len()
	if n > 1 {
		buf.WriteString("\n")
		for i := range n {
			next := (i + 1) % n
			attrs := ""
			if next == 0 {
				attrs = " [style=dashed, constraint=false]"
			}
			fmt.Fprintf(&buf, "  %s -> %s%s;\n", nodeID(v.Entries[i]), nodeID(v.Entries[next]), attrs)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(e switcher.Entry) string {
	return fmt.Sprintf("e%d", e.Index)
}

func nodeAttrs(e switcher.Entry) []string {
	label := fmt.Sprintf("%d: %s", e.Index, e.Title())
	if e.Label != nil {
		label += fmt.Sprintf("\n[%s]", formatLabel(*e.Label))
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if e.Selected {
		attrs = append(attrs, "fillcolor=palegreen", "penwidth=2")
	}
	return attrs
}

// RenderDOT renders a DOT graph to SVG using Graphviz.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

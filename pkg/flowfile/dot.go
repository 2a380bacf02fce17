package flowfile

import (
	"fmt"
	"strings"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
)

// GenerateDOT converts a diagram to Graphviz DOT format. Block positions are
// pinned with pos="x,y!" (y flipped, in points) so neato -n keeps the layout.
func GenerateDOT(d *flow.Diagram, title string) string {
	var sb strings.Builder

	sb.WriteString("digraph Flow {\n")
	sb.WriteString("    node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=11];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=9];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(title)))
		sb.WriteString("\n")
	}

	for _, b := range d.Blocks() {
		label := b.Label
		if label == "" {
			label = b.ID
		}
		c := b.Bounds().Center()
		sb.WriteString(fmt.Sprintf("    \"%s\" [label=\"%s\", pos=\"%g,%g!\", width=%g, height=%g];\n",
			escapeDOT(b.ID), escapeDOT(label), c.X, -c.Y, b.Width/72, b.Height/72))
	}
	sb.WriteString("\n")

	for _, c := range d.Connections() {
		from, ok1 := d.Pin(c.From)
		to, ok2 := d.Pin(c.To)
		if !ok1 || !ok2 {
			continue
		}
		sb.WriteString(fmt.Sprintf("    \"%s\" -> \"%s\" [taillabel=\"%s\", headlabel=\"%s\"];\n",
			escapeDOT(from.BlockID), escapeDOT(to.BlockID),
			escapeDOT(pinLabel(from)), escapeDOT(pinLabel(to))))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func pinLabel(p flow.Pin) string {
	if p.Label != "" {
		return p.Label
	}
	return p.ID
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "<", "\\<")
	s = strings.ReplaceAll(s, ">", "\\>")
	return s
}

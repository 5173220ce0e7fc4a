package ux

import (
	"fmt"
	"strings"
)

// GenerateDOT renders the interaction state machine in Graphviz DOT format.
// Edges are labelled with the guard and its rank among the state's rules.
func GenerateDOT(title string) string {
	var sb strings.Builder

	sb.WriteString("digraph UX {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11, shape=box, style=rounded];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		fmt.Fprintf(&sb, "    label=\"%s\";\n", escapeDOT(title))
		sb.WriteString("\n")
	}

	// Up is initial
	sb.WriteString("    __start [shape=none, label=\"\", width=0, height=0];\n")
	fmt.Fprintf(&sb, "    __start -> \"%s\";\n", StateUp)
	sb.WriteString("\n")

	for _, s := range AllStates() {
		attrs := []string{}
		if s == StateUp {
			attrs = append(attrs, "peripheries=2")
		}
		fmt.Fprintf(&sb, "    \"%s\" [%s];\n", s, strings.Join(attrs, ", "))
	}
	sb.WriteString("\n")

	for _, s := range AllStates() {
		for i, r := range transitions[s] {
			fmt.Fprintf(&sb, "    \"%s\" -> \"%s\" [label=\"%d: %s\"];\n",
				s, r.To, i+1, escapeDOT(r.Guard))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

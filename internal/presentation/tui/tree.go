// Package tui renders the state tree for the interactive CLI.
package tui

import (
	"strings"

	"github.com/muesli/termenv"

	"github.com/alvion/transitions/pkg/domain"
)

// RenderTree returns a colored indented view of the flattened state table.
// The active leaf and its ancestors are highlighted.
func RenderTree(states []*domain.State, active string) string {
	p := termenv.ColorProfile()
	activePath := map[string]bool{}
	if active != "" {
		segs := strings.Split(active, domain.Separator)
		for i := range segs {
			activePath[strings.Join(segs[:i+1], domain.Separator)] = true
		}
	}

	var b strings.Builder
	for _, st := range states {
		name := st.Name()
		line := strings.Repeat("  ", st.Level()) + st.LocalName()
		switch {
		case name == active:
			line = termenv.String(line + "  *").Foreground(p.Color("#34d399")).Bold().String()
		case activePath[name]:
			line = termenv.String(line).Foreground(p.Color("#a7f3d0")).String()
		default:
			line = termenv.String(line).Foreground(p.Color("#94a3b8")).String()
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

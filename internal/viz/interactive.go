package viz

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gasviz/internal/experiment"
)

// picker is the experiment menu opened with "e".
type picker struct {
	names  []string
	cursor int
}

func newPicker(reg *experiment.Registry, current string) *picker {
	p := &picker{names: reg.List()}
	for i, n := range p.names {
		if n == current {
			p.cursor = i
		}
	}
	return p
}

// key handles one key press. It returns the chosen experiment, and done once
// the menu should close.
func (p *picker) key(msg tea.KeyMsg) (chosen string, done bool) {
	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.names)-1 {
			p.cursor++
		}
	case "enter", " ":
		return p.names[p.cursor], true
	case "esc", "e", "q":
		return "", true
	}
	return "", false
}

func (p *picker) view(reg *experiment.Registry, st styles) string {
	var b strings.Builder
	b.WriteString(st.header.Render("EXPERIMENTS") + "\n\n")
	for i, name := range p.names {
		desc := ""
		if e, err := reg.Get(name); err == nil {
			desc = e.Description
		}
		line := name + "  " + st.keyHint.Render(desc)
		if i == p.cursor {
			b.WriteString(st.selected.Render("> "+name) + "  " + st.keyHint.Render(desc) + "\n")
			continue
		}
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n" + st.keyHint.Render("↑↓ select  enter run  esc close"))
	return st.panel.Render(b.String())
}

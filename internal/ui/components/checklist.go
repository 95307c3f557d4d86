package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/geoquiz/internal/ui/theme"
)

// Checklist is a list of toggles; space flips the highlighted entry.
type Checklist struct {
	Labels   []string
	Checked  []bool
	Selected int
}

func NewChecklist(labels []string, checked []bool) Checklist {
	c := Checklist{Labels: labels, Checked: make([]bool, len(labels))}
	copy(c.Checked, checked)
	return c
}

func (c Checklist) Update(msg tea.Msg) Checklist {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c
	}
	switch kmsg.String() {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Labels)-1 {
			c.Selected++
		}
	case "space", " ":
		checked := make([]bool, len(c.Checked))
		copy(checked, c.Checked)
		checked[c.Selected] = !checked[c.Selected]
		c.Checked = checked
	}
	return c
}

// Values returns the checked labels in order.
func (c Checklist) Values() []string {
	var out []string
	for i, l := range c.Labels {
		if c.Checked[i] {
			out = append(out, l)
		}
	}
	return out
}

func (c Checklist) View() string {
	var b strings.Builder
	for i, l := range c.Labels {
		box := "[ ]"
		if c.Checked[i] {
			box = "[x]"
		}
		style := theme.Unselected
		cursor := "  "
		if i == c.Selected {
			style, cursor = theme.Selected, "▸ "
		}
		b.WriteString(style.Render(cursor+box+" "+l) + "\n")
	}
	return b.String()
}

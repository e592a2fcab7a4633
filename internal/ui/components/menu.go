package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/placement/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of actions.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	selected := 0
	for i, item := range items {
		if !item.Disabled {
			selected = i
			break
		}
	}
	return Menu{
		Items:    items,
		Selected: selected,
	}
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k", "shift+tab":
		m.move(-1)
	case "down", "j", "tab":
		m.move(1)
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}

	return m, nil
}

// move selects the next enabled item in direction dir.
func (m *Menu) move(dir int) {
	for i := m.Selected + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

// View renders the menu.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		switch {
		case item.Disabled:
			b.WriteString(theme.Disabled.Render("    " + item.Label))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ " + item.Label))
		default:
			b.WriteString(theme.Unselected.Render("    " + item.Label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

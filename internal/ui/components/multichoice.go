package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/placement/internal/ui/theme"
)

// Choice is a single-answer option list. The cursor moves with the
// arrows; Space or a number key marks the option under it as chosen.
// Nothing is chosen initially.
type Choice struct {
	Options []string
	Cursor  int
	Chosen  int // -1 when nothing is chosen
}

// NewChoice creates an option list. If value matches an option it starts
// chosen.
func NewChoice(options []string, value string) Choice {
	c := Choice{Options: options, Chosen: -1}
	for i, opt := range options {
		if opt == value {
			c.Chosen, c.Cursor = i, i
		}
	}
	return c
}

// Update handles navigation and choosing. changed reports whether the
// chosen option changed.
func (c Choice) Update(msg tea.Msg) (Choice, bool) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(c.Options) == 0 {
		return c, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
		return c, false
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
		return c, false
	case "space":
		return c.choose(c.Cursor)
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		if i := int(key[0] - '1'); i < len(c.Options) {
			c.Cursor = i
			return c.choose(i)
		}
	}
	return c, false
}

func (c Choice) choose(i int) (Choice, bool) {
	changed := c.Chosen != i
	c.Chosen = i
	return c, changed
}

// Value returns the chosen option, or "" when nothing is chosen.
func (c Choice) Value() string {
	if c.Chosen < 0 || c.Chosen >= len(c.Options) {
		return ""
	}
	return c.Options[c.Chosen]
}

// View renders the options. focused shows the cursor.
func (c Choice) View(focused bool) string {
	var b strings.Builder
	for i, opt := range c.Options {
		mark := "( )"
		if i == c.Chosen {
			mark = "(•)"
		}
		prefix := "  "
		if focused && i == c.Cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s %d. %s", prefix, mark, i+1, opt)

		switch {
		case focused && i == c.Cursor:
			b.WriteString(theme.Selected.Render(line))
		case i == c.Chosen:
			b.WriteString(theme.Body.Bold(true).Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/placement/internal/ui/theme"
)

// Button is a styled button. A focused button fires OnPress on Enter
// unless it is disabled.
type Button struct {
	Label    string
	Focused  bool
	Disabled bool
	OnPress  func() tea.Cmd
}

// NewButton creates a new button.
func NewButton(label string, focused bool, onPress func() tea.Cmd) Button {
	return Button{
		Label:   label,
		Focused: focused,
		OnPress: onPress,
	}
}

// Update handles key events.
func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	if !b.Focused || b.Disabled {
		return b, nil
	}

	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		if kmsg.String() == "enter" && b.OnPress != nil {
			return b, b.OnPress()
		}
	}

	return b, nil
}

// View renders the button.
func (b Button) View() string {
	switch {
	case b.Disabled:
		return theme.ButtonDisabled.Render(b.Label)
	case b.Focused:
		return theme.ButtonActive.Render("▸ " + b.Label)
	default:
		return theme.ButtonInactive.Render(b.Label)
	}
}

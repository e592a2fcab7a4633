package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/placement/internal/ui/theme"
)

// Field is a labelled single-line input with an inline error.
type Field struct {
	Label       string
	Model       textinput.Model
	NumericOnly bool
	Err         string
}

// NewField creates a new blurred field.
func NewField(label, placeholder string, numericOnly bool, charLimit int) Field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return Field{Label: label, Model: ti, NumericOnly: numericOnly}
}

// Focus focuses the input and returns the cursor blink command.
func (f *Field) Focus() tea.Cmd {
	return f.Model.Focus()
}

// Blur removes focus.
func (f *Field) Blur() {
	f.Model.Blur()
}

// Update handles messages. Numeric fields drop non-digit characters.
func (f Field) Update(msg tea.Msg) (Field, tea.Cmd) {
	if f.NumericOnly {
		if kmsg, ok := msg.(tea.KeyPressMsg); ok {
			key := kmsg.String()
			if len(key) == 1 && (key[0] < '0' || key[0] > '9') {
				return f, nil
			}
		}
	}

	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// View renders the label, the input and the error, if any.
func (f Field) View(width int) string {
	f.Model.SetWidth(max(width-4, 10))
	label := theme.Label.Render(f.Label)
	if f.Model.Focused() {
		label = theme.Selected.Render(f.Label)
	}
	view := label + "\n" + f.Model.View()
	if f.Err != "" {
		view += "\n" + theme.ErrorText.Render(f.Err)
	}
	return view
}

// Value returns the current input value.
func (f Field) Value() string {
	return f.Model.Value()
}

// SetValue replaces the input value.
func (f *Field) SetValue(v string) {
	f.Model.SetValue(v)
}

package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
)

// Editor is a multi-line answer box for writing and speaking tasks.
type Editor struct {
	Model textarea.Model
}

// NewEditor creates a blurred editor holding value.
func NewEditor(placeholder, value string) Editor {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000
	ta.SetHeight(6)
	ta.SetValue(value)
	return Editor{Model: ta}
}

// Focus focuses the editor.
func (e *Editor) Focus() tea.Cmd {
	return e.Model.Focus()
}

// Blur removes focus.
func (e *Editor) Blur() {
	e.Model.Blur()
}

// Focused reports whether the editor has focus.
func (e Editor) Focused() bool {
	return e.Model.Focused()
}

// Update forwards messages to the textarea.
func (e Editor) Update(msg tea.Msg) (Editor, tea.Cmd) {
	var cmd tea.Cmd
	e.Model, cmd = e.Model.Update(msg)
	return e, cmd
}

// View renders the editor at width.
func (e Editor) View(width int) string {
	e.Model.SetWidth(max(width, 20))
	return e.Model.View()
}

// Value returns the text.
func (e Editor) Value() string {
	return e.Model.Value()
}

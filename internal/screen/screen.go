package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/placement/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is implemented by screens that hold resources, such as an
// audio device, which must be released when the screen goes away.
type Closer interface {
	Close()
}

// Release closes s if it holds resources.
func Release(s Screen) {
	if c, ok := s.(Closer); ok {
		c.Close()
	}
}

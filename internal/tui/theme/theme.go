// Package theme loads the color themes of the board TUI.
package theme

import (
	"cmp"
	"embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultName is the theme used when none is configured or the name is unknown.
const DefaultName = "mocha"

// ErrInvalidColor is returned when a theme color is not a #rrggbb hex string.
var ErrInvalidColor = errors.New("color must be #rrggbb")

//go:embed embedded/*.toml
var embedded embed.FS

var names = []string{"mocha", "macchiato", "frappe", "latte", "light"}

// Theme is one embedded color scheme.
type Theme struct {
	Name      string `toml:"name"`
	Bg        string `toml:"bg"`
	Surface   string `toml:"surface"`   // Raised areas such as inactive tabs
	Selection string `toml:"selection"` // Selected row in the task panel
	Fg        string `toml:"fg"`
	Muted     string `toml:"muted"`
	Accent    string `toml:"accent"`
	Booking   string `toml:"booking"`
	Focus     string `toml:"focus"` // Move preview and status messages
	Current   string `toml:"current"`
	Warning   string `toml:"warning"` // Overlaps, errors and resize

	Panel PanelColors `toml:"panel"`
}

// PanelColors are optional task panel overrides.
type PanelColors struct {
	Border string `toml:"border"`
	Muted  string `toml:"muted"`
}

// Load returns the named theme. Unknown names load DefaultName.
func Load(name string) (*Theme, error) {
	name = strings.ToLower(name)
	if !IsAvailable(name) {
		name = DefaultName
	}

	data, err := embedded.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		return nil, fmt.Errorf("reading theme %q: %w", name, err)
	}
	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.Panel.Border = cmp.Or(t.Panel.Border, t.Accent)
	t.Panel.Muted = cmp.Or(t.Panel.Muted, t.Muted)

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("theme %q: %w", name, err)
	}
	return &t, nil
}

// Validate checks that every color parses.
func (t *Theme) Validate() error {
	colors := []struct{ field, hex string }{
		{"bg", t.Bg}, {"surface", t.Surface}, {"selection", t.Selection},
		{"fg", t.Fg}, {"muted", t.Muted}, {"accent", t.Accent},
		{"booking", t.Booking}, {"focus", t.Focus}, {"current", t.Current},
		{"warning", t.Warning}, {"panel.border", t.Panel.Border}, {"panel.muted", t.Panel.Muted},
	}
	for _, c := range colors {
		if _, ok := parseRGB(c.hex); !ok {
			return fmt.Errorf("%s %q: %w", c.field, c.hex, ErrInvalidColor)
		}
	}
	return nil
}

// Available returns the theme names in display order.
func Available() []string {
	return slices.Clone(names)
}

// IsAvailable reports whether name is a theme, ignoring case.
func IsAvailable(name string) bool {
	return slices.Contains(names, strings.ToLower(name))
}

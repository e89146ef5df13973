package style

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// fallbackIndicator is drawn for keys with no indicator definition
const fallbackIndicator = "•"

// Theme renders styled text for one writer
type Theme struct {
	registry *Registry
	renderer *lipgloss.Renderer
	plain    bool
	cache    map[string]lipgloss.Style
}

// NewTheme creates a theme for w using the embedded styles. Color is used
// only when w is a terminal and NO_COLOR is not set.
func NewTheme(w io.Writer) *Theme {
	return NewThemeWith(Default(), w, !ColorEnabled(w))
}

// NewThemeWith creates a theme from an explicit registry. A plain theme
// never emits escape sequences.
func NewThemeWith(reg *Registry, w io.Writer, plain bool) *Theme {
	if reg == nil {
		reg = Default()
	}
	t := &Theme{
		registry: reg,
		renderer: lipgloss.NewRenderer(w),
		plain:    plain,
		cache:    make(map[string]lipgloss.Style),
	}
	if plain {
		t.renderer.SetColorProfile(termenv.Ascii)
	}
	return t
}

// ColorEnabled reports whether w should receive colored output
func ColorEnabled(w io.Writer) bool {
	if termenv.EnvNoColor() {
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetProfile forces a color profile, mainly for tests
func (t *Theme) SetProfile(p termenv.Profile) {
	t.renderer.SetColorProfile(p)
	t.plain = p == termenv.Ascii
	t.cache = make(map[string]lipgloss.Style)
}

// Plain reports whether the theme emits unstyled text
func (t *Theme) Plain() bool {
	return t.plain
}

// Style returns the named style bound to this theme's renderer
func (t *Theme) Style(name string) lipgloss.Style {
	if s, ok := t.cache[name]; ok {
		return s
	}
	s := t.registry.build(t.renderer, name)
	t.cache[name] = s
	return s
}

// Render draws text in the named style
func (t *Theme) Render(name, text string) string {
	if t.plain || text == "" {
		return text
	}
	return t.Style(name).Render(text)
}

// Indicator draws the marker for an outcome, status or removal key
func (t *Theme) Indicator(key string) string {
	def, ok := t.registry.Indicator(key)
	if !ok {
		return fallbackIndicator
	}
	return t.Render(def.Style, def.Symbol)
}

// Strip removes escape sequences from s
func Strip(s string) string {
	return ansi.Strip(s)
}

// Width is the printable width of s
func Width(s string) int {
	return ansi.StringWidth(s)
}

// Package style defines the visual styling of homie's terminal output.
//
// Colors, styles and indicators live in an embedded styles.yaml and are
// referred to by semantic name ("Success", "Path", "created"). Colors are
// adaptive so the same definitions work on light and dark terminals.
package style

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

//go:embed styles.yaml
var defaultStyles []byte

// ColorDef is an adaptive color definition
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef is a style definition. Foreground and Background name colors.
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
	Faint      bool   `yaml:"faint,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Background string `yaml:"background,omitempty"`
}

// IndicatorDef is a one-character marker and the style it is drawn in
type IndicatorDef struct {
	Symbol string `yaml:"symbol"`
	Style  string `yaml:"style"`
}

// Config is the complete styles file
type Config struct {
	Colors     map[string]ColorDef     `yaml:"colors"`
	Styles     map[string]StyleDef     `yaml:"styles"`
	Indicators map[string]IndicatorDef `yaml:"indicators"`
}

// Registry holds parsed style definitions. Styles are built per renderer.
type Registry struct {
	colors     map[string]lipgloss.AdaptiveColor
	styles     map[string]StyleDef
	indicators map[string]IndicatorDef
}

var defaultRegistry *Registry

func init() {
	reg, err := Parse(defaultStyles)
	if err != nil {
		panic(fmt.Sprintf("failed to load styles: %v", err))
	}
	defaultRegistry = reg
}

// Default returns the registry built from the embedded styles
func Default() *Registry {
	return defaultRegistry
}

// LoadFile parses a styles file from disk
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read styles file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a registry from YAML. Styles referring to unknown colors and
// indicators referring to unknown styles are rejected.
func Parse(data []byte) (*Registry, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse styles: %w", err)
	}

	reg := &Registry{
		colors:     make(map[string]lipgloss.AdaptiveColor, len(config.Colors)),
		styles:     make(map[string]StyleDef, len(config.Styles)),
		indicators: make(map[string]IndicatorDef, len(config.Indicators)),
	}
	for name, def := range config.Colors {
		reg.colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}
	for name, def := range config.Styles {
		for _, c := range []string{def.Foreground, def.Background} {
			if _, ok := reg.colors[c]; c != "" && !ok {
				return nil, fmt.Errorf("style %s: unknown color %q", name, c)
			}
		}
		reg.styles[name] = def
	}
	for name, def := range config.Indicators {
		if _, ok := reg.styles[def.Style]; def.Style != "" && !ok {
			return nil, fmt.Errorf("indicator %s: unknown style %q", name, def.Style)
		}
		reg.indicators[name] = def
	}
	return reg, nil
}

// HasStyle reports whether name is defined
func (r *Registry) HasStyle(name string) bool {
	_, ok := r.styles[name]
	return ok
}

// Indicator returns the indicator definition for key
func (r *Registry) Indicator(key string) (IndicatorDef, bool) {
	def, ok := r.indicators[key]
	return def, ok
}

// build constructs a lipgloss style bound to renderer
func (r *Registry) build(renderer *lipgloss.Renderer, name string) lipgloss.Style {
	style := renderer.NewStyle()
	def, ok := r.styles[name]
	if !ok {
		return style
	}

	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}
	if def.Faint {
		style = style.Faint(true)
	}
	if color, ok := r.colors[def.Foreground]; ok {
		style = style.Foreground(color)
	}
	if color, ok := r.colors[def.Background]; ok {
		style = style.Background(color)
	}
	return style
}

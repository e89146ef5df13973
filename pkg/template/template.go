// Package template renders homie's placeholder syntax.
//
//	{{name}}          value of name, an error when undefined
//	{{name?}}         value of name, empty when undefined
//	{{name:default}}  value of name, the literal default when undefined
//
// Names may contain letters, digits, '_', '-' and '.', so environment
// variables exposed as env.NAME work like any other variable. Whitespace
// around the name is ignored, but a default is taken literally, spaces
// included: {{x: a }} renders " a " when x is undefined. Rendering is a
// single substitution pass: substituted values are never scanned again, and
// anything that does not fit the grammar is copied through unchanged.
package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/arthur-debert/homie/pkg/errors"
	"github.com/arthur-debert/homie/pkg/types"
)

var placeholder = regexp.MustCompile(`\{\{\s*([\p{L}\p{N}_.\-]+)\s*(\?|:([^}]*))?\s*\}\}`)

// MissingVariableError names the first required variable that was undefined
type MissingVariableError struct {
	Name string

	// Names lists every undefined required variable, in order of appearance
	Names []string
}

func (e *MissingVariableError) Error() string {
	if len(e.Names) > 1 {
		return fmt.Sprintf("undefined template variables: %s", strings.Join(e.Names, ", "))
	}
	return fmt.Sprintf("undefined template variable: %s", e.Name)
}

// Render substitutes placeholders in content
func Render(content string, vars map[string]string) (string, error) {
	var missing []string
	seen := map[string]bool{}

	out := placeholder.ReplaceAllStringFunc(content, func(m string) string {
		sub := placeholder.FindStringSubmatch(m)
		name, modifier, def := sub[1], sub[2], sub[3]

		if v, ok := vars[name]; ok {
			return v
		}
		switch {
		case modifier == "?":
			return ""
		case strings.HasPrefix(modifier, ":"):
			return def
		}
		if !seen[name] {
			seen[name] = true
			missing = append(missing, name)
		}
		return m
	})

	if len(missing) > 0 {
		return "", &MissingVariableError{Name: missing[0], Names: missing}
	}
	return out, nil
}

// RenderFile reads a template from fsys and renders it
func RenderFile(fsys types.FS, path string, vars map[string]string) ([]byte, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateRead, "failed to read template %s", path)
	}
	out, err := Render(string(data), vars)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrMissingVariable, "failed to render %s", path).
			WithDetail("path", path)
	}
	return []byte(out), nil
}

// Placeholders lists the distinct variable names referenced by content, with
// whether each is required (no ? or default).
func Placeholders(content string) map[string]bool {
	refs := map[string]bool{}
	for _, sub := range placeholder.FindAllStringSubmatch(content, -1) {
		required := sub[2] == ""
		refs[sub[1]] = refs[sub[1]] || required
	}
	return refs
}

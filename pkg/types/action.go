package types

import "fmt"

// ActionKind is the filesystem mechanism used to place a unit
type ActionKind string

const (
	// ActionSymlink places the unit as a symlink to its source
	ActionSymlink ActionKind = "symlink"

	// ActionCopy places the unit as a byte copy of its source
	ActionCopy ActionKind = "copy"

	// ActionRender places the unit as the rendered content of a .tmpl source
	ActionRender ActionKind = "render"
)

// TemplateSuffix marks sources that are rendered instead of linked
const TemplateSuffix = ".tmpl"

// ParseActionKind converts a manifest tag into an ActionKind
func ParseActionKind(s string) (ActionKind, error) {
	switch ActionKind(s) {
	case ActionSymlink, ActionCopy, ActionRender:
		return ActionKind(s), nil
	}
	return "", fmt.Errorf("unknown action kind %q", s)
}

func (a ActionKind) String() string {
	return string(a)
}

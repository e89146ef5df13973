package types

import (
	"path/filepath"
	"strings"
)

// Unit is the atomic thing being reconciled: one source path placed at one
// target path with one strategy and one action kind.
type Unit struct {
	// RelPath is the repo-relative source path after import remapping.
	// Template units keep their .tmpl suffix here.
	RelPath string

	// TargetRel is the path relative to the repo target; it keys the manifest
	TargetRel string

	// Source is the absolute source path inside the repo or import layer
	Source string

	// Target is the absolute destination path
	Target string

	Strategy Strategy
	Action   ActionKind

	// Layer is empty for the repository itself, otherwise the import name
	Layer string

	// IsDir is true for units that place a whole directory
	IsDir bool
}

// FromImport reports whether the unit comes from an imported tree
func (u Unit) FromImport() bool {
	return u.Layer != ""
}

// IsTemplatePath reports whether a source path names a template
func IsTemplatePath(rel string) bool {
	return strings.HasSuffix(rel, TemplateSuffix) && filepath.Base(rel) != TemplateSuffix
}

// TargetRelFor strips the template suffix for rendered units
func TargetRelFor(rel string, action ActionKind) string {
	if action == ActionRender {
		return strings.TrimSuffix(rel, TemplateSuffix)
	}
	return rel
}

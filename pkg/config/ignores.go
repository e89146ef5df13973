package config

import "github.com/arthur-debert/homie/pkg/glob"

// defaultIgnores are never placed, whatever the repository says. Repository
// furniture is anchored at the root: a README.md inside .config/nvim is a
// dotfile like any other. Version-control metadata and Finder litter are
// ignored at any depth.
var defaultIgnores = []string{
	"/homie.toml",
	".git",
	"/.git/**",
	"/.homie",
	"/.homie/**",
	".DS_Store",
	"**/.DS_Store",
	"/README.md",
	"/README",
	"/LICENSE",
	"/LICENSE.md",
	"/.gitignore",
}

// DefaultIgnores returns the fixed ignore list
func DefaultIgnores() []string {
	out := make([]string, len(defaultIgnores))
	copy(out, defaultIgnores)
	return out
}

// IgnoreSet compiles the default ignores followed by the repository's own
func (c *RepoConfig) IgnoreSet() (glob.Set, error) {
	return glob.CompileAll(append(DefaultIgnores(), c.Ignore.Paths...))
}

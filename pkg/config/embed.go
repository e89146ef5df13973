package config

import (
	_ "embed"
)

//go:embed embedded/defaults.toml
var defaultGlobalConfig []byte

//go:embed embedded/homie.toml
var repoConfigTemplate []byte

// RepoConfigTemplate returns the commented homie.toml written by init.
// It contains {{name}} and {{target}} placeholders.
func RepoConfigTemplate() string {
	return string(repoConfigTemplate)
}

// Package paths centralizes every filesystem location homie knows about.
//
// Global locations (config file, repos root, state dir) follow the XDG Base
// Directory layout through github.com/adrg/xdg and can each be overridden by
// an environment variable. Repo-scoped locations (homie.toml, the .homie
// state directory, the manifest and the import cache) are plain functions of
// the repository path.
//
// The package also owns the small pure helpers used when comparing paths:
// home expansion, lexical containment and link target resolution.
package paths

// pkg/config/repo_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: afero MemMapFs
// PURPOSE: Test homie.toml decoding, declaration order recovery and validation

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/homie/pkg/errors"
	"github.com/arthur-debert/homie/pkg/filesystem"
	"github.com/arthur-debert/homie/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullRepoConfig = `
target = "~"

[vars]
email = "me@example.com"
port = 8080
dark = true

[defaults]
strategy = "file"

[strategies]
"*.sh" = "copy"
".config/nvim" = "directory"
"bin/*" = "copy"
".ssh" = "contents"

[ignore]
paths = ["*.swp", "scratch/"]

[[imports]]
source = "https://github.com/someone/shared.git"
ref = "main"
paths = [".config/git"]

[[imports.remap]]
from = ".config/git"
to = ".config/git-shared"

[[imports]]
source = "~/work/dots"
name = "work"
`

func TestParseRepo_Full(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := ParseRepo([]byte(fullRepoConfig), "homie.toml")
	require.NoError(t, err)

	assert.Equal(t, home, cfg.Target)
	assert.Equal(t, map[string]string{"email": "me@example.com", "port": "8080", "dark": "true"}, cfg.Vars)
	assert.Equal(t, types.StrategyFile, cfg.Defaults.Strategy)
	assert.Equal(t, types.StrategyDirectory, cfg.Strategies[".config/nvim"])
	assert.Equal(t, []string{"*.sh", ".config/nvim", "bin/*", ".ssh"}, cfg.StrategyOrder)
	assert.Equal(t, []string{"*.swp", "scratch/"}, cfg.Ignore.Paths)

	require.Len(t, cfg.Imports, 2)
	assert.Equal(t, "https://github.com/someone/shared.git", cfg.Imports[0].Source)
	assert.Equal(t, "main", cfg.Imports[0].Ref)
	assert.Equal(t, []RemapRule{{From: ".config/git", To: ".config/git-shared"}}, cfg.Imports[0].Remap)
	assert.Equal(t, "work", cfg.Imports[1].Name)
	assert.Equal(t, []string{"dark", "email", "port"}, cfg.VarNames())
}

func TestParseRepo_InlineStrategiesOrder(t *testing.T) {
	cfg, err := ParseRepo([]byte(`
target = "/tmp/t"
strategies = { "zz/*" = "copy", "aa/*" = "file", "mm" = "contents" }
`), "homie.toml")
	require.NoError(t, err)
	assert.Equal(t, []string{"zz/*", "aa/*", "mm"}, cfg.StrategyOrder)
}

func TestParseRepo_Minimal(t *testing.T) {
	cfg, err := ParseRepo([]byte(`target = "/tmp/target"`), "homie.toml")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/target", cfg.Target)
	assert.Empty(t, cfg.Vars)
	assert.Empty(t, cfg.Strategies)
	assert.Empty(t, cfg.StrategyOrder)
	assert.Equal(t, types.Strategy(""), cfg.Defaults.Strategy)
}

func TestParseRepo_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.ErrorCode
		msg     string
	}{
		{"missing target", `[vars]`, errors.ErrConfigValid, "target is required"},
		{"bad strategy", "target = \"/t\"\n[strategies]\n\"x\" = \"symlink\"", errors.ErrConfigValid, "unknown strategy"},
		{"bad default", "target = \"/t\"\n[defaults]\nstrategy = \"link\"", errors.ErrConfigValid, "defaults.strategy"},
		{"bad glob", "target = \"/t\"\n[strategies]\n\"[x\" = \"file\"", errors.ErrConfigValid, "invalid glob"},
		{"bad ignore", "target = \"/t\"\n[ignore]\npaths = [\"[x\"]", errors.ErrConfigValid, "ignore.paths"},
		{"empty import", "target = \"/t\"\n[[imports]]\nref = \"main\"", errors.ErrConfigValid, "source is required"},
		{"empty remap", "target = \"/t\"\n[[imports]]\nsource = \"/x\"\n[[imports.remap]]\nto = \"y\"", errors.ErrConfigValid, "from is required"},
		{"duplicate import names", "target = \"/t\"\n[[imports]]\nsource = \"/x\"\nname = \"a\"\n[[imports]]\nsource = \"/y\"\nname = \"a\"", errors.ErrConfigValid, "duplicate name"},
		{"syntax", "target = ", errors.ErrConfigParse, "failed to parse"},
		{"wrong type", "target = 3", errors.ErrConfigParse, "failed to parse"},
		{"unsupported var", "target = \"/t\"\n[vars]\nlist = [1, 2]", errors.ErrConfigValid, "vars.list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRepo([]byte(tt.content), "homie.toml")
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
			assert.Contains(t, err.Error(), tt.msg)
			assert.True(t, errors.IsConfigError(err))
		})
	}
}

func TestLoadRepo(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.MkdirAll("/repos/dots", 0755))

	_, err := LoadRepo(fsys, "/repos/dots")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))

	require.NoError(t, fsys.WriteFile(filepath.Join("/repos/dots", "homie.toml"), []byte(`target = "/home/u"`), 0644))
	cfg, err := LoadRepo(fsys, "/repos/dots")
	require.NoError(t, err)
	assert.Equal(t, "/home/u", cfg.Target)
	assert.Equal(t, "/repos/dots/homie.toml", cfg.Path)
}

func TestIgnoreSet(t *testing.T) {
	cfg, err := ParseRepo([]byte("target = \"/t\"\n[ignore]\npaths = [\"*.swp\", \"cache/\"]"), "homie.toml")
	require.NoError(t, err)

	set, err := cfg.IgnoreSet()
	require.NoError(t, err)

	assert.True(t, set.Matches("homie.toml", false))
	assert.True(t, set.Matches(".git", true))
	assert.True(t, set.Matches(".git/config", false))
	assert.True(t, set.Matches(".homie/manifest.toml", false))
	assert.True(t, set.Matches("deep/.DS_Store", false))
	assert.True(t, set.Matches("README.md", false))
	assert.True(t, set.Matches("LICENSE", false))
	assert.True(t, set.Matches("vendor/.git", true))
	assert.False(t, set.Matches(".config/nvim/README.md", false))
	assert.False(t, set.Matches("docs/LICENSE", false))
	assert.False(t, set.Matches(".config/git/.gitignore", false))
	assert.True(t, set.Matches(".vimrc.swp", false))
	assert.True(t, set.Matches("cache", true))
	assert.False(t, set.Matches("cache", false))
	assert.False(t, set.Matches(".vimrc", false))
}

func TestRepoConfigTemplate(t *testing.T) {
	tmpl := RepoConfigTemplate()
	assert.Contains(t, tmpl, `target = "{{target}}"`)
	assert.Contains(t, tmpl, "{{name}}")
}

package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/arthur-debert/homie/pkg/errors"
	"github.com/arthur-debert/homie/pkg/paths"
	"github.com/arthur-debert/homie/pkg/types"
	"github.com/pelletier/go-toml/v2"
)

// RepoConfig is the decoded homie.toml of one repository
type RepoConfig struct {
	// Target is the expanded, absolute destination root
	Target string

	Vars     map[string]string
	Defaults Defaults

	// Strategies maps exact paths and globs to strategies
	Strategies map[string]types.Strategy

	// StrategyOrder lists Strategies keys in declaration order
	StrategyOrder []string

	Ignore  IgnoreConfig
	Imports []ImportConfig

	// Path is the homie.toml this was loaded from
	Path string
}

// Defaults holds repo-level fallbacks
type Defaults struct {
	Strategy types.Strategy
}

// IgnoreConfig lists user ignore globs
type IgnoreConfig struct {
	Paths []string
}

// ImportConfig declares one imported tree
type ImportConfig struct {
	Source string
	Ref    string
	Name   string
	Paths  []string
	Remap  []RemapRule
}

// RemapRule rewrites a path prefix from an import
type RemapRule struct {
	From string
	To   string
}

// rawRepoConfig mirrors homie.toml. Values are loose so that
// validation can report problems in homie's own terms.
type rawRepoConfig struct {
	Target     string            `toml:"target"`
	Vars       map[string]any    `toml:"vars"`
	Defaults   rawDefaults       `toml:"defaults"`
	Strategies map[string]string `toml:"strategies"`
	Ignore     rawIgnore         `toml:"ignore"`
	Imports    []rawImport       `toml:"imports"`
}

type rawDefaults struct {
	Strategy string `toml:"strategy"`
}

type rawIgnore struct {
	Paths []string `toml:"paths"`
}

type rawImport struct {
	Source string     `toml:"source"`
	Ref    string     `toml:"ref"`
	Name   string     `toml:"name"`
	Paths  []string   `toml:"paths"`
	Remap  []rawRemap `toml:"remap"`
}

type rawRemap struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// LoadRepo reads and validates <repoPath>/homie.toml
func LoadRepo(fsys types.FS, repoPath string) (*RepoConfig, error) {
	path := paths.RepoConfigPath(repoPath)
	data, err := fsys.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "no %s in %s", paths.RepoConfigFile, repoPath).
				WithDetail("path", path)
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read %s", path).
			WithDetail("path", path)
	}
	return ParseRepo(data, path)
}

// ParseRepo decodes and validates homie.toml content. path is used for
// error messages only.
func ParseRepo(data []byte, path string) (*RepoConfig, error) {
	var raw rawRepoConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		e := errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path).WithDetail("path", path)
		var derr *toml.DecodeError
		if stderrors.As(err, &derr) {
			row, col := derr.Position()
			e = e.WithDetail("line", row).WithDetail("column", col)
		}
		return nil, e
	}

	order, err := strategyOrder(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path).WithDetail("path", path)
	}

	cfg, err := raw.build(order)
	if err != nil {
		if he, ok := err.(*errors.HomieError); ok {
			return nil, he.WithDetail("path", path)
		}
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

func (r *rawRepoConfig) build(order []string) (*RepoConfig, error) {
	if strings.TrimSpace(r.Target) == "" {
		return nil, errors.New(errors.ErrConfigValid, "target is required")
	}
	target, err := paths.Normalize(r.Target)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "invalid target")
	}

	cfg := &RepoConfig{
		Target:     target,
		Vars:       make(map[string]string, len(r.Vars)),
		Strategies: make(map[string]types.Strategy, len(r.Strategies)),
		Ignore:     IgnoreConfig{Paths: r.Ignore.Paths},
	}

	for name, v := range r.Vars {
		s, err := stringify(v)
		if err != nil {
			return nil, errors.Newf(errors.ErrConfigValid, "vars.%s: %v", name, err)
		}
		cfg.Vars[name] = s
	}

	if r.Defaults.Strategy != "" {
		s, err := types.ParseStrategy(r.Defaults.Strategy)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigValid, "defaults.strategy")
		}
		cfg.Defaults.Strategy = s
	}

	for key, value := range r.Strategies {
		s, err := types.ParseStrategy(value)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigValid, "strategies.%q", key)
		}
		cfg.Strategies[key] = s
	}
	cfg.StrategyOrder = completeOrder(order, cfg.Strategies)

	for _, imp := range r.Imports {
		ic := ImportConfig{
			Source: strings.TrimSpace(imp.Source),
			Ref:    imp.Ref,
			Name:   imp.Name,
			Paths:  imp.Paths,
		}
		for _, rm := range imp.Remap {
			ic.Remap = append(ic.Remap, RemapRule(rm))
		}
		cfg.Imports = append(cfg.Imports, ic)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks strategy patterns, ignore globs and imports
func (c *RepoConfig) Validate() error {
	for key := range c.Strategies {
		if strings.TrimSpace(key) == "" {
			return errors.New(errors.ErrConfigValid, "strategies contains an empty path")
		}
		if err := validatePattern(key); err != nil {
			return errors.Wrapf(err, errors.ErrConfigValid, "strategies.%q", key)
		}
	}
	for _, p := range c.Ignore.Paths {
		if err := validatePattern(p); err != nil {
			return errors.Wrap(err, errors.ErrConfigValid, "ignore.paths")
		}
	}
	seen := map[string]bool{}
	for i, imp := range c.Imports {
		if imp.Source == "" {
			return errors.Newf(errors.ErrConfigValid, "imports[%d]: source is required", i)
		}
		for _, p := range imp.Paths {
			if err := validatePattern(p); err != nil {
				return errors.Wrapf(err, errors.ErrConfigValid, "imports[%d].paths", i)
			}
		}
		for j, rm := range imp.Remap {
			if strings.TrimSpace(rm.From) == "" {
				return errors.Newf(errors.ErrConfigValid, "imports[%d].remap[%d]: from is required", i, j)
			}
		}
		if imp.Name != "" {
			if seen[imp.Name] {
				return errors.Newf(errors.ErrConfigValid, "imports[%d]: duplicate name %q", i, imp.Name)
			}
			seen[imp.Name] = true
		}
	}
	return nil
}

// VarNames returns the sorted variable names
func (c *RepoConfig) VarNames() []string {
	names := make([]string, 0, len(c.Vars))
	for n := range c.Vars {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func stringify(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool, int64, float64, int:
		return fmt.Sprint(t), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", v)
	}
}

// completeOrder keeps keys found by the order scan and appends any the scan
// missed, sorted, so every strategy key has a position.
func completeOrder(order []string, strategies map[string]types.Strategy) []string {
	out := make([]string, 0, len(strategies))
	seen := make(map[string]bool, len(strategies))
	for _, k := range order {
		if _, ok := strategies[k]; ok && !seen[k] {
			out = append(out, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range strategies {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

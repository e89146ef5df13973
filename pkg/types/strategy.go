package types

import "fmt"

// Strategy is the policy for how a source path becomes a target entry
type Strategy string

const (
	// StrategyFile links every leaf individually
	StrategyFile Strategy = "file"

	// StrategyDirectory links a whole directory as one symlink
	StrategyDirectory Strategy = "directory"

	// StrategyContents creates a real target directory and links its children
	StrategyContents Strategy = "contents"

	// StrategyCopy copies every leaf instead of linking it
	StrategyCopy Strategy = "copy"
)

// DefaultStrategy applies when neither overrides nor the repo default say otherwise
const DefaultStrategy = StrategyFile

// AllStrategies lists the valid strategies in documentation order
var AllStrategies = []Strategy{StrategyFile, StrategyDirectory, StrategyContents, StrategyCopy}

// ParseStrategy converts a config value into a Strategy
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range AllStrategies {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown strategy %q (want file, directory, contents or copy)", s)
}

// IsDirectoryBoundary reports whether a directory resolved to this strategy
// is handled at the directory itself rather than per leaf.
func (s Strategy) IsDirectoryBoundary() bool {
	return s == StrategyDirectory || s == StrategyContents
}

func (s Strategy) String() string {
	return string(s)
}

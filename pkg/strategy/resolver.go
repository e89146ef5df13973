// Package strategy decides how each repository path is placed.
//
// Resolution order, first hit wins:
//  1. an exact path in the strategies table
//  2. the most specific matching glob (ties go to the earlier declaration)
//  3. the repository default
//  4. file
package strategy

import (
	"strings"

	"github.com/arthur-debert/homie/pkg/glob"
	"github.com/arthur-debert/homie/pkg/types"
	lru "github.com/hashicorp/golang-lru/v2"
)

const cacheSize = 1024

type rule struct {
	pattern  glob.Pattern
	strategy types.Strategy
	score    int
}

type match struct {
	strategy types.Strategy
	ok       bool
}

// Resolver is immutable after construction apart from its memo
type Resolver struct {
	exact    map[string]types.Strategy
	globs    []rule
	fallback types.Strategy
	cache    *lru.Cache[string, match]
}

// Rule is one entry of the strategies table, in declaration order
type Rule struct {
	Pattern  string
	Strategy types.Strategy
}

// New builds a resolver. rules must be in declaration order; defaultStrategy
// may be empty, meaning file.
func New(rules []Rule, defaultStrategy types.Strategy) (*Resolver, error) {
	r := &Resolver{
		exact:    map[string]types.Strategy{},
		fallback: defaultStrategy,
	}
	if r.fallback == "" {
		r.fallback = types.DefaultStrategy
	}

	for _, rl := range rules {
		key := normalize(rl.Pattern)
		if !glob.HasMeta(key) {
			if _, dup := r.exact[key]; !dup {
				r.exact[key] = rl.Strategy
			}
			continue
		}
		p, err := glob.Compile(key)
		if err != nil {
			return nil, err
		}
		r.globs = append(r.globs, rule{pattern: p, strategy: rl.Strategy, score: p.Specificity()})
	}

	cache, err := lru.New[string, match](cacheSize)
	if err != nil {
		return nil, err
	}
	r.cache = cache
	return r, nil
}

// FromTable builds a resolver from a strategies map and its key order
func FromTable(table map[string]types.Strategy, order []string, defaultStrategy types.Strategy) (*Resolver, error) {
	rules := make([]Rule, 0, len(order))
	for _, key := range order {
		if s, ok := table[key]; ok {
			rules = append(rules, Rule{Pattern: key, Strategy: s})
		}
	}
	return New(rules, defaultStrategy)
}

// Resolve returns the strategy for a repository-relative path
func (r *Resolver) Resolve(rel string) types.Strategy {
	if s, ok := r.Match(rel); ok {
		return s
	}
	return r.fallback
}

// Match returns only explicit matches: an exact entry or a glob.
// Callers use it to tell an inherited strategy from a declared one.
func (r *Resolver) Match(rel string) (types.Strategy, bool) {
	rel = normalize(rel)
	if m, ok := r.cache.Get(rel); ok {
		return m.strategy, m.ok
	}

	m := r.match(rel)
	r.cache.Add(rel, m)
	return m.strategy, m.ok
}

// Default returns the strategy used when nothing matches
func (r *Resolver) Default() types.Strategy {
	return r.fallback
}

func (r *Resolver) match(rel string) match {
	if s, ok := r.exact[rel]; ok {
		return match{strategy: s, ok: true}
	}

	best := -1
	var found match
	for _, g := range r.globs {
		if g.score <= best {
			continue
		}
		// strategies apply to files and directories alike
		if g.pattern.Match(rel, true) {
			best = g.score
			found = match{strategy: g.strategy, ok: true}
		}
	}
	return found
}

func normalize(rel string) string {
	rel = strings.TrimPrefix(rel, "./")
	return strings.TrimSuffix(rel, "/")
}

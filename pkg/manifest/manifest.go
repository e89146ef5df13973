package manifest

import (
	"sort"
	"time"

	"github.com/arthur-debert/homie/pkg/types"
)

// Version is the manifest format written by this build
const Version = 1

// Manifest maps target paths, relative to the repo target, to the action
// that placed them
type Manifest struct {
	Version   int
	UpdatedAt time.Time
	entries   map[string]types.ActionKind
}

// New returns an empty manifest
func New() *Manifest {
	return &Manifest{Version: Version, entries: map[string]types.ActionKind{}}
}

// Set records that targetRel was placed by kind
func (m *Manifest) Set(targetRel string, kind types.ActionKind) {
	m.entries[targetRel] = kind
}

// Get returns the recorded action for targetRel
func (m *Manifest) Get(targetRel string) (types.ActionKind, bool) {
	if m == nil {
		return "", false
	}
	k, ok := m.entries[targetRel]
	return k, ok
}

// Has reports whether targetRel has an entry
func (m *Manifest) Has(targetRel string) bool {
	_, ok := m.Get(targetRel)
	return ok
}

// Delete drops the entry for targetRel
func (m *Manifest) Delete(targetRel string) {
	delete(m.entries, targetRel)
}

// Len returns the number of entries
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Keys returns the recorded target paths in sorted order
func (m *Manifest) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries returns a copy of the entry table
func (m *Manifest) Entries() map[string]types.ActionKind {
	out := make(map[string]types.ActionKind, m.Len())
	if m == nil {
		return out
	}
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}

// Orphan is a manifest entry with no unit in the current run
type Orphan struct {
	TargetRel string
	Kind      types.ActionKind

	// Exists is set when something is still on disk at the target
	Exists bool
}

// Diff lists entries of old that no current unit accounts for. exists
// reports whether a target path is still present on disk.
func Diff(old *Manifest, units []types.Unit, exists func(targetRel string) bool) []Orphan {
	current := make(map[string]bool, len(units))
	for _, u := range units {
		current[u.TargetRel] = true
	}

	var orphans []Orphan
	for _, rel := range old.Keys() {
		if current[rel] {
			continue
		}
		kind, _ := old.Get(rel)
		orphans = append(orphans, Orphan{TargetRel: rel, Kind: kind, Exists: exists(rel)})
	}
	return orphans
}

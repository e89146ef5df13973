package manifest

import (
	"os"
	"time"

	"github.com/arthur-debert/homie/pkg/clock"
	"github.com/arthur-debert/homie/pkg/errors"
	"github.com/arthur-debert/homie/pkg/logging"
	"github.com/arthur-debert/homie/pkg/paths"
	"github.com/arthur-debert/homie/pkg/types"
	"github.com/pelletier/go-toml/v2"
)

// Store loads and saves repository manifests
type Store interface {
	// Load reads the manifest of the repository at repoPath. A missing
	// file yields an empty manifest.
	Load(repoPath string) (*Manifest, error)

	// Save replaces the manifest of the repository at repoPath
	Save(repoPath string, m *Manifest) error
}

type fileStore struct {
	fs    types.FS
	clock clock.Clock
}

// NewStore creates a Store backed by fsys
func NewStore(fsys types.FS, clk clock.Clock) Store {
	return &fileStore{fs: fsys, clock: clk}
}

type document struct {
	Version   int               `toml:"version"`
	UpdatedAt time.Time         `toml:"updated_at"`
	Entries   map[string]string `toml:"entries"`
}

func (s *fileStore) Load(repoPath string) (*Manifest, error) {
	path := paths.ManifestPath(repoPath)
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, errors.Wrapf(err, errors.ErrManifestLoad, "cannot read manifest %s", path)
	}
	return Decode(data, path)
}

// Decode parses manifest bytes; path is used in error messages only
func Decode(data []byte, path string) (*Manifest, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestLoad, "malformed manifest %s", path)
	}
	if doc.Version > Version {
		return nil, errors.Newf(errors.ErrManifestLoad, "manifest %s has version %d, this build reads up to %d", path, doc.Version, Version).
			WithDetail("path", path)
	}

	m := New()
	m.UpdatedAt = doc.UpdatedAt
	for rel, raw := range doc.Entries {
		kind, err := types.ParseActionKind(raw)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrManifestLoad, "manifest %s entry %q", path, rel)
		}
		m.Set(rel, kind)
	}
	return m, nil
}

// Encode serializes m as TOML
func Encode(m *Manifest) ([]byte, error) {
	doc := document{
		Version:   Version,
		UpdatedAt: m.UpdatedAt,
		Entries:   make(map[string]string, m.Len()),
	}
	for rel, kind := range m.Entries() {
		doc.Entries[rel] = kind.String()
	}
	return toml.Marshal(doc)
}

func (s *fileStore) Save(repoPath string, m *Manifest) error {
	logger := logging.GetLogger("manifest")
	path := paths.ManifestPath(repoPath)

	m.Version = Version
	m.UpdatedAt = s.clock.Now().UTC().Truncate(time.Second)
	data, err := Encode(m)
	if err != nil {
		return errors.Wrap(err, errors.ErrManifestSave, "cannot encode manifest")
	}
	if err := s.fs.AtomicWrite(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrManifestSave, "cannot write manifest %s", path)
	}

	logger.Debug().Str("path", path).Int("entries", m.Len()).Msg("Manifest saved")
	return nil
}

package filesystem

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/homie/pkg/types"
	"github.com/zeebo/blake3"
)

// Digest is a blake3 content hash
type Digest [32]byte

// DigestBytes hashes an in-memory buffer
func DigestBytes(data []byte) Digest {
	return blake3.Sum256(data)
}

// DigestFile hashes a regular file by streaming it
func DigestFile(fsys types.FS, path string) (Digest, error) {
	var d Digest
	f, err := fsys.Open(path)
	if err != nil {
		return d, err
	}
	defer func() {
		_ = f.Close()
	}()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return d, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	copy(d[:], h.Sum(nil))
	return d, nil
}

// DigestTree hashes a file or a directory tree, following symlinks the way
// Copy does. Directory digests cover the relative path, permission bits and
// content of every entry, in lexical order.
func DigestTree(fsys types.FS, root string) (Digest, error) {
	info, err := fsys.Stat(root)
	if err != nil {
		return Digest{}, err
	}
	if !info.IsDir() {
		return DigestFile(fsys, root)
	}

	h := blake3.New()
	if err := hashDir(fsys, root, "", h); err != nil {
		return Digest{}, err
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d, nil
}

func hashDir(fsys types.FS, dir, prefix string, w io.Writer) error {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		rel := prefix + entry.Name()

		info, err := fsys.Stat(path)
		if err != nil {
			return err
		}
		mode := info.Mode().Perm()
		if info.IsDir() {
			_, _ = fmt.Fprintf(w, "d\x00%s\x00%o\x00", rel, uint32(mode))
			if err := hashDir(fsys, path, rel+"/", w); err != nil {
				return err
			}
			continue
		}
		d, err := DigestFile(fsys, path)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "f\x00%s\x00%o\x00", rel, uint32(mode))
		_, _ = w.Write(d[:])
	}
	return nil
}

// SameContent reports whether two paths hold identical trees
func SameContent(fsys types.FS, a, b string) (bool, error) {
	da, err := DigestTree(fsys, a)
	if err != nil {
		return false, err
	}
	db, err := DigestTree(fsys, b)
	if err != nil {
		return false, err
	}
	return da == db, nil
}

// FileEquals reports whether the regular file at path holds exactly data
func FileEquals(fsys types.FS, path string, data []byte) (bool, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return false, err
	}
	if info.IsDir() || info.Size() != int64(len(data)) {
		return false, nil
	}
	existing, err := fsys.ReadFile(path)
	if err != nil {
		return false, err
	}
	return bytes.Equal(existing, data), nil
}

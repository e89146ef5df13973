// Package filesystem provides the types.FS implementation used by homie.
//
// Everything goes through afero so that the same code runs against the real
// disk (NewOS) and an in-memory tree (NewMemory). The in-memory variant has no
// symlink support; Symlink and Readlink report afero.ErrNoSymlink and
// afero.ErrNoReadlink there, so tests that exercise links use t.TempDir with
// NewOS.
//
// On top of the raw operations the package offers the two helpers the engine
// needs for idempotence: AtomicWrite (temp file in the target directory, then
// rename) and blake3 content digests for "is this file already what we would
// write" checks.
package filesystem

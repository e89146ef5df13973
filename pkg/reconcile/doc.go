// Package reconcile converges a target directory toward the units of one
// repository.
//
// For every unit the engine classifies what is on disk, looks the state up
// in a fixed decision table, and performs at most one mutation. Disk state
// is the only input to classification. The manifest of the previous run
// authorizes overwriting a file homie itself rendered, and is rewritten
// once after all units when not in dry-run mode.
//
// Besides Reconcile the engine offers Teardown (remove what a repository
// placed), Status (read-only per-unit report) and Diff (content drift of
// copied and rendered files).
package reconcile

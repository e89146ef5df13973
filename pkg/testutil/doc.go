// Package testutil provides utilities for testing homie components.
//
// Key components:
//   - TestEnvironment: an isolated HOME, repos root, config file and state
//     directory under t.TempDir, exported through HOMIE_* variables
//   - FileTree: declarative directory trees
//   - Assertions on links and file contents built on testify
//
// Each environment is independent; tests using it must not run in parallel
// because it sets process environment variables.
package testutil

// Package manifest persists, per repository, which target paths homie
// placed and how. The manifest lives at <repo>/.homie/manifest.toml and is
// rewritten atomically once per run.
//
// The manifest never drives classification. It authorizes overwriting a
// regular file that homie rendered earlier, lists what teardown removes,
// and reveals orphans: entries whose source no longer yields a unit.
package manifest

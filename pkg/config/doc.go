// Package config loads homie's two configuration layers.
//
// The global configuration is optional and built with koanf from, in order:
// the embedded defaults, the user file ($XDG_CONFIG_HOME/homie/config.toml or
// $HOMIE_CONFIG) and HOMIE_* environment variables using "__" between key
// segments (HOMIE_SETTINGS__BACKUP_SUFFIX sets settings.backup_suffix).
//
// Each repository carries a homie.toml decoded with go-toml/v2. The decoded
// values are validated once and then treated as immutable for the run.
package config

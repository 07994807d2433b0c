// SPDX-License-Identifier: MPL-2.0

// Package config is reptor's layered configuration store.
//
// A Store is backed by one viper instance and resolves every key from, lowest
// to highest precedence: built-in defaults, the persisted configuration file,
// REPTOR_* environment variables, command-line flag values folded in after
// parsing, and explicit Set calls made after the fold.
//
// The persisted file lives in the platform configuration directory
// (~/.config/reptor on Linux, ~/Library/Application Support/reptor on macOS,
// %APPDATA%\reptor on Windows) as config.cue, config.yaml, config.yml or
// config.toml, or wherever REPTOR_CONFIG points. Every format is validated
// against the embedded CUE schema (config_schema.cue).
package config

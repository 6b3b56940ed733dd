// Package config handles configuration management for settle.
// It loads executor defaults from multiple sources, in increasing
// precedence: embedded defaults, TOML or YAML files, SETTLE_ environment
// variables and explicit overrides such as command-line flags.
package config

// Package config loads and validates the TOML configuration file.
package config

// Package config loads, normalizes, and validates the chapterize
// configuration file. Values come from TOML with environment variable
// overrides, and every field has a usable default so the tool runs without a
// config file at all.
package config

// Package config loads, normalizes, and validates diagterm configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// DIAGTERM_API_TOKEN. The Config type centralizes every knob the daemon,
// terminal UI, and CLI need, so bind addresses, polling cadence, and tool
// overrides are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

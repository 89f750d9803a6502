// Package config loads, normalizes, and validates karigari configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// KARIGARI_API_URL. The Config type centralizes every knob the CLI needs:
// the backend base URL, local state and log directories, history database
// settings, and the external audio tooling used for story playback.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

// Package config loads, normalizes, and validates ttsdeck configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI and the render pipeline need: the card database location, the
// media store root and public base URL, render parallelism, and Scryfall
// API settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config

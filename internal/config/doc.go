// Package config loads, normalizes, and validates iconforge configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ICONFORGE_TEXTGEN_API_KEY. The Config type centralizes every knob the
// daemon and CLI need, so artifact directories and external service settings
// are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

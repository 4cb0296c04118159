// Package config loads and validates the Hearth Panel configuration.
//
// Configuration comes from a YAML file with hardcoded defaults underneath
// and HEARTH_* environment variable overrides on top. Validation is strict:
// a config that names an unknown state feed mode or role fails to load
// rather than being silently corrected.
package config

// Package config loads, validates and persists the YAML settings shared by
// the e-stop binaries: broker address, unit identity and tuning knobs.
package config

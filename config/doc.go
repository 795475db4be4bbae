// Package config loads the development server configuration from a JSON file
// placed next to the binary, with environment variable overrides. Loading never
// fails: a missing or malformed file degrades to defaults with an empty backend
// section, which simply disables the startup probe.
package config

// Package config loads the gallery's TOML configuration. Values missing from
// the file keep their defaults; the result is normalized and validated before
// it is returned.
package config

// Package config provides configuration structures and utilities for the
// mixed content scanner: crawl settings, report preferences, and the
// optional .nomixedcontent YAML file with per-site overrides.
package config

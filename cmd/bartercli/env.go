package main

import (
	"os"
	"path/filepath"
)

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// defaultHome returns the directory used when no -home flag is given.
func defaultHome() string {
	if h, ok := os.LookupEnv("BARTER_HOME"); ok {
		return h
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return ".bartercli"
	}
	return filepath.Join(dir, ".bartercli")
}

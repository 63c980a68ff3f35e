package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the config file searched for in the current directory
// and in the XDG config directory.
const ConfigFileName = ".darkvigil.yml"

// File is the parsed YAML configuration file.
//
// Example:
//
//	proxy: 127.0.0.1:9150
//	workers: 10
//	engines:
//	  Tordex:
//	    active: false
//	  Tor66:
//	    url: "http://mirror.onion/search.php?search=%s&submit=Search&rt="
type File struct {
	// Proxy overrides the default Tor SOCKS5 proxy address.
	Proxy string `yaml:"proxy,omitempty"`

	// Workers overrides the liveness concurrency ceiling.
	Workers int `yaml:"workers,omitempty"`

	// Engines holds per-engine overrides keyed by engine name.
	Engines map[string]EngineOverride `yaml:"engines,omitempty"`
}

// EngineOverride adjusts one registered engine without touching code.
// Only built-in engines can be overridden; the extractor stays compiled in.
type EngineOverride struct {
	// URL replaces the engine's query-URL template. Must contain exactly
	// one %s slot for the percent-encoded search term.
	URL string `yaml:"url,omitempty"`

	// Active enables or disables the engine. Nil keeps the default.
	Active *bool `yaml:"active,omitempty"`
}

// FindConfigFile resolves the config-file path. An explicit path is
// returned as-is. Otherwise the current directory is searched, then the
// XDG config directory; empty means no file found.
func FindConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}

	xdgPath := filepath.Join(ConfigDir(), ConfigFileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}

	return ""
}

// LoadFile reads and parses a YAML configuration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user's own flags
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	for name, override := range f.Engines {
		if err := validateOverride(override); err != nil {
			return nil, fmt.Errorf("engine %q: %w", name, err)
		}
	}

	return &f, nil
}

// validateOverride checks that a URL override carries exactly one term slot.
// Misconfigured templates are fatal at startup rather than producing
// garbled queries at crawl time.
func validateOverride(o EngineOverride) error {
	if o.URL == "" {
		return nil
	}
	var slots int
	for i := 0; i+1 < len(o.URL); i++ {
		if o.URL[i] == '%' {
			if o.URL[i+1] == 's' {
				slots++
				i++
			} else if o.URL[i+1] == '%' {
				i++
			} else {
				return fmt.Errorf("%w: unexpected verb %%%c", ErrBadEngineTemplate, o.URL[i+1])
			}
		}
	}
	if slots != 1 {
		return fmt.Errorf("%w: found %d %%s slots, want 1", ErrBadEngineTemplate, slots)
	}
	return nil
}

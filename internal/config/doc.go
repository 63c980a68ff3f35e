// Package config holds runtime configuration for darkvigil.
//
// Configuration flows from three sources, later ones winning:
//
//  1. Package constants (documented defaults)
//  2. An optional YAML config file (.darkvigil.yml) with the proxy address,
//     worker count, and per-engine overrides
//  3. CLI flags
//
// The Config struct is populated once at startup and passed through the
// application by value reference; there is no global configuration state.
package config

// Package config loads the node's TOML configuration: the address to
// listen on and the peers to dial at startup.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultHost is used when a config omits the host key.
const DefaultHost = "0.0.0.0:2020"

// Config is one node's startup configuration.
type Config struct {
	Host           string   `toml:"host"`
	BootstrapPeers []string `toml:"bootstrap_peers"`
}

// Default returns a Config with no bootstrap peers, listening on DefaultHost.
func Default() Config {
	return Config{Host: DefaultHost}
}

// Load reads and parses a TOML config file at path. A missing host key falls
// back to DefaultHost.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	return cfg, nil
}

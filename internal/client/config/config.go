package config

import "time"

// Config holds runtime settings for the CLI.
type Config struct {
	ServerURL      string
	StateDir       string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with defaults suitable for a local server.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.StateDir = ".blogctl"
	c.RequestTimeout = 15 * time.Second
}

// Load applies defaults, then the JSON file at path (if any), then the
// environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, path); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	return cfg, nil
}

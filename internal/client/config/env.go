package config

import "os"

const (
	envServerURL = "BLOG_SERVER_URL"
	envStateDir  = "BLOG_STATE_DIR"
)

func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv(envServerURL); ok && v != "" {
		cfg.ServerURL = v
	}
	if v, ok := os.LookupEnv(envStateDir); ok && v != "" {
		cfg.StateDir = v
	}
}

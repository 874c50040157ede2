package config

import "os"

// parseEnv overlays the variables a container platform usually injects:
// DATABASE_URL, JWT_SECRET, PORT and LOG_FORMAT. Unset variables are ignored.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("DATABASE_URL"); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("JWT_SECRET"); ok && v != "" {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("PORT"); ok && v != "" {
		config.EndpointAddr = ":" + v
	}
	if v, ok := os.LookupEnv("LOG_FORMAT"); ok && v != "" {
		config.LogFormat = v
	}
}

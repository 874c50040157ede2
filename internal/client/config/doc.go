// Package config loads runtime configuration for the blogctl client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file given by --config, falling back to $CONFIG.
//  3. Environment variables BLOG_SERVER_URL and BLOG_STATE_DIR.
//  4. Command-line flags, applied by the cli package on top of Load's result.
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "state_dir": ".blogctl",
//	  "request_timeout": "15s"
//	}
package config

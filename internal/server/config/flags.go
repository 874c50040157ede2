package config

import (
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gopherblog/internal/flagx"
)

// minutesOrDuration accepts either a Go duration ("36h", "15m") or a bare
// integer number of minutes.
type minutesOrDuration struct{ d *time.Duration }

func (m minutesOrDuration) String() string {
	if m.d == nil {
		return ""
	}
	return m.d.String()
}

func (m minutesOrDuration) Set(s string) error {
	if n, err := strconv.Atoi(s); err == nil {
		*m.d = time.Duration(n) * time.Minute
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	*m.d = d
	return nil
}

// serverFlags binds every server flag, short and long, onto cfg.
func serverFlags(cfg *Config) (*flag.FlagSet, []string) {
	fs := flag.NewFlagSet("blogd", flag.ContinueOnError)

	var names []string
	str := func(p *string, short, long, usage string) {
		fs.StringVar(p, short, *p, usage)
		fs.StringVar(p, long, *p, usage)
		names = append(names, "-"+short, "-"+long)
	}
	dur := func(p *time.Duration, short, long, usage string) {
		v := minutesOrDuration{d: p}
		fs.Var(v, short, usage)
		fs.Var(v, long, usage)
		names = append(names, "-"+short, "-"+long)
	}

	str(&cfg.EndpointAddr, "a", "addr", "HTTP bind address")
	str(&cfg.DatabaseDSN, "d", "database-dsn", "PostgreSQL DSN")
	str(&cfg.SecretKey, "s", "secret", "JWT signing secret")
	dur(&cfg.AccessTokenValidityDuration, "t", "access-ttl", "access token lifetime (duration or minutes)")
	dur(&cfg.RefreshTokenValidityDuration, "r", "refresh-ttl", "refresh token lifetime (duration or minutes)")
	str(&cfg.LogFormat, "l", "log-format", "log format: slog or zap")
	str(&cfg.S3RootUser, "u", "s3-user", "S3 access key")
	str(&cfg.S3RootPassword, "p", "s3-password", "S3 secret key")
	str(&cfg.S3Bucket, "b", "s3-bucket", "bucket for post images and avatars")
	str(&cfg.S3Region, "g", "s3-region", "S3 region")
	str(&cfg.S3BaseEndpoint, "e", "s3-endpoint", "S3 base endpoint")
	str(&cfg.S3PublicBaseURL, "m", "media-url", "public base URL of uploaded media")

	return fs, names
}

// parseFlags overlays command-line flags from args onto cfg. Flags it does
// not know, such as -c, are left for other parsers.
func parseFlags(cfg *Config, args []string) error {
	fs, names := serverFlags(cfg)
	if err := fs.Parse(flagx.FilterArgs(args, names)); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	return nil
}

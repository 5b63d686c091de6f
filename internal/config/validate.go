package config

import (
	"errors"
	"fmt"
	"strings"

	"pet-adoption-hub/internal/platform/logger"
)

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}

	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case "memory":
	case "postgres", "sqlite":
		if strings.TrimSpace(c.Store.DSN) == "" {
			errs = append(errs, fmt.Errorf("store.dsn required for driver %s", c.Store.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver must be memory, postgres or sqlite: %q", c.Store.Driver))
	}

	if c.Auth.UsesJWT() && len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, errors.New("auth.jwt_secret must be at least 32 characters"))
	}
	if c.Auth.UsesJWT() && c.Auth.UsesIdentity() {
		errs = append(errs, errors.New("auth: set either jwt_secret or identity_url, not both"))
	}
	if c.Auth.UsesIdentity() && c.Auth.IdentityAPIKey == "" {
		errs = append(errs, errors.New("auth.identity_api_key required with identity_url"))
	}
	if !c.Auth.UsesJWT() && !c.Auth.UsesIdentity() && !c.Auth.DevMode {
		errs = append(errs, errors.New("auth: no verifier configured; set auth.dev_mode=true to accept X-Debug-User-ID"))
	}

	c.Media.Driver = strings.ToLower(strings.TrimSpace(c.Media.Driver))
	switch c.Media.Driver {
	case "memory":
	case "s3":
		if c.Media.Bucket == "" {
			errs = append(errs, errors.New("media.bucket required for driver s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("media.driver must be memory or s3: %q", c.Media.Driver))
	}

	// ParseLevel cae a info con valores desconocidos; acá se rechazan.
	if lvl := strings.ToLower(strings.TrimSpace(c.Log.Level)); lvl != "" && logger.ParseLevel(lvl).String() != lvl && lvl != "warning" {
		errs = append(errs, fmt.Errorf("log.level unknown: %q", c.Log.Level))
	}
	switch logger.Format(strings.ToLower(strings.TrimSpace(c.Log.Format))) {
	case logger.FormatJSON, logger.FormatText:
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text: %q", c.Log.Format))
	}

	if c.Catalog.SnapshotTTL < 0 {
		errs = append(errs, errors.New("catalog.snapshot_ttl must be >= 0"))
	}
	if c.Directory.RebuildTTL < 0 {
		errs = append(errs, errors.New("directory.rebuild_ttl must be >= 0"))
	}

	return errors.Join(errs...)
}

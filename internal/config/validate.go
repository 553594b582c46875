package config

import (
	"errors"
	"fmt"
	"strings"

	"gta-catalog/internal/identity"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if len(c.Catalog.Sources) == 0 {
		return invalid("catalog.sources must list at least one file, directory or URL")
	}
	if c.Catalog.TimeoutSeconds <= 0 {
		return invalid("catalog.timeout_seconds must be positive")
	}
	for code, label := range c.Terms {
		if strings.TrimSpace(code) == "" {
			return invalid("terms: empty term code for %q", label)
		}
	}
	if _, err := identity.ParsePolicy(c.Identity.DisplayNamePolicy); err != nil {
		return invalid("identity.display_name_policy: %v", err)
	}
	if c.Survey.Workers < 0 {
		return invalid("survey.workers must not be negative")
	}
	if c.Paths.ProcessedDir == "" || c.Paths.ExportDir == "" {
		return invalid("paths.processed_dir and paths.export_dir must be set")
	}
	if _, err := c.Location(); err != nil {
		return invalid("schedule.timezone %q: %v", c.Schedule.Timezone, err)
	}
	switch c.Logging.Format {
	case "", "auto", "console", "json":
	default:
		return invalid("logging.format must be auto, console or json")
	}
	if c.SFTP.Port <= 0 || c.SFTP.Port > 65535 {
		return invalid("sftp.port %d out of range", c.SFTP.Port)
	}
	if c.SFTP.Enabled {
		if c.SFTP.Host == "" || c.SFTP.User == "" {
			return invalid("sftp.host and sftp.user must be set when sftp.enabled is true")
		}
		if !c.SFTP.InsecureIgnoreHostKey && c.SFTP.KnownHosts == "" {
			return invalid("sftp.known_hosts must be set unless sftp.insecure_ignore_host_key is true")
		}
	}
	if c.Archive.Quality < 0 || c.Archive.Quality > 11 {
		return invalid("archive.quality must be between 0 and 11")
	}
	return nil
}

// Package config loads the run configuration: a TOML file layered over
// defaults, then environment overrides.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "gtacatalog.toml"

// Catalog describes where raw section snapshots come from.
type Catalog struct {
	College        string   `toml:"college"`
	Subjects       []string `toml:"subjects"`
	DefaultSubject string   `toml:"default_subject"`
	Sources        []string `toml:"sources"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// GTA holds the eligibility rule.
type GTA struct {
	CourseTypes []string `toml:"course_types"`
}

// Identity configures instructor resolution.
type Identity struct {
	DisplayNamePolicy string `toml:"display_name_policy"`
	AliasOverrides    string `toml:"alias_overrides"`
}

// Survey configures preference workbook ingestion.
type Survey struct {
	Dir     string `toml:"dir"`
	Workers int    `toml:"workers"`
}

// Paths holds output locations.
type Paths struct {
	ProcessedDir string `toml:"processed_dir"`
	ExportDir    string `toml:"export_dir"`
}

// Schedule configures the calendar export.
type Schedule struct {
	Timezone string `toml:"timezone"`
}

// Logging configures log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// SFTP configures the optional upload of exports.
type SFTP struct {
	Enabled               bool   `toml:"enabled"`
	Host                  string `toml:"host"`
	Port                  int    `toml:"port"`
	User                  string `toml:"user"`
	Pass                  string `toml:"-"`
	Dir                   string `toml:"dir"`
	KnownHosts            string `toml:"known_hosts"`
	InsecureIgnoreHostKey bool   `toml:"insecure_ignore_host_key"`
}

// Archive configures the compressed snapshot copy.
type Archive struct {
	Enabled bool `toml:"enabled"`
	Quality int  `toml:"quality"`
}

// Config is the complete run configuration.
type Config struct {
	Catalog  Catalog           `toml:"catalog"`
	Terms    map[string]string `toml:"terms"`
	GTA      GTA               `toml:"gta"`
	Identity Identity          `toml:"identity"`
	Survey   Survey            `toml:"survey"`
	Paths    Paths             `toml:"paths"`
	Schedule Schedule          `toml:"schedule"`
	Logging  Logging           `toml:"logging"`
	SFTP     SFTP              `toml:"sftp"`
	Archive  Archive           `toml:"archive"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Catalog: Catalog{
			DefaultSubject: "COMP",
			Subjects:       []string{"COMP"},
			Sources:        []string{"data/raw"},
			TimeoutSeconds: 30,
		},
		Terms: map[string]string{},
		GTA: GTA{
			CourseTypes: []string{"lecture", "lab", "online", "distance"},
		},
		Identity: Identity{DisplayNamePolicy: "longest"},
		Survey:   Survey{Dir: "data/history/excel", Workers: 4},
		Paths: Paths{
			ProcessedDir: "data/processed",
			ExportDir:    "data/exports",
		},
		Schedule: Schedule{Timezone: "America/Denver"},
		Logging:  Logging{Level: "info", Format: "auto"},
		SFTP: SFTP{
			Port: 22,
			Dir:  "/inbound",
		},
		Archive: Archive{Quality: 9},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file at DefaultPath is not an error; a
// missing explicit path is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(expandPath(path))
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Catalog.DefaultSubject = strings.ToUpper(strings.TrimSpace(c.Catalog.DefaultSubject))
	for i, s := range c.Catalog.Subjects {
		c.Catalog.Subjects[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	for i, s := range c.Catalog.Sources {
		if !strings.Contains(s, "://") {
			c.Catalog.Sources[i] = expandPath(s)
		}
	}
	c.Identity.DisplayNamePolicy = strings.ToLower(strings.TrimSpace(c.Identity.DisplayNamePolicy))
	c.Identity.AliasOverrides = expandPath(c.Identity.AliasOverrides)
	c.Survey.Dir = expandPath(c.Survey.Dir)
	c.Paths.ProcessedDir = expandPath(c.Paths.ProcessedDir)
	c.Paths.ExportDir = expandPath(c.Paths.ExportDir)
	c.SFTP.KnownHosts = expandPath(c.SFTP.KnownHosts)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Terms == nil {
		c.Terms = map[string]string{}
	}
}

// CatalogTimeout is the per-request timeout for remote catalog sources.
func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.Catalog.TimeoutSeconds) * time.Second
}

// Location resolves the calendar time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Schedule.Timezone)
}

// CreateSample writes the embedded sample configuration to path. It refuses
// to overwrite an existing file.
func CreateSample(path string) error {
	path = expandPath(path)
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("config: create sample: %w", err)
	}
	if _, err := f.WriteString(sampleConfig); err != nil {
		f.Close()
		return fmt.Errorf("config: write sample: %w", err)
	}
	return f.Close()
}

func expandPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return p
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return filepath.Clean(p)
}

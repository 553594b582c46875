package config

import (
	"os"
	"strconv"
	"strings"
)

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// applyEnv overlays environment variables on the file configuration.
// Credentials are expected to come from here rather than the file.
func (c *Config) applyEnv() {
	c.SFTP.Host = getenv("SFTP_HOST", c.SFTP.Host)
	c.SFTP.Port = getenvInt("SFTP_PORT", c.SFTP.Port)
	c.SFTP.User = getenv("SFTP_USER", c.SFTP.User)
	c.SFTP.Pass = getenv("SFTP_PASS", c.SFTP.Pass)
	c.SFTP.Dir = getenv("SFTP_DIR", c.SFTP.Dir)
	c.SFTP.KnownHosts = getenv("SFTP_KNOWN_HOSTS", c.SFTP.KnownHosts)
	c.SFTP.InsecureIgnoreHostKey = getenvBool("SFTP_INSECURE_IGNORE_HOSTKEY", c.SFTP.InsecureIgnoreHostKey)

	c.Logging.Level = getenv("GTA_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getenv("GTA_LOG_FORMAT", c.Logging.Format)

	if u := strings.TrimSpace(os.Getenv("GTA_CATALOG_URL")); u != "" {
		c.Catalog.Sources = []string{u}
	}
}

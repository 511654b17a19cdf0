package config

import (
	"os"
	"strings"
)

// normalize applies environment overrides and expands every path field.
func (c *Config) normalize() error {
	if url := strings.TrimSpace(os.Getenv("PLEX_URL")); url != "" {
		c.Plex.URL = url
	}
	if token := strings.TrimSpace(os.Getenv("PLEX_TOKEN")); token != "" {
		c.Plex.Token = token
	}

	c.Plex.URL = strings.TrimRight(strings.TrimSpace(c.Plex.URL), "/")
	c.Plex.Token = strings.TrimSpace(c.Plex.Token)
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	libraries := make([]string, 0, len(c.Plex.Libraries))
	for _, name := range c.Plex.Libraries {
		trimmed := strings.TrimSpace(name)
		if trimmed != "" {
			libraries = append(libraries, trimmed)
		}
	}
	c.Plex.Libraries = libraries

	paths := []*string{
		&c.Paths.DatabasePath,
		&c.Paths.ImageDir,
		&c.Paths.LogDir,
	}
	for _, field := range paths {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Hass.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("hass: %w", err))
	}
	if err := c.Spotcast.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("spotcast: %w", err))
	}
	if err := c.Playlists.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("playlists: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks HassConfig for errors.
func (c *HassConfig) Validate() error {
	if c.URL == "" {
		return nil
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("url scheme must be ws or wss, got %q", u.Scheme)
	}
	return nil
}

// Validate checks SpotcastConfig for errors.
func (c *SpotcastConfig) Validate() error {
	if c.TTLMillis < 0 {
		return errors.New("ttl_ms must be non-negative")
	}
	switch c.RefreshPolicy {
	case "", PolicyCoalesce, PolicyIndependent:
	default:
		return fmt.Errorf("refresh_policy must be %q or %q, got %q", PolicyCoalesce, PolicyIndependent, c.RefreshPolicy)
	}
	return nil
}

// Validate checks PlaylistsConfig for errors.
func (c *PlaylistsConfig) Validate() error {
	if c.Limit < 0 {
		return errors.New("limit must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("invalid level %q", c.Level)
}

package config

import "time"

// Refresh policies for cached remote state.
const (
	PolicyCoalesce    = "coalesce"
	PolicyIndependent = "independent"
)

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Spotcast: SpotcastConfig{
			TTLMillis:     4000,
			RefreshPolicy: PolicyCoalesce,
		},
		Playlists: PlaylistsConfig{
			Type:  "default",
			Limit: 10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Spotcast
	if c.Spotcast.TTLMillis == 0 {
		c.Spotcast.TTLMillis = d.Spotcast.TTLMillis
	}
	if c.Spotcast.RefreshPolicy == "" {
		c.Spotcast.RefreshPolicy = d.Spotcast.RefreshPolicy
	}

	// Playlists
	if c.Playlists.Type == "" {
		c.Playlists.Type = d.Playlists.Type
	}
	if c.Playlists.Limit == 0 {
		c.Playlists.Limit = d.Playlists.Limit
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// TTL returns the snapshot time-to-live as a duration.
func (c *SpotcastConfig) TTL() time.Duration {
	return time.Duration(c.TTLMillis) * time.Millisecond
}

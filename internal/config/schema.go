package config

// Config is the root configuration structure.
type Config struct {
	Hass      HassConfig      `toml:"hass"`
	Spotcast  SpotcastConfig  `toml:"spotcast"`
	Playlists PlaylistsConfig `toml:"playlists"`
	Log       LogConfig       `toml:"log"`
}

// HassConfig holds Home Assistant connection settings.
type HassConfig struct {
	URL   string `toml:"url"`
	Token string `toml:"token"`
}

// SpotcastConfig holds playback targeting settings.
type SpotcastConfig struct {
	Account       string `toml:"account"`
	DefaultDevice string `toml:"default_device"`
	TTLMillis     int    `toml:"ttl_ms"`
	RefreshPolicy string `toml:"refresh_policy"` // coalesce or independent
	// Aliases maps a display name to a stable Spotify device ID, for
	// devices that don't always show up in the Connect inventory.
	Aliases map[string]string `toml:"aliases"`
}

// PlaylistsConfig holds playlist fetch and filter settings.
type PlaylistsConfig struct {
	Type       string   `toml:"type"`
	Limit      int      `toml:"limit"`
	Country    string   `toml:"country"`
	Locale     string   `toml:"locale"`
	Include    []string `toml:"include"`
	RandomSong bool     `toml:"random_song"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

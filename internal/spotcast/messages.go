package spotcast

// WebSocket command types exposed by the Spotcast integration.
const (
	typePlayer      = "spotcast/player"
	typeDevices     = "spotcast/devices"
	typeCastDevices = "spotcast/castdevices"
	typePlaylists   = "spotcast/playlists"

	serviceDomain = "spotcast"
	serviceStart  = "start"
)

type playerQuery struct {
	Type    string `json:"type"`
	Account string `json:"account,omitempty"`
}

type devicesQuery struct {
	Type    string `json:"type"`
	Account string `json:"account,omitempty"`
}

type castDevicesQuery struct {
	Type string `json:"type"`
}

type playlistsQuery struct {
	Type         string `json:"type"`
	PlaylistType string `json:"playlist_type"`
	Account      string `json:"account,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	CountryCode  string `json:"country_code,omitempty"`
	Locale       string `json:"locale,omitempty"`
}

// StartRequest is the payload of the spotcast.start service call. Exactly
// one of SpotifyDeviceID and DeviceName must be set: an ID addresses a
// Connect device, a name addresses a cast device.
type StartRequest struct {
	DeviceName      string `json:"device_name,omitempty"`
	SpotifyDeviceID string `json:"spotify_device_id,omitempty"`
	URI             string `json:"uri,omitempty"`
	ForcePlayback   bool   `json:"force_playback"`
	RandomSong      bool   `json:"random_song,omitempty"`
	Account         string `json:"account,omitempty"`
}

// PlaylistParams narrows the playlist query.
type PlaylistParams struct {
	Type        string
	Limit       int
	CountryCode string
	Locale      string
}

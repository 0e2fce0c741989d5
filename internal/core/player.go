package core

// Player is the most recent playback state reported by the remote service.
// It is replaced wholesale on each successful refresh, never merged.
type Player struct {
	Device       *Device `json:"device,omitempty"`
	IsPlaying    bool    `json:"is_playing"`
	ShuffleState bool    `json:"shuffle_state"`
	ProgressMS   int     `json:"progress_ms"`
	TrackName    string  `json:"track_name,omitempty"`
	TrackURI     string  `json:"track_uri,omitempty"`
}

// Playing reports whether playback is currently active.
func (p *Player) Playing() bool {
	return p != nil && p.IsPlaying
}

// ActiveDevice returns the device the player reports as current, if any.
func (p *Player) ActiveDevice() *Device {
	if p == nil {
		return nil
	}
	return p.Device
}

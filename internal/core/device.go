package core

// Device is the canonical form of a Spotify Connect playback device.
// ID and Type are always present after normalization; every other field
// is best-effort passthrough from the remote record, nil when absent.
type Device struct {
	ID               string  `json:"id"`
	Type             string  `json:"type"`
	Name             *string `json:"name,omitempty"`
	IsActive         *bool   `json:"is_active,omitempty"`
	IsPrivateSession *bool   `json:"is_private_session,omitempty"`
	IsRestricted     *bool   `json:"is_restricted,omitempty"`
	VolumePercent    *int    `json:"volume_percent,omitempty"`
	SupportsVolume   *bool   `json:"supports_volume,omitempty"`
}

// DisplayName returns the device name, or an empty string if the remote
// record did not carry one.
func (d *Device) DisplayName() string {
	if d == nil || d.Name == nil {
		return ""
	}
	return *d.Name
}

// Active reports whether the device is marked active.
func (d *Device) Active() bool {
	return d != nil && d.IsActive != nil && *d.IsActive
}

// CastDevice is a Chromecast playback endpoint. Cast devices come from a
// different inventory than Connect devices and are addressable only by
// friendly name, so the record is kept as the remote service sent it.
type CastDevice struct {
	UUID         string `json:"uuid,omitempty"`
	FriendlyName string `json:"friendly_name"`
	ModelName    string `json:"model_name,omitempty"`
	CastType     string `json:"cast_type,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
}

package spotcast

import (
	"github.com/pvogel/castdeck/internal/core"
	cderr "github.com/pvogel/castdeck/internal/errors"
)

// RawDevice is a device record as the remote service sends it. Two legacy
// shapes are still in circulation: one spells the identity pair
// device_id/device_type, the other id/type. Both are resolved here, once,
// at the boundary; nothing downstream sees a RawDevice.
type RawDevice struct {
	DeviceID   string `json:"device_id,omitempty"`
	DeviceType string `json:"device_type,omitempty"`
	ID         string `json:"id,omitempty"`
	Type       string `json:"type,omitempty"`

	Name             *string `json:"name,omitempty"`
	IsActive         *bool   `json:"is_active,omitempty"`
	IsPrivateSession *bool   `json:"is_private_session,omitempty"`
	IsRestricted     *bool   `json:"is_restricted,omitempty"`
	VolumePercent    *int    `json:"volume_percent,omitempty"`
	SupportsVolume   *bool   `json:"supports_volume,omitempty"`
}

// Normalize resolves a raw record into a canonical core.Device. The
// device_id/device_type spelling wins when both are present. A record
// missing both spellings of either identity field fails with a
// MissingIdentityError naming the absent pair.
func Normalize(raw RawDevice) (core.Device, error) {
	id := raw.DeviceID
	if id == "" {
		id = raw.ID
	}
	if id == "" {
		return core.Device{}, &cderr.MissingIdentityError{Field: "id"}
	}

	typ := raw.DeviceType
	if typ == "" {
		typ = raw.Type
	}
	if typ == "" {
		return core.Device{}, &cderr.MissingIdentityError{Field: "type"}
	}

	return core.Device{
		ID:               id,
		Type:             typ,
		Name:             raw.Name,
		IsActive:         raw.IsActive,
		IsPrivateSession: raw.IsPrivateSession,
		IsRestricted:     raw.IsRestricted,
		VolumePercent:    raw.VolumePercent,
		SupportsVolume:   raw.SupportsVolume,
	}, nil
}

// NormalizeAll normalizes a batch in input order. The first failing record
// aborts the whole batch; no partial result is returned.
func NormalizeAll(raws []RawDevice) ([]core.Device, error) {
	devices := make([]core.Device, 0, len(raws))
	for _, raw := range raws {
		d, err := Normalize(raw)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, nil
}

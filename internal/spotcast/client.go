package spotcast

import (
	"context"
	"fmt"

	"github.com/pvogel/castdeck/internal/core"
	cderr "github.com/pvogel/castdeck/internal/errors"
	"github.com/pvogel/castdeck/internal/hass"
)

// Client is a typed layer over the Home Assistant remote-call primitive
// for the Spotcast integration. Each fetch wraps transport failures with
// the stage it was running, so a failed refresh names what broke.
type Client struct {
	caller  hass.Caller
	account string
}

// New creates a Spotcast client. account may be empty for the default
// Spotcast account.
func New(caller hass.Caller, account string) *Client {
	return &Client{caller: caller, account: account}
}

// Devices fetches the Connect device inventory, normalized.
func (c *Client) Devices(ctx context.Context) ([]core.Device, error) {
	var res struct {
		Devices []RawDevice `json:"devices"`
	}
	if err := c.caller.Query(ctx, devicesQuery{Type: typeDevices, Account: c.account}, &res); err != nil {
		return nil, &cderr.TransportError{Stage: "devices", Err: err}
	}
	devices, err := NormalizeAll(res.Devices)
	if err != nil {
		return nil, err
	}
	return devices, nil
}

// Player fetches the current playback state. The device embedded in the
// payload goes through the same normalizer as the inventory; a payload
// without a device yields a player without one.
func (c *Client) Player(ctx context.Context) (*core.Player, error) {
	var res struct {
		Device       *RawDevice `json:"device,omitempty"`
		IsPlaying    bool       `json:"is_playing"`
		ShuffleState bool       `json:"shuffle_state"`
		ProgressMS   int        `json:"progress_ms"`
		Item         *struct {
			Name string `json:"name"`
			URI  string `json:"uri"`
		} `json:"item,omitempty"`
	}
	if err := c.caller.Query(ctx, playerQuery{Type: typePlayer, Account: c.account}, &res); err != nil {
		return nil, &cderr.TransportError{Stage: "player", Err: err}
	}

	player := &core.Player{
		IsPlaying:    res.IsPlaying,
		ShuffleState: res.ShuffleState,
		ProgressMS:   res.ProgressMS,
	}
	if res.Device != nil {
		device, err := Normalize(*res.Device)
		if err != nil {
			return nil, err
		}
		player.Device = &device
	}
	if res.Item != nil {
		player.TrackName = res.Item.Name
		player.TrackURI = res.Item.URI
	}
	return player, nil
}

// CastDevices fetches the Chromecast inventory as-is.
func (c *Client) CastDevices(ctx context.Context) ([]core.CastDevice, error) {
	var res []core.CastDevice
	if err := c.caller.Query(ctx, castDevicesQuery{Type: typeCastDevices}, &res); err != nil {
		return nil, &cderr.TransportError{Stage: "chromecasts", Err: err}
	}
	return res, nil
}

// Playlists fetches the user's playlists.
func (c *Client) Playlists(ctx context.Context, params PlaylistParams) ([]core.Playlist, error) {
	var res struct {
		Items []core.Playlist `json:"items"`
	}
	q := playlistsQuery{
		Type:         typePlaylists,
		PlaylistType: params.Type,
		Account:      c.account,
		Limit:        params.Limit,
		CountryCode:  params.CountryCode,
		Locale:       params.Locale,
	}
	if err := c.caller.Query(ctx, q, &res); err != nil {
		return nil, &cderr.TransportError{Stage: "playlists", Err: err}
	}
	return res.Items, nil
}

// Start issues one spotcast.start service call. Exactly one of
// SpotifyDeviceID and DeviceName must be set.
func (c *Client) Start(ctx context.Context, req StartRequest) error {
	if (req.SpotifyDeviceID == "") == (req.DeviceName == "") {
		return fmt.Errorf("start request needs exactly one of spotify_device_id and device_name")
	}
	if req.Account == "" {
		req.Account = c.account
	}
	return c.caller.CallService(ctx, serviceDomain, serviceStart, req)
}

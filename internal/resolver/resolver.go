package resolver

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/pvogel/castdeck/internal/config"
	cderr "github.com/pvogel/castdeck/internal/errors"
	"github.com/pvogel/castdeck/internal/spotcast"
	"github.com/pvogel/castdeck/internal/state"
)

// TargetKind says how a resolved target is addressed on the wire.
type TargetKind int

const (
	// TargetConnect is a first-party device addressed by stable ID.
	TargetConnect TargetKind = iota
	// TargetCast is a Chromecast addressed by friendly name.
	TargetCast
)

// Target is a resolved playback destination.
type Target struct {
	Kind TargetKind
	ID   string // set for Connect targets
	Name string
}

// Resolve picks a playback target from the cached state, stopping at the
// first match:
//
//  1. the device the player currently reports, if any
//  2. the configured default device name, looked up by name
//  3. the first entry of the device inventory, looked up by name
//
// The by-name lookup tries known Connect devices, then configured
// aliases, then cast devices by friendly name. No match anywhere is
// ErrNoPlaybackTarget.
func Resolve(snap state.Snapshot, cfg *config.Config) (Target, error) {
	if d := snap.Player.ActiveDevice(); d != nil {
		return Target{Kind: TargetConnect, ID: d.ID, Name: d.DisplayName()}, nil
	}

	if name := cfg.Spotcast.DefaultDevice; name != "" {
		if t, ok := lookupByName(snap, cfg, name); ok {
			return t, nil
		}
	}

	if len(snap.Devices) > 0 {
		if t, ok := lookupByName(snap, cfg, snap.Devices[0].DisplayName()); ok {
			return t, nil
		}
	}

	return Target{}, cderr.ErrNoPlaybackTarget
}

// lookupByName resolves a display name to a concrete target: Connect
// inventory first, then the alias table, then the cast inventory.
func lookupByName(snap state.Snapshot, cfg *config.Config, name string) (Target, bool) {
	if name == "" {
		return Target{}, false
	}

	for _, d := range snap.Devices {
		if d.DisplayName() == name {
			return Target{Kind: TargetConnect, ID: d.ID, Name: name}, true
		}
	}

	if id, ok := cfg.Spotcast.Aliases[name]; ok {
		return Target{Kind: TargetConnect, ID: id, Name: name}, true
	}

	for _, cd := range snap.CastDevices {
		if cd.FriendlyName == name {
			return Target{Kind: TargetCast, Name: name}, true
		}
	}

	return Target{}, false
}

// Controller resolves playback targets against fresh state and issues the
// corresponding start-playback requests.
type Controller struct {
	cfg    *config.Config
	syncer *state.Syncer
	client *spotcast.Client
	logger *log.Logger
}

// NewController creates a Controller.
func NewController(cfg *config.Config, syncer *state.Syncer, client *spotcast.Client, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{cfg: cfg, syncer: syncer, client: client, logger: logger}
}

// PlayURI starts playback of uri on the resolved target. Playback is
// forced only when the player already reports playing, so an idle target
// wakes up without interrupting an active one twice.
func (c *Controller) PlayURI(ctx context.Context, uri string) error {
	if err := c.syncer.Refresh(ctx); err != nil {
		return err
	}
	snap := c.syncer.Snapshot()

	target, err := Resolve(snap, c.cfg)
	if err != nil {
		return err
	}

	return c.dispatch(ctx, target, spotcast.StartRequest{
		URI:           uri,
		ForcePlayback: snap.Player.Playing(),
		RandomSong:    c.cfg.Playlists.RandomSong,
		Account:       c.cfg.Spotcast.Account,
	})
}

// PlayURIOn starts playback of uri on a named device, bypassing the
// priority policy.
func (c *Controller) PlayURIOn(ctx context.Context, uri, name string) error {
	if err := c.syncer.Refresh(ctx); err != nil {
		return err
	}
	snap := c.syncer.Snapshot()

	target, ok := lookupByName(snap, c.cfg, name)
	if !ok {
		return cderr.WithSuggestion(cderr.ErrNoPlaybackTarget,
			"Run 'castdeck devices' to see available devices")
	}

	return c.dispatch(ctx, target, spotcast.StartRequest{
		URI:           uri,
		ForcePlayback: snap.Player.Playing(),
		RandomSong:    c.cfg.Playlists.RandomSong,
		Account:       c.cfg.Spotcast.Account,
	})
}

// TransferToConnect moves playback to a Connect device. Transfers always
// force playback and carry no URI.
func (c *Controller) TransferToConnect(ctx context.Context, deviceID string) error {
	return c.dispatch(ctx, Target{Kind: TargetConnect, ID: deviceID}, spotcast.StartRequest{
		ForcePlayback: true,
		Account:       c.cfg.Spotcast.Account,
	})
}

// TransferToCast moves playback to a cast device by friendly name.
// Transfers always force playback and carry no URI.
func (c *Controller) TransferToCast(ctx context.Context, name string) error {
	return c.dispatch(ctx, Target{Kind: TargetCast, Name: name}, spotcast.StartRequest{
		ForcePlayback: true,
		Account:       c.cfg.Spotcast.Account,
	})
}

func (c *Controller) dispatch(ctx context.Context, target Target, req spotcast.StartRequest) error {
	switch target.Kind {
	case TargetConnect:
		req.SpotifyDeviceID = target.ID
	case TargetCast:
		req.DeviceName = target.Name
	}

	c.logger.Debug("dispatching start",
		"uri", req.URI,
		"spotify_device_id", req.SpotifyDeviceID,
		"device_name", req.DeviceName,
		"force_playback", req.ForcePlayback)

	return c.client.Start(ctx, req)
}

package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/pvogel/castdeck/internal/config"
	"github.com/pvogel/castdeck/internal/core"
	cderr "github.com/pvogel/castdeck/internal/errors"
	"github.com/pvogel/castdeck/internal/spotcast"
	"github.com/pvogel/castdeck/internal/state"
)

func strPtr(s string) *string { return &s }

func device(id, typ, name string) core.Device {
	d := core.Device{ID: id, Type: typ}
	if name != "" {
		d.Name = strPtr(name)
	}
	return d
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	return cfg
}

func TestResolveActiveDeviceWins(t *testing.T) {
	cfg := testConfig()
	cfg.Spotcast.DefaultDevice = "Kitchen"
	snap := state.Snapshot{
		Devices: []core.Device{device("d1", "Computer", "Desk"), device("d2", "Speaker", "Kitchen")},
		Player:  &core.Player{Device: &core.Device{ID: "active-id", Type: "Smartphone"}},
	}

	target, err := Resolve(snap, cfg)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if target.Kind != TargetConnect || target.ID != "active-id" {
		t.Errorf("target = %+v, want Connect active-id", target)
	}
}

func TestResolveDefaultDeviceByName(t *testing.T) {
	cfg := testConfig()
	cfg.Spotcast.DefaultDevice = "Kitchen"
	snap := state.Snapshot{
		Devices: []core.Device{device("d1", "Computer", "Desk"), device("d2", "Speaker", "Kitchen")},
	}

	target, err := Resolve(snap, cfg)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if target.Kind != TargetConnect || target.ID != "d2" {
		t.Errorf("target = %+v, want Connect d2 (matched by name, dispatched by id)", target)
	}
}

func TestResolveDefaultDeviceViaAlias(t *testing.T) {
	cfg := testConfig()
	cfg.Spotcast.DefaultDevice = "Bedroom"
	cfg.Spotcast.Aliases = map[string]string{"Bedroom": "alias-id"}
	snap := state.Snapshot{
		Devices: []core.Device{device("d1", "Computer", "Desk")},
	}

	target, err := Resolve(snap, cfg)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if target.Kind != TargetConnect || target.ID != "alias-id" {
		t.Errorf("target = %+v, want Connect alias-id", target)
	}
}

func TestResolveDefaultDeviceViaCast(t *testing.T) {
	cfg := testConfig()
	cfg.Spotcast.DefaultDevice = "Living Room TV"
	snap := state.Snapshot{
		Devices:     []core.Device{device("d1", "Computer", "Desk")},
		CastDevices: []core.CastDevice{{FriendlyName: "Living Room TV"}},
	}

	target, err := Resolve(snap, cfg)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if target.Kind != TargetCast || target.Name != "Living Room TV" {
		t.Errorf("target = %+v, want Cast Living Room TV", target)
	}
}

func TestResolveLookupPrefersDeviceOverCast(t *testing.T) {
	cfg := testConfig()
	cfg.Spotcast.DefaultDevice = "Kitchen"
	snap := state.Snapshot{
		Devices:     []core.Device{device("d1", "Speaker", "Kitchen")},
		CastDevices: []core.CastDevice{{FriendlyName: "Kitchen"}},
	}

	target, err := Resolve(snap, cfg)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if target.Kind != TargetConnect || target.ID != "d1" {
		t.Errorf("target = %+v, want the Connect device, not the cast device", target)
	}
}

func TestResolveFallsBackToFirstDevice(t *testing.T) {
	cfg := testConfig()
	snap := state.Snapshot{
		Devices: []core.Device{device("d1", "Computer", "Desk"), device("d2", "Speaker", "Kitchen")},
	}

	target, err := Resolve(snap, cfg)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if target.ID != "d1" {
		t.Errorf("target = %+v, want first device d1", target)
	}
}

func TestResolveNoTarget(t *testing.T) {
	cfg := testConfig()
	_, err := Resolve(state.Snapshot{}, cfg)
	if !errors.Is(err, cderr.ErrNoPlaybackTarget) {
		t.Errorf("error = %v, want ErrNoPlaybackTarget", err)
	}
}

func TestResolveUnmatchedDefaultFallsThrough(t *testing.T) {
	cfg := testConfig()
	cfg.Spotcast.DefaultDevice = "Nowhere"
	snap := state.Snapshot{
		Devices: []core.Device{device("d1", "Computer", "Desk")},
	}

	target, err := Resolve(snap, cfg)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if target.ID != "d1" {
		t.Errorf("target = %+v, want fallback to first device", target)
	}
}

// fakeCaller serves a fixed remote state and records start requests.
type fakeCaller struct {
	devicesJSON string
	playerJSON  string
	castsJSON   string
	starts      []spotcast.StartRequest
}

func (f *fakeCaller) Query(ctx context.Context, req any, result any) error {
	b, _ := json.Marshal(req)
	var msg struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal(b, &msg)

	switch msg.Type {
	case "spotcast/devices":
		return json.Unmarshal([]byte(f.devicesJSON), result)
	case "spotcast/player":
		return json.Unmarshal([]byte(f.playerJSON), result)
	case "spotcast/castdevices":
		return json.Unmarshal([]byte(f.castsJSON), result)
	}
	return errors.New("unexpected query " + msg.Type)
}

func (f *fakeCaller) CallService(ctx context.Context, domain, service string, data any) error {
	req, ok := data.(spotcast.StartRequest)
	if !ok {
		return errors.New("unexpected service data")
	}
	f.starts = append(f.starts, req)
	return nil
}

func newTestController(cfg *config.Config, caller *fakeCaller) *Controller {
	client := spotcast.New(caller, cfg.Spotcast.Account)
	syncer := state.New(client, state.Options{})
	return NewController(cfg, syncer, client, nil)
}

func TestPlayURIDispatchesToFirstDevice(t *testing.T) {
	cfg := testConfig()
	caller := &fakeCaller{
		devicesJSON: `{"devices":[{"id":"d1","type":"Computer","name":"Desk"}]}`,
		playerJSON:  `{"is_playing":false}`,
		castsJSON:   `[]`,
	}
	ctrl := newTestController(cfg, caller)

	if err := ctrl.PlayURI(context.Background(), "spotify:track:X"); err != nil {
		t.Fatalf("PlayURI() error = %v", err)
	}

	if len(caller.starts) != 1 {
		t.Fatalf("start requests = %d, want 1", len(caller.starts))
	}
	req := caller.starts[0]
	if req.SpotifyDeviceID != "d1" {
		t.Errorf("SpotifyDeviceID = %q, want %q", req.SpotifyDeviceID, "d1")
	}
	if req.DeviceName != "" {
		t.Errorf("DeviceName = %q, want empty", req.DeviceName)
	}
	if req.URI != "spotify:track:X" {
		t.Errorf("URI = %q, want %q", req.URI, "spotify:track:X")
	}
	if req.ForcePlayback {
		t.Error("ForcePlayback = true, want false while idle")
	}
}

func TestPlayURIForcesPlaybackWhenPlaying(t *testing.T) {
	cfg := testConfig()
	caller := &fakeCaller{
		devicesJSON: `{"devices":[{"id":"d1","type":"Computer","name":"Desk"}]}`,
		playerJSON:  `{"is_playing":true,"device":{"id":"d1","type":"Computer","name":"Desk"}}`,
		castsJSON:   `[]`,
	}
	ctrl := newTestController(cfg, caller)

	if err := ctrl.PlayURI(context.Background(), "spotify:track:X"); err != nil {
		t.Fatalf("PlayURI() error = %v", err)
	}
	if len(caller.starts) != 1 || !caller.starts[0].ForcePlayback {
		t.Errorf("starts = %+v, want one forced request", caller.starts)
	}
}

func TestPlayURIDispatchesToCastByName(t *testing.T) {
	cfg := testConfig()
	cfg.Spotcast.DefaultDevice = "Living Room TV"
	caller := &fakeCaller{
		devicesJSON: `{"devices":[]}`,
		playerJSON:  `{"is_playing":false}`,
		castsJSON:   `[{"friendly_name":"Living Room TV"}]`,
	}
	ctrl := newTestController(cfg, caller)

	if err := ctrl.PlayURI(context.Background(), "spotify:album:Y"); err != nil {
		t.Fatalf("PlayURI() error = %v", err)
	}
	req := caller.starts[0]
	if req.DeviceName != "Living Room TV" {
		t.Errorf("DeviceName = %q, want %q", req.DeviceName, "Living Room TV")
	}
	if req.SpotifyDeviceID != "" {
		t.Errorf("SpotifyDeviceID = %q, want empty", req.SpotifyDeviceID)
	}
}

func TestPlayURINoTarget(t *testing.T) {
	cfg := testConfig()
	caller := &fakeCaller{
		devicesJSON: `{"devices":[]}`,
		playerJSON:  `{"is_playing":false}`,
		castsJSON:   `[]`,
	}
	ctrl := newTestController(cfg, caller)

	err := ctrl.PlayURI(context.Background(), "spotify:track:X")
	if !errors.Is(err, cderr.ErrNoPlaybackTarget) {
		t.Errorf("error = %v, want ErrNoPlaybackTarget", err)
	}
	if len(caller.starts) != 0 {
		t.Errorf("start requests = %d, want 0", len(caller.starts))
	}
}

func TestTransfersForcePlaybackWithoutURI(t *testing.T) {
	cfg := testConfig()
	caller := &fakeCaller{}
	ctrl := newTestController(cfg, caller)

	if err := ctrl.TransferToConnect(context.Background(), "d9"); err != nil {
		t.Fatalf("TransferToConnect() error = %v", err)
	}
	if err := ctrl.TransferToCast(context.Background(), "Living Room TV"); err != nil {
		t.Fatalf("TransferToCast() error = %v", err)
	}

	if len(caller.starts) != 2 {
		t.Fatalf("start requests = %d, want 2", len(caller.starts))
	}
	for _, req := range caller.starts {
		if !req.ForcePlayback {
			t.Errorf("ForcePlayback = false in %+v, transfers always force", req)
		}
		if req.URI != "" {
			t.Errorf("URI = %q in transfer, want empty", req.URI)
		}
	}
	if caller.starts[0].SpotifyDeviceID != "d9" {
		t.Errorf("SpotifyDeviceID = %q, want d9", caller.starts[0].SpotifyDeviceID)
	}
	if caller.starts[1].DeviceName != "Living Room TV" {
		t.Errorf("DeviceName = %q, want Living Room TV", caller.starts[1].DeviceName)
	}
}

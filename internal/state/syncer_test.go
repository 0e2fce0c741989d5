package state

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	cderr "github.com/pvogel/castdeck/internal/errors"
	"github.com/pvogel/castdeck/internal/spotcast"
)

// fakeCaller answers queries from canned JSON keyed by command type,
// counting calls per type. A gate channel, when set, blocks the first
// fetch of a cycle so overlap can be arranged deterministically.
type fakeCaller struct {
	mu        sync.Mutex
	responses map[string]string
	errByType map[string]error
	calls     map[string]int
	order     []string

	gate    chan struct{}
	started chan struct{}
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{
		responses: map[string]string{
			"spotcast/devices":     `{"devices":[{"id":"d1","type":"Computer","name":"Desk"}]}`,
			"spotcast/player":      `{"is_playing":false}`,
			"spotcast/castdevices": `[]`,
			"spotcast/playlists":   `{"items":[{"name":"Daily Mix 1","uri":"spotify:playlist:p1"}]}`,
		},
		errByType: map[string]error{},
		calls:     map[string]int{},
	}
}

func (f *fakeCaller) Query(ctx context.Context, req any, result any) error {
	b, _ := json.Marshal(req)
	var msg struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal(b, &msg)

	f.mu.Lock()
	f.calls[msg.Type]++
	f.order = append(f.order, msg.Type)
	gate, started := f.gate, f.started
	f.mu.Unlock()

	if msg.Type == "spotcast/devices" && gate != nil {
		if started != nil {
			select {
			case started <- struct{}{}:
			default:
			}
		}
		<-gate
	}

	if err := f.errByType[msg.Type]; err != nil {
		return err
	}
	return json.Unmarshal([]byte(f.responses[msg.Type]), result)
}

func (f *fakeCaller) CallService(ctx context.Context, domain, service string, data any) error {
	return nil
}

func (f *fakeCaller) count(typ string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[typ]
}

func newTestSyncer(caller *fakeCaller, opts Options) (*Syncer, *time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := New(spotcast.New(caller, ""), opts)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestRefreshFetchesInOrder(t *testing.T) {
	caller := newFakeCaller()
	s, _ := newTestSyncer(caller, Options{})

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	want := []string{"spotcast/devices", "spotcast/player", "spotcast/castdevices"}
	if len(caller.order) != len(want) {
		t.Fatalf("got %d calls %v, want %v", len(caller.order), caller.order, want)
	}
	for i, typ := range want {
		if caller.order[i] != typ {
			t.Errorf("call %d = %q, want %q", i, caller.order[i], typ)
		}
	}

	snap := s.Snapshot()
	if len(snap.Devices) != 1 || snap.Devices[0].ID != "d1" {
		t.Errorf("Devices = %+v, want one device d1", snap.Devices)
	}
	if snap.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set after successful refresh")
	}
}

func TestRefreshIsNoOpWithinTTL(t *testing.T) {
	caller := newFakeCaller()
	s, _ := newTestSyncer(caller, Options{})

	for i := 0; i < 3; i++ {
		if err := s.Refresh(context.Background()); err != nil {
			t.Fatalf("Refresh() #%d error = %v", i, err)
		}
	}

	if got := caller.count("spotcast/devices"); got != 1 {
		t.Errorf("devices fetched %d times, want 1", got)
	}
}

func TestRefreshRunsAgainAfterTTL(t *testing.T) {
	caller := newFakeCaller()
	s, now := newTestSyncer(caller, Options{TTL: 4 * time.Second})

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	*now = now.Add(5 * time.Second)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if got := caller.count("spotcast/devices"); got != 2 {
		t.Errorf("devices fetched %d times, want 2", got)
	}
	if got := caller.count("spotcast/castdevices"); got != 2 {
		t.Errorf("castdevices fetched %d times, want 2", got)
	}
}

func TestFailedRefreshLeavesStateUntouched(t *testing.T) {
	caller := newFakeCaller()
	caller.errByType["spotcast/player"] = errors.New("boom")
	s, _ := newTestSyncer(caller, Options{})

	err := s.Refresh(context.Background())
	if err == nil {
		t.Fatal("Refresh() error = nil, want error")
	}
	var transport *cderr.TransportError
	if !errors.As(err, &transport) || transport.Stage != "player" {
		t.Fatalf("error = %v, want TransportError at player stage", err)
	}
	if !strings.Contains(err.Error(), "failed to fetch player") {
		t.Errorf("error = %q, want it to name the player stage", err)
	}
	if !s.Snapshot().UpdatedAt.IsZero() {
		t.Error("UpdatedAt advanced after failed refresh")
	}

	// Still stale, so the next call attempts a full cycle again.
	_ = s.Refresh(context.Background())
	if got := caller.count("spotcast/devices"); got != 2 {
		t.Errorf("devices fetched %d times after retry, want 2", got)
	}
}

func TestCoalescePolicySharesOneCycle(t *testing.T) {
	caller := newFakeCaller()
	caller.gate = make(chan struct{})
	caller.started = make(chan struct{}, 1)
	s, _ := newTestSyncer(caller, Options{Policy: Coalesce})

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			errs <- s.Refresh(context.Background())
		}()
	}

	<-caller.started
	time.Sleep(20 * time.Millisecond) // let the second caller join the flight
	close(caller.gate)

	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			t.Errorf("Refresh() error = %v", err)
		}
	}
	if got := caller.count("spotcast/devices"); got != 1 {
		t.Errorf("devices fetched %d times, want 1 shared cycle", got)
	}
}

func TestIndependentPolicyRunsEachCycle(t *testing.T) {
	caller := newFakeCaller()
	caller.gate = make(chan struct{})
	caller.started = make(chan struct{}, 1)
	s, _ := newTestSyncer(caller, Options{Policy: Independent})

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			errs <- s.Refresh(context.Background())
		}()
	}

	<-caller.started
	time.Sleep(20 * time.Millisecond)
	close(caller.gate)

	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			t.Errorf("Refresh() error = %v", err)
		}
	}
	if got := caller.count("spotcast/devices"); got != 2 {
		t.Errorf("devices fetched %d times, want 2 independent cycles", got)
	}
}

func TestLoadedTracksPlaylistFetches(t *testing.T) {
	caller := newFakeCaller()
	s, _ := newTestSyncer(caller, Options{})

	if s.Loaded() {
		t.Error("Loaded() = true before any playlist fetch")
	}

	caller.errByType["spotcast/playlists"] = errors.New("boom")
	if _, err := s.Playlists(context.Background()); err == nil {
		t.Fatal("Playlists() error = nil, want error")
	}
	if s.Loaded() {
		t.Error("Loaded() = true after failed playlist fetch")
	}

	delete(caller.errByType, "spotcast/playlists")
	playlists, err := s.Playlists(context.Background())
	if err != nil {
		t.Fatalf("Playlists() error = %v", err)
	}
	if len(playlists) != 1 || playlists[0].Name != "Daily Mix 1" {
		t.Errorf("playlists = %+v, want one named Daily Mix 1", playlists)
	}
	if !s.Loaded() {
		t.Error("Loaded() = false after successful playlist fetch")
	}
	if got := len(s.CachedPlaylists()); got != 1 {
		t.Errorf("CachedPlaylists() len = %d, want 1", got)
	}
}

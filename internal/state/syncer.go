package state

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/pvogel/castdeck/internal/core"
	"github.com/pvogel/castdeck/internal/spotcast"
)

// DefaultTTL is the maximum age of a snapshot before a refresh hits the
// remote service again.
const DefaultTTL = 4 * time.Second

// Policy controls what happens when refreshes overlap.
type Policy int

const (
	// Coalesce collapses overlapping refreshes into a single remote
	// cycle whose outcome every caller shares.
	Coalesce Policy = iota
	// Independent lets overlapping refreshes each run a full cycle;
	// the last writer wins.
	Independent
)

// Snapshot is the cached remote state: the device inventories and the
// player, plus when they were fetched. It is replaced as a whole; a
// partially failed refresh never touches it.
type Snapshot struct {
	Devices     []core.Device
	Player      *core.Player
	CastDevices []core.CastDevice
	UpdatedAt   time.Time
}

// Age returns how old the snapshot is.
func (s Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.UpdatedAt)
}

// Options configures a Syncer.
type Options struct {
	TTL       time.Duration
	Policy    Policy
	Playlists spotcast.PlaylistParams
	Logger    *log.Logger
}

// Syncer keeps the cached remote state fresh without over-querying. A
// refresh runs the three fetches in strict sequence and replaces the
// snapshot only when all of them succeed, so the TTL gate alone governs
// when a failed cycle is retried.
type Syncer struct {
	client *spotcast.Client
	ttl    time.Duration
	policy Policy
	params spotcast.PlaylistParams
	logger *log.Logger

	group singleflight.Group

	mu        sync.RWMutex
	snap      Snapshot
	playlists []core.Playlist
	loaded    bool

	now func() time.Time
}

// New creates a Syncer over the given client.
func New(client *spotcast.Client, opts Options) *Syncer {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Syncer{
		client: client,
		ttl:    opts.TTL,
		policy: opts.Policy,
		params: opts.Playlists,
		logger: opts.Logger,
		now:    time.Now,
	}
}

// Refresh brings the snapshot up to date. Within the TTL window it is a
// no-op and issues zero remote calls. A failed cycle leaves the snapshot
// and its timestamp untouched, so the next call retries in full.
func (s *Syncer) Refresh(ctx context.Context) error {
	if s.fresh() {
		return nil
	}

	if s.policy == Independent {
		return s.refreshCycle(ctx)
	}

	_, err, _ := s.group.Do("refresh", func() (any, error) {
		// A caller that waited out someone else's cycle finds the
		// snapshot fresh here and is done.
		if s.fresh() {
			return nil, nil
		}
		return nil, s.refreshCycle(ctx)
	})
	return err
}

func (s *Syncer) fresh() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.snap.UpdatedAt.IsZero() && s.snap.Age(s.now()) < s.ttl
}

// refreshCycle fetches devices, player, and cast devices in that order.
func (s *Syncer) refreshCycle(ctx context.Context) error {
	started := s.now()

	devices, err := s.client.Devices(ctx)
	if err != nil {
		return err
	}
	player, err := s.client.Player(ctx)
	if err != nil {
		return err
	}
	casts, err := s.client.CastDevices(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snap = Snapshot{
		Devices:     devices,
		Player:      player,
		CastDevices: casts,
		UpdatedAt:   s.now(),
	}
	s.mu.Unlock()

	s.logger.Debug("state refreshed",
		"devices", len(devices),
		"chromecasts", len(casts),
		"playing", player.Playing(),
		"took", s.now().Sub(started))
	return nil
}

// Snapshot returns the current cached state.
func (s *Syncer) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Playlists fetches the playlist collection and caches it. Unlike the
// snapshot, playlists are fetched on demand, not TTL-gated.
func (s *Syncer) Playlists(ctx context.Context) ([]core.Playlist, error) {
	playlists, err := s.client.Playlists(ctx, s.params)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.playlists = playlists
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug("playlists fetched", "count", len(playlists))
	return playlists, nil
}

// CachedPlaylists returns the playlists from the last successful fetch.
func (s *Syncer) CachedPlaylists() []core.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playlists
}

// Loaded reports whether a playlist fetch has ever populated the
// collection. It is independent of the snapshot TTL.
func (s *Syncer) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"salarydash/internal/domain"
	"salarydash/internal/events"
	"salarydash/internal/source"
	"salarydash/internal/stats"
	"salarydash/internal/store"
)

// SnapshotStore persists the last dataset that loaded successfully.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, s store.Snapshot) error
	LoadSnapshot(ctx context.Context) (store.Snapshot, bool, error)
}

type Publisher interface {
	Publish(evt string)
}

type Options struct {
	Store     SnapshotStore // optional
	Publisher Publisher     // optional
	SourceURL func() string
	Now       func() time.Time
}

// Dashboard owns the view state of one dashboard and applies transitions to
// it one at a time.
type Dashboard struct {
	mu  sync.Mutex
	st  State
	seq uint64

	cache *source.Cache
	store SnapshotStore
	pub   Publisher
	url   func() string
	now   func() time.Time
	log   zerolog.Logger
}

func New(cache *source.Cache, log zerolog.Logger, opts Options) *Dashboard {
	d := &Dashboard{
		st:    Initial(),
		cache: cache,
		store: opts.Store,
		pub:   opts.Publisher,
		url:   opts.SourceURL,
		now:   opts.Now,
		log:   log.With().Str("component", "dashboard").Logger(),
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.url == nil {
		d.url = func() string { return "" }
	}
	return d
}

// State returns a copy of the current state.
func (d *Dashboard) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.st.Clone()
}

// Load aggregates the cached dataset, fetching it if needed.
func (d *Dashboard) Load(ctx context.Context) error {
	return d.load(ctx, false)
}

// Reload drops the cached dataset and loads again.
func (d *Dashboard) Reload(ctx context.Context) error {
	return d.load(ctx, true)
}

// EnsureLoaded loads only if nothing has been loaded yet.
func (d *Dashboard) EnsureLoaded(ctx context.Context) error {
	d.mu.Lock()
	loaded := !d.st.LoadedAt.IsZero()
	d.mu.Unlock()
	if loaded {
		return nil
	}
	return d.Load(ctx)
}

func (d *Dashboard) load(ctx context.Context, force bool) error {
	var (
		snap source.Snapshot
		err  error
	)
	if force {
		snap, err = d.cache.Refresh(ctx)
	} else {
		snap, err = d.cache.Get(ctx)
	}
	if err != nil {
		d.log.Error().Err(err).Msg("error fetching data")
		d.mu.Lock()
		d.st = LoadFailed(d.st, err)
		empty := d.st.LoadedAt.IsZero()
		d.mu.Unlock()
		d.publish(ctx, events.TypeLoadFailed, map[string]any{"error": err.Error()})

		if empty {
			if restored, rerr := d.Restore(ctx); rerr != nil {
				d.log.Warn().Err(rerr).Msg("snapshot restore failed")
			} else if restored {
				d.log.Info().Msg("showing last stored snapshot")
			}
		}
		return err
	}

	d.mu.Lock()
	outdated := !d.st.FromSnapshot && snap.FetchedAt.Before(d.st.LoadedAt)
	d.mu.Unlock()
	if outdated {
		d.log.Debug().Time("fetched_at", snap.FetchedAt).Msg("older dataset ignored")
		return nil
	}

	var g errgroup.Group
	g.Go(func() error { return d.persist(ctx, snap) })

	var years int
	g.Go(func() error {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.st = Loaded(d.st, snap.Records, snap.Rejects, snap.FetchedAt)
		years = len(d.st.Jobs)
		return nil
	})

	if err := g.Wait(); err != nil {
		d.log.Warn().Err(err).Msg("snapshot not saved")
	}

	d.log.Info().
		Int("records", len(snap.Records)).
		Int("rejected", len(snap.Rejects)).
		Int("years", years).
		Msg("summary loaded")
	d.publish(ctx, events.TypeSummaryLoaded, map[string]any{"years": years})
	return nil
}

func (d *Dashboard) persist(ctx context.Context, snap source.Snapshot) error {
	if d.store == nil {
		return nil
	}
	return d.store.SaveSnapshot(ctx, store.Snapshot{
		Records:   snap.Records,
		FetchedAt: snap.FetchedAt,
		SourceURL: d.url(),
		Rejected:  len(snap.Rejects),
	})
}

// Restore shows the stored snapshot when nothing has been loaded in this
// process. It reports whether a snapshot was applied.
func (d *Dashboard) Restore(ctx context.Context) (bool, error) {
	if d.store == nil {
		return false, nil
	}
	s, found, err := d.store.LoadSnapshot(ctx)
	if err != nil || !found {
		return false, err
	}

	d.mu.Lock()
	if !d.st.LoadedAt.IsZero() {
		d.mu.Unlock()
		return false, nil
	}
	loadErr := d.st.LoadError
	d.st = Loaded(d.st, s.Records, nil, s.FetchedAt)
	d.st.FromSnapshot = true
	d.st.LoadError = loadErr
	d.mu.Unlock()

	d.cache.Seed(source.Snapshot{Records: s.Records, FetchedAt: s.FetchedAt})
	d.publish(ctx, events.TypeSummaryLoaded, map[string]any{"snapshot": true})
	return true, nil
}

// Sort applies a header choice.
func (d *Dashboard) Sort(ctx context.Context, key domain.SortKey) State {
	d.mu.Lock()
	d.st = SortedBy(d.st, key)
	out := d.st.Clone()
	d.mu.Unlock()

	d.publish(ctx, events.TypeSorted, out.Sort)
	return out
}

// Select makes year the drill-down target and computes its title counts
// from the shared dataset. When selections overlap only the most recent one
// is applied. A failed fetch leaves the drill-down empty.
func (d *Dashboard) Select(ctx context.Context, year int) (State, error) {
	d.mu.Lock()
	d.seq++
	token := d.seq
	d.st = Selected(d.st, year, token)
	d.mu.Unlock()
	d.publish(ctx, events.TypeYearSelected, map[string]any{"year": year, "token": token})

	snap, err := d.cache.Get(ctx)
	if err != nil {
		d.log.Error().Err(err).Int("year", year).Uint64("token", token).Msg("error fetching data")
		return d.State(), fmt.Errorf("drill-down %d: %w", year, err)
	}
	titles := stats.TitlesForYear(snap.Records, year)

	// The cache may have refetched since the summary was built. Rebuild the
	// summary from the same copy so both tables describe one dataset.
	d.mu.Lock()
	reloaded := snap.FetchedAt.After(d.st.LoadedAt)
	if reloaded {
		d.st = Loaded(d.st, snap.Records, snap.Rejects, snap.FetchedAt)
	}
	next, applied := TitlesLoaded(d.st, token, titles)
	d.st = next
	out := d.st.Clone()
	d.mu.Unlock()

	if reloaded {
		if err := d.persist(ctx, snap); err != nil {
			d.log.Warn().Err(err).Msg("snapshot not saved")
		}
		d.publish(ctx, events.TypeSummaryLoaded, map[string]any{"years": len(out.Jobs)})
	}
	if !applied {
		d.log.Debug().Int("year", year).Uint64("token", token).Msg("superseded drill-down discarded")
		return out, nil
	}
	d.publish(ctx, events.TypeTitlesLoaded, map[string]any{"year": year, "titles": len(titles)})
	return out, nil
}

func (d *Dashboard) publish(ctx context.Context, typ string, data any) {
	if d.pub == nil {
		return
	}
	d.pub.Publish(events.MakeEvent(events.RequestIDFrom(ctx), typ, 1, data))
}

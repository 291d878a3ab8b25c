package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"salarydash/internal/domain"
	"salarydash/internal/events"
	"salarydash/internal/source"
	"salarydash/internal/store"
)

type stubFetcher struct {
	mu    sync.Mutex
	recs  []domain.Record
	err   error
	calls int
	gate  chan struct{}
}

func (f *stubFetcher) Fetch(ctx context.Context) (source.Payload, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gate
	recs, err := f.recs, f.err
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err != nil {
		return source.Payload{}, err
	}
	return source.Payload{Records: recs}, nil
}

type memStore struct {
	mu    sync.Mutex
	snap  store.Snapshot
	found bool
	saves int
}

func (m *memStore) SaveSnapshot(ctx context.Context, s store.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap, m.found = s, true
	m.saves++
	return nil
}

func (m *memStore) LoadSnapshot(ctx context.Context) (store.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, m.found, nil
}

func newTestDashboard(f source.Fetcher, opts Options) *Dashboard {
	return New(source.NewCache(f, time.Minute), zerolog.Nop(), opts)
}

func TestLoadAndPersist(t *testing.T) {
	f := &stubFetcher{recs: sample()}
	st := &memStore{}
	hub := events.NewHub()
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	d := newTestDashboard(f, Options{Store: st, Publisher: hub, SourceURL: func() string { return "http://x/data" }})
	if err := d.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	s := d.State()
	if len(s.Jobs) != 2 || s.LoadedAt.IsZero() {
		t.Fatalf("state = %+v", s)
	}
	if st.saves != 1 || st.snap.SourceURL != "http://x/data" || len(st.snap.Records) != 4 {
		t.Fatalf("store = %+v", st)
	}
	if evt := <-sub; !strings.Contains(evt, events.TypeSummaryLoaded) {
		t.Fatalf("event = %s", evt)
	}
}

func TestLoadMalformedPayloadLeavesTableEmpty(t *testing.T) {
	f := &stubFetcher{err: source.ErrNotArray}
	d := newTestDashboard(f, Options{})
	if err := d.Load(context.Background()); !errors.Is(err, source.ErrNotArray) {
		t.Fatalf("err = %v", err)
	}
	s := d.State()
	if len(s.Jobs) != 0 || len(s.Sorted) != 0 || s.LoadError == "" {
		t.Fatalf("state = %+v", s)
	}
}

func TestLoadFailureRestoresSnapshot(t *testing.T) {
	st := &memStore{found: true, snap: store.Snapshot{Records: sample(), FetchedAt: time.Unix(100, 0)}}
	f := &stubFetcher{err: errors.New("connection refused")}
	d := newTestDashboard(f, Options{Store: st})

	if err := d.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	s := d.State()
	if !s.FromSnapshot || len(s.Jobs) != 2 || s.LoadError == "" {
		t.Fatalf("state = %+v", s)
	}

	// once the API is back a load replaces the snapshot view
	f.mu.Lock()
	f.err = nil
	f.recs = []domain.Record{{Year: 2024, Salary: "5", Title: "Z"}}
	f.mu.Unlock()
	if err := d.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	s = d.State()
	if s.FromSnapshot || len(s.Jobs) != 1 || s.Jobs[0].Year != 2024 || s.LoadError != "" {
		t.Fatalf("state after recovery = %+v", s)
	}
}

func TestSortToggles(t *testing.T) {
	d := newTestDashboard(&stubFetcher{recs: sample()}, Options{})
	if err := d.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	s := d.Sort(context.Background(), domain.SortTotalJobs)
	if s.Sort.Direction != domain.Ascending || s.Sorted[0].Year != 2021 {
		t.Fatalf("first = %+v", s)
	}
	s = d.Sort(context.Background(), domain.SortTotalJobs)
	if s.Sort.Direction != domain.Descending || s.Sorted[0].Year != 2020 {
		t.Fatalf("second = %+v", s)
	}
}

func TestSelectUsesCachedDataset(t *testing.T) {
	f := &stubFetcher{recs: sample()}
	d := newTestDashboard(f, Options{})
	if err := d.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	s, err := d.Select(context.Background(), 2020)
	if err != nil {
		t.Fatal(err)
	}
	want := []domain.TitleCount{{Title: "A", Count: 2}, {Title: "C", Count: 1}}
	if len(s.Titles) != 2 || s.Titles[0] != want[0] || s.Titles[1] != want[1] {
		t.Fatalf("titles = %+v", s.Titles)
	}
	if _, err := d.Select(context.Background(), 2021); err != nil {
		t.Fatal(err)
	}
	if f.calls != 1 {
		t.Fatalf("upstream fetches = %d, want 1", f.calls)
	}
}

func TestSelectFailureLeavesDrillDownEmpty(t *testing.T) {
	f := &stubFetcher{err: errors.New("timeout")}
	d := newTestDashboard(f, Options{})
	s, err := d.Select(context.Background(), 2020)
	if err == nil {
		t.Fatal("expected error")
	}
	if !s.Selected || s.SelectedYear != 2020 || len(s.Titles) != 0 {
		t.Fatalf("state = %+v", s)
	}
}

func TestOverlappingSelectsApplyLatest(t *testing.T) {
	f := &stubFetcher{recs: sample(), gate: make(chan struct{})}
	d := newTestDashboard(f, Options{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = d.Select(context.Background(), 2020)
	}()
	// wait until the first selection is in flight
	for d.State().LatestToken != 1 {
		time.Sleep(time.Millisecond)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = d.Select(context.Background(), 2021)
	}()
	for d.State().LatestToken != 2 {
		time.Sleep(time.Millisecond)
	}
	close(f.gate)
	wg.Wait()

	s := d.State()
	if s.SelectedYear != 2021 || s.TitlesToken != 2 {
		t.Fatalf("state = %+v", s)
	}
	if len(s.Titles) != 1 || s.Titles[0].Title != "B" {
		t.Fatalf("titles = %+v", s.Titles)
	}
}

func TestEnsureLoaded(t *testing.T) {
	f := &stubFetcher{recs: sample()}
	d := New(source.NewCache(f, 0), zerolog.Nop(), Options{})
	for i := 0; i < 3; i++ {
		if err := d.EnsureLoaded(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if f.calls != 1 {
		t.Fatalf("fetches = %d", f.calls)
	}
	if err := d.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.calls != 2 {
		t.Fatalf("fetches after reload = %d", f.calls)
	}
}

func TestSelectAfterExpiryRebuildsSummary(t *testing.T) {
	f := &stubFetcher{recs: []domain.Record{{Year: 2020, Salary: "100", Title: "A"}}}
	st := &memStore{}
	d := New(source.NewCache(f, 10*time.Millisecond), zerolog.Nop(), Options{Store: st})
	if err := d.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := d.State().Jobs[0].TotalJobs; got != 1 {
		t.Fatalf("initial total = %d", got)
	}

	f.mu.Lock()
	f.recs = []domain.Record{
		{Year: 2020, Salary: "100", Title: "A"},
		{Year: 2020, Salary: "200", Title: "B"},
		{Year: 2020, Salary: "300", Title: "A"},
	}
	f.mu.Unlock()
	time.Sleep(20 * time.Millisecond)

	s, err := d.Select(context.Background(), 2020)
	if err != nil {
		t.Fatal(err)
	}
	sum := 0
	for _, tc := range s.Titles {
		sum += tc.Count
	}
	if s.Jobs[0].TotalJobs != sum || sum != 3 {
		t.Fatalf("summary total = %d, drill-down sum = %d", s.Jobs[0].TotalJobs, sum)
	}
	if len(s.Sorted) != 1 || s.Sorted[0].TotalJobs != 3 {
		t.Fatalf("sorted = %+v", s.Sorted)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.saves != 2 || len(st.snap.Records) != 3 {
		t.Fatalf("store saves = %d records = %d", st.saves, len(st.snap.Records))
	}
}

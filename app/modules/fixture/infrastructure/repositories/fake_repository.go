package fixturedb

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	"github.com/uptrace/bun"
)

// FakeRepository is an in-memory Repository for tests. Any Fn field overrides
// the in-memory behaviour of its method.
type FakeRepository struct {
	mu       sync.Mutex
	nextID   int64
	trace    []string
	fixtures map[string]*Fixture

	UpsertFn func(ctx context.Context, db bun.IDB, fixture *Fixture) error
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{fixtures: make(map[string]*Fixture)}
}

func (f *FakeRepository) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace returns the repository calls made so far.
func (f *FakeRepository) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.trace...)
}

// Seed stores a domain fixture and returns it with its assigned ID.
func (f *FakeRepository) Seed(d fixturedomain.Fixture) fixturedomain.Fixture {
	f.mu.Lock()
	defer f.mu.Unlock()
	row := FromDomain(d)
	f.store(row)
	return row.ToDomain()
}

func (f *FakeRepository) store(row *Fixture) {
	if existing, ok := f.fixtures[row.Key]; ok {
		row.ID = existing.ID
	} else {
		f.nextID++
		row.ID = f.nextID
	}
	c := *row
	f.fixtures[row.Key] = &c
}

func (f *FakeRepository) GetByKey(_ context.Context, _ bun.IDB, key string) (*Fixture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetByKey")
	row, ok := f.fixtures[key]
	if !ok {
		return nil, ErrNotFound
	}
	c := *row
	return &c, nil
}

func (f *FakeRepository) GetByID(_ context.Context, _ bun.IDB, id int64) (*Fixture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetByID")
	for _, row := range f.fixtures {
		if row.ID == id {
			c := *row
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) ListByIDs(_ context.Context, _ bun.IDB, ids []int64) ([]*Fixture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListByIDs")
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*Fixture
	for _, row := range f.fixtures {
		if want[row.ID] {
			c := *row
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *FakeRepository) FindByTeamAndKickoff(_ context.Context, _ bun.IDB, team string, kickoff time.Time) (*Fixture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("FindByTeamAndKickoff")
	team = fixturedomain.NormalizeTeam(team)
	kickoff = fixturedomain.NormalizeKickoff(kickoff)
	for _, row := range f.fixtures {
		if !row.KickoffAt.Equal(kickoff) {
			continue
		}
		if strings.EqualFold(row.HomeTeam, team) || strings.EqualFold(row.AwayTeam, team) {
			c := *row
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) inRange(from, to time.Time) []*Fixture {
	var out []*Fixture
	for _, row := range f.fixtures {
		if !row.KickoffAt.Before(from) && !row.KickoffAt.After(to) {
			c := *row
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f *FakeRepository) ListInRange(_ context.Context, _ bun.IDB, from, to time.Time) ([]*Fixture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListInRange")
	return f.inRange(from, to), nil
}

func (f *FakeRepository) CountScheduled(_ context.Context, _ bun.IDB, from, to time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CountScheduled")
	n := 0
	for _, row := range f.inRange(from, to) {
		if !row.Progress.IsVoid() {
			n++
		}
	}
	return n, nil
}

func (f *FakeRepository) Upsert(ctx context.Context, db bun.IDB, fixture *Fixture) error {
	if f.UpsertFn != nil {
		return f.UpsertFn(ctx, db, fixture)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Upsert")
	f.store(fixture)
	return nil
}

var _ Repository = (*FakeRepository)(nil)

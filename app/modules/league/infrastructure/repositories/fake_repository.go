package leaguedb

import (
	"context"
	"sort"
	"strings"
	"sync"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	"github.com/uptrace/bun"
)

// FakeRepository is an in-memory Repository for tests. It enforces the same
// unique constraints and version checks as the database. Any Fn field
// overrides the in-memory behaviour of its method.
type FakeRepository struct {
	mu     sync.Mutex
	nextID int64
	trace  []string

	leagues     map[int64]*League
	memberships map[int64]*Membership
	picks       map[int64]*Pick

	GetLeagueFn        func(ctx context.Context, db bun.IDB, id int64) (*League, error)
	UpdateLeagueFn     func(ctx context.Context, db bun.IDB, league *League) error
	LockLeagueFn       func(ctx context.Context, db bun.IDB, leagueID int64) error
	UpdateMembershipFn func(ctx context.Context, db bun.IDB, membership *Membership) error
	CreatePickFn       func(ctx context.Context, db bun.IDB, pick *Pick) error
	ListLeaguePicksFn  func(ctx context.Context, db bun.IDB, leagueID int64) ([]*Pick, error)
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		leagues:     make(map[int64]*League),
		memberships: make(map[int64]*Membership),
		picks:       make(map[int64]*Pick),
	}
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

func (f *FakeRepository) id() int64 {
	f.nextID++
	return f.nextID
}

// Seed helpers store rows directly, bypassing constraints.

func (f *FakeRepository) SeedLeague(l League) *League {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l.ID == 0 {
		l.ID = f.id()
	}
	f.leagues[l.ID] = &l
	return clone(&l)
}

func (f *FakeRepository) SeedMembership(m Membership) *Membership {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m.ID == 0 {
		m.ID = f.id()
	}
	if m.Version == 0 {
		m.Version = 1
	}
	f.memberships[m.ID] = &m
	return clone(&m)
}

func (f *FakeRepository) SeedPick(p Pick) *Pick {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == 0 {
		p.ID = f.id()
	}
	if p.Outcome == "" {
		p.Outcome = fixturedomain.OutcomeUnknown
	}
	f.picks[p.ID] = &p
	return clone(&p)
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

func (f *FakeRepository) CreateLeague(_ context.Context, _ bun.IDB, league *League) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateLeague")
	for _, l := range f.leagues {
		if l.JoinCode == league.JoinCode {
			return ErrDuplicate
		}
	}
	league.ID = f.id()
	f.leagues[league.ID] = clone(league)
	return nil
}

func (f *FakeRepository) GetLeague(ctx context.Context, db bun.IDB, id int64) (*League, error) {
	if f.GetLeagueFn != nil {
		return f.GetLeagueFn(ctx, db, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetLeague")
	l, ok := f.leagues[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(l), nil
}

func (f *FakeRepository) GetLeagueByJoinCode(_ context.Context, _ bun.IDB, code string) (*League, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetLeagueByJoinCode")
	for _, l := range f.leagues {
		if l.JoinCode == code {
			return clone(l), nil
		}
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) UpdateLeague(ctx context.Context, db bun.IDB, league *League) error {
	if f.UpdateLeagueFn != nil {
		return f.UpdateLeagueFn(ctx, db, league)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateLeague")
	stored, ok := f.leagues[league.ID]
	if !ok {
		return ErrNoRowsAffected
	}
	stored.Active = league.Active
	stored.ActivatedAt = league.ActivatedAt
	stored.FinishedAt = league.FinishedAt
	stored.WinnerUserID = league.WinnerUserID
	stored.Washed = league.Washed
	return nil
}

func (f *FakeRepository) ListActiveLeagues(_ context.Context, _ bun.IDB) ([]*League, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListActiveLeagues")
	var out []*League
	for _, l := range f.leagues {
		if l.Active && l.FinishedAt == nil {
			out = append(out, clone(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeRepository) ListLeaguesForUser(_ context.Context, _ bun.IDB, userID string) ([]*League, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListLeaguesForUser")
	var out []*League
	for _, m := range f.memberships {
		if m.UserID == userID {
			if l, ok := f.leagues[m.LeagueID]; ok {
				out = append(out, clone(l))
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *FakeRepository) LockLeague(ctx context.Context, db bun.IDB, leagueID int64) error {
	if f.LockLeagueFn != nil {
		return f.LockLeagueFn(ctx, db, leagueID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("LockLeague")
	return nil
}

func (f *FakeRepository) CreateMembership(_ context.Context, _ bun.IDB, membership *Membership) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateMembership")
	for _, m := range f.memberships {
		if m.LeagueID == membership.LeagueID && m.UserID == membership.UserID {
			return ErrDuplicate
		}
	}
	membership.ID = f.id()
	membership.Version = 1
	f.memberships[membership.ID] = clone(membership)
	return nil
}

func (f *FakeRepository) GetMembership(_ context.Context, _ bun.IDB, leagueID int64, userID string) (*Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetMembership")
	for _, m := range f.memberships {
		if m.LeagueID == leagueID && m.UserID == userID {
			return clone(m), nil
		}
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) ListMemberships(_ context.Context, _ bun.IDB, leagueID int64) ([]*Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListMemberships")
	var out []*Membership
	for _, m := range f.memberships {
		if m.LeagueID == leagueID {
			out = append(out, clone(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeRepository) ListMembershipsForUser(_ context.Context, _ bun.IDB, userID string) ([]*Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListMembershipsForUser")
	var out []*Membership
	for _, m := range f.memberships {
		if m.UserID == userID {
			out = append(out, clone(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeRepository) UpdateMembership(ctx context.Context, db bun.IDB, membership *Membership) error {
	if f.UpdateMembershipFn != nil {
		return f.UpdateMembershipFn(ctx, db, membership)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateMembership")
	stored, ok := f.memberships[membership.ID]
	if !ok || stored.Version != membership.Version {
		return ErrConcurrentUpdate
	}
	membership.Version++
	updated := clone(membership)
	updated.LeagueID, updated.UserID, updated.JoinedAt = stored.LeagueID, stored.UserID, stored.JoinedAt
	f.memberships[membership.ID] = updated
	return nil
}

func (f *FakeRepository) CreatePick(ctx context.Context, db bun.IDB, pick *Pick) error {
	if f.CreatePickFn != nil {
		return f.CreatePickFn(ctx, db, pick)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreatePick")
	for _, p := range f.picks {
		if p.LeagueID == pick.LeagueID && p.UserID == pick.UserID && strings.EqualFold(p.Team, pick.Team) {
			return ErrDuplicate
		}
	}
	pick.ID = f.id()
	if pick.Outcome == "" {
		pick.Outcome = fixturedomain.OutcomeUnknown
	}
	f.picks[pick.ID] = clone(pick)
	return nil
}

func (f *FakeRepository) listPicks(match func(*Pick) bool) []*Pick {
	var out []*Pick
	for _, p := range f.picks {
		if match(p) {
			out = append(out, clone(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LeagueID != out[j].LeagueID {
			return out[i].LeagueID < out[j].LeagueID
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f *FakeRepository) ListPicks(_ context.Context, _ bun.IDB, leagueID int64, userID string) ([]*Pick, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListPicks")
	return f.listPicks(func(p *Pick) bool { return p.LeagueID == leagueID && p.UserID == userID }), nil
}

func (f *FakeRepository) ListLeaguePicks(ctx context.Context, db bun.IDB, leagueID int64) ([]*Pick, error) {
	if f.ListLeaguePicksFn != nil {
		return f.ListLeaguePicksFn(ctx, db, leagueID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListLeaguePicks")
	return f.listPicks(func(p *Pick) bool { return p.LeagueID == leagueID }), nil
}

func (f *FakeRepository) ListPicksByFixture(_ context.Context, _ bun.IDB, fixtureID int64) ([]*Pick, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListPicksByFixture")
	return f.listPicks(func(p *Pick) bool { return p.FixtureID == fixtureID }), nil
}

func (f *FakeRepository) UpdatePickOutcome(_ context.Context, _ bun.IDB, pickID int64, outcome fixturedomain.Outcome) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdatePickOutcome")
	p, ok := f.picks[pickID]
	if !ok {
		return ErrNoRowsAffected
	}
	p.Outcome = outcome
	return nil
}

func (f *FakeRepository) DeletePick(_ context.Context, _ bun.IDB, pickID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeletePick")
	delete(f.picks, pickID)
	return nil
}

var _ Repository = (*FakeRepository)(nil)

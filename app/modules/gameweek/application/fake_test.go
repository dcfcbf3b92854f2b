package gameweekservice

import (
	"context"
	"time"

	gameweekdb "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/infrastructure/repositories"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Gameweek Repo
// ------------------------

type FakeGameweekRepo struct {
	trace []string

	GetStateFunc    func(ctx context.Context, db bun.IDB, windowStart time.Time) (*gameweekdb.GameweekState, error)
	UpsertStateFunc func(ctx context.Context, db bun.IDB, state *gameweekdb.GameweekState) error
}

func NewFakeGameweekRepo() *FakeGameweekRepo {
	return &FakeGameweekRepo{trace: []string{}}
}

func (f *FakeGameweekRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeGameweekRepo) Trace() []string {
	return f.trace
}

func (f *FakeGameweekRepo) GetState(ctx context.Context, db bun.IDB, windowStart time.Time) (*gameweekdb.GameweekState, error) {
	f.record("GetState")
	if f.GetStateFunc != nil {
		return f.GetStateFunc(ctx, db, windowStart)
	}
	return nil, gameweekdb.ErrNotFound
}

func (f *FakeGameweekRepo) UpsertState(ctx context.Context, db bun.IDB, state *gameweekdb.GameweekState) error {
	f.record("UpsertState")
	if f.UpsertStateFunc != nil {
		return f.UpsertStateFunc(ctx, db, state)
	}
	return nil
}

var _ gameweekdb.Repository = (*FakeGameweekRepo)(nil)

// ------------------------
// Fake Fixture Counter
// ------------------------

type FakeFixtureCounter struct {
	CountScheduledFunc func(ctx context.Context, db bun.IDB, from, to time.Time) (int, error)
}

func (f *FakeFixtureCounter) CountScheduled(ctx context.Context, db bun.IDB, from, to time.Time) (int, error) {
	if f.CountScheduledFunc != nil {
		return f.CountScheduledFunc(ctx, db, from, to)
	}
	return 0, nil
}

var _ FixtureCounter = (*FakeFixtureCounter)(nil)

// ------------------------
// Recording Publisher
// ------------------------

type recordingPublisher struct {
	topics []string
}

func (p *recordingPublisher) Publish(topic string, messages ...*message.Message) error {
	for range messages {
		p.topics = append(p.topics, topic)
	}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

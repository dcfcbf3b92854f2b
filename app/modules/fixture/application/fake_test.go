package fixtureservice

import (
	"context"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Transition Applier
// ------------------------

type appliedTransition struct {
	Key        string
	FixtureID  int64
	Transition fixturedomain.Transition
}

type FakeApplier struct {
	calls []appliedTransition

	ApplyTransitionFunc func(ctx context.Context, db bun.IDB, fixture fixturedomain.Fixture, transition fixturedomain.Transition) ([]handlerwrapper.Result, error)
}

func (f *FakeApplier) ApplyTransition(ctx context.Context, db bun.IDB, fixture fixturedomain.Fixture, transition fixturedomain.Transition) ([]handlerwrapper.Result, error) {
	f.calls = append(f.calls, appliedTransition{Key: fixture.Key, FixtureID: fixture.ID, Transition: transition})
	if f.ApplyTransitionFunc != nil {
		return f.ApplyTransitionFunc(ctx, db, fixture, transition)
	}
	return nil, nil
}

var _ TransitionApplier = (*FakeApplier)(nil)

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

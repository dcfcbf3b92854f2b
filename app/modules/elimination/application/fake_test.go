package eliminationservice

import (
	"context"
	"time"

	gameweekdomain "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/domain"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Gameweek Status
// ------------------------

type FakeGameweek struct {
	calc     gameweekdomain.Calculator
	fixtures int

	StatusFunc func(ctx context.Context, db bun.IDB, at time.Time) (gameweekdomain.Status, error)
}

func (f *FakeGameweek) Calculator() gameweekdomain.Calculator {
	return f.calc
}

func (f *FakeGameweek) Status(ctx context.Context, db bun.IDB, at time.Time) (gameweekdomain.Status, error) {
	if f.StatusFunc != nil {
		return f.StatusFunc(ctx, db, at)
	}
	return gameweekdomain.EvaluateStatus(f.calc, at, f.fixtures, gameweekdomain.DefaultMinTeamSides), nil
}

var _ GameweekStatus = (*FakeGameweek)(nil)

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

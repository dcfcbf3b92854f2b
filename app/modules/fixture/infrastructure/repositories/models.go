package fixturedb

import (
	"time"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	"github.com/uptrace/bun"
)

// Fixture is the stored fixture row.
type Fixture struct {
	bun.BaseModel `bun:"table:fixtures,alias:f"`

	ID          int64                  `bun:"id,pk,autoincrement"`
	Key         string                 `bun:"fixture_key,notnull,unique"`
	League      string                 `bun:"league,notnull"`
	HomeTeam    string                 `bun:"home_team,notnull"`
	AwayTeam    string                 `bun:"away_team,notnull"`
	KickoffAt   time.Time              `bun:"kickoff_at,notnull"`
	Progress    fixturedomain.Progress `bun:"progress,notnull"`
	HomeScore   *int                   `bun:"home_score"`
	AwayScore   *int                   `bun:"away_score"`
	HomeOutcome fixturedomain.Outcome  `bun:"home_outcome,notnull"`
	AwayOutcome fixturedomain.Outcome  `bun:"away_outcome,notnull"`
	CreatedAt   time.Time              `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time              `bun:"updated_at,notnull,default:current_timestamp"`
}

// ToDomain converts the row into the domain fixture.
func (f *Fixture) ToDomain() fixturedomain.Fixture {
	return fixturedomain.Fixture{
		ID:          f.ID,
		Key:         f.Key,
		League:      f.League,
		HomeTeam:    f.HomeTeam,
		AwayTeam:    f.AwayTeam,
		KickoffAt:   f.KickoffAt.UTC(),
		Progress:    f.Progress,
		HomeScore:   f.HomeScore,
		AwayScore:   f.AwayScore,
		HomeOutcome: f.HomeOutcome,
		AwayOutcome: f.AwayOutcome,
	}
}

// FromDomain builds a row from a domain fixture.
func FromDomain(d fixturedomain.Fixture) *Fixture {
	return &Fixture{
		ID:          d.ID,
		Key:         d.Key,
		League:      d.League,
		HomeTeam:    d.HomeTeam,
		AwayTeam:    d.AwayTeam,
		KickoffAt:   d.KickoffAt.UTC(),
		Progress:    d.Progress,
		HomeScore:   d.HomeScore,
		AwayScore:   d.AwayScore,
		HomeOutcome: d.HomeOutcome,
		AwayOutcome: d.AwayOutcome,
	}
}

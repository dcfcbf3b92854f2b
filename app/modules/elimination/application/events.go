package eliminationservice

import (
	"time"

	leaguedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/league/domain"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/handlerwrapper"
)

func eliminatedEvent(m leaguedomain.Membership, fixtureKey string) handlerwrapper.Result {
	var at time.Time
	if m.EliminatedAt != nil {
		at = *m.EliminatedAt
	}
	return handlerwrapper.Result{
		Topic: leaguedomain.TopicMemberEliminatedV1,
		Payload: leaguedomain.MemberEliminatedPayloadV1{
			LeagueID:     m.LeagueID,
			UserID:       m.UserID,
			Reason:       m.EliminationReason,
			FixtureKey:   fixtureKey,
			EliminatedAt: at,
		},
	}
}

func reopenedEvent(m leaguedomain.Membership, fixtureKey string) handlerwrapper.Result {
	return handlerwrapper.Result{
		Topic: leaguedomain.TopicMemberReopenedV1,
		Payload: leaguedomain.MemberReopenedPayloadV1{
			LeagueID:   m.LeagueID,
			UserID:     m.UserID,
			FixtureKey: fixtureKey,
		},
	}
}

func winnerEvent(l leaguedomain.League, userID string) handlerwrapper.Result {
	return handlerwrapper.Result{
		Topic: leaguedomain.TopicWinnerDeclaredV1,
		Payload: leaguedomain.WinnerDeclaredPayloadV1{
			LeagueID:   l.ID,
			UserID:     userID,
			FinishedAt: *l.FinishedAt,
		},
	}
}

func washedEvent(l leaguedomain.League) handlerwrapper.Result {
	return handlerwrapper.Result{
		Topic: leaguedomain.TopicLeagueWashedV1,
		Payload: leaguedomain.LeagueWashedPayloadV1{
			LeagueID:   l.ID,
			FinishedAt: *l.FinishedAt,
		},
	}
}

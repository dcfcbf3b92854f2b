package leaguedomain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Black-And-White-Club/last-man-standing/app/shared/apperrors"
)

func TestNewLeague(t *testing.T) {
	l, err := NewLeague("  Sunday   League ", "creator", "ABC234", now)
	if err != nil {
		t.Fatalf("NewLeague: %v", err)
	}
	if l.Name != "Sunday League" || l.Active || l.IsFinished() {
		t.Fatalf("unexpected league %+v", l)
	}

	if _, err := NewLeague(" ", "creator", "ABC234", now); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("blank name err = %v", err)
	}
	if _, err := NewLeague(strings.Repeat("x", 65), "creator", "ABC234", now); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("long name err = %v", err)
	}
	if _, err := NewLeague("ok", "", "ABC234", now); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("anonymous creator err = %v", err)
	}
}

func TestLeague_CanActivate(t *testing.T) {
	open := League{ID: 1, CreatorID: "creator"}
	active := open.Activate(now)
	finished := active.FinishWashed(now)

	tests := []struct {
		name      string
		league    League
		requester string
		want      error
	}{
		{"creator on open league", open, "creator", nil},
		{"stranger", open, "someone", apperrors.ErrPermissionDenied},
		{"already active", active, "creator", apperrors.ErrLeagueActive},
		{"finished", finished, "creator", apperrors.ErrLeagueFinished},
		{"stranger on finished", finished, "someone", apperrors.ErrPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.league.CanActivate(tt.requester)
			if tt.want == nil && err != nil {
				t.Fatalf("CanActivate = %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("CanActivate = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLeague_CanJoin(t *testing.T) {
	open := League{ID: 1}
	if err := open.CanJoin(); err != nil {
		t.Fatalf("open league: %v", err)
	}
	if err := open.Activate(now).CanJoin(); !errors.Is(err, apperrors.ErrLeagueActive) {
		t.Fatalf("active league err = %v", err)
	}
	if err := open.Activate(now).FinishWithWinner("u1", now).CanJoin(); !errors.Is(err, apperrors.ErrLeagueFinished) {
		t.Fatalf("finished league err = %v", err)
	}
}

func TestLeague_Finish(t *testing.T) {
	l := League{ID: 1}.Activate(now)
	if !l.ActivatedBefore(now.Add(time.Minute)) || l.ActivatedBefore(now) {
		t.Fatalf("ActivatedBefore wrong for %v", l.ActivatedAt)
	}

	won := l.FinishWithWinner("u1", now)
	if won.Active || won.Washed || won.WinnerUserID == nil || *won.WinnerUserID != "u1" {
		t.Fatalf("won league %+v", won)
	}

	washed := l.FinishWashed(now)
	if washed.Active || !washed.Washed || washed.WinnerUserID != nil || washed.FinishedAt == nil {
		t.Fatalf("washed league %+v", washed)
	}
}

func TestJoinCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := NewJoinCode()
		if err != nil {
			t.Fatalf("NewJoinCode: %v", err)
		}
		if _, ok := NormalizeJoinCode(code); !ok {
			t.Fatalf("generated code %q does not normalize", code)
		}
		seen[code] = true
	}
	if len(seen) < 45 {
		t.Fatalf("join codes repeat too often: %d distinct of 50", len(seen))
	}

	if got, ok := NormalizeJoinCode(" abc234 "); !ok || got != "ABC234" {
		t.Fatalf("NormalizeJoinCode = %q, %v", got, ok)
	}
	for _, bad := range []string{"", "ABC23", "ABC2345", "ABC10O", "ABC-23"} {
		if _, ok := NormalizeJoinCode(bad); ok {
			t.Fatalf("NormalizeJoinCode(%q) accepted", bad)
		}
	}
}

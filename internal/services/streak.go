package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/leetcoach-backend/internal/data/repos"
	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
)

// activeStreak reports the stored streak only while it is still alive: the
// last active day must be today or yesterday.
func activeStreak(s *types.UserStreak, now time.Time) int {
	if s == nil || s.LastActivityDate == "" {
		return 0
	}
	today := types.DateKey(now)
	yesterday := types.DateKey(now.AddDate(0, 0, -1))
	if s.LastActivityDate == today || s.LastActivityDate == yesterday {
		return s.CurrentStreak
	}
	return 0
}

// extendStreak applies an accepted submission on day to s. Activity older
// than the last recorded day leaves the streak alone.
func extendStreak(s *types.UserStreak, day time.Time) (*types.UserStreak, bool) {
	key := types.DateKey(day)
	if s.LastActivityDate != "" && key <= s.LastActivityDate {
		return s, false
	}
	prev := types.DateKey(day.AddDate(0, 0, -1))
	if s.LastActivityDate == prev {
		s.CurrentStreak++
	} else {
		s.CurrentStreak = 1
	}
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	s.LastActivityDate = key
	return s, true
}

// recordActivity extends the stored streak with activity on day.
func recordActivity(dbc dbctx.Context, streaks repos.StreakRepo, userID uuid.UUID, day, now time.Time) error {
	st, err := streaks.Get(dbc, userID)
	if err != nil {
		return fmt.Errorf("load streak: %w", err)
	}
	if st == nil {
		st = &types.UserStreak{UserID: userID}
	}
	st, changed := extendStreak(st, day)
	if !changed {
		return nil
	}
	st.UpdatedAt = now
	if err := streaks.Upsert(dbc, st); err != nil {
		return fmt.Errorf("save streak: %w", err)
	}
	return nil
}

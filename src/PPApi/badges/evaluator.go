package badges

import (
	"context"
	"errors"
	"time"

	"github.com/proposalpal/proposalpal/src/PPApi/credits"
	"github.com/proposalpal/proposalpal/src/PPApi/errs"
	"github.com/proposalpal/proposalpal/src/PPApi/store"
)

// Evaluator recomputes a wallet's qualifying badges from aggregate
// activity on every call; nothing is cached between evaluations.
type Evaluator struct {
	store *store.Store
	now   func() time.Time
}

func NewEvaluator(st *store.Store) *Evaluator {
	return &Evaluator{store: st, now: time.Now}
}

type activityStats struct {
	votes          int64
	rank           int // 1-based, 0 when unranked
	timesPurchased int64
	dailyVotes     int64
}

func (e *Evaluator) gather(ctx context.Context, wallet string) (activityStats, error) {
	var stats activityStats

	votes, err := e.store.VoteCount(ctx, wallet)
	if err != nil {
		return stats, err
	}
	stats.votes = votes

	rows, err := e.store.Leaderboard(ctx)
	if err != nil {
		return stats, err
	}
	for i, row := range rows {
		if row.WalletAddress == wallet {
			stats.rank = i + 1
			break
		}
	}

	user, err := e.store.UserByWallet(ctx, wallet)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return stats, err
	}
	stats.timesPurchased = user.CreditsPurchased / credits.PurchaseBonus

	// Start of the current calendar day in server-local time.
	now := e.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	daily, err := e.store.VotesSince(ctx, wallet, dayStart)
	if err != nil {
		return stats, err
	}
	stats.dailyVotes = daily

	return stats, nil
}

func (s activityStats) qualifies(req Requirement) bool {
	switch r := req.(type) {
	case VoteCount:
		return s.votes >= r.Threshold
	case LeaderboardRank:
		return s.rank > 0 && s.rank <= r.MaxRank
	case CreditsPurchased:
		return s.timesPurchased >= r.Times
	case DailyVotes:
		return s.dailyVotes >= r.Threshold
	default:
		// Streak and Special have no evaluator.
		return false
	}
}

// Evaluate returns the ids of every badge the wallet currently
// qualifies for, in catalog order.
func (e *Evaluator) Evaluate(ctx context.Context, wallet string) ([]string, error) {
	stats, err := e.gather(ctx, wallet)
	if err != nil {
		return nil, err
	}

	var earned []string
	for _, b := range Catalog {
		if stats.qualifies(b.Requirement) {
			earned = append(earned, b.ID)
		}
	}
	return earned, nil
}

// NewlyEarned is the order-preserving set difference current minus
// previous.
func NewlyEarned(previous, current []string) []string {
	seen := make(map[string]bool, len(previous))
	for _, id := range previous {
		seen[id] = true
	}
	var out []string
	for _, id := range current {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}

// CheckAndAward evaluates the wallet, persists any newly earned badges
// and returns them. Awarding is insert-once, so replays are no-ops.
func (e *Evaluator) CheckAndAward(ctx context.Context, wallet string) ([]string, error) {
	current, err := e.Evaluate(ctx, wallet)
	if err != nil {
		return nil, err
	}
	previous, err := e.store.BadgeIDs(ctx, wallet)
	if err != nil {
		return nil, err
	}
	newBadges := NewlyEarned(previous, current)
	if len(newBadges) == 0 {
		return nil, nil
	}
	if err := e.store.AwardBadges(ctx, wallet, newBadges); err != nil {
		return nil, err
	}
	return newBadges, nil
}

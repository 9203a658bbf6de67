package credits

import (
	"context"

	"github.com/proposalpal/proposalpal/src/PPApi/store"
	"github.com/proposalpal/proposalpal/src/PPApi/types"
)

const (
	// Every wallet starts with this many free credits on first sight.
	DefaultFree = 500
	// Credits granted per verified on-chain payment.
	PurchaseBonus = 1500
)

type Ledger struct {
	store *store.Store
}

func NewLedger(st *store.Store) *Ledger { return &Ledger{store: st} }

// GetOrCreateUser returns the wallet's credit row, creating it with the
// free allowance if the wallet has never been seen.
func (l *Ledger) GetOrCreateUser(ctx context.Context, wallet string) (types.User, error) {
	return l.store.EnsureUser(ctx, wallet, DefaultFree)
}

// Debit consumes one credit for a generated summary.
func (l *Ledger) Debit(ctx context.Context, wallet string) error {
	return l.store.DebitCredits(ctx, wallet, 1)
}

type Summary struct {
	Remaining int64 `json:"remaining"`
	Consumed  int64 `json:"consumed"`
	Total     int64 `json:"total"`
}

// Summarize derives the display figures from the stored row. Pure.
func Summarize(u types.User) Summary {
	total := DefaultFree + u.CreditsPurchased
	return Summary{
		Remaining: u.CreditsRemaining,
		Consumed:  total - u.CreditsRemaining,
		Total:     total,
	}
}

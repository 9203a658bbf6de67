package credits_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/proposalpal/proposalpal/src/PPApi/credits"
	"github.com/proposalpal/proposalpal/src/PPApi/store"
	"github.com/proposalpal/proposalpal/src/PPApi/types"
)

func newTestLedger(t *testing.T) *credits.Ledger {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	return credits.NewLedger(store.New(db))
}

func TestGetOrCreateUserFreeAllowance(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	u, err := ledger.GetOrCreateUser(ctx, "addr1xxxxxxxx")
	require.NoError(t, err)
	require.Equal(t, int64(credits.DefaultFree), u.CreditsRemaining)
	require.Equal(t, int64(0), u.CreditsPurchased)
}

func TestDebitConsumesOneCredit(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.GetOrCreateUser(ctx, "addr1xxxxxxxx")
	require.NoError(t, err)
	require.NoError(t, ledger.Debit(ctx, "addr1xxxxxxxx"))

	u, err := ledger.GetOrCreateUser(ctx, "addr1xxxxxxxx")
	require.NoError(t, err)
	require.Equal(t, int64(credits.DefaultFree-1), u.CreditsRemaining)
}

func TestSummarizeDerivation(t *testing.T) {
	s := credits.Summarize(types.User{
		WalletAddress:    "addr1xxxxxxxx",
		CreditsRemaining: 1900,
		CreditsPurchased: 1500,
	})
	require.Equal(t, credits.Summary{Remaining: 1900, Consumed: 100, Total: 2000}, s)

	fresh := credits.Summarize(types.User{CreditsRemaining: 500})
	require.Equal(t, credits.Summary{Remaining: 500, Consumed: 0, Total: 500}, fresh)
}

package payments

import (
	"context"
	"fmt"
	"math/big"

	"github.com/proposalpal/proposalpal/src/PPApi/blockfrost"
	"github.com/proposalpal/proposalpal/src/PPApi/credits"
	"github.com/proposalpal/proposalpal/src/PPApi/errs"
	"github.com/proposalpal/proposalpal/src/PPApi/store"
)

// ChainClient is the blockchain data provider dependency.
type ChainClient interface {
	TxUTXOs(ctx context.Context, txHash string) (*blockfrost.TxUTXOs, error)
}

// Verifier confirms on-chain payments to the treasury address and
// credits the paying wallet exactly once per transaction hash.
type Verifier struct {
	store    *store.Store
	ledger   *credits.Ledger
	chain    ChainClient
	treasury string
	required *big.Int
}

func NewVerifier(st *store.Store, ledger *credits.Ledger, chain ChainClient, treasury, requiredLovelace string) (*Verifier, error) {
	required, ok := new(big.Int).SetString(requiredLovelace, 10)
	if !ok || required.Sign() <= 0 {
		return nil, fmt.Errorf("bad required lovelace amount %q", requiredLovelace)
	}
	return &Verifier{
		store:    st,
		ledger:   ledger,
		chain:    chain,
		treasury: treasury,
		required: required,
	}, nil
}

// Confirm verifies the transaction and credits the wallet. Outcomes:
// ErrConflict when the hash was already claimed (by any wallet),
// ErrNotFound when the provider does not know the transaction yet,
// ErrPaymentNotFound when no output pays the treasury enough. Side
// effects are visible only on success; the claim insert and the credit
// commit together.
func (v *Verifier) Confirm(ctx context.Context, wallet, txHash string) (string, error) {
	claimed, err := v.store.TxClaimed(ctx, txHash)
	if err != nil {
		return "", err
	}
	if claimed {
		return "", errs.ErrConflict
	}

	utxos, err := v.chain.TxUTXOs(ctx, txHash)
	if err != nil {
		return "", err
	}

	if !v.paysTreasury(utxos.Outputs) {
		return "", errs.ErrPaymentNotFound
	}

	// The row must exist before the relative credit update.
	if _, err := v.ledger.GetOrCreateUser(ctx, wallet); err != nil {
		return "", err
	}
	if err := v.store.ClaimAndCredit(ctx, wallet, txHash, credits.PurchaseBonus); err != nil {
		return "", err
	}

	return fmt.Sprintf("%d credits added.", credits.PurchaseBonus), nil
}

// paysTreasury scans all outputs for one that pays the treasury address
// at least the required lovelace. Amounts are compared as exact
// integers; quantities arrive as decimal strings and are never parsed
// as floating point.
func (v *Verifier) paysTreasury(outputs []blockfrost.TxOutput) bool {
	for _, out := range outputs {
		if out.Address != v.treasury {
			continue
		}
		for _, amt := range out.Amount {
			if amt.Unit != blockfrost.LovelaceUnit {
				continue
			}
			qty, ok := new(big.Int).SetString(amt.Quantity, 10)
			if !ok {
				continue
			}
			if qty.Cmp(v.required) >= 0 {
				return true
			}
		}
	}
	return false
}

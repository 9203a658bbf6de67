package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/proposalpal/proposalpal/src/PPApi/errs"
	"github.com/proposalpal/proposalpal/src/PPApi/types"
)

// Store is the persistence handle passed down to every component. It is
// constructed once at process start and owns no connection state of its
// own beyond the gorm handle.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{db: db} }

// Migrate creates the table set. Uniqueness constraints here are
// load-bearing: vote and badge dedup and the payment replay guard all
// rely on them.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.User{},
		&types.Vote{},
		&types.ClaimedTransaction{},
		&types.SummaryCache{},
		&types.TranslationCache{},
		&types.CommunityInsightsCache{},
		&types.ActivityLog{},
		&types.UserBadge{},
		&types.Setting{},
	)
}

// EnsureUser inserts the user row if absent and returns the stored row.
// The insert-if-absent is a single upsert, so two concurrent first
// contacts for the same wallet cannot both create it.
func (s *Store) EnsureUser(ctx context.Context, wallet string, defaultCredits int64) (types.User, error) {
	u := types.User{
		WalletAddress:    wallet,
		CreditsRemaining: defaultCredits,
		CreditsPurchased: 0,
	}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&u).Error; err != nil {
		return types.User{}, err
	}
	var out types.User
	if err := s.db.WithContext(ctx).First(&out, "wallet_address = ?", wallet).Error; err != nil {
		return types.User{}, err
	}
	return out, nil
}

func (s *Store) UserByWallet(ctx context.Context, wallet string) (types.User, error) {
	var u types.User
	err := s.db.WithContext(ctx).First(&u, "wallet_address = ?", wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.User{}, errs.ErrNotFound
	}
	return u, err
}

// DebitCredits applies a relative decrement so concurrent debits never
// lose updates, though the check that gates them can still race.
func (s *Store) DebitCredits(ctx context.Context, wallet string, n int64) error {
	res := s.db.WithContext(ctx).Model(&types.User{}).
		Where("wallet_address = ?", wallet).
		Update("credits_remaining", gorm.Expr("credits_remaining - ?", n))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (s *Store) TxClaimed(ctx context.Context, txHash string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&types.ClaimedTransaction{}).
		Where("tx_hash = ?", txHash).Count(&n).Error
	return n > 0, err
}

// ClaimAndCredit consumes the tx hash and credits the wallet in one
// transaction. If the hash was already claimed, nothing is written and
// ErrConflict is returned; the guard is never consumed without the
// matching credit landing in the same commit.
func (s *Store) ClaimAndCredit(ctx context.Context, wallet, txHash string, bonus int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&types.ClaimedTransaction{TxHash: txHash})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.ErrConflict
		}
		res = tx.Model(&types.User{}).
			Where("wallet_address = ?", wallet).
			Updates(map[string]interface{}{
				"credits_remaining": gorm.Expr("credits_remaining + ?", bonus),
				"credits_purchased": gorm.Expr("credits_purchased + ?", bonus),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.ErrNotFound
		}
		return nil
	})
}

// CreateVote inserts the vote; a second vote for the same (wallet, CIP)
// is ErrConflict and the stored choice stays the first one submitted.
func (s *Store) CreateVote(ctx context.Context, v *types.Vote) error {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(v)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrConflict
	}
	return nil
}

func (s *Store) VotesByWallet(ctx context.Context, wallet string) ([]types.Vote, error) {
	var votes []types.Vote
	err := s.db.WithContext(ctx).
		Where("wallet_address = ?", wallet).
		Order("created_at desc").
		Find(&votes).Error
	return votes, err
}

func (s *Store) VoteCount(ctx context.Context, wallet string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&types.Vote{}).
		Where("wallet_address = ?", wallet).Count(&n).Error
	return n, err
}

func (s *Store) VotesSince(ctx context.Context, wallet string, since time.Time) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&types.Vote{}).
		Where("wallet_address = ? AND created_at >= ?", wallet, since).
		Count(&n).Error
	return n, err
}

type VoteStats struct {
	Yes     int64 `json:"yes"`
	No      int64 `json:"no"`
	Abstain int64 `json:"abstain"`
	Total   int64 `json:"total"`
}

func (s *Store) VoteStatsByCIP(ctx context.Context, cip string) (VoteStats, error) {
	type agg struct {
		VoteChoice string
		Count      int64
	}
	var rows []agg
	err := s.db.WithContext(ctx).Model(&types.Vote{}).
		Select("vote_choice, count(*) as count").
		Where("cip_number = ?", cip).
		Group("vote_choice").
		Scan(&rows).Error
	if err != nil {
		return VoteStats{}, err
	}
	var out VoteStats
	for _, r := range rows {
		switch r.VoteChoice {
		case "YES":
			out.Yes = r.Count
		case "NO":
			out.No = r.Count
		case "ABSTAIN":
			out.Abstain = r.Count
		}
		out.Total += r.Count
	}
	return out, nil
}

type LeaderboardRow struct {
	WalletAddress string `json:"walletAddress"`
	Votes         int64  `json:"votes"`
	Points        int64  `json:"points"`
	// Tie-break column; scanned as text so both drivers agree.
	FirstVote string `json:"-"`
}

// Leaderboard ranks wallets by vote count descending. Ties break on the
// earliest first vote, then on wallet address, so the order is a total
// order and stable across calls.
func (s *Store) Leaderboard(ctx context.Context) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := s.db.WithContext(ctx).Model(&types.Vote{}).
		Select("wallet_address, count(id) as votes, count(id) as points, min(created_at) as first_vote").
		Group("wallet_address").
		Order("votes desc, first_vote asc, wallet_address asc").
		Scan(&rows).Error
	return rows, err
}

func (s *Store) Summary(ctx context.Context, cip string) (*types.SummaryCache, error) {
	var entry types.SummaryCache
	err := s.db.WithContext(ctx).First(&entry, "cip_number = ?", cip).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// PutSummary reports whether this writer won the insert. A concurrent
// generation for the same CIP may land first; the loser keeps the
// stored entry and discards its own.
func (s *Store) PutSummary(ctx context.Context, entry *types.SummaryCache) (bool, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entry)
	return res.RowsAffected > 0, res.Error
}

func (s *Store) Translation(ctx context.Context, sourceHash, lang string) (*types.TranslationCache, error) {
	var entry types.TranslationCache
	err := s.db.WithContext(ctx).
		First(&entry, "source_text_hash = ? AND target_language = ?", sourceHash, lang).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Store) PutTranslation(ctx context.Context, entry *types.TranslationCache) (bool, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entry)
	return res.RowsAffected > 0, res.Error
}

func (s *Store) Insights(ctx context.Context, cipHash string) (*types.CommunityInsightsCache, error) {
	var entry types.CommunityInsightsCache
	err := s.db.WithContext(ctx).First(&entry, "cip_hash = ?", cipHash).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Store) PutInsights(ctx context.Context, entry *types.CommunityInsightsCache) (bool, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entry)
	return res.RowsAffected > 0, res.Error
}

func (s *Store) AppendActivity(ctx context.Context, wallet, cip string, cached bool) error {
	return s.db.WithContext(ctx).Create(&types.ActivityLog{
		WalletAddress: wallet,
		CIPNumber:     cip,
		WasCached:     cached,
	}).Error
}

func (s *Store) BadgeIDs(ctx context.Context, wallet string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&types.UserBadge{}).
		Where("wallet_address = ?", wallet).
		Order("earned_at asc, id asc").
		Pluck("badge_id", &ids).Error
	return ids, err
}

func (s *Store) UserBadges(ctx context.Context, wallet string) ([]types.UserBadge, error) {
	var badges []types.UserBadge
	err := s.db.WithContext(ctx).
		Where("wallet_address = ?", wallet).
		Order("earned_at asc, id asc").
		Find(&badges).Error
	return badges, err
}

// AwardBadges inserts one row per badge id; duplicates are no-ops.
func (s *Store) AwardBadges(ctx context.Context, wallet string, ids []string) error {
	for _, id := range ids {
		err := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&types.UserBadge{WalletAddress: wallet, BadgeID: id}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

package types

import "time"

// Users are keyed by wallet address and created lazily on first contact.
type User struct {
	WalletAddress    string `gorm:"primaryKey;size:128"`
	CreditsRemaining int64  `gorm:"not null;default:500"`
	CreditsPurchased int64  `gorm:"not null;default:0"`
}

// Advisory votes, one per wallet per CIP.
type Vote struct {
	ID            uint64 `gorm:"primaryKey"`
	WalletAddress string `gorm:"size:128;not null;uniqueIndex:idx_votes_wallet_cip"`
	CIPNumber     string `gorm:"column:cip_number;size:32;not null;uniqueIndex:idx_votes_wallet_cip"`
	VoteChoice    string `gorm:"size:16;not null"`
	CreatedAt     time.Time
}

// Replay guard for credit top-ups. A tx hash is claimed at most once,
// globally, regardless of which wallet presents it.
type ClaimedTransaction struct {
	TxHash    string `gorm:"primaryKey;size:128"`
	CreatedAt time.Time
}

// Generated summaries, immutable once written, never expire.
type SummaryCache struct {
	CIPNumber string    `gorm:"column:cip_number;primaryKey;size:32"`
	Title     string    `gorm:"size:255;not null"`
	Summary   string    `gorm:"type:text;not null"`
	CachedAt  time.Time `gorm:"autoCreateTime"`
}

// Translations are content-addressed by a SHA-256 of the exact source
// text, so any byte change in the source is a miss.
type TranslationCache struct {
	ID             uint64    `gorm:"primaryKey"`
	SourceTextHash string    `gorm:"size:64;not null;uniqueIndex:idx_translations_hash_lang"`
	TargetLanguage string    `gorm:"size:64;not null;uniqueIndex:idx_translations_hash_lang"`
	TranslatedText string    `gorm:"type:text;not null"`
	CachedAt       time.Time `gorm:"autoCreateTime"`
}

type CommunityInsightsCache struct {
	CIPHash   string    `gorm:"column:cip_hash;primaryKey;size:64"`
	CIPNumber string    `gorm:"size:32;not null"`
	Insights  string    `gorm:"type:text;not null"`
	CachedAt  time.Time `gorm:"autoCreateTime"`
}

// Append-only audit trail; nothing reads it back.
type ActivityLog struct {
	ID            uint64 `gorm:"primaryKey"`
	WalletAddress string `gorm:"size:128;not null"`
	CIPNumber     string `gorm:"size:32;not null"`
	WasCached     bool   `gorm:"not null"`
	CreatedAt     time.Time
}

type UserBadge struct {
	ID            uint64    `gorm:"primaryKey"`
	WalletAddress string    `gorm:"size:128;not null;uniqueIndex:idx_user_badges_wallet_badge"`
	BadgeID       string    `gorm:"size:64;not null;uniqueIndex:idx_user_badges_wallet_badge"`
	EarnedAt      time.Time `gorm:"autoCreateTime"`
}

// Settings
type Setting struct {
	ID    uint8  `gorm:"primaryKey"`
	Name  string `gorm:"size:32;not null"`
	Value string `gorm:"size:256;not null"`
}

package badges

type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// Requirement is a closed set of badge qualification rules; the
// evaluator switches on the concrete type.
type Requirement interface{ isRequirement() }

// VoteCount qualifies once total votes reach Threshold.
type VoteCount struct{ Threshold int64 }

// LeaderboardRank qualifies while the wallet's 1-based rank is at most
// MaxRank. MaxRank 1 is the top spot exactly.
type LeaderboardRank struct{ MaxRank int }

// CreditsPurchased qualifies once the wallet has topped up Times times,
// derived as floor(credits_purchased / bonus-per-purchase).
type CreditsPurchased struct{ Times int64 }

// DailyVotes qualifies once Threshold votes land in the current
// calendar day.
type DailyVotes struct{ Threshold int64 }

// Streak is in the catalog but has no evaluator yet.
type Streak struct{ Days int }

// Special is in the catalog but has no evaluator yet.
type Special struct{ Key string }

func (VoteCount) isRequirement()        {}
func (LeaderboardRank) isRequirement()  {}
func (CreditsPurchased) isRequirement() {}
func (DailyVotes) isRequirement()       {}
func (Streak) isRequirement()           {}
func (Special) isRequirement()          {}

type Badge struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Tier        Tier        `json:"tier"`
	Requirement Requirement `json:"-"`
}

// Catalog order matters: the evaluator emits qualifying ids in this
// order, ladders ascending.
var Catalog = []Badge{
	{ID: "first_vote", Name: "First Vote", Description: "Cast your first vote on a CIP", Icon: "🗳️", Tier: TierBronze, Requirement: VoteCount{Threshold: 1}},
	{ID: "active_voter", Name: "Active Voter", Description: "Vote on 10 CIPs", Icon: "✅", Tier: TierBronze, Requirement: VoteCount{Threshold: 10}},
	{ID: "dedicated_voter", Name: "Dedicated Voter", Description: "Vote on 50 CIPs", Icon: "🌟", Tier: TierSilver, Requirement: VoteCount{Threshold: 50}},
	{ID: "governance_champion", Name: "Governance Champion", Description: "Vote on 100 CIPs", Icon: "🏆", Tier: TierGold, Requirement: VoteCount{Threshold: 100}},
	{ID: "top_ten", Name: "Top 10", Description: "Reach top 10 on the leaderboard", Icon: "🔟", Tier: TierSilver, Requirement: LeaderboardRank{MaxRank: 10}},
	{ID: "top_three", Name: "Top 3", Description: "Reach top 3 on the leaderboard", Icon: "🥉", Tier: TierGold, Requirement: LeaderboardRank{MaxRank: 3}},
	{ID: "leaderboard_king", Name: "Leaderboard King", Description: "Reach #1 on the leaderboard", Icon: "👑", Tier: TierPlatinum, Requirement: LeaderboardRank{MaxRank: 1}},
	{ID: "credit_buyer", Name: "Supporter", Description: "Purchase credits to support the platform", Icon: "💳", Tier: TierBronze, Requirement: CreditsPurchased{Times: 1}},
	{ID: "power_user", Name: "Power User", Description: "Purchase credits 5 times", Icon: "⚡", Tier: TierSilver, Requirement: CreditsPurchased{Times: 5}},
	{ID: "early_bird", Name: "Early Bird", Description: "Vote within the first hour of a CIP being added", Icon: "🐦", Tier: TierSilver, Requirement: Special{Key: "early_bird"}},
	{ID: "streak_week", Name: "Weekly Streak", Description: "Vote on at least one CIP every day for 7 days", Icon: "🔥", Tier: TierSilver, Requirement: Streak{Days: 7}},
	{ID: "community_voice", Name: "Community Voice", Description: "Vote on 5 CIPs in a single day", Icon: "📢", Tier: TierBronze, Requirement: DailyVotes{Threshold: 5}},
}

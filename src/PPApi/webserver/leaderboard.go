package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/proposalpal/proposalpal/src/PPApi/data"
	"github.com/proposalpal/proposalpal/src/PPApi/store"
)

type Leaderboard struct {
	store *store.Store
	rdb   *redis.Client
}

func NewLeaderboard(st *store.Store, rdb *redis.Client) Leaderboard {
	return Leaderboard{store: st, rdb: rdb}
}

func (l Leaderboard) List(c *gin.Context) {
	ctx := c.Request.Context()

	if rows, ok := data.CachedLeaderboard(ctx, l.rdb); ok {
		c.JSON(http.StatusOK, rows)
		return
	}

	rows, err := l.store.Leaderboard(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	data.StoreLeaderboard(ctx, l.rdb, rows)
	c.JSON(http.StatusOK, rows)
}

func (l Leaderboard) Dashboard(c *gin.Context) {
	wallet := c.Param("wallet")
	ctx := c.Request.Context()

	votes, err := l.store.VotesByWallet(ctx, wallet)
	if err != nil {
		respondError(c, err)
		return
	}

	rows, err := l.store.Leaderboard(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	rank := 0
	for i, row := range rows {
		if row.WalletAddress == wallet {
			rank = i + 1
			break
		}
	}

	history := make([]gin.H, 0, len(votes))
	for _, v := range votes {
		history = append(history, gin.H{
			"cipNumber":  v.CIPNumber,
			"voteChoice": v.VoteChoice,
			"timestamp":  v.CreatedAt,
		})
	}

	var leaderboardRank interface{} = "N/A"
	if rank > 0 {
		leaderboardRank = rank
	}

	c.JSON(http.StatusOK, gin.H{
		"totalVotes":       len(votes),
		"governancePoints": len(votes),
		"leaderboardRank":  leaderboardRank,
		"votingHistory":    history,
	})
}

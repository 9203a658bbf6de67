package webserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/proposalpal/proposalpal/src/PPApi/badges"
	"github.com/proposalpal/proposalpal/src/PPApi/credits"
	"github.com/proposalpal/proposalpal/src/PPApi/data"
	"github.com/proposalpal/proposalpal/src/PPApi/errs"
	"github.com/proposalpal/proposalpal/src/PPApi/store"
	"github.com/proposalpal/proposalpal/src/PPApi/types"
)

type Votes struct {
	store  *store.Store
	ledger *credits.Ledger
	eval   *badges.Evaluator
	rdb    *redis.Client
}

func NewVotes(st *store.Store, ledger *credits.Ledger, eval *badges.Evaluator, rdb *redis.Client) Votes {
	return Votes{store: st, ledger: ledger, eval: eval, rdb: rdb}
}

func (v Votes) Cast(c *gin.Context) {
	var req struct {
		WalletAddress string `json:"walletAddress" binding:"required,min=8,max=128"`
		CIPNumber     string `json:"cipNumber" binding:"required"`
		VoteChoice    string `json:"voteChoice" binding:"required,oneof=YES NO ABSTAIN"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if !isValidCIP(req.CIPNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad cipNumber"})
		return
	}

	ctx := c.Request.Context()
	if _, err := v.ledger.GetOrCreateUser(ctx, req.WalletAddress); err != nil {
		respondError(c, err)
		return
	}

	vote := types.Vote{
		WalletAddress: req.WalletAddress,
		CIPNumber:     req.CIPNumber,
		VoteChoice:    req.VoteChoice,
	}
	if err := v.store.CreateVote(ctx, &vote); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"err": "already voted on this CIP"})
			return
		}
		respondError(c, err)
		return
	}

	// Badge failures never fail the vote; they degrade to no new badges.
	newBadges, err := v.eval.CheckAndAward(ctx, req.WalletAddress)
	if err != nil {
		log.Printf("badge check for %s: %v", req.WalletAddress, err)
		newBadges = nil
	}
	if newBadges == nil {
		newBadges = []string{}
	}

	if err := data.PublishActivity(ctx, v.rdb, map[string]interface{}{
		"kind":   "vote",
		"wallet": req.WalletAddress,
		"cip":    req.CIPNumber,
		"choice": req.VoteChoice,
		"time":   vote.CreatedAt.Unix(),
	}); err != nil {
		log.Printf("activity stream: %v", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"id":        vote.ID,
		"newBadges": newBadges,
	})
}

func (v Votes) List(c *gin.Context) {
	wallet := c.Param("wallet")

	votes, err := v.store.VotesByWallet(c.Request.Context(), wallet)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(votes))
	for _, vote := range votes {
		out = append(out, gin.H{
			"cipNumber":  vote.CIPNumber,
			"voteChoice": vote.VoteChoice,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (v Votes) Stats(c *gin.Context) {
	cip := c.Param("cip")
	if !isValidCIP(cip) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad cip"})
		return
	}

	stats, err := v.store.VoteStatsByCIP(c.Request.Context(), cip)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

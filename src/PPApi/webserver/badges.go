package webserver

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/proposalpal/proposalpal/src/PPApi/badges"
	"github.com/proposalpal/proposalpal/src/PPApi/store"
)

type Badges struct {
	store *store.Store
	eval  *badges.Evaluator
}

func NewBadges(st *store.Store, eval *badges.Evaluator) Badges {
	return Badges{store: st, eval: eval}
}

// List returns the full catalog enriched with the wallet's earned
// state; earned entries sort first by earn time.
func (b Badges) List(c *gin.Context) {
	wallet := c.Param("wallet")

	owned, err := b.store.UserBadges(c.Request.Context(), wallet)
	if err != nil {
		respondError(c, err)
		return
	}
	earnedAt := make(map[string]time.Time, len(owned))
	for _, ub := range owned {
		earnedAt[ub.BadgeID] = ub.EarnedAt
	}

	out := make([]gin.H, 0, len(badges.Catalog))
	for _, badge := range badges.Catalog {
		entry := gin.H{
			"id":          badge.ID,
			"name":        badge.Name,
			"description": badge.Description,
			"icon":        badge.Icon,
			"tier":        badge.Tier,
			"earned":      false,
		}
		if at, ok := earnedAt[badge.ID]; ok {
			entry["earned"] = true
			entry["earnedAt"] = at
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, out)
}

// Check re-evaluates the wallet and awards anything newly earned.
// Evaluation failures degrade to an empty result.
func (b Badges) Check(c *gin.Context) {
	wallet := c.Param("wallet")

	newBadges, err := b.eval.CheckAndAward(c.Request.Context(), wallet)
	if err != nil {
		log.Printf("badge check for %s: %v", wallet, err)
		newBadges = nil
	}
	if newBadges == nil {
		newBadges = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"newBadges": newBadges})
}

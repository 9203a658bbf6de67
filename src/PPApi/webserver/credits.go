package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proposalpal/proposalpal/src/PPApi/credits"
)

type Credits struct {
	ledger *credits.Ledger
}

func NewCredits(ledger *credits.Ledger) Credits {
	return Credits{ledger: ledger}
}

func (h Credits) Balance(c *gin.Context) {
	wallet := c.Param("wallet")

	user, err := h.ledger.GetOrCreateUser(c.Request.Context(), wallet)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, credits.Summarize(user))
}

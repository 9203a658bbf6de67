package webserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proposalpal/proposalpal/src/PPApi/errs"
)

// PaymentConfirmer is the payment verification dependency.
type PaymentConfirmer interface {
	Confirm(ctx context.Context, wallet, txHash string) (string, error)
}

type Payments struct {
	verifier PaymentConfirmer
}

func NewPayments(verifier PaymentConfirmer) Payments {
	return Payments{verifier: verifier}
}

func (p Payments) Confirm(c *gin.Context) {
	var req struct {
		WalletAddress string `json:"walletAddress" binding:"required,min=8,max=128"`
		TxHash        string `json:"txHash" binding:"required,len=64,hexadecimal"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	msg, err := p.verifier.Confirm(c.Request.Context(), req.WalletAddress, req.TxHash)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"err": "transaction already used"})
		case errors.Is(err, errs.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"err": "transaction not found"})
		default:
			respondError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}

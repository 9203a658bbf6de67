package webserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proposalpal/proposalpal/src/PPApi/errs"
	"github.com/proposalpal/proposalpal/src/PPApi/summarize"
)

// Generator is the cache-aside generation service dependency.
type Generator interface {
	Summarize(ctx context.Context, wallet, cipNumber string) (summarize.Summary, error)
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
	CommunityInsights(ctx context.Context, cipNumber string) (string, error)
}

type Generation struct {
	svc Generator
}

func NewGeneration(svc Generator) Generation { return Generation{svc: svc} }

func (g Generation) Summarize(c *gin.Context) {
	var req struct {
		WalletAddress string `json:"walletAddress" binding:"required,min=8,max=128"`
		CIPNumber     string `json:"cipNumber" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if !isValidCIP(req.CIPNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad cipNumber"})
		return
	}

	result, err := g.svc.Summarize(c.Request.Context(), req.WalletAddress, req.CIPNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (g Generation) Translate(c *gin.Context) {
	var req struct {
		TextToTranslate string `json:"textToTranslate" binding:"required"`
		TargetLanguage  string `json:"targetLanguage" binding:"required,max=64"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	translated, err := g.svc.Translate(c.Request.Context(), req.TextToTranslate, req.TargetLanguage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"translatedText": translated})
}

func (g Generation) Insights(c *gin.Context) {
	var req struct {
		CIPNumber string `json:"cipNumber" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if !isValidCIP(req.CIPNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad cipNumber"})
		return
	}

	insights, err := g.svc.CommunityInsights(c.Request.Context(), req.CIPNumber)
	if err != nil {
		// Forum outages read as a missing resource to the client.
		if errors.Is(err, errs.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"err": "forum data not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": insights})
}

package webserver

import (
	"errors"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/proposalpal/proposalpal/src/PPApi/ai"
	"github.com/proposalpal/proposalpal/src/PPApi/badges"
	"github.com/proposalpal/proposalpal/src/PPApi/blockfrost"
	"github.com/proposalpal/proposalpal/src/PPApi/cips"
	"github.com/proposalpal/proposalpal/src/PPApi/config"
	"github.com/proposalpal/proposalpal/src/PPApi/credits"
	"github.com/proposalpal/proposalpal/src/PPApi/errs"
	"github.com/proposalpal/proposalpal/src/PPApi/forum"
	"github.com/proposalpal/proposalpal/src/PPApi/payments"
	"github.com/proposalpal/proposalpal/src/PPApi/store"
	"github.com/proposalpal/proposalpal/src/PPApi/summarize"
)

func New(cfg config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	g.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	attachRoutes(g, cfg, db, rdb)
	return g
}

func attachRoutes(g *gin.Engine, cfg config.Config, db *gorm.DB, rdb *redis.Client) {
	st := store.New(db)
	ledger := credits.NewLedger(st)
	eval := badges.NewEvaluator(st)

	llm := ai.NewClient(ai.Config{
		BaseURL: cfg.GaiaNodeURL,
		APIKey:  cfg.GaiaAPIKey,
		Model:   cfg.GaiaModel,
	})
	svc := summarize.NewService(st, ledger, llm,
		cips.NewClient(cfg.CIPSourceURL),
		forum.NewClient(cfg.ForumURL))

	chain := blockfrost.NewClient(cfg.BlockfrostProjectID, cfg.BlockfrostURL)
	verifier, err := payments.NewVerifier(st, ledger, chain, cfg.TreasuryAddress, cfg.RequiredLovelace)
	if err != nil {
		log.Fatalf("payments: %v", err)
	}

	gen := NewGeneration(svc)
	votes := NewVotes(st, ledger, eval, rdb)
	pay := NewPayments(verifier)
	cred := NewCredits(ledger)
	board := NewLeaderboard(st, rdb)
	badge := NewBadges(st, eval)

	g.POST("/summarize", gen.Summarize)
	g.POST("/translate", gen.Translate)
	g.POST("/community-insights", gen.Insights)

	g.POST("/vote", votes.Cast)
	g.GET("/votes/:wallet", votes.List)
	g.GET("/vote-stats/:cip", votes.Stats)

	g.POST("/confirm-payment", pay.Confirm)
	g.GET("/credits/:wallet", cred.Balance)

	g.GET("/leaderboard", board.List)
	g.GET("/dashboard/:wallet", board.Dashboard)

	g.GET("/badges/:wallet", badge.List)
	g.POST("/badges/check/:wallet", badge.Check)
}

var cipRegexp = regexp.MustCompile(`^CIP-[0-9]{1,4}$`)

func isValidCIP(cip string) bool { return cipRegexp.MatchString(cip) }

// respondError maps component error kinds onto HTTP statuses. Anything
// unrecognized is a 500 with no internal detail.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
	case errors.Is(err, errs.ErrPaymentRequired):
		c.JSON(http.StatusPaymentRequired, gin.H{"err": "payment required"})
	case errors.Is(err, errs.ErrPaymentNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"err": "payment not found in transaction"})
	case errors.Is(err, errs.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"err": "conflict"})
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"err": "not found"})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "internal error"})
	}
}

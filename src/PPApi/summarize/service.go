package summarize

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/microcosm-cc/bluemonday"

	"github.com/proposalpal/proposalpal/src/PPApi/credits"
	"github.com/proposalpal/proposalpal/src/PPApi/store"
)

// LLM is the external completion provider dependency.
type LLM interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ContentSource serves raw CIP documents.
type ContentSource interface {
	Readme(ctx context.Context, cipNumber string) (string, error)
}

// ForumSource serves community discussion posts.
type ForumSource interface {
	SearchPostIDs(ctx context.Context, query string) ([]int64, error)
	PostRaw(ctx context.Context, postID int64) (string, error)
}

// Service runs the cache-aside generation pipelines: CIP summaries,
// translations and community insights. Each checks its cache table
// before touching the LLM; only summary generation is credit-gated.
type Service struct {
	store     *store.Store
	ledger    *credits.Ledger
	llm       LLM
	cips      ContentSource
	forum     ForumSource
	sanitizer *bluemonday.Policy
}

func NewService(st *store.Store, ledger *credits.Ledger, llm LLM, cips ContentSource, forum ForumSource) *Service {
	// Strict policy with basic markdown formatting allowed; strips any
	// HTML the model decides to emit before it is persisted.
	sanitizer := bluemonday.StrictPolicy()
	sanitizer.AllowElements("p", "br", "strong", "em", "code", "pre", "blockquote")
	sanitizer.AllowElements("ul", "ol", "li")
	sanitizer.AllowElements("h1", "h2", "h3", "h4", "h5", "h6")
	sanitizer.AllowAttrs("href").OnElements("a")
	sanitizer.RequireParseableURLs(true)
	sanitizer.AddTargetBlankToFullyQualifiedLinks(true)
	sanitizer.RequireNoFollowOnLinks(true)

	return &Service{
		store:     st,
		ledger:    ledger,
		llm:       llm,
		cips:      cips,
		forum:     forum,
		sanitizer: sanitizer,
	}
}

func hashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

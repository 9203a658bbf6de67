package summarize

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/proposalpal/proposalpal/src/PPApi/ai"
	"github.com/proposalpal/proposalpal/src/PPApi/errs"
	"github.com/proposalpal/proposalpal/src/PPApi/types"
)

const summarySystemPrompt = "You are an expert Cardano analyst. Summarize " +
	"Cardano Improvement Proposals in plain language for a general audience: " +
	"what the proposal changes, why it matters, and any trade-offs. Be concise " +
	"and neutral."

const reduceSystemPrompt = "You are an expert Cardano analyst. You are given " +
	"summaries of consecutive portions of one Cardano Improvement Proposal. " +
	"Synthesize them into a single coherent plain-language summary."

type Summary struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// Summarize returns the cached summary for the CIP or generates one.
// Hits are free and never call the provider; misses require a credit,
// and the cache write lands before the debit. A crash between the two
// leaves a cached summary that was never paid for; the cache guarantees
// it is also never generated twice.
func (s *Service) Summarize(ctx context.Context, wallet, cipNumber string) (Summary, error) {
	cached, err := s.store.Summary(ctx, cipNumber)
	if err != nil {
		return Summary{}, err
	}
	if cached != nil {
		log.Printf("[CACHE HIT] summary for %s", cipNumber)
		if err := s.store.AppendActivity(ctx, wallet, cipNumber, true); err != nil {
			log.Printf("activity log: %v", err)
		}
		return Summary{Title: cached.Title, Summary: cached.Summary}, nil
	}

	log.Printf("[CACHE MISS] generating summary for %s", cipNumber)
	user, err := s.ledger.GetOrCreateUser(ctx, wallet)
	if err != nil {
		return Summary{}, err
	}
	if user.CreditsRemaining <= 0 {
		return Summary{}, errs.ErrPaymentRequired
	}

	content, err := s.cips.Readme(ctx, cipNumber)
	if err != nil {
		return Summary{}, err
	}

	text, err := s.generateSummary(ctx, cipNumber, content)
	if err != nil {
		return Summary{}, err
	}

	entry := &types.SummaryCache{
		CIPNumber: cipNumber,
		Title:     fmt.Sprintf("Summary for %s", cipNumber),
		Summary:   s.sanitizer.Sanitize(text),
	}
	won, err := s.store.PutSummary(ctx, entry)
	if err != nil {
		return Summary{}, err
	}
	if !won {
		// Lost a concurrent generation race; serve the stored entry and
		// keep the credit.
		stored, err := s.store.Summary(ctx, cipNumber)
		if err != nil {
			return Summary{}, err
		}
		if err := s.store.AppendActivity(ctx, wallet, cipNumber, true); err != nil {
			log.Printf("activity log: %v", err)
		}
		return Summary{Title: stored.Title, Summary: stored.Summary}, nil
	}

	if err := s.ledger.Debit(ctx, wallet); err != nil {
		return Summary{}, err
	}
	if err := s.store.AppendActivity(ctx, wallet, cipNumber, false); err != nil {
		log.Printf("activity log: %v", err)
	}

	return Summary{Title: entry.Title, Summary: entry.Summary}, nil
}

// generateSummary runs one completion, or a map-then-reduce over
// overlapping chunks when the source exceeds the token budget.
func (s *Service) generateSummary(ctx context.Context, cipNumber, content string) (string, error) {
	if ai.EstimateTokens(content) <= ai.ChunkTokenBudget {
		prompt := fmt.Sprintf("Please summarize the following content from %s:\n\n---\n\n%s", cipNumber, content)
		return s.llm.Complete(ctx, summarySystemPrompt, prompt)
	}

	chunks := ai.SplitIntoChunks(content, ai.ChunkTokenBudget, ai.ChunkOverlapTokens)
	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		prompt := fmt.Sprintf("Summarize portion %d of %d of %s:\n\n---\n\n%s", i+1, len(chunks), cipNumber, chunk)
		part, err := s.llm.Complete(ctx, summarySystemPrompt, prompt)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}

	reducePrompt := fmt.Sprintf("Portion summaries of %s:\n\n%s", cipNumber, strings.Join(parts, "\n\n---\n\n"))
	return s.llm.Complete(ctx, reduceSystemPrompt, reducePrompt)
}

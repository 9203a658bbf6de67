package summarize

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/proposalpal/proposalpal/src/PPApi/types"
)

const insightsSystemPrompt = "You are an expert Cardano community analyst. " +
	"Your task is to analyze community discussions and extract key insights, " +
	"sentiment, and important points of debate or consensus."

const (
	noDiscussionsMsg = "No community discussions found for this CIP on the Cardano forum."
	postsUnavailable = "Unable to fetch community discussion details for this CIP."
)

// CommunityInsights summarizes forum discussion of a CIP, cache-aside
// keyed by a hash of the CIP number. Empty search results produce a
// fixed message and are deliberately not cached, so a discussion that
// starts later can still populate the cache.
func (s *Service) CommunityInsights(ctx context.Context, cipNumber string) (string, error) {
	cipHash := hashKey(cipNumber)

	cached, err := s.store.Insights(ctx, cipHash)
	if err != nil {
		return "", err
	}
	if cached != nil {
		log.Printf("[CACHE HIT] community insights for %s", cipNumber)
		return cached.Insights, nil
	}

	log.Printf("[CACHE MISS] generating community insights for %s", cipNumber)
	postIDs, err := s.forum.SearchPostIDs(ctx, cipNumber)
	if err != nil {
		return "", err
	}
	if len(postIDs) == 0 {
		return noDiscussionsMsg, nil
	}

	var posts []string
	for _, id := range postIDs {
		raw, err := s.forum.PostRaw(ctx, id)
		if err != nil {
			log.Printf("forum post %d: %v", id, err)
			continue
		}
		posts = append(posts, raw)
	}
	if len(posts) == 0 {
		return postsUnavailable, nil
	}

	prompt := fmt.Sprintf("Analyze the following community forum discussions about %s and provide a concise summary of:\n"+
		"1. Overall community sentiment (positive, negative, mixed, neutral)\n"+
		"2. Key points of support or opposition\n"+
		"3. Main concerns or questions raised\n"+
		"4. Areas of consensus or debate\n\n"+
		"Forum discussions:\n\n%s", cipNumber, strings.Join(posts, "\n\n---\n\n"))

	insights, err := s.llm.Complete(ctx, insightsSystemPrompt, prompt)
	if err != nil {
		return "", err
	}
	insights = s.sanitizer.Sanitize(insights)

	entry := &types.CommunityInsightsCache{
		CIPHash:   cipHash,
		CIPNumber: cipNumber,
		Insights:  insights,
	}
	won, err := s.store.PutInsights(ctx, entry)
	if err != nil {
		return "", err
	}
	if !won {
		stored, err := s.store.Insights(ctx, cipHash)
		if err != nil {
			return "", err
		}
		return stored.Insights, nil
	}

	return insights, nil
}

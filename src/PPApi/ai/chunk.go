package ai

// Token estimation is a length heuristic, not a tokenizer. The budget
// and overlap are tuning constants; overlap keeps context that would
// otherwise be lost at split boundaries.
const (
	charsPerToken      = 4
	ChunkTokenBudget   = 3000
	ChunkOverlapTokens = 200
)

func EstimateTokens(s string) int {
	return len(s) / charsPerToken
}

// SplitIntoChunks cuts s into pieces of at most budget estimated
// tokens, each overlapping the previous by overlap estimated tokens.
// Returns the whole string as a single chunk when it fits the budget.
func SplitIntoChunks(s string, budget, overlap int) []string {
	if budget <= 0 || EstimateTokens(s) <= budget {
		return []string{s}
	}
	if overlap >= budget {
		overlap = budget / 2
	}

	chunkChars := budget * charsPerToken
	stepChars := (budget - overlap) * charsPerToken

	var chunks []string
	for start := 0; start < len(s); start += stepChars {
		end := start + chunkChars
		if end >= len(s) {
			chunks = append(chunks, s[start:])
			break
		}
		chunks = append(chunks, s[start:end])
	}
	return chunks
}

package summarize

import (
	"context"
	"fmt"

	"github.com/proposalpal/proposalpal/src/PPApi/types"
)

const translateSystemPrompt = "You are a professional, multilingual " +
	"translator. Translate the text you are given accurately, preserving " +
	"formatting and technical terms. Reply with the translation only."

// Translate returns the cached translation for (source text, language)
// or generates one. The key is a hash of the exact source text, so any
// byte change is a miss. No credit gate on this path.
func (s *Service) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	sourceHash := hashKey(text)

	cached, err := s.store.Translation(ctx, sourceHash, targetLanguage)
	if err != nil {
		return "", err
	}
	if cached != nil {
		return cached.TranslatedText, nil
	}

	prompt := fmt.Sprintf("Translate the following text into %s:\n\n---\n\n%s", targetLanguage, text)
	translated, err := s.llm.Complete(ctx, translateSystemPrompt, prompt)
	if err != nil {
		return "", err
	}
	translated = s.sanitizer.Sanitize(translated)

	entry := &types.TranslationCache{
		SourceTextHash: sourceHash,
		TargetLanguage: targetLanguage,
		TranslatedText: translated,
	}
	won, err := s.store.PutTranslation(ctx, entry)
	if err != nil {
		return "", err
	}
	if !won {
		stored, err := s.store.Translation(ctx, sourceHash, targetLanguage)
		if err != nil {
			return "", err
		}
		return stored.TranslatedText, nil
	}

	return translated, nil
}

package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/meridian-clinic/deepsearch/internal/domain"
)

// completionOp labels translation calls in metrics.
const completionOp = "translate"

// systemPrompt is the fixed translation-bridge instruction. The knowledge
// bases are English; searching them with non-English keywords returns zero
// results by definition, so the bridge must either succeed or fail loudly.
const systemPrompt = `You are a clinical search assistant for a Traditional Chinese Medicine knowledge base.
Produce a concise English search query of 5 to 15 words that captures the clinical intent of the text you are given, in the context of the named clinical topic.
Return only the query itself: no quotes, no punctuation around it, no explanation.`

// Service is the cross-lingual query bridge. It is invoked only when the
// request language differs from the knowledge bases' language.
type Service struct {
	completer Completer
}

// New creates a translation service.
func New(completer Completer) *Service {
	return &Service{completer: completer}
}

// Translate converts a non-English query into an English retrieval query via
// one completion call. Provider failures propagate with their kind
// (rate-limited, quota-exhausted, generic); there is no fallback to the
// untranslated query.
func (s *Service) Translate(
	ctx context.Context, lang domain.Language, text, topicName string,
) (string, error) {
	userPrompt := fmt.Sprintf("Clinical topic: %s\nSource language: %s\nText:\n%s", topicName, lang, text)

	out, err := s.completer.Complete(ctx, completionOp, systemPrompt, userPrompt)
	if err != nil {
		return "", fmt.Errorf("translate query: %w", err)
	}

	return cleanQuery(out), nil
}

// cleanQuery trims whitespace and one layer of surrounding quotes from the
// completion.
func cleanQuery(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			s = s[1 : len(s)-1]
		}
	}
	s = strings.TrimPrefix(s, "“")
	s = strings.TrimSuffix(s, "”")
	return strings.TrimSpace(s)
}

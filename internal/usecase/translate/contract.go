package translate

import "context"

// Completer issues one text-completion call.
type Completer interface {
	Complete(ctx context.Context, op, systemPrompt, userPrompt string) (string, error)
}

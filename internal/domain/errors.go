package domain

import "errors"

var (
	// ErrUnknownModule signals a request referencing a module id outside the topic catalog.
	ErrUnknownModule = errors.New("unknown module")
	// ErrRateLimited signals a completion provider rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrQuotaExhausted signals an exhausted completion provider quota.
	ErrQuotaExhausted = errors.New("completion quota exhausted")
	// ErrCompletionProviderError signals a completion provider failure.
	ErrCompletionProviderError = errors.New("completion provider error")
)

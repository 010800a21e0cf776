// Package ai talks to the external completion collaborator that turns a
// rendered conversation prompt into response text.
package ai

import (
	"context"
	"errors"
)

// ErrUpstream marks collaborator failures: the endpoint was unreachable,
// answered with a non-success status, or returned no usable text.
var ErrUpstream = errors.New("completion upstream failed")

// Completer generates completion text for a rendered prompt. Implementations
// are request/response only; no retry or streaming.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}

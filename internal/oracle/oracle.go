// Package oracle wraps the external text-completion service used for intent
// classification. The service is treated as unreliable: it may be down, slow,
// or return text that is not the JSON it was asked for. Callers must handle
// both ErrUnavailable and malformed output.
package oracle

import (
	"context"
	"errors"
)

// ErrUnavailable wraps transport-level failures (network errors, timeouts,
// API error responses). Callers degrade rather than retry; there is exactly
// one attempt per request.
var ErrUnavailable = errors.New("oracle unavailable")

// Client is the completion oracle. The returned string is raw model output;
// callers must not assume it is valid JSON.
type Client interface {
	Complete(ctx context.Context, prompt, systemPrompt string, temperature float64) (string, error)
}

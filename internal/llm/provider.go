// Package llm hides the model vendors behind a small named-provider
// registry.
package llm

import (
	"context"
)

// Provider is the model backend used by the interview generator and the
// feedback evaluator. Implementations are registered by name and selected
// through configuration.
type Provider interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	GetProviderName() string
}

// ProviderError carries the provider name and a coarse error code alongside
// the underlying failure.
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + " error: " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Coarse error codes shared across provider implementations.
const (
	ErrCodeAPIKey       = "invalid_api_key"
	ErrCodeRateLimit    = "rate_limit_exceeded"
	ErrCodeServiceDown  = "service_unavailable"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeTimeout      = "timeout"
)

package llm

import (
	"context"
	"errors"
	"testing"
)

type stubProvider struct{}

func (stubProvider) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return "stub", nil
}

func (stubProvider) GetProviderName() string { return "stub" }

func TestRegisterAndNewProvider(t *testing.T) {
	RegisterProvider("stub", func() (Provider, error) {
		return stubProvider{}, nil
	})

	p, err := NewProvider("stub")
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	if p.GetProviderName() != "stub" {
		t.Fatalf("unexpected provider %q", p.GetProviderName())
	}
}

func TestNewProviderUnknown(t *testing.T) {
	if _, err := NewProvider("definitely-not-registered"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewProviderFactoryFailure(t *testing.T) {
	RegisterProvider("broken", func() (Provider, error) {
		return nil, errors.New("missing api key")
	})

	if _, err := NewProvider("broken"); err == nil {
		t.Fatal("expected factory error to propagate")
	}
}

func TestProviderErrorUnwrap(t *testing.T) {
	inner := errors.New("quota")
	perr := &ProviderError{Provider: "stub", Code: ErrCodeRateLimit, Message: "slow down", Err: inner}

	if !errors.Is(perr, inner) {
		t.Fatal("expected Unwrap to expose the inner error")
	}
	if perr.Error() == "" {
		t.Fatal("expected a formatted message")
	}
}

// Package provider turns a short text prompt into sticker image bytes.
package provider

import (
	"context"
	"errors"
)

var (
	// ErrNoImage is returned when a response carries no image part.
	ErrNoImage = errors.New("no image data returned")
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("sticker provider not configured")
)

// Provider generates an encoded image for a prompt.
type Provider interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// Func adapts a plain function to Provider.
type Func func(ctx context.Context, prompt string) ([]byte, error)

func (f Func) Generate(ctx context.Context, prompt string) ([]byte, error) {
	return f(ctx, prompt)
}

// Disabled is a provider that always fails with ErrNotConfigured.
var Disabled Provider = Func(func(context.Context, string) ([]byte, error) {
	return nil, ErrNotConfigured
})

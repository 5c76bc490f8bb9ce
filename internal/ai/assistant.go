// Package ai defines the provider-agnostic model interfaces used by the
// pipeline. Implementations live in subpackages, one per provider.
package ai

import (
	"context"

	"github.com/shry/gitcha-action/internal/prompt"
)

// Completer executes a rendered chat prompt and returns the model output.
type Completer interface {
	Complete(ctx context.Context, messages []prompt.Message) (string, error)
}

// Generator produces text from a single plain prompt. The summarization
// chains are built on top of it.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

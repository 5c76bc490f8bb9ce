// Package budget estimates the token cost of a pipeline run and enforces an
// optional hard ceiling.
package budget

import (
	"fmt"

	"github.com/shry/gitcha-action/internal/document"
)

// completionReserve is the per-document allowance for the model completion.
const completionReserve = 512

// ExceededError is the non-fatal budget warning. Callers may log it and keep
// going, or abort the run.
type ExceededError struct {
	Total int
	Limit int
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("max token limit reached %d/%d", e.Total, e.Limit)
}

// CountTokens estimates the number of tokens in the given text, roughly one
// token per four runes. Non-empty text always counts at least one token.
func CountTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	tokens := len([]rune(text)) / 4
	if tokens == 0 {
		return 1
	}
	return tokens
}

// Tracker checks the running token estimate against a configured ceiling.
// A Limit of zero or below means unlimited.
type Tracker struct {
	Limit int
}

// Check sums the estimated token cost of every held document plus the
// completion reserve, adds the caller-supplied increment, and returns the
// total. It returns an *ExceededError alongside the total when a positive
// limit is exceeded. The check is pure and cheap, so it runs on every
// accumulation step.
func (t *Tracker) Check(docs []document.Document, extra int) (int, error) {
	total := extra
	for _, doc := range docs {
		total += CountTokens(doc.Content) + completionReserve
	}

	if t.Limit > 0 && total > t.Limit {
		return total, &ExceededError{Total: total, Limit: t.Limit}
	}

	return total, nil
}

package generator

import (
	"errors"

	"github.com/shry/gitcha-action/internal/budget"
	"github.com/shry/gitcha-action/internal/jobposting"
	"github.com/shry/gitcha-action/internal/manifest"
)

// Warning-class conditions signal "nothing to do" or "no usable output"
// rather than a defect. The caller decides whether to continue; the cli logs
// them and exits zero.
var (
	// ErrNoDocuments is raised when the aggregator finds nothing to summarize.
	ErrNoDocuments = errors.New("no documents to scan")

	// ErrNoJobPostings is raised when no job source yields a single entry.
	ErrNoJobPostings = errors.New("no job postings found")

	// ErrEmptyResponse is raised when the model produced no usable content
	// for an entry.
	ErrEmptyResponse = errors.New("ai could not generate a valid output")
)

// IsWarning reports whether the error is one of the non-fatal warning kinds:
// empty document set, empty job source, empty model response, or an exceeded
// token budget.
func IsWarning(err error) bool {
	if errors.Is(err, ErrNoDocuments) || errors.Is(err, ErrNoJobPostings) || errors.Is(err, ErrEmptyResponse) {
		return true
	}

	var exceeded *budget.ExceededError
	return errors.As(err, &exceeded)
}

// IsConfigError reports whether the error is a fatal configuration problem:
// a bad manifest or a missing required environment variable.
func IsConfigError(err error) bool {
	if errors.Is(err, jobposting.ErrMissingJobTitle) {
		return true
	}

	var cfgErr *manifest.ConfigError
	return errors.As(err, &cfgErr)
}

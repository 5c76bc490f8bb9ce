package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/shry/gitcha-action/internal/document"

	"go.uber.org/zap"
)

// Method selects the summarization chain.
type Method string

const (
	// MapReduce summarizes every document independently, then reduces the
	// partial summaries into one.
	MapReduce Method = "map_reduce"
	// Refine folds documents into a running summary one at a time.
	Refine Method = "refine"
)

const (
	mapTemplate = "Write a concise summary of the following:\n\n{{TEXT}}\n\nCONCISE SUMMARY:"

	refineTemplate = "Your job is to produce a final summary.\n" +
		"We have provided an existing summary up to a certain point:\n\n{{EXISTING}}\n\n" +
		"Refine the existing summary with the following additional context. " +
		"If the context is not useful, return the existing summary.\n\n{{TEXT}}\n\nREFINED SUMMARY:"
)

// Summarizer reduces a document list to one summary string through repeated
// Generator calls. Documents are processed strictly in input order.
type Summarizer struct {
	generator Generator
	logger    *zap.Logger
}

func NewSummarizer(generator Generator, logger *zap.Logger) *Summarizer {
	return &Summarizer{generator: generator, logger: logger}
}

// Summarize runs the selected chain over the documents.
func (s *Summarizer) Summarize(ctx context.Context, docs []document.Document, method Method) (string, error) {
	if len(docs) == 0 {
		return "", fmt.Errorf("no documents to summarize")
	}

	switch method {
	case MapReduce:
		return s.mapReduce(ctx, docs)
	case Refine:
		return s.refine(ctx, docs)
	default:
		return "", fmt.Errorf("unknown summarization method: %s", method)
	}
}

func (s *Summarizer) mapReduce(ctx context.Context, docs []document.Document) (string, error) {
	partials := make([]string, 0, len(docs))

	for _, doc := range docs {
		summary, err := s.generate(ctx, mapTemplate, "{{TEXT}}", doc.Content)
		if err != nil {
			return "", fmt.Errorf("map step for %s: %w", doc.Source, err)
		}
		partials = append(partials, summary)
	}

	if len(partials) == 1 {
		return partials[0], nil
	}

	s.logger.Debug("reducing partial summaries", zap.Int("count", len(partials)))

	return s.generate(ctx, mapTemplate, "{{TEXT}}", strings.Join(partials, "\n\n"))
}

func (s *Summarizer) refine(ctx context.Context, docs []document.Document) (string, error) {
	summary, err := s.generate(ctx, mapTemplate, "{{TEXT}}", docs[0].Content)
	if err != nil {
		return "", fmt.Errorf("initial summary for %s: %w", docs[0].Source, err)
	}

	for _, doc := range docs[1:] {
		step := strings.ReplaceAll(refineTemplate, "{{EXISTING}}", summary)

		summary, err = s.generate(ctx, step, "{{TEXT}}", doc.Content)
		if err != nil {
			return "", fmt.Errorf("refine step for %s: %w", doc.Source, err)
		}
	}

	return summary, nil
}

func (s *Summarizer) generate(ctx context.Context, template, placeholder, text string) (string, error) {
	out, err := s.generator.GenerateContent(ctx, strings.ReplaceAll(template, placeholder, text))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

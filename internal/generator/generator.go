// Package generator sequences the letter pipeline: collect job postings,
// aggregate and summarize the CV documents, assemble the chat prompt, invoke
// the model and persist the result. Everything runs single-threaded; entries
// are processed strictly in order because token accounting and the output
// file are shared state.
package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shry/gitcha-action/internal/ai"
	"github.com/shry/gitcha-action/internal/budget"
	"github.com/shry/gitcha-action/internal/document"
	"github.com/shry/gitcha-action/internal/forge"
	"github.com/shry/gitcha-action/internal/jobposting"
	"github.com/shry/gitcha-action/internal/manifest"
	"github.com/shry/gitcha-action/internal/prompt"

	"go.uber.org/zap"
)

// Free text below this many characters is used verbatim instead of being
// summarized, skipping the model round trip entirely.
const summarizeThreshold = 200

// chunkSize is the character budget of one summarization chunk.
const chunkSize = 4000

// completionAllowance is added on top of the estimated prompt tokens when the
// budget is re-checked right before a chat call.
const completionAllowance = 1000

// Repo describes the repository a run operates on.
type Repo struct {
	// Path is the local checkout the documents are read from.
	Path string
	// Name is the namespace/name pair on the hosting platform.
	Name string
	// APIToken authenticates against the hosting platform.
	APIToken string
	// Ref is the git ref that triggered the run.
	Ref string
}

// Config assembles a Generator.
type Config struct {
	Provider      string
	Repo          Repo
	MaxTokenLimit int

	Chat       ai.Completer
	Summarizer *ai.Summarizer
	// Loader is optional; a default loader with lenient error policy is used
	// when unset.
	Loader *document.Loader

	Logger *zap.Logger
}

// Generator drives one pipeline run. The document collection and the CV
// summary are populated once and shared by every job-posting entry.
type Generator struct {
	repo     Repo
	manifest *manifest.Manifest
	forge    forge.Forge

	chat       ai.Completer
	summarizer *ai.Summarizer
	loader     *document.Loader

	docs    document.Collection
	tracker *budget.Tracker

	logger *zap.Logger
}

// New validates the provider, loads the manifest and assembles the pipeline.
// Provider errors surface before any file I/O; manifest errors before any
// network call.
func New(ctx context.Context, cfg Config) (*Generator, error) {
	f, err := forge.New(ctx, cfg.Provider, forge.Options{
		RepoName: cfg.Repo.Name,
		Token:    cfg.Repo.APIToken,
		Ref:      cfg.Repo.Ref,
	}, cfg.Logger)
	if err != nil {
		return nil, err
	}

	m, err := manifest.Load(cfg.Repo.Path)
	if err != nil {
		return nil, err
	}

	loader := cfg.Loader
	if loader == nil {
		loader = &document.Loader{OnError: document.CollectAndContinue}
	}

	return &Generator{
		repo:       cfg.Repo,
		manifest:   m,
		forge:      f,
		chat:       cfg.Chat,
		summarizer: cfg.Summarizer,
		loader:     loader,
		tracker:    &budget.Tracker{Limit: cfg.MaxTokenLimit},
		logger:     cfg.Logger,
	}, nil
}

// Manifest exposes the loaded manifest, mainly for the cli summary output.
func (g *Generator) Manifest() *manifest.Manifest { return g.manifest }

// LetterOptions configures one letter-of-application run.
type LetterOptions struct {
	// Source selects where job postings come from. Exactly one source is
	// active per run.
	Source jobposting.Source

	// EnvTitle and EnvDesc supply the posting when Source is SourceEnv. With
	// SourceFolder they act as a fallback entry when set.
	EnvTitle string
	EnvDesc  string

	// ReleaseName and ReleaseBody supply the posting when Source is
	// SourceRelease.
	ReleaseName string
	ReleaseBody string

	// CreateReleaseAssets uploads the output file and the public folder to
	// the release after generation.
	CreateReleaseAssets bool

	// OutputDir receives the run-scoped letter file. A temp directory is
	// used when unset.
	OutputDir string
}

// CreateLetterOfApplication runs the full pipeline and returns the content of
// the run-scoped output file: one "## Letter for" section per posting,
// separated by horizontal rules.
func (g *Generator) CreateLetterOfApplication(ctx context.Context, opts LetterOptions) (string, error) {
	g.logger.Info("creating letter of application from the source files")

	postings, err := g.collectPostings(ctx, opts)
	if err != nil {
		return "", err
	}

	outDir := opts.OutputDir
	if outDir == "" {
		dir, err := os.MkdirTemp("", "gitcha-*")
		if err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
		defer os.RemoveAll(dir)
		outDir = dir
	}
	outPath := filepath.Join(outDir, "letter-of-application.md")

	var sections []string
	for _, posting := range postings {
		letter, err := g.generateLetter(ctx, posting.Title, posting.Description)
		if err != nil {
			return "", err
		}

		sections = append(sections, fmt.Sprintf("## Letter for: %q\n\n%s", posting.Title, letter))

		if err := os.WriteFile(outPath, []byte(strings.Join(sections, "\n\n---\n\n")), 0o644); err != nil {
			return "", fmt.Errorf("writing output file: %w", err)
		}

		// Folder-sourced postings are rewritten so the next run skips them.
		if posting.Path != "" {
			if err := jobposting.AppendLetter(posting.Path, letter); err != nil {
				return "", err
			}
		}
	}

	if opts.CreateReleaseAssets {
		publicDir := manifest.NormalizeFolder(g.repo.Path, g.manifest.Config.Public)
		if err := g.forge.CreateReleaseAssets(ctx, outPath, publicDir); err != nil {
			return "", err
		}
	}

	return strings.Join(sections, "\n\n---\n\n"), nil
}

// collectPostings resolves the job-posting entries of this run from the
// single active source. An empty folder scan falls through to the
// environment-supplied pair when one is present; only a run with no entries
// at all raises the no-postings warning.
func (g *Generator) collectPostings(ctx context.Context, opts LetterOptions) ([]jobposting.Posting, error) {
	switch opts.Source {
	case jobposting.SourceRelease:
		name, body := opts.ReleaseName, opts.ReleaseBody
		if name == "" {
			var err error
			name, body, err = g.forge.Release(ctx)
			if err != nil {
				return nil, fmt.Errorf("resolving triggering release: %w", err)
			}
		}

		posting, err := jobposting.FromRelease(name, body)
		if err != nil {
			return nil, err
		}
		return []jobposting.Posting{posting}, nil

	case jobposting.SourceEnv:
		if strings.TrimSpace(opts.EnvTitle) == "" {
			return nil, fmt.Errorf("%w: provide at least a GITCHA_JOB_TITLE environment variable", jobposting.ErrMissingJobTitle)
		}
		return []jobposting.Posting{{Title: opts.EnvTitle, Description: opts.EnvDesc}}, nil

	default:
		dir := manifest.NormalizeFolder(g.repo.Path, g.manifest.Config.JobPostings)

		postings, err := jobposting.FromFolder(dir)
		if err != nil {
			return nil, err
		}

		if len(postings) == 0 {
			g.logger.Info("no new job posting file in the folder", zap.String("folder", dir))
		}

		if strings.TrimSpace(opts.EnvTitle) != "" {
			postings = append(postings, jobposting.Posting{Title: opts.EnvTitle, Description: opts.EnvDesc})
		}

		if len(postings) == 0 {
			return nil, ErrNoJobPostings
		}

		return postings, nil
	}
}

// generateLetter builds and executes the chat prompt for one posting.
func (g *Generator) generateLetter(ctx context.Context, title, desc string) (string, error) {
	summary, err := g.summarizeFiles(ctx)
	if err != nil {
		return "", err
	}

	if desc != "" {
		desc, err = g.summarizeText(ctx, desc)
		if err != nil {
			return "", fmt.Errorf("summarizing job description: %w", err)
		}
	}

	messages, err := prompt.Letter(prompt.LetterInput{
		ContactInfo:    g.manifest.ContactInfo(),
		JobTitle:       title,
		JobDescSummary: desc,
		CVSummary:      summary,
		OutputLang:     g.manifest.Config.OutputLang,
	})
	if err != nil {
		return "", err
	}

	return g.executeChat(ctx, messages)
}

// Answer runs the general-prompt action: a free-form question answered from
// the CV summary.
func (g *Generator) Answer(ctx context.Context, promptText string) (string, error) {
	g.logger.Info("answering from the summary of the repository files")

	summary, err := g.summarizeFiles(ctx)
	if err != nil {
		return "", err
	}

	messages, err := prompt.General(prompt.GeneralInput{
		ContactInfo: g.manifest.ContactInfo(),
		CVSummary:   summary,
		Prompt:      promptText,
		OutputLang:  g.manifest.Config.OutputLang,
	})
	if err != nil {
		return "", err
	}

	return g.executeChat(ctx, messages)
}

// summarizeFiles aggregates the CV documents once per run and caches the
// summary of the refine chain for every following entry.
func (g *Generator) summarizeFiles(ctx context.Context) (string, error) {
	if summary, ok := g.docs.Summary(); ok {
		return summary, nil
	}

	docs, skipped, err := g.loader.LoadAll(g.repo.Path, g.manifest.Config)
	if err != nil {
		return "", fmt.Errorf("aggregating documents: %w", err)
	}

	for _, skip := range skipped {
		g.logger.Debug("skipped file", zap.String("path", skip.Path), zap.String("reason", skip.Reason))
	}

	if len(docs) == 0 {
		return "", ErrNoDocuments
	}

	g.docs.SetCV(docs)

	if _, err := g.tracker.Check(g.docs.All(), 0); err != nil {
		return "", err
	}

	summary, err := g.summarizer.Summarize(ctx, docs, ai.Refine)
	if err != nil {
		return "", fmt.Errorf("summarizing cv documents: %w", err)
	}

	g.docs.SetSummary(summary)
	g.logger.Info("summarized cv documents", zap.Int("count", len(docs)))

	return summary, nil
}

// summarizeText reduces free text through the map-reduce chain. Short inputs
// come back verbatim; chunked inputs join the job-posting bucket so they
// count toward the token budget.
func (g *Generator) summarizeText(ctx context.Context, text string) (string, error) {
	if utf8.RuneCountInString(text) < summarizeThreshold {
		return text, nil
	}

	chunks := document.SplitText(text, chunkSize)
	docs := make([]document.Document, 0, len(chunks))
	for _, chunk := range chunks {
		docs = append(docs, document.Document{Content: chunk})
	}

	g.docs.AppendJobPostings(docs)

	return g.summarizer.Summarize(ctx, docs, ai.MapReduce)
}

// executeChat estimates the final prompt, re-checks the budget and invokes
// the model. An empty model response is a warning, not a defect.
func (g *Generator) executeChat(ctx context.Context, messages []prompt.Message) (string, error) {
	g.logger.Info("number of analyzed documents", zap.Int("count", g.docs.TotalFiles()))

	promptTokens := budget.CountTokens(prompt.Flatten(messages))
	g.logger.Info("token estimation for final prompt", zap.Int("tokens", promptTokens))

	total, err := g.tracker.Check(g.docs.All(), promptTokens+completionAllowance)
	if err != nil {
		return "", err
	}
	g.logger.Info("maximum token prediction (prompt/completion)", zap.Int("total", total))

	resp, err := g.chat.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if strings.TrimSpace(resp) == "" {
		return "", ErrEmptyResponse
	}

	return resp, nil
}

// Package forge talks to the source-hosting platform: resolving releases,
// uploading release assets and posting commit comments. The local provider
// implements every side effect as a no-op.
package forge

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	// ErrWrongProvider marks an unrecognized git provider name.
	ErrWrongProvider = errors.New("wrong git provider")
	// ErrProviderNotImplemented marks a recognized but unsupported provider.
	ErrProviderNotImplemented = errors.New("git provider is currently not supported")
)

// Forge is the hosting-platform surface the pipeline needs. Every method is a
// blocking call; the pipeline never issues two concurrently.
type Forge interface {
	Name() string

	// Release resolves the name and body of the release the run was
	// triggered from.
	Release(ctx context.Context) (name, body string, err error)

	// CreateReleaseAssets uploads the letter and, when publicDir exists, a
	// zip archive of it as assets of the release resolved from the git ref,
	// then posts a summary comment.
	CreateReleaseAssets(ctx context.Context, letterPath, publicDir string) error

	// CreateComment posts a message against the commit or tag the run was
	// triggered from.
	CreateComment(ctx context.Context, message string) error
}

// Options carries the repository coordinates shared by all providers.
type Options struct {
	// RepoName is the namespace/name pair on the hosting platform.
	RepoName string
	// Token is the API token of the hosting platform.
	Token string
	// Ref is the fully-formed git ref that triggered the run.
	Ref string
}

// New constructs the provider by name: "github", "local" or "gitlab".
// Provider errors are fatal and raised here, before any other work.
func New(ctx context.Context, provider string, opts Options, logger *zap.Logger) (Forge, error) {
	switch provider {
	case "github":
		return newGithub(ctx, opts, logger)
	case "gitlab":
		return nil, fmt.Errorf("%w: gitlab", ErrProviderNotImplemented)
	case "local":
		return &local{logger: logger}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrWrongProvider, provider)
	}
}

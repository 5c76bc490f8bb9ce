package forge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gh "github.com/google/go-github/v80/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type github struct {
	client *gh.Client
	logger *zap.Logger

	owner string
	repo  string
	ref   string

	// release is resolved lazily from the tag ref and memoized.
	release *gh.RepositoryRelease
}

func newGithub(ctx context.Context, opts Options, logger *zap.Logger) (*github, error) {
	if opts.Token == "" || opts.RepoName == "" {
		return nil, errors.New("github provider requires a repository name and an api token")
	}

	owner, repo, ok := strings.Cut(opts.RepoName, "/")
	if !ok {
		return nil, fmt.Errorf("repository name %q is not a namespace/name pair", opts.RepoName)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})

	return &github{
		client: gh.NewClient(oauth2.NewClient(ctx, ts)),
		logger: logger,
		owner:  owner,
		repo:   repo,
		ref:    opts.Ref,
	}, nil
}

func (g *github) Name() string { return "github" }

func (g *github) Release(ctx context.Context) (string, string, error) {
	release, err := g.getRelease(ctx)
	if err != nil {
		return "", "", err
	}

	return release.GetName(), release.GetBody(), nil
}

// getRelease resolves the release matching the tag the workflow ran for.
func (g *github) getRelease(ctx context.Context) (*gh.RepositoryRelease, error) {
	if g.release != nil {
		return g.release, nil
	}

	if !strings.HasPrefix(g.ref, "refs/tags/") {
		return nil, fmt.Errorf("git ref %q is not provided or not a tag", g.ref)
	}
	tag := strings.TrimPrefix(g.ref, "refs/tags/")

	release, _, err := g.client.Repositories.GetReleaseByTag(ctx, g.owner, g.repo, tag)
	if err != nil {
		return nil, fmt.Errorf("get release for tag %s: %w", tag, err)
	}

	g.release = release
	return release, nil
}

func (g *github) CreateReleaseAssets(ctx context.Context, letterPath, publicDir string) error {
	release, err := g.getRelease(ctx)
	if err != nil {
		return err
	}

	asset, err := g.uploadAsset(ctx, release, letterPath, "Letter of application", "text/markdown")
	if err != nil {
		return err
	}

	// The public folder travels along as one zip archive.
	if info, err := os.Stat(publicDir); err == nil && info.IsDir() {
		zipPath := filepath.Join(filepath.Dir(letterPath), "documents.zip")
		if err := zipDirectory(publicDir, zipPath); err != nil {
			return fmt.Errorf("archiving public folder: %w", err)
		}

		if _, err := g.uploadAsset(ctx, release, zipPath, "Public files as zip", "application/zip"); err != nil {
			return err
		}
	}

	message := fmt.Sprintf(
		"Successfully created your letter of application.\n\n"+
			"You can find all assets under: %s\n\n"+
			"Direct download: %s\n",
		release.GetHTMLURL(), asset.GetBrowserDownloadURL(),
	)

	return g.CreateComment(ctx, message)
}

func (g *github) uploadAsset(ctx context.Context, release *gh.RepositoryRelease, path, label, mediaType string) (*gh.ReleaseAsset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening asset %s: %w", path, err)
	}
	defer file.Close()

	opts := &gh.UploadOptions{
		Name:      filepath.Base(path),
		Label:     label,
		MediaType: mediaType,
	}

	asset, _, err := g.client.Repositories.UploadReleaseAsset(ctx, g.owner, g.repo, release.GetID(), opts, file)
	if err != nil {
		return nil, fmt.Errorf("uploading release asset %s: %w", path, err)
	}

	g.logger.Info("uploaded release asset",
		zap.String("name", opts.Name),
		zap.String("url", asset.GetBrowserDownloadURL()),
	)

	return asset, nil
}

func (g *github) CreateComment(ctx context.Context, message string) error {
	if g.ref == "" {
		return errors.New("missing git ref for the comment")
	}

	comment := &gh.RepositoryComment{Body: gh.Ptr(message)}

	_, _, err := g.client.Repositories.CreateComment(ctx, g.owner, g.repo, g.ref, comment)
	if err != nil {
		return fmt.Errorf("creating commit comment: %w", err)
	}

	return nil
}

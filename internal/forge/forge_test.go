package forge

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLocal(t *testing.T) {
	f, err := New(context.Background(), "local", Options{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "local", f.Name())

	// Every side effect is a no-op for local runs.
	require.NoError(t, f.CreateReleaseAssets(context.Background(), "letter.md", "public"))
	require.NoError(t, f.CreateComment(context.Background(), "message"))

	_, _, err = f.Release(context.Background())
	require.Error(t, err)
}

func TestNewWrongProvider(t *testing.T) {
	_, err := New(context.Background(), "sourcehut", Options{}, zap.NewNop())
	require.ErrorIs(t, err, ErrWrongProvider)
}

func TestNewGitlabNotImplemented(t *testing.T) {
	_, err := New(context.Background(), "gitlab", Options{}, zap.NewNop())
	require.ErrorIs(t, err, ErrProviderNotImplemented)
}

func TestNewGithubRequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), "github", Options{RepoName: "owner/repo"}, zap.NewNop())
	require.Error(t, err)

	_, err = New(context.Background(), "github", Options{Token: "token", RepoName: "not-a-pair"}, zap.NewNop())
	require.Error(t, err)

	f, err := New(context.Background(), "github", Options{Token: "token", RepoName: "owner/repo", Ref: "refs/tags/v1"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "github", f.Name())
}

func TestGithubReleaseRequiresTagRef(t *testing.T) {
	g, err := newGithub(context.Background(), Options{Token: "t", RepoName: "o/r", Ref: "refs/heads/main"}, zap.NewNop())
	require.NoError(t, err)

	_, err = g.getRelease(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a tag")
}

func TestZipDirectory(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "cv.pdf"), []byte("pdf"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "cert.md"), []byte("cert"), 0o644))

	dest := filepath.Join(t.TempDir(), "documents.zip")
	require.NoError(t, zipDirectory(src, dest))

	reader, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer reader.Close()

	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"cv.pdf", "sub/cert.md"}, names)
}

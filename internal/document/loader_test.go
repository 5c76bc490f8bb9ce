package document

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/shry/gitcha-action/internal/manifest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testFolders() *manifest.Folders {
	return &manifest.Folders{
		Public:      "public",
		WorkHistory: "work_log",
		Certs:       "certs",
		Projects:    "projects",
		JobPostings: "job_postings",
	}
}

func sources(docs []Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, filepath.Base(d.Source))
	}
	return out
}

func TestLoadAllOrdering(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, filepath.Join(repo, "README.md"), "# My personal vita")
	writeFile(t, filepath.Join(repo, "public", "b.md"), "public b")
	writeFile(t, filepath.Join(repo, "public", "a.md"), "public a")
	writeFile(t, filepath.Join(repo, "certs", "cert.md"), "cert")
	writeFile(t, filepath.Join(repo, "work_log", "job1.md"), "job one")
	writeFile(t, filepath.Join(repo, "projects", "proj.md"), "project")

	loader := &Loader{}
	docs, skipped, err := loader.LoadAll(repo, testFolders())
	require.NoError(t, err)
	assert.Empty(t, skipped)

	// Source-category order, then sorted enumeration order inside a category.
	assert.Equal(t, []string{"README.md", "a.md", "b.md", "cert.md", "job1.md", "proj.md"}, sources(docs))
}

func TestLoadAllSkipsHiddenAndImages(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, filepath.Join(repo, "README.md"), "readme")
	writeFile(t, filepath.Join(repo, "public", "cv.md"), "cv")
	writeFile(t, filepath.Join(repo, "public", ".secret.md"), "hidden")
	writeFile(t, filepath.Join(repo, "public", "photo.PNG"), "binary")

	loader := &Loader{}
	docs, skipped, err := loader.LoadAll(repo, testFolders())
	require.NoError(t, err)

	assert.Equal(t, []string{"README.md", "cv.md"}, sources(docs))
	require.Len(t, skipped, 2)
}

func TestLoadAllHiddenInclusion(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, filepath.Join(repo, "README.md"), "readme")
	writeFile(t, filepath.Join(repo, "public", ".secret.md"), "hidden")
	writeFile(t, filepath.Join(repo, "public", ".hidden.png"), "binary")

	loader := &Loader{LoadHidden: true}
	docs, _, err := loader.LoadAll(repo, testFolders())
	require.NoError(t, err)

	// Hidden inclusion never re-admits image extensions.
	assert.Equal(t, []string{"README.md", ".secret.md"}, sources(docs))
}

func TestLoadAllHiddenSegmentInRecursiveWalk(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, filepath.Join(repo, "public", ".git", "config.md"), "internal")
	writeFile(t, filepath.Join(repo, "public", "sub", "cv.md"), "cv")

	loader := &Loader{Recursive: true}
	docs, skipped, err := loader.LoadAll(repo, testFolders())
	require.NoError(t, err)

	assert.Equal(t, []string{"cv.md"}, sources(docs))
	require.Len(t, skipped, 1)
	assert.Equal(t, "hidden path", skipped[0].Reason)
}

func TestLoadAllErrorPolicies(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, filepath.Join(repo, "README.md"), "readme")
	writeFile(t, filepath.Join(repo, "public", "bad.md"), "unreadable")
	writeFile(t, filepath.Join(repo, "public", "good.md"), "fine")

	failing := func(path string) (string, error) {
		if filepath.Base(path) == "bad.md" {
			return "", fmt.Errorf("unsupported format")
		}
		data, err := os.ReadFile(path)
		return string(data), err
	}

	strict := &Loader{Load: failing, OnError: Propagate}
	_, _, err := strict.LoadAll(repo, testFolders())
	require.Error(t, err)

	lenient := &Loader{Load: failing, OnError: CollectAndContinue}
	docs, skipped, err := lenient.LoadAll(repo, testFolders())
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md", "good.md"}, sources(docs))
	require.Len(t, skipped, 1)
	assert.Contains(t, skipped[0].Reason, "unsupported format")
}

func TestLoadAllUnconfiguredFolderSkipped(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, filepath.Join(repo, "certs", "cert.md"), "cert")

	folders := testFolders()
	folders.Certs = ""

	loader := &Loader{}
	docs, _, err := loader.LoadAll(repo, folders)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestCollectionPopulateOnce(t *testing.T) {
	var c Collection

	require.True(t, c.SetCV([]Document{{Content: "a"}}))
	assert.False(t, c.SetCV([]Document{{Content: "b"}}))
	assert.Equal(t, "a", c.CV[0].Content)

	require.True(t, c.SetSummary("first"))
	assert.False(t, c.SetSummary("second"))

	got, ok := c.Summary()
	assert.True(t, ok)
	assert.Equal(t, "first", got)
}

func TestSplitText(t *testing.T) {
	chunks := SplitText("first paragraph\n\nsecond paragraph", 100)
	assert.Equal(t, []string{"first paragraph\n\nsecond paragraph"}, chunks)

	chunks = SplitText("first paragraph\n\nsecond paragraph", 20)
	assert.Equal(t, []string{"first paragraph", "second paragraph"}, chunks)

	long := make([]byte, 50)
	for i := range long {
		long[i] = 'x'
	}
	chunks = SplitText(string(long), 20)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 20)
	assert.Len(t, chunks[2], 10)

	assert.Nil(t, SplitText("   ", 20))
}

package jobposting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePosting(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseSource(t *testing.T) {
	cases := map[string]Source{
		"":        SourceFolder,
		"folder":  SourceFolder,
		"Release": SourceRelease,
		" env ":   SourceEnv,
	}
	for in, want := range cases {
		got, err := ParseSource(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	_, err := ParseSource("issue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid job source")
}

func TestFromFolder(t *testing.T) {
	dir := t.TempDir()
	writePosting(t, dir, "b.md", "---\ntitle: second job\n---\nsecond desc")
	writePosting(t, dir, "a.md", "---\ntitle: first job\n---\nfirst desc")
	writePosting(t, dir, "done.md", "---\ntitle: old job\ncreated: true\n---\nold desc")

	postings, err := FromFolder(dir)
	require.NoError(t, err)
	require.Len(t, postings, 2)

	assert.Equal(t, "first job", postings[0].Title)
	assert.Equal(t, "first desc", postings[0].Description)
	assert.Equal(t, filepath.Join(dir, "a.md"), postings[0].Path)
	assert.Equal(t, "second job", postings[1].Title)
}

func TestFromFolderMissingTitle(t *testing.T) {
	dir := t.TempDir()
	writePosting(t, dir, "bad.md", "---\ncreated: false\n---\ndesc")

	_, err := FromFolder(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no title")
}

func TestFromFolderEmpty(t *testing.T) {
	postings, err := FromFolder(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, postings)
}

func TestFromRelease(t *testing.T) {
	p, err := FromRelease("v1.0 Backend Engineer", "We are hiring.")
	require.NoError(t, err)
	assert.Equal(t, "v1.0 Backend Engineer", p.Title)
	assert.Equal(t, "We are hiring.", p.Description)
	assert.Empty(t, p.Path)
}

func TestFromReleasePromptKey(t *testing.T) {
	body := "---\nprompt: use this text instead\n---\nignored body"

	p, err := FromRelease("Job", body)
	require.NoError(t, err)
	assert.Equal(t, "use this text instead", p.Description)
}

func TestFromReleaseMissingName(t *testing.T) {
	_, err := FromRelease("  ", "body")
	require.Error(t, err)
}

func TestAppendLetter(t *testing.T) {
	dir := t.TempDir()
	path := writePosting(t, dir, "test.md", "---\ntitle: job title\n---\njob desc")

	require.NoError(t, AppendLetter(path, "summary"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "---\ncreated: true\ntitle: job title\n---\n\njob desc\n\n---\n\nsummary", string(data))

	// The rewritten file is excluded from the next run.
	postings, err := FromFolder(dir)
	require.NoError(t, err)
	assert.Empty(t, postings)
}

func TestAppendLetterPreservesUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := writePosting(t, dir, "test.md", "---\ntitle: job\ncompany: Acme\n---\ndesc")

	require.NoError(t, AppendLetter(path, "letter"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "company: Acme")
	assert.Contains(t, string(data), "created: true")
}

// Package jobposting reads job-posting entries from their configured source
// and writes generated letters back to trackable posting files.
package jobposting

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// ErrMissingJobTitle marks an env-sourced run without a job title. It is a
// configuration error, fatal before any network call.
var ErrMissingJobTitle = errors.New("missing job title")

// Source is the closed set of places a run may pull job postings from.
// Exactly one source is active per run.
type Source int

const (
	// SourceFolder scans the configured job-posting folder for markdown files.
	SourceFolder Source = iota
	// SourceRelease reads a single posting from a release title and body.
	SourceRelease
	// SourceEnv reads a single posting from the environment variable pair.
	SourceEnv
)

// ParseSource maps the configured source name onto the tagged variant.
// Unknown names fail at construction time, before any file I/O.
func ParseSource(name string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "folder":
		return SourceFolder, nil
	case "release":
		return SourceRelease, nil
	case "env":
		return SourceEnv, nil
	default:
		return 0, fmt.Errorf("invalid job source: %q", name)
	}
}

func (s Source) String() string {
	switch s {
	case SourceRelease:
		return "release"
	case SourceEnv:
		return "env"
	default:
		return "folder"
	}
}

// Posting is one job-posting entry. Path is set only for folder-sourced
// entries; those are rewritten once their letter is generated.
type Posting struct {
	Title       string
	Description string
	Path        string
}

type meta struct {
	Title   string `yaml:"title"`
	Created bool   `yaml:"created"`
	Prompt  string `yaml:"prompt"`
}

// FromFolder scans dir for markdown postings that have not been processed
// yet. Files marked created: true are skipped entirely; a posting without a
// title is an error. Enumeration order is sorted so output order is stable.
func FromFolder(dir string) ([]Posting, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var postings []Posting
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading job posting %s: %w", file, err)
		}

		var m meta
		body, err := frontmatter.Parse(bytes.NewReader(data), &m)
		if err != nil {
			return nil, fmt.Errorf("parsing front matter of %s: %w", file, err)
		}

		if m.Created {
			continue
		}

		if strings.TrimSpace(m.Title) == "" {
			return nil, fmt.Errorf("no title for the job posting under %s", file)
		}

		postings = append(postings, Posting{
			Title:       m.Title,
			Description: strings.TrimSpace(string(body)),
			Path:        file,
		})
	}

	return postings, nil
}

// FromRelease builds the single posting of a release-driven run. The release
// name is the job title and the body the description; a front-matter `prompt`
// key in the body takes precedence as the description.
func FromRelease(name, body string) (Posting, error) {
	if strings.TrimSpace(name) == "" {
		return Posting{}, fmt.Errorf("release has no name to use as job title")
	}

	desc := strings.TrimSpace(body)

	if strings.HasPrefix(desc, "---") {
		var m meta
		content, err := frontmatter.Parse(strings.NewReader(desc), &m)
		if err == nil {
			desc = strings.TrimSpace(string(content))
			if strings.TrimSpace(m.Prompt) != "" {
				desc = strings.TrimSpace(m.Prompt)
			}
		}
	}

	return Posting{Title: name, Description: desc}, nil
}

// AppendLetter rewrites a folder-sourced posting file: the letter is appended
// after a horizontal rule and the front matter gains created: true, which
// excludes the file from future runs. Unknown front-matter keys survive the
// rewrite.
func AppendLetter(path, letter string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading job posting %s: %w", path, err)
	}

	fields := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(data), &fields)
	if err != nil {
		return fmt.Errorf("parsing front matter of %s: %w", path, err)
	}

	fields["created"] = true

	head, err := yaml.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encoding front matter: %w", err)
	}

	content := strings.TrimSpace(string(body))

	var out strings.Builder
	out.WriteString("---\n")
	out.Write(head)
	out.WriteString("---\n\n")
	out.WriteString(content)
	out.WriteString("\n\n---\n\n")
	out.WriteString(letter)

	return os.WriteFile(path, []byte(out.String()), 0o644)
}

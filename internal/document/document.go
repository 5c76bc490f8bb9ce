// Package document aggregates the candidate's CV-like files into an ordered
// in-memory document list and tracks them for the duration of one run.
package document

import "strings"

// Document is a unit of loaded text with its source path.
type Document struct {
	Content string
	Source  string
}

// Collection holds the two document buckets of a pipeline run plus the CV
// summary. The CV bucket and the summary are populated at most once per run.
type Collection struct {
	CV          []Document
	JobPostings []Document

	summary    string
	summarized bool
}

// SetCV stores the aggregated CV documents. It reports false without
// overwriting when the bucket was already populated.
func (c *Collection) SetCV(docs []Document) bool {
	if len(c.CV) > 0 {
		return false
	}
	c.CV = docs
	return true
}

// AppendJobPostings adds documents to the job-posting bucket so they count
// toward the token budget.
func (c *Collection) AppendJobPostings(docs []Document) {
	c.JobPostings = append(c.JobPostings, docs...)
}

// All returns both buckets in budget-accounting order.
func (c *Collection) All() []Document {
	all := make([]Document, 0, len(c.CV)+len(c.JobPostings))
	all = append(all, c.CV...)
	all = append(all, c.JobPostings...)
	return all
}

// TotalFiles returns the number of documents across both buckets.
func (c *Collection) TotalFiles() int {
	return len(c.CV) + len(c.JobPostings)
}

// SetSummary caches the CV summary. It reports false without overwriting when
// a summary is already cached.
func (c *Collection) SetSummary(s string) bool {
	if c.summarized {
		return false
	}
	c.summary = s
	c.summarized = true
	return true
}

// Summary returns the cached CV summary and whether one was cached.
func (c *Collection) Summary() (string, bool) {
	return c.summary, c.summarized
}

// SplitText splits free text into chunks of at most chunkSize runes, breaking
// on paragraph boundaries where possible. Used before map-reduce
// summarization so every chunk fits a single model call.
func SplitText(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = 4000
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	var window []string
	size := 0

	for _, p := range splitParagraphs(text) {
		runes := []rune(p)

		// A single oversized paragraph is cut at the rune limit.
		for len(runes) > chunkSize {
			if len(window) > 0 {
				chunks = append(chunks, strings.Join(window, "\n\n"))
				window, size = nil, 0
			}
			chunks = append(chunks, string(runes[:chunkSize]))
			runes = runes[chunkSize:]
		}

		if size+len(runes) > chunkSize && len(window) > 0 {
			chunks = append(chunks, strings.Join(window, "\n\n"))
			window, size = nil, 0
		}

		if len(runes) > 0 {
			window = append(window, string(runes))
			size += len(runes)
		}
	}

	if len(window) > 0 {
		chunks = append(chunks, strings.Join(window, "\n\n"))
	}

	return chunks
}

func splitParagraphs(s string) []string {
	raw := strings.Split(s, "\n\n")
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r != "" {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return []string{s}
	}
	return out
}

// Package prompt composes the ordered, role-tagged message list sent to the
// model. Rendering is plain placeholder substitution; templates carry no
// conditional logic.
package prompt

import (
	"errors"
	"strings"

	_ "embed"

	"github.com/shry/gitcha-action/internal/manifest"
)

// ErrMissingSummary is returned when assembly is attempted without a CV
// summary. It fails fast, before any model call.
var ErrMissingSummary = errors.New("no CV summary to build the prompt from")

// Role tags a message for the chat API.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one rendered chat message.
type Message struct {
	Role    Role
	Content string
}

//go:embed templates/letter.md
var letterTemplate string

//go:embed templates/general.md
var generalTemplate string

const (
	personaTemplate = "You are a personal job application assistant. The basic personal information of your client are the following:\n{{PERSONAL_INFOS}}"
	jobDescTemplate = "The summary of the job description is: \n\n {{JOB_DESC}}"
	langTemplate    = "You should respond only in {{LANG}}"
)

// LetterInput carries the runtime values rendered into the letter prompt.
type LetterInput struct {
	ContactInfo string
	JobTitle    string
	// JobDescSummary is optional; when empty the job-description system
	// message is omitted.
	JobDescSummary string
	CVSummary      string
	// OutputLang adds a trailing language directive when it differs from the
	// default output language.
	OutputLang string
}

// Letter builds the letter-of-application messages in their fixed order:
// persona, optional job-description summary, user request, optional language
// directive.
func Letter(in LetterInput) ([]Message, error) {
	if strings.TrimSpace(in.CVSummary) == "" {
		return nil, ErrMissingSummary
	}

	messages := []Message{persona(in.ContactInfo)}

	if in.JobDescSummary != "" {
		messages = append(messages, Message{
			Role:    RoleSystem,
			Content: strings.ReplaceAll(jobDescTemplate, "{{JOB_DESC}}", in.JobDescSummary),
		})
	}

	body := strings.ReplaceAll(letterTemplate, "{{JOB_TITLE}}", in.JobTitle)
	body = strings.ReplaceAll(body, "{{SUMMARY}}", in.CVSummary)
	messages = append(messages, Message{Role: RoleUser, Content: body})

	if directive, ok := languageDirective(in.OutputLang); ok {
		messages = append(messages, directive)
	}

	return messages, nil
}

// GeneralInput carries the runtime values of the free-form prompt action.
type GeneralInput struct {
	ContactInfo string
	CVSummary   string
	Prompt      string
	OutputLang  string
}

// General builds the messages answering a free-form question from the CV
// summary.
func General(in GeneralInput) ([]Message, error) {
	if strings.TrimSpace(in.CVSummary) == "" {
		return nil, ErrMissingSummary
	}

	body := strings.ReplaceAll(generalTemplate, "{{SUMMARY}}", in.CVSummary)
	body = strings.ReplaceAll(body, "{{PROMPT}}", in.Prompt)

	messages := []Message{
		persona(in.ContactInfo),
		{Role: RoleUser, Content: body},
	}

	if directive, ok := languageDirective(in.OutputLang); ok {
		messages = append(messages, directive)
	}

	return messages, nil
}

func persona(contactInfo string) Message {
	return Message{
		Role:    RoleSystem,
		Content: strings.ReplaceAll(personaTemplate, "{{PERSONAL_INFOS}}", contactInfo),
	}
}

func languageDirective(lang string) (Message, bool) {
	if lang == "" || strings.EqualFold(lang, manifest.DefaultOutputLang) {
		return Message{}, false
	}
	return Message{
		Role:    RoleSystem,
		Content: strings.ReplaceAll(langTemplate, "{{LANG}}", strings.ToUpper(lang)),
	}, true
}

// Flatten joins all message contents; used for token estimation of the final
// prompt.
func Flatten(messages []Message) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, "\n")
}

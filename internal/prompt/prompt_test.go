package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLetterComposition(t *testing.T) {
	messages, err := Letter(LetterInput{
		ContactInfo:    "Full name: Bill Gates",
		JobTitle:       "job title",
		JobDescSummary: "short desc",
		CVSummary:      "the summary",
		OutputLang:     "German",
	})
	require.NoError(t, err)
	require.Len(t, messages, 4)

	assert.Equal(t, RoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, "personal job application assistant")
	assert.Contains(t, messages[0].Content, "Full name: Bill Gates")

	assert.Equal(t, RoleSystem, messages[1].Role)
	assert.Contains(t, messages[1].Content, "short desc")

	assert.Equal(t, RoleUser, messages[2].Role)
	assert.Contains(t, messages[2].Content, "'job title'")
	assert.Contains(t, messages[2].Content, "the summary")
	assert.Contains(t, messages[2].Content, "around 150 words")

	assert.Equal(t, RoleSystem, messages[3].Role)
	assert.Contains(t, messages[3].Content, "GERMAN")
}

func TestLetterWithoutJobDescription(t *testing.T) {
	messages, err := Letter(LetterInput{
		ContactInfo: "Full name: Ada",
		JobTitle:    "job title",
		CVSummary:   "summary",
	})
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, RoleUser, messages[1].Role)
}

func TestLetterDefaultLanguageOmitsDirective(t *testing.T) {
	messages, err := Letter(LetterInput{
		ContactInfo: "c",
		JobTitle:    "t",
		CVSummary:   "s",
		OutputLang:  "english",
	})
	require.NoError(t, err)

	for _, m := range messages {
		assert.NotContains(t, m.Content, "respond only in")
	}
}

func TestLetterMissingSummary(t *testing.T) {
	_, err := Letter(LetterInput{ContactInfo: "c", JobTitle: "t", CVSummary: "  "})
	require.ErrorIs(t, err, ErrMissingSummary)
}

func TestGeneralComposition(t *testing.T) {
	messages, err := General(GeneralInput{
		ContactInfo: "Full name: Ada",
		CVSummary:   "summary",
		Prompt:      "What is my strongest skill?",
	})
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Contains(t, messages[1].Content, "summary")
	assert.Contains(t, messages[1].Content, "What is my strongest skill?")
}

func TestGeneralMissingSummary(t *testing.T) {
	_, err := General(GeneralInput{Prompt: "question"})
	require.ErrorIs(t, err, ErrMissingSummary)
}

func TestFlatten(t *testing.T) {
	got := Flatten([]Message{{Content: "a"}, {Content: "b"}})
	assert.Equal(t, "a\nb", got)
}

package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "gitcha"
)

// Config is the environment-driven configuration of one run. There is no
// config file besides the manifest inside the scanned repository: the process
// is parameterized entirely by its CI environment.
type Config struct {
	// Provider is the git hosting platform: github, gitlab or local.
	Provider string
	// Repository is the namespace/name pair on the hosting platform.
	Repository string
	// Token is the api token to connect with the git provider.
	Token string
	// RepoPath is the folder of the repository to scan.
	RepoPath string
	// Ref is the fully-formed ref of the branch or tag that triggered the run.
	Ref string
	// EventName is the workflow event kind, e.g. "release" or "push".
	EventName string

	// Action selects the pipeline: letter-of-application or prompt.
	Action string
	// JobSource overrides the guessed job-posting source.
	JobSource string
	JobTitle  string
	JobDesc   string
	// Prompt is the free-form question for the prompt action.
	Prompt string

	// MaxTokenLimit caps the token estimate of a run. Zero or less is
	// unlimited.
	MaxTokenLimit int

	GeminiModel      string
	GeminiAPIKeyFile string
}

var rootCmd = &cobra.Command{
	Use:   app,
	Short: "gitcha turns the documents of a git repository into letters of application",
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Every setting maps to one or more environment variables; later names
	// are platform-specific fallbacks.
	bindings := [][]string{
		{"provider", "GIT_PROVIDER"},
		{"repository", "GITHUB_REPOSITORY", "CI_PROJECT_NAME"},
		{"token", "GIT_PROVIDER_API_TOKEN"},
		{"repo-path", "GIT_FOLDER_PATH", "GITHUB_WORKSPACE"},
		{"ref", "GITHUB_REF", "CI_COMMIT_REF_NAME"},
		{"event-name", "GITHUB_EVENT_NAME"},
		{"action", "GITCHA_ACTION"},
		{"job-source", "GITCHA_JOB_SOURCE"},
		{"job-title", "GITCHA_JOB_TITLE"},
		{"job-desc", "GITCHA_JOB_DESC"},
		{"prompt", "GITCHA_PROMPT"},
		{"max-token-limit", "MAX_TOKEN_LIMIT"},
		{"gemini-model", "GEMINI_MODEL"},
		{"gemini-api-key-file", "GEMINI_API_KEY_FILE"},
	}

	for _, binding := range bindings {
		if err := viper.BindEnv(binding...); err != nil {
			log.Fatalf("binding %s environment variables: %v", binding[0], err)
		}
	}

	viper.SetDefault("provider", "local")
	viper.SetDefault("repo-path", ".")
	viper.SetDefault("action", "letter-of-application")

	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func getConfig() *Config {
	return &Config{
		Provider:         viper.GetString("provider"),
		Repository:       viper.GetString("repository"),
		Token:            viper.GetString("token"),
		RepoPath:         viper.GetString("repo-path"),
		Ref:              viper.GetString("ref"),
		EventName:        viper.GetString("event-name"),
		Action:           viper.GetString("action"),
		JobSource:        viper.GetString("job-source"),
		JobTitle:         viper.GetString("job-title"),
		JobDesc:          viper.GetString("job-desc"),
		Prompt:           viper.GetString("prompt"),
		MaxTokenLimit:    viper.GetInt("max-token-limit"),
		GeminiModel:      viper.GetString("gemini-model"),
		GeminiAPIKeyFile: viper.GetString("gemini-api-key-file"),
	}
}

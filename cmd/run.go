package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/shry/gitcha-action/internal/ai"
	"github.com/shry/gitcha-action/internal/ai/gemini"
	"github.com/shry/gitcha-action/internal/generator"
	"github.com/shry/gitcha-action/internal/jobposting"
	"github.com/shry/gitcha-action/internal/logger"
	"github.com/shry/gitcha-action/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	actionLetter = "letter-of-application"
	actionPrompt = "prompt"

	promptYes = "Yes"
	promptNo  = "No"
)

// confirm guards local runs: every entry costs model tokens.
var confirm = promptui.Select{
	Label: "Send your repository summary to the model?",
	Items: []string{promptYes, promptNo},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the configured gitcha action against the repository",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation on local runs")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) error {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config := getConfig()

	logger.Info("starting gitcha",
		zap.String("version", version),
		zap.String("provider", config.Provider),
		zap.String("action", config.Action),
	)

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		Env:  "GEMINI_API_KEY",
		File: config.GeminiAPIKeyFile,
	})
	if err != nil {
		return fmt.Errorf("loading the gemini api key: %w", err)
	}

	model, err := gemini.NewClient(ctx, apiKey, config.GeminiModel, logger)
	if err != nil {
		return fmt.Errorf("creating the gemini client: %w", err)
	}

	gen, err := generator.New(ctx, generator.Config{
		Provider: config.Provider,
		Repo: generator.Repo{
			Path:     config.RepoPath,
			Name:     config.Repository,
			APIToken: config.Token,
			Ref:      config.Ref,
		},
		MaxTokenLimit: config.MaxTokenLimit,
		Chat:          model,
		Summarizer:    ai.NewSummarizer(model, logger),
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	logger.Info("loaded the repository manifest",
		zap.String("candidate", gen.Manifest().FullName()),
	)

	if config.Provider == "local" && cmd.Flag("auto-approve").Value.String() == "false" {
		_, answer, err := confirm.Run()
		if err != nil {
			return fmt.Errorf("reading the confirmation: %w", err)
		}

		if answer != promptYes {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return nil
		}
	}

	output, err := dispatch(ctx, gen, config)
	if err != nil {
		// Warnings mean "nothing to do", not a defect. The workflow run
		// stays green.
		if generator.IsWarning(err) {
			logger.Warn("finished without output", zap.Error(err))
			return nil
		}

		return err
	}

	if err := gen.WriteOutput(output); err != nil {
		return fmt.Errorf("writing the output: %w", err)
	}

	return nil
}

func dispatch(ctx context.Context, gen *generator.Generator, config *Config) (string, error) {
	switch config.Action {
	case actionLetter:
		source, err := resolveJobSource(config)
		if err != nil {
			return "", err
		}

		return gen.CreateLetterOfApplication(ctx, generator.LetterOptions{
			Source:              source,
			EnvTitle:            config.JobTitle,
			EnvDesc:             config.JobDesc,
			CreateReleaseAssets: config.EventName == "release",
		})

	case actionPrompt:
		if strings.TrimSpace(config.Prompt) == "" {
			return "", errors.New("provide at least a GITCHA_PROMPT environment variable")
		}

		return gen.Answer(ctx, config.Prompt)

	default:
		return "", fmt.Errorf("invalid action: %q", config.Action)
	}
}

// resolveJobSource guesses the posting source from the workflow event when no
// explicit override is set.
func resolveJobSource(config *Config) (jobposting.Source, error) {
	if config.JobSource == "" && config.EventName == "release" {
		return jobposting.SourceRelease, nil
	}

	return jobposting.ParseSource(config.JobSource)
}

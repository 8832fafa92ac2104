package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/pgagi/screener/internal/ai/gemini"
	"github.com/pgagi/screener/internal/interview"
	"github.com/pgagi/screener/internal/logger"
	"github.com/pgagi/screener/internal/secrets"
	"github.com/pgagi/screener/internal/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive interview session",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// run drives one interview session in the terminal.
func run(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the screener", zap.String("version", version))

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: config.Gemini.APIKey,
		File:  config.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		logger.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or the 'gemini.api-key-file' key in the configuration file"),
		)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.Gemini.Model, logger)
	if err != nil {
		logger.Fatal("creating the gemini generator", zap.Error(err))
	}

	db, err := store.New(config.Database, logger)
	if err != nil {
		logger.Fatal("opening the interview store", zap.Error(err))
	}
	defer db.Close()

	templates := interview.NewTemplates(config.CompanyName, config.InterviewerName)
	session := interview.NewSession(templates, generator, db, logger)

	fmt.Println(session.InitialPrompt())

	prompt := promptui.Prompt{Label: "you"}

	for session.CanContinue() {
		input, err := prompt.Run()
		if err != nil {
			logger.Info("exiting", zap.Error(err))
			return
		}

		fmt.Printf("\n%s\n", session.ProcessTurn(ctx, input))
	}

	logger.Info("session ended",
		zap.Bool("interview_complete", session.IsComplete()),
		zap.Bool("consent_given", session.ConsentGiven()),
	)
}

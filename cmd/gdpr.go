package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/pgagi/screener/internal/interview"
	"github.com/pgagi/screener/internal/logger"
	"github.com/pgagi/screener/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var gdprCmd = &cobra.Command{
	Use:   "gdpr",
	Short: "Data-protection maintenance for stored interviews",
}

var anonymizeCmd = &cobra.Command{
	Use:   "anonymize",
	Short: "Anonymize candidate records past their retention deadline",
	Run: func(_ *cobra.Command, _ []string) {
		db, zl := openStore()
		defer db.Close()

		count, err := db.AnonymizeExpired(context.Background())
		if err != nil {
			zl.Fatal("anonymizing expired records", zap.Error(err))
		}

		zl.Info("anonymization pass finished", zap.Int("records", count))
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <candidate-id>",
	Short: "Delete a candidate and all stored responses (right to erasure)",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		db, zl := openStore()
		defer db.Close()

		deleted, err := db.DeleteCandidate(context.Background(), args[0])
		if err != nil {
			zl.Fatal("deleting candidate", zap.Error(err))
		}

		if !deleted {
			zl.Fatal("no candidate with that id", zap.String("candidate_id", args[0]))
		}

		zl.Info("candidate deleted", zap.String("candidate_id", args[0]))
	},
}

var showCmd = &cobra.Command{
	Use:   "show <candidate-id>",
	Short: "Print a stored candidate record and its responses",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		db, zl := openStore()
		defer db.Close()

		ctx := context.Background()

		candidate, err := db.GetCandidate(ctx, args[0])
		if err != nil {
			zl.Fatal("getting candidate", zap.Error(err))
		}

		responses, err := db.Responses(ctx, args[0])
		if err != nil {
			zl.Fatal("getting responses", zap.Error(err))
		}

		pretty, _ := json.MarshalIndent(map[string]any{
			"candidate": candidate,
			"responses": responses,
		}, "", "  ")
		fmt.Println(string(pretty))
	},
}

var rightsCmd = &cobra.Command{
	Use:   "rights",
	Short: "Print the candidate data-rights notice",
	Run: func(_ *cobra.Command, _ []string) {
		config, err := getConfig()
		if err != nil {
			log.Fatalf("getting a config: %s", err)
		}

		templates := interview.NewTemplates(config.CompanyName, config.InterviewerName)
		fmt.Println(templates.DataRightsInfo())
	},
}

func init() {
	gdprCmd.AddCommand(anonymizeCmd, deleteCmd, showCmd, rightsCmd)
	rootCmd.AddCommand(gdprCmd)
}

func openStore() (*store.Store, *zap.Logger) {
	zl, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zl.Fatal("getting a config", zap.Error(err))
	}

	db, err := store.New(config.Database, zl)
	if err != nil {
		zl.Fatal("opening the interview store", zap.Error(err))
	}

	return db, zl
}

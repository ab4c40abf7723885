package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-builder/internal/db"
	"github.com/jonathan/portfolio-builder/internal/observability"
	"github.com/jonathan/portfolio-builder/internal/portfolio"
)

var (
	candidatesDatabaseURL string
	candidatesQuery       string
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "List saved candidates as an employer would see them",
	Long: `List every candidate with a saved portfolio, newest first, using the same
filtering as the employer dashboard.`,
	RunE: runCandidates,
}

func init() {
	candidatesCmd.Flags().StringVar(&candidatesDatabaseURL, "db-url", "", "Database URL (overrides DATABASE_URL env var)")
	candidatesCmd.Flags().StringVarP(&candidatesQuery, "query", "q", "", "Only list candidates whose name, headline, about or skills match")
	rootCmd.AddCommand(candidatesCmd)
}

func runCandidates(cmd *cobra.Command, _ []string) error {
	databaseURL := candidatesDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("database URL is required (use --db-url or set DATABASE_URL)")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	return listCandidates(ctx, portfolio.NewGateway(database), candidatesQuery, cmd.OutOrStdout())
}

func listCandidates(ctx context.Context, gateway *portfolio.Gateway, query string, out io.Writer) error {
	profiles, err := gateway.Search(ctx, query)
	if err != nil {
		return err
	}
	observability.NewPrinter(out).PrintCandidates(profiles)
	return nil
}

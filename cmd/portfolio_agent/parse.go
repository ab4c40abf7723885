package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/portfolio-builder/internal/analysis"
	"github.com/jonathan/portfolio-builder/internal/config"
	"github.com/jonathan/portfolio-builder/internal/ingestion"
	"github.com/jonathan/portfolio-builder/internal/llm"
	"github.com/jonathan/portfolio-builder/internal/logging"
	"github.com/jonathan/portfolio-builder/internal/observability"
	"github.com/jonathan/portfolio-builder/internal/parsing"
	"github.com/jonathan/portfolio-builder/internal/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Extract a portfolio and analysis from a local resume file",
	Long:  "Run the extraction and analysis adapters against a PDF, image or text resume and write {portfolio, analysis} JSON.",
	RunE:  runParse,
}

var (
	parseInputFile  string
	parseOutputFile string
	parseMIMEType   string
	parseConfigPath string
	parseVerbose    bool
)

func init() {
	parseCmd.Flags().StringVarP(&parseInputFile, "in", "i", "", "Path to resume file (required)")
	parseCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	parseCmd.Flags().StringVar(&parseMIMEType, "mime", "", "Mime type of the input (detected when empty)")
	parseCmd.Flags().StringVar(&parseConfigPath, "config", "", "Path to YAML config file")
	parseCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "Print a readable summary to stderr")

	_ = parseCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(parseCmd)
}

// parseResult is the JSON written by the parse command.
type parseResult struct {
	Portfolio *types.PortfolioData  `json:"portfolio"`
	Analysis  *types.ResumeAnalysis `json:"analysis"`
}

func runParse(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(parseConfigPath)
	if err != nil {
		return err
	}
	// Logs go to stderr so stdout stays valid JSON.
	logging.InitWithWriter(cfg.Logging, os.Stderr)

	in, err := ingestion.FromFile(parseInputFile, parseMIMEType)
	if err != nil {
		return err
	}
	prepared, err := ingestion.Prepare(in)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.LLM.RequestTimeout)
	defer cancel()

	client, err := llm.NewClient(ctx, llmConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	result, err := parseResume(ctx, parsing.NewExtractor(client), analysis.NewAnalyzer(client), prepared)
	if err != nil {
		return err
	}

	if parseVerbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		printer.PrintPortfolio(result.Portfolio)
		printer.PrintSkills(result.Portfolio.Skills)
		printer.PrintAnalysis(result.Analysis)
	}

	if parseOutputFile == "" {
		return writeResult(cmd.OutOrStdout(), result)
	}
	f, err := os.Create(parseOutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := writeResult(f, result); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Successfully wrote portfolio to %s\n", parseOutputFile)
	return nil
}

type extractor interface {
	Extract(ctx context.Context, in ingestion.Input) (*types.PortfolioData, error)
}

type analyzer interface {
	Analyze(ctx context.Context, in ingestion.Input) *types.ResumeAnalysis
}

// parseResume runs both adapters concurrently and applies the name gate.
func parseResume(ctx context.Context, e extractor, a analyzer, in ingestion.Input) (*parseResult, error) {
	var result parseResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result.Portfolio, err = e.Extract(gctx, in)
		return err
	})
	g.Go(func() error {
		result.Analysis = a.Analyze(gctx, in)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := parsing.CheckName(result.Portfolio); err != nil {
		return nil, err
	}
	return &result, nil
}

func writeResult(w io.Writer, result *parseResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

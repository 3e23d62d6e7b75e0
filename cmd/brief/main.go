// Command brief generates a Markdown research report on a topic.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/smhanov/brief"
	"github.com/smhanov/brief/config"
	"github.com/smhanov/brief/model"
	"github.com/smhanov/brief/search"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		maxResults int
		outPath    string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:           "brief <topic>",
		Short:         "Generate a Markdown research brief on a topic",
		Long:          "brief searches the web for a topic, filters and summarizes the results\nwith a language model, and writes a Markdown report.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], configPath, maxResults, outPath, verbose)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "brief.yaml", "path to the YAML config file")
	cmd.Flags().IntVarP(&maxResults, "max-results", "n", 0, "max search results to request (0 uses the configured value)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the report to this file instead of stdout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the run snapshot and event log to stderr")

	return cmd
}

func run(cmd *cobra.Command, topic, configPath string, maxResults int, outPath string, verbose bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	searcher, err := buildSearcher(cfg.Search)
	if err != nil {
		return err
	}

	lm, err := model.NewOpenAI(model.Config{
		BaseURL: cfg.Model.BaseURL,
		Model:   cfg.Model.Model,
		APIKey:  cfg.Model.APIKey,
	})
	if err != nil {
		return err
	}

	callTimeout, err := cfg.CallTimeout()
	if err != nil {
		return err
	}
	backoffUnit, err := cfg.BackoffUnit()
	if err != nil {
		return err
	}

	p := brief.New(
		brief.WithSearchProvider(searcher),
		brief.WithLanguageModel(lm),
		brief.WithLogger(logger),
		brief.WithMaxSteps(cfg.Pipeline.MaxSteps),
		brief.WithCallTimeout(callTimeout),
		brief.WithBackoffUnit(backoffUnit),
		brief.WithFilterSampling(cfg.Model.FilterTemperature, cfg.Model.FilterMaxTokens),
		brief.WithSummarySampling(cfg.Model.SummaryTemperature, cfg.Model.SummaryMaxTokens),
	)

	if maxResults <= 0 {
		maxResults = cfg.Pipeline.MaxResults
	}

	result, err := p.Execute(cmd.Context(), topic, maxResults)
	if err != nil {
		return err
	}

	if verbose {
		snap := result.Snapshot()
		fmt.Fprintf(os.Stderr, "run %s: step=%s search=%s retries=%d acquired=%d filtered=%d quality=%.2f\n",
			snap.ID, snap.Step, snap.SearchStatus, snap.SearchRetries,
			snap.AcquiredCount, snap.FilteredCount, snap.QualityScore)
		for _, e := range result.Events {
			fmt.Fprintln(os.Stderr, e)
		}
	}

	if result.Report == "" {
		return fmt.Errorf("run %s stopped before producing a report; rerun with --verbose for the event log", result.ID)
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(result.Report), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "report written to %s (quality %.2f)\n", outPath, result.QualityScore)
		return nil
	}

	fmt.Println(result.Report)
	return nil
}

func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zcfg zap.Config
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	// The report goes to stdout; keep logs off it.
	zcfg.OutputPaths = []string{"stderr"}

	return zcfg.Build()
}

func buildSearcher(cfg config.SearchConfig) (brief.SearchProvider, error) {
	switch cfg.Provider {
	case "duckduckgo":
		return search.NewDuckDuckGo(), nil
	case "brave":
		return search.NewBrave(cfg.APIKey), nil
	case "tavily":
		return search.NewTavily(cfg.APIKey, cfg.Depth), nil
	default:
		return nil, fmt.Errorf("unknown search provider %q", cfg.Provider)
	}
}

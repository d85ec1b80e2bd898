package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dsokolov/newslens/internal/adapters/ai"
	"github.com/dsokolov/newslens/internal/adapters/config"
	"github.com/dsokolov/newslens/internal/adapters/market"
	"github.com/dsokolov/newslens/internal/adapters/news"
	"github.com/dsokolov/newslens/internal/adapters/telegram"
	"github.com/dsokolov/newslens/internal/correlation"
	"github.com/dsokolov/newslens/internal/extraction"
	"github.com/dsokolov/newslens/internal/patterns"
	"github.com/dsokolov/newslens/internal/pipeline"
	"github.com/dsokolov/newslens/internal/report"
	"github.com/dsokolov/newslens/pkg/logger"
)

const dateLayout = "2006-01-02"

var (
	flagTicker   string
	flagStart    string
	flagEnd      string
	flagOutput   string
	flagSnapshot string
	flagTelegram bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "newslens",
		Short: "Explains stock price movement by linking news sentiment to technical patterns",
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the news-pattern analysis pipeline for a ticker and date range",
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().StringVarP(&flagTicker, "ticker", "t", "", "stock symbol to analyze (required)")
	analyzeCmd.Flags().StringVar(&flagStart, "start", "", "range start, YYYY-MM-DD (required)")
	analyzeCmd.Flags().StringVar(&flagEnd, "end", "", "range end, YYYY-MM-DD (required)")
	analyzeCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write the markdown report to a file instead of stdout")
	analyzeCmd.Flags().StringVar(&flagSnapshot, "snapshot", "", "write the final run state as JSON to this path")
	analyzeCmd.Flags().BoolVar(&flagTelegram, "telegram", false, "also deliver the report to the configured telegram chat")
	_ = analyzeCmd.MarkFlagRequired("ticker")
	_ = analyzeCmd.MarkFlagRequired("start")
	_ = analyzeCmd.MarkFlagRequired("end")

	rootCmd.AddCommand(analyzeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	// Local development convenience; missing .env is fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	start, err := time.Parse(dateLayout, flagStart)
	if err != nil {
		return fmt.Errorf("invalid --start date: %w", err)
	}
	end, err := time.Parse(dateLayout, flagEnd)
	if err != nil {
		return fmt.Errorf("invalid --end date: %w", err)
	}

	detector, err := patterns.NewDetector(patterns.Config{
		MoveWindow:        cfg.Analysis.MoveWindow,
		MoveThreshold:     cfg.Analysis.MoveThreshold,
		BreakoutWindow:    cfg.Analysis.BreakoutWindow,
		BreakoutThreshold: cfg.Analysis.BreakoutThreshold,
		ReversalRunLength: cfg.Analysis.ReversalRunLength,
		ReversalThreshold: cfg.Analysis.ReversalThreshold,
	})
	if err != nil {
		return err
	}

	orchestrator := pipeline.New(
		news.NewMarketAuxSource(&cfg.News),
		market.NewYahooSource(),
		extraction.NewExtractor(ai.NewOpenAIAnalyzer(&cfg.AI), &cfg.AI),
		detector,
		correlation.NewEngine(cfg.Analysis.CorrelationWindowDays, cfg.Analysis.ConfidenceFloor),
		report.NewGenerator(),
		pipeline.Options{
			ExtractionWorkers: cfg.Analysis.ExtractionWorkers,
			RunTimeout:        cfg.Analysis.RunTimeout,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state, runErr := orchestrator.Run(ctx, flagTicker, start, end)

	if flagSnapshot != "" && state != nil {
		if err := pipeline.WriteSnapshot(flagSnapshot, state); err != nil {
			logger.Warn("failed to write snapshot", zap.Error(err))
		}
	}

	if runErr != nil {
		if state != nil && state.Stage == pipeline.StageFailed {
			return fmt.Errorf("run failed at %s: %s", state.FailedStage, state.FailureReason)
		}
		return runErr
	}

	markdown, err := report.RenderMarkdown(state.Report)
	if err != nil {
		return err
	}

	if flagOutput != "" {
		if err := os.WriteFile(flagOutput, []byte(markdown), 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logger.Info("report written", zap.String("path", flagOutput))
	} else {
		fmt.Println(markdown)
	}

	if flagTelegram {
		notifier, err := telegram.NewNotifier(&cfg.Telegram)
		if err != nil {
			return err
		}
		if err := notifier.SendReport(markdown); err != nil {
			return err
		}
		logger.Info("📱 report delivered to telegram")
	}

	return nil
}

// Package main provides the uploader command-line tool for loading user CSV files into the table store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"usersync/internal/config"
	"usersync/internal/logger"
	"usersync/internal/passwords"
	"usersync/internal/pipeline"
	"usersync/internal/uploader"
)

func main() {
	// Command line flags
	inputFile := flag.String("input", "", "Path to users CSV file (required)")
	configFile := flag.String("config", "", "Path to YAML config file (optional)")
	envFile := flag.String("env-file", ".env", "Dotenv file with store credentials, loaded when present")
	dryRun := flag.Bool("dry-run", false, "Normalize and print the batch without uploading")
	logLevel := flag.String("log-level", "", "Override logging level: debug, info, warn, error")

	flag.Parse()

	// Validate required flags
	if *inputFile == "" {
		fmt.Println("Error: --input flag is required")
		fmt.Println("Usage: uploader --input <path> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := config.LoadEnvFile(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *logLevel != "" {
		if err := cfg.OverrideLogLevel(*logLevel); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// Initialize logger
	log := logger.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format).With("run_id", uuid.NewString())
	log.Info("Starting uploader", "input", *inputFile, "store", cfg.Store.URL, "dry_run", *dryRun)
	log.Debug("Configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := pipeline.Options{
		InputPath: *inputFile,
		Uploader:  uploader.NewUploader(cfg.Store.URL, cfg.Store.APIKey, cfg.Store.Schema, log),
		Logger:    log,
		Preview:   os.Stdout,
		DryRun:    *dryRun,
	}

	if cfg.Upload.HashPasswords {
		log.Info("Password hashing enabled", "bcrypt_cost", cfg.Upload.BcryptCost)
		opts.Hasher = passwords.NewBcryptHasher(cfg.Upload.BcryptCost)
	}

	report, err := pipeline.Run(ctx, opts)
	if err != nil {
		log.Error("Run failed", "error", err)
		stop()
		os.Exit(1)
	}

	if len(report.MissingColumns) > 0 {
		log.Debug("Columns absent from input", "columns", report.MissingColumns)
	}

	printSummary(report)
}

func printSummary(report *pipeline.Report) {
	switch {
	case report.Upload == nil:
		fmt.Printf("\nDry run: %d rows normalized, nothing uploaded\n", report.Rows)
	case report.Upload.Skipped:
		fmt.Println("\nNo valid data to upload.")
	case report.Upload.Outcome == uploader.OutcomeSuccess:
		fmt.Printf("\n✓ Uploaded %d records to %s\n", report.Upload.Records, uploader.TableName)
	case report.Upload.Outcome == uploader.OutcomeFailure:
		fmt.Printf("\n✗ Failed to upload data. Error: %s\n", report.Upload.Message)
	default:
		fmt.Println("\n? Unknown response format. Check the response structure.")
	}
}

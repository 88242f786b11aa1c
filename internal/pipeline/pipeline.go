// Package pipeline wires CSV decoding, normalization and upload into one run.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"usersync/internal/csvsource"
	"usersync/internal/formatter"
	"usersync/internal/logger"
	"usersync/internal/models"
	"usersync/internal/normalizer"
	"usersync/internal/uploader"
)

// Uploader is the upload step of a run.
type Uploader interface {
	Upload(ctx context.Context, batch models.Batch) (*uploader.Result, error)
}

// Options configures a single run.
type Options struct {
	Uploader  Uploader
	Hasher    normalizer.PasswordHasher
	Logger    *logger.Logger
	Preview   io.Writer
	InputPath string
	DryRun    bool
}

// Report summarizes a completed run.
type Report struct {
	Upload         *uploader.Result
	MissingColumns []string
	Rows           int
}

// Run reads the input file, normalizes every row and uploads the batch once.
// In dry-run mode the batch is written to Preview instead of uploaded.
func Run(ctx context.Context, opts Options) (*Report, error) {
	log := opts.Logger

	table, err := csvsource.ReadFile(opts.InputPath)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Rows:           len(table.Rows),
		MissingColumns: normalizer.MissingColumns(table.Header),
	}

	log.Info("Loaded CSV", "path", opts.InputPath, "rows", report.Rows)

	if missing := normalizer.MissingRequiredColumns(table.Header); len(missing) > 0 && len(table.Header) > 0 {
		log.Warn("CSV header lacks required columns, values will be empty", "columns", missing)
	}

	processor := normalizer.NewProcessor()
	if opts.Hasher != nil {
		processor.WithHasher(opts.Hasher)
	}

	batch, err := processor.Process(table.Rows)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare batch: %w", err)
	}

	if opts.DryRun {
		log.Info("Dry run, skipping upload", "records", len(batch))

		if opts.Preview != nil {
			if _, err := io.WriteString(opts.Preview, formatter.FormatBatch(batch)); err != nil {
				return nil, fmt.Errorf("failed to write preview: %w", err)
			}
		}

		return report, nil
	}

	result, err := opts.Uploader.Upload(ctx, batch)
	if err != nil {
		return nil, err
	}

	report.Upload = result

	return report, nil
}

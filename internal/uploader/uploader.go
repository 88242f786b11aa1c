// Package uploader submits normalized batches to the user_details table.
package uploader

import (
	"context"
	"fmt"

	"usersync/internal/logger"
	"usersync/internal/models"
	"usersync/internal/tablestore"
	"usersync/pkg/utils"
)

// TableName is the table every batch is inserted into.
const TableName = "user_details"

const maxLoggedBody = 500

// Uploader sends batches to the table store.
type Uploader struct {
	table   *tablestore.Table
	logger  *logger.Logger
	strings *utils.StringHelper
}

// NewUploader creates a new uploader bound to the user_details table.
func NewUploader(baseURL, apiKey, schema string, log *logger.Logger) *Uploader {
	client := tablestore.NewHTTPClient(baseURL, apiKey, log)
	client.SetSchema(schema)

	return NewUploaderWithClient(client, log)
}

// NewUploaderWithClient creates a new uploader with a custom client (useful for testing).
func NewUploaderWithClient(client tablestore.Client, log *logger.Logger) *Uploader {
	return &Uploader{
		table:   tablestore.NewTable(client, TableName),
		logger:  log,
		strings: utils.NewStringHelper(),
	}
}

// Result describes what an upload attempt observed.
type Result struct {
	Message    string
	Outcome    Outcome
	Records    int
	StatusCode int
	Skipped    bool
}

// Upload inserts the whole batch with one request. An empty batch is skipped
// without contacting the store. The returned error is non-nil only for
// transport failures; a rejected or unrecognized reply is reported through
// Result. Nothing is retried.
func (u *Uploader) Upload(ctx context.Context, batch models.Batch) (*Result, error) {
	if len(batch) == 0 {
		u.logger.Info("No data to upload")
		return &Result{Skipped: true}, nil
	}

	u.logger.Info("Uploading batch", "table", u.table.Name(), "records", len(batch))

	resp, err := u.table.Insert(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("insert into %s failed: %w", u.table.Name(), err)
	}

	envelope := resp.Envelope()
	u.logger.Debug("Response from table store",
		"status", resp.StatusCode,
		"body", u.strings.TruncateString(string(envelope), maxLoggedBody))

	class := Classify(envelope)
	result := &Result{
		Message:    class.Message,
		Outcome:    class.Outcome,
		Records:    len(batch),
		StatusCode: resp.StatusCode,
	}

	switch class.Outcome {
	case OutcomeSuccess:
		u.logger.Info("Data uploaded successfully", "records", len(batch))
	case OutcomeFailure:
		u.logger.Error("Failed to upload data", "error", class.Message, "status", resp.StatusCode)
	default:
		u.logger.Warn("Unknown response format, check the response structure", "status", resp.StatusCode)
	}

	return result, nil
}

// Package normalizer maps decoded CSV rows onto the fixed user_details schema.
package normalizer

import (
	"usersync/internal/models"
	"usersync/pkg/utils"
)

// Transformer converts raw rows into clean records.
type Transformer struct {
	strings *utils.StringHelper
}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	return &Transformer{
		strings: utils.NewStringHelper(),
	}
}

// Transform reads each fixed column by exact name, defaults absent values to
// the empty string and trims surrounding whitespace. Columns outside the
// schema are dropped. It never fails.
func (t *Transformer) Transform(raw models.RawRecord) models.CleanRecord {
	var clean models.CleanRecord

	for _, field := range models.RequiredFields {
		clean.Set(field, t.strings.TrimWhitespace(raw[field]))
	}

	for _, field := range models.OptionalFields {
		clean.Set(field, t.strings.TrimWhitespace(raw[field]))
	}

	return clean
}

var defaultTransformer = NewTransformer()

// Normalize is a shorthand for Transform on a shared transformer.
func Normalize(raw models.RawRecord) models.CleanRecord {
	return defaultTransformer.Transform(raw)
}

package normalizer

import (
	"errors"
	"fmt"

	"usersync/internal/models"
)

// ErrHashFailed is returned when a row's password cannot be hashed.
var ErrHashFailed = errors.New("password hashing failed")

// PasswordHasher replaces a plaintext password with a stored form.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// Processor normalizes every row of a file into a batch.
type Processor struct {
	transformer *Transformer
	hasher      PasswordHasher
}

// NewProcessor creates a new processor instance.
func NewProcessor() *Processor {
	return &Processor{
		transformer: NewTransformer(),
	}
}

// WithHasher enables password hashing after normalization.
func (p *Processor) WithHasher(h PasswordHasher) *Processor {
	p.hasher = h
	return p
}

// Process normalizes rows in input order. Without a hasher it cannot fail.
func (p *Processor) Process(rows []models.RawRecord) (models.Batch, error) {
	batch := make(models.Batch, 0, len(rows))

	for i, raw := range rows {
		clean := p.transformer.Transform(raw)

		if p.hasher != nil && clean.Password != "" {
			hashed, err := p.hasher.Hash(clean.Password)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %w", ErrHashFailed, i+1, err)
			}

			clean.Password = hashed
		}

		batch = append(batch, clean)
	}

	return batch, nil
}

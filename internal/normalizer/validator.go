package normalizer

import (
	"usersync/internal/models"
)

// MissingColumns returns the schema columns absent from a CSV header, in
// schema order. Rows from such a file still normalize; the affected fields
// come out empty.
func MissingColumns(header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}

	var missing []string

	for _, field := range models.Fields() {
		if _, ok := present[field]; !ok {
			missing = append(missing, field)
		}
	}

	return missing
}

// MissingRequiredColumns is MissingColumns restricted to the required set.
func MissingRequiredColumns(header []string) []string {
	var required []string

	for _, col := range MissingColumns(header) {
		for _, f := range models.RequiredFields {
			if col == f {
				required = append(required, col)
				break
			}
		}
	}

	return required
}

package units

import (
	"strings"

	"github.com/stockpos/stockpos/internal/shared"
)

const maxNameLength = 100

// normalizeName lowercases and trims a unit name, enforcing the same rules
// the persistence layer relies on for the unique index.
func normalizeName(name string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return "", shared.NewValidationError("name", "this field is required")
	}
	if len(normalized) > maxNameLength {
		return "", shared.NewValidationError("name", "must be at most 100 characters")
	}
	return normalized, nil
}

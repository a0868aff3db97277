package categories

import (
	"strings"

	"github.com/stockpos/stockpos/internal/shared"
)

const maxNameLength = 150

func normalizeName(name string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return "", shared.NewValidationError("name", "this field is required")
	}
	if len(normalized) > maxNameLength {
		return "", shared.NewValidationError("name", "must be at most 150 characters")
	}
	return normalized, nil
}

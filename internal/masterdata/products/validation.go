package products

import (
	"strings"

	"github.com/stockpos/stockpos/internal/shared"
)

const maxNameLength = 200

func validateInput(input MutateProductInput) (MutateProductInput, error) {
	input.Name = strings.ToLower(strings.TrimSpace(input.Name))
	if input.Name == "" {
		return input, shared.NewValidationError("name", "this field is required")
	}
	if len(input.Name) > maxNameLength {
		return input, shared.NewValidationError("name", "must be at most 200 characters")
	}
	if len(input.UnitIDs) == 0 {
		return input, shared.NewValidationError("units", "this field is required")
	}
	seen := make(map[int64]struct{}, len(input.UnitIDs))
	for _, id := range input.UnitIDs {
		if id <= 0 {
			return input, shared.NewValidationError("units", "unit does not exist")
		}
		if _, dup := seen[id]; dup {
			return input, shared.NewValidationError("units", "duplicate unit in list")
		}
		seen[id] = struct{}{}
	}
	if input.CategoryID != nil && *input.CategoryID <= 0 {
		return input, shared.NewValidationError("category", "category does not exist")
	}
	return input, nil
}

package categories

import (
	"context"

	"github.com/stockpos/stockpos/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Category, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Category, error) {
	if id <= 0 {
		return Category{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, name string) (Category, error) {
	normalized, err := normalizeName(name)
	if err != nil {
		return Category{}, err
	}
	return s.repo.Create(ctx, Category{Name: normalized})
}

func (s *Service) Update(ctx context.Context, id int64, name string) (Category, error) {
	if id <= 0 {
		return Category{}, shared.ErrInvalidID
	}
	normalized, err := normalizeName(name)
	if err != nil {
		return Category{}, err
	}
	return s.repo.Update(ctx, id, normalized)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.SoftDelete(ctx, id)
}

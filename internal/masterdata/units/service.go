package units

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Unit, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Unit, error) {
	if id <= 0 {
		return Unit{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, name string) (Unit, error) {
	normalized, err := normalizeName(name)
	if err != nil {
		return Unit{}, err
	}
	return s.repo.Create(ctx, Unit{Name: normalized})
}

func (s *Service) Update(ctx context.Context, id int64, name string) (Unit, error) {
	if id <= 0 {
		return Unit{}, shared.ErrInvalidID
	}
	normalized, err := normalizeName(name)
	if err != nil {
		return Unit{}, err
	}
	return s.repo.Update(ctx, id, normalized)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.SoftDelete(ctx, id)
}

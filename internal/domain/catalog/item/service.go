package item

import (
	"context"
	"fmt"
	"strings"

	"larder/internal/core/apperror"
	"larder/internal/core/entity"
	"larder/internal/core/id"
	"larder/internal/core/tx"
	"larder/pkg/logger"
)

// Service provides business logic for the item catalog.
type Service struct {
	repo Repository
	txm  tx.Manager
}

// NewService creates a new item service.
func NewService(repo Repository, txm tx.Manager) *Service {
	return &Service{repo: repo, txm: txm}
}

// CreateInput holds fields for a new item.
type CreateInput struct {
	Name     string
	Unit     string
	Category string
}

// Create adds a new active item after checking name uniqueness.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Item, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Name == "" {
		return nil, apperror.NewValidation("name is required")
	}
	if in.Unit == "" {
		return nil, apperror.NewValidation("unit is required")
	}
	if in.Category == "" {
		return nil, apperror.NewValidation("category is required")
	}

	it := entity.NewItem(in.Name, in.Unit, in.Category)

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if existing, err := s.repo.FindByName(ctx, in.Name, in.Category); err == nil && existing != nil {
			return apperror.NewDuplicate("item", "name", in.Name)
		} else if err != nil && !apperror.IsNotFound(err) {
			return fmt.Errorf("check name: %w", err)
		}
		return s.repo.Create(ctx, &it)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "item created", "item_id", it.ID, "name", it.Name)
	return &it, nil
}

// UpdateInput holds editable catalog fields. Nil fields are left unchanged.
type UpdateInput struct {
	Name     *string
	Unit     *string
	Category *string
}

// Update modifies catalog fields of an existing item.
func (s *Service) Update(ctx context.Context, itemID id.ID, in UpdateInput) (*entity.Item, error) {
	var updated *entity.Item

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		it, err := s.repo.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}

		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return apperror.NewValidation("name cannot be empty")
			}
			it.Name = name
		}
		if in.Unit != nil {
			if *in.Unit == "" {
				return apperror.NewValidation("unit cannot be empty")
			}
			it.Unit = *in.Unit
		}
		if in.Category != nil {
			category := strings.TrimSpace(*in.Category)
			if category == "" {
				return apperror.NewValidation("category cannot be empty")
			}
			it.Category = category
		}

		if existing, err := s.repo.FindByName(ctx, it.Name, it.Category); err == nil && existing != nil && existing.ID != it.ID {
			return apperror.NewDuplicate("item", "name", it.Name)
		} else if err != nil && !apperror.IsNotFound(err) {
			return fmt.Errorf("check name: %w", err)
		}

		it.Touch()
		if err := s.repo.Update(ctx, it); err != nil {
			return err
		}
		updated = it
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Get retrieves a single item.
func (s *Service) Get(ctx context.Context, itemID id.ID) (*entity.Item, error) {
	return s.repo.GetByID(ctx, itemID)
}

// List returns items matching the filter plus the unpaged total.
func (s *Service) List(ctx context.Context, filter Filter) ([]entity.Item, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

// Categories returns the distinct categories of active items.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// Deactivate soft-removes an item from daily sheets.
// Movement history is kept.
func (s *Service) Deactivate(ctx context.Context, itemID id.ID) error {
	return s.setActive(ctx, itemID, false)
}

// Reactivate returns a deactivated item to daily sheets.
func (s *Service) Reactivate(ctx context.Context, itemID id.ID) error {
	return s.setActive(ctx, itemID, true)
}

func (s *Service) setActive(ctx context.Context, itemID id.ID, active bool) error {
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		it, err := s.repo.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if it.Active == active {
			return nil
		}
		it.Active = active
		it.Touch()
		return s.repo.Update(ctx, it)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "item active flag changed", "item_id", itemID, "active", active)
	return nil
}

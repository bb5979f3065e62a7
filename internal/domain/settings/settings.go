// Package settings provides the key-value configuration store that
// backs operator-tunable values such as the low-stock thresholds.
package settings

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"larder/internal/core/apperror"
	"larder/internal/domain/balance"
	"larder/pkg/logger"
)

// Known setting keys.
const (
	KeyLowStockPercent  = "lowStockThresholdPercent"
	KeyLowStockAbsolute = "lowStockThresholdAbsolute"
)

// Setting is one stored key-value pair.
type Setting struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Repository defines the interface for settings persistence.
type Repository interface {
	// Get retrieves one setting or NotFound.
	Get(ctx context.Context, key string) (*Setting, error)

	// Upsert inserts or overwrites a setting.
	Upsert(ctx context.Context, s *Setting) error

	// List returns all stored settings.
	List(ctx context.Context) ([]Setting, error)
}

// Service provides validated access to settings.
type Service struct {
	repo Repository
}

// NewService creates a settings service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all stored settings.
func (s *Service) List(ctx context.Context) ([]Setting, error) {
	return s.repo.List(ctx)
}

// Get retrieves one setting.
func (s *Service) Get(ctx context.Context, key string) (*Setting, error) {
	return s.repo.Get(ctx, key)
}

// Set validates and stores a setting value.
// Unknown keys are rejected so typos do not create dead entries.
func (s *Service) Set(ctx context.Context, key, value string) (*Setting, error) {
	switch key {
	case KeyLowStockPercent:
		d, err := decimal.NewFromString(value)
		if err != nil || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
			return nil, apperror.NewValidation("value must be a fraction between 0 and 1").
				WithDetail("key", key)
		}
	case KeyLowStockAbsolute:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			return nil, apperror.NewValidation("value must be a non-negative integer").
				WithDetail("key", key)
		}
	default:
		return nil, apperror.NewValidation("unknown setting key").
			WithDetail("key", key)
	}

	setting := &Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, err
	}

	logger.Info(ctx, "setting updated", "key", key, "value", value)
	return setting, nil
}

// Thresholds assembles the low-stock thresholds from stored settings,
// falling back to defaults for missing or unparsable values.
// Never fails: classification must not break because a setting row
// went missing.
func (s *Service) Thresholds(ctx context.Context) balance.Thresholds {
	th := balance.DefaultThresholds()

	if stored, err := s.repo.Get(ctx, KeyLowStockPercent); err == nil {
		if d, err := decimal.NewFromString(stored.Value); err == nil {
			th.Percent = d
		}
	}
	if stored, err := s.repo.Get(ctx, KeyLowStockAbsolute); err == nil {
		if n, err := strconv.ParseInt(stored.Value, 10, 64); err == nil {
			th.Absolute = n
		}
	}

	return th
}

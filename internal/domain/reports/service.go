package reports

import (
	"context"
	"fmt"
	"strings"

	"larder/internal/core/apperror"
	"larder/internal/core/clock"
	"larder/internal/core/entity"
	"larder/internal/core/tx"
	"larder/internal/core/types"
	"larder/internal/domain/balance"
	"larder/internal/domain/catalog/item"
	"larder/internal/domain/ledger"
	"larder/internal/domain/settings"
	"larder/pkg/logger"
)

// Service assembles report read models.
type Service struct {
	items     item.Repository
	movements ledger.MovementRepository
	repo      Repository
	roll      *ledger.RollForward
	settings  *settings.Service
	txm       tx.Manager
	clk       clock.Clock
	cache     DayViewCache
}

// NewService creates a reports service.
func NewService(
	items item.Repository,
	movements ledger.MovementRepository,
	repo Repository,
	roll *ledger.RollForward,
	settingsSvc *settings.Service,
	txm tx.Manager,
	clk clock.Clock,
	cache DayViewCache,
) *Service {
	if cache == nil {
		cache = noopDayViewCache{}
	}
	return &Service{
		items:     items,
		movements: movements,
		repo:      repo,
		roll:      roll,
		settings:  settingsSvc,
		txm:       txm,
		clk:       clk,
		cache:     cache,
	}
}

// DayView builds the daily inventory sheet for a date.
// Missing beginnings are rolled forward on the fly, so opening the
// sheet for today is what materializes the new day.
//
// Only unfiltered views are cached; category and search filters are
// rare enough to recompute.
func (s *Service) DayView(ctx context.Context, day types.Date, category, search string) (*DayView, error) {
	today := s.clk.Today()
	if day.IsZero() {
		day = today
	}
	if day.After(today) {
		return nil, apperror.NewValidation("cannot view a future date").
			WithDetail("date", day.String())
	}

	unfiltered := category == "" && search == ""
	if unfiltered {
		if cached, err := s.cache.GetDayView(ctx, day); err != nil {
			logger.Warn(ctx, "day view cache read failed", "date", day, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	thresholds := s.settings.Thresholds(ctx)

	var view *DayView
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		items, err := s.items.ListActive(ctx, category)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}

		built, err := s.buildDayView(ctx, day, items, search, thresholds)
		if err != nil {
			return err
		}
		view = built
		return nil
	})
	if err != nil {
		return nil, err
	}

	if unfiltered {
		if err := s.cache.SetDayView(ctx, view); err != nil {
			logger.Warn(ctx, "day view cache write failed", "date", day, "error", err)
		}
	}

	return view, nil
}

func (s *Service) buildDayView(ctx context.Context, day types.Date, items []entity.Item, search string, thresholds balance.Thresholds) (*DayView, error) {
	view := &DayView{Date: day}
	search = strings.ToLower(strings.TrimSpace(search))

	groupIdx := make(map[string]int)
	for i := range items {
		it := &items[i]
		if search != "" && !strings.Contains(strings.ToLower(it.Name), search) {
			continue
		}

		if err := s.roll.EnsureBeginning(ctx, it, day); err != nil {
			return nil, err
		}

		movs, err := s.movements.ListForDay(ctx, it.ID, day)
		if err != nil {
			return nil, fmt.Errorf("load day for %s: %w", it.ID, err)
		}

		bal := balance.Compute(movs)
		hasData := len(movs) > 0
		low, reason := balance.Classify(bal, hasData, thresholds)

		row := DayViewRow{
			ItemID:         it.ID,
			Name:           it.Name,
			Unit:           it.Unit,
			Balance:        bal,
			HasData:        hasData,
			LowStock:       low,
			LowStockReason: reason,
		}

		gi, ok := groupIdx[it.Category]
		if !ok {
			view.Groups = append(view.Groups, CategoryGroup{Category: it.Category})
			gi = len(view.Groups) - 1
			groupIdx[it.Category] = gi
		}
		view.Groups[gi].Items = append(view.Groups[gi].Items, row)

		view.Summary.Products++
		view.Summary.Beginning += bal.Beginning
		view.Summary.In += bal.In
		view.Summary.Out += bal.Out
		view.Summary.Spoilage += bal.Spoilage
		view.Summary.Remaining += bal.Remaining
		if low {
			view.Summary.LowStockCount++
		}
	}

	return view, nil
}

// Dashboard builds the landing-page read model for a date.
func (s *Service) Dashboard(ctx context.Context, day types.Date) (*Dashboard, error) {
	if day.IsZero() {
		day = s.clk.Today()
	}

	view, err := s.DayView(ctx, day, "", "")
	if err != nil {
		return nil, err
	}

	totals, err := s.repo.DayTotals(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("day totals: %w", err)
	}

	dash := &Dashboard{Date: day, Totals: totals}
	for _, group := range view.Groups {
		for _, row := range group.Items {
			if !row.LowStock {
				continue
			}
			dash.LowStock = append(dash.LowStock, LowStockItem{
				ItemID:         row.ItemID,
				Name:           row.Name,
				Unit:           row.Unit,
				Category:       group.Category,
				Remaining:      row.Balance.Remaining,
				TotalInventory: row.Balance.TotalInventory,
				Reason:         row.LowStockReason,
			})
		}
	}
	dash.LowStockCount = len(dash.LowStock)

	return dash, nil
}

// TopOutgoing ranks items by outgoing quantity over a trailing window.
func (s *Service) TopOutgoing(ctx context.Context, days, limit int) ([]TopOutgoingRow, error) {
	if days <= 0 {
		days = 7
	}
	if days > 365 {
		return nil, apperror.NewValidation("window cannot exceed 365 days")
	}
	if limit <= 0 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}

	to := s.clk.Today()
	from := to.AddDays(-(days - 1))
	return s.repo.TopOutgoing(ctx, from, to, limit)
}

// Summary returns per-date movement aggregates over [from, to].
func (s *Service) Summary(ctx context.Context, from, to types.Date) ([]DailyTotalsRow, error) {
	if from.IsZero() || to.IsZero() {
		return nil, apperror.NewValidation("from and to dates are required")
	}
	if from.After(to) {
		return nil, apperror.NewValidation("from date is after to date")
	}
	if from.DaysUntil(to) > 366 {
		return nil, apperror.NewValidation("range cannot exceed one year")
	}
	return s.repo.DailyTotals(ctx, from, to)
}

type noopDayViewCache struct{}

func (noopDayViewCache) GetDayView(context.Context, types.Date) (*DayView, error) { return nil, nil }
func (noopDayViewCache) SetDayView(context.Context, *DayView) error               { return nil }

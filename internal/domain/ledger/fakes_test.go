package ledger

import (
	"context"
	"sort"
	"strings"

	"larder/internal/core/apperror"
	"larder/internal/core/entity"
	"larder/internal/core/id"
	"larder/internal/core/types"
	"larder/internal/domain/catalog/item"
)

// In-memory fakes. No locking: tests are single-goroutine.

type fakeMovements struct {
	movements []entity.Movement
}

func (f *fakeMovements) Insert(_ context.Context, m *entity.Movement) error {
	f.movements = append(f.movements, *m)
	return nil
}

func (f *fakeMovements) InsertBatch(ctx context.Context, movements []entity.Movement) error {
	for i := range movements {
		if err := f.Insert(ctx, &movements[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeMovements) ListForDay(_ context.Context, itemID id.ID, day types.Date) ([]entity.Movement, error) {
	var out []entity.Movement
	for _, m := range f.movements {
		if m.ItemID == itemID && m.OccurredOn.Equal(day) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (f *fakeMovements) DeleteDay(_ context.Context, itemID id.ID, day types.Date) (int64, error) {
	var kept []entity.Movement
	var deleted int64
	for _, m := range f.movements {
		if m.ItemID == itemID && m.OccurredOn.Equal(day) {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	f.movements = kept
	return deleted, nil
}

func (f *fakeMovements) HasBeginning(_ context.Context, itemID id.ID, day types.Date) (bool, error) {
	for _, m := range f.movements {
		if m.ItemID == itemID && m.OccurredOn.Equal(day) && m.Kind == entity.KindBeginning {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMovements) LastBeginningDateBefore(_ context.Context, itemID id.ID, day types.Date) (types.Date, bool, error) {
	var best types.Date
	var found bool
	for _, m := range f.movements {
		if m.ItemID != itemID || m.Kind != entity.KindBeginning || !m.OccurredOn.Before(day) {
			continue
		}
		if !found || m.OccurredOn.After(best) {
			best = m.OccurredOn
			found = true
		}
	}
	return best, found, nil
}

func (f *fakeMovements) FirstMovementDate(_ context.Context, itemID id.ID) (types.Date, bool, error) {
	var first types.Date
	var found bool
	for _, m := range f.movements {
		if m.ItemID != itemID {
			continue
		}
		if !found || m.OccurredOn.Before(first) {
			first = m.OccurredOn
			found = true
		}
	}
	return first, found, nil
}

func (f *fakeMovements) List(_ context.Context, filter MovementFilter) ([]entity.Movement, int64, error) {
	var matched []entity.Movement
	for _, m := range f.movements {
		if filter.ItemID != nil && m.ItemID != *filter.ItemID {
			continue
		}
		if filter.Kind != nil && m.Kind != *filter.Kind {
			continue
		}
		if filter.From != nil && m.OccurredOn.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.OccurredOn.After(*filter.To) {
			continue
		}
		matched = append(matched, m)
	}

	total := int64(len(matched))
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, total, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

// countForDay is a test helper, not part of the repository interface.
func (f *fakeMovements) countForDay(itemID id.ID, day types.Date) int {
	n := 0
	for _, m := range f.movements {
		if m.ItemID == itemID && m.OccurredOn.Equal(day) {
			n++
		}
	}
	return n
}

type fakeItems struct {
	byID map[id.ID]*entity.Item
}

func newFakeItems(items ...entity.Item) *fakeItems {
	f := &fakeItems{byID: make(map[id.ID]*entity.Item)}
	for i := range items {
		it := items[i]
		f.byID[it.ID] = &it
	}
	return f
}

func (f *fakeItems) Create(_ context.Context, it *entity.Item) error {
	cp := *it
	f.byID[it.ID] = &cp
	return nil
}

func (f *fakeItems) Update(_ context.Context, it *entity.Item) error {
	if _, ok := f.byID[it.ID]; !ok {
		return apperror.NewNotFound("item", it.ID)
	}
	cp := *it
	f.byID[it.ID] = &cp
	return nil
}

func (f *fakeItems) GetByID(_ context.Context, itemID id.ID) (*entity.Item, error) {
	it, ok := f.byID[itemID]
	if !ok {
		return nil, apperror.NewNotFound("item", itemID)
	}
	cp := *it
	return &cp, nil
}

func (f *fakeItems) GetForUpdate(ctx context.Context, itemID id.ID) (*entity.Item, error) {
	return f.GetByID(ctx, itemID)
}

func (f *fakeItems) List(_ context.Context, filter item.Filter) ([]entity.Item, int64, error) {
	var out []entity.Item
	for _, it := range f.byID {
		if !filter.IncludeInactive && !it.Active {
			continue
		}
		out = append(out, *it)
	}
	return out, int64(len(out)), nil
}

func (f *fakeItems) ListActive(_ context.Context, category string) ([]entity.Item, error) {
	var out []entity.Item
	for _, it := range f.byID {
		if !it.Active {
			continue
		}
		if category != "" && it.Category != category {
			continue
		}
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeItems) FindByName(_ context.Context, name, category string) (*entity.Item, error) {
	for _, it := range f.byID {
		if strings.EqualFold(it.Name, name) && it.Category == category {
			cp := *it
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("item", name)
}

func (f *fakeItems) UpdateSnapshot(_ context.Context, itemID id.ID, snap entity.Snapshot, day types.Date) error {
	it, ok := f.byID[itemID]
	if !ok {
		return apperror.NewNotFound("item", itemID)
	}
	it.Snapshot = snap
	it.SnapshotDate = day
	return nil
}

func (f *fakeItems) Categories(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, it := range f.byID {
		if it.Active && !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

// fakeTx runs the function directly. Transactional behavior is covered
// by the postgres TxManager, not here.
type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// spyCache records invalidated dates.
type spyCache struct {
	invalidated []types.Date
}

func (s *spyCache) InvalidateDay(_ context.Context, day types.Date) error {
	s.invalidated = append(s.invalidated, day)
	return nil
}

var (
	_ MovementRepository = (*fakeMovements)(nil)
	_ item.Repository    = (*fakeItems)(nil)
)

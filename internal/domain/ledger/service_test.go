package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larder/internal/core/apperror"
	"larder/internal/core/clock"
	"larder/internal/core/entity"
	"larder/internal/core/id"
	"larder/internal/core/types"
)

var testNow = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

type serviceFixture struct {
	svc   *Service
	items *fakeItems
	movs  *fakeMovements
	cache *spyCache
	it    entity.Item
	today types.Date
	actor id.ID
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()

	it := testItem(0)
	items := newFakeItems(it)
	movs := &fakeMovements{}
	cache := &spyCache{}

	svc := NewService(items, movs, fakeTx{}, clock.Fixed(testNow), cache, DefaultConfig())

	return &serviceFixture{
		svc:   svc,
		items: items,
		movs:  movs,
		cache: cache,
		it:    it,
		today: types.DateOf(testNow),
		actor: id.New(),
	}
}

func (f *serviceFixture) record(t *testing.T, kind entity.MovementKind, qty int64, day types.Date) *entity.Movement {
	t.Helper()
	m, err := f.svc.RecordMovement(context.Background(), RecordInput{
		ItemID:     f.it.ID,
		ActorID:    f.actor,
		Kind:       kind,
		Quantity:   qty,
		OccurredOn: day,
	})
	require.NoError(t, err)
	return m
}

func (f *serviceFixture) snapshot(t *testing.T) entity.Snapshot {
	t.Helper()
	it, err := f.items.GetByID(context.Background(), f.it.ID)
	require.NoError(t, err)
	return it.Snapshot
}

func TestRecordMovement_FirstInOfTheDay(t *testing.T) {
	f := newFixture(t)

	m := f.record(t, entity.KindIn, 30, f.today)
	assert.Equal(t, f.it.ID, m.ItemID)
	assert.False(t, m.AutoGenerated)

	// The day was opened on the fly: a zero beginning plus the receipt.
	assert.Equal(t, 2, f.movs.countForDay(f.it.ID, f.today))
	assert.Equal(t, int64(0), beginningQty(t, f.movs, f.it.ID, f.today))

	snap := f.snapshot(t)
	assert.Equal(t, int64(30), snap.In)
	assert.Equal(t, int64(30), snap.Remaining)

	assert.Equal(t, []types.Date{f.today}, f.cache.invalidated)
}

func TestRecordMovement_DefaultsToToday(t *testing.T) {
	f := newFixture(t)

	m, err := f.svc.RecordMovement(context.Background(), RecordInput{
		ItemID:   f.it.ID,
		ActorID:  f.actor,
		Kind:     entity.KindIn,
		Quantity: 5,
	})
	require.NoError(t, err)
	assert.True(t, m.OccurredOn.Equal(f.today))
}

func TestRecordMovement_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	f.record(t, entity.KindBeginning, 10, f.today)

	before := f.snapshot(t)
	_, err := f.svc.RecordMovement(context.Background(), RecordInput{
		ItemID:     f.it.ID,
		ActorID:    f.actor,
		Kind:       entity.KindOut,
		Quantity:   15,
		OccurredOn: f.today,
	})

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, int64(15), appErr.Details["requested"])
	assert.Equal(t, int64(10), appErr.Details["available"])

	// Rejected movement leaves no trace. The day keeps its roll-forward
	// seed plus the recorded beginning, nothing more.
	assert.Equal(t, 2, f.movs.countForDay(f.it.ID, f.today))
	assert.Equal(t, before, f.snapshot(t))
}

func TestRecordMovement_OutAtExactStock(t *testing.T) {
	f := newFixture(t)
	f.record(t, entity.KindBeginning, 10, f.today)
	f.record(t, entity.KindOut, 10, f.today)

	assert.Equal(t, int64(0), f.snapshot(t).Remaining)
}

func TestRecordMovement_SpoilageChecksStock(t *testing.T) {
	f := newFixture(t)
	f.record(t, entity.KindBeginning, 3, f.today)

	_, err := f.svc.RecordMovement(context.Background(), RecordInput{
		ItemID:     f.it.ID,
		ActorID:    f.actor,
		Kind:       entity.KindSpoilage,
		Quantity:   4,
		OccurredOn: f.today,
	})
	assert.True(t, apperror.IsInsufficientStock(err))
}

func TestRecordMovement_FutureDateRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RecordMovement(context.Background(), RecordInput{
		ItemID:     f.it.ID,
		ActorID:    f.actor,
		Kind:       entity.KindIn,
		Quantity:   5,
		OccurredOn: f.today.AddDays(1),
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestRecordMovement_BackdateWindow(t *testing.T) {
	f := newFixture(t)

	// Seven days back is the oldest allowed date.
	f.record(t, entity.KindIn, 5, f.today.AddDays(-7))

	_, err := f.svc.RecordMovement(context.Background(), RecordInput{
		ItemID:     f.it.ID,
		ActorID:    f.actor,
		Kind:       entity.KindIn,
		Quantity:   5,
		OccurredOn: f.today.AddDays(-8),
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, 7, appErr.Details["window_days"])
}

func TestRecordMovement_QuantityValidation(t *testing.T) {
	f := newFixture(t)

	// Non-beginning kinds need a positive quantity.
	for _, kind := range []entity.MovementKind{entity.KindIn, entity.KindOut, entity.KindSpoilage, entity.KindAdjustment} {
		_, err := f.svc.RecordMovement(context.Background(), RecordInput{
			ItemID: f.it.ID, ActorID: f.actor, Kind: kind, Quantity: 0, OccurredOn: f.today,
		})
		assert.True(t, apperror.IsValidation(err), "kind %s", kind)
	}

	// A zero beginning is a legitimate empty shelf.
	f.record(t, entity.KindBeginning, 0, f.today)
}

func TestRecordMovement_UnknownKind(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RecordMovement(context.Background(), RecordInput{
		ItemID: f.it.ID, ActorID: f.actor, Kind: "transfer", Quantity: 1, OccurredOn: f.today,
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestRecordMovement_InactiveItem(t *testing.T) {
	f := newFixture(t)
	inactive := testItem(0)
	inactive.Active = false
	require.NoError(t, f.items.Create(context.Background(), &inactive))

	_, err := f.svc.RecordMovement(context.Background(), RecordInput{
		ItemID: inactive.ID, ActorID: f.actor, Kind: entity.KindIn, Quantity: 1, OccurredOn: f.today,
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestRecordMovement_UnknownItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RecordMovement(context.Background(), RecordInput{
		ItemID: id.New(), ActorID: f.actor, Kind: entity.KindIn, Quantity: 1, OccurredOn: f.today,
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestRecordMovement_AdjustmentOverridesSnapshot(t *testing.T) {
	f := newFixture(t)
	f.record(t, entity.KindBeginning, 50, f.today)
	f.record(t, entity.KindOut, 10, f.today)
	f.record(t, entity.KindAdjustment, 25, f.today)

	assert.Equal(t, int64(25), f.snapshot(t).Remaining)
}

func int64p(v int64) *int64 { return &v }

func TestReplaceDayMovements(t *testing.T) {
	f := newFixture(t)
	f.record(t, entity.KindBeginning, 50, f.today)
	f.record(t, entity.KindIn, 10, f.today)
	f.record(t, entity.KindOut, 5, f.today)

	bal, err := f.svc.ReplaceDayMovements(context.Background(), f.it.ID, f.today, DayQuantities{
		Beginning: int64p(20),
		Out:       int64p(5),
	}, f.actor)
	require.NoError(t, err)

	assert.Equal(t, int64(20), bal.Beginning)
	assert.Equal(t, int64(15), bal.Remaining)

	// The old day is gone wholesale; only the rewrite remains.
	assert.Equal(t, 2, f.movs.countForDay(f.it.ID, f.today))

	snap := f.snapshot(t)
	assert.Equal(t, int64(20), snap.Beginning)
	assert.Equal(t, int64(15), snap.Remaining)
}

func TestReplaceDayMovements_ZeroBeginningKept(t *testing.T) {
	f := newFixture(t)
	f.record(t, entity.KindBeginning, 50, f.today)

	bal, err := f.svc.ReplaceDayMovements(context.Background(), f.it.ID, f.today, DayQuantities{
		Beginning: int64p(0),
		In:        int64p(0), // zero flows are dropped, zero beginning is not
	}, f.actor)
	require.NoError(t, err)

	assert.Equal(t, int64(0), bal.Remaining)
	require.Equal(t, 1, f.movs.countForDay(f.it.ID, f.today))
	assert.Equal(t, int64(0), beginningQty(t, f.movs, f.it.ID, f.today))
}

func TestReplaceDayMovements_NoBackdateWindow(t *testing.T) {
	f := newFixture(t)
	old := f.today.AddDays(-30)

	_, err := f.svc.ReplaceDayMovements(context.Background(), f.it.ID, old, DayQuantities{
		Beginning: int64p(5),
	}, f.actor)
	require.NoError(t, err)
	assert.Equal(t, 1, f.movs.countForDay(f.it.ID, old))
}

func TestReplaceDayMovements_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ReplaceDayMovements(context.Background(), f.it.ID, f.today, DayQuantities{}, f.actor)
	assert.True(t, apperror.IsValidation(err), "empty rewrite")

	_, err = f.svc.ReplaceDayMovements(context.Background(), f.it.ID, f.today.AddDays(1), DayQuantities{
		Beginning: int64p(1),
	}, f.actor)
	assert.True(t, apperror.IsValidation(err), "future date")

	_, err = f.svc.ReplaceDayMovements(context.Background(), f.it.ID, f.today, DayQuantities{
		Out: int64p(-1),
	}, f.actor)
	assert.True(t, apperror.IsValidation(err), "negative quantity")
}

func TestDayBalance(t *testing.T) {
	f := newFixture(t)
	f.record(t, entity.KindBeginning, 40, f.today)
	f.record(t, entity.KindOut, 15, f.today)

	bal, hasData, err := f.svc.DayBalance(context.Background(), f.it.ID, f.today)
	require.NoError(t, err)
	assert.True(t, hasData)
	assert.Equal(t, int64(25), bal.Remaining)

	// A day nobody touched reports no data instead of synthesizing one.
	countBefore := len(f.movs.movements)
	bal, hasData, err = f.svc.DayBalance(context.Background(), f.it.ID, f.today.AddDays(-1))
	require.NoError(t, err)
	assert.False(t, hasData)
	assert.Equal(t, int64(0), bal.Remaining)
	assert.Equal(t, countBefore, len(f.movs.movements))
}

func TestListMovements_InvalidRange(t *testing.T) {
	f := newFixture(t)
	from := f.today
	to := f.today.AddDays(-1)

	_, _, err := f.svc.ListMovements(context.Background(), MovementFilter{From: &from, To: &to})
	assert.True(t, apperror.IsValidation(err))
}

func TestReconcile_RebuildsSnapshotFromLog(t *testing.T) {
	f := newFixture(t)
	f.record(t, entity.KindBeginning, 50, f.today)
	f.record(t, entity.KindOut, 10, f.today)

	// Simulate drift: the denormalized row disagrees with the log.
	require.NoError(t, f.items.UpdateSnapshot(context.Background(), f.it.ID, entity.Snapshot{Remaining: 999}, f.today))

	bal, err := f.svc.Reconcile(context.Background(), f.it.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), bal.Remaining)
	assert.Equal(t, int64(40), f.snapshot(t).Remaining)
}

func TestReset_ClearsTheDay(t *testing.T) {
	f := newFixture(t)
	f.record(t, entity.KindBeginning, 50, f.today)
	f.record(t, entity.KindIn, 10, f.today)

	require.NoError(t, f.svc.Reset(context.Background(), f.it.ID, f.actor))

	require.Equal(t, 1, f.movs.countForDay(f.it.ID, f.today))
	listed, err := f.movs.ListForDay(context.Background(), f.it.ID, f.today)
	require.NoError(t, err)
	assert.Equal(t, entity.KindBeginning, listed[0].Kind)
	assert.Equal(t, int64(0), listed[0].Quantity)

	assert.Equal(t, entity.Snapshot{}, f.snapshot(t))
}

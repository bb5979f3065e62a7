package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larder/internal/core/apperror"
	"larder/internal/core/entity"
	"larder/internal/core/id"
	"larder/internal/core/types"
)

func testItem(beginning int64) entity.Item {
	it := entity.NewItem("Tomatoes", "kg", "Vegetables")
	it.Beginning = beginning
	return it
}

func beginningQty(t *testing.T, movs *fakeMovements, itemID id.ID, day types.Date) int64 {
	t.Helper()
	listed, err := movs.ListForDay(context.Background(), itemID, day)
	require.NoError(t, err)
	for _, m := range listed {
		if m.Kind == entity.KindBeginning {
			return m.Quantity
		}
	}
	t.Fatalf("no beginning on %s", day)
	return 0
}

func TestEnsureBeginning_NoHistory_SeedsFromSnapshot(t *testing.T) {
	movs := &fakeMovements{}
	roll := NewRollForward(movs, 0)
	it := testItem(12)
	day := types.MustParseDate("2026-03-10")

	require.NoError(t, roll.EnsureBeginning(context.Background(), &it, day))

	listed, err := movs.ListForDay(context.Background(), it.ID, day)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, entity.KindBeginning, listed[0].Kind)
	assert.Equal(t, int64(12), listed[0].Quantity)
	assert.True(t, listed[0].AutoGenerated)
}

func TestEnsureBeginning_Idempotent(t *testing.T) {
	movs := &fakeMovements{}
	roll := NewRollForward(movs, 0)
	it := testItem(0)
	day := types.MustParseDate("2026-03-10")

	require.NoError(t, roll.EnsureBeginning(context.Background(), &it, day))
	require.NoError(t, roll.EnsureBeginning(context.Background(), &it, day))
	require.NoError(t, roll.EnsureBeginning(context.Background(), &it, day))

	assert.Equal(t, 1, movs.countForDay(it.ID, day))
}

func TestEnsureBeginning_CarriesRemainingAcrossGap(t *testing.T) {
	movs := &fakeMovements{}
	roll := NewRollForward(movs, 0)
	it := testItem(0)
	ctx := context.Background()

	// Day 1: beginning 50, out 20 -> remaining 30. Days 2-3 were never
	// opened; day 4 must inherit 30 through the gap.
	day1 := types.MustParseDate("2026-03-01")
	b := entity.NewMovement(it.ID, id.Nil(), entity.KindBeginning, 50, day1)
	require.NoError(t, movs.Insert(ctx, &b))
	o := entity.NewMovement(it.ID, id.Nil(), entity.KindOut, 20, day1)
	require.NoError(t, movs.Insert(ctx, &o))

	day4 := day1.AddDays(3)
	require.NoError(t, roll.EnsureBeginning(ctx, &it, day4))

	for _, day := range []types.Date{day1.AddDays(1), day1.AddDays(2), day4} {
		assert.Equal(t, int64(30), beginningQty(t, movs, it.ID, day), "beginning on %s", day)
	}
}

func TestEnsureBeginning_GapDayMovementsAffectCarry(t *testing.T) {
	movs := &fakeMovements{}
	roll := NewRollForward(movs, 0)
	it := testItem(0)
	ctx := context.Background()

	day1 := types.MustParseDate("2026-03-01")
	day2 := day1.AddDays(1)
	day3 := day1.AddDays(2)

	b := entity.NewMovement(it.ID, id.Nil(), entity.KindBeginning, 30, day1)
	require.NoError(t, movs.Insert(ctx, &b))
	// Day 2 got a delivery but nobody opened the sheet, so it has no
	// beginning. The carry into day 3 must still include it.
	in := entity.NewMovement(it.ID, id.Nil(), entity.KindIn, 5, day2)
	require.NoError(t, movs.Insert(ctx, &in))

	require.NoError(t, roll.EnsureBeginning(ctx, &it, day3))

	assert.Equal(t, int64(30), beginningQty(t, movs, it.ID, day2))
	assert.Equal(t, int64(35), beginningQty(t, movs, it.ID, day3))
}

func TestEnsureBeginning_FirstMovementHasNoBeginning(t *testing.T) {
	movs := &fakeMovements{}
	roll := NewRollForward(movs, 0)
	it := testItem(0)
	ctx := context.Background()

	day1 := types.MustParseDate("2026-03-01")
	day2 := day1.AddDays(1)

	// History starts with a bare receipt: no beginning anywhere.
	in := entity.NewMovement(it.ID, id.Nil(), entity.KindIn, 10, day1)
	require.NoError(t, movs.Insert(ctx, &in))

	require.NoError(t, roll.EnsureBeginning(ctx, &it, day2))

	assert.Equal(t, int64(0), beginningQty(t, movs, it.ID, day1))
	assert.Equal(t, int64(10), beginningQty(t, movs, it.ID, day2))
}

func TestEnsureBeginning_LookbackExceeded(t *testing.T) {
	movs := &fakeMovements{}
	roll := NewRollForward(movs, 5)
	it := testItem(0)
	ctx := context.Background()

	day1 := types.MustParseDate("2026-03-01")
	b := entity.NewMovement(it.ID, id.Nil(), entity.KindBeginning, 10, day1)
	require.NoError(t, movs.Insert(ctx, &b))

	err := roll.EnsureBeginning(ctx, &it, day1.AddDays(10))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, 5, appErr.Details["max_lookback_days"])

	// Nothing was persisted for the rejected walk.
	assert.Equal(t, 1, len(movs.movements))
}

func TestEnsureBeginning_AutoBeginningsAreMarked(t *testing.T) {
	movs := &fakeMovements{}
	roll := NewRollForward(movs, 0)
	it := testItem(0)
	ctx := context.Background()

	day1 := types.MustParseDate("2026-03-01")
	b := entity.NewMovement(it.ID, id.Nil(), entity.KindBeginning, 8, day1)
	require.NoError(t, movs.Insert(ctx, &b))

	require.NoError(t, roll.EnsureBeginning(ctx, &it, day1.AddDays(1)))

	listed, err := movs.ListForDay(ctx, it.ID, day1.AddDays(1))
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].AutoGenerated)
	assert.NotEmpty(t, listed[0].Note)
}

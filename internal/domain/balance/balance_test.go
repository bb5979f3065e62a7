package balance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"larder/internal/core/entity"
	"larder/internal/core/id"
	"larder/internal/core/types"
)

var (
	testDay  = types.MustParseDate("2026-03-10")
	baseTime = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
)

// mov builds a movement created offset minutes after baseTime.
func mov(kind entity.MovementKind, qty int64, offsetMin int) entity.Movement {
	return entity.Movement{
		ID:         id.New(),
		ItemID:     id.New(),
		Kind:       kind,
		Quantity:   qty,
		OccurredOn: testDay,
		CreatedAt:  baseTime.Add(time.Duration(offsetMin) * time.Minute),
	}
}

func TestCompute_Empty(t *testing.T) {
	b := Compute(nil)
	assert.Equal(t, Balance{}, b)
}

func TestCompute_TypicalDay(t *testing.T) {
	b := Compute([]entity.Movement{
		mov(entity.KindBeginning, 50, 0),
		mov(entity.KindIn, 30, 1),
		mov(entity.KindOut, 40, 2),
		mov(entity.KindSpoilage, 5, 3),
	})

	assert.Equal(t, int64(50), b.Beginning)
	assert.Equal(t, int64(30), b.In)
	assert.Equal(t, int64(40), b.Out)
	assert.Equal(t, int64(5), b.Spoilage)
	assert.Equal(t, int64(80), b.TotalInventory)
	assert.Equal(t, int64(35), b.Remaining)
	assert.False(t, b.Adjusted)
}

func TestCompute_RepeatedKindsAreSummed(t *testing.T) {
	b := Compute([]entity.Movement{
		mov(entity.KindIn, 10, 0),
		mov(entity.KindIn, 15, 1),
		mov(entity.KindOut, 3, 2),
		mov(entity.KindOut, 4, 3),
	})

	assert.Equal(t, int64(25), b.In)
	assert.Equal(t, int64(7), b.Out)
	assert.Equal(t, int64(18), b.Remaining)
}

func TestCompute_LastBeginningWins(t *testing.T) {
	// Two beginnings on the same date: the later-created one sets the
	// opening quantity, they are never summed. Input order must not matter.
	early := mov(entity.KindBeginning, 100, 0)
	late := mov(entity.KindBeginning, 40, 5)

	for _, movements := range [][]entity.Movement{
		{early, late},
		{late, early},
	} {
		b := Compute(movements)
		assert.Equal(t, int64(40), b.Beginning)
		assert.Equal(t, int64(40), b.TotalInventory)
	}
}

func TestCompute_SameInstantBeginnings_IDBreaksTie(t *testing.T) {
	a := mov(entity.KindBeginning, 10, 0)
	b := mov(entity.KindBeginning, 20, 0)
	a.ID = id.MustParse("00000000-0000-0000-0000-000000000001")
	b.ID = id.MustParse("00000000-0000-0000-0000-000000000002")

	got := Compute([]entity.Movement{b, a})
	assert.Equal(t, int64(20), got.Beginning)

	got = Compute([]entity.Movement{a, b})
	assert.Equal(t, int64(20), got.Beginning)
}

func TestCompute_AdjustmentOverridesRemaining(t *testing.T) {
	b := Compute([]entity.Movement{
		mov(entity.KindBeginning, 50, 0),
		mov(entity.KindOut, 10, 1),
		mov(entity.KindAdjustment, 33, 2),
	})

	// The derived fields keep their arithmetic values; only Remaining
	// is overridden.
	assert.Equal(t, int64(50), b.TotalInventory)
	assert.Equal(t, int64(10), b.Out)
	assert.Equal(t, int64(33), b.Remaining)
	assert.True(t, b.Adjusted)
}

func TestCompute_LastAdjustmentWins(t *testing.T) {
	b := Compute([]entity.Movement{
		mov(entity.KindBeginning, 50, 0),
		mov(entity.KindAdjustment, 20, 1),
		mov(entity.KindAdjustment, 7, 2),
	})

	assert.Equal(t, int64(7), b.Remaining)
	assert.True(t, b.Adjusted)
}

func TestCompute_RemainingFloorsAtZero(t *testing.T) {
	b := Compute([]entity.Movement{
		mov(entity.KindBeginning, 10, 0),
		mov(entity.KindOut, 25, 1),
	})

	assert.Equal(t, int64(0), b.Remaining)
	assert.Equal(t, int64(25), b.Out)
}

func TestCompute_NoBeginning(t *testing.T) {
	b := Compute([]entity.Movement{
		mov(entity.KindIn, 12, 0),
		mov(entity.KindOut, 2, 1),
	})

	assert.Equal(t, int64(0), b.Beginning)
	assert.Equal(t, int64(12), b.TotalInventory)
	assert.Equal(t, int64(10), b.Remaining)
}

func TestBalance_Snapshot(t *testing.T) {
	b := Balance{Beginning: 5, In: 3, Out: 2, Spoilage: 1, TotalInventory: 8, Remaining: 5}
	snap := b.Snapshot()

	assert.Equal(t, b.Beginning, snap.Beginning)
	assert.Equal(t, b.In, snap.In)
	assert.Equal(t, b.Out, snap.Out)
	assert.Equal(t, b.Spoilage, snap.Spoilage)
	assert.Equal(t, b.TotalInventory, snap.TotalInventory)
	assert.Equal(t, b.Remaining, snap.Remaining)
}

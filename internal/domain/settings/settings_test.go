package settings

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larder/internal/core/apperror"
)

type fakeRepo struct {
	byKey map[string]Setting
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byKey: make(map[string]Setting)}
}

func (f *fakeRepo) Get(_ context.Context, key string) (*Setting, error) {
	s, ok := f.byKey[key]
	if !ok {
		return nil, apperror.NewNotFound("setting", key)
	}
	return &s, nil
}

func (f *fakeRepo) Upsert(_ context.Context, s *Setting) error {
	f.byKey[s.Key] = *s
	return nil
}

func (f *fakeRepo) List(_ context.Context) ([]Setting, error) {
	out := make([]Setting, 0, len(f.byKey))
	for _, s := range f.byKey {
		out = append(out, s)
	}
	return out, nil
}

func TestSet_PercentValidation(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	for _, valid := range []string{"0", "0.2", "0.35", "1"} {
		_, err := svc.Set(ctx, KeyLowStockPercent, valid)
		assert.NoError(t, err, "value %s", valid)
	}
	for _, invalid := range []string{"-0.1", "1.01", "20%", "abc", ""} {
		_, err := svc.Set(ctx, KeyLowStockPercent, invalid)
		assert.True(t, apperror.IsValidation(err), "value %s", invalid)
	}
}

func TestSet_AbsoluteValidation(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	for _, valid := range []string{"0", "10", "500"} {
		_, err := svc.Set(ctx, KeyLowStockAbsolute, valid)
		assert.NoError(t, err, "value %s", valid)
	}
	for _, invalid := range []string{"-1", "2.5", "ten"} {
		_, err := svc.Set(ctx, KeyLowStockAbsolute, invalid)
		assert.True(t, apperror.IsValidation(err), "value %s", invalid)
	}
}

func TestSet_UnknownKeyRejected(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Set(context.Background(), "lowStockTreshold", "5")
	assert.True(t, apperror.IsValidation(err))
}

func TestThresholds_Defaults(t *testing.T) {
	svc := NewService(newFakeRepo())

	th := svc.Thresholds(context.Background())
	assert.True(t, th.Percent.Equal(decimal.NewFromFloat(0.2)))
	assert.Equal(t, int64(10), th.Absolute)
}

func TestThresholds_StoredValuesWin(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Set(ctx, KeyLowStockPercent, "0.35")
	require.NoError(t, err)
	_, err = svc.Set(ctx, KeyLowStockAbsolute, "25")
	require.NoError(t, err)

	th := svc.Thresholds(ctx)
	assert.True(t, th.Percent.Equal(decimal.NewFromFloat(0.35)))
	assert.Equal(t, int64(25), th.Absolute)
}

func TestThresholds_CorruptValueFallsBack(t *testing.T) {
	repo := newFakeRepo()
	// Bypass Set validation to simulate a manually edited row.
	repo.byKey[KeyLowStockAbsolute] = Setting{Key: KeyLowStockAbsolute, Value: "lots"}

	th := NewService(repo).Thresholds(context.Background())
	assert.Equal(t, int64(10), th.Absolute)
}

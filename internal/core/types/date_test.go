package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", d.String())

	_, err = ParseDate("10.03.2026")
	assert.Error(t, err)

	_, err = ParseDate("2026-03-10T15:04:05Z")
	assert.Error(t, err)
}

func TestDateOf_TruncatesInLocation(t *testing.T) {
	// 23:30 in Berlin is already the next day in UTC; the calendar
	// date must follow the local wall clock.
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	instant := time.Date(2026, 3, 10, 23, 30, 0, 0, berlin)
	assert.Equal(t, "2026-03-10", DateOf(instant).String())
}

func TestDate_AddDays(t *testing.T) {
	d := MustParseDate("2026-02-28")
	assert.Equal(t, "2026-03-01", d.AddDays(1).String()) // 2026 is not a leap year
	assert.Equal(t, "2026-02-21", d.AddDays(-7).String())
}

func TestDate_DaysUntil(t *testing.T) {
	from := MustParseDate("2026-03-01")
	to := MustParseDate("2026-03-10")

	assert.Equal(t, 9, from.DaysUntil(to))
	assert.Equal(t, -9, to.DaysUntil(from))
	assert.Equal(t, 0, from.DaysUntil(from))
}

func TestDate_Comparisons(t *testing.T) {
	a := MustParseDate("2026-03-09")
	b := MustParseDate("2026-03-10")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.Equal(MustParseDate("2026-03-09")))

	// Comparable: usable as a map key.
	m := map[Date]int{a: 1}
	assert.Equal(t, 1, m[MustParseDate("2026-03-09")])
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Day Date `json:"day"`
	}

	raw, err := json.Marshal(payload{Day: MustParseDate("2026-03-10")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2026-03-10"}`, string(raw))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"day":"2026-03-10"}`), &decoded))
	assert.Equal(t, "2026-03-10", decoded.Day.String())

	require.NoError(t, json.Unmarshal([]byte(`{"day":null}`), &decoded))
	assert.True(t, decoded.Day.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"day":"10.03.2026"}`), &decoded))
}

func TestDate_Scan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-03-10", d.String())

	require.NoError(t, d.Scan("2026-04-01"))
	assert.Equal(t, "2026-04-01", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

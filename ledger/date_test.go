package ledger_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almacen/bookkeeper/ledger"
)

func TestParseDate_ISO(t *testing.T) {
	d, err := ledger.ParseDate("2025-09-09")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.September, d.Month())
	assert.Equal(t, 9, d.Day())
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ledger.ParseDate("09/09/2025")
	assert.Error(t, err)
}

func TestDate_AddDays_CrossesMonth(t *testing.T) {
	d := ledger.NewDate(2025, time.January, 28).AddDays(7)
	assert.Equal(t, "2025-02-04", d.String())
}

func TestDate_Comparisons(t *testing.T) {
	a := ledger.NewDate(2025, time.March, 1)
	b := ledger.NewDate(2025, time.March, 2)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.Equal(ledger.NewDate(2025, time.March, 1)))
	assert.False(t, a.IsZero())
	assert.True(t, ledger.Date{}.IsZero())
}

func TestDateOf_DropsTimeOfDay(t *testing.T) {
	// GIVEN: A timestamp late in the day in a non-UTC zone
	// WHEN: Truncating to a Date
	// THEN: Only the calendar day survives

	loc := time.FixedZone("ART", -3*60*60)
	ts := time.Date(2025, time.September, 9, 23, 45, 0, 0, loc)

	d := ledger.DateOf(ts)
	assert.Equal(t, "2025-09-09", d.String())
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := ledger.NewDate(2025, time.September, 9)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-09-09"`, string(raw))

	var back ledger.Date
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, d.Equal(back))
}

package sheet_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almacen/bookkeeper/ledger"
	"github.com/almacen/bookkeeper/sheet"
)

func TestParseDateCell_ISO(t *testing.T) {
	d, ok := sheet.ParseDateCell("2025-09-09")
	require.True(t, ok)
	assert.Equal(t, "2025-09-09", d.String())
}

func TestParseDateCell_DayMonthYear(t *testing.T) {
	// GIVEN: Dates typed the local way, with and without leading zeros
	// WHEN: Parsing
	// THEN: Day comes first, month second

	cases := map[string]string{
		"9/9/2025":   "2025-09-09",
		"09/09/2025": "2025-09-09",
		"1/12/2024":  "2024-12-01",
		"31/01/2025": "2025-01-31",
	}
	for raw, want := range cases {
		d, ok := sheet.ParseDateCell(raw)
		require.True(t, ok, "expected %q to parse", raw)
		assert.Equal(t, want, d.String(), "input %q", raw)
	}
}

func TestParseDateCell_YearFirstSlashRejected(t *testing.T) {
	// GIVEN: A year-first slash date
	// WHEN: Parsing
	// THEN: Rejected instead of being misread as day 2025

	_, ok := sheet.ParseDateCell("2025/09/09")
	assert.False(t, ok)
}

func TestParseDateCell_ImpossibleDayRejected(t *testing.T) {
	_, ok := sheet.ParseDateCell("31/02/2025")
	assert.False(t, ok, "February 31 must not normalize into March")

	_, ok = sheet.ParseDateCell("32/01/2025")
	assert.False(t, ok)

	_, ok = sheet.ParseDateCell("09/13/2025")
	assert.False(t, ok, "month 13 is not a month")
}

func TestParseDateCell_ExcelSerial(t *testing.T) {
	// GIVEN: The raw serial Excel stores for 2025-09-09
	// WHEN: Parsing
	// THEN: The calendar date comes back

	d, ok := sheet.ParseDateCell("45909")
	require.True(t, ok)
	assert.Equal(t, "2025-09-09", d.String())
}

func TestParseDateCell_SerialWithFraction(t *testing.T) {
	// Serials carry time-of-day in the fraction; it is discarded.
	d, ok := sheet.ParseDateCell("45909.75")
	require.True(t, ok)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.September, d.Month())
	assert.Equal(t, 9, d.Day())
}

func TestParseDateCell_Garbage(t *testing.T) {
	for _, raw := range []string{"", "   ", "mañana", "12-09-2025", "9/9", "9/9/9/9"} {
		_, ok := sheet.ParseDateCell(raw)
		assert.False(t, ok, "input %q", raw)
	}
}

func TestParseDateCell_TrimsWhitespace(t *testing.T) {
	d, ok := sheet.ParseDateCell("  9/9/2025  ")
	require.True(t, ok)
	assert.True(t, d.Equal(ledger.NewDate(2025, time.September, 9)))
}

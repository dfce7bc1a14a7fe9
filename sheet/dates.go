package sheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/almacen/bookkeeper/ledger"
)

// =============================================================================
// DATE CELL PARSING
// =============================================================================

// ParseDateCell interprets a raw cell value as a calendar date. Three input
// shapes are accepted, tried in order:
//
//  1. ISO yyyy-mm-dd (how native date values round-trip through exports)
//  2. d/m/yyyy or dd/mm/yyyy strings
//  3. Excel numeric date serials (1900 epoch)
//
// Anything else is unparseable; callers drop the contribution that needed
// the date rather than failing the whole import.
func ParseDateCell(raw string) (ledger.Date, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ledger.Date{}, false
	}

	if d, err := ledger.ParseDate(s); err == nil {
		return d, true
	}

	if parts := strings.Split(s, "/"); len(parts) == 3 {
		return parseSlashDate(parts)
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return ledger.Date{}, false
		}
		return ledger.DateOf(t), true
	}

	return ledger.Date{}, false
}

// parseSlashDate accepts day/month/year only. Year-first strings like
// 2025/09/09 are rejected instead of being misread as day 2025.
func parseSlashDate(parts []string) (ledger.Date, bool) {
	day, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return ledger.Date{}, false
	}
	if day < 1 || day > 31 || month < 1 || month > 12 || year < 1000 {
		return ledger.Date{}, false
	}

	d := ledger.NewDate(year, time.Month(month), day)
	// time.Date normalizes overflow (31/02 -> 02/03 or 03/03); reject it.
	if d.Day() != day || int(d.Month()) != month {
		return ledger.Date{}, false
	}
	return d, true
}

package sheet

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// =============================================================================
// LOCALE - Formatting policy for exported workbooks
// =============================================================================

// Locale bundles the formatting conventions applied to exported sheets.
// Defaults follow Argentine usage: dd/mm/yyyy dates, $-prefixed currency
// cells, Spanish collation for name sorting.
type Locale struct {
	// DateLayout is the Go time layout used for date cells.
	DateLayout string

	// CurrencyFormat is the spreadsheet number format applied to money cells.
	CurrencyFormat string

	// Collator orders customer names in exports.
	Collator *collate.Collator
}

func DefaultLocale() Locale {
	return Locale{
		DateLayout:     "02/01/2006",
		CurrencyFormat: `"$"#,##0.00`,
		Collator:       collate.New(language.Spanish),
	}
}

// Compare orders two strings with the locale's collator, falling back to
// byte order when no collator is configured.
func (l Locale) Compare(a, b string) int {
	if l.Collator != nil {
		return l.Collator.CompareString(a, b)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

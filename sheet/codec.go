package sheet

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// =============================================================================
// CODEC - Workbook bytes <-> rows of raw cell strings
// =============================================================================

// ErrBadWorkbook wraps any failure to read an uploaded file as a workbook.
var ErrBadWorkbook = errors.New("unreadable workbook")

// Codec reads uploaded workbook bytes into raw rows and renders a Workbook
// to file bytes. It is an interface so service tests can swap in a fake
// instead of building real xlsx files.
type Codec interface {
	// ParseSheet returns the rows of the first sheet. Cell values are raw
	// (unformatted), so date cells come back as Excel serials.
	ParseSheet(data []byte) ([][]string, error)

	// BuildSheet renders a single-sheet workbook to xlsx bytes.
	BuildSheet(wb Workbook) ([]byte, error)
}

// XLSXCodec implements Codec with the excelize library.
type XLSXCodec struct{}

func NewXLSXCodec() XLSXCodec {
	return XLSXCodec{}
}

func (XLSXCodec) ParseSheet(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: no sheets", ErrBadWorkbook)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadWorkbook, err)
	}
	return rows, nil
}

func (XLSXCodec) BuildSheet(wb Workbook) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(wb.SheetName)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	currencyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &wb.CurrencyFormat})
	if err != nil {
		return nil, fmt.Errorf("currency style: %w", err)
	}

	for _, table := range wb.Tables {
		for col, title := range table.Header {
			cell, err := excelize.CoordinatesToCellName(table.OriginCol+col+1, 1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, title); err != nil {
				return nil, err
			}
		}
		for r, row := range table.Rows {
			for col, c := range row {
				cell, err := excelize.CoordinatesToCellName(table.OriginCol+col+1, r+2)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(sheet, cell, c.Value); err != nil {
					return nil, err
				}
				if c.Currency {
					if err := f.SetCellStyle(sheet, cell, cell, currencyStyle); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetName clamps a name to the 31-character sheet name limit and falls
// back to a default when empty.
func sheetName(name string) string {
	if name == "" {
		return "Hoja1"
	}
	runes := []rune(name)
	if len(runes) > 31 {
		return string(runes[:31])
	}
	return name
}

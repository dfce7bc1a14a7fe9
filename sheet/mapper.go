/*
Package sheet converts ledger records to and from spreadsheet data.

PURPOSE:
  Two-way mapping between record lists and rows-of-cells, plus the xlsx
  codec that turns rows into file bytes and back. Export produces tables
  with locale-formatted dates and currency cell styling; import parses
  rows back into records with heuristic date-format detection.

LAYOUTS:
  Customer report (one table):
    A: CLIENTE   B: FECHA   C: MONTO
  Supplier report (two side-by-side tables on one sheet):
    A-E: FECHA, VENCIMIENTO, N°, MONTO, RECHAZO   (invoices)
    I-J: FECHA, MONTO                             (payments)

IMPORT POLICY:
  Row parsing is best-effort: a row that fails shape checks is silently
  excluded and the rest of the batch continues. The caller is expected to
  show the parsed counts and get confirmation before merging (see
  books.ImportCustomerWorkbook / ImportSupplierWorkbook).

SEE ALSO:
  - dates.go: Date cell parsing (ISO, d/m/yyyy, Excel serials)
  - codec.go: xlsx encode/decode
*/
package sheet

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/almacen/bookkeeper/ledger"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// UnknownCustomerLabel substitutes the name of a customer that no longer
// exists when exporting its debts.
const UnknownCustomerLabel = "Cliente Desconocido"

// CustomerReportFilename names the customer debt report download.
const CustomerReportFilename = "Reporte_Deudas_Clientes.xlsx"

// SupplierReportFilename names a per-supplier report download.
func SupplierReportFilename(supplierName string) string {
	return "Reporte_" + supplierName + ".xlsx"
}

var (
	customerHeader = []string{"CLIENTE", "FECHA", "MONTO"}
	invoiceHeader  = []string{"FECHA", "VENCIMIENTO", "N°", "MONTO", "RECHAZO"}
	paymentHeader  = []string{"FECHA", "MONTO"}
)

// paymentOriginCol places the payment table at column I.
const paymentOriginCol = 8

// =============================================================================
// TABULAR MODEL - What the codec writes
// =============================================================================

// Cell is one spreadsheet cell. Currency cells get the locale's currency
// number format applied by the codec.
type Cell struct {
	Value    any
	Currency bool
}

// Table is a header row plus data rows anchored at a column offset.
type Table struct {
	OriginCol int
	Header    []string
	Rows      [][]Cell
}

// Workbook describes a single sheet ready to encode.
type Workbook struct {
	SheetName      string
	CurrencyFormat string
	Tables         []Table
}

// =============================================================================
// MAPPER
// =============================================================================

// Mapper converts records to export workbooks and import rows to record
// batches, applying the configured locale.
type Mapper struct {
	Locale Locale
}

func NewMapper(locale Locale) Mapper {
	return Mapper{Locale: locale}
}

// -----------------------------------------------------------------------------
// Export
// -----------------------------------------------------------------------------

// CustomerWorkbook builds the customer debt report: one row per debt joined
// with its customer name, sorted by name ascending under the locale's
// collation. Debts whose customer was deleted keep a fallback label.
func (m Mapper) CustomerWorkbook(customers []ledger.Customer, debts []ledger.Debt) Workbook {
	names := make(map[ledger.RecordID]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}

	type exportRow struct {
		name string
		debt ledger.Debt
	}
	rows := make([]exportRow, 0, len(debts))
	for _, d := range debts {
		name, ok := names[d.CustomerID]
		if !ok {
			name = UnknownCustomerLabel
		}
		rows = append(rows, exportRow{name: name, debt: d})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return m.Locale.Compare(rows[i].name, rows[j].name) < 0
	})

	table := Table{Header: customerHeader}
	for _, r := range rows {
		table.Rows = append(table.Rows, []Cell{
			{Value: r.name},
			{Value: r.debt.Date.Format(m.Locale.DateLayout)},
			{Value: r.debt.Amount.InexactFloat64(), Currency: true},
		})
	}

	return Workbook{
		SheetName:      "Deudas de Clientes",
		CurrencyFormat: m.Locale.CurrencyFormat,
		Tables:         []Table{table},
	}
}

// SupplierWorkbook builds a per-supplier report with invoices at columns
// A-E and payments at columns I-J, both in the order the detail view shows
// them (date descending).
func (m Mapper) SupplierWorkbook(supplier ledger.Supplier, invoices []ledger.Invoice, payments []ledger.Payment) Workbook {
	var own []ledger.Invoice
	for _, inv := range invoices {
		if inv.SupplierID == supplier.ID {
			own = append(own, inv)
		}
	}
	sort.SliceStable(own, func(i, j int) bool {
		return own[j].IssueDate.Before(own[i].IssueDate)
	})

	invoiceTable := Table{Header: invoiceHeader}
	for _, inv := range own {
		due := ""
		if inv.DueDate != nil {
			due = inv.DueDate.Format(m.Locale.DateLayout)
		}
		invoiceTable.Rows = append(invoiceTable.Rows, []Cell{
			{Value: inv.IssueDate.Format(m.Locale.DateLayout)},
			{Value: due},
			{Value: inv.Number},
			{Value: inv.Amount.InexactFloat64(), Currency: true},
			{Value: inv.Rejection.InexactFloat64(), Currency: true},
		})
	}

	var ownPayments []ledger.Payment
	for _, p := range payments {
		if p.SupplierID == supplier.ID {
			ownPayments = append(ownPayments, p)
		}
	}
	sort.SliceStable(ownPayments, func(i, j int) bool {
		return ownPayments[j].Date.Before(ownPayments[i].Date)
	})

	paymentTable := Table{OriginCol: paymentOriginCol, Header: paymentHeader}
	for _, p := range ownPayments {
		paymentTable.Rows = append(paymentTable.Rows, []Cell{
			{Value: p.Date.Format(m.Locale.DateLayout)},
			{Value: p.Amount.InexactFloat64(), Currency: true},
		})
	}

	return Workbook{
		SheetName:      supplier.Name,
		CurrencyFormat: m.Locale.CurrencyFormat,
		Tables:         []Table{invoiceTable, paymentTable},
	}
}

// -----------------------------------------------------------------------------
// Import
// -----------------------------------------------------------------------------

// CustomerBatch is the outcome of parsing a customer debt sheet. New
// customers are those whose names matched no known customer; their ids are
// already referenced by the corresponding debts.
type CustomerBatch struct {
	NewCustomers []ledger.Customer
	Debts        []ledger.Debt
}

// SupplierBatch is the outcome of parsing a supplier sheet for one supplier.
type SupplierBatch struct {
	Invoices []ledger.Invoice
	Payments []ledger.Payment
}

// ParseCustomerRows scans CLIENTE/FECHA/MONTO rows into debts. The header
// row is at index 0; data starts at index 1. A row is accepted only when
// the name is non-empty, the date parses, and the amount is numeric.
//
// Customers are resolved by trimmed, case-insensitive name match against
// known customers; unmatched names get a synthesized customer whose id is
// reused by later rows of the same batch naming the same customer.
func (m Mapper) ParseCustomerRows(rows [][]string, known []ledger.Customer, base ledger.RecordID) CustomerBatch {
	byName := make(map[string]ledger.RecordID, len(known))
	for _, c := range known {
		byName[foldName(c.Name)] = c.ID
	}

	var batch CustomerBatch
	for i := 1; i < len(rows); i++ {
		name := strings.TrimSpace(cellAt(rows[i], 0))
		if name == "" {
			continue
		}
		date, ok := ParseDateCell(cellAt(rows[i], 1))
		if !ok {
			continue
		}
		amount, ok := parseNumberCell(cellAt(rows[i], 2))
		if !ok {
			continue
		}

		customerID, ok := byName[foldName(name)]
		if !ok {
			customerID = base.Offset(len(batch.NewCustomers))
			byName[foldName(name)] = customerID
			batch.NewCustomers = append(batch.NewCustomers, ledger.Customer{ID: customerID, Name: name})
		}
		batch.Debts = append(batch.Debts, ledger.Debt{
			ID:         base.Offset(i),
			CustomerID: customerID,
			Amount:     amount,
			Date:       date,
		})
	}
	return batch
}

// ParseSupplierRows scans a supplier sheet for the selected supplier only.
// Columns A-E and I-J are read independently per row, so a row may yield an
// invoice, a payment, both, or neither. An unparseable VENCIMIENTO degrades
// to a nil due date without dropping the invoice.
func (m Mapper) ParseSupplierRows(rows [][]string, supplierID ledger.RecordID, base ledger.RecordID) SupplierBatch {
	var batch SupplierBatch
	for i := 1; i < len(rows); i++ {
		row := rows[i]

		// Invoice columns A-E
		if rawDate := cellAt(row, 0); strings.TrimSpace(rawDate) != "" {
			if amount, ok := parseNumberCell(cellAt(row, 3)); ok {
				if issue, ok := ParseDateCell(rawDate); ok {
					var due *ledger.Date
					if d, ok := ParseDateCell(cellAt(row, 1)); ok {
						due = &d
					}
					rejection := decimal.Zero
					if r, ok := parseNumberCell(cellAt(row, 4)); ok && !r.IsNegative() {
						rejection = r
					}
					batch.Invoices = append(batch.Invoices, ledger.Invoice{
						ID:         base.Offset(i),
						SupplierID: supplierID,
						IssueDate:  issue,
						DueDate:    due,
						Number:     cellAt(row, 2),
						Amount:     amount,
						Rejection:  rejection,
					})
				}
			}
		}

		// Payment columns I-J
		if rawDate := cellAt(row, paymentOriginCol); strings.TrimSpace(rawDate) != "" {
			if amount, ok := parseNumberCell(cellAt(row, paymentOriginCol+1)); ok {
				if date, ok := ParseDateCell(rawDate); ok {
					batch.Payments = append(batch.Payments, ledger.Payment{
						ID:         base.Offset(i),
						SupplierID: supplierID,
						Amount:     amount,
						Date:       date,
					})
				}
			}
		}
	}
	return batch
}

// =============================================================================
// HELPERS
// =============================================================================

func cellAt(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return row[col]
}

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func parseNumberCell(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

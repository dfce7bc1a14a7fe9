package sheet_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almacen/bookkeeper/ledger"
	"github.com/almacen/bookkeeper/sheet"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func testMapper() sheet.Mapper {
	return sheet.NewMapper(sheet.DefaultLocale())
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) ledger.Date {
	return ledger.NewDate(y, m, d)
}

// =============================================================================
// CUSTOMER EXPORT TESTS
// =============================================================================

func TestCustomerWorkbook_JoinsAndSortsByName(t *testing.T) {
	// GIVEN: Debts belonging to customers out of alphabetical order
	// WHEN: Building the export workbook
	// THEN: One row per debt, sorted by customer name, dates formatted dd/mm/yyyy

	customers := []ledger.Customer{
		{ID: 1, Name: "Zárate"},
		{ID: 2, Name: "Alvarez"},
	}
	debts := []ledger.Debt{
		{ID: 10, CustomerID: 1, Amount: money("100"), Date: day(2025, time.September, 9)},
		{ID: 11, CustomerID: 2, Amount: money("250.50"), Date: day(2025, time.August, 1)},
	}

	wb := testMapper().CustomerWorkbook(customers, debts)

	require.Len(t, wb.Tables, 1)
	table := wb.Tables[0]
	assert.Equal(t, []string{"CLIENTE", "FECHA", "MONTO"}, table.Header)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, "Alvarez", table.Rows[0][0].Value)
	assert.Equal(t, "01/08/2025", table.Rows[0][1].Value)
	assert.Equal(t, 250.5, table.Rows[0][2].Value)
	assert.True(t, table.Rows[0][2].Currency)

	assert.Equal(t, "Zárate", table.Rows[1][0].Value)
	assert.Equal(t, "09/09/2025", table.Rows[1][1].Value)
}

func TestCustomerWorkbook_AccentAwareOrdering(t *testing.T) {
	// GIVEN: Names where byte order and Spanish collation disagree
	// WHEN: Sorting the export
	// THEN: "Álvarez" sorts with the As, not after Z

	customers := []ledger.Customer{
		{ID: 1, Name: "Álvarez"},
		{ID: 2, Name: "Benítez"},
	}
	debts := []ledger.Debt{
		{ID: 10, CustomerID: 2, Amount: money("1"), Date: day(2025, time.January, 1)},
		{ID: 11, CustomerID: 1, Amount: money("1"), Date: day(2025, time.January, 1)},
	}

	wb := testMapper().CustomerWorkbook(customers, debts)
	assert.Equal(t, "Álvarez", wb.Tables[0].Rows[0][0].Value)
}

func TestCustomerWorkbook_OrphanDebtGetsFallbackLabel(t *testing.T) {
	// GIVEN: A debt whose customer was deleted
	// WHEN: Exporting
	// THEN: The row survives with the placeholder name

	debts := []ledger.Debt{
		{ID: 10, CustomerID: 99, Amount: money("100"), Date: day(2025, time.September, 9)},
	}

	wb := testMapper().CustomerWorkbook(nil, debts)
	require.Len(t, wb.Tables[0].Rows, 1)
	assert.Equal(t, sheet.UnknownCustomerLabel, wb.Tables[0].Rows[0][0].Value)
}

// =============================================================================
// SUPPLIER EXPORT TESTS
// =============================================================================

func TestSupplierWorkbook_TwoTablesNewestFirst(t *testing.T) {
	// GIVEN: A supplier with two invoices and a payment, plus noise from
	//        another supplier
	// WHEN: Building the export
	// THEN: Invoices at column A newest first, payments at column I,
	//       missing due date rendered as an empty cell

	due := day(2025, time.September, 16)
	s := ledger.Supplier{ID: 1, Name: "Distribuidora Sur"}
	invoices := []ledger.Invoice{
		{ID: 10, SupplierID: 1, IssueDate: day(2025, time.September, 1), DueDate: &due,
			Number: "A-001", Amount: money("500"), Rejection: money("50")},
		{ID: 11, SupplierID: 1, IssueDate: day(2025, time.September, 9),
			Number: "A-002", Amount: money("300"), Rejection: money("0")},
		{ID: 12, SupplierID: 2, IssueDate: day(2025, time.September, 9),
			Number: "X-999", Amount: money("999"), Rejection: money("0")},
	}
	payments := []ledger.Payment{
		{ID: 20, SupplierID: 1, Amount: money("200"), Date: day(2025, time.September, 5)},
	}

	wb := testMapper().SupplierWorkbook(s, invoices, payments)

	assert.Equal(t, "Distribuidora Sur", wb.SheetName)
	require.Len(t, wb.Tables, 2)

	inv := wb.Tables[0]
	assert.Equal(t, 0, inv.OriginCol)
	assert.Equal(t, []string{"FECHA", "VENCIMIENTO", "N°", "MONTO", "RECHAZO"}, inv.Header)
	require.Len(t, inv.Rows, 2)
	assert.Equal(t, "09/09/2025", inv.Rows[0][0].Value, "newest invoice first")
	assert.Equal(t, "", inv.Rows[0][1].Value, "no due date renders empty")
	assert.Equal(t, "16/09/2025", inv.Rows[1][1].Value)
	assert.Equal(t, "A-001", inv.Rows[1][2].Value)
	assert.Equal(t, 50.0, inv.Rows[1][4].Value)

	pay := wb.Tables[1]
	assert.Equal(t, 8, pay.OriginCol, "payments anchored at column I")
	assert.Equal(t, []string{"FECHA", "MONTO"}, pay.Header)
	require.Len(t, pay.Rows, 1)
	assert.Equal(t, "05/09/2025", pay.Rows[0][0].Value)
}

// =============================================================================
// CUSTOMER IMPORT TESTS
// =============================================================================

func TestParseCustomerRows_MixedDateShapesAndBadRows(t *testing.T) {
	// GIVEN: A sheet with slash dates, raw serials, a year-first date, and
	//        incomplete rows
	// WHEN: Parsing
	// THEN: Good rows import, bad rows are silently skipped

	rows := [][]string{
		{"CLIENTE", "FECHA", "MONTO"},
		{"Ana", "9/9/2025", "100"},
		{"Beto", "45909", "250.50"},
		{"Caro", "2025/09/09", "300"}, // year-first: dropped
		{"", "9/9/2025", "400"},       // no name: dropped
		{"Dino", "9/9/2025", "nope"},  // bad amount: dropped
	}

	batch := testMapper().ParseCustomerRows(rows, nil, 1000)

	require.Len(t, batch.Debts, 2)
	require.Len(t, batch.NewCustomers, 2)

	assert.Equal(t, "Ana", batch.NewCustomers[0].Name)
	assert.Equal(t, "2025-09-09", batch.Debts[0].Date.String())
	assert.True(t, batch.Debts[0].Amount.Equal(money("100")))

	assert.Equal(t, "Beto", batch.NewCustomers[1].Name)
	assert.Equal(t, "2025-09-09", batch.Debts[1].Date.String(), "serial 45909 is 2025-09-09")
	assert.True(t, batch.Debts[1].Amount.Equal(money("250.50")))
}

func TestParseCustomerRows_ReusesKnownCustomersCaseInsensitively(t *testing.T) {
	// GIVEN: "ana" already exists as customer 7
	// WHEN: Importing rows for "  ANA " and a brand new name
	// THEN: Ana's debt attaches to 7; only the new name creates a customer

	known := []ledger.Customer{{ID: 7, Name: "ana"}}
	rows := [][]string{
		{"CLIENTE", "FECHA", "MONTO"},
		{"  ANA ", "9/9/2025", "100"},
		{"Nuevo", "9/9/2025", "50"},
	}

	batch := testMapper().ParseCustomerRows(rows, known, 1000)

	require.Len(t, batch.NewCustomers, 1)
	assert.Equal(t, "Nuevo", batch.NewCustomers[0].Name)

	require.Len(t, batch.Debts, 2)
	assert.Equal(t, ledger.RecordID(7), batch.Debts[0].CustomerID)
	assert.Equal(t, batch.NewCustomers[0].ID, batch.Debts[1].CustomerID)
}

func TestParseCustomerRows_RepeatedNewNameSharesOneCustomer(t *testing.T) {
	rows := [][]string{
		{"CLIENTE", "FECHA", "MONTO"},
		{"Ana", "9/9/2025", "100"},
		{"ana", "10/9/2025", "200"},
	}

	batch := testMapper().ParseCustomerRows(rows, nil, 1000)

	require.Len(t, batch.NewCustomers, 1)
	require.Len(t, batch.Debts, 2)
	assert.Equal(t, batch.Debts[0].CustomerID, batch.Debts[1].CustomerID)
}

func TestParseCustomerRows_UniqueDebtIDs(t *testing.T) {
	rows := [][]string{
		{"CLIENTE", "FECHA", "MONTO"},
		{"Ana", "9/9/2025", "100"},
		{"Beto", "9/9/2025", "200"},
		{"Caro", "9/9/2025", "300"},
	}

	batch := testMapper().ParseCustomerRows(rows, nil, 5000)

	seen := map[ledger.RecordID]bool{}
	for _, d := range batch.Debts {
		assert.False(t, seen[d.ID], "duplicate debt id %d", d.ID)
		seen[d.ID] = true
	}
}

// =============================================================================
// SUPPLIER IMPORT TESTS
// =============================================================================

func TestParseSupplierRows_InvoiceAndPaymentColumnsAreIndependent(t *testing.T) {
	// GIVEN: A row with both an invoice (A-E) and a payment (I-J), a row
	//        with only a payment, and a row with only an invoice
	// WHEN: Parsing
	// THEN: Each column group contributes on its own

	rows := [][]string{
		{"FECHA", "VENCIMIENTO", "N°", "MONTO", "RECHAZO", "", "", "", "FECHA", "MONTO"},
		{"1/9/2025", "8/9/2025", "A-001", "500", "50", "", "", "", "5/9/2025", "200"},
		{"", "", "", "", "", "", "", "", "6/9/2025", "300"},
		{"2/9/2025", "", "A-002", "150", ""},
	}

	batch := testMapper().ParseSupplierRows(rows, 1, 1000)

	require.Len(t, batch.Invoices, 2)
	require.Len(t, batch.Payments, 2)

	first := batch.Invoices[0]
	assert.Equal(t, "2025-09-01", first.IssueDate.String())
	require.NotNil(t, first.DueDate)
	assert.Equal(t, "2025-09-08", first.DueDate.String())
	assert.Equal(t, "A-001", first.Number)
	assert.True(t, first.Amount.Equal(money("500")))
	assert.True(t, first.Rejection.Equal(money("50")))

	second := batch.Invoices[1]
	assert.Nil(t, second.DueDate, "short row leaves due date unset")
	assert.True(t, second.Rejection.IsZero())

	assert.True(t, batch.Payments[0].Amount.Equal(money("200")))
	assert.True(t, batch.Payments[1].Amount.Equal(money("300")))
}

func TestParseSupplierRows_UnparseableDueDateDegradesToNil(t *testing.T) {
	// GIVEN: A valid invoice whose VENCIMIENTO cell is garbage
	// WHEN: Parsing
	// THEN: The invoice is kept, without a due date

	rows := [][]string{
		{"FECHA", "VENCIMIENTO", "N°", "MONTO", "RECHAZO"},
		{"1/9/2025", "proximamente", "A-001", "500", "0"},
	}

	batch := testMapper().ParseSupplierRows(rows, 1, 1000)

	require.Len(t, batch.Invoices, 1)
	assert.Nil(t, batch.Invoices[0].DueDate)
}

func TestParseSupplierRows_NegativeRejectionBecomesZero(t *testing.T) {
	rows := [][]string{
		{"FECHA", "VENCIMIENTO", "N°", "MONTO", "RECHAZO"},
		{"1/9/2025", "", "A-001", "500", "-25"},
	}

	batch := testMapper().ParseSupplierRows(rows, 1, 1000)

	require.Len(t, batch.Invoices, 1)
	assert.True(t, batch.Invoices[0].Rejection.IsZero())
}

func TestParseSupplierRows_BadIssueDateDropsInvoice(t *testing.T) {
	rows := [][]string{
		{"FECHA", "VENCIMIENTO", "N°", "MONTO", "RECHAZO"},
		{"2025/09/01", "", "A-001", "500", "0"},
	}

	batch := testMapper().ParseSupplierRows(rows, 1, 1000)
	assert.Empty(t, batch.Invoices)
}

func TestParseSupplierRows_AllRecordsTagged(t *testing.T) {
	rows := [][]string{
		{"FECHA", "VENCIMIENTO", "N°", "MONTO", "RECHAZO", "", "", "", "FECHA", "MONTO"},
		{"1/9/2025", "", "A-001", "500", "0", "", "", "", "5/9/2025", "200"},
	}

	batch := testMapper().ParseSupplierRows(rows, 42, 1000)

	for _, inv := range batch.Invoices {
		assert.Equal(t, ledger.RecordID(42), inv.SupplierID)
	}
	for _, p := range batch.Payments {
		assert.Equal(t, ledger.RecordID(42), p.SupplierID)
	}
}

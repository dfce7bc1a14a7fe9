/*
Package ledger provides the bookkeeping core.

PURPOSE:
  This package contains the record types and pure aggregation logic for a
  small shop's accounts: money owed BY customers (debts) and money owed TO
  suppliers (invoices net of rejections and payments). Everything here is
  side-effect free; persistence and user interaction live in the books
  package.

KEY CONCEPTS IN THIS FILE (types.go):
  - RecordID: Creation-time identifier, unique within a record list
  - Customer/Debt: Receivable side
  - Supplier/Invoice/Payment: Payable side

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for all money amounts
  2. Purity: Balance and alert functions take records in, return values out
  3. Value semantics: Records are plain structs owned by the caller

SEE ALSO:
  - balance.go: Outstanding balance aggregation
  - alerts.go: Due-date bucketing for the dashboard
  - date.go: Calendar date type
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// RecordID identifies a record within its list. IDs are derived from the
// creation timestamp, so they are monotonically non-decreasing in creation
// order. Bulk imports offset a base id by row index to avoid collisions.
type RecordID int64

// NewRecordID returns an id for a record created now.
func NewRecordID() RecordID {
	return RecordID(time.Now().UnixMilli())
}

// Offset returns a collision-avoided id for the i-th record of a batch.
func (id RecordID) Offset(i int) RecordID {
	return id + RecordID(i)
}

// =============================================================================
// RECEIVABLES - Customers and their debts
// =============================================================================

type Customer struct {
	ID   RecordID `json:"id"`
	Name string   `json:"name"`
}

type Debt struct {
	ID         RecordID        `json:"id"`
	CustomerID RecordID        `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       Date            `json:"date"`
}

// =============================================================================
// PAYABLES - Suppliers, their invoices and payments
// =============================================================================

type Supplier struct {
	ID   RecordID `json:"id"`
	Name string   `json:"name"`
}

// Invoice is a supplier charge. Rejection reduces the effective amount owed
// (e.g. returned goods) and is never negative. DueDate is nil when the
// invoice has no due date; such invoices never appear in due-date alerts.
type Invoice struct {
	ID         RecordID        `json:"id"`
	SupplierID RecordID        `json:"supplier_id"`
	IssueDate  Date            `json:"issue_date"`
	DueDate    *Date           `json:"due_date,omitempty"`
	Number     string          `json:"number"`
	Amount     decimal.Decimal `json:"amount"`
	Rejection  decimal.Decimal `json:"rejection"`
}

type Payment struct {
	ID         RecordID        `json:"id"`
	SupplierID RecordID        `json:"supplier_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       Date            `json:"date"`
}

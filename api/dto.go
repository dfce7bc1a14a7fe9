/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal record model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

AMOUNTS:
  Money fields use decimal.Decimal, which marshals as a quoted decimal
  string and accepts both quoted and bare numbers on input. No float64
  crosses the API boundary.

DATES:
  Dates travel as ISO yyyy-mm-dd strings. A missing due_date means the
  invoice has none.

SEE ALSO:
  - handlers.go: Uses these types
  - books/transfer.go: Import preview types embedded here
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/almacen/bookkeeper/books"
	"github.com/almacen/bookkeeper/ledger"
)

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// CustomerDTO is a customer with its computed balance.
type CustomerDTO struct {
	ID      ledger.RecordID `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// DebtDTO is one customer debt.
type DebtDTO struct {
	ID         ledger.RecordID `json:"id"`
	CustomerID ledger.RecordID `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date"`
}

// SupplierDTO is a supplier with its computed balance.
type SupplierDTO struct {
	ID      ledger.RecordID `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// InvoiceDTO is one supplier invoice.
type InvoiceDTO struct {
	ID         ledger.RecordID `json:"id"`
	SupplierID ledger.RecordID `json:"supplier_id"`
	IssueDate  string          `json:"issue_date"`
	DueDate    *string         `json:"due_date,omitempty"`
	Number     string          `json:"number"`
	Amount     decimal.Decimal `json:"amount"`
	Rejection  decimal.Decimal `json:"rejection"`
}

// PaymentDTO is one supplier payment.
type PaymentDTO struct {
	ID         ledger.RecordID `json:"id"`
	SupplierID ledger.RecordID `json:"supplier_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date"`
}

// ImportCustomerDTO reports a customer import. Imported is false for
// previews.
type ImportCustomerDTO struct {
	books.CustomerImportPreview
	Imported bool `json:"imported"`
}

// ImportSupplierDTO reports a supplier import.
type ImportSupplierDTO struct {
	books.SupplierImportPreview
	Imported bool `json:"imported"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// NameRequest creates or renames a customer or supplier.
type NameRequest struct {
	Name string `json:"name"`
}

// DebtRequest creates or edits a debt.
type DebtRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
}

// InvoiceRequest creates or edits an invoice. A missing due_date defaults
// to seven days after the issue date on creation.
type InvoiceRequest struct {
	IssueDate string          `json:"issue_date"`
	DueDate   *string         `json:"due_date,omitempty"`
	Number    string          `json:"number"`
	Amount    decimal.Decimal `json:"amount"`
	Rejection decimal.Decimal `json:"rejection"`
}

// PaymentRequest creates or edits a payment.
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toDebtDTO(d ledger.Debt) DebtDTO {
	return DebtDTO{
		ID:         d.ID,
		CustomerID: d.CustomerID,
		Amount:     d.Amount,
		Date:       d.Date.String(),
	}
}

func toInvoiceDTO(inv ledger.Invoice) InvoiceDTO {
	dto := InvoiceDTO{
		ID:         inv.ID,
		SupplierID: inv.SupplierID,
		IssueDate:  inv.IssueDate.String(),
		Number:     inv.Number,
		Amount:     inv.Amount,
		Rejection:  inv.Rejection,
	}
	if inv.DueDate != nil {
		s := inv.DueDate.String()
		dto.DueDate = &s
	}
	return dto
}

func toPaymentDTO(p ledger.Payment) PaymentDTO {
	return PaymentDTO{
		ID:         p.ID,
		SupplierID: p.SupplierID,
		Amount:     p.Amount,
		Date:       p.Date.String(),
	}
}

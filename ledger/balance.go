/*
balance.go - Outstanding balance aggregation

PURPOSE:
  Computes what a customer owes the shop and what the shop owes a supplier.
  These are the two numbers every screen of the application is built around.

BALANCE RULES:
  Customer: sum of debt amounts.
  Supplier: sum(invoice amounts) - sum(rejections) - sum(payments).

  The supplier balance is a signed value and is NOT clamped at zero: a
  negative balance means the supplier was overpaid and owes the shop.

TOTALITY:
  Both functions are total. An id with no matching records yields zero;
  records are assumed to have been validated at entry time and are not
  re-checked here.

SEE ALSO:
  - alerts.go: Uses SupplierBalance to filter dashboard candidates
  - books/books.go: Validation that guards these aggregations
*/
package ledger

import "github.com/shopspring/decimal"

// CustomerBalance returns the total owed by a customer: the sum of amounts
// over debts whose CustomerID matches. Zero when there are none.
func CustomerBalance(id RecordID, debts []Debt) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		if d.CustomerID == id {
			total = total.Add(d.Amount)
		}
	}
	return total
}

// SupplierBalance returns the outstanding balance with a supplier:
// invoices minus rejections minus payments, restricted to the supplier's
// records. May be negative (overpayment).
func SupplierBalance(id RecordID, invoices []Invoice, payments []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range invoices {
		if inv.SupplierID == id {
			total = total.Add(inv.Amount).Sub(inv.Rejection)
		}
	}
	for _, p := range payments {
		if p.SupplierID == id {
			total = total.Sub(p.Amount)
		}
	}
	return total
}

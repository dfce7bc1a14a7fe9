/*
alerts.go - Due-date bucketing for the payables dashboard

PURPOSE:
  Partitions suppliers into urgency buckets so the dashboard can show which
  accounts need attention: already overdue, due within 3 days, or due
  within a week.

CLASSIFICATION RULES:
  1. Only suppliers with a positive outstanding balance are candidates.
     Balance <= 0 excludes a supplier even if it has overdue invoices.
  2. Each invoice with a due date is classified against the reference day:
       due < today                      -> overdue
       today <= due <= today+3          -> due soon
       today+3 < due <= today+7         -> due later
     Invoices without a due date are skipped, never an error.
  3. A supplier lands in at most ONE bucket, first match wins:
     overdue > due soon > due later. A supplier whose invoices fall in no
     window appears nowhere.

  The reference day is an explicit parameter so callers (and tests) control
  "today" instead of coupling to the wall clock.

SEE ALSO:
  - balance.go: SupplierBalance
*/
package ledger

import "github.com/shopspring/decimal"

// =============================================================================
// ALERT TYPES
// =============================================================================

// AlertEntry is one supplier shown on the dashboard. Balance is the
// supplier's total outstanding balance, not a per-invoice amount.
type AlertEntry struct {
	SupplierID RecordID        `json:"supplier_id"`
	Name       string          `json:"name"`
	Balance    decimal.Decimal `json:"balance"`
}

// Alerts holds the three urgency buckets in supplier iteration order.
type Alerts struct {
	Overdue  []AlertEntry `json:"overdue"`
	DueSoon  []AlertEntry `json:"due_soon"`
	DueLater []AlertEntry `json:"due_later"`
}

// =============================================================================
// CLASSIFIER
// =============================================================================

// ClassifyDue buckets suppliers by invoice due dates relative to today.
func ClassifyDue(today Date, suppliers []Supplier, invoices []Invoice, payments []Payment) Alerts {
	soonEnd := today.AddDays(3)
	laterEnd := today.AddDays(7)

	var alerts Alerts
	for _, s := range suppliers {
		balance := SupplierBalance(s.ID, invoices, payments)
		if !balance.IsPositive() {
			continue
		}

		var overdue, dueSoon, dueLater bool
		for _, inv := range invoices {
			if inv.SupplierID != s.ID || inv.DueDate == nil {
				continue
			}
			due := *inv.DueDate
			switch {
			case due.Before(today):
				overdue = true
			case !due.After(soonEnd):
				dueSoon = true
			case !due.After(laterEnd):
				dueLater = true
			}
		}

		entry := AlertEntry{SupplierID: s.ID, Name: s.Name, Balance: balance}
		switch {
		case overdue:
			alerts.Overdue = append(alerts.Overdue, entry)
		case dueSoon:
			alerts.DueSoon = append(alerts.DueSoon, entry)
		case dueLater:
			alerts.DueLater = append(alerts.DueLater, entry)
		}
	}
	return alerts
}

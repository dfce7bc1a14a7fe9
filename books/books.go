/*
Package books is the application service over the bookkeeping core.

PURPOSE:
  Owns the five record lists (customers, debts, suppliers, invoices,
  payments), validates mutations, persists every change through a
  RecordStore, and runs the confirm-before-destroy and confirm-before-
  import flows through a Prompter.

STATE MODEL:
  The whole working set is loaded once at Open and kept in memory; each
  mutation rewrites the affected list(s) in the store. The service is NOT
  safe for concurrent use; the API layer serializes access.

DELETE SEMANTICS:
  Deleting a customer removes its debts; deleting a supplier removes its
  invoices and payments. Both cascade deletes and single-record deletes go
  through Prompter.Confirm first. A declined prompt returns ErrDeclined
  and leaves state untouched.

IMPORT SEMANTICS:
  Workbook imports are best-effort per row (bad rows are skipped) and
  all-or-nothing at the confirm boundary: nothing is merged until the
  user accepts the parsed counts.

SEE ALSO:
  - ledger: Record types, balances, due-date alerts
  - sheet: Workbook mapping and xlsx codec
*/
package books

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/almacen/bookkeeper/ledger"
	"github.com/almacen/bookkeeper/sheet"
)

// ErrDeclined is returned when the user answers no to a confirmation
// prompt. State is unchanged.
var ErrDeclined = errors.New("declined by user")

// =============================================================================
// SERVICE
// =============================================================================

// Books is the bookkeeping service. Create with Open.
type Books struct {
	store    RecordStore
	prompter Prompter
	codec    sheet.Codec
	mapper   sheet.Mapper

	customers []ledger.Customer
	debts     []ledger.Debt
	suppliers []ledger.Supplier
	invoices  []ledger.Invoice
	payments  []ledger.Payment

	lastID ledger.RecordID
}

// Options configures a Books instance. Zero-value fields get defaults:
// a prompter that accepts everything silently, the xlsx codec, and the
// Argentine locale mapper.
type Options struct {
	Prompter Prompter
	Codec    sheet.Codec
	Mapper   *sheet.Mapper
}

// Open loads all record lists from the store and returns a ready service.
func Open(ctx context.Context, store RecordStore, opts Options) (*Books, error) {
	b := &Books{
		store:    store,
		prompter: opts.Prompter,
		codec:    opts.Codec,
	}
	if b.prompter == nil {
		b.prompter = silentPrompter{}
	}
	if b.codec == nil {
		b.codec = sheet.NewXLSXCodec()
	}
	if opts.Mapper != nil {
		b.mapper = *opts.Mapper
	} else {
		b.mapper = sheet.NewMapper(sheet.DefaultLocale())
	}

	loads := []struct {
		key string
		out any
	}{
		{KeyCustomers, &b.customers},
		{KeyDebts, &b.debts},
		{KeySuppliers, &b.suppliers},
		{KeyInvoices, &b.invoices},
		{KeyPayments, &b.payments},
	}
	for _, l := range loads {
		if err := store.Load(ctx, l.key, l.out); err != nil {
			return nil, fmt.Errorf("load %s: %w", l.key, err)
		}
	}

	b.lastID = maxLoadedID(b)
	return b, nil
}

func maxLoadedID(b *Books) ledger.RecordID {
	var max ledger.RecordID
	bump := func(id ledger.RecordID) {
		if id > max {
			max = id
		}
	}
	for _, c := range b.customers {
		bump(c.ID)
	}
	for _, d := range b.debts {
		bump(d.ID)
	}
	for _, s := range b.suppliers {
		bump(s.ID)
	}
	for _, inv := range b.invoices {
		bump(inv.ID)
	}
	for _, p := range b.payments {
		bump(p.ID)
	}
	return max
}

// nextID returns a fresh id, strictly greater than any id handed out or
// loaded so far. Keeps ids unique even when the clock hands out the same
// millisecond twice.
func (b *Books) nextID() ledger.RecordID {
	id := ledger.NewRecordID()
	if id <= b.lastID {
		id = b.lastID + 1
	}
	b.lastID = id
	return id
}

// reserveIDs returns a base id with n consecutive ids claimed after it,
// for batch imports that offset by row index.
func (b *Books) reserveIDs(n int) ledger.RecordID {
	if n < 1 {
		n = 1
	}
	base := ledger.NewRecordID()
	if base <= b.lastID {
		base = b.lastID + 1
	}
	b.lastID = base.Offset(n - 1)
	return base
}

// =============================================================================
// CUSTOMERS
// =============================================================================

// Customers returns the customer list in stored order.
func (b *Books) Customers() []ledger.Customer {
	return append([]ledger.Customer(nil), b.customers...)
}

func (b *Books) AddCustomer(ctx context.Context, name string) (ledger.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ledger.Customer{}, ledger.ErrEmptyName
	}
	c := ledger.Customer{ID: b.nextID(), Name: name}
	b.customers = append(b.customers, c)
	if err := b.save(ctx, KeyCustomers, b.customers); err != nil {
		return ledger.Customer{}, err
	}
	return c, nil
}

func (b *Books) RenameCustomer(ctx context.Context, id ledger.RecordID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ledger.ErrEmptyName
	}
	i := customerIndex(b.customers, id)
	if i < 0 {
		return ledger.ErrUnknownCustomer
	}
	b.customers[i].Name = name
	return b.save(ctx, KeyCustomers, b.customers)
}

// DeleteCustomer removes a customer and all of its debts after the user
// confirms.
func (b *Books) DeleteCustomer(ctx context.Context, id ledger.RecordID) error {
	i := customerIndex(b.customers, id)
	if i < 0 {
		return ledger.ErrUnknownCustomer
	}
	ok, err := b.prompter.Confirm(ctx, "¿Está seguro de que desea eliminar este cliente y todas sus deudas?")
	if err != nil {
		return err
	}
	if !ok {
		return ErrDeclined
	}

	b.customers = append(b.customers[:i], b.customers[i+1:]...)
	kept := b.debts[:0]
	for _, d := range b.debts {
		if d.CustomerID != id {
			kept = append(kept, d)
		}
	}
	b.debts = kept

	if err := b.save(ctx, KeyCustomers, b.customers); err != nil {
		return err
	}
	return b.save(ctx, KeyDebts, b.debts)
}

// CustomerBalance returns the total owed by a customer.
func (b *Books) CustomerBalance(id ledger.RecordID) decimal.Decimal {
	return ledger.CustomerBalance(id, b.debts)
}

// DebtsOf returns a customer's debts, newest first.
func (b *Books) DebtsOf(customerID ledger.RecordID) []ledger.Debt {
	var out []ledger.Debt
	for _, d := range b.debts {
		if d.CustomerID == customerID {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Date.Before(out[i].Date)
	})
	return out
}

// =============================================================================
// DEBTS
// =============================================================================

func (b *Books) AddDebt(ctx context.Context, customerID ledger.RecordID, amount decimal.Decimal, date ledger.Date) (ledger.Debt, error) {
	if customerIndex(b.customers, customerID) < 0 {
		return ledger.Debt{}, ledger.ErrUnknownCustomer
	}
	if !amount.IsPositive() {
		return ledger.Debt{}, ledger.ErrInvalidAmount
	}
	d := ledger.Debt{ID: b.nextID(), CustomerID: customerID, Amount: amount, Date: date}
	b.debts = append(b.debts, d)
	if err := b.save(ctx, KeyDebts, b.debts); err != nil {
		return ledger.Debt{}, err
	}
	return d, nil
}

func (b *Books) EditDebt(ctx context.Context, id ledger.RecordID, amount decimal.Decimal, date ledger.Date) error {
	if !amount.IsPositive() {
		return ledger.ErrInvalidAmount
	}
	for i := range b.debts {
		if b.debts[i].ID == id {
			b.debts[i].Amount = amount
			b.debts[i].Date = date
			return b.save(ctx, KeyDebts, b.debts)
		}
	}
	return ledger.ErrRecordNotFound
}

func (b *Books) DeleteDebt(ctx context.Context, id ledger.RecordID) error {
	for i := range b.debts {
		if b.debts[i].ID == id {
			ok, err := b.prompter.Confirm(ctx, "¿Está seguro de que desea eliminar esta deuda?")
			if err != nil {
				return err
			}
			if !ok {
				return ErrDeclined
			}
			b.debts = append(b.debts[:i], b.debts[i+1:]...)
			return b.save(ctx, KeyDebts, b.debts)
		}
	}
	return ledger.ErrRecordNotFound
}

// =============================================================================
// SUPPLIERS
// =============================================================================

// Suppliers returns the supplier list in stored order.
func (b *Books) Suppliers() []ledger.Supplier {
	return append([]ledger.Supplier(nil), b.suppliers...)
}

func (b *Books) AddSupplier(ctx context.Context, name string) (ledger.Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ledger.Supplier{}, ledger.ErrEmptyName
	}
	s := ledger.Supplier{ID: b.nextID(), Name: name}
	b.suppliers = append(b.suppliers, s)
	if err := b.save(ctx, KeySuppliers, b.suppliers); err != nil {
		return ledger.Supplier{}, err
	}
	return s, nil
}

func (b *Books) RenameSupplier(ctx context.Context, id ledger.RecordID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ledger.ErrEmptyName
	}
	i := supplierIndex(b.suppliers, id)
	if i < 0 {
		return ledger.ErrUnknownSupplier
	}
	b.suppliers[i].Name = name
	return b.save(ctx, KeySuppliers, b.suppliers)
}

// DeleteSupplier removes a supplier with all of its invoices and payments
// after the user confirms.
func (b *Books) DeleteSupplier(ctx context.Context, id ledger.RecordID) error {
	i := supplierIndex(b.suppliers, id)
	if i < 0 {
		return ledger.ErrUnknownSupplier
	}
	ok, err := b.prompter.Confirm(ctx, "¿Está seguro de que desea eliminar este proveedor y todos sus datos?")
	if err != nil {
		return err
	}
	if !ok {
		return ErrDeclined
	}

	b.suppliers = append(b.suppliers[:i], b.suppliers[i+1:]...)
	keptInv := b.invoices[:0]
	for _, inv := range b.invoices {
		if inv.SupplierID != id {
			keptInv = append(keptInv, inv)
		}
	}
	b.invoices = keptInv
	keptPay := b.payments[:0]
	for _, p := range b.payments {
		if p.SupplierID != id {
			keptPay = append(keptPay, p)
		}
	}
	b.payments = keptPay

	if err := b.save(ctx, KeySuppliers, b.suppliers); err != nil {
		return err
	}
	if err := b.save(ctx, KeyInvoices, b.invoices); err != nil {
		return err
	}
	return b.save(ctx, KeyPayments, b.payments)
}

// SupplierBalance returns the outstanding balance with a supplier. May be
// negative when overpaid.
func (b *Books) SupplierBalance(id ledger.RecordID) decimal.Decimal {
	return ledger.SupplierBalance(id, b.invoices, b.payments)
}

// InvoicesOf returns a supplier's invoices, newest issue date first.
func (b *Books) InvoicesOf(supplierID ledger.RecordID) []ledger.Invoice {
	var out []ledger.Invoice
	for _, inv := range b.invoices {
		if inv.SupplierID == supplierID {
			out = append(out, inv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].IssueDate.Before(out[i].IssueDate)
	})
	return out
}

// PaymentsOf returns a supplier's payments, newest first.
func (b *Books) PaymentsOf(supplierID ledger.RecordID) []ledger.Payment {
	var out []ledger.Payment
	for _, p := range b.payments {
		if p.SupplierID == supplierID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Date.Before(out[i].Date)
	})
	return out
}

// DueAlerts buckets suppliers with positive balances by invoice due dates
// relative to today.
func (b *Books) DueAlerts(today ledger.Date) ledger.Alerts {
	return ledger.ClassifyDue(today, b.suppliers, b.invoices, b.payments)
}

// =============================================================================
// INVOICES
// =============================================================================

// AddInvoice records a supplier invoice. A nil due date defaults to seven
// days after the issue date; a negative rejection is stored as zero.
func (b *Books) AddInvoice(ctx context.Context, supplierID ledger.RecordID, issue ledger.Date, due *ledger.Date, number string, amount, rejection decimal.Decimal) (ledger.Invoice, error) {
	if supplierIndex(b.suppliers, supplierID) < 0 {
		return ledger.Invoice{}, ledger.ErrUnknownSupplier
	}
	number = strings.TrimSpace(number)
	if number == "" {
		return ledger.Invoice{}, ledger.ErrEmptyNumber
	}
	if !amount.IsPositive() {
		return ledger.Invoice{}, ledger.ErrInvalidAmount
	}
	if due == nil {
		d := issue.AddDays(7)
		due = &d
	}
	if rejection.IsNegative() {
		rejection = decimal.Zero
	}

	inv := ledger.Invoice{
		ID:         b.nextID(),
		SupplierID: supplierID,
		IssueDate:  issue,
		DueDate:    due,
		Number:     number,
		Amount:     amount,
		Rejection:  rejection,
	}
	b.invoices = append(b.invoices, inv)
	if err := b.save(ctx, KeyInvoices, b.invoices); err != nil {
		return ledger.Invoice{}, err
	}
	return inv, nil
}

func (b *Books) EditInvoice(ctx context.Context, id ledger.RecordID, issue ledger.Date, due *ledger.Date, number string, amount, rejection decimal.Decimal) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return ledger.ErrEmptyNumber
	}
	if !amount.IsPositive() {
		return ledger.ErrInvalidAmount
	}
	if rejection.IsNegative() {
		rejection = decimal.Zero
	}
	for i := range b.invoices {
		if b.invoices[i].ID == id {
			b.invoices[i].IssueDate = issue
			b.invoices[i].DueDate = due
			b.invoices[i].Number = number
			b.invoices[i].Amount = amount
			b.invoices[i].Rejection = rejection
			return b.save(ctx, KeyInvoices, b.invoices)
		}
	}
	return ledger.ErrRecordNotFound
}

func (b *Books) DeleteInvoice(ctx context.Context, id ledger.RecordID) error {
	for i := range b.invoices {
		if b.invoices[i].ID == id {
			ok, err := b.prompter.Confirm(ctx, "¿Está seguro de que desea eliminar esta factura?")
			if err != nil {
				return err
			}
			if !ok {
				return ErrDeclined
			}
			b.invoices = append(b.invoices[:i], b.invoices[i+1:]...)
			return b.save(ctx, KeyInvoices, b.invoices)
		}
	}
	return ledger.ErrRecordNotFound
}

// =============================================================================
// PAYMENTS
// =============================================================================

func (b *Books) AddPayment(ctx context.Context, supplierID ledger.RecordID, amount decimal.Decimal, date ledger.Date) (ledger.Payment, error) {
	if supplierIndex(b.suppliers, supplierID) < 0 {
		return ledger.Payment{}, ledger.ErrUnknownSupplier
	}
	if !amount.IsPositive() {
		return ledger.Payment{}, ledger.ErrInvalidAmount
	}
	p := ledger.Payment{ID: b.nextID(), SupplierID: supplierID, Amount: amount, Date: date}
	b.payments = append(b.payments, p)
	if err := b.save(ctx, KeyPayments, b.payments); err != nil {
		return ledger.Payment{}, err
	}
	return p, nil
}

func (b *Books) EditPayment(ctx context.Context, id ledger.RecordID, amount decimal.Decimal, date ledger.Date) error {
	if !amount.IsPositive() {
		return ledger.ErrInvalidAmount
	}
	for i := range b.payments {
		if b.payments[i].ID == id {
			b.payments[i].Amount = amount
			b.payments[i].Date = date
			return b.save(ctx, KeyPayments, b.payments)
		}
	}
	return ledger.ErrRecordNotFound
}

func (b *Books) DeletePayment(ctx context.Context, id ledger.RecordID) error {
	for i := range b.payments {
		if b.payments[i].ID == id {
			ok, err := b.prompter.Confirm(ctx, "¿Está seguro de que desea eliminar este pago?")
			if err != nil {
				return err
			}
			if !ok {
				return ErrDeclined
			}
			b.payments = append(b.payments[:i], b.payments[i+1:]...)
			return b.save(ctx, KeyPayments, b.payments)
		}
	}
	return ledger.ErrRecordNotFound
}

// =============================================================================
// HELPERS
// =============================================================================

func (b *Books) save(ctx context.Context, key string, records any) error {
	if err := b.store.Save(ctx, key, records); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func customerIndex(customers []ledger.Customer, id ledger.RecordID) int {
	for i := range customers {
		if customers[i].ID == id {
			return i
		}
	}
	return -1
}

func supplierIndex(suppliers []ledger.Supplier, id ledger.RecordID) int {
	for i := range suppliers {
		if suppliers[i].ID == id {
			return i
		}
	}
	return -1
}

// silentPrompter accepts every confirmation and drops notifications.
type silentPrompter struct{}

func (silentPrompter) Confirm(context.Context, string) (bool, error) { return true, nil }
func (silentPrompter) Notify(context.Context, string) error         { return nil }

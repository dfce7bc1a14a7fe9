/*
transfer.go - Workbook export and confirmed import

PURPOSE:
  Bridges the books service and the sheet package. Exports render the
  current lists to xlsx bytes; imports parse uploaded bytes, show the
  user what was found, and merge only on confirmation.

CONFIRM BOUNDARY:
  Parsing never mutates state. The merge happens after Prompter.Confirm
  accepts the parsed counts; a decline returns ErrDeclined with nothing
  written. An upload that yields no usable rows is reported via Notify
  and merges nothing.
*/
package books

import (
	"context"
	"fmt"

	"github.com/almacen/bookkeeper/ledger"
	"github.com/almacen/bookkeeper/sheet"
)

// =============================================================================
// EXPORT
// =============================================================================

// ExportCustomerDebts renders the customer debt report. Returns the
// suggested filename and the xlsx bytes.
func (b *Books) ExportCustomerDebts(ctx context.Context) (string, []byte, error) {
	wb := b.mapper.CustomerWorkbook(b.customers, b.debts)
	data, err := b.codec.BuildSheet(wb)
	if err != nil {
		return "", nil, fmt.Errorf("build customer report: %w", err)
	}
	return sheet.CustomerReportFilename, data, nil
}

// ExportSupplier renders a single supplier's invoice and payment report.
func (b *Books) ExportSupplier(ctx context.Context, supplierID ledger.RecordID) (string, []byte, error) {
	i := supplierIndex(b.suppliers, supplierID)
	if i < 0 {
		return "", nil, ledger.ErrUnknownSupplier
	}
	supplier := b.suppliers[i]

	wb := b.mapper.SupplierWorkbook(supplier, b.invoices, b.payments)
	data, err := b.codec.BuildSheet(wb)
	if err != nil {
		return "", nil, fmt.Errorf("build supplier report: %w", err)
	}
	return sheet.SupplierReportFilename(supplier.Name), data, nil
}

// =============================================================================
// IMPORT
// =============================================================================

// CustomerImportPreview reports what a customer workbook parsed to.
type CustomerImportPreview struct {
	NewCustomers int `json:"new_customers"`
	Debts        int `json:"debts"`
}

// SupplierImportPreview reports what a supplier workbook parsed to.
type SupplierImportPreview struct {
	Invoices int `json:"invoices"`
	Payments int `json:"payments"`
}

// PreviewCustomerImport parses a customer workbook without touching state.
func (b *Books) PreviewCustomerImport(ctx context.Context, data []byte) (CustomerImportPreview, error) {
	rows, err := b.codec.ParseSheet(data)
	if err != nil {
		return CustomerImportPreview{}, err
	}
	batch := b.mapper.ParseCustomerRows(rows, b.customers, b.lastID+1)
	return CustomerImportPreview{NewCustomers: len(batch.NewCustomers), Debts: len(batch.Debts)}, nil
}

// ImportCustomerWorkbook parses, confirms, and merges a customer debt
// workbook. Names matching an existing customer attach debts to it; the
// rest become new customers.
func (b *Books) ImportCustomerWorkbook(ctx context.Context, data []byte) (CustomerImportPreview, error) {
	rows, err := b.codec.ParseSheet(data)
	if err != nil {
		return CustomerImportPreview{}, err
	}

	base := b.reserveIDs(len(rows))
	batch := b.mapper.ParseCustomerRows(rows, b.customers, base)
	preview := CustomerImportPreview{NewCustomers: len(batch.NewCustomers), Debts: len(batch.Debts)}

	if preview.Debts == 0 {
		if err := b.prompter.Notify(ctx, "No se encontraron datos válidos para importar."); err != nil {
			return preview, err
		}
		return preview, nil
	}

	msg := fmt.Sprintf("Se importarán %d clientes nuevos y %d deudas. ¿Desea continuar?",
		preview.NewCustomers, preview.Debts)
	ok, err := b.prompter.Confirm(ctx, msg)
	if err != nil {
		return preview, err
	}
	if !ok {
		return preview, ErrDeclined
	}

	b.customers = append(b.customers, batch.NewCustomers...)
	b.debts = append(b.debts, batch.Debts...)
	if err := b.save(ctx, KeyCustomers, b.customers); err != nil {
		return preview, err
	}
	if err := b.save(ctx, KeyDebts, b.debts); err != nil {
		return preview, err
	}

	if err := b.prompter.Notify(ctx, "Importación completada correctamente."); err != nil {
		return preview, err
	}
	return preview, nil
}

// PreviewSupplierImport parses a supplier workbook without touching state.
func (b *Books) PreviewSupplierImport(ctx context.Context, supplierID ledger.RecordID, data []byte) (SupplierImportPreview, error) {
	if supplierIndex(b.suppliers, supplierID) < 0 {
		return SupplierImportPreview{}, ledger.ErrUnknownSupplier
	}
	rows, err := b.codec.ParseSheet(data)
	if err != nil {
		return SupplierImportPreview{}, err
	}
	batch := b.mapper.ParseSupplierRows(rows, supplierID, b.lastID+1)
	return SupplierImportPreview{Invoices: len(batch.Invoices), Payments: len(batch.Payments)}, nil
}

// ImportSupplierWorkbook parses, confirms, and merges invoices and
// payments for one supplier.
func (b *Books) ImportSupplierWorkbook(ctx context.Context, supplierID ledger.RecordID, data []byte) (SupplierImportPreview, error) {
	i := supplierIndex(b.suppliers, supplierID)
	if i < 0 {
		return SupplierImportPreview{}, ledger.ErrUnknownSupplier
	}
	rows, err := b.codec.ParseSheet(data)
	if err != nil {
		return SupplierImportPreview{}, err
	}

	base := b.reserveIDs(len(rows))
	batch := b.mapper.ParseSupplierRows(rows, supplierID, base)
	preview := SupplierImportPreview{Invoices: len(batch.Invoices), Payments: len(batch.Payments)}

	if preview.Invoices == 0 && preview.Payments == 0 {
		if err := b.prompter.Notify(ctx, "No se encontraron datos válidos para importar."); err != nil {
			return preview, err
		}
		return preview, nil
	}

	msg := fmt.Sprintf("Se importarán %d facturas y %d pagos para %s. ¿Desea continuar?",
		preview.Invoices, preview.Payments, b.suppliers[i].Name)
	ok, err := b.prompter.Confirm(ctx, msg)
	if err != nil {
		return preview, err
	}
	if !ok {
		return preview, ErrDeclined
	}

	b.invoices = append(b.invoices, batch.Invoices...)
	b.payments = append(b.payments, batch.Payments...)
	if err := b.save(ctx, KeyInvoices, b.invoices); err != nil {
		return preview, err
	}
	if err := b.save(ctx, KeyPayments, b.payments); err != nil {
		return preview, err
	}

	if err := b.prompter.Notify(ctx, "Importación completada correctamente."); err != nil {
		return preview, err
	}
	return preview, nil
}

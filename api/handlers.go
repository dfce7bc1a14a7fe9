/*
handlers.go - HTTP API handlers for the bookkeeping service

PURPOSE:
  Exposes the books service via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Customers:
    GET    /api/customers                 List customers with balances
    POST   /api/customers                 Create customer
    PUT    /api/customers/{id}            Rename customer
    DELETE /api/customers/{id}            Delete customer and its debts
    GET    /api/customers/{id}/debts      List a customer's debts
    POST   /api/customers/{id}/debts      Add a debt
    GET    /api/customers/export          Download debt report (xlsx)
    POST   /api/customers/import          Preview or commit a debt workbook

  Debts:
    PUT    /api/debts/{id}                Edit a debt
    DELETE /api/debts/{id}                Delete a debt

  Suppliers:
    GET    /api/suppliers                 List suppliers with balances
    POST   /api/suppliers                 Create supplier
    PUT    /api/suppliers/{id}            Rename supplier
    DELETE /api/suppliers/{id}            Delete supplier with all records
    GET    /api/suppliers/{id}/invoices   List invoices
    POST   /api/suppliers/{id}/invoices   Add an invoice
    GET    /api/suppliers/{id}/payments   List payments
    POST   /api/suppliers/{id}/payments   Add a payment
    GET    /api/suppliers/{id}/export     Download supplier report (xlsx)
    POST   /api/suppliers/{id}/import     Preview or commit a workbook

  Invoices/Payments:
    PUT    /api/invoices/{id}             Edit an invoice
    DELETE /api/invoices/{id}             Delete an invoice
    PUT    /api/payments/{id}             Edit a payment
    DELETE /api/payments/{id}             Delete a payment

  Dashboard:
    GET    /api/dashboard/alerts          Due-date buckets (?today=yyyy-mm-dd)

IMPORT FLOW:
  POST without ?confirm=true parses the upload and returns counts only.
  POST with ?confirm=true commits. The HTTP deployment injects an
  auto-accepting prompter, so the confirm decision lives with the client
  and the query parameter is the confirmation.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, unreadable workbooks, invalid input
  - 404: Record not found
  - 409: Operation declined
  - 500: Internal errors

CONCURRENCY:
  The books service is single-threaded; a handler-level mutex serializes
  all requests. Fine for a single-shop deployment.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/almacen/bookkeeper/books"
	"github.com/almacen/bookkeeper/ledger"
	"github.com/almacen/bookkeeper/sheet"
)

// maxUploadSize caps workbook uploads at 10 MiB.
const maxUploadSize = 10 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	mu    sync.Mutex
	Books *books.Books
	Log   zerolog.Logger
}

// NewHandler creates a new handler around an opened books service.
func NewHandler(b *books.Books, log zerolog.Logger) *Handler {
	return &Handler{Books: b, Log: log}
}

// =============================================================================
// CUSTOMER HANDLERS
// =============================================================================

// ListCustomers returns all customers with balances.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	customers := h.Books.Customers()
	dtos := make([]CustomerDTO, len(customers))
	for i, c := range customers {
		dtos[i] = CustomerDTO{ID: c.ID, Name: c.Name, Balance: h.Books.CustomerBalance(c.ID)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCustomer creates a new customer.
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	c, err := h.Books.AddCustomer(r.Context(), req.Name)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CustomerDTO{ID: c.ID, Name: c.Name, Balance: h.Books.CustomerBalance(c.ID)})
}

// RenameCustomer updates a customer's name.
func (h *Handler) RenameCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Books.RenameCustomer(r.Context(), id, req.Name); err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CustomerDTO{ID: id, Name: req.Name, Balance: h.Books.CustomerBalance(id)})
}

// DeleteCustomer removes a customer and all of its debts.
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Books.DeleteCustomer(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListDebts returns a customer's debts, newest first.
func (h *Handler) ListDebts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	debts := h.Books.DebtsOf(id)
	dtos := make([]DebtDTO, len(debts))
	for i, d := range debts {
		dtos[i] = toDebtDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateDebt adds a debt to a customer.
func (h *Handler) CreateDebt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req DebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := ledger.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	d, err := h.Books.AddDebt(r.Context(), id, req.Amount, date)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDebtDTO(d))
}

// UpdateDebt edits a debt's amount and date.
func (h *Handler) UpdateDebt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req DebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := ledger.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Books.EditDebt(r.Context(), id, req.Amount, date); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteDebt removes a debt.
func (h *Handler) DeleteDebt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Books.DeleteDebt(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportCustomers downloads the customer debt report.
func (h *Handler) ExportCustomers(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	name, data, err := h.Books.ExportCustomerDebts(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeAttachment(w, name, data)
}

// ImportCustomers previews or commits a customer debt workbook.
// POST /api/customers/import?confirm=true
func (h *Handler) ImportCustomers(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read upload", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if r.URL.Query().Get("confirm") != "true" {
		preview, err := h.Books.PreviewCustomerImport(r.Context(), data)
		if err != nil {
			h.respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ImportCustomerDTO{CustomerImportPreview: preview})
		return
	}

	result, err := h.Books.ImportCustomerWorkbook(r.Context(), data)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ImportCustomerDTO{CustomerImportPreview: result, Imported: result.Debts > 0})
}

// =============================================================================
// SUPPLIER HANDLERS
// =============================================================================

// ListSuppliers returns all suppliers with balances.
func (h *Handler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	suppliers := h.Books.Suppliers()
	dtos := make([]SupplierDTO, len(suppliers))
	for i, s := range suppliers {
		dtos[i] = SupplierDTO{ID: s.ID, Name: s.Name, Balance: h.Books.SupplierBalance(s.ID)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateSupplier creates a new supplier.
func (h *Handler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	s, err := h.Books.AddSupplier(r.Context(), req.Name)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, SupplierDTO{ID: s.ID, Name: s.Name, Balance: h.Books.SupplierBalance(s.ID)})
}

// RenameSupplier updates a supplier's name.
func (h *Handler) RenameSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Books.RenameSupplier(r.Context(), id, req.Name); err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SupplierDTO{ID: id, Name: req.Name, Balance: h.Books.SupplierBalance(id)})
}

// DeleteSupplier removes a supplier with its invoices and payments.
func (h *Handler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Books.DeleteSupplier(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListInvoices returns a supplier's invoices, newest first.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	invoices := h.Books.InvoicesOf(id)
	dtos := make([]InvoiceDTO, len(invoices))
	for i, inv := range invoices {
		dtos[i] = toInvoiceDTO(inv)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateInvoice adds an invoice to a supplier.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, issue, due, ok := decodeInvoice(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	inv, err := h.Books.AddInvoice(r.Context(), id, issue, due, req.Number, req.Amount, req.Rejection)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInvoiceDTO(inv))
}

// UpdateInvoice edits an invoice.
func (h *Handler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, issue, due, ok := decodeInvoice(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Books.EditInvoice(r.Context(), id, issue, due, req.Number, req.Amount, req.Rejection); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteInvoice removes an invoice.
func (h *Handler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Books.DeleteInvoice(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPayments returns a supplier's payments, newest first.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	payments := h.Books.PaymentsOf(id)
	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toPaymentDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePayment adds a payment to a supplier.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := ledger.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	p, err := h.Books.AddPayment(r.Context(), id, req.Amount, date)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentDTO(p))
}

// UpdatePayment edits a payment.
func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := ledger.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Books.EditPayment(r.Context(), id, req.Amount, date); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeletePayment removes a payment.
func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Books.DeletePayment(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportSupplier downloads a single supplier's report.
func (h *Handler) ExportSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	name, data, err := h.Books.ExportSupplier(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeAttachment(w, name, data)
}

// ImportSupplier previews or commits a supplier workbook.
// POST /api/suppliers/{id}/import?confirm=true
func (h *Handler) ImportSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	data, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read upload", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if r.URL.Query().Get("confirm") != "true" {
		preview, err := h.Books.PreviewSupplierImport(r.Context(), id, data)
		if err != nil {
			h.respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ImportSupplierDTO{SupplierImportPreview: preview})
		return
	}

	result, err := h.Books.ImportSupplierWorkbook(r.Context(), id, data)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ImportSupplierDTO{
		SupplierImportPreview: result,
		Imported:              result.Invoices > 0 || result.Payments > 0,
	})
}

// =============================================================================
// DASHBOARD HANDLERS
// =============================================================================

// DueAlerts returns the due-date buckets.
// GET /api/dashboard/alerts?today=2025-09-09
func (h *Handler) DueAlerts(w http.ResponseWriter, r *http.Request) {
	today := ledger.Today()
	if s := r.URL.Query().Get("today"); s != "" {
		parsed, err := ledger.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid today format (use YYYY-MM-DD)", err)
			return
		}
		today = parsed
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	writeJSON(w, http.StatusOK, h.Books.DueAlerts(today))
}

// =============================================================================
// HELPERS
// =============================================================================

// respondError maps domain errors to HTTP statuses.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case ledger.IsValidation(err), errors.Is(err, sheet.ErrBadWorkbook):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, books.ErrDeclined):
		writeError(w, http.StatusConflict, "Operation declined", err)
	default:
		h.Log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func decodeInvoice(w http.ResponseWriter, r *http.Request) (InvoiceRequest, ledger.Date, *ledger.Date, bool) {
	var req InvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return req, ledger.Date{}, nil, false
	}
	issue, err := ledger.ParseDate(req.IssueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid issue_date format (use YYYY-MM-DD)", err)
		return req, ledger.Date{}, nil, false
	}
	var due *ledger.Date
	if req.DueDate != nil {
		d, err := ledger.ParseDate(*req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid due_date format (use YYYY-MM-DD)", err)
			return req, ledger.Date{}, nil, false
		}
		due = &d
	}
	return req, issue, due, true
}

func pathID(w http.ResponseWriter, r *http.Request) (ledger.RecordID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id", err)
		return 0, false
	}
	return ledger.RecordID(id), true
}

func readUpload(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(io.LimitReader(r.Body, maxUploadSize))
}

func writeAttachment(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// =============================================================================
// PROMPTER - Server-side confirmation policy
// =============================================================================

// autoPrompter accepts every confirmation and logs notifications. Over
// HTTP the client confirms before calling with ?confirm=true, so the
// service-level prompt is already answered.
type autoPrompter struct {
	log zerolog.Logger
}

// NewAutoPrompter returns the prompter used by the HTTP deployment.
func NewAutoPrompter(log zerolog.Logger) books.Prompter {
	return autoPrompter{log: log}
}

func (p autoPrompter) Confirm(_ context.Context, message string) (bool, error) {
	p.log.Debug().Str("prompt", message).Msg("auto-confirmed")
	return true, nil
}

func (p autoPrompter) Notify(_ context.Context, message string) error {
	p.log.Info().Str("notice", message).Msg("notice")
	return nil
}

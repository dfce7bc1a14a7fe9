/*
store.go - Persistence and interaction interfaces for the books service

PURPOSE:
  Defines the two capabilities the service needs injected: a blob store for
  record lists and a prompter for confirmation dialogs. Both are interfaces
  so tests can script them.

STORAGE MODEL:
  Each record list persists as one JSON document under a fixed key. Writes
  replace the whole list; there is no per-record storage. The lists are
  small (a single shop's books), so whole-list replacement keeps every
  implementation trivial and every save atomic per list.

IMPLEMENTATIONS:
  - books/store/memory.go: In-memory for testing
  - store/sqlite/sqlite.go: Production SQLite
*/
package books

import "context"

// =============================================================================
// RECORD STORE - JSON document persistence per record list
// =============================================================================

// Storage keys, one per record list.
const (
	KeyCustomers = "customers"
	KeyDebts     = "debts"
	KeySuppliers = "suppliers"
	KeyInvoices  = "invoices"
	KeyPayments  = "payments"
)

// RecordStore persists record lists as JSON documents keyed by list name.
type RecordStore interface {
	// Load unmarshals the document stored under key into out. A key that
	// was never saved leaves out untouched and returns nil.
	Load(ctx context.Context, key string, out any) error

	// Save marshals records and replaces the document under key.
	Save(ctx context.Context, key string, records any) error
}

// =============================================================================
// PROMPTER - Confirmation and notification capability
// =============================================================================

// Prompter asks the user to confirm destructive or bulk operations and
// delivers outcome notices. Messages are user-facing, already localized.
type Prompter interface {
	// Confirm asks a yes/no question. false means the user declined.
	Confirm(ctx context.Context, message string) (bool, error)

	// Notify delivers an informational message.
	Notify(ctx context.Context, message string) error
}

package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almacen/bookkeeper/books"
	"github.com/almacen/bookkeeper/ledger"
	"github.com/almacen/bookkeeper/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestStore_LoadMissingKeyLeavesOutUntouched(t *testing.T) {
	st := newTestStore(t)

	customers := []ledger.Customer{{ID: 1, Name: "sentinel"}}
	require.NoError(t, st.Load(context.Background(), books.KeyCustomers, &customers))

	require.Len(t, customers, 1)
	assert.Equal(t, "sentinel", customers[0].Name)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	// GIVEN: A saved record list with dates and decimals
	// WHEN: Loading it back
	// THEN: Every field survives the JSON round-trip

	st := newTestStore(t)
	ctx := context.Background()

	due := ledger.NewDate(2025, time.September, 16)
	in := []ledger.Invoice{{
		ID:         1725000000000,
		SupplierID: 42,
		IssueDate:  ledger.NewDate(2025, time.September, 9),
		DueDate:    &due,
		Number:     "0003-00001234",
		Amount:     decimal.RequireFromString("1500.75"),
		Rejection:  decimal.RequireFromString("0.25"),
	}}
	require.NoError(t, st.Save(ctx, books.KeyInvoices, in))

	var out []ledger.Invoice
	require.NoError(t, st.Load(ctx, books.KeyInvoices, &out))

	require.Len(t, out, 1)
	assert.Equal(t, in[0].ID, out[0].ID)
	assert.Equal(t, "2025-09-09", out[0].IssueDate.String())
	require.NotNil(t, out[0].DueDate)
	assert.Equal(t, "2025-09-16", out[0].DueDate.String())
	assert.True(t, out[0].Amount.Equal(in[0].Amount))
	assert.True(t, out[0].Rejection.Equal(in[0].Rejection))
}

func TestStore_SaveReplacesDocument(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, books.KeyCustomers, []ledger.Customer{{ID: 1, Name: "Ana"}}))
	require.NoError(t, st.Save(ctx, books.KeyCustomers, []ledger.Customer{{ID: 2, Name: "Beto"}}))

	var out []ledger.Customer
	require.NoError(t, st.Load(ctx, books.KeyCustomers, &out))

	require.Len(t, out, 1)
	assert.Equal(t, "Beto", out[0].Name)
}

func TestStore_KeysAreIndependent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, books.KeyCustomers, []ledger.Customer{{ID: 1, Name: "Ana"}}))
	require.NoError(t, st.Save(ctx, books.KeySuppliers, []ledger.Supplier{{ID: 2, Name: "Sur"}}))

	var customers []ledger.Customer
	var suppliers []ledger.Supplier
	require.NoError(t, st.Load(ctx, books.KeyCustomers, &customers))
	require.NoError(t, st.Load(ctx, books.KeySuppliers, &suppliers))

	require.Len(t, customers, 1)
	require.Len(t, suppliers, 1)
	assert.Equal(t, "Ana", customers[0].Name)
	assert.Equal(t, "Sur", suppliers[0].Name)
}

func TestStore_Reset(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, books.KeyCustomers, []ledger.Customer{{ID: 1, Name: "Ana"}}))
	require.NoError(t, st.Reset(ctx))

	var out []ledger.Customer
	require.NoError(t, st.Load(ctx, books.KeyCustomers, &out))
	assert.Empty(t, out)
}

func TestStore_WorksAsBooksBackend(t *testing.T) {
	// GIVEN: A books service on a SQLite store
	// WHEN: Writing through one instance and opening another
	// THEN: State persists across instances

	st := newTestStore(t)
	ctx := context.Background()

	b1, err := books.Open(ctx, st, books.Options{})
	require.NoError(t, err)
	ana, err := b1.AddCustomer(ctx, "Ana")
	require.NoError(t, err)
	_, err = b1.AddDebt(ctx, ana.ID, decimal.RequireFromString("100"), ledger.NewDate(2025, time.August, 1))
	require.NoError(t, err)

	b2, err := books.Open(ctx, st, books.Options{})
	require.NoError(t, err)
	assert.Len(t, b2.Customers(), 1)
	assert.True(t, b2.CustomerBalance(ana.ID).Equal(decimal.RequireFromString("100")))
}

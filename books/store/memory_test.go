package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almacen/bookkeeper/books/store"
	"github.com/almacen/bookkeeper/ledger"
)

func TestMemory_SaveLoadRoundTrip(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	in := []ledger.Customer{{ID: 1, Name: "Ana"}}
	require.NoError(t, m.Save(ctx, "customers", in))

	var out []ledger.Customer
	require.NoError(t, m.Load(ctx, "customers", &out))
	assert.Equal(t, in, out)
}

func TestMemory_LoadMissingKeyIsNoop(t *testing.T) {
	m := store.NewMemory()

	out := []ledger.Customer{{ID: 9, Name: "sentinel"}}
	require.NoError(t, m.Load(context.Background(), "customers", &out))
	require.Len(t, out, 1)
	assert.Equal(t, "sentinel", out[0].Name)
}

func TestMemory_StoresJSONDocuments(t *testing.T) {
	// Documents are stored marshaled, the same shape the SQLite store keeps.
	m := store.NewMemory()
	require.NoError(t, m.Save(context.Background(), "customers", []ledger.Customer{{ID: 1, Name: "Ana"}}))

	raw, ok := m.Raw("customers")
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":1,"name":"Ana"}]`, string(raw))
}

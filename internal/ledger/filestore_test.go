package ledger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.json")
	ctx := context.Background()
	recordedAt := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	store, err := NewFileStore(path, quietLogger())
	require.NoError(t, err)
	sale := sampleSale(recordedAt)
	require.NoError(t, store.Append(ctx, sale))

	reopened, err := NewFileStore(path, quietLogger())
	require.NoError(t, err)

	sales, err := reopened.SalesBetween(ctx, recordedAt.Add(-time.Hour), recordedAt.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, sale.ID, sales[0].ID)

	// id sequence continues after reopen
	next := sampleSale(recordedAt.Add(time.Minute))
	require.NoError(t, reopened.Append(ctx, next))
	assert.Greater(t, next.ID, sale.ID)
}

func TestFileStoreSkipsMalformedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.json")
	ctx := context.Background()
	recordedAt := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	store, err := NewFileStore(path, quietLogger())
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, sampleSale(recordedAt)))

	// corrupt one record in place, keep the document itself valid
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	var rawSales []json.RawMessage
	require.NoError(t, json.Unmarshal(doc["sales"], &rawSales))
	rawSales = append(rawSales, json.RawMessage(`{"id":"not-a-number"}`))
	patched, err := json.Marshal(rawSales)
	require.NoError(t, err)
	doc["sales"] = patched
	data, err = json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	sales, err := store.SalesBetween(ctx, recordedAt.Add(-time.Hour), recordedAt.Add(time.Hour))
	require.NoError(t, err)
	// the intact sale is still served, the broken one is dropped
	require.Len(t, sales, 1)
	assert.Equal(t, "Wollsocken", sales[0].Lines[0].ItemName)
}

func TestFileStoreEmptyPathRejected(t *testing.T) {
	_, err := NewFileStore("", quietLogger())
	assert.Error(t, err)
}

package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/models"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), logger.New("test"))
	require.NoError(t, err)
	return s
}

func TestCartRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	items := []models.LineItem{{
		ID: "B1", Name: "Chicken Burger", UnitPrice: decimal.NewFromInt(10),
		Quantity: 2, Kind: models.KindSingle,
	}}
	require.NoError(t, s.Save(ctx, "alice", items))

	got, err := s.Load(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B1", got[0].ID)
	assert.Equal(t, 2, got[0].Quantity)
	assert.True(t, got[0].UnitPrice.Equal(decimal.NewFromInt(10)))
}

func TestCartIsolationBetweenUsers(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Save(ctx, "alice", []models.LineItem{
		{ID: "B1", Name: "Chicken Burger", Quantity: 1, Kind: models.KindSingle},
	}))
	require.NoError(t, s.Save(ctx, "bob", []models.LineItem{
		{ID: "D1", Name: "Coke", Quantity: 3, Kind: models.KindSingle},
	}))

	// Clearing alice must not touch bob.
	require.NoError(t, s.Save(ctx, "alice", nil))

	alice, err := s.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, alice)

	bob, err := s.Load(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bob, 1)
	assert.Equal(t, "D1", bob[0].ID)
}

func TestOrderRegistryRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	orders := map[string]models.Order{
		"D01": {ID: "D01", Type: models.DineIn, TableNumber: "4", Status: models.StatusPending,
			Items: []models.OrderLine{{ItemID: "B1", Quantity: 1}}},
	}
	require.NoError(t, s.SaveAll(ctx, orders))

	got, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Contains(t, got, "D01")
	assert.Equal(t, models.StatusPending, got["D01"].Status)
	assert.Equal(t, "4", got["D01"].TableNumber)
}

func TestTransactionAppendRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	tx := models.Transaction{OrderID: "T01", PaymentMethod: models.PayCash}
	require.NoError(t, s.Append(ctx, tx))

	err := s.Append(ctx, tx)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrStateConflict)

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCountersAdvanceIndependently(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	n, err := s.Next(ctx, models.DineIn)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.Next(ctx, models.DineIn)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.Next(ctx, models.Takeaway)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMalformedFileTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := New(dir, logger.New("test"))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, activeOrdersFile), []byte("{not json"), 0o644))

	orders, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestMenuKeysBecomeIDs(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := New(dir, logger.New("test"))
	require.NoError(t, err)

	body := `{"B1": {"name": "Chicken Burger", "price": "10.00", "category": "Burgers"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, menuFile), []byte(body), 0o644))

	menu, err := s.Menu(ctx)
	require.NoError(t, err)
	require.Contains(t, menu, "B1")
	assert.Equal(t, "B1", menu["B1"].ID)
	assert.Equal(t, "Chicken Burger", menu["B1"].Name)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := New(dir, logger.New("test"))
	require.NoError(t, err)

	require.NoError(t, s.SaveAll(ctx, map[string]models.Order{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

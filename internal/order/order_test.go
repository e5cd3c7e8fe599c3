package order

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/models"
	"restaurant-pos/internal/receipt"
	"restaurant-pos/internal/store/jsonfile"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testMenu() models.Menu {
	return models.Menu{
		"B1": {ID: "B1", Name: "Chicken Burger", Price: dec("10.00"), Category: models.CategoryBurgers},
		"D1": {ID: "D1", Name: "Coke", Price: dec("3.00"), Category: models.CategoryDrinks},
	}
}

func testService(t *testing.T) (*Service, *jsonfile.Store, string) {
	t.Helper()
	log := logger.New("test")
	st, err := jsonfile.New(t.TempDir(), log)
	require.NoError(t, err)
	receiptsDir := t.TempDir()
	sink, err := receipt.NewFileSink(receiptsDir)
	require.NoError(t, err)
	return NewService(st, st, st, st, sink, log), st, receiptsDir
}

func cartItems() []models.LineItem {
	return []models.LineItem{
		{ID: "B1", Name: "Chicken Burger", UnitPrice: dec("10.00"), Quantity: 2, Kind: models.KindSingle},
		{ID: "D1", Name: "Coke", UnitPrice: dec("3.00"), Quantity: 1, Kind: models.KindSingle, Remarks: "less ice"},
	}
}

func place(t *testing.T, s *Service, user string, orderType models.OrderType) models.Order {
	t.Helper()
	req := PlacementRequest{User: user, DisplayName: user, Type: orderType}
	if orderType == models.DineIn {
		req.TableNumber = "5"
	}
	placed, err := s.Place(context.Background(), req, cartItems())
	require.NoError(t, err)
	return placed
}

func TestPlace(t *testing.T) {
	ctx := context.Background()
	s, st, _ := testService(t)

	require.NoError(t, st.Save(ctx, "alice", cartItems()))

	placed := place(t, s, "alice", models.DineIn)

	assert.Equal(t, "D01", placed.ID)
	assert.Equal(t, models.StatusPending, placed.Status)
	assert.Equal(t, "5", placed.TableNumber)
	require.Len(t, placed.Items, 2)
	assert.Equal(t, "less ice", placed.Items[1].Remarks)
	assert.Equal(t, "Chicken Burger", placed.ItemDetails["B1"])

	// Cart must be emptied by placement.
	cart, err := st.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, cart)

	active, err := s.Active(ctx)
	require.NoError(t, err)
	assert.Contains(t, active, "D01")
}

func TestPlace_EmptyCart(t *testing.T) {
	s, _, _ := testService(t)

	_, err := s.Place(context.Background(), PlacementRequest{User: "alice", Type: models.Takeaway}, nil)
	assert.ErrorIs(t, err, models.ErrStateConflict)
}

func TestPlace_SequentialIDsPerType(t *testing.T) {
	s, _, _ := testService(t)

	assert.Equal(t, "D01", place(t, s, "alice", models.DineIn).ID)
	assert.Equal(t, "D02", place(t, s, "bob", models.DineIn).ID)
	assert.Equal(t, "T01", place(t, s, "carol", models.Takeaway).ID)
}

func TestPlace_DineInRequiresTableNumber(t *testing.T) {
	s, _, _ := testService(t)

	_, err := s.Place(context.Background(),
		PlacementRequest{User: "alice", Type: models.DineIn, TableNumber: "front"}, cartItems())
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()
	s, _, _ := testService(t)
	placed := place(t, s, "alice", models.Takeaway)

	require.NoError(t, s.SetStatus(ctx, placed.ID, models.StatusPreparing, "cashier"))

	got, err := s.Get(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, got.Status)
}

func TestSetStatus_TerminalStatusesRejected(t *testing.T) {
	ctx := context.Background()
	s, _, _ := testService(t)
	placed := place(t, s, "alice", models.Takeaway)

	for _, status := range []models.OrderStatus{models.StatusCompleted, models.StatusCancelled} {
		err := s.SetStatus(ctx, placed.ID, status, "cashier")
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	}
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	s, st, _ := testService(t)
	placed := place(t, s, "alice", models.Takeaway)

	require.NoError(t, s.Cancel(ctx, placed.ID))

	_, err := s.Get(ctx, placed.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Cancellation records no transaction.
	transactions, err := st.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, transactions)

	// And it is irreversible.
	err = s.Cancel(ctx, placed.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	s, st, receiptsDir := testService(t)
	placed := place(t, s, "alice", models.DineIn)

	tx, err := s.Checkout(ctx, placed.ID, testMenu(), models.PayCash)
	require.NoError(t, err)

	assert.NotEmpty(t, tx.RecordID)
	assert.Equal(t, placed.ID, tx.OrderID)
	assert.Equal(t, models.StatusCompleted, tx.Status)
	assert.Equal(t, models.PayCash, tx.PaymentMethod)
	// 2x10.00 + 3.00 plus 6% tax.
	assert.True(t, tx.Subtotal.Equal(dec("23.00")), "subtotal %s", tx.Subtotal)
	assert.True(t, tx.Tax.Equal(dec("1.38")), "tax %s", tx.Tax)
	assert.True(t, tx.Total.Equal(dec("24.38")), "total %s", tx.Total)

	// Order leaves the active registry.
	_, err = s.Get(ctx, placed.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Transaction is recorded.
	transactions, err := st.All(ctx)
	require.NoError(t, err)
	assert.Contains(t, transactions, placed.ID)

	// Receipt is archived.
	body, err := os.ReadFile(filepath.Join(receiptsDir, "receipt_"+placed.ID+".txt"))
	require.NoError(t, err)
	assert.Contains(t, string(body), placed.ID)
}

func TestCheckout_UnknownOrder(t *testing.T) {
	s, _, _ := testService(t)

	_, err := s.Checkout(context.Background(), "T99", testMenu(), models.PayCard)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestForUser(t *testing.T) {
	ctx := context.Background()
	s, _, _ := testService(t)

	base := time.Now()
	s.now = func() time.Time { base = base.Add(time.Minute); return base }

	first := place(t, s, "alice", models.Takeaway)
	place(t, s, "bob", models.Takeaway)
	second := place(t, s, "alice", models.DineIn)

	mine, err := s.ForUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)
}

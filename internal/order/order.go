// Package order manages the active-order lifecycle: placing orders
// from carts, staff status changes, cancellation and checkout into the
// transaction log.
package order

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/models"
	"restaurant-pos/internal/pricing"
	"restaurant-pos/internal/receipt"
	"restaurant-pos/internal/store"
)

// Service coordinates the registry, transaction log, counters, the
// originating cart store and the receipt sink.
type Service struct {
	registry     store.OrderRegistry
	transactions store.TransactionLog
	counters     store.CounterStore
	carts        store.CartStore
	receipts     store.ReceiptSink
	log          *logger.Logger
	now          func() time.Time
}

// NewService creates an order service.
func NewService(registry store.OrderRegistry, transactions store.TransactionLog,
	counters store.CounterStore, carts store.CartStore, receipts store.ReceiptSink,
	log *logger.Logger) *Service {
	return &Service{
		registry:     registry,
		transactions: transactions,
		counters:     counters,
		carts:        carts,
		receipts:     receipts,
		log:          log,
		now:          time.Now,
	}
}

// PlacementRequest carries the fulfillment details collected at
// customer checkout.
type PlacementRequest struct {
	User        string
	DisplayName string
	Type        models.OrderType
	TableNumber string
	Remarks     string
}

// Place snapshots a non-empty cart into a new Pending order, assigns
// the next sequential order ID for the fulfillment type, persists the
// registry and empties the originating cart.
func (s *Service) Place(ctx context.Context, req PlacementRequest, items []models.LineItem) (models.Order, error) {
	if len(items) == 0 {
		return models.Order{}, fmt.Errorf("%w: cannot checkout an empty cart", models.ErrStateConflict)
	}

	order := models.Order{
		SystemUser:   req.User,
		DisplayName:  req.DisplayName,
		Type:         req.Type,
		TableNumber:  req.TableNumber,
		ItemDetails:  make(map[string]string, len(items)),
		CartContents: items,
		Remarks:      req.Remarks,
		Timestamp:    s.now(),
		Status:       models.StatusPending,
	}
	for _, item := range items {
		order.Items = append(order.Items, models.OrderLine{
			ItemID:   item.ID,
			Quantity: item.Quantity,
			Remarks:  item.Remarks,
		})
		order.ItemDetails[item.ID] = item.Name
	}
	if err := order.Validate(); err != nil {
		return models.Order{}, err
	}

	seq, err := s.counters.Next(ctx, req.Type)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to allocate order number: %w", err)
	}
	order.ID = fmt.Sprintf("%s%02d", req.Type.IDPrefix(), seq)

	orders, err := s.registry.LoadAll(ctx)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to load order registry: %w", err)
	}
	orders[order.ID] = order
	if err := s.registry.SaveAll(ctx, orders); err != nil {
		return models.Order{}, fmt.Errorf("failed to save order registry: %w", err)
	}

	if err := s.carts.Save(ctx, req.User, nil); err != nil {
		return models.Order{}, fmt.Errorf("failed to clear cart for %s: %w", req.User, err)
	}

	s.log.Info("order_placed", "", fmt.Sprintf("Placed %s order %s for %s", order.Type, order.ID, req.User))
	return order, nil
}

// Active returns all active orders keyed by ID.
func (s *Service) Active(ctx context.Context) (map[string]models.Order, error) {
	orders, err := s.registry.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load order registry: %w", err)
	}
	return orders, nil
}

// Get returns one active order.
func (s *Service) Get(ctx context.Context, orderID string) (models.Order, error) {
	orders, err := s.Active(ctx)
	if err != nil {
		return models.Order{}, err
	}
	order, ok := orders[orderID]
	if !ok {
		return models.Order{}, fmt.Errorf("%w: no active order %s", models.ErrNotFound, orderID)
	}
	return order, nil
}

// ForUser returns a user's active orders, newest first.
func (s *Service) ForUser(ctx context.Context, user string) ([]models.Order, error) {
	orders, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}
	var mine []models.Order
	for _, order := range orders {
		if order.SystemUser == user {
			mine = append(mine, order)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].Timestamp.After(mine[j].Timestamp) })
	return mine, nil
}

// SetStatus sets an active order to Pending, Preparing or Served.
// Completed and Cancelled are only reachable through Checkout and
// Cancel.
func (s *Service) SetStatus(ctx context.Context, orderID string, status models.OrderStatus, changedBy string) error {
	if !status.Settable() {
		return fmt.Errorf("%w: status %s cannot be set directly", models.ErrInvalidInput, status)
	}
	orders, err := s.Active(ctx)
	if err != nil {
		return err
	}
	order, ok := orders[orderID]
	if !ok {
		return fmt.Errorf("%w: no active order %s", models.ErrNotFound, orderID)
	}
	order.Status = status
	orders[orderID] = order
	if err := s.registry.SaveAll(ctx, orders); err != nil {
		return fmt.Errorf("failed to save order registry: %w", err)
	}
	s.log.Info("status_changed", "", fmt.Sprintf("Order %s set to %s by %s", orderID, status, changedBy))
	return nil
}

// Cancel removes an order from the active registry. No transaction is
// recorded; cancellation is irreversible.
func (s *Service) Cancel(ctx context.Context, orderID string) error {
	orders, err := s.Active(ctx)
	if err != nil {
		return err
	}
	if _, ok := orders[orderID]; !ok {
		return fmt.Errorf("%w: no active order %s", models.ErrNotFound, orderID)
	}
	delete(orders, orderID)
	if err := s.registry.SaveAll(ctx, orders); err != nil {
		return fmt.Errorf("failed to save order registry: %w", err)
	}
	s.log.Info("order_cancelled", "", fmt.Sprintf("Order %s cancelled", orderID))
	return nil
}

// Checkout prices the order, writes the completed transaction, removes
// the order from the active registry and archives the receipt. The
// total is floored at zero.
func (s *Service) Checkout(ctx context.Context, orderID string, menu models.Menu, payment models.PaymentMethod) (models.Transaction, error) {
	orders, err := s.Active(ctx)
	if err != nil {
		return models.Transaction{}, err
	}
	order, ok := orders[orderID]
	if !ok {
		return models.Transaction{}, fmt.Errorf("%w: no active order %s", models.ErrNotFound, orderID)
	}

	quote := pricing.Price(&order, menu)
	total := quote.Total
	if total.IsNegative() {
		total = decimal.Zero
	}

	tx := models.Transaction{
		RecordID:      uuid.NewString(),
		OrderID:       orderID,
		Type:          order.Type,
		Items:         order.Items,
		ItemDetails:   order.ItemDetails,
		CartContents:  order.CartContents,
		Discounts:     quote.Details,
		Subtotal:      quote.Subtotal,
		Tax:           quote.Tax,
		Total:         total,
		PaymentMethod: payment,
		Timestamp:     s.now(),
		SystemUser:    order.SystemUser,
		DisplayName:   order.DisplayName,
		Status:        models.StatusCompleted,
	}

	if err := s.transactions.Append(ctx, tx); err != nil {
		return models.Transaction{}, fmt.Errorf("failed to record transaction: %w", err)
	}

	delete(orders, orderID)
	if err := s.registry.SaveAll(ctx, orders); err != nil {
		return models.Transaction{}, fmt.Errorf("failed to save order registry: %w", err)
	}

	if err := s.receipts.Write(ctx, orderID, receipt.Render(tx, menu)); err != nil {
		s.log.Warn("receipt_failed", "", fmt.Sprintf("Could not archive receipt for %s", orderID), err)
	}

	s.log.Info("order_completed", "", fmt.Sprintf("Order %s paid with %s, total RM%s",
		orderID, payment, total.StringFixed(2)))
	return tx, nil
}

// Package discount applies and removes discount ledger entries on
// active orders. Every amount is validated against the remaining
// discountable value of its scope, so stacked discounts can never
// exceed the value they target.
package discount

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/models"
	"restaurant-pos/internal/pricing"
	"restaurant-pos/internal/store"
)

// Service mutates the discount ledgers of orders in the active registry.
type Service struct {
	registry store.OrderRegistry
	promos   store.PromoProvider
	log      *logger.Logger
}

// NewService creates a discount service.
func NewService(registry store.OrderRegistry, promos store.PromoProvider, log *logger.Logger) *Service {
	return &Service{
		registry: registry,
		promos:   promos,
		log:      log,
	}
}

// ManualRequest describes a staff-entered discount.
type ManualRequest struct {
	Type     models.DiscountType
	Value    decimal.Decimal
	ApplyTo  models.DiscountScope
	ItemCode string
}

// ApplyManual validates and appends a manual discount to an order,
// persisting the registry before returning. The computed amount is
// fixed at application time.
func (s *Service) ApplyManual(ctx context.Context, orderID string, menu models.Menu, req ManualRequest) (models.Discount, error) {
	orders, order, err := s.find(ctx, orderID)
	if err != nil {
		return models.Discount{}, err
	}

	if req.Type == models.DiscountPercentage {
		if !req.Value.IsPositive() || req.Value.GreaterThan(decimal.NewFromInt(100)) {
			return models.Discount{}, fmt.Errorf("%w: percentage must be between 0 and 100", models.ErrInvalidInput)
		}
	} else if !req.Value.IsPositive() {
		return models.Discount{}, fmt.Errorf("%w: discount amount must be positive", models.ErrInvalidInput)
	}

	quote := pricing.Price(order, menu)
	var remaining decimal.Decimal
	var description string

	switch req.ApplyTo {
	case models.ScopeSpecificItem:
		if _, ok := quote.ItemTotals[req.ItemCode]; !ok {
			return models.Discount{}, fmt.Errorf("%w: item %s is not in order %s", models.ErrNotFound, req.ItemCode, orderID)
		}
		remaining = quote.ItemRemaining(req.ItemCode)
		description = fmt.Sprintf("%s off on %s", describeValue(req.Type, req.Value), itemName(order, menu, req.ItemCode))
	case models.ScopeTotal:
		remaining = quote.OrderRemaining()
		description = fmt.Sprintf("%s off entire order", describeValue(req.Type, req.Value))
	default:
		return models.Discount{}, fmt.Errorf("%w: unknown discount scope %q", models.ErrInvalidInput, req.ApplyTo)
	}

	if req.Type == models.DiscountFixed && req.Value.GreaterThan(remaining) {
		return models.Discount{}, fmt.Errorf("%w: discount cannot exceed remaining value of RM%s",
			models.ErrStateConflict, remaining.StringFixed(2))
	}

	amount := pricing.Amount(req.Type, req.Value, remaining)
	if !amount.IsPositive() {
		return models.Discount{}, fmt.Errorf("%w: remaining value RM%s is already fully discounted",
			models.ErrStateConflict, remaining.StringFixed(2))
	}

	entry := models.Discount{
		Type:        req.Type,
		Value:       req.Value,
		Amount:      amount,
		Description: description,
		ApplyTo:     req.ApplyTo,
		ItemCode:    req.ItemCode,
	}
	order.Discounts = append(order.Discounts, entry)
	orders[orderID] = *order
	if err := s.registry.SaveAll(ctx, orders); err != nil {
		return models.Discount{}, fmt.Errorf("failed to save order registry: %w", err)
	}

	s.log.Info("discount_applied", "", fmt.Sprintf("Applied %s to order %s (-RM%s)",
		entry.Description, orderID, amount.StringFixed(2)))
	return entry, nil
}

// ApplyPromo validates a promo code against the order and appends the
// resulting discount with the code attached for de-duplication.
func (s *Service) ApplyPromo(ctx context.Context, orderID string, menu models.Menu, code string) (models.Discount, error) {
	orders, order, err := s.find(ctx, orderID)
	if err != nil {
		return models.Discount{}, err
	}

	promos, err := s.promos.Promos(ctx)
	if err != nil {
		return models.Discount{}, fmt.Errorf("failed to load promo codes: %w", err)
	}
	promo, ok := promos[code]
	if !ok {
		return models.Discount{}, fmt.Errorf("%w: unknown promo code %q", models.ErrNotFound, code)
	}
	if order.HasPromo(code) {
		return models.Discount{}, fmt.Errorf("%w: promo code %s already applied to order %s",
			models.ErrStateConflict, code, orderID)
	}

	quote := pricing.Price(order, menu)
	var remaining decimal.Decimal

	switch promo.ApplyTo {
	case models.ScopeSpecificItem:
		if _, ok := quote.ItemTotals[promo.ItemCode]; !ok {
			return models.Discount{}, fmt.Errorf("%w: no %s in order for promo %s",
				models.ErrStateConflict, itemName(order, menu, promo.ItemCode), code)
		}
		remaining = quote.ItemRemaining(promo.ItemCode)
	case models.ScopeTotal:
		remaining = quote.OrderRemaining()
	default:
		return models.Discount{}, fmt.Errorf("%w: promo %s has unknown scope %q",
			models.ErrInvalidInput, code, promo.ApplyTo)
	}

	amount := pricing.Amount(promo.Type, promo.Value, remaining)
	if !amount.IsPositive() {
		return models.Discount{}, fmt.Errorf("%w: no applicable value remains for promo %s",
			models.ErrStateConflict, code)
	}

	description := promo.Description
	if description == "" {
		description = fmt.Sprintf("Promo %s", code)
	}
	entry := models.Discount{
		Type:        promo.Type,
		Value:       promo.Value,
		Amount:      amount,
		Description: description,
		ApplyTo:     promo.ApplyTo,
		ItemCode:    promo.ItemCode,
		PromoCode:   code,
	}
	order.Discounts = append(order.Discounts, entry)
	orders[orderID] = *order
	if err := s.registry.SaveAll(ctx, orders); err != nil {
		return models.Discount{}, fmt.Errorf("failed to save order registry: %w", err)
	}

	s.log.Info("promo_applied", "", fmt.Sprintf("Applied promo %s to order %s (-RM%s)",
		code, orderID, amount.StringFixed(2)))
	return entry, nil
}

// Remove deletes the ledger entry at a 1-based position and persists
// the registry. Callers reprice after removal.
func (s *Service) Remove(ctx context.Context, orderID string, position int) (models.Discount, error) {
	orders, order, err := s.find(ctx, orderID)
	if err != nil {
		return models.Discount{}, err
	}
	if position < 1 || position > len(order.Discounts) {
		return models.Discount{}, fmt.Errorf("%w: discount number must be between 1 and %d",
			models.ErrInvalidInput, len(order.Discounts))
	}

	removed := order.Discounts[position-1]
	order.Discounts = append(order.Discounts[:position-1], order.Discounts[position:]...)
	orders[orderID] = *order
	if err := s.registry.SaveAll(ctx, orders); err != nil {
		return models.Discount{}, fmt.Errorf("failed to save order registry: %w", err)
	}

	s.log.Info("discount_removed", "", fmt.Sprintf("Removed discount %q from order %s", removed.Description, orderID))
	return removed, nil
}

func (s *Service) find(ctx context.Context, orderID string) (map[string]models.Order, *models.Order, error) {
	orders, err := s.registry.LoadAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load order registry: %w", err)
	}
	order, ok := orders[orderID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: no active order %s", models.ErrNotFound, orderID)
	}
	return orders, &order, nil
}

func describeValue(t models.DiscountType, value decimal.Decimal) string {
	if t == models.DiscountPercentage {
		return fmt.Sprintf("%s%%", value.String())
	}
	return fmt.Sprintf("RM%s", value.StringFixed(2))
}

func itemName(order *models.Order, menu models.Menu, itemID string) string {
	if name, ok := order.ItemDetails[itemID]; ok {
		return name
	}
	if item, ok := menu[itemID]; ok {
		return item.Name
	}
	return itemID
}

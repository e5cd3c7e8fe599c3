// Package cart manages one ordered cart per user. Every mutation
// persists the full cart before returning, so the store is always the
// source of truth between prompts.
package cart

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/models"
	"restaurant-pos/internal/store"
)

// Service provides cart operations for a single user at a time.
type Service struct {
	carts store.CartStore
	log   *logger.Logger
}

// NewService creates a cart service.
func NewService(carts store.CartStore, log *logger.Logger) *Service {
	return &Service{carts: carts, log: log}
}

// Load returns the user's persisted cart.
func (s *Service) Load(ctx context.Context, user string) ([]models.LineItem, error) {
	items, err := s.carts.Load(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for %s: %w", user, err)
	}
	return items, nil
}

// Add appends a freshly customized line item and persists the cart.
func (s *Service) Add(ctx context.Context, user string, item models.LineItem) ([]models.LineItem, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	items, err := s.Load(ctx, user)
	if err != nil {
		return nil, err
	}
	items = append(items, item)
	if err := s.carts.Save(ctx, user, items); err != nil {
		return nil, fmt.Errorf("failed to save cart for %s: %w", user, err)
	}
	s.log.Info("cart_item_added", "", fmt.Sprintf("Added %s x%d to %s's cart", item.Name, item.Quantity, user))
	return items, nil
}

// Remove deletes the item at a 1-based position and persists the cart.
// Out-of-range positions leave the cart unchanged.
func (s *Service) Remove(ctx context.Context, user string, position int) (models.LineItem, []models.LineItem, error) {
	items, err := s.Load(ctx, user)
	if err != nil {
		return models.LineItem{}, nil, err
	}
	if position < 1 || position > len(items) {
		return models.LineItem{}, nil, fmt.Errorf("%w: item number must be between 1 and %d",
			models.ErrInvalidInput, len(items))
	}
	removed := items[position-1]
	items = append(items[:position-1], items[position:]...)
	if err := s.carts.Save(ctx, user, items); err != nil {
		return models.LineItem{}, nil, fmt.Errorf("failed to save cart for %s: %w", user, err)
	}
	s.log.Info("cart_item_removed", "", fmt.Sprintf("Removed %s from %s's cart", removed.Name, user))
	return removed, items, nil
}

// EditRemarks replaces the remarks on the item at a 1-based position
// and persists the cart.
func (s *Service) EditRemarks(ctx context.Context, user string, position int, remarks string) ([]models.LineItem, error) {
	items, err := s.Load(ctx, user)
	if err != nil {
		return nil, err
	}
	if position < 1 || position > len(items) {
		return nil, fmt.Errorf("%w: item number must be between 1 and %d",
			models.ErrInvalidInput, len(items))
	}
	items[position-1].Remarks = remarks
	if err := s.carts.Save(ctx, user, items); err != nil {
		return nil, fmt.Errorf("failed to save cart for %s: %w", user, err)
	}
	return items, nil
}

// Clear empties the user's cart.
func (s *Service) Clear(ctx context.Context, user string) error {
	if err := s.carts.Save(ctx, user, nil); err != nil {
		return fmt.Errorf("failed to clear cart for %s: %w", user, err)
	}
	return nil
}

// Total sums unit price times quantity over the cart.
func Total(items []models.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Total())
	}
	return total
}

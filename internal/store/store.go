// Package store defines the persistence contracts consumed by the core
// services. Implementations exist for JSON files (internal/store/jsonfile)
// and PostgreSQL (internal/database).
package store

import (
	"context"

	"restaurant-pos/internal/models"
)

// CatalogProvider returns the full menu keyed by item ID.
type CatalogProvider interface {
	Menu(ctx context.Context) (models.Menu, error)
}

// PromoProvider returns the promo-code definitions keyed by code.
type PromoProvider interface {
	Promos(ctx context.Context) (map[string]models.Promo, error)
}

// CartStore persists one cart per user. Saving a user's cart must leave
// every other user's cart untouched.
type CartStore interface {
	Load(ctx context.Context, user string) ([]models.LineItem, error)
	Save(ctx context.Context, user string, items []models.LineItem) error
}

// OrderRegistry holds the active orders. Orders leave the registry on
// checkout completion or cancellation.
type OrderRegistry interface {
	LoadAll(ctx context.Context) (map[string]models.Order, error)
	SaveAll(ctx context.Context, orders map[string]models.Order) error
}

// TransactionLog is the append-only store of completed transactions,
// keyed by order ID.
type TransactionLog interface {
	Append(ctx context.Context, tx models.Transaction) error
	All(ctx context.Context) (map[string]models.Transaction, error)
}

// CounterStore issues sequential order numbers per fulfillment type,
// durably incrementing the counter before returning it.
type CounterStore interface {
	Next(ctx context.Context, orderType models.OrderType) (int, error)
}

// ReceiptSink accepts a rendered transaction summary for archival.
type ReceiptSink interface {
	Write(ctx context.Context, orderID, body string) error
}

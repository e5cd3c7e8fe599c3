package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"restaurant-pos/internal/models"
)

// Store implements the persistence contracts on PostgreSQL. Documents
// are stored as JSONB so the registry keeps full snapshot semantics:
// LoadAll reads everything, SaveAll rewrites everything in one
// transaction, matching the single-writer model of the system.
type Store struct {
	db *DB
}

// NewStore wraps a database connection as a store.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// Menu implements store.CatalogProvider.
func (s *Store) Menu(ctx context.Context) (models.Menu, error) {
	rows, err := s.db.Query(ctx, GetMenuItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	menu := models.Menu{}
	for rows.Next() {
		var id string
		var body []byte
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		var item models.MenuItem
		if err := json.Unmarshal(body, &item); err != nil {
			s.db.logger.Warn("store_corrupt", "", fmt.Sprintf("Skipping malformed menu item %s", id), err)
			continue
		}
		item.ID = id
		menu[id] = item
	}
	return menu, rows.Err()
}

// Promos implements store.PromoProvider.
func (s *Store) Promos(ctx context.Context) (map[string]models.Promo, error) {
	rows, err := s.db.Query(ctx, GetPromoCodesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query promo codes: %w", err)
	}
	defer rows.Close()

	promos := map[string]models.Promo{}
	for rows.Next() {
		var code string
		var body []byte
		if err := rows.Scan(&code, &body); err != nil {
			return nil, fmt.Errorf("failed to scan promo code: %w", err)
		}
		var promo models.Promo
		if err := json.Unmarshal(body, &promo); err != nil {
			s.db.logger.Warn("store_corrupt", "", fmt.Sprintf("Skipping malformed promo %s", code), err)
			continue
		}
		promo.Code = code
		promos[code] = promo
	}
	return promos, rows.Err()
}

// Load implements store.CartStore.
func (s *Store) Load(ctx context.Context, user string) ([]models.LineItem, error) {
	var body []byte
	err := s.db.QueryRow(ctx, GetCartSQL, user).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load cart for %s: %w", user, err)
	}
	var items []models.LineItem
	if err := json.Unmarshal(body, &items); err != nil {
		s.db.logger.Warn("store_corrupt", "", fmt.Sprintf("Malformed cart for %s, continuing empty", user), err)
		return nil, nil
	}
	return items, nil
}

// Save implements store.CartStore.
func (s *Store) Save(ctx context.Context, user string, items []models.LineItem) error {
	if len(items) == 0 {
		return s.db.Exec(ctx, DeleteCartSQL, user)
	}
	body, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart for %s: %w", user, err)
	}
	return s.db.Exec(ctx, UpsertCartSQL, user, body)
}

// LoadAll implements store.OrderRegistry.
func (s *Store) LoadAll(ctx context.Context) (map[string]models.Order, error) {
	rows, err := s.db.Query(ctx, GetActiveOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query active orders: %w", err)
	}
	defer rows.Close()

	orders := map[string]models.Order{}
	for rows.Next() {
		var id string
		var body []byte
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("failed to scan active order: %w", err)
		}
		var order models.Order
		if err := json.Unmarshal(body, &order); err != nil {
			s.db.logger.Warn("store_corrupt", "", fmt.Sprintf("Skipping malformed order %s", id), err)
			continue
		}
		orders[id] = order
	}
	return orders, rows.Err()
}

// SaveAll implements store.OrderRegistry, rewriting the registry in a
// single transaction.
func (s *Store) SaveAll(ctx context.Context, orders map[string]models.Order) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, DeleteActiveOrdersSQL); err != nil {
		return fmt.Errorf("failed to clear active orders: %w", err)
	}
	for id, order := range orders {
		body, err := json.Marshal(order)
		if err != nil {
			return fmt.Errorf("failed to encode order %s: %w", id, err)
		}
		if _, err := tx.Exec(ctx, InsertActiveOrderSQL, id, body); err != nil {
			return fmt.Errorf("failed to insert order %s: %w", id, err)
		}
	}
	return tx.Commit(ctx)
}

// Append implements store.TransactionLog. The primary key on order_id
// rejects double completion.
func (s *Store) Append(ctx context.Context, txn models.Transaction) error {
	body, err := json.Marshal(txn)
	if err != nil {
		return fmt.Errorf("failed to encode transaction %s: %w", txn.OrderID, err)
	}
	if err := s.db.Exec(ctx, InsertTransactionSQL, txn.OrderID, body); err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", txn.OrderID, err)
	}
	return nil
}

// All implements store.TransactionLog.
func (s *Store) All(ctx context.Context) (map[string]models.Transaction, error) {
	rows, err := s.db.Query(ctx, GetTransactionsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := map[string]models.Transaction{}
	for rows.Next() {
		var orderID string
		var body []byte
		if err := rows.Scan(&orderID, &body); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		var txn models.Transaction
		if err := json.Unmarshal(body, &txn); err != nil {
			s.db.logger.Warn("store_corrupt", "", fmt.Sprintf("Skipping malformed transaction %s", orderID), err)
			continue
		}
		transactions[orderID] = txn
	}
	return transactions, rows.Err()
}

// Next implements store.CounterStore.
func (s *Store) Next(ctx context.Context, orderType models.OrderType) (int, error) {
	var counter int
	if err := s.db.QueryRow(ctx, NextOrderCounterSQL, string(orderType)).Scan(&counter); err != nil {
		return 0, fmt.Errorf("failed to advance order counter: %w", err)
	}
	return counter, nil
}

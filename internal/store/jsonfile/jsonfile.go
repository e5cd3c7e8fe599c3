// Package jsonfile implements the persistence contracts on top of
// indented JSON files under a single data directory. Reads are strict:
// a file that fails to parse is reported and treated as an empty store,
// and processing continues with defaults.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/models"
)

// File names inside the data directory.
const (
	menuFile         = "menu_items.json"
	promosFile       = "promo_codes.json"
	cartsFile        = "carts.json"
	activeOrdersFile = "current_active_orders.json"
	transactionsFile = "transactions.json"
	countersFile     = "order_counters.json"
)

// Store provides all file-backed stores over one data directory.
type Store struct {
	dir string
	log *logger.Logger
}

// New creates the data directory if needed and returns the store.
func New(dir string, log *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{dir: dir, log: log}, nil
}

// read decodes the named file into out. Missing files and malformed
// content leave out untouched and report ok=false; only I/O errors on
// an existing file are returned.
func (s *Store) read(name string, out any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.log.Warn("store_corrupt", "", fmt.Sprintf("Malformed %s, continuing with empty store", name), err)
		return false, nil
	}
	return true, nil
}

// write replaces the named file with the indented JSON encoding of v,
// going through a temp file so a failed write never truncates the
// previous contents.
func (s *Store) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

// Menu implements store.CatalogProvider.
func (s *Store) Menu(_ context.Context) (models.Menu, error) {
	menu := models.Menu{}
	if _, err := s.read(menuFile, &menu); err != nil {
		return nil, err
	}
	for id, item := range menu {
		item.ID = id
		menu[id] = item
	}
	return menu, nil
}

// Promos implements store.PromoProvider.
func (s *Store) Promos(_ context.Context) (map[string]models.Promo, error) {
	promos := map[string]models.Promo{}
	if _, err := s.read(promosFile, &promos); err != nil {
		return nil, err
	}
	for code, p := range promos {
		p.Code = code
		promos[code] = p
	}
	return promos, nil
}

// Load implements store.CartStore.
func (s *Store) Load(_ context.Context, user string) ([]models.LineItem, error) {
	carts := map[string][]models.LineItem{}
	if _, err := s.read(cartsFile, &carts); err != nil {
		return nil, err
	}
	return carts[user], nil
}

// Save implements store.CartStore. The whole cart file is rewritten,
// preserving every other user's cart.
func (s *Store) Save(_ context.Context, user string, items []models.LineItem) error {
	carts := map[string][]models.LineItem{}
	if _, err := s.read(cartsFile, &carts); err != nil {
		return err
	}
	if len(items) == 0 {
		delete(carts, user)
	} else {
		carts[user] = items
	}
	return s.write(cartsFile, carts)
}

// LoadAll implements store.OrderRegistry.
func (s *Store) LoadAll(_ context.Context) (map[string]models.Order, error) {
	orders := map[string]models.Order{}
	if _, err := s.read(activeOrdersFile, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// SaveAll implements store.OrderRegistry.
func (s *Store) SaveAll(_ context.Context, orders map[string]models.Order) error {
	return s.write(activeOrdersFile, orders)
}

// Append implements store.TransactionLog. An order ID can only be
// recorded once.
func (s *Store) Append(_ context.Context, tx models.Transaction) error {
	transactions := map[string]models.Transaction{}
	if _, err := s.read(transactionsFile, &transactions); err != nil {
		return err
	}
	if _, ok := transactions[tx.OrderID]; ok {
		return fmt.Errorf("%w: transaction for order %s already recorded", models.ErrStateConflict, tx.OrderID)
	}
	transactions[tx.OrderID] = tx
	return s.write(transactionsFile, transactions)
}

// All returns every recorded transaction keyed by order ID.
func (s *Store) All(_ context.Context) (map[string]models.Transaction, error) {
	transactions := map[string]models.Transaction{}
	if _, err := s.read(transactionsFile, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// Next implements store.CounterStore, persisting the incremented
// counter before returning it.
func (s *Store) Next(_ context.Context, orderType models.OrderType) (int, error) {
	counters := map[string]int{}
	if _, err := s.read(countersFile, &counters); err != nil {
		return 0, err
	}
	key := string(orderType)
	counters[key]++
	if err := s.write(countersFile, counters); err != nil {
		return 0, err
	}
	return counters[key], nil
}

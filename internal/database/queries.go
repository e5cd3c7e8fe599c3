package database

// Catalog queries
const (
	GetMenuItemsSQL = `
		SELECT id, body FROM menu_items`

	GetPromoCodesSQL = `
		SELECT code, body FROM promo_codes`
)

// Cart queries
const (
	GetCartSQL = `
		SELECT items FROM carts WHERE username = $1`

	UpsertCartSQL = `
		INSERT INTO carts (username, items, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (username) DO UPDATE SET
			items = EXCLUDED.items,
			updated_at = NOW()`

	DeleteCartSQL = `
		DELETE FROM carts WHERE username = $1`
)

// Active-order registry queries
const (
	GetActiveOrdersSQL = `
		SELECT id, body FROM active_orders`

	DeleteActiveOrdersSQL = `
		DELETE FROM active_orders`

	InsertActiveOrderSQL = `
		INSERT INTO active_orders (id, body)
		VALUES ($1, $2)`
)

// Transaction log queries
const (
	InsertTransactionSQL = `
		INSERT INTO transactions (order_id, body)
		VALUES ($1, $2)`

	GetTransactionsSQL = `
		SELECT order_id, body FROM transactions`
)

// Order counter queries
const (
	NextOrderCounterSQL = `
		INSERT INTO order_counters (order_type, counter)
		VALUES ($1, 1)
		ON CONFLICT (order_type) DO UPDATE SET
			counter = order_counters.counter + 1
		RETURNING counter`
)

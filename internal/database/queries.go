package database

// Session queries
const (
	UpsertSessionSQL = `
		INSERT INTO sessions (key, state, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (key) DO UPDATE SET state = EXCLUDED.state, updated_at = NOW()`

	GetSessionSQL = `
		SELECT state, created_at, updated_at
		FROM sessions WHERE key = $1`

	DeleteSessionSQL = `
		DELETE FROM sessions WHERE key = $1`
)

// Order archive queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (number, session_key, type, delivery_address, subtotal, tax, total_amount, payment_method, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	InsertOrderItemSQL = `
		INSERT INTO order_items (order_id, name, item_size, quantity, extras, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6)`

	InsertOrderStatusLogSQL = `
		INSERT INTO order_status_log (order_id, status, changed_by, notes)
		VALUES ($1, $2, $3, $4)`

	GetOrderByNumberSQL = `
		SELECT id, number, session_key, type, delivery_address, subtotal, tax, total_amount, payment_method, status, created_at
		FROM orders WHERE number = $1`

	GetOrderItemsSQL = `
		SELECT name, item_size, quantity, extras, unit_price
		FROM order_items WHERE order_id = $1 ORDER BY id ASC`

	GetOrderStatusLogSQL = `
		SELECT l.status, l.changed_by, l.notes, l.changed_at
		FROM order_status_log l
		JOIN orders o ON o.id = l.order_id
		WHERE o.number = $1
		ORDER BY l.changed_at ASC`

	GetNextOrderNumberSQL = `
		SELECT COALESCE(MAX(CAST(SUBSTRING(number FROM 'ORD_[0-9]{8}_([0-9]{3})') AS INTEGER)), 0) + 1
		FROM orders
		WHERE number LIKE $1`
)

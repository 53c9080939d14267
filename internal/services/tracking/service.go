// Package tracking exposes read-only HTTP views over live order sessions
// and archived orders.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"orderbot/internal/database"
	"orderbot/internal/logger"
	"orderbot/internal/order"
	"orderbot/internal/session"
	"orderbot/internal/workflow"
)

// ErrOrderNotFound is returned when no archived order has the number.
var ErrOrderNotFound = errors.New("order not found")

// OrderItemView is one archived line item.
type OrderItemView struct {
	Name      string          `json:"name"`
	Size      string          `json:"size,omitempty"`
	Quantity  int             `json:"quantity"`
	Extras    []string        `json:"extras,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderView is an archived order with its items.
type OrderView struct {
	Number          string          `json:"number"`
	SessionKey      string          `json:"session_key"`
	OrderType       string          `json:"order_type"`
	DeliveryAddress string          `json:"delivery_address,omitempty"`
	Items           []OrderItemView `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaymentMethod   string          `json:"payment_method"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// StatusLogEntry is one archived status change.
type StatusLogEntry struct {
	Status    string    `json:"status"`
	ChangedBy string    `json:"changed_by"`
	Notes     string    `json:"notes,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

// SessionView is a live session's current position in the workflow.
type SessionView struct {
	Key        string      `json:"key"`
	State      order.State `json:"state"`
	AllowedOps []string    `json:"allowed_operations"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Service reads archived orders from PostgreSQL and live sessions from the
// session store.
type Service struct {
	db     *database.DB
	store  session.Store
	logger *logger.Logger
}

func NewService(db *database.DB, store session.Store, log *logger.Logger) *Service {
	return &Service{db: db, store: store, logger: log}
}

// GetOrder returns one archived order with its items.
func (s *Service) GetOrder(ctx context.Context, number, requestID string) (*OrderView, error) {
	var (
		view    OrderView
		orderID int
	)
	err := s.db.QueryRow(ctx, database.GetOrderByNumberSQL, number).Scan(
		&orderID,
		&view.Number,
		&view.SessionKey,
		&view.OrderType,
		&view.DeliveryAddress,
		&view.Subtotal,
		&view.Tax,
		&view.TotalAmount,
		&view.PaymentMethod,
		&view.Status,
		&view.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		s.logger.Error("db_query_failed", "Failed to query order", requestID, err, map[string]interface{}{
			"order_number": number,
		})
		return nil, fmt.Errorf("database error: %w", err)
	}

	rows, err := s.db.Query(ctx, database.GetOrderItemsSQL, orderID)
	if err != nil {
		s.logger.Error("db_query_failed", "Failed to query order items", requestID, err, map[string]interface{}{
			"order_number": number,
		})
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItemView
		if err := rows.Scan(&item.Name, &item.Size, &item.Quantity, &item.Extras, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		view.Items = append(view.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &view, nil
}

// GetOrderHistory returns the status log of an archived order, oldest
// first.
func (s *Service) GetOrderHistory(ctx context.Context, number, requestID string) ([]StatusLogEntry, error) {
	var exists bool
	if err := s.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM orders WHERE number = $1)", number).Scan(&exists); err != nil {
		s.logger.Error("db_query_failed", "Failed to check order existence", requestID, err, map[string]interface{}{
			"order_number": number,
		})
		return nil, fmt.Errorf("database error: %w", err)
	}
	if !exists {
		return nil, ErrOrderNotFound
	}

	rows, err := s.db.Query(ctx, database.GetOrderStatusLogSQL, number)
	if err != nil {
		s.logger.Error("db_query_failed", "Failed to query order history", requestID, err, map[string]interface{}{
			"order_number": number,
		})
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var history []StatusLogEntry
	for rows.Next() {
		var entry StatusLogEntry
		if err := rows.Scan(&entry.Status, &entry.ChangedBy, &entry.Notes, &entry.ChangedAt); err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return history, nil
}

// GetSession returns a live session with the operations its current step
// allows.
func (s *Service) GetSession(ctx context.Context, key, requestID string) (*SessionView, error) {
	sess, err := s.store.Load(ctx, key)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, err
		}
		s.logger.Error("session_load_failed", "Failed to load session", requestID, err, map[string]interface{}{
			"session_key": key,
		})
		return nil, fmt.Errorf("session store error: %w", err)
	}

	cfg, err := workflow.Config(sess.State.CurrentStep)
	if err != nil {
		return nil, err
	}

	allowed := make([]string, len(cfg.AllowedOps))
	copy(allowed, cfg.AllowedOps)

	return &SessionView{
		Key:        sess.Key,
		State:      sess.State,
		AllowedOps: allowed,
		CreatedAt:  sess.CreatedAt,
		UpdatedAt:  sess.UpdatedAt,
	}, nil
}

// HealthCheck reports whether the database is reachable.
func (s *Service) HealthCheck(ctx context.Context) bool {
	if err := s.db.Ping(ctx); err != nil {
		s.logger.Error("health_check_failed", "Database ping failed", "", err, nil)
		return false
	}
	return true
}

// Package fulfillment archives paid orders. The worker consumes placed
// orders from RabbitMQ, assigns each one a daily-sequenced order number,
// writes the order with its items to PostgreSQL, and fans a receipt out to
// subscribers.
package fulfillment

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderbot/internal/database"
	"orderbot/internal/logger"
	"orderbot/internal/messaging"
	"orderbot/internal/models"
)

// StatusPlaced is the archive status every new order starts in.
const StatusPlaced = "placed"

// Worker consumes placed orders and archives them.
type Worker struct {
	name     string
	prefetch int

	db        *database.DB
	consumer  *messaging.Consumer
	publisher *messaging.Publisher
	logger    *logger.Logger

	shutdown chan os.Signal
	done     chan bool
}

func NewWorker(name string, prefetch int, db *database.DB, consumer *messaging.Consumer, publisher *messaging.Publisher, log *logger.Logger) *Worker {
	return &Worker{
		name:      name,
		prefetch:  prefetch,
		db:        db,
		consumer:  consumer,
		publisher: publisher,
		logger:    log,
		shutdown:  make(chan os.Signal, 1),
		done:      make(chan bool, 1),
	}
}

// Start consumes until the context ends or a termination signal arrives.
func (w *Worker) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	signal.Notify(w.shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := w.consumer.StartConsuming(ctx, w.handleMessage); err != nil {
			w.logger.Error("consumer_failed", "Message consumer failed", requestID, err, nil)
		}
		w.done <- true
	}()

	w.logger.Info("worker_started", fmt.Sprintf("Fulfillment worker %s started", w.name), requestID, map[string]interface{}{
		"worker_name": w.name,
		"prefetch":    w.prefetch,
	})

	select {
	case <-w.shutdown:
		w.logger.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		return w.gracefulShutdown(requestID)
	case <-w.done:
		return nil
	}
}

// handleMessage archives one placed order. Returning an error nacks the
// delivery back onto the queue.
func (w *Worker) handleMessage(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var orderMsg models.OrderPlacedMessage
	if err := messaging.ParseMessage(body, &orderMsg); err != nil {
		w.logger.Error("message_parsing_failed", "Failed to parse placed order message", requestID, err, nil)
		return fmt.Errorf("failed to parse message: %w", err)
	}

	w.logger.Debug("order_archiving_started", "Archiving placed order", requestID, map[string]interface{}{
		"session_key":  orderMsg.SessionKey,
		"order_type":   orderMsg.OrderType,
		"total_amount": orderMsg.TotalAmount.StringFixed(2),
	})

	number, err := w.archiveOrder(ctx, &orderMsg)
	if err != nil {
		w.logger.Error("order_archiving_failed", "Failed to archive order", requestID, err, map[string]interface{}{
			"session_key": orderMsg.SessionKey,
		})
		return err
	}

	w.logger.Info("order_archived", fmt.Sprintf("Order %s archived", number), requestID, map[string]interface{}{
		"order_number": number,
		"session_key":  orderMsg.SessionKey,
	})

	receipt := &models.ReceiptMessage{
		OrderNumber:    number,
		SessionKey:     orderMsg.SessionKey,
		OrderType:      orderMsg.OrderType,
		TotalAmount:    orderMsg.TotalAmount,
		PaymentMethod:  orderMsg.PaymentMethod,
		EstimatedReady: time.Now().UTC().Add(models.PrepTime(orderMsg.OrderType)),
		ArchivedBy:     w.name,
		Timestamp:      time.Now().UTC(),
	}
	if err := w.publisher.PublishReceipt(ctx, receipt); err != nil {
		// The order is already archived; a lost receipt must not requeue it.
		w.logger.Error("receipt_publish_failed", "Failed to publish receipt", requestID, err, map[string]interface{}{
			"order_number": number,
		})
	}

	return nil
}

// archiveOrder writes the order, its items, and the initial status log
// entry in one transaction and returns the assigned order number.
func (w *Worker) archiveOrder(ctx context.Context, orderMsg *models.OrderPlacedMessage) (string, error) {
	tx, err := w.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	datePart := time.Now().UTC().Format("20060102")
	var seq int
	if err := tx.QueryRow(ctx, database.GetNextOrderNumberSQL, "ORD_"+datePart+"_%").Scan(&seq); err != nil {
		return "", fmt.Errorf("failed to allocate order number: %w", err)
	}
	number := fmt.Sprintf("ORD_%s_%03d", datePart, seq)

	var (
		orderID   int
		createdAt time.Time
	)
	err = tx.QueryRow(ctx, database.InsertOrderSQL,
		number,
		orderMsg.SessionKey,
		orderMsg.OrderType,
		orderMsg.DeliveryAddress,
		orderMsg.Subtotal,
		orderMsg.Tax,
		orderMsg.TotalAmount,
		orderMsg.PaymentMethod,
		StatusPlaced,
	).Scan(&orderID, &createdAt)
	if err != nil {
		return "", fmt.Errorf("failed to insert order: %w", err)
	}

	for _, item := range orderMsg.Items {
		_, err = tx.Exec(ctx, database.InsertOrderItemSQL,
			orderID, item.Name, string(item.Size), item.Quantity, item.Extras, item.UnitPrice)
		if err != nil {
			return "", fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	_, err = tx.Exec(ctx, database.InsertOrderStatusLogSQL,
		orderID, StatusPlaced, w.name, fmt.Sprintf("Order archived by %s", w.name))
	if err != nil {
		return "", fmt.Errorf("failed to insert status log: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return number, nil
}

func (w *Worker) gracefulShutdown(requestID string) error {
	w.logger.Info("graceful_shutdown", "Starting graceful shutdown", requestID, nil)

	if w.consumer != nil {
		w.consumer.Close()
	}

	w.logger.Info("graceful_shutdown", "Graceful shutdown completed", requestID, nil)
	return nil
}

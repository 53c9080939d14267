// Package receipts prints archived-order receipts as they fan out from the
// fulfillment worker.
package receipts

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"orderbot/internal/logger"
	"orderbot/internal/messaging"
	"orderbot/internal/models"
)

// Subscriber consumes receipt messages and displays them.
type Subscriber struct {
	consumer *messaging.Consumer
	logger   *logger.Logger

	shutdown chan os.Signal
	done     chan bool
}

func NewSubscriber(consumer *messaging.Consumer, log *logger.Logger) *Subscriber {
	return &Subscriber{
		consumer: consumer,
		logger:   log,
		shutdown: make(chan os.Signal, 1),
		done:     make(chan bool, 1),
	}
}

// Start consumes until the context ends or a termination signal arrives.
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)

	s.logger.Info("service_started", "Receipts subscriber started", requestID, nil)

	go func() {
		if err := s.consumer.StartConsuming(ctx, s.handleReceipt); err != nil {
			s.logger.Error("consumer_failed", "Receipts consumer failed", requestID, err, nil)
		}
		s.done <- true
	}()

	select {
	case <-s.shutdown:
		s.logger.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		return s.gracefulShutdown(requestID)
	case <-s.done:
		return nil
	}
}

func (s *Subscriber) handleReceipt(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var receipt models.ReceiptMessage
	if err := messaging.ParseMessage(body, &receipt); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse receipt message", requestID, err, nil)
		return fmt.Errorf("failed to parse receipt: %w", err)
	}

	fmt.Println(formatReceipt(&receipt))

	s.logger.Info("receipt_displayed", "Receipt displayed", requestID, map[string]interface{}{
		"order_number": receipt.OrderNumber,
		"order_type":   receipt.OrderType,
		"total_amount": receipt.TotalAmount.StringFixed(2),
		"archived_by":  receipt.ArchivedBy,
	})

	return nil
}

func formatReceipt(receipt *models.ReceiptMessage) string {
	when := receipt.Timestamp.Format("2006-01-02 15:04:05")
	ready := receipt.EstimatedReady.Format("15:04")

	verb := "ready for pickup"
	if receipt.OrderType == "delivery" {
		verb = "delivered"
	}

	return fmt.Sprintf(
		"[%s] Order %s confirmed: $%s paid by %s (%s). Estimated %s around %s.",
		when,
		receipt.OrderNumber,
		receipt.TotalAmount.StringFixed(2),
		receipt.PaymentMethod,
		receipt.OrderType,
		verb,
		ready,
	)
}

func (s *Subscriber) gracefulShutdown(requestID string) error {
	s.logger.Info("graceful_shutdown", "Starting graceful shutdown", requestID, nil)

	if s.consumer != nil {
		s.consumer.Close()
	}

	s.logger.Info("graceful_shutdown", "Graceful shutdown completed", requestID, nil)
	return nil
}

package orderbot

import (
	"context"
	"errors"
	"fmt"

	"orderbot/internal/logger"
	"orderbot/internal/messaging"
	"orderbot/internal/models"
	"orderbot/internal/order"
	"orderbot/internal/session"
	"orderbot/internal/workflow"
)

// Engine runs the conversation one turn at a time: load the session,
// narrow to the current step, dispatch the chosen operation, save, and
// publish the order when payment succeeds. The engine assumes the caller
// serializes turns per session key.
type Engine struct {
	store     session.Store
	registry  *Registry
	publisher *messaging.Publisher // nil disables order publishing
	logger    *logger.Logger
}

// TurnResult is what one completed turn hands back to the caller.
type TurnResult struct {
	SessionKey string
	State      order.State
	Message    string
	Receipt    *order.Receipt
	Next       workflow.TurnContext
}

func NewEngine(store session.Store, registry *Registry, publisher *messaging.Publisher, log *logger.Logger) *Engine {
	return &Engine{
		store:     store,
		registry:  registry,
		publisher: publisher,
		logger:    log,
	}
}

// StartSession creates and persists a fresh session and returns its key
// with the greeting turn context.
func (e *Engine) StartSession(ctx context.Context) (string, workflow.TurnContext, error) {
	key := session.NewKey()
	st := order.NewState()

	if err := e.store.Save(ctx, session.Session{Key: key, State: st}); err != nil {
		return "", workflow.TurnContext{}, fmt.Errorf("failed to create session: %w", err)
	}

	turn, err := workflow.Select(st)
	if err != nil {
		return "", workflow.TurnContext{}, err
	}

	e.logger.Info("session_started", "New order session started", key, nil)
	return key, turn, nil
}

// Resume loads an existing session and returns its current turn context.
func (e *Engine) Resume(ctx context.Context, key string) (session.Session, workflow.TurnContext, error) {
	sess, err := e.store.Load(ctx, key)
	if err != nil {
		return session.Session{}, workflow.TurnContext{}, err
	}

	turn, err := workflow.Select(sess.State)
	if err != nil {
		return session.Session{}, workflow.TurnContext{}, err
	}
	return sess, turn, nil
}

// RunTurn executes one operation against a session. On operation failure
// the stored state is left untouched and the error is returned for the
// caller to render; the session stays usable.
func (e *Engine) RunTurn(ctx context.Context, key, op string, args Args) (TurnResult, error) {
	sess, err := e.store.Load(ctx, key)
	if err != nil {
		return TurnResult{}, fmt.Errorf("failed to load session %q: %w", key, err)
	}

	cfg, err := workflow.Config(sess.State.CurrentStep)
	if err != nil {
		return TurnResult{}, err
	}
	if missing := workflow.MissingFields(sess.State, cfg); len(missing) > 0 {
		e.logger.Error("step_invariant_violated",
			"Session reached a step without its required fields", key, nil,
			map[string]interface{}{
				"step":    string(sess.State.CurrentStep),
				"missing": missing,
			})
	}

	result, err := e.registry.Execute(ctx, sess.State, op, args)
	if err != nil {
		e.logger.Debug("operation_rejected", "Operation rejected", key, map[string]interface{}{
			"operation": op,
			"step":      string(sess.State.CurrentStep),
			"reason":    err.Error(),
		})
		return TurnResult{}, err
	}

	sess.State = result.State
	if err := e.store.Save(ctx, sess); err != nil {
		return TurnResult{}, fmt.Errorf("failed to save session %q: %w", key, err)
	}

	e.logger.Debug("operation_applied", "Operation applied", key, map[string]interface{}{
		"operation": op,
		"step":      string(result.State.CurrentStep),
		"subtotal":  result.State.Subtotal.StringFixed(2),
	})

	if result.Receipt != nil {
		e.publishOrder(ctx, key, result.State, *result.Receipt)
	}

	next, err := workflow.Select(result.State)
	if err != nil {
		return TurnResult{}, err
	}

	return TurnResult{
		SessionKey: key,
		State:      result.State,
		Message:    result.Message,
		Receipt:    result.Receipt,
		Next:       next,
	}, nil
}

// publishOrder hands a paid order to the fulfillment side. The payment is
// already saved, so a publish failure is logged rather than failing the
// turn.
func (e *Engine) publishOrder(ctx context.Context, key string, st order.State, receipt order.Receipt) {
	if e.publisher == nil {
		return
	}

	msg := models.NewOrderPlacedMessage(key, st, receipt)
	if err := e.publisher.PublishOrderPlaced(ctx, msg, msg.RoutingKey()); err != nil {
		e.logger.Error("order_publish_failed", "Failed to publish placed order", key, err, map[string]interface{}{
			"routing_key": msg.RoutingKey(),
		})
		return
	}

	e.logger.Info("order_published", "Placed order published for fulfillment", key, map[string]interface{}{
		"routing_key":  msg.RoutingKey(),
		"total_amount": msg.TotalAmount.StringFixed(2),
	})
}

// IsContractViolation reports whether an error is the caller invoking an
// operation outside its legal step.
func IsContractViolation(err error) bool {
	var transition *order.InvalidStepTransitionError
	return errors.As(err, &transition)
}

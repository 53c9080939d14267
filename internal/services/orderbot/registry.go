// Package orderbot runs the order conversation: a registry of workflow
// operations, a turn engine that loads, dispatches, and saves session
// state, and a deterministic command parser standing in for the
// turn-taking decision-maker.
package orderbot

import (
	"context"
	"errors"
	"fmt"

	"orderbot/internal/order"
	"orderbot/internal/workflow"
)

// ErrUnknownOperation is returned for operation names no step defines.
var ErrUnknownOperation = errors.New("unknown operation")

// Args carries the arguments of one operation invocation. Only the fields
// the operation reads are populated.
type Args struct {
	Item          order.Item
	Index         int
	OrderType     order.OrderType
	Address       string
	PaymentMethod string
}

// Result is the outcome of a dispatched operation.
type Result struct {
	State   order.State
	Message string
	// Receipt is non-nil only after a successful process_payment.
	Receipt *order.Receipt
}

// Handler executes one operation against a state.
type Handler func(st order.State, args Args) (Result, error)

// Registry maps operation names to handlers and dispatches calls, refusing
// operations the current step does not allow.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry returns a registry with every workflow operation registered.
func NewRegistry() *Registry {
	wrap := func(f func(order.State) (order.State, string, error)) Handler {
		return func(st order.State, _ Args) (Result, error) {
			next, msg, err := f(st)
			if err != nil {
				return Result{}, err
			}
			return Result{State: next, Message: msg}, nil
		}
	}

	return &Registry{handlers: map[string]Handler{
		order.OpStartOrder:            wrap(order.StartOrder),
		order.OpFinishOrderCollection: wrap(order.FinishOrderCollection),
		order.OpConfirmOrder:          wrap(order.ConfirmOrder),
		order.OpAddMoreItems:          wrap(order.AddMoreItems),
		order.OpGoBackToOrder:         wrap(order.GoBackToOrder),

		order.OpAddItem: func(st order.State, args Args) (Result, error) {
			next, msg, err := order.AddItem(st, args.Item)
			if err != nil {
				return Result{}, err
			}
			return Result{State: next, Message: msg}, nil
		},
		order.OpRemoveItem: func(st order.State, args Args) (Result, error) {
			next, msg, err := order.RemoveItem(st, args.Index)
			if err != nil {
				return Result{}, err
			}
			return Result{State: next, Message: msg}, nil
		},
		order.OpSetOrderType: func(st order.State, args Args) (Result, error) {
			next, msg, err := order.SetOrderType(st, args.OrderType)
			if err != nil {
				return Result{}, err
			}
			return Result{State: next, Message: msg}, nil
		},
		order.OpSetDeliveryAddress: func(st order.State, args Args) (Result, error) {
			next, msg, err := order.SetDeliveryAddress(st, args.Address)
			if err != nil {
				return Result{}, err
			}
			return Result{State: next, Message: msg}, nil
		},
		order.OpProcessPayment: func(st order.State, args Args) (Result, error) {
			next, receipt, msg, err := order.ProcessPayment(st, args.PaymentMethod)
			if err != nil {
				return Result{}, err
			}
			return Result{State: next, Message: msg, Receipt: &receipt}, nil
		},
	}}
}

// Execute dispatches one operation. The step's allowed set is enforced
// here, before the operation's own step check ever runs.
func (r *Registry) Execute(ctx context.Context, st order.State, op string, args Args) (Result, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, ctxErr
	}

	handler, ok := r.handlers[op]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}

	if !workflow.Allowed(st.CurrentStep, op) {
		return Result{}, &order.InvalidStepTransitionError{Op: op, Step: st.CurrentStep}
	}

	return handler(st, args)
}

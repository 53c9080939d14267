package orderbot

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"orderbot/internal/menu"
	"orderbot/internal/order"
)

func TestRegistry_Execute(t *testing.T) {
	reg := NewRegistry()
	ctx := context.Background()

	t.Run("allowed operation runs", func(t *testing.T) {
		result, err := reg.Execute(ctx, order.NewState(), order.OpStartOrder, Args{})
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if result.State.CurrentStep != order.StepOrderCollection {
			t.Errorf("step = %q, want %q", result.State.CurrentStep, order.StepOrderCollection)
		}
	})

	t.Run("disallowed operation is refused before the handler", func(t *testing.T) {
		// add_item at greeting must fail the step gate, not reach AddItem.
		_, err := reg.Execute(ctx, order.NewState(), order.OpAddItem, Args{
			Item: order.Item{Name: "cheese", Size: menu.SizeMedium, Quantity: 1, UnitPrice: decimal.RequireFromString("9.25")},
		})
		var transition *order.InvalidStepTransitionError
		if !errors.As(err, &transition) {
			t.Fatalf("error = %v, want InvalidStepTransitionError", err)
		}
		if transition.Op != order.OpAddItem || transition.Step != order.StepGreeting {
			t.Errorf("transition = %+v", transition)
		}
	})

	t.Run("unknown operation", func(t *testing.T) {
		_, err := reg.Execute(ctx, order.NewState(), "cancel_order", Args{})
		if !errors.Is(err, ErrUnknownOperation) {
			t.Fatalf("error = %v, want ErrUnknownOperation", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := reg.Execute(cancelled, order.NewState(), order.OpStartOrder, Args{})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
	})

	t.Run("payment carries a receipt", func(t *testing.T) {
		st := order.NewState()
		st.CurrentStep = order.StepPayment
		st.Items = []order.Item{{Name: "cheese", Size: menu.SizeMedium, Quantity: 1, UnitPrice: decimal.RequireFromString("9.25")}}
		st.Subtotal = decimal.RequireFromString("9.25")

		result, err := reg.Execute(ctx, st, order.OpProcessPayment, Args{PaymentMethod: "cash"})
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if result.Receipt == nil {
			t.Fatal("expected a receipt")
		}
		if got := result.Receipt.Total.StringFixed(2); got != "10.03" {
			t.Errorf("receipt total = %s, want 10.03", got)
		}
		if !result.State.PaymentConfirmed {
			t.Error("payment not marked confirmed")
		}
	})

	t.Run("every registered operation appears in some step", func(t *testing.T) {
		steps := []order.Step{
			order.StepGreeting, order.StepOrderCollection, order.StepOrderType,
			order.StepDeliveryAddress, order.StepOrderSummary, order.StepPayment,
		}
		for op := range reg.handlers {
			found := false
			for _, step := range steps {
				st := order.NewState()
				st.CurrentStep = step
				if _, err := reg.Execute(ctx, st, op, Args{}); !IsContractViolation(err) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("operation %q is not allowed in any step", op)
			}
		}
	})
}

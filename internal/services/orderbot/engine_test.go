package orderbot

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"orderbot/internal/logger"
	"orderbot/internal/menu"
	"orderbot/internal/order"
	"orderbot/internal/session"
	"orderbot/internal/session/inmem"
)

func newTestEngine() (*Engine, *inmem.Store) {
	store := inmem.New()
	return NewEngine(store, NewRegistry(), nil, logger.New("orderbot-test")), store
}

func TestEngine_StartSession(t *testing.T) {
	engine, store := newTestEngine()
	ctx := context.Background()

	key, turn, err := engine.StartSession(ctx)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if turn.Step != order.StepGreeting {
		t.Errorf("first turn step = %q, want %q", turn.Step, order.StepGreeting)
	}

	sess, err := store.Load(ctx, key)
	if err != nil {
		t.Fatalf("Load after start: %v", err)
	}
	if sess.State.CurrentStep != order.StepGreeting {
		t.Errorf("stored step = %q, want %q", sess.State.CurrentStep, order.StepGreeting)
	}
}

func TestEngine_RunTurn_UnknownSession(t *testing.T) {
	engine, _ := newTestEngine()

	_, err := engine.RunTurn(context.Background(), "no-such-key", order.OpStartOrder, Args{})
	if !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestEngine_RunTurn_RejectedOpLeavesStateUntouched(t *testing.T) {
	engine, store := newTestEngine()
	ctx := context.Background()

	key, _, err := engine.StartSession(ctx)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	_, err = engine.RunTurn(ctx, key, order.OpConfirmOrder, Args{})
	if !IsContractViolation(err) {
		t.Fatalf("error = %v, want a step transition violation", err)
	}

	sess, err := store.Load(ctx, key)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sess.State.CurrentStep != order.StepGreeting {
		t.Errorf("stored step changed to %q after a rejected op", sess.State.CurrentStep)
	}
	if len(sess.State.Items) != 0 {
		t.Errorf("stored items changed after a rejected op: %v", sess.State.Items)
	}
}

// Walks a whole pickup order through the engine: one small cheese pizza,
// paid in cash, ending with a 10.03 receipt and the session left in the
// payment step.
func TestEngine_RunTurn_PickupScenario(t *testing.T) {
	engine, store := newTestEngine()
	ctx := context.Background()

	key, _, err := engine.StartSession(ctx)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	turns := []struct {
		op       string
		args     Args
		wantStep order.Step
	}{
		{order.OpStartOrder, Args{}, order.StepOrderCollection},
		{order.OpAddItem, Args{Item: order.Item{
			Name: "cheese", Size: menu.SizeMedium, Quantity: 1,
			UnitPrice: decimal.RequireFromString("9.25"),
		}}, order.StepOrderCollection},
		{order.OpFinishOrderCollection, Args{}, order.StepOrderType},
		{order.OpSetOrderType, Args{OrderType: order.TypePickup}, order.StepOrderSummary},
		{order.OpConfirmOrder, Args{}, order.StepPayment},
	}

	for _, turn := range turns {
		result, err := engine.RunTurn(ctx, key, turn.op, turn.args)
		if err != nil {
			t.Fatalf("RunTurn(%s): %v", turn.op, err)
		}
		if result.State.CurrentStep != turn.wantStep {
			t.Fatalf("after %s: step = %q, want %q", turn.op, result.State.CurrentStep, turn.wantStep)
		}
		if result.Next.Step != turn.wantStep {
			t.Fatalf("after %s: next turn step = %q, want %q", turn.op, result.Next.Step, turn.wantStep)
		}
	}

	result, err := engine.RunTurn(ctx, key, order.OpProcessPayment, Args{PaymentMethod: "cash"})
	if err != nil {
		t.Fatalf("RunTurn(process_payment): %v", err)
	}
	if result.Receipt == nil {
		t.Fatal("expected a receipt from process_payment")
	}
	if got := result.Receipt.Total.StringFixed(2); got != "10.03" {
		t.Errorf("receipt total = %s, want 10.03", got)
	}
	if result.Receipt.Method != "cash" {
		t.Errorf("receipt method = %q, want cash", result.Receipt.Method)
	}

	sess, err := store.Load(ctx, key)
	if err != nil {
		t.Fatalf("Load after payment: %v", err)
	}
	if sess.State.CurrentStep != order.StepPayment {
		t.Errorf("stored step after payment = %q, want %q", sess.State.CurrentStep, order.StepPayment)
	}
	if !sess.State.PaymentConfirmed {
		t.Error("stored state not marked paid")
	}
}

func TestEngine_Resume(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	key, _, err := engine.StartSession(ctx)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := engine.RunTurn(ctx, key, order.OpStartOrder, Args{}); err != nil {
		t.Fatalf("RunTurn: %v", err)
	}

	sess, turn, err := engine.Resume(ctx, key)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if sess.Key != key {
		t.Errorf("resumed key = %q, want %q", sess.Key, key)
	}
	if turn.Step != order.StepOrderCollection {
		t.Errorf("resumed turn step = %q, want %q", turn.Step, order.StepOrderCollection)
	}

	if _, _, err := engine.Resume(ctx, "no-such-key"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("Resume of unknown key: error = %v, want ErrSessionNotFound", err)
	}
}

package orderbot

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"orderbot/internal/menu"
	"orderbot/internal/models"
	"orderbot/internal/order"
	"orderbot/internal/session"
	"orderbot/internal/workflow"
)

// REPL is the interactive terminal front end over the turn engine.
type REPL struct {
	engine *Engine
	in     io.Reader
	out    io.Writer
}

func NewREPL(engine *Engine, in io.Reader, out io.Writer) *REPL {
	return &REPL{engine: engine, in: in, out: out}
}

// Run drives the conversation until the input ends, the user quits, or the
// context is cancelled. A non-empty resumeKey continues an existing
// session instead of starting a new one.
func (r *REPL) Run(ctx context.Context, resumeKey string) error {
	key, turn, err := r.openSession(ctx, resumeKey)
	if err != nil {
		return err
	}

	r.printf("============================================================\n")
	r.printf("Welcome to Mario's Pizza - OrderBot\n")
	r.printf("============================================================\n")
	r.printf("Session: %s\n", key)
	r.printf("Type 'help' for commands, 'menu' for the menu, 'quit' to leave.\n\n")
	r.printStepHint(turn)

	scanner := bufio.NewScanner(r.in)
	for {
		select {
		case <-ctx.Done():
			r.printf("\nThank you for ordering! Goodbye!\n")
			return ctx.Err()
		default:
		}

		r.printf("You: ")
		if !scanner.Scan() {
			r.printf("\nThank you for ordering! Goodbye!\n")
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, err := Parse(line)
		if err != nil {
			r.printf("OrderBot: %v\n\n", err)
			continue
		}

		if cmd.Meta != MetaNone {
			if quit := r.handleMeta(ctx, key, cmd.Meta); quit {
				r.printf("\nThank you for ordering! Goodbye!\n")
				return nil
			}
			continue
		}

		result, err := r.engine.RunTurn(ctx, key, cmd.Op, cmd.Args)
		if err != nil {
			r.printTurnError(err)
			continue
		}

		r.printf("OrderBot: %s\n\n", result.Message)
		if result.Receipt != nil {
			r.printReceipt(result.State, *result.Receipt)
		}
		r.printStepHint(result.Next)
	}
}

func (r *REPL) openSession(ctx context.Context, resumeKey string) (string, workflow.TurnContext, error) {
	if resumeKey == "" {
		return r.engine.StartSession(ctx)
	}

	sess, turn, err := r.engine.Resume(ctx, resumeKey)
	if err != nil {
		return "", workflow.TurnContext{}, fmt.Errorf("failed to resume session %q: %w", resumeKey, err)
	}
	return sess.Key, turn, nil
}

func (r *REPL) handleMeta(ctx context.Context, key string, meta Meta) (quit bool) {
	switch meta {
	case MetaQuit:
		return true
	case MetaMenu:
		r.printf("%s\n\n", menu.Text())
	case MetaHelp:
		r.printf("%s\n\n", Help())
	case MetaState:
		sess, _, err := r.engine.Resume(ctx, key)
		if err != nil {
			r.printf("OrderBot: could not read session state: %v\n\n", err)
			return false
		}
		r.printState(sess)
	}
	return false
}

func (r *REPL) printState(sess session.Session) {
	st := sess.State
	orderType := "not set"
	if st.OrderType != "" {
		orderType = string(st.OrderType)
	}
	address := "N/A"
	if st.DeliveryAddress != "" {
		address = st.DeliveryAddress
	}

	r.printf("Current Step: %s\n", st.CurrentStep)
	r.printf("  Order Type: %s\n", orderType)
	r.printf("  Delivery Address: %s\n", address)
	r.printf("  Order Items: %s\n", workflow.ItemsSummary(st.Items))
	r.printf("  Order Total: $%s\n", st.Subtotal.StringFixed(2))
	r.printf("  Payment Confirmed: %v\n\n", st.PaymentConfirmed)
}

func (r *REPL) printReceipt(st order.State, receipt order.Receipt) {
	prep := models.PrepTime(string(st.OrderType))
	if st.OrderType == order.TypeDelivery {
		r.printf("OrderBot: Delivery to %s in about %d minutes. Thank you!\n\n", st.DeliveryAddress, int(prep.Minutes()))
	} else {
		r.printf("OrderBot: Your order will be ready for pickup in about %d minutes. Thank you!\n\n", int(prep.Minutes()))
	}
}

func (r *REPL) printTurnError(err error) {
	var (
		outOfRange *order.IndexOutOfRangeError
		invalid    *order.InvalidArgumentError
	)
	switch {
	case IsContractViolation(err):
		r.printf("OrderBot: You can't do that right now. %v\n\n", err)
	case errors.As(err, &outOfRange), errors.As(err, &invalid):
		r.printf("OrderBot: %v\n\n", err)
	default:
		r.printf("OrderBot: something went wrong: %v\n\n", err)
	}
}

func (r *REPL) printStepHint(turn workflow.TurnContext) {
	r.printf("[step: %s | available: %s]\n", turn.Step, strings.Join(turn.AllowedOps, ", "))
}

func (r *REPL) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format, args...)
}

// Package workflow fixes the step transition table of the order
// conversation and projects order state into a per-turn context. The table
// is a configuration constant; nothing mutates it at runtime.
package workflow

import (
	"fmt"

	"orderbot/internal/order"
)

// StepConfig describes one conversation step: the instructional template,
// the operations legal in that step, and the state fields the step assumes
// are already populated.
type StepConfig struct {
	Prompt     string
	AllowedOps []string
	Requires   []string
}

const (
	fieldOrderItems = "order_items"
	fieldOrderType  = "order_type"
)

var stepTable = map[order.Step]StepConfig{
	order.StepGreeting: {
		Prompt:     greetingPrompt,
		AllowedOps: []string{order.OpStartOrder},
	},
	order.StepOrderCollection: {
		Prompt:     orderCollectionPrompt,
		AllowedOps: []string{order.OpAddItem, order.OpRemoveItem, order.OpFinishOrderCollection},
	},
	order.StepOrderType: {
		Prompt:     orderTypePrompt,
		AllowedOps: []string{order.OpSetOrderType},
		Requires:   []string{fieldOrderItems},
	},
	order.StepDeliveryAddress: {
		Prompt:     deliveryAddressPrompt,
		AllowedOps: []string{order.OpSetDeliveryAddress},
		Requires:   []string{fieldOrderType},
	},
	order.StepOrderSummary: {
		Prompt:     orderSummaryPrompt,
		AllowedOps: []string{order.OpConfirmOrder, order.OpAddMoreItems},
		Requires:   []string{fieldOrderItems, fieldOrderType},
	},
	order.StepPayment: {
		Prompt:     paymentPrompt,
		AllowedOps: []string{order.OpProcessPayment, order.OpGoBackToOrder},
		Requires:   []string{fieldOrderItems, fieldOrderType},
	},
}

// UnknownStepError reports a step the transition table does not define.
// With Step a closed enum this indicates a corrupted session record.
type UnknownStepError struct {
	Step order.Step
}

func (e *UnknownStepError) Error() string {
	return fmt.Sprintf("no step configuration for %q", e.Step)
}

// Config returns the table entry for a step.
func Config(step order.Step) (StepConfig, error) {
	cfg, ok := stepTable[step]
	if !ok {
		return StepConfig{}, &UnknownStepError{Step: step}
	}
	return cfg, nil
}

// Allowed reports whether an operation is legal in the given step.
func Allowed(step order.Step, op string) bool {
	cfg, ok := stepTable[step]
	if !ok {
		return false
	}
	for _, allowed := range cfg.AllowedOps {
		if allowed == op {
			return true
		}
	}
	return false
}

// MissingFields returns the step's required fields that are not populated
// in the state. A non-empty result means a table invariant was violated
// upstream; callers log it rather than failing the turn.
func MissingFields(st order.State, cfg StepConfig) []string {
	var missing []string
	for _, field := range cfg.Requires {
		switch field {
		case fieldOrderItems:
			if len(st.Items) == 0 {
				missing = append(missing, field)
			}
		case fieldOrderType:
			if st.OrderType == "" {
				missing = append(missing, field)
			}
		}
	}
	return missing
}

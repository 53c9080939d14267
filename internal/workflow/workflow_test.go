package workflow

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"orderbot/internal/menu"
	"orderbot/internal/order"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		step order.Step
		op   string
		want bool
	}{
		{order.StepGreeting, order.OpStartOrder, true},
		{order.StepGreeting, order.OpAddItem, false},
		{order.StepOrderCollection, order.OpAddItem, true},
		{order.StepOrderCollection, order.OpRemoveItem, true},
		{order.StepOrderCollection, order.OpProcessPayment, false},
		{order.StepOrderType, order.OpSetOrderType, true},
		{order.StepOrderType, order.OpGoBackToOrder, false},
		{order.StepDeliveryAddress, order.OpSetDeliveryAddress, true},
		{order.StepDeliveryAddress, order.OpConfirmOrder, false},
		{order.StepOrderSummary, order.OpConfirmOrder, true},
		{order.StepOrderSummary, order.OpAddMoreItems, true},
		{order.StepPayment, order.OpProcessPayment, true},
		{order.StepPayment, order.OpGoBackToOrder, true},
		{order.StepPayment, order.OpAddItem, false},
		{order.Step("checkout"), order.OpAddItem, false},
	}

	for _, tt := range tests {
		if got := Allowed(tt.step, tt.op); got != tt.want {
			t.Errorf("Allowed(%q, %q) = %v, want %v", tt.step, tt.op, got, tt.want)
		}
	}
}

func TestConfig_EveryStepDefined(t *testing.T) {
	steps := []order.Step{
		order.StepGreeting,
		order.StepOrderCollection,
		order.StepOrderType,
		order.StepDeliveryAddress,
		order.StepOrderSummary,
		order.StepPayment,
	}

	for _, step := range steps {
		cfg, err := Config(step)
		if err != nil {
			t.Fatalf("Config(%q): %v", step, err)
		}
		if cfg.Prompt == "" || len(cfg.AllowedOps) == 0 {
			t.Errorf("step %q has an incomplete configuration", step)
		}
	}
}

func TestConfig_UnknownStep(t *testing.T) {
	_, err := Config(order.Step("checkout"))
	var unknown *UnknownStepError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownStepError, got %v", err)
	}
}

func TestSelect_FillsPrompt(t *testing.T) {
	st := order.State{
		CurrentStep: order.StepOrderSummary,
		Items: []order.Item{
			{Name: "cheese", Size: menu.SizeMedium, Quantity: 1, Extras: []string{"mushrooms"}, UnitPrice: decimal.RequireFromString("10.75")},
		},
		OrderType:       order.TypeDelivery,
		DeliveryAddress: "123 Main St",
		Subtotal:        decimal.RequireFromString("10.75"),
	}

	turn, err := Select(st)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	if turn.Step != order.StepOrderSummary {
		t.Errorf("step = %q", turn.Step)
	}
	for _, want := range []string{"1x medium cheese (mushrooms)", "$10.75", "delivery", "123 Main St"} {
		if !strings.Contains(turn.SystemPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if len(turn.AllowedOps) != 2 {
		t.Errorf("allowed ops = %v, want confirm_order and add_more_items", turn.AllowedOps)
	}
}

func TestSelect_DefaultsForUnsetFields(t *testing.T) {
	turn, err := Select(order.NewState())
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if turn.Step != order.StepGreeting {
		t.Errorf("step = %q, want greeting", turn.Step)
	}
	if !strings.Contains(turn.SystemPrompt, "Pepperoni Pizza") {
		t.Errorf("greeting prompt should include the menu")
	}
	if got := turn.AllowedOps; len(got) != 1 || got[0] != order.OpStartOrder {
		t.Errorf("allowed ops = %v, want [start_order]", got)
	}
}

func TestSelect_DoesNotAliasTable(t *testing.T) {
	turn, err := Select(order.NewState())
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	turn.AllowedOps[0] = "mutated"

	if !Allowed(order.StepGreeting, order.OpStartOrder) {
		t.Fatalf("mutating a turn context changed the step table")
	}
}

func TestMissingFields(t *testing.T) {
	cfg, err := Config(order.StepOrderSummary)
	if err != nil {
		t.Fatalf("Config: %v", err)
	}

	st := order.State{CurrentStep: order.StepOrderSummary}
	missing := MissingFields(st, cfg)
	if len(missing) != 2 {
		t.Fatalf("missing = %v, want order_items and order_type", missing)
	}

	st.Items = []order.Item{{Name: "cheese", Quantity: 1, UnitPrice: decimal.RequireFromString("9.25")}}
	st.OrderType = order.TypePickup
	if missing := MissingFields(st, cfg); len(missing) != 0 {
		t.Fatalf("missing = %v, want none", missing)
	}
}

func TestItemsSummary(t *testing.T) {
	tests := []struct {
		name  string
		items []order.Item
		want  string
	}{
		{"empty", nil, "empty"},
		{
			"unsized item",
			[]order.Item{{Name: "greek_salad", Quantity: 1, UnitPrice: decimal.RequireFromString("7.25")}},
			"1x greek_salad",
		},
		{
			"multiple lines",
			[]order.Item{
				{Name: "pepperoni", Size: menu.SizeLarge, Quantity: 2, Extras: []string{"sausage"}, UnitPrice: decimal.RequireFromString("15.95")},
				{Name: "coke", Size: menu.SizeSmall, Quantity: 1, UnitPrice: decimal.RequireFromString("1.00")},
			},
			"2x large pepperoni (sausage); 1x small coke",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ItemsSummary(tt.items); got != tt.want {
				t.Errorf("ItemsSummary = %q, want %q", got, tt.want)
			}
		})
	}
}

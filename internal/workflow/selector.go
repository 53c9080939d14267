package workflow

import (
	"fmt"
	"strings"
	"text/template"

	"orderbot/internal/menu"
	"orderbot/internal/order"
)

// TurnContext is the projection handed to the turn-taking decision-maker:
// the filled instructional prompt and exactly the operations legal now.
type TurnContext struct {
	Step         order.Step
	SystemPrompt string
	AllowedOps   []string
}

type promptData struct {
	Menu            string
	OrderItems      string
	OrderTotal      string
	OrderType       string
	DeliveryAddress string
}

var promptTemplates = func() map[order.Step]*template.Template {
	parsed := make(map[order.Step]*template.Template, len(stepTable))
	for step, cfg := range stepTable {
		parsed[step] = template.Must(template.New(string(step)).Parse(cfg.Prompt))
	}
	return parsed
}()

// Select reads the current step, looks up its table entry, and returns the
// narrowed turn context. It never mutates the state.
func Select(st order.State) (TurnContext, error) {
	cfg, err := Config(st.CurrentStep)
	if err != nil {
		return TurnContext{}, err
	}

	data := promptData{
		Menu:            menu.Text(),
		OrderItems:      ItemsSummary(st.Items),
		OrderTotal:      st.Subtotal.StringFixed(2),
		OrderType:       "not set",
		DeliveryAddress: "N/A",
	}
	if st.OrderType != "" {
		data.OrderType = string(st.OrderType)
	}
	if st.DeliveryAddress != "" {
		data.DeliveryAddress = st.DeliveryAddress
	}

	var prompt strings.Builder
	if err := promptTemplates[st.CurrentStep].Execute(&prompt, data); err != nil {
		return TurnContext{}, fmt.Errorf("failed to fill prompt for step %q: %w", st.CurrentStep, err)
	}

	return TurnContext{
		Step:         st.CurrentStep,
		SystemPrompt: prompt.String(),
		AllowedOps:   append([]string(nil), cfg.AllowedOps...),
	}, nil
}

// ItemsSummary renders the order lines for display and prompts:
// "1x medium cheese (extra_cheese); 2x small coke".
func ItemsSummary(items []order.Item) string {
	if len(items) == 0 {
		return "empty"
	}

	parts := make([]string, len(items))
	for i, item := range items {
		line := fmt.Sprintf("%dx", item.Quantity)
		if item.Size != menu.SizeNone {
			line += " " + string(item.Size)
		}
		line += " " + item.Name
		if len(item.Extras) > 0 {
			line += " (" + strings.Join(item.Extras, ", ") + ")"
		}
		parts[i] = line
	}
	return strings.Join(parts, "; ")
}

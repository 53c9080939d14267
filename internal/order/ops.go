package order

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Operation names as the step transition table and the registry know them.
const (
	OpStartOrder            = "start_order"
	OpAddItem               = "add_item"
	OpRemoveItem            = "remove_item"
	OpFinishOrderCollection = "finish_order_collection"
	OpSetOrderType          = "set_order_type"
	OpSetDeliveryAddress    = "set_delivery_address"
	OpConfirmOrder          = "confirm_order"
	OpAddMoreItems          = "add_more_items"
	OpProcessPayment        = "process_payment"
	OpGoBackToOrder         = "go_back_to_order"
)

// StartOrder resets the order and begins collecting items.
func StartOrder(st State) (State, string, error) {
	if st.CurrentStep != StepGreeting {
		return st, "", &InvalidStepTransitionError{Op: OpStartOrder, Step: st.CurrentStep}
	}

	next := st.Clone()
	next.Items = nil
	next.Subtotal = decimal.Zero
	next.CurrentStep = StepOrderCollection

	return next, "Ready to take order. Order collection started.", nil
}

// AddItem appends an item to the order. The unit price is supplied by the
// caller, which is expected to have computed it from the catalog plus
// extras; the operation trusts caller-supplied pricing.
func AddItem(st State, item Item) (State, string, error) {
	if st.CurrentStep != StepOrderCollection {
		return st, "", &InvalidStepTransitionError{Op: OpAddItem, Step: st.CurrentStep}
	}
	if item.Quantity < 1 {
		return st, "", &InvalidArgumentError{Field: "quantity", Reason: "must be at least 1"}
	}
	if item.Name == "" {
		return st, "", &InvalidArgumentError{Field: "item_name", Reason: "must not be empty"}
	}
	if item.UnitPrice.IsNegative() {
		return st, "", &InvalidArgumentError{Field: "unit_price", Reason: "must not be negative"}
	}

	next := st.Clone()
	next.Items = append(next.Items, item)
	next.Subtotal = next.Subtotal.Add(item.LineTotal())

	label := item.Name
	if item.Size != "" {
		label = fmt.Sprintf("%s %s", item.Size, item.Name)
	}
	extras := ""
	if len(item.Extras) > 0 {
		extras = " with " + strings.Join(item.Extras, ", ")
	}
	msg := fmt.Sprintf("Added: %dx %s%s ($%s each). Running total: $%s",
		item.Quantity, label, extras,
		item.UnitPrice.StringFixed(2), next.Subtotal.StringFixed(2))

	return next, msg, nil
}

// RemoveItem removes the item at the given 1-based position and recomputes
// the subtotal from scratch over the remaining items.
func RemoveItem(st State, index int) (State, string, error) {
	if st.CurrentStep != StepOrderCollection {
		return st, "", &InvalidStepTransitionError{Op: OpRemoveItem, Step: st.CurrentStep}
	}
	if index < 1 || index > len(st.Items) {
		return st, "", &IndexOutOfRangeError{Index: index, Count: len(st.Items)}
	}

	next := st.Clone()
	removed := next.Items[index-1]
	next.Items = append(next.Items[:index-1], next.Items[index:]...)
	next.Subtotal = ItemsTotal(next.Items)

	msg := fmt.Sprintf("Removed: %s. New total: $%s", removed.Name, next.Subtotal.StringFixed(2))
	return next, msg, nil
}

// FinishOrderCollection moves on to the pickup-or-delivery question.
func FinishOrderCollection(st State) (State, string, error) {
	if st.CurrentStep != StepOrderCollection || len(st.Items) == 0 {
		return st, "", &InvalidStepTransitionError{Op: OpFinishOrderCollection, Step: st.CurrentStep}
	}

	next := st.Clone()
	next.CurrentStep = StepOrderType

	return next, "Order collection complete. Now asking about pickup or delivery.", nil
}

// SetOrderType records pickup or delivery and routes to the next step.
func SetOrderType(st State, orderType OrderType) (State, string, error) {
	if st.CurrentStep != StepOrderType {
		return st, "", &InvalidStepTransitionError{Op: OpSetOrderType, Step: st.CurrentStep}
	}
	if orderType != TypePickup && orderType != TypeDelivery {
		return st, "", &InvalidArgumentError{Field: "order_type", Reason: `must be "pickup" or "delivery"`}
	}

	next := st.Clone()
	next.OrderType = orderType
	if orderType == TypeDelivery {
		next.CurrentStep = StepDeliveryAddress
	} else {
		next.CurrentStep = StepOrderSummary
	}

	return next, fmt.Sprintf("Order type set to: %s", orderType), nil
}

// SetDeliveryAddress records the delivery address.
func SetDeliveryAddress(st State, address string) (State, string, error) {
	if st.CurrentStep != StepDeliveryAddress {
		return st, "", &InvalidStepTransitionError{Op: OpSetDeliveryAddress, Step: st.CurrentStep}
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return st, "", &InvalidArgumentError{Field: "address", Reason: "must not be empty"}
	}

	next := st.Clone()
	next.DeliveryAddress = address
	next.CurrentStep = StepOrderSummary

	return next, fmt.Sprintf("Delivery address recorded: %s", address), nil
}

// ConfirmOrder moves a non-empty order to payment.
func ConfirmOrder(st State) (State, string, error) {
	if st.CurrentStep != StepOrderSummary || len(st.Items) == 0 {
		return st, "", &InvalidStepTransitionError{Op: OpConfirmOrder, Step: st.CurrentStep}
	}

	next := st.Clone()
	next.CurrentStep = StepPayment

	return next, "Order confirmed! Moving to payment.", nil
}

// AddMoreItems returns to order collection without clearing items.
func AddMoreItems(st State) (State, string, error) {
	if st.CurrentStep != StepOrderSummary {
		return st, "", &InvalidStepTransitionError{Op: OpAddMoreItems, Step: st.CurrentStep}
	}

	next := st.Clone()
	next.CurrentStep = StepOrderCollection

	return next, "Going back to add more items.", nil
}

// Receipt is the payment breakdown produced by ProcessPayment.
type Receipt struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
	Method   string          `json:"method"`
}

// ProcessPayment computes tax and the final total and marks the payment
// confirmed. The step stays at payment so the order can still be corrected
// via GoBackToOrder.
func ProcessPayment(st State, method string) (State, Receipt, string, error) {
	if st.CurrentStep != StepPayment {
		return st, Receipt{}, "", &InvalidStepTransitionError{Op: OpProcessPayment, Step: st.CurrentStep}
	}
	method = strings.TrimSpace(method)
	if method == "" {
		return st, Receipt{}, "", &InvalidArgumentError{Field: "payment_method", Reason: "must not be empty"}
	}

	receipt := Receipt{
		Subtotal: st.Subtotal,
		Tax:      Tax(st.Subtotal),
		Total:    FinalTotal(st.Subtotal),
		Method:   method,
	}

	next := st.Clone()
	next.PaymentConfirmed = true

	msg := fmt.Sprintf("Payment processed via %s. Subtotal: $%s, Tax: $%s, Total: $%s. Order placed successfully!",
		method, receipt.Subtotal.StringFixed(2), receipt.Tax.StringFixed(2), receipt.Total.StringFixed(2))

	return next, receipt, msg, nil
}

// GoBackToOrder returns from payment to order collection. It does not
// reset PaymentConfirmed: a prior successful payment stays recorded even
// if the order is then modified.
func GoBackToOrder(st State) (State, string, error) {
	if st.CurrentStep != StepPayment {
		return st, "", &InvalidStepTransitionError{Op: OpGoBackToOrder, Step: st.CurrentStep}
	}

	next := st.Clone()
	next.CurrentStep = StepOrderCollection

	return next, "Going back to order collection.", nil
}

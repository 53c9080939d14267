package order

import "fmt"

// InvalidStepTransitionError reports an operation invoked outside its legal
// step. This is a caller contract violation, fatal to the turn but not to
// the session.
type InvalidStepTransitionError struct {
	Op   string
	Step Step
}

func (e *InvalidStepTransitionError) Error() string {
	return fmt.Sprintf("operation %q is not allowed in step %q", e.Op, e.Step)
}

// IndexOutOfRangeError reports a remove_item position outside the order.
type IndexOutOfRangeError struct {
	Index int
	Count int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("item index %d is out of range: order has %d items", e.Index, e.Count)
}

// InvalidArgumentError reports a rejected operation argument.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

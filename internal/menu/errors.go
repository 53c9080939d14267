package menu

import "fmt"

// UnknownItemError reports a lookup for an item the catalog does not carry.
type UnknownItemError struct {
	Category Category
	Name     string
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("unknown %s: %q", e.Category, e.Name)
}

// UnknownSizeError reports a size not offered for an item.
type UnknownSizeError struct {
	Name string
	Size Size
}

func (e *UnknownSizeError) Error() string {
	if e.Size == SizeNone {
		return fmt.Sprintf("item %q requires a size", e.Name)
	}
	return fmt.Sprintf("size %q is not offered for %q", e.Size, e.Name)
}

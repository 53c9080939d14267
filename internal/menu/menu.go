// Package menu holds the static pricing catalog for the order bot.
// The catalog is a process-wide constant; nothing mutates it after init.
package menu

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Category identifies a family of menu items.
type Category string

const (
	CategoryPizza   Category = "pizza"
	CategorySide    Category = "side"
	CategoryTopping Category = "topping"
	CategoryDrink   Category = "drink"
)

// Size identifies a portion size. Not all items offer all sizes; unsized
// items are priced under SizeNone.
type Size string

const (
	SizeLarge   Size = "large"
	SizeMedium  Size = "medium"
	SizeSmall   Size = "small"
	SizeRegular Size = "regular"
	SizeNone    Size = ""
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var pizzaPrices = map[string]map[Size]decimal.Decimal{
	"pepperoni": {SizeLarge: price("12.95"), SizeMedium: price("10.00"), SizeSmall: price("7.00")},
	"cheese":    {SizeLarge: price("10.95"), SizeMedium: price("9.25"), SizeSmall: price("6.50")},
	"eggplant":  {SizeLarge: price("11.95"), SizeMedium: price("9.75"), SizeSmall: price("6.75")},
}

var sidePrices = map[string]map[Size]decimal.Decimal{
	"fries":       {SizeLarge: price("4.50"), SizeRegular: price("3.50")},
	"greek_salad": {SizeNone: price("7.25")},
}

var toppingPrices = map[string]decimal.Decimal{
	"extra_cheese":   price("2.00"),
	"mushrooms":      price("1.50"),
	"sausage":        price("3.00"),
	"canadian_bacon": price("3.50"),
	"ai_sauce":       price("1.50"),
	"peppers":        price("1.00"),
}

var drinkPrices = map[string]map[Size]decimal.Decimal{
	"coke":          {SizeLarge: price("3.00"), SizeMedium: price("2.00"), SizeSmall: price("1.00")},
	"sprite":        {SizeLarge: price("3.00"), SizeMedium: price("2.00"), SizeSmall: price("1.00")},
	"bottled_water": {SizeNone: price("5.00")},
}

var catalog = map[Category]map[string]map[Size]decimal.Decimal{
	CategoryPizza: pizzaPrices,
	CategorySide:  sidePrices,
	CategoryDrink: drinkPrices,
}

// Normalize converts a human item name to its catalog key:
// "Greek Salad" -> "greek_salad".
func Normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// LookupPrice returns the unit price for an item in the given size plus the
// price of each extra topping. Extras are only meaningful for pizzas but are
// priced for any category; the caller decides whether they make sense.
func LookupPrice(category Category, name string, size Size, extras []string) (decimal.Decimal, error) {
	if category == CategoryTopping {
		p, ok := toppingPrices[Normalize(name)]
		if !ok {
			return decimal.Zero, &UnknownItemError{Category: category, Name: name}
		}
		return p, nil
	}

	family, ok := catalog[category]
	if !ok {
		return decimal.Zero, &UnknownItemError{Category: category, Name: name}
	}

	sizes, ok := family[Normalize(name)]
	if !ok {
		return decimal.Zero, &UnknownItemError{Category: category, Name: name}
	}

	unit, ok := sizes[size]
	if !ok {
		return decimal.Zero, &UnknownSizeError{Name: name, Size: size}
	}

	for _, extra := range extras {
		p, ok := toppingPrices[Normalize(extra)]
		if !ok {
			return decimal.Zero, &UnknownItemError{Category: CategoryTopping, Name: extra}
		}
		unit = unit.Add(p)
	}

	return unit, nil
}

// FindCategory reports which category a catalog key belongs to.
func FindCategory(name string) (Category, bool) {
	key := Normalize(name)
	for category, family := range catalog {
		if _, ok := family[key]; ok {
			return category, true
		}
	}
	if _, ok := toppingPrices[key]; ok {
		return CategoryTopping, true
	}
	return "", false
}

// Sizes returns the sizes offered for a catalog item, or false when the item
// is unknown.
func Sizes(category Category, name string) ([]Size, bool) {
	family, ok := catalog[category]
	if !ok {
		return nil, false
	}
	sizes, ok := family[Normalize(name)]
	if !ok {
		return nil, false
	}
	out := make([]Size, 0, len(sizes))
	for _, s := range []Size{SizeLarge, SizeMedium, SizeSmall, SizeRegular, SizeNone} {
		if _, ok := sizes[s]; ok {
			out = append(out, s)
		}
	}
	return out, true
}

// Text returns the customer-facing menu.
func Text() string {
	return `PIZZAS (large / medium / small):
  - Pepperoni Pizza: $12.95 / $10.00 / $7.00
  - Cheese Pizza:    $10.95 / $9.25 / $6.50
  - Eggplant Pizza:  $11.95 / $9.75 / $6.75

SIDES:
  - Fries: $4.50 (large) / $3.50 (regular)
  - Greek Salad: $7.25

TOPPINGS (extra, per pizza):
  - Extra Cheese: $2.00
  - Mushrooms: $1.50
  - Sausage: $3.00
  - Canadian Bacon: $3.50
  - AI Sauce: $1.50
  - Peppers: $1.00

DRINKS (large / medium / small):
  - Coke:   $3.00 / $2.00 / $1.00
  - Sprite: $3.00 / $2.00 / $1.00
  - Bottled Water: $5.00`
}

package menu

import (
	"errors"
	"testing"
)

func TestLookupPrice(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		item     string
		size     Size
		extras   []string
		want     string
		wantErr  bool
	}{
		{
			name:     "medium cheese pizza",
			category: CategoryPizza,
			item:     "cheese",
			size:     SizeMedium,
			want:     "9.25",
		},
		{
			name:     "large pepperoni with extras",
			category: CategoryPizza,
			item:     "pepperoni",
			size:     SizeLarge,
			extras:   []string{"extra_cheese", "mushrooms"},
			want:     "16.45",
		},
		{
			name:     "human-readable item name",
			category: CategorySide,
			item:     "Greek Salad",
			size:     SizeNone,
			want:     "7.25",
		},
		{
			name:     "regular fries",
			category: CategorySide,
			item:     "fries",
			size:     SizeRegular,
			want:     "3.50",
		},
		{
			name:     "bottled water is unsized",
			category: CategoryDrink,
			item:     "bottled_water",
			size:     SizeNone,
			want:     "5.00",
		},
		{
			name:     "topping lookup ignores size",
			category: CategoryTopping,
			item:     "canadian_bacon",
			size:     SizeNone,
			want:     "3.50",
		},
		{
			name:     "small coke",
			category: CategoryDrink,
			item:     "coke",
			size:     SizeSmall,
			want:     "1.00",
		},
		{
			name:     "unknown item",
			category: CategoryPizza,
			item:     "hawaiian",
			size:     SizeLarge,
			wantErr:  true,
		},
		{
			name:     "unknown extra",
			category: CategoryPizza,
			item:     "cheese",
			size:     SizeLarge,
			extras:   []string{"pineapple"},
			wantErr:  true,
		},
		{
			name:     "unknown size for item",
			category: CategorySide,
			item:     "fries",
			size:     SizeMedium,
			wantErr:  true,
		},
		{
			name:     "missing size for sized item",
			category: CategoryPizza,
			item:     "cheese",
			size:     SizeNone,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LookupPrice(tt.category, tt.item, tt.size, tt.extras)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got price %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("LookupPrice returned error: %v", err)
			}
			if got.StringFixed(2) != tt.want {
				t.Errorf("LookupPrice = %s, want %s", got.StringFixed(2), tt.want)
			}
		})
	}
}

func TestLookupPrice_ErrorTypes(t *testing.T) {
	_, err := LookupPrice(CategoryPizza, "hawaiian", SizeLarge, nil)
	var unknownItem *UnknownItemError
	if !errors.As(err, &unknownItem) {
		t.Fatalf("expected UnknownItemError, got %v", err)
	}

	_, err = LookupPrice(CategoryDrink, "coke", SizeRegular, nil)
	var unknownSize *UnknownSizeError
	if !errors.As(err, &unknownSize) {
		t.Fatalf("expected UnknownSizeError, got %v", err)
	}
	if unknownSize.Size != SizeRegular {
		t.Errorf("error size = %q, want %q", unknownSize.Size, SizeRegular)
	}
}

func TestFindCategory(t *testing.T) {
	tests := []struct {
		item string
		want Category
		ok   bool
	}{
		{"pepperoni", CategoryPizza, true},
		{"Fries", CategorySide, true},
		{"sprite", CategoryDrink, true},
		{"ai_sauce", CategoryTopping, true},
		{"calzone", "", false},
	}

	for _, tt := range tests {
		got, ok := FindCategory(tt.item)
		if ok != tt.ok || got != tt.want {
			t.Errorf("FindCategory(%q) = (%q, %v), want (%q, %v)", tt.item, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSizes(t *testing.T) {
	sizes, ok := Sizes(CategorySide, "fries")
	if !ok {
		t.Fatalf("expected fries to be known")
	}
	if len(sizes) != 2 {
		t.Fatalf("fries sizes = %v, want large and regular", sizes)
	}
}

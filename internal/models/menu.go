package models

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Item categories with customization behaviour attached to them.
const (
	CategoryBurgers = "Burgers"
	CategoryDrinks  = "Drinks"
)

// Ingredient is an optional add-on defined on a menu item. Default
// ingredients are part of the base item; non-default ones can be added
// for their listed price.
type Ingredient struct {
	Price   decimal.Decimal `json:"price"`
	Default bool            `json:"default"`
}

// MenuItem is a single catalog entry. An item with a non-empty Contents
// map is a combo bundling fixed quantities of other menu items.
type MenuItem struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Price       decimal.Decimal       `json:"price"`
	Category    string                `json:"category"`
	Contents    map[string]int        `json:"contents,omitempty"`
	Ingredients map[string]Ingredient `json:"ingredients,omitempty"`
}

// IsCombo reports whether the item bundles other items.
func (m MenuItem) IsCombo() bool {
	return len(m.Contents) > 0
}

// Menu is the full catalog keyed by item ID.
type Menu map[string]MenuItem

// Validate checks catalog consistency: prices must be non-negative and
// every combo component must resolve to an existing menu item.
func (menu Menu) Validate() error {
	for id, item := range menu {
		if item.Price.IsNegative() {
			return fmt.Errorf("menu item %s has negative price", id)
		}
		for componentID, qty := range item.Contents {
			if qty <= 0 {
				return fmt.Errorf("combo %s has non-positive quantity for component %s", id, componentID)
			}
			if _, ok := menu[componentID]; !ok {
				return fmt.Errorf("combo %s references unknown component %s", id, componentID)
			}
		}
	}
	return nil
}

// InCategory returns the menu items of one category, ordered by ID.
func (menu Menu) InCategory(category string) []MenuItem {
	var items []MenuItem
	for _, item := range menu {
		if item.Category == category {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

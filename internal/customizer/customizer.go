// Package customizer interactively resolves a fully priced line item
// from a catalog entry: quantity, optional ingredient add-ons for
// burgers, and per-unit component customization for combos.
package customizer

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"restaurant-pos/internal/models"
)

// Prompter supplies validated user input. Int reprompts until the
// value is an integer within [min, max]; YesNo reprompts until the
// answer is y or n.
type Prompter interface {
	Line(prompt string) string
	Int(prompt string, min, max int) int
	YesNo(prompt string) bool
}

// Customizer builds line items from menu items through prompts.
type Customizer struct {
	in  Prompter
	out io.Writer
}

// New creates a customizer writing its output to out.
func New(in Prompter, out io.Writer) *Customizer {
	return &Customizer{in: in, out: out}
}

// Customize resolves a priced line item for a catalog entry. Combos
// need the full menu to resolve their components.
func (c *Customizer) Customize(item models.MenuItem, menu models.Menu) models.LineItem {
	var li models.LineItem
	if item.IsCombo() {
		li = c.customizeCombo(item, menu)
	} else {
		li = c.customizeSingle(item, false)
	}
	li.Remarks = c.in.Line("Special instructions (press Enter to skip): ")
	return li
}

// customizeSingle handles a plain item. As a combo part the quantity
// prompt is suppressed and the unit is customized in place.
func (c *Customizer) customizeSingle(item models.MenuItem, comboPart bool) models.LineItem {
	li := models.LineItem{
		ID:        item.ID,
		Name:      item.Name,
		UnitPrice: item.Price,
		Quantity:  1,
		Kind:      models.KindSingle,
	}

	if !comboPart {
		li.Quantity = c.in.Int(
			fmt.Sprintf("Enter quantity for %s (%d-%d): ", item.Name, models.MinQuantity, models.MaxQuantity),
			models.MinQuantity, models.MaxQuantity)
	}

	if item.Category == models.CategoryBurgers && len(item.Ingredients) > 0 {
		fmt.Fprintln(c.out, "\nCustomizable ingredients:")
		for _, name := range sortedIngredients(item.Ingredients) {
			ing := item.Ingredients[name]
			if ing.Default {
				continue
			}
			if c.in.YesNo(fmt.Sprintf("Add %s (+RM%s)? (y/n): ", name, ing.Price.StringFixed(2))) {
				li.UnitPrice = li.UnitPrice.Add(ing.Price)
				li.Name += " +" + name
			}
		}
	}

	return li
}

// customizeCombo walks the combo's fixed components. Burger components
// can have individual units customized, drink components can be
// substituted unit by unit, everything else stays standard.
func (c *Customizer) customizeCombo(item models.MenuItem, menu models.Menu) models.LineItem {
	li := models.LineItem{
		ID:        item.ID,
		Name:      item.Name,
		UnitPrice: item.Price,
		Quantity:  1,
		Kind:      models.KindCombo,
		Contents:  make(map[string][]models.ComponentChoice, len(item.Contents)),
	}

	fmt.Fprintf(c.out, "\nCustomizing %s Combo\n", item.Name)

	for _, componentID := range sortedComponents(item.Contents) {
		component, ok := menu[componentID]
		if !ok {
			// Unknown component IDs carry no content and are skipped.
			continue
		}
		fixedQty := item.Contents[componentID]

		switch component.Category {
		case models.CategoryBurgers:
			li.Contents[componentID] = c.customizeBurgerUnits(&li, component, fixedQty)
		case models.CategoryDrinks:
			li.Contents[componentID] = c.substituteDrinks(&li, component, fixedQty, menu)
		default:
			fmt.Fprintf(c.out, "\n%s x%d (Standard)\n", component.Name, fixedQty)
			li.Contents[componentID] = []models.ComponentChoice{{Quantity: fixedQty, Customization: nil}}
		}
	}

	return li
}

func (c *Customizer) customizeBurgerUnits(li *models.LineItem, component models.MenuItem, fixedQty int) []models.ComponentChoice {
	fmt.Fprintf(c.out, "\n%s x%d\n", component.Name, fixedQty)
	toCustomize := c.in.Int(fmt.Sprintf("How many burgers to customize? (0-%d): ", fixedQty), 0, fixedQty)

	var choices []models.ComponentChoice
	for i := 0; i < toCustomize; i++ {
		fmt.Fprintf(c.out, "\nCustomizing Burger #%d:\n", i+1)
		sub := c.customizeSingle(component, true)
		choices = append(choices, models.ComponentChoice{
			Quantity: 1,
			Customization: &models.Customization{
				Name:      sub.Name,
				UnitPrice: sub.UnitPrice,
			},
		})
		li.UnitPrice = li.UnitPrice.Add(sub.UnitPrice.Sub(component.Price))
	}
	if remaining := fixedQty - toCustomize; remaining > 0 {
		choices = append(choices, models.ComponentChoice{Quantity: remaining, Customization: nil})
	}
	return choices
}

func (c *Customizer) substituteDrinks(li *models.LineItem, component models.MenuItem, fixedQty int, menu models.Menu) []models.ComponentChoice {
	fmt.Fprintf(c.out, "\nOriginal Drink: %s x%d\n", component.Name, fixedQty)

	drinks := menu.InCategory(models.CategoryDrinks)
	remaining := fixedQty
	var choices []models.ComponentChoice

	for remaining > 0 {
		fmt.Fprintf(c.out, "\nDrinks left to customize: %d\nAvailable drinks:\n", remaining)
		for _, drink := range drinks {
			fmt.Fprintf(c.out, "%s. %s (RM%s)\n", drink.ID, drink.Name, drink.Price.StringFixed(2))
		}

		choice := strings.ToUpper(c.in.Line("Enter drink ID or 'keep' remaining: "))
		if choice == "KEEP" {
			break
		}
		drink, ok := menu[choice]
		if !ok || drink.Category != models.CategoryDrinks {
			fmt.Fprintln(c.out, "Invalid choice! Try again.")
			continue
		}

		qty := c.in.Int(fmt.Sprintf("How many %s? (1-%d): ", drink.Name, remaining), 1, remaining)
		choices = append(choices, models.ComponentChoice{
			Quantity: qty,
			Customization: &models.Customization{
				SubstitutedID: drink.ID,
				Name:          drink.Name,
				UnitPrice:     drink.Price,
			},
		})
		diff := drink.Price.Sub(component.Price)
		li.UnitPrice = li.UnitPrice.Add(diff.Mul(decimal.NewFromInt(int64(qty))))
		remaining -= qty
	}

	if remaining > 0 {
		choices = append(choices, models.ComponentChoice{Quantity: remaining, Customization: nil})
	}
	return choices
}

func sortedComponents(contents map[string]int) []string {
	ids := make([]string, 0, len(contents))
	for id := range contents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedIngredients(ingredients map[string]models.Ingredient) []string {
	names := make([]string, 0, len(ingredients))
	for name := range ingredients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

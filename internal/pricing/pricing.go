// Package pricing computes order totals. Pricing is a pure function of
// the persisted order state: the item tuples, the item-details names,
// the cart-contents snapshot and the discount ledger. Repricing the
// same state always yields the same quote.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"restaurant-pos/internal/models"
)

// TaxRate is the sales tax applied to the discounted subtotal.
var TaxRate = decimal.NewFromFloat(0.06)

var hundred = decimal.NewFromInt(100)

// Quote is the result of pricing an order.
type Quote struct {
	Subtotal      decimal.Decimal
	Details       []models.Discount
	TotalDiscount decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal

	// ItemTotals and ItemDiscounts track per-item values so callers can
	// compute the remaining discountable value of a single line.
	ItemTotals    map[string]decimal.Decimal
	ItemDiscounts map[string]decimal.Decimal
}

// OrderRemaining is the order value not yet consumed by discounts.
func (q Quote) OrderRemaining() decimal.Decimal {
	remaining := q.Subtotal.Sub(q.TotalDiscount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// ItemRemaining is the value of one line not yet consumed by discounts
// scoped to it.
func (q Quote) ItemRemaining(itemID string) decimal.Decimal {
	remaining := q.ItemTotals[itemID].Sub(q.ItemDiscounts[itemID])
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// Price prices an order against the catalog: per-line unit prices
// resolved from the order's customization records, discounts applied
// sequentially in ledger order against remaining values, then 6% tax
// on the discounted subtotal. The total is never negative.
func Price(order *models.Order, menu models.Menu) Quote {
	q := Quote{
		Subtotal:      decimal.Zero,
		TotalDiscount: decimal.Zero,
		ItemTotals:    make(map[string]decimal.Decimal),
		ItemDiscounts: make(map[string]decimal.Decimal),
	}

	for _, line := range order.Items {
		total := UnitPrice(line.ItemID, order, menu).Mul(decimal.NewFromInt(int64(line.Quantity)))
		q.ItemTotals[line.ItemID] = q.ItemTotals[line.ItemID].Add(total)
		q.Subtotal = q.Subtotal.Add(total)
	}

	for _, d := range order.Discounts {
		var remaining decimal.Decimal
		switch d.ApplyTo {
		case models.ScopeSpecificItem:
			itemTotal, ok := q.ItemTotals[d.ItemCode]
			if !ok {
				continue
			}
			remaining = itemTotal.Sub(q.ItemDiscounts[d.ItemCode])
		case models.ScopeTotal:
			remaining = q.Subtotal.Sub(q.TotalDiscount)
		default:
			continue
		}
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		amount := Amount(d.Type, d.Value, remaining)
		if !amount.IsPositive() {
			continue
		}

		applied := d
		applied.Amount = amount
		q.Details = append(q.Details, applied)
		q.TotalDiscount = q.TotalDiscount.Add(amount)
		if d.ApplyTo == models.ScopeSpecificItem {
			q.ItemDiscounts[d.ItemCode] = q.ItemDiscounts[d.ItemCode].Add(amount)
		}
	}

	taxable := q.Subtotal.Sub(q.TotalDiscount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	q.Tax = taxable.Mul(TaxRate).Round(2)
	q.Total = taxable.Add(q.Tax)

	return q
}

// Amount computes a discount amount against a remaining value. A
// percentage takes its share of the remaining value, rounded to two
// decimals; a fixed amount is capped at the remaining value. The
// result never exceeds what remains.
func Amount(discountType models.DiscountType, value, remaining decimal.Decimal) decimal.Decimal {
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	if discountType == models.DiscountPercentage {
		amount := remaining.Mul(value).Div(hundred).Round(2)
		if amount.GreaterThan(remaining) {
			return remaining
		}
		return amount
	}
	if value.GreaterThan(remaining) {
		return remaining
	}
	return value
}

// UnitPrice resolves the unit price of one order line. Customized
// items are repriced from their recorded display name or cart-contents
// snapshot; everything else uses the catalog base price.
func UnitPrice(itemID string, order *models.Order, menu models.Menu) decimal.Decimal {
	if desc, ok := order.ItemDetails[itemID]; ok {
		return customPrice(itemID, desc, order, menu)
	}
	if li, ok := order.CartLine(itemID); ok {
		return customPrice(itemID, li.Name, order, menu)
	}
	return menu[itemID].Price
}

// customPrice reprices a customized item from its description. Combos
// are repriced from the cart-contents snapshot; single items from the
// "+ingredient" annotations on the display name.
func customPrice(itemID, description string, order *models.Order, menu models.Menu) decimal.Decimal {
	item, ok := menu[itemID]
	if !ok {
		return decimal.Zero
	}

	if item.IsCombo() {
		if li, ok := order.CartLine(itemID); ok {
			return item.Price.Add(comboDelta(li, menu))
		}
		return item.Price
	}

	if !strings.Contains(description, "+") {
		return item.Price
	}
	price := item.Price
	parts := strings.Split(description, "+")
	for _, name := range parts[1:] {
		if ing, ok := item.Ingredients[strings.TrimSpace(name)]; ok {
			price = price.Add(ing.Price)
		}
	}
	return price
}

// comboDelta sums the price adjustments of a combo's customized
// component units versus their standard content.
func comboDelta(li models.LineItem, menu models.Menu) decimal.Decimal {
	delta := decimal.Zero
	for componentID, choices := range li.Contents {
		base := menu[componentID].Price
		for _, choice := range choices {
			if choice.Customization == nil {
				continue
			}
			diff := choice.Customization.UnitPrice.Sub(base)
			delta = delta.Add(diff.Mul(decimal.NewFromInt(int64(choice.Quantity))))
		}
	}
	return delta
}

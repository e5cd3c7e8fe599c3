package models

import "github.com/shopspring/decimal"

// DiscountType distinguishes percentage discounts from fixed amounts.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// DiscountScope is what a discount applies to.
type DiscountScope string

const (
	ScopeTotal        DiscountScope = "total"
	ScopeSpecificItem DiscountScope = "specific_item"
)

// Discount is one ledger entry on an order. Value is what was entered
// (a percentage or a currency amount); Amount is the currency amount
// computed against the remaining discountable value when the entry was
// applied, and is never recomputed to a different result afterward.
type Discount struct {
	Type        DiscountType    `json:"type"`
	Value       decimal.Decimal `json:"value"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ApplyTo     DiscountScope   `json:"apply_to"`
	ItemCode    string          `json:"item_code,omitempty"`
	PromoCode   string          `json:"promo_code,omitempty"`
}

// Promo is a promo-code definition from the promo catalog.
type Promo struct {
	Code        string          `json:"code"`
	Type        DiscountType    `json:"type"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description"`
	ApplyTo     DiscountScope   `json:"apply_to"`
	ItemCode    string          `json:"item_code,omitempty"`
}

package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ItemKind distinguishes plain line items from combos.
type ItemKind string

const (
	KindSingle ItemKind = "single"
	KindCombo  ItemKind = "combo"
)

// Limits on a single cart line.
const (
	MinQuantity = 1
	MaxQuantity = 10
)

// Customization records what replaced a combo component unit: either a
// substituted item (drinks) or an individually customized unit (burgers).
// UnitPrice is the fully resolved price of the replacement.
type Customization struct {
	SubstitutedID string          `json:"substituted_id,omitempty"`
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
}

// ComponentChoice covers some quantity of a combo component. A nil
// Customization means those units keep the standard content.
type ComponentChoice struct {
	Quantity      int            `json:"quantity"`
	Customization *Customization `json:"customization"`
}

// LineItem is one cart or order entry. ID references the menu item the
// line was built from; Name carries "+ingredient" annotations for
// customized items. UnitPrice reflects the fully resolved customization
// at creation time and is never recomputed implicitly afterward.
type LineItem struct {
	ID        string                       `json:"id"`
	Name      string                       `json:"name"`
	UnitPrice decimal.Decimal              `json:"unit_price"`
	Quantity  int                          `json:"quantity"`
	Remarks   string                       `json:"remarks"`
	Kind      ItemKind                     `json:"kind"`
	Contents  map[string][]ComponentChoice `json:"contents,omitempty"`
}

// Validate checks the line item invariants.
func (li LineItem) Validate() error {
	if li.ID == "" {
		return fmt.Errorf("%w: line item ID is required", ErrInvalidInput)
	}
	if li.Quantity < MinQuantity || li.Quantity > MaxQuantity {
		return fmt.Errorf("%w: quantity must be between %d and %d", ErrInvalidInput, MinQuantity, MaxQuantity)
	}
	if li.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: unit price must not be negative", ErrInvalidInput)
	}
	switch li.Kind {
	case KindSingle, KindCombo:
	default:
		return fmt.Errorf("%w: kind must be single or combo", ErrInvalidInput)
	}
	return nil
}

// Total is the line total (unit price times quantity).
func (li LineItem) Total() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

package models

import (
	"fmt"
	"strconv"
	"time"
)

// OrderType represents the fulfillment type of an order.
type OrderType string

const (
	DineIn   OrderType = "Dine-In"
	Takeaway OrderType = "Takeaway"
)

// IDPrefix is the order-number prefix for the fulfillment type.
func (t OrderType) IDPrefix() string {
	if t == DineIn {
		return "D"
	}
	return "T"
}

// OrderStatus represents the status of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPreparing OrderStatus = "Preparing"
	StatusServed    OrderStatus = "Served"
	StatusCompleted OrderStatus = "Completed"
	StatusCancelled OrderStatus = "Cancelled"
)

// Settable reports whether staff may set the status directly. Completed
// is reached only through checkout and Cancelled only through an
// explicit cancel; both are terminal.
func (s OrderStatus) Settable() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusServed:
		return true
	}
	return false
}

// OrderLine is the (item, quantity, remarks) tuple stored on an order.
type OrderLine struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
	Remarks  string `json:"remarks"`
}

// Order is a snapshot of a cart plus fulfillment metadata, held in the
// active-orders registry until checkout or cancellation.
//
// ItemDetails maps item IDs to their resolved display names for
// customized items; CartContents preserves the full cart snapshot so
// combo customizations can be repriced and displayed later. Both are
// the historical source of truth for the pricing engine.
type Order struct {
	ID           string            `json:"id"`
	SystemUser   string            `json:"system_user"`
	DisplayName  string            `json:"display_name"`
	Type         OrderType         `json:"type"`
	TableNumber  string            `json:"table_number,omitempty"`
	Items        []OrderLine       `json:"items"`
	ItemDetails  map[string]string `json:"item_details,omitempty"`
	CartContents []LineItem        `json:"cart_contents,omitempty"`
	Remarks      string            `json:"remarks,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`
	Status       OrderStatus       `json:"status"`
	Discounts    []Discount        `json:"discounts,omitempty"`
}

// Validate checks the order invariants before it enters the registry.
func (o *Order) Validate() error {
	if len(o.Items) == 0 {
		return fmt.Errorf("%w: order contains no items", ErrStateConflict)
	}
	switch o.Type {
	case DineIn:
		if n, err := strconv.Atoi(o.TableNumber); err != nil || n < 1 {
			return fmt.Errorf("%w: table number must be a positive integer", ErrInvalidInput)
		}
	case Takeaway:
	default:
		return fmt.Errorf("%w: order type must be Dine-In or Takeaway", ErrInvalidInput)
	}
	for i, line := range o.Items {
		if line.Quantity < MinQuantity || line.Quantity > MaxQuantity {
			return fmt.Errorf("%w: items[%d].quantity must be between %d and %d",
				ErrInvalidInput, i, MinQuantity, MaxQuantity)
		}
	}
	return nil
}

// CartLine returns the cart snapshot entry for an item ID, if recorded.
func (o *Order) CartLine(itemID string) (LineItem, bool) {
	for _, li := range o.CartContents {
		if li.ID == itemID {
			return li, true
		}
	}
	return LineItem{}, false
}

// HasPromo reports whether a promo code was already applied to the order.
func (o *Order) HasPromo(code string) bool {
	for _, d := range o.Discounts {
		if d.PromoCode == code {
			return true
		}
	}
	return false
}

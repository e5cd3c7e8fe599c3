package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is one of the accepted payment options.
type PaymentMethod string

const (
	PayCash     PaymentMethod = "Cash"
	PayCard     PaymentMethod = "Card"
	PayTouchNGo PaymentMethod = "Touch 'N Go"
)

// ParsePaymentMethod validates a payment method against the closed set.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PayCash, PayCard, PayTouchNGo:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, s)
}

// Transaction is the finalized record of a completed order. It is
// written once at checkout and never modified.
type Transaction struct {
	RecordID      string            `json:"record_id"`
	OrderID       string            `json:"order_id"`
	Type          OrderType         `json:"type"`
	Items         []OrderLine       `json:"items"`
	ItemDetails   map[string]string `json:"item_details,omitempty"`
	CartContents  []LineItem        `json:"cart_contents,omitempty"`
	Discounts     []Discount        `json:"discounts,omitempty"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	Tax           decimal.Decimal   `json:"tax"`
	Total         decimal.Decimal   `json:"total"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
	Timestamp     time.Time         `json:"timestamp"`
	SystemUser    string            `json:"system_user"`
	DisplayName   string            `json:"display_name"`
	Status        OrderStatus       `json:"status"`
}

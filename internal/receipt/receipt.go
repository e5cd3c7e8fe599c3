// Package receipt renders completed transactions into the 80-column
// text format shown at the terminal and archived per order.
package receipt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"restaurant-pos/internal/models"
	"restaurant-pos/internal/pricing"
)

const width = 80

// Render formats a completed transaction as receipt text.
func Render(tx models.Transaction, menu models.Menu) string {
	var b strings.Builder
	line := strings.Repeat("=", width)
	thin := strings.Repeat("-", width)

	// Line prices are re-resolved from the transaction's own snapshot,
	// the same way the pricing engine resolved them at checkout.
	view := &models.Order{
		ItemDetails:  tx.ItemDetails,
		CartContents: tx.CartContents,
	}

	fmt.Fprintf(&b, "%s\n%s\n%s\n", line, center("RECEIPT"), line)
	fmt.Fprintf(&b, "Order ID: %s\n", tx.OrderID)
	fmt.Fprintf(&b, "Type: %s\n", tx.Type)
	if tx.DisplayName != "" {
		fmt.Fprintf(&b, "Customer: %s\n", tx.DisplayName)
	}
	fmt.Fprintf(&b, "Date: %s\n", tx.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Payment Method: %s\n", tx.PaymentMethod)
	fmt.Fprintln(&b, thin)

	fmt.Fprintf(&b, "%-45s %10s %11s %11s\n", "Item", "Qty", "Price", "Total")
	fmt.Fprintln(&b, thin)

	for _, item := range tx.Items {
		name := item.ItemID
		if n, ok := tx.ItemDetails[item.ItemID]; ok {
			name = n
		} else if m, ok := menu[item.ItemID]; ok {
			name = m.Name
		}
		price := pricing.UnitPrice(item.ItemID, view, menu)
		total := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		fmt.Fprintf(&b, "%-45s %10s RM%9s RM%9s\n", name, fmt.Sprintf("x%d", item.Quantity),
			price.StringFixed(2), total.StringFixed(2))
		if item.Remarks != "" {
			fmt.Fprintf(&b, "  Remark: %s\n", item.Remarks)
		}
		writeComboBreakdown(&b, tx, item.ItemID, menu)
	}

	totalDiscount := decimal.Zero
	if len(tx.Discounts) > 0 {
		fmt.Fprintln(&b, thin)
		fmt.Fprintln(&b, "Discounts Applied:")
		for _, d := range tx.Discounts {
			totalDiscount = totalDiscount.Add(d.Amount)
			fmt.Fprintf(&b, "- %-64s-RM%9s\n", d.Description, d.Amount.StringFixed(2))
		}
	}

	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "%-68s RM%9s\n", "Subtotal:", tx.Subtotal.StringFixed(2))
	if totalDiscount.IsPositive() {
		fmt.Fprintf(&b, "%-67s -RM%9s\n", "Discounts:", totalDiscount.StringFixed(2))
	}
	fmt.Fprintf(&b, "%-68s RM%9s\n", "Tax (6%):", tx.Tax.StringFixed(2))
	fmt.Fprintf(&b, "%-68s RM%9s\n", "TOTAL:", tx.Total.StringFixed(2))
	fmt.Fprintln(&b, line)

	return b.String()
}

func writeComboBreakdown(b *strings.Builder, tx models.Transaction, itemID string, menu models.Menu) {
	for _, li := range tx.CartContents {
		if li.ID != itemID || li.Kind != models.KindCombo {
			continue
		}
		fmt.Fprintln(b, "  Combo Contents:")
		for componentID, choices := range li.Contents {
			for _, choice := range choices {
				name := menu[componentID].Name
				if name == "" {
					name = componentID
				}
				if choice.Customization != nil {
					name = choice.Customization.Name
				}
				fmt.Fprintf(b, "    - %s x%d\n", name, choice.Quantity)
			}
		}
	}
}

func center(s string) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

// FileSink archives receipts as one text file per order.
type FileSink struct {
	dir string
}

// NewFileSink creates the receipts directory if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create receipts directory: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

// Write implements store.ReceiptSink.
func (s *FileSink) Write(_ context.Context, orderID, body string) error {
	path := filepath.Join(s.dir, fmt.Sprintf("receipt_%s.txt", orderID))
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("failed to write receipt for %s: %w", orderID, err)
	}
	return nil
}

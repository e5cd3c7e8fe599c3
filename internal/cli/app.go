// Package cli drives the point-of-sale through sequential text
// prompts: numbered menus for cart, order, discount and checkout
// actions, all validated with reprompts.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"restaurant-pos/internal/cart"
	"restaurant-pos/internal/customizer"
	"restaurant-pos/internal/discount"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/models"
	"restaurant-pos/internal/order"
	"restaurant-pos/internal/pricing"
	"restaurant-pos/internal/report"
	"restaurant-pos/internal/store"
)

var timeNow = time.Now

// App wires the services behind the prompt loops.
type App struct {
	prompt       *Prompter
	out          io.Writer
	log          *logger.Logger
	catalog      store.CatalogProvider
	promos       store.PromoProvider
	carts        *cart.Service
	orders       *order.Service
	discounts    *discount.Service
	transactions store.TransactionLog
	customize    *customizer.Customizer
}

// New creates the application.
func New(prompt *Prompter, out io.Writer, log *logger.Logger,
	catalog store.CatalogProvider, promos store.PromoProvider,
	carts *cart.Service, orders *order.Service, discounts *discount.Service,
	transactions store.TransactionLog) *App {
	return &App{
		prompt:       prompt,
		out:          out,
		log:          log,
		catalog:      catalog,
		promos:       promos,
		carts:        carts,
		orders:       orders,
		discounts:    discounts,
		transactions: transactions,
		customize:    customizer.New(prompt, out),
	}
}

// RunCustomer runs the customer-facing cart and tracking loop.
func (a *App) RunCustomer(ctx context.Context, user string) error {
	menu, err := a.catalog.Menu(ctx)
	if err != nil {
		return err
	}
	if err := menu.Validate(); err != nil {
		return fmt.Errorf("invalid menu catalog: %w", err)
	}

	for !a.prompt.Done() {
		items, err := a.carts.Load(ctx, user)
		if err != nil {
			return err
		}
		a.displayCart(items)

		fmt.Fprintln(a.out, "\nOPTIONS:")
		fmt.Fprintln(a.out, "1. Add Item")
		fmt.Fprintln(a.out, "2. Remove Item")
		fmt.Fprintln(a.out, "3. Edit Item Remarks")
		fmt.Fprintln(a.out, "4. Checkout")
		fmt.Fprintln(a.out, "5. Track My Orders")
		fmt.Fprintln(a.out, "6. Back")

		switch a.prompt.Line("Choose (1-6): ") {
		case "1":
			a.addItem(ctx, user, menu)
		case "2":
			a.removeItem(ctx, user, len(items))
		case "3":
			a.editRemarks(ctx, user, len(items))
		case "4":
			a.placeOrder(ctx, user, items)
		case "5":
			a.trackOrders(ctx, user, menu)
		case "6":
			return nil
		default:
			fmt.Fprintln(a.out, "Invalid choice")
		}
	}
	return nil
}

func (a *App) addItem(ctx context.Context, user string, menu models.Menu) {
	a.displayMenu(menu)
	itemID := strings.ToUpper(a.prompt.Line("\nEnter item ID: "))
	item, ok := menu[itemID]
	if !ok {
		fmt.Fprintln(a.out, "Invalid item ID!")
		return
	}
	line := a.customize.Customize(item, menu)
	if _, err := a.carts.Add(ctx, user, line); err != nil {
		fmt.Fprintf(a.out, "Could not add item: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Item added to cart!")
}

func (a *App) removeItem(ctx context.Context, user string, size int) {
	if size == 0 {
		fmt.Fprintln(a.out, "Cart is empty!")
		return
	}
	idx := a.prompt.Int("Enter item number to remove: ", 1, size)
	removed, _, err := a.carts.Remove(ctx, user, idx)
	if err != nil {
		fmt.Fprintf(a.out, "Could not remove item: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Removed %s\n", removed.Name)
}

func (a *App) editRemarks(ctx context.Context, user string, size int) {
	if size == 0 {
		fmt.Fprintln(a.out, "Cart is empty!")
		return
	}
	idx := a.prompt.Int("Enter item number to edit remarks: ", 1, size)
	remarks := a.prompt.Line("Enter new remarks: ")
	if _, err := a.carts.EditRemarks(ctx, user, idx, remarks); err != nil {
		fmt.Fprintf(a.out, "Could not update remarks: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Remarks updated!")
}

func (a *App) placeOrder(ctx context.Context, user string, items []models.LineItem) {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Cannot checkout - cart is empty!")
		return
	}
	a.displayCart(items)

	displayName := user
	if strings.HasPrefix(user, "Guest_") {
		for {
			displayName = a.prompt.Line("Enter your name for the order: ")
			if displayName != "" || a.prompt.Done() {
				break
			}
			fmt.Fprintln(a.out, "Name cannot be empty!")
		}
	}

	orderType := models.Takeaway
	if a.prompt.Int("Order type (1 for Dine-In, 2 for Takeaway): ", 1, 2) == 1 {
		orderType = models.DineIn
	}

	tableNumber := ""
	if orderType == models.DineIn {
		tableNumber = strconv.Itoa(a.prompt.Int("Enter table number: ", 1, 999))
	}

	remarks := a.prompt.Line("Enter order remarks (optional): ")

	placed, err := a.orders.Place(ctx, order.PlacementRequest{
		User:        user,
		DisplayName: displayName,
		Type:        orderType,
		TableNumber: tableNumber,
		Remarks:     remarks,
	}, items)
	if err != nil {
		fmt.Fprintf(a.out, "Could not place order: %v\n", err)
		return
	}

	fmt.Fprintln(a.out, "\n=== ORDER CONFIRMATION ===")
	fmt.Fprintf(a.out, "Order ID: %s\n", placed.ID)
	fmt.Fprintf(a.out, "Customer: %s\n", placed.DisplayName)
	fmt.Fprintln(a.out, "Items:")
	for _, line := range placed.Items {
		fmt.Fprintf(a.out, "  - %s x%d\n", line.ItemID, line.Quantity)
	}
}

func (a *App) trackOrders(ctx context.Context, user string, menu models.Menu) {
	mine, err := a.orders.ForUser(ctx, user)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load orders: %v\n", err)
		return
	}
	if len(mine) == 0 {
		fmt.Fprintln(a.out, "\nNo orders found for your account!")
		return
	}
	fmt.Fprintln(a.out, "\n=== YOUR ORDER HISTORY ===")
	for _, o := range mine {
		a.displayOrder(&o, menu)
	}
}

// RunStaff runs the cashier loop over the active-order registry.
func (a *App) RunStaff(ctx context.Context, staff string) error {
	menu, err := a.catalog.Menu(ctx)
	if err != nil {
		return err
	}

	for !a.prompt.Done() {
		fmt.Fprintln(a.out, "\n=== Cashier Menu ===")
		fmt.Fprintln(a.out, "1. Current Active Orders")
		fmt.Fprintln(a.out, "2. Daily Sales Report")
		fmt.Fprintln(a.out, "3. Exit")

		switch a.prompt.Line("Select an option: ") {
		case "1":
			a.browseActiveOrders(ctx, staff, menu)
		case "2":
			a.dailyReport(ctx)
		case "3":
			return nil
		default:
			fmt.Fprintln(a.out, "Invalid choice. Please try again.")
		}
	}
	return nil
}

func (a *App) browseActiveOrders(ctx context.Context, staff string, menu models.Menu) {
	for !a.prompt.Done() {
		active, err := a.orders.Active(ctx)
		if err != nil {
			fmt.Fprintf(a.out, "Could not load active orders: %v\n", err)
			return
		}
		if len(active) == 0 {
			fmt.Fprintln(a.out, "\nNo active orders.")
			return
		}

		ids := make([]string, 0, len(active))
		for id := range active {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		fmt.Fprintln(a.out, "\nActive Orders:")
		for i, id := range ids {
			fmt.Fprintf(a.out, "[%d]: %-12s Status: %s\n", i+1, id, active[id].Status)
		}

		choice := a.prompt.Line("\nSelect Order Number to View Details or 'done' to Return: ")
		if strings.EqualFold(choice, "done") || a.prompt.Done() {
			return
		}
		idx, err := strconv.Atoi(choice)
		if err != nil || idx < 1 || idx > len(ids) {
			fmt.Fprintln(a.out, "Invalid order number!")
			continue
		}
		a.orderActions(ctx, staff, ids[idx-1], menu)
	}
}

func (a *App) orderActions(ctx context.Context, staff, orderID string, menu models.Menu) {
	for !a.prompt.Done() {
		o, err := a.orders.Get(ctx, orderID)
		if err != nil {
			fmt.Fprintf(a.out, "%v\n", err)
			return
		}
		a.displayOrder(&o, menu)

		fmt.Fprintln(a.out, "\nSelect An Option:")
		fmt.Fprintln(a.out, "1. Manage Discount")
		fmt.Fprintln(a.out, "2. Update Status")
		fmt.Fprintln(a.out, "3. Cancel Order")
		fmt.Fprintln(a.out, "4. Checkout")
		fmt.Fprintln(a.out, "5. Back")

		switch a.prompt.Line("\nEnter Choice: ") {
		case "1":
			a.manageDiscounts(ctx, orderID, menu)
		case "2":
			a.updateStatus(ctx, staff, orderID)
		case "3":
			if a.prompt.YesNo(fmt.Sprintf("Confirm cancel order %s? (y/n): ", orderID)) {
				if err := a.orders.Cancel(ctx, orderID); err != nil {
					fmt.Fprintf(a.out, "%v\n", err)
					continue
				}
				fmt.Fprintf(a.out, "Order %s cancelled.\n", orderID)
				return
			}
		case "4":
			if a.checkout(ctx, orderID, menu) {
				return
			}
		case "5":
			return
		default:
			fmt.Fprintln(a.out, "Invalid choice!")
		}
	}
}

func (a *App) updateStatus(ctx context.Context, staff, orderID string) {
	fmt.Fprintln(a.out, "\nSet Status:")
	fmt.Fprintln(a.out, "1. Pending")
	fmt.Fprintln(a.out, "2. Preparing")
	fmt.Fprintln(a.out, "3. Served")
	statuses := []models.OrderStatus{models.StatusPending, models.StatusPreparing, models.StatusServed}
	choice := a.prompt.Int("Enter choice (1-3): ", 1, 3)
	if err := a.orders.SetStatus(ctx, orderID, statuses[choice-1], staff); err != nil {
		fmt.Fprintf(a.out, "%v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Order %s set to %s.\n", orderID, statuses[choice-1])
}

func (a *App) manageDiscounts(ctx context.Context, orderID string, menu models.Menu) {
	for !a.prompt.Done() {
		fmt.Fprintln(a.out, "\n=== Discount Management ===")
		fmt.Fprintln(a.out, "1. Apply Discount")
		fmt.Fprintln(a.out, "2. Remove Discount")
		fmt.Fprintln(a.out, "3. Back")

		switch a.prompt.Line("Select an option: ") {
		case "1":
			a.applyDiscount(ctx, orderID, menu)
		case "2":
			a.removeDiscount(ctx, orderID, menu)
		case "3":
			return
		default:
			fmt.Fprintln(a.out, "Invalid choice. Please try again.")
		}
	}
}

func (a *App) applyDiscount(ctx context.Context, orderID string, menu models.Menu) {
	fmt.Fprintln(a.out, "\nSelect Discount Type:")
	fmt.Fprintln(a.out, "1. Percentage Discount")
	fmt.Fprintln(a.out, "2. Fixed Amount Discount")
	fmt.Fprintln(a.out, "3. Promo Code")
	choice := a.prompt.Int("Enter choice (1-3): ", 1, 3)

	if choice == 3 {
		a.applyPromo(ctx, orderID, menu)
		return
	}

	discountType := models.DiscountPercentage
	if choice == 2 {
		discountType = models.DiscountFixed
	}

	fmt.Fprintln(a.out, "\nApply discount to:")
	fmt.Fprintln(a.out, "1. Specific food item")
	fmt.Fprintln(a.out, "2. Entire order")
	scopeChoice := a.prompt.Int("Enter choice (1-2): ", 1, 2)

	req := discount.ManualRequest{Type: discountType, ApplyTo: models.ScopeTotal}
	if scopeChoice == 1 {
		o, err := a.orders.Get(ctx, orderID)
		if err != nil {
			fmt.Fprintf(a.out, "%v\n", err)
			return
		}
		if len(o.Items) == 0 {
			fmt.Fprintln(a.out, "Order has no items.")
			return
		}
		for i, line := range o.Items {
			fmt.Fprintf(a.out, "[%d] %s x%d\n", i+1, a.itemName(&o, menu, line.ItemID), line.Quantity)
		}
		idx := a.prompt.Int("Enter item number to discount: ", 1, len(o.Items))
		req.ApplyTo = models.ScopeSpecificItem
		req.ItemCode = o.Items[idx-1].ItemID
	}

	var raw string
	if discountType == models.DiscountPercentage {
		raw = a.prompt.Line("Enter discount percentage (0-100): ")
	} else {
		raw = a.prompt.Line("Enter fixed discount amount: ")
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		fmt.Fprintln(a.out, "Please enter a valid number.")
		return
	}
	req.Value = value

	applied, err := a.discounts.ApplyManual(ctx, orderID, menu, req)
	if err != nil {
		a.reportDiscountError(err)
		return
	}
	fmt.Fprintf(a.out, "Applied %s (-RM%s)\n", applied.Description, applied.Amount.StringFixed(2))
	a.redisplay(ctx, orderID, menu)
}

func (a *App) applyPromo(ctx context.Context, orderID string, menu models.Menu) {
	promos, err := a.promos.Promos(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load promo codes: %v\n", err)
		return
	}
	codes := make([]string, 0, len(promos))
	for code := range promos {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	fmt.Fprintln(a.out, "\nAvailable Promo Codes:")
	for _, code := range codes {
		fmt.Fprintf(a.out, "  %-10s %s\n", code, promos[code].Description)
	}

	code := strings.ToUpper(a.prompt.Line("\nEnter promo code (or 'done' to cancel): "))
	if code == "" || code == "DONE" {
		return
	}

	applied, err := a.discounts.ApplyPromo(ctx, orderID, menu, code)
	if err != nil {
		a.reportDiscountError(err)
		return
	}
	fmt.Fprintf(a.out, "Successfully applied promo: %s (-RM%s)\n", applied.Description, applied.Amount.StringFixed(2))
	a.redisplay(ctx, orderID, menu)
}

func (a *App) removeDiscount(ctx context.Context, orderID string, menu models.Menu) {
	o, err := a.orders.Get(ctx, orderID)
	if err != nil {
		fmt.Fprintf(a.out, "%v\n", err)
		return
	}
	if len(o.Discounts) == 0 {
		fmt.Fprintln(a.out, "No discounts applied to this order.")
		return
	}
	fmt.Fprintln(a.out, "\nApplied Discounts:")
	for i, d := range o.Discounts {
		fmt.Fprintf(a.out, "[%d]. %s\n", i+1, d.Description)
	}
	idx := a.prompt.Int("Enter discount number to remove (or 0 to cancel): ", 0, len(o.Discounts))
	if idx == 0 {
		return
	}
	removed, err := a.discounts.Remove(ctx, orderID, idx)
	if err != nil {
		fmt.Fprintf(a.out, "%v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Removed discount: %s\n", removed.Description)
	a.redisplay(ctx, orderID, menu)
}

// checkout reports whether the order left the active registry.
func (a *App) checkout(ctx context.Context, orderID string, menu models.Menu) bool {
	fmt.Fprintln(a.out, "\nEnter Payment Method:")
	fmt.Fprintln(a.out, "1. Cash")
	fmt.Fprintln(a.out, "2. Card")
	fmt.Fprintln(a.out, "3. Touch 'N Go")
	fmt.Fprintln(a.out, "4. Cancel")

	methods := []models.PaymentMethod{models.PayCash, models.PayCard, models.PayTouchNGo}
	choice := a.prompt.Int("Enter Choice: ", 1, 4)
	if choice == 4 {
		fmt.Fprintln(a.out, "Transaction cancelled.")
		return false
	}

	tx, err := a.orders.Checkout(ctx, orderID, menu, methods[choice-1])
	if err != nil {
		fmt.Fprintf(a.out, "Checkout failed: %v\n", err)
		return false
	}
	fmt.Fprintf(a.out, "\nTransaction successful! Order %s processed with %s payment. Total: RM%s\n",
		orderID, tx.PaymentMethod, tx.Total.StringFixed(2))
	return true
}

func (a *App) dailyReport(ctx context.Context) {
	transactions, err := a.transactions.All(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load transactions: %v\n", err)
		return
	}
	day := timeNow()
	summary := report.Daily(transactions, day)

	fmt.Fprintln(a.out, "\n=== Daily Sales Report ===")
	fmt.Fprintf(a.out, "Date: %s\n", day.Format("2006-01-02"))
	fmt.Fprintf(a.out, "Orders completed: %d (Dine-In %d, Takeaway %d)\n",
		summary.Orders, summary.DineIn, summary.Takeaway)
	fmt.Fprintf(a.out, "Revenue:   RM%s\n", summary.Revenue.StringFixed(2))
	fmt.Fprintf(a.out, "Discounts: RM%s\n", summary.Discounts.StringFixed(2))
	fmt.Fprintf(a.out, "Tax:       RM%s\n", summary.Tax.StringFixed(2))
	if len(summary.PromoCodesUsed) > 0 {
		fmt.Fprintf(a.out, "Promo codes used: %s\n", strings.Join(summary.PromoCodesUsed, ", "))
	}
}

func (a *App) redisplay(ctx context.Context, orderID string, menu models.Menu) {
	o, err := a.orders.Get(ctx, orderID)
	if err != nil {
		return
	}
	a.displayOrder(&o, menu)
}

func (a *App) reportDiscountError(err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		fmt.Fprintf(a.out, "Invalid input: %v\n", err)
	case errors.Is(err, models.ErrNotFound):
		fmt.Fprintf(a.out, "Not found: %v\n", err)
	case errors.Is(err, models.ErrStateConflict):
		fmt.Fprintf(a.out, "Cannot apply: %v\n", err)
	default:
		fmt.Fprintf(a.out, "Discount failed: %v\n", err)
	}
}

func (a *App) displayMenu(menu models.Menu) {
	fmt.Fprintln(a.out, "\n=== MENU ITEMS ===")
	categories := map[string][]models.MenuItem{}
	var names []string
	for _, item := range menu {
		if _, ok := categories[item.Category]; !ok {
			names = append(names, item.Category)
		}
		categories[item.Category] = append(categories[item.Category], item)
	}
	sort.Strings(names)
	for _, category := range names {
		items := categories[category]
		sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
		fmt.Fprintf(a.out, "\n%s\n", strings.ToUpper(category))
		for _, item := range items {
			fmt.Fprintf(a.out, "%s. %s - RM%s\n", item.ID, item.Name, item.Price.StringFixed(2))
		}
	}
}

func (a *App) displayCart(items []models.LineItem) {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "\nYour cart is empty")
		return
	}
	fmt.Fprintln(a.out, "\n=== YOUR CART ===")
	for i, item := range items {
		label := item.Name
		if item.Kind == models.KindCombo {
			label = "COMBO: " + item.Name
		}
		fmt.Fprintf(a.out, "%d. %s x%d - RM%s", i+1, label, item.Quantity, item.Total().StringFixed(2))
		if item.Remarks != "" {
			fmt.Fprintf(a.out, " [Remarks: %s]", item.Remarks)
		}
		fmt.Fprintln(a.out)
		for _, componentID := range sortedKeys(item.Contents) {
			for _, choice := range item.Contents[componentID] {
				if choice.Customization != nil {
					fmt.Fprintf(a.out, "  - %dx %s\n", choice.Quantity, choice.Customization.Name)
				}
			}
		}
	}
	fmt.Fprintf(a.out, "\nTOTAL: RM%s\n", cart.Total(items).StringFixed(2))
}

func (a *App) displayOrder(o *models.Order, menu models.Menu) {
	quote := pricing.Price(o, menu)

	fmt.Fprintf(a.out, "\nOrder ID: %s\n", o.ID)
	fmt.Fprintf(a.out, "Status: %s\n", o.Status)
	fmt.Fprintf(a.out, "Type: %s\n", o.Type)
	if o.Type == models.DineIn {
		fmt.Fprintf(a.out, "Table Number: %s\n", o.TableNumber)
	}
	fmt.Fprintln(a.out, "Items:")
	for _, line := range o.Items {
		price := pricing.UnitPrice(line.ItemID, o, menu)
		total := price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		fmt.Fprintf(a.out, "  - %-50s x%d RM%s\n", a.itemName(o, menu, line.ItemID), line.Quantity, total.StringFixed(2))
		if line.Remarks != "" {
			fmt.Fprintf(a.out, "    Remark: %s\n", line.Remarks)
		}
	}
	if len(quote.Details) > 0 {
		fmt.Fprintln(a.out, "Discounts:")
		for _, d := range quote.Details {
			fmt.Fprintf(a.out, "  - %s (-RM%s)\n", d.Description, d.Amount.StringFixed(2))
		}
	}
	if o.Remarks != "" {
		fmt.Fprintf(a.out, "Order Remarks: %s\n", o.Remarks)
	}
	fmt.Fprintf(a.out, "Subtotal: RM%s\n", quote.Subtotal.StringFixed(2))
	fmt.Fprintf(a.out, "Tax (6%%): RM%s\n", quote.Tax.StringFixed(2))
	fmt.Fprintf(a.out, "Total: RM%s\n", quote.Total.StringFixed(2))
}

func (a *App) itemName(o *models.Order, menu models.Menu, itemID string) string {
	if name, ok := o.ItemDetails[itemID]; ok {
		return name
	}
	if item, ok := menu[itemID]; ok {
		return item.Name
	}
	return itemID
}

func sortedKeys(m map[string][]models.ComponentChoice) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package pricing

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-pos/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func testMenu() models.Menu {
	return models.Menu{
		"B1": {
			ID: "B1", Name: "Chicken Burger", Price: dec("10.00"), Category: models.CategoryBurgers,
			Ingredients: map[string]models.Ingredient{
				"Lettuce": {Price: decimal.Zero, Default: true},
				"Cheese":  {Price: dec("1.00")},
				"Egg":     {Price: dec("1.50")},
			},
		},
		"D1": {ID: "D1", Name: "Coke", Price: dec("3.00"), Category: models.CategoryDrinks},
		"D2": {ID: "D2", Name: "Sprite", Price: dec("3.50"), Category: models.CategoryDrinks},
		"C1": {
			ID: "C1", Name: "Burger Combo", Price: dec("15.00"), Category: "Combos",
			Contents: map[string]int{"B1": 1, "D1": 2},
		},
	}
}

func orderWith(lines []models.OrderLine, discounts ...models.Discount) *models.Order {
	return &models.Order{
		ID:        "D01",
		Type:      models.DineIn,
		Items:     lines,
		Status:    models.StatusPending,
		Discounts: discounts,
	}
}

func TestPrice_NoDiscounts(t *testing.T) {
	order := orderWith([]models.OrderLine{
		{ItemID: "B1", Quantity: 2},
		{ItemID: "D1", Quantity: 1},
	})

	q := Price(order, testMenu())

	assertDecimal(t, "23.00", q.Subtotal)
	assertDecimal(t, "0", q.TotalDiscount)
	assertDecimal(t, "1.38", q.Tax)
	assertDecimal(t, "24.38", q.Total)
}

func TestPrice_SequentialPercentageDiscounts(t *testing.T) {
	menu := models.Menu{
		"X1": {ID: "X1", Name: "Platter", Price: dec("100.00"), Category: "Mains"},
	}
	order := orderWith(
		[]models.OrderLine{{ItemID: "X1", Quantity: 1}},
		models.Discount{Type: models.DiscountPercentage, Value: dec("10"), ApplyTo: models.ScopeTotal},
		models.Discount{Type: models.DiscountPercentage, Value: dec("10"), ApplyTo: models.ScopeTotal},
	)

	q := Price(order, menu)

	require.Len(t, q.Details, 2)
	assertDecimal(t, "10.00", q.Details[0].Amount)
	assertDecimal(t, "9.00", q.Details[1].Amount)
	assertDecimal(t, "81.00", q.OrderRemaining())
}

func TestPrice_HalfOffWithTax(t *testing.T) {
	menu := models.Menu{
		"M1": {ID: "M1", Name: "Nasi Lemak", Price: dec("10.00"), Category: "Mains"},
	}
	order := orderWith(
		[]models.OrderLine{{ItemID: "M1", Quantity: 2}},
		models.Discount{Type: models.DiscountPercentage, Value: dec("50"), ApplyTo: models.ScopeTotal},
	)

	q := Price(order, menu)

	assertDecimal(t, "20.00", q.Subtotal)
	assertDecimal(t, "10.00", q.TotalDiscount)
	assertDecimal(t, "0.60", q.Tax)
	assertDecimal(t, "10.60", q.Total)
}

func TestPrice_FixedDiscountCappedAtRemaining(t *testing.T) {
	order := orderWith(
		[]models.OrderLine{{ItemID: "D1", Quantity: 1}},
		models.Discount{Type: models.DiscountFixed, Value: dec("2.00"), ApplyTo: models.ScopeTotal},
		models.Discount{Type: models.DiscountFixed, Value: dec("5.00"), ApplyTo: models.ScopeTotal},
	)

	q := Price(order, testMenu())

	require.Len(t, q.Details, 2)
	assertDecimal(t, "2.00", q.Details[0].Amount)
	assertDecimal(t, "1.00", q.Details[1].Amount)
	assertDecimal(t, "0", q.Total)
}

func TestPrice_ItemScopeTracksPerItemRemaining(t *testing.T) {
	order := orderWith(
		[]models.OrderLine{
			{ItemID: "B1", Quantity: 1},
			{ItemID: "D1", Quantity: 1},
		},
		models.Discount{Type: models.DiscountPercentage, Value: dec("50"), ApplyTo: models.ScopeSpecificItem, ItemCode: "B1"},
		models.Discount{Type: models.DiscountFixed, Value: dec("10.00"), ApplyTo: models.ScopeSpecificItem, ItemCode: "B1"},
	)

	q := Price(order, testMenu())

	require.Len(t, q.Details, 2)
	assertDecimal(t, "5.00", q.Details[0].Amount)
	// Fixed entry is capped at what the first discount left on the item.
	assertDecimal(t, "5.00", q.Details[1].Amount)
	assertDecimal(t, "0", q.ItemRemaining("B1"))
	assertDecimal(t, "3.00", q.OrderRemaining())
}

func TestPrice_ItemScopeSkipsAbsentItem(t *testing.T) {
	order := orderWith(
		[]models.OrderLine{{ItemID: "D1", Quantity: 1}},
		models.Discount{Type: models.DiscountPercentage, Value: dec("50"), ApplyTo: models.ScopeSpecificItem, ItemCode: "B1"},
	)

	q := Price(order, testMenu())

	assert.Empty(t, q.Details)
	assertDecimal(t, "0", q.TotalDiscount)
}

func TestPrice_CustomizedSingleItemRepricedFromName(t *testing.T) {
	order := orderWith([]models.OrderLine{{ItemID: "B1", Quantity: 2}})
	order.ItemDetails = map[string]string{"B1": "Chicken Burger +Cheese +Egg"}

	q := Price(order, testMenu())

	// 10.00 + 1.00 + 1.50 per unit, two units.
	assertDecimal(t, "25.00", q.Subtotal)
}

func TestPrice_ComboRepricedFromCartSnapshot(t *testing.T) {
	order := orderWith([]models.OrderLine{{ItemID: "C1", Quantity: 1}})
	order.ItemDetails = map[string]string{"C1": "Burger Combo"}
	order.CartContents = []models.LineItem{{
		ID: "C1", Name: "Burger Combo", UnitPrice: dec("16.50"), Quantity: 1, Kind: models.KindCombo,
		Contents: map[string][]models.ComponentChoice{
			"B1": {{Quantity: 1, Customization: &models.Customization{
				Name: "Chicken Burger +Cheese", UnitPrice: dec("11.00"),
			}}},
			"D1": {
				{Quantity: 1, Customization: &models.Customization{
					SubstitutedID: "D2", Name: "Sprite", UnitPrice: dec("3.50"),
				}},
				{Quantity: 1},
			},
		},
	}}

	q := Price(order, testMenu())

	// Combo base 15.00 plus (11.00-10.00) plus (3.50-3.00).
	assertDecimal(t, "16.50", q.Subtotal)
}

func TestPrice_Deterministic(t *testing.T) {
	order := orderWith(
		[]models.OrderLine{{ItemID: "B1", Quantity: 3}},
		models.Discount{Type: models.DiscountPercentage, Value: dec("25"), ApplyTo: models.ScopeTotal},
		models.Discount{Type: models.DiscountFixed, Value: dec("5.00"), ApplyTo: models.ScopeTotal},
	)
	menu := testMenu()

	first := Price(order, menu)
	second := Price(order, menu)

	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.TotalDiscount.Equal(second.TotalDiscount))
	assert.Equal(t, len(first.Details), len(second.Details))
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name         string
		discountType models.DiscountType
		value        string
		remaining    string
		want         string
	}{
		{"percentage of remaining", models.DiscountPercentage, "10", "81.00", "8.10"},
		{"percentage rounds to cents", models.DiscountPercentage, "33", "10.00", "3.30"},
		{"full percentage", models.DiscountPercentage, "100", "42.00", "42.00"},
		{"fixed within remaining", models.DiscountFixed, "5.00", "20.00", "5.00"},
		{"fixed capped", models.DiscountFixed, "30.00", "20.00", "20.00"},
		{"negative remaining clamped", models.DiscountFixed, "5.00", "-1.00", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Amount(tt.discountType, dec(tt.value), dec(tt.remaining))
			assertDecimal(t, tt.want, got)
		})
	}
}

func TestUnitPrice_FallsBackToCatalog(t *testing.T) {
	order := orderWith([]models.OrderLine{{ItemID: "D2", Quantity: 1}})
	got := UnitPrice("D2", order, testMenu())
	assertDecimal(t, "3.50", got)
}

func TestUnitPrice_IgnoresUnknownIngredient(t *testing.T) {
	order := orderWith([]models.OrderLine{{ItemID: "B1", Quantity: 1}})
	order.ItemDetails = map[string]string{"B1": "Chicken Burger +Bacon"}

	got := UnitPrice("B1", order, testMenu())
	assertDecimal(t, "10.00", got)
}

func ExampleAmount() {
	remaining := decimal.NewFromInt(90)
	fmt.Println(Amount(models.DiscountPercentage, decimal.NewFromInt(10), remaining))
	// Output: 9
}

// Package report aggregates completed transactions into the figures
// behind the daily sales report. Rendering is left to the caller.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"restaurant-pos/internal/models"
)

// Summary holds one day's aggregated sales figures.
type Summary struct {
	Date           time.Time
	Orders         int
	DineIn         int
	Takeaway       int
	Revenue        decimal.Decimal
	Discounts      decimal.Decimal
	Tax            decimal.Decimal
	PromoCodesUsed []string
}

// Daily aggregates the transactions completed on the given day.
func Daily(transactions map[string]models.Transaction, day time.Time) Summary {
	s := Summary{
		Date:      day,
		Revenue:   decimal.Zero,
		Discounts: decimal.Zero,
		Tax:       decimal.Zero,
	}
	promos := map[string]bool{}

	y, m, d := day.Date()
	for _, tx := range transactions {
		ty, tm, td := tx.Timestamp.Date()
		if ty != y || tm != m || td != d {
			continue
		}

		s.Orders++
		switch tx.Type {
		case models.DineIn:
			s.DineIn++
		case models.Takeaway:
			s.Takeaway++
		}
		s.Revenue = s.Revenue.Add(tx.Total)
		s.Tax = s.Tax.Add(tx.Tax)
		for _, disc := range tx.Discounts {
			s.Discounts = s.Discounts.Add(disc.Amount)
			if disc.PromoCode != "" {
				promos[disc.PromoCode] = true
			}
		}
	}

	for code := range promos {
		s.PromoCodesUsed = append(s.PromoCodesUsed, code)
	}
	sort.Strings(s.PromoCodesUsed)
	return s
}

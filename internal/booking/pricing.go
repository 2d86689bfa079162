package booking

import "fmt"

// Money is handled as integer cents throughout the core.  Fixed-point
// integer arithmetic keeps quotes deterministic and free of binary
// floating-point drift; amounts are rendered with one decimal place only
// at the display boundary via FormatAmount.

// Rates holds the configurable pricing parameters.  Values are cents
// except TaxPercent.  Defaults mirror the historical rates so existing
// totals stay comparable, but production deployments set them via config.
type Rates struct {
	EliteCents   int64 // price of one elite seat
	PremiumCents int64 // price of one premium seat
	TaxPercent   int64 // tax applied to the seat subtotal
	FeeCents     int64 // flat convenience fee per booking
}

// DefaultRates returns the standard tariff: premium 190.0, elite 150.0,
// 18% tax, 25.0 convenience fee.
func DefaultRates() Rates {
	return Rates{
		EliteCents:   150_00,
		PremiumCents: 190_00,
		TaxPercent:   18,
		FeeCents:     25_00,
	}
}

// Quote is an itemized price for a seat selection.  All amounts are cents.
type Quote struct {
	EliteCount    int   `json:"elite_count"`
	PremiumCount  int   `json:"premium_count"`
	EliteCents    int64 `json:"elite_cents"`
	PremiumCents  int64 `json:"premium_cents"`
	SubtotalCents int64 `json:"subtotal_cents"`
	TaxCents      int64 `json:"tax_cents"`
	FeeCents      int64 `json:"fee_cents"`
	TotalCents    int64 `json:"total_cents"`
}

// Price computes the itemized cost for the given seat counts.  It is a
// pure function: same inputs, same quote.  Tax is rounded to the nearest
// cent; the convenience fee applies even to an empty selection.
func (r Rates) Price(eliteCount, premiumCount int) Quote {
	elite := r.EliteCents * int64(eliteCount)
	premium := r.PremiumCents * int64(premiumCount)
	subtotal := elite + premium
	tax := roundDiv(subtotal*r.TaxPercent, 100)
	return Quote{
		EliteCount:    eliteCount,
		PremiumCount:  premiumCount,
		EliteCents:    elite,
		PremiumCents:  premium,
		SubtotalCents: subtotal,
		TaxCents:      tax,
		FeeCents:      r.FeeCents,
		TotalCents:    subtotal + tax + r.FeeCents,
	}
}

// roundDiv divides num by den rounding half away from zero.  num and den
// are cents-scale integers; den is positive.
func roundDiv(num, den int64) int64 {
	if num >= 0 {
		return (num + den/2) / den
	}
	return -((-num + den/2) / den)
}

// FormatAmount renders cents with one decimal place, e.g. 65040 -> "650.4".
// The cent value is first rounded to the nearest tenth of a unit.
func FormatAmount(cents int64) string {
	tenths := roundDiv(cents, 10)
	sign := ""
	if tenths < 0 {
		sign = "-"
		tenths = -tenths
	}
	return fmt.Sprintf("%s%d.%d", sign, tenths/10, tenths%10)
}

// Display is a quote with amounts formatted for presentation.
type Display struct {
	EliteCount   int    `json:"elite_count"`
	PremiumCount int    `json:"premium_count"`
	EliteCost    string `json:"elite_cost"`
	PremiumCost  string `json:"premium_cost"`
	Subtotal     string `json:"subtotal"`
	Tax          string `json:"tax"`
	Fee          string `json:"convenience_fee"`
	Total        string `json:"total"`
}

// Display formats every amount in the quote with one decimal place.
func (q Quote) Display() Display {
	return Display{
		EliteCount:   q.EliteCount,
		PremiumCount: q.PremiumCount,
		EliteCost:    FormatAmount(q.EliteCents),
		PremiumCost:  FormatAmount(q.PremiumCents),
		Subtotal:     FormatAmount(q.SubtotalCents),
		Tax:          FormatAmount(q.TaxCents),
		Fee:          FormatAmount(q.FeeCents),
		Total:        FormatAmount(q.TotalCents),
	}
}

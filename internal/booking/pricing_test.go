package booking

import "testing"

func TestPriceWorkedExample(t *testing.T) {
	// 2 premium + 1 elite at the default tariff.
	q := DefaultRates().Price(1, 2)

	if q.PremiumCents != 38000 {
		t.Errorf("premium cost = %d, want 38000", q.PremiumCents)
	}
	if q.EliteCents != 15000 {
		t.Errorf("elite cost = %d, want 15000", q.EliteCents)
	}
	if q.SubtotalCents != 53000 {
		t.Errorf("subtotal = %d, want 53000", q.SubtotalCents)
	}
	if q.TaxCents != 9540 {
		t.Errorf("tax = %d, want 9540", q.TaxCents)
	}
	if q.FeeCents != 2500 {
		t.Errorf("fee = %d, want 2500", q.FeeCents)
	}
	if q.TotalCents != 65040 {
		t.Errorf("total = %d, want 65040", q.TotalCents)
	}

	d := q.Display()
	if d.PremiumCost != "380.0" || d.EliteCost != "150.0" || d.Subtotal != "530.0" ||
		d.Tax != "95.4" || d.Fee != "25.0" || d.Total != "650.4" {
		t.Errorf("display = %+v", d)
	}
}

func TestPriceEmptySelectionStillChargesFee(t *testing.T) {
	q := DefaultRates().Price(0, 0)
	if q.SubtotalCents != 0 || q.TaxCents != 0 {
		t.Errorf("subtotal/tax = %d/%d, want 0/0", q.SubtotalCents, q.TaxCents)
	}
	if q.TotalCents != 2500 {
		t.Errorf("total = %d, want 2500", q.TotalCents)
	}
	if got := FormatAmount(q.TotalCents); got != "25.0" {
		t.Errorf("total display = %q, want \"25.0\"", got)
	}
}

func TestPriceDeterministic(t *testing.T) {
	r := DefaultRates()
	first := r.Price(3, 4)
	for i := 0; i < 100; i++ {
		if q := r.Price(3, 4); q != first {
			t.Fatalf("iteration %d: quote %+v differs from %+v", i, q, first)
		}
	}
}

func TestPriceMonotonicInSeatCount(t *testing.T) {
	r := DefaultRates()
	prev := r.Price(0, 0).TotalCents
	for n := 1; n <= 20; n++ {
		cur := r.Price(n, n).TotalCents
		if cur <= prev {
			t.Fatalf("total for %d seats per tier = %d, not above %d", n, cur, prev)
		}
		prev = cur
	}
}

func TestTaxRoundsHalfAwayFromZero(t *testing.T) {
	// 105 * 18% = 18.9 cents, rounds to 19.
	r := Rates{EliteCents: 105, PremiumCents: 0, TaxPercent: 18, FeeCents: 0}
	if q := r.Price(1, 0); q.TaxCents != 19 {
		t.Errorf("tax = %d, want 19", q.TaxCents)
	}
	// 25 * 18% = 4.5 cents, rounds up to 5.
	r.EliteCents = 25
	if q := r.Price(1, 0); q.TaxCents != 5 {
		t.Errorf("tax = %d, want 5", q.TaxCents)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.0"},
		{2500, "25.0"},
		{65040, "650.4"},
		{9540, "95.4"},
		{12345, "123.5"}, // 123.45 rounds to 123.5
		{104, "1.0"},     // 1.04 rounds down
		{105, "1.1"},     // 1.05 rounds up
		{-2500, "-25.0"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.cents); got != tc.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

package services

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name            string
		moq             int
		unitPrice       string
		discountPercent string
		expect          string
	}{
		{"basic multiplication", 10, "5.00", "0", "50"},
		{"with line discount", 10, "5.00", "10", "45"},
		{"full discount", 4, "25", "100", "0"},
		{"zero price", 100, "0", "50", "0"},
		{"moq floor of one", 0, "9.99", "0", "9.99"},
		{"fractional cents survive", 3, "0.10", "50", "0.15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := LineItem{
				MOQ:             tt.moq,
				UnitPrice:       dec(tt.unitPrice),
				DiscountPercent: dec(tt.discountPercent),
			}
			got := LineTotal(item)
			if !got.Equal(dec(tt.expect)) {
				t.Errorf("LineTotal(moq=%d, price=%s, disc=%s%%) = %s, want %s",
					tt.moq, tt.unitPrice, tt.discountPercent, got, tt.expect)
			}
		})
	}
}

func TestCalcQuotationTotals_WorkedExample(t *testing.T) {
	// 10 units at $5.00 with a 10% line discount, then a fixed $2.00
	// quotation discount and 15% tax.
	items := []LineItem{
		{MOQ: 10, UnitPrice: dec("5.00"), DiscountPercent: dec("10")},
	}

	totals := CalcQuotationTotals(items, dec("15"), DiscountFixed, dec("2.00"))

	checks := []struct {
		name   string
		got    decimal.Decimal
		expect string
	}{
		{"subtotal", totals.Subtotal, "45.00"},
		{"discount", totals.Discount, "2.00"},
		{"after discount", totals.AfterDiscount, "43.00"},
		{"tax", totals.Tax, "6.45"},
		{"total", totals.Total, "49.45"},
	}
	for _, c := range checks {
		if !c.got.Equal(dec(c.expect)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.expect)
		}
	}

	if got := FormatCurrency(totals.Total, CurrencyUSD); got != "$49.45" {
		t.Errorf("formatted total = %q, want %q", got, "$49.45")
	}
}

func TestCalcQuotationTotals_PercentageDiscount(t *testing.T) {
	items := []LineItem{
		{MOQ: 2, UnitPrice: dec("100")},
		{MOQ: 1, UnitPrice: dec("50")},
	}

	totals := CalcQuotationTotals(items, dec("17"), DiscountPercentage, dec("10"))

	if !totals.Subtotal.Equal(dec("250")) {
		t.Errorf("subtotal = %s, want 250", totals.Subtotal)
	}
	if !totals.Discount.Equal(dec("25")) {
		t.Errorf("discount = %s, want 25", totals.Discount)
	}
	if !totals.Tax.Equal(dec("38.25")) {
		t.Errorf("tax = %s, want 38.25", totals.Tax)
	}
	if !totals.Total.Equal(dec("263.25")) {
		t.Errorf("total = %s, want 263.25", totals.Total)
	}
}

func TestCalcQuotationTotals_ZeroDiscountIdentity(t *testing.T) {
	items := []LineItem{
		{MOQ: 7, UnitPrice: dec("13.37")},
		{MOQ: 3, UnitPrice: dec("0.99"), DiscountPercent: dec("5")},
	}

	zeroPct := CalcQuotationTotals(items, dec("15"), DiscountPercentage, decimal.Zero)
	zeroFixed := CalcQuotationTotals(items, dec("15"), DiscountFixed, decimal.Zero)

	if !zeroPct.Total.Equal(zeroFixed.Total) {
		t.Errorf("zero percentage total %s != zero fixed total %s", zeroPct.Total, zeroFixed.Total)
	}
	if !zeroPct.AfterDiscount.Equal(zeroPct.Subtotal) {
		t.Errorf("after-discount %s != subtotal %s with zero discount", zeroPct.AfterDiscount, zeroPct.Subtotal)
	}
}

func TestCalcQuotationTotals_FixedDiscountExceedsSubtotal(t *testing.T) {
	// A fixed discount larger than the subtotal is applied verbatim; the
	// taxable base goes negative and so does the tax.
	items := []LineItem{
		{MOQ: 1, UnitPrice: dec("10")},
	}

	totals := CalcQuotationTotals(items, dec("10"), DiscountFixed, dec("25"))

	if !totals.AfterDiscount.Equal(dec("-15")) {
		t.Errorf("after discount = %s, want -15", totals.AfterDiscount)
	}
	if !totals.Tax.Equal(dec("-1.5")) {
		t.Errorf("tax = %s, want -1.5", totals.Tax)
	}
	if !totals.Total.Equal(dec("-16.5")) {
		t.Errorf("total = %s, want -16.5", totals.Total)
	}
}

func TestSubtotal_OrderIndependent(t *testing.T) {
	a := LineItem{MOQ: 3, UnitPrice: dec("19.99"), DiscountPercent: dec("7.5")}
	b := LineItem{MOQ: 11, UnitPrice: dec("0.01")}
	c := LineItem{MOQ: 1, UnitPrice: dec("1234.56"), DiscountPercent: dec("33")}

	forward := Subtotal([]LineItem{a, b, c})
	reverse := Subtotal([]LineItem{c, b, a})

	if !forward.Equal(reverse) {
		t.Errorf("subtotal depends on item order: %s vs %s", forward, reverse)
	}
}

func TestSubtotal_Empty(t *testing.T) {
	if got := Subtotal(nil); !got.IsZero() {
		t.Errorf("Subtotal(nil) = %s, want 0", got)
	}
}

func TestTotal_MatchesCalcQuotationTotals(t *testing.T) {
	items := []LineItem{
		{MOQ: 5, UnitPrice: dec("7.25"), DiscountPercent: dec("12")},
		{MOQ: 2, UnitPrice: dec("301")},
	}

	direct := Total(items, dec("18"), DiscountPercentage, dec("3"))
	full := CalcQuotationTotals(items, dec("18"), DiscountPercentage, dec("3"))

	if !direct.Equal(full.Total) {
		t.Errorf("Total = %s, CalcQuotationTotals.Total = %s", direct, full.Total)
	}
}

package services

import (
	"testing"
	"time"
)

func TestFormatCurrency_Values(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		cur    Currency
		expect string
	}{
		{"zero", "0", CurrencyUSD, "$0.00"},
		{"small integer", "5", CurrencyUSD, "$5.00"},
		{"with decimals", "42.5", CurrencyUSD, "$42.50"},
		{"hundreds", "999.99", CurrencyUSD, "$999.99"},
		{"thousands", "1234.56", CurrencyUSD, "$1,234.56"},
		{"millions", "1234567.89", CurrencyUSD, "$1,234,567.89"},
		{"rounds half up", "2.005", CurrencyUSD, "$2.01"},
		{"negative", "-100", CurrencyUSD, "-$100.00"},
		{"negative thousands", "-250000.5", CurrencyUSD, "-$250,000.50"},
		{"euro", "1234.56", CurrencyEUR, "€1,234.56"},
		{"pound", "99.9", CurrencyGBP, "£99.90"},
		{"shekel", "12345", CurrencyILS, "₪12,345.00"},
		{"yen has no decimals", "1234.56", CurrencyJPY, "¥1,235"},
		{"yen grouping", "98765432", CurrencyJPY, "¥98,765,432"},
		{"yuan", "1000", CurrencyCNY, "CN¥1,000.00"},
		{"exact thousands boundary", "1000", CurrencyUSD, "$1,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCurrency(dec(tt.input), tt.cur)
			if got != tt.expect {
				t.Errorf("FormatCurrency(%s, %s) = %q, want %q", tt.input, tt.cur, got, tt.expect)
			}
		})
	}
}

func TestFormatCurrency_UnknownFallsBackToUSD(t *testing.T) {
	got := FormatCurrency(dec("7.5"), Currency("XXX"))
	if got != "$7.50" {
		t.Errorf("FormatCurrency with unknown code = %q, want %q", got, "$7.50")
	}
}

func TestGroupThousands(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"single digit", "5", "5"},
		{"three digits", "999", "999"},
		{"four digits", "1234", "1,234"},
		{"six digits", "123456", "123,456"},
		{"seven digits", "1234567", "1,234,567"},
		{"ten digits", "1234567890", "1,234,567,890"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := groupThousands(tt.input)
			if got != tt.expect {
				t.Errorf("groupThousands(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name   string
		input  time.Time
		expect string
	}{
		{"single digit day", time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), "March 5, 2024"},
		{"double digit day", time.Date(2023, time.December, 25, 13, 45, 0, 0, time.UTC), "December 25, 2023"},
		{"first of january", time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), "January 1, 2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDate(tt.input)
			if got != tt.expect {
				t.Errorf("FormatDate(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// currencyFormat describes how one supported currency is rendered.
type currencyFormat struct {
	symbol   string
	fraction int32
}

// Rendering follows the en-US conventions the desktop app used, so output is
// byte-identical for identical input. JPY is a zero-decimal currency.
var currencyFormats = map[Currency]currencyFormat{
	CurrencyUSD: {"$", 2},
	CurrencyEUR: {"€", 2},
	CurrencyGBP: {"£", 2},
	CurrencyILS: {"₪", 2},
	CurrencyJPY: {"¥", 0},
	CurrencyCNY: {"CN¥", 2},
}

// FormatCurrency renders amount with the currency's symbol, thousands
// grouping and its fraction digits. Unknown codes fall back to USD.
func FormatCurrency(amount decimal.Decimal, cur Currency) string {
	format, ok := currencyFormats[cur]
	if !ok {
		format = currencyFormats[CurrencyUSD]
	}

	negative := amount.IsNegative()
	raw := amount.Abs().StringFixed(format.fraction)

	intPart := raw
	decPart := ""
	if idx := strings.IndexByte(raw, '.'); idx >= 0 {
		intPart = raw[:idx]
		decPart = raw[idx:]
	}

	result := format.symbol + groupThousands(intPart) + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts commas every 3 digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]
	for len(remaining) > 3 {
		result = remaining[len(remaining)-3:] + "," + result
		remaining = remaining[:len(remaining)-3]
	}
	return remaining + "," + result
}

// FormatDate renders a long-form human date, e.g. "March 5, 2024".
func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

package services

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineTotal computes moq * unitPrice less the per-line discount. It is never
// negative for non-negative inputs.
func LineTotal(item LineItem) decimal.Decimal {
	moq := item.MOQ
	if moq < 1 {
		moq = 1
	}
	gross := decimal.NewFromInt(int64(moq)).Mul(item.UnitPrice)
	lineDiscount := gross.Mul(item.DiscountPercent).Div(hundred)
	return gross.Sub(lineDiscount)
}

// Subtotal sums LineTotal over all items. Decimal arithmetic keeps the result
// independent of item order.
func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(LineTotal(item))
	}
	return sum
}

// DiscountAmount resolves the quotation-level discount. A percentage discount
// is taken from the subtotal; a fixed discount is applied verbatim and may
// exceed the subtotal, producing a negative taxable base (not clamped).
func DiscountAmount(subtotal decimal.Decimal, discountType DiscountType, discountValue decimal.Decimal) decimal.Decimal {
	if discountType == DiscountPercentage {
		return subtotal.Mul(discountValue).Div(hundred)
	}
	return discountValue
}

// TaxAmount computes tax on the after-discount base.
func TaxAmount(afterDiscount, taxRate decimal.Decimal) decimal.Decimal {
	return afterDiscount.Mul(taxRate).Div(hundred)
}

// Total computes the grand total: subtotal - discount + tax.
func Total(items []LineItem, taxRate decimal.Decimal, discountType DiscountType, discountValue decimal.Decimal) decimal.Decimal {
	subtotal := Subtotal(items)
	afterDiscount := subtotal.Sub(DiscountAmount(subtotal, discountType, discountValue))
	return afterDiscount.Add(TaxAmount(afterDiscount, taxRate))
}

// QuotationTotals holds every derived amount for a quotation.
type QuotationTotals struct {
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	AfterDiscount decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
}

// CalcQuotationTotals computes the full totals stack in one pass.
func CalcQuotationTotals(items []LineItem, taxRate decimal.Decimal, discountType DiscountType, discountValue decimal.Decimal) QuotationTotals {
	subtotal := Subtotal(items)
	discount := DiscountAmount(subtotal, discountType, discountValue)
	afterDiscount := subtotal.Sub(discount)
	tax := TaxAmount(afterDiscount, taxRate)

	return QuotationTotals{
		Subtotal:      subtotal,
		Discount:      discount,
		AfterDiscount: afterDiscount,
		Tax:           tax,
		Total:         afterDiscount.Add(tax),
	}
}

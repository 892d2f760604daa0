package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// ComputeTotals derives all monetary figures for an order or quote. It is a
// pure function with a fixed evaluation order:
//
//	1. subtotal       = Σ quantity × unit price
//	2. discountAmount = percent: subtotal × discount/100, fixed: min(discount, subtotal)
//	3. taxableBase    = subtotal − discountAmount, clamped at 0
//	4. taxAmount      = taxableBase × taxRate/100
//	5. total          = taxableBase + taxAmount + setupFee + deliveryFee
//	6. amountPaid     = Σ payment amounts
//	7. outstanding    = max(0, total − amountPaid)
//
// Intermediate values stay exact; rounding to 2 decimal places (half-up)
// happens exactly once, on the returned Totals. The clamps in steps 3 and 7
// are part of the contract; every other invalid input fails loudly.
func ComputeTotals(items []LineItem, discount decimal.Decimal, discountType DiscountType, setupFee, deliveryFee, taxRate decimal.Decimal, payments []Payment) (Totals, error) {
	if err := validatePricingInputs(items, discount, discountType, setupFee, deliveryFee, taxRate); err != nil {
		return Totals{}, err
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(decimal.NewFromInt(int64(item.Quantity)).Mul(item.UnitPrice))
	}

	var discountAmount decimal.Decimal
	switch discountType {
	case DiscountPercent:
		discountAmount = subtotal.Mul(discount).Div(oneHundred)
	default:
		discountAmount = decimal.Min(discount, subtotal)
	}

	taxableBase := subtotal.Sub(discountAmount)
	if taxableBase.IsNegative() {
		taxableBase = decimal.Zero
	}

	taxAmount := taxableBase.Mul(taxRate).Div(oneHundred)
	total := taxableBase.Add(taxAmount).Add(setupFee).Add(deliveryFee)

	amountPaid := decimal.Zero
	for _, p := range payments {
		if !p.Amount.IsPositive() {
			return Totals{}, fmt.Errorf("%w: payment %d amount must be positive, got %s", ErrInvalidPayment, p.ID, p.Amount)
		}
		amountPaid = amountPaid.Add(p.Amount)
	}

	outstanding := total.Sub(amountPaid)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}

	return Totals{
		Subtotal:       subtotal.Round(2),
		DiscountAmount: discountAmount.Round(2),
		TaxableBase:    taxableBase.Round(2),
		TaxAmount:      taxAmount.Round(2),
		Total:          total.Round(2),
		AmountPaid:     amountPaid.Round(2),
		Outstanding:    outstanding.Round(2),
	}, nil
}

func validatePricingInputs(items []LineItem, discount decimal.Decimal, discountType DiscountType, setupFee, deliveryFee, taxRate decimal.Decimal) error {
	for i, item := range items {
		if item.Quantity < 1 {
			return fmt.Errorf("%w: line %d quantity must be at least 1, got %d", ErrInvalidLineItem, i+1, item.Quantity)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: line %d unit price must not be negative, got %s", ErrInvalidLineItem, i+1, item.UnitPrice)
		}
	}

	if discount.IsNegative() {
		return fmt.Errorf("%w: discount must not be negative, got %s", ErrInvalidDiscount, discount)
	}
	if discountType == DiscountPercent && discount.GreaterThan(oneHundred) {
		return fmt.Errorf("%w: percent discount must not exceed 100, got %s", ErrInvalidDiscount, discount)
	}

	if taxRate.IsNegative() || taxRate.GreaterThan(oneHundred) {
		return fmt.Errorf("%w: tax rate must be between 0 and 100, got %s", ErrInvalidTaxRate, taxRate)
	}
	if setupFee.IsNegative() {
		return fmt.Errorf("%w: setup fee must not be negative, got %s", ErrInvalidTaxRate, setupFee)
	}
	if deliveryFee.IsNegative() {
		return fmt.Errorf("%w: delivery fee must not be negative, got %s", ErrInvalidTaxRate, deliveryFee)
	}
	return nil
}

// validateItemInputs applies the pricing engine's line item constraints to
// raw inputs before they are persisted.
func validateItemInputs(items []LineItemInput) error {
	for i, item := range items {
		if item.Quantity < 1 {
			return fmt.Errorf("%w: line %d quantity must be at least 1, got %d", ErrInvalidLineItem, i+1, item.Quantity)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: line %d unit price must not be negative, got %s", ErrInvalidLineItem, i+1, item.UnitPrice)
		}
		if item.Name == "" && item.ProductID == nil {
			return fmt.Errorf("%w: line %d needs a name or a product reference", ErrInvalidLineItem, i+1)
		}
	}
	return nil
}

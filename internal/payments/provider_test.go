package payments_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"bakeshop/internal/payments"
)

func TestManualProvider_Charge(t *testing.T) {
	p := payments.NewManualProvider()

	result, err := p.Charge(context.Background(), decimal.NewFromFloat(34.70), "cash")
	if err != nil {
		t.Fatalf("Charge failed: %v", err)
	}
	if !result.Success {
		t.Error("manual charges always succeed")
	}
	if !strings.HasPrefix(result.ProviderReference, "manual-") {
		t.Errorf("expected a manual- reference, got %q", result.ProviderReference)
	}

	other, err := p.Charge(context.Background(), decimal.NewFromInt(10), "cash")
	if err != nil {
		t.Fatalf("Charge failed: %v", err)
	}
	if other.ProviderReference == result.ProviderReference {
		t.Error("references must be unique per charge")
	}
}

func TestManualProvider_RejectsNonPositiveAmounts(t *testing.T) {
	p := payments.NewManualProvider()
	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		if _, err := p.Charge(context.Background(), amount, "cash"); err == nil {
			t.Errorf("expected error for amount %s", amount)
		}
	}
}

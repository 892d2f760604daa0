// Package payments abstracts the external payment provider. The order core
// only records outcomes; charging happens here, above the aggregate.
package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChargeResult is the provider's answer to a charge attempt.
type ChargeResult struct {
	ProviderReference string
	Success           bool
}

// Provider charges a customer through an external processor. Implementations
// must be safe for concurrent use.
type Provider interface {
	Charge(ctx context.Context, amount decimal.Decimal, method string) (ChargeResult, error)
}

// ManualProvider models payments collected outside any processor (cash at
// the counter, bank transfer). It never fails and issues a local reference
// so every payment row still carries a traceable id.
type ManualProvider struct{}

func NewManualProvider() *ManualProvider {
	return &ManualProvider{}
}

func (p *ManualProvider) Charge(ctx context.Context, amount decimal.Decimal, method string) (ChargeResult, error) {
	if !amount.IsPositive() {
		return ChargeResult{}, fmt.Errorf("charge amount must be positive, got %s", amount)
	}
	return ChargeResult{
		ProviderReference: "manual-" + uuid.NewString(),
		Success:           true,
	}, nil
}

package treasury

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LogTransferor records outbound transfers for the external payout tooling
// to settle. Swapped for a real settlement client in deployments that hold
// custody.
type LogTransferor struct{}

func NewLogTransferor() LogTransferor {
	return LogTransferor{}
}

func (t LogTransferor) TransferNative(to common.Address, amount decimal.Decimal) error {
	zap.L().With(zap.String("to", to.Hex()), zap.String("amount", amount.String())).Info("Transfer: native out")
	return nil
}

func (t LogTransferor) TransferLink(to common.Address, amount decimal.Decimal) error {
	zap.L().With(zap.String("to", to.Hex()), zap.String("amount", amount.String())).Info("Transfer: link out")
	return nil
}

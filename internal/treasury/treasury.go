package treasury

import (
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/musee-dezental/frame-core/internal/access"
	"github.com/musee-dezental/frame-core/internal/entity"
	"github.com/musee-dezental/frame-core/internal/event"
	"github.com/musee-dezental/frame-core/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInsufficientFunds = errors.New("insufficient treasury balance")
)

// Transferor is the underlying transfer mechanism moving funds out of the
// treasury. Its errors are propagated, never swallowed; a failed transfer
// unwinds the withdrawal.
type Transferor interface {
	TransferNative(to common.Address, amount decimal.Decimal) error
	TransferLink(to common.Address, amount decimal.Decimal) error
}

// Service owns the accumulated balances. Native holds all collected
// currency; Fees and per-owner rental shares are sub-accounts of it.
type Service interface {
	WithdrawEther(caller, to common.Address, amount decimal.Decimal) error
	WithdrawAllLink(caller, to common.Address) (decimal.Decimal, error)
	DepositLink(caller common.Address, amount decimal.Decimal) error

	Balances() (entity.Treasury, error)
	OwnerBalance(owner common.Address) (decimal.Decimal, error)

	CreditNative(txn *badger.Txn, amount decimal.Decimal) error
	CreditRental(txn *badger.Txn, owner common.Address, payment, fee decimal.Decimal) error
}

type service struct {
	badger     *store.Badger
	repo       store.TreasuryRepository
	access     access.Service
	transferor Transferor
}

func NewService(badger *store.Badger, repo store.TreasuryRepository, access access.Service, transferor Transferor) Service {
	return service{badger, repo, access, transferor}
}

func (s service) WithdrawEther(caller, to common.Address, amount decimal.Decimal) error {
	if err := s.access.RequireAdmin(caller); err != nil {
		return err
	}

	err := s.badger.Update(func(txn *badger.Txn) error {
		t, err := s.repo.GetTreasury(txn)
		if err != nil {
			return err
		}
		if amount.GreaterThan(t.Native) {
			return ErrInsufficientFunds
		}

		t.Native = t.Native.Sub(amount)
		if err := s.repo.SaveTreasury(txn, t); err != nil {
			return err
		}

		return s.transferor.TransferNative(to, amount)
	})
	if err != nil {
		return err
	}

	zap.L().With(zap.String("to", to.Hex()), zap.String("amount", amount.String())).Info("Treasury: Ether withdrawn")
	event.EmitEvent(event.EtherWithdrawnEvent, entity.NewEtherWithdrawnEvent(to, amount))

	return nil
}

func (s service) WithdrawAllLink(caller, to common.Address) (decimal.Decimal, error) {
	if err := s.access.RequireAdmin(caller); err != nil {
		return decimal.Zero, err
	}

	var amount decimal.Decimal
	err := s.badger.Update(func(txn *badger.Txn) error {
		t, err := s.repo.GetTreasury(txn)
		if err != nil {
			return err
		}

		amount = t.Link
		t.Link = decimal.Zero
		if err := s.repo.SaveTreasury(txn, t); err != nil {
			return err
		}

		return s.transferor.TransferLink(to, amount)
	})
	if err != nil {
		return decimal.Zero, err
	}

	zap.L().With(zap.String("to", to.Hex()), zap.String("amount", amount.String())).Info("Treasury: Link withdrawn")
	event.EmitEvent(event.LinkWithdrawnEvent, entity.NewLinkWithdrawnEvent(to, amount))

	return amount, nil
}

func (s service) DepositLink(caller common.Address, amount decimal.Decimal) error {
	if err := s.access.RequireAdmin(caller); err != nil {
		return err
	}

	return s.badger.Update(func(txn *badger.Txn) error {
		t, err := s.repo.GetTreasury(txn)
		if err != nil {
			return err
		}

		t.Link = t.Link.Add(amount)
		return s.repo.SaveTreasury(txn, t)
	})
}

func (s service) Balances() (entity.Treasury, error) {
	var t entity.Treasury
	err := s.badger.View(func(txn *badger.Txn) error {
		var err error
		t, err = s.repo.GetTreasury(txn)
		return err
	})

	return t, err
}

func (s service) OwnerBalance(owner common.Address) (decimal.Decimal, error) {
	var b entity.OwnerBalance
	err := s.badger.View(func(txn *badger.Txn) error {
		var err error
		b, err = s.repo.GetOwnerBalance(txn, owner)
		return err
	})

	return b.Balance, err
}

func (s service) CreditNative(txn *badger.Txn, amount decimal.Decimal) error {
	t, err := s.repo.GetTreasury(txn)
	if err != nil {
		return err
	}

	t.Native = t.Native.Add(amount)
	return s.repo.SaveTreasury(txn, t)
}

// CreditRental books a rental payment: the whole payment enters the native
// balance, the fee accrues to the fee account, and the remainder becomes
// the owner's withdrawable share.
func (s service) CreditRental(txn *badger.Txn, owner common.Address, payment, fee decimal.Decimal) error {
	t, err := s.repo.GetTreasury(txn)
	if err != nil {
		return err
	}

	t.Native = t.Native.Add(payment)
	t.Fees = t.Fees.Add(fee)
	if err := s.repo.SaveTreasury(txn, t); err != nil {
		return err
	}

	b, err := s.repo.GetOwnerBalance(txn, owner)
	if err != nil {
		return err
	}

	b.Balance = b.Balance.Add(payment.Sub(fee))
	return s.repo.SaveOwnerBalance(txn, b)
}

package treasury_test

import (
	"errors"
	"testing"

	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/musee-dezental/frame-core/internal/access"
	"github.com/musee-dezental/frame-core/internal/store"
	"github.com/musee-dezental/frame-core/internal/treasury"
	"github.com/musee-dezental/frame-core/pkg/frame"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin    = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	stranger = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	owner    = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

type failingTransferor struct{}

func (failingTransferor) TransferNative(to common.Address, amount decimal.Decimal) error {
	return errors.New("transfer rejected")
}

func (failingTransferor) TransferLink(to common.Address, amount decimal.Decimal) error {
	return errors.New("transfer rejected")
}

func newService(t *testing.T, transferor treasury.Transferor) (*store.Badger, treasury.Service) {
	b, err := store.Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	accessService := access.NewService(b, store.NewAccessRepository(), admin)

	return b, treasury.NewService(b, store.NewTreasuryRepository(), accessService, transferor)
}

func TestService_CreditNative(t *testing.T) {
	b, svc := newService(t, treasury.NewLogTransferor())

	err := b.Update(func(txn *badger.Txn) error {
		return svc.CreditNative(txn, frame.Ether("0.15"))
	})
	require.NoError(t, err)

	balances, err := svc.Balances()
	require.NoError(t, err)
	assert.True(t, balances.Native.Equal(frame.Ether("0.15")))
	assert.True(t, balances.Fees.IsZero())
}

func TestService_CreditRental(t *testing.T) {
	b, svc := newService(t, treasury.NewLogTransferor())

	payment := frame.Wei(57600)
	fee := frame.Wei(2880)

	err := b.Update(func(txn *badger.Txn) error {
		return svc.CreditRental(txn, owner, payment, fee)
	})
	require.NoError(t, err)

	balances, err := svc.Balances()
	require.NoError(t, err)
	assert.True(t, balances.Native.Equal(payment))
	assert.True(t, balances.Fees.Equal(fee))

	ownerBalance, err := svc.OwnerBalance(owner)
	require.NoError(t, err)
	assert.True(t, ownerBalance.Equal(frame.Wei(54720)))
}

func TestService_WithdrawEther(t *testing.T) {
	b, svc := newService(t, treasury.NewLogTransferor())

	err := b.Update(func(txn *badger.Txn) error {
		return svc.CreditNative(txn, frame.Wei(1000))
	})
	require.NoError(t, err)

	err = svc.WithdrawEther(stranger, stranger, frame.Wei(100))
	assert.ErrorIs(t, err, access.ErrOnlyOwner)

	err = svc.WithdrawEther(admin, admin, frame.Wei(2000))
	assert.ErrorIs(t, err, treasury.ErrInsufficientFunds)

	require.NoError(t, svc.WithdrawEther(admin, admin, frame.Wei(400)))

	balances, err := svc.Balances()
	require.NoError(t, err)
	assert.True(t, balances.Native.Equal(frame.Wei(600)))
}

func TestService_WithdrawEther_FailedTransferUnwinds(t *testing.T) {
	b, svc := newService(t, failingTransferor{})

	err := b.Update(func(txn *badger.Txn) error {
		return svc.CreditNative(txn, frame.Wei(1000))
	})
	require.NoError(t, err)

	err = svc.WithdrawEther(admin, admin, frame.Wei(400))
	assert.Error(t, err)

	// The debit was rolled back with the failed transfer.
	balances, err := svc.Balances()
	require.NoError(t, err)
	assert.True(t, balances.Native.Equal(frame.Wei(1000)))
}

func TestService_Link(t *testing.T) {
	_, svc := newService(t, treasury.NewLogTransferor())

	err := svc.DepositLink(stranger, frame.Ether("1"))
	assert.ErrorIs(t, err, access.ErrOnlyOwner)

	require.NoError(t, svc.DepositLink(admin, frame.Ether("2")))

	balances, err := svc.Balances()
	require.NoError(t, err)
	assert.True(t, balances.Link.Equal(frame.Ether("2")))

	amount, err := svc.WithdrawAllLink(admin, admin)
	require.NoError(t, err)
	assert.True(t, amount.Equal(frame.Ether("2")))

	balances, err = svc.Balances()
	require.NoError(t, err)
	assert.True(t, balances.Link.IsZero())
}

package rental

import (
	"errors"
	"math/big"

	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/musee-dezental/frame-core/internal/entity"
	"github.com/musee-dezental/frame-core/internal/event"
	"github.com/musee-dezental/frame-core/internal/ledger"
	"github.com/musee-dezental/frame-core/internal/store"
	"github.com/musee-dezental/frame-core/internal/treasury"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrIncorrectPayment   = errors.New("Frame: Incorrect payment")
	ErrTokenAlreadyRented = errors.New("Frame: Token already rented")
	ErrNotTokenOwner      = errors.New("Frame: Only token owner")
)

// Market prices and books per-frame rentals. A rental delegates exhibit
// control for a block window and splits the payment between the owner and
// the treasury fee account.
type Market interface {
	SetRentalPricePerBlock(caller common.Address, frameId uint64, price decimal.Decimal) error
	GetRentalPricePerBlock(frameId uint64) (decimal.Decimal, error)
	CalculateRentalCost(frameId uint64, numBlocks uint64) (decimal.Decimal, error)
	SetRenter(caller common.Address, frameId uint64, renter common.Address, numBlocks uint64, payment decimal.Decimal) error
	IsCurrentlyRented(frameId uint64) (bool, error)
	TokenIsRentedByAddress(frameId uint64, addr common.Address) (bool, error)
	GetRenter(frameId uint64) (entity.Rental, error)
}

type market struct {
	badger         *store.Badger
	frames         store.FrameRepository
	treasury       treasury.Service
	clock          ledger.Clock
	feeNumerator   decimal.Decimal
	feeDenominator decimal.Decimal
}

func NewMarket(badger *store.Badger, frames store.FrameRepository, treasury treasury.Service, clock ledger.Clock, feeNumerator, feeDenominator int64) Market {
	return market{
		badger:         badger,
		frames:         frames,
		treasury:       treasury,
		clock:          clock,
		feeNumerator:   decimal.NewFromInt(feeNumerator),
		feeDenominator: decimal.NewFromInt(feeDenominator),
	}
}

// SetRentalPricePerBlock is owner-only. An active renter holds exhibit
// rights, never pricing rights.
func (m market) SetRentalPricePerBlock(caller common.Address, frameId uint64, price decimal.Decimal) error {
	err := m.badger.Update(func(txn *badger.Txn) error {
		f, err := m.frames.GetFrame(txn, frameId)
		if err != nil {
			return err
		}
		if f.Owner != caller {
			return ErrNotTokenOwner
		}

		f.RentalPricePerBlock = price
		return m.frames.SaveFrame(txn, f)
	})
	if err != nil {
		return err
	}

	zap.L().With(zap.Uint64("frameId", frameId), zap.String("price", price.String())).Info("Rental: Price per block set")

	return nil
}

func (m market) GetRentalPricePerBlock(frameId uint64) (decimal.Decimal, error) {
	f, err := m.getFrame(frameId)
	if err != nil {
		return decimal.Zero, err
	}

	return f.RentalPricePerBlock, nil
}

func (m market) CalculateRentalCost(frameId uint64, numBlocks uint64) (decimal.Decimal, error) {
	f, err := m.getFrame(frameId)
	if err != nil {
		return decimal.Zero, err
	}

	return f.RentalPricePerBlock.Mul(blockCount(numBlocks)), nil
}

// SetRenter books the rental. Payment must equal pricePerBlock*numBlocks
// exactly; both under- and over-payment are rejected. The fee is truncated
// integer division, the remainder staying with the owner's share.
func (m market) SetRenter(caller common.Address, frameId uint64, renter common.Address, numBlocks uint64, payment decimal.Decimal) error {
	currentBlock := m.clock.CurrentBlock()

	var f entity.Frame
	var fee decimal.Decimal

	err := m.badger.Update(func(txn *badger.Txn) error {
		var err error
		f, err = m.frames.GetFrame(txn, frameId)
		if err != nil {
			return err
		}

		if f.IsRented(currentBlock) {
			return ErrTokenAlreadyRented
		}

		cost := f.RentalPricePerBlock.Mul(blockCount(numBlocks))
		if !payment.Equal(cost) {
			return ErrIncorrectPayment
		}

		fee, _ = payment.Mul(m.feeNumerator).QuoRem(m.feeDenominator, 0)

		if err := m.treasury.CreditRental(txn, f.Owner, payment, fee); err != nil {
			return err
		}

		f.Rental = &entity.Rental{
			Renter:      renter,
			ExpiryBlock: currentBlock + numBlocks,
		}

		return m.frames.SaveFrame(txn, f)
	})
	if err != nil {
		return err
	}

	zap.L().With(
		zap.Uint64("frameId", frameId),
		zap.String("renter", renter.Hex()),
		zap.Uint64("expiryBlock", f.Rental.ExpiryBlock),
		zap.String("fee", fee.String()),
	).Info("Rental: Renter set")

	event.EmitEvent(event.RentalFeeCollectedEvent, entity.NewRentalFeeCollectedEvent(frameId, f.Owner, fee))
	event.EmitEvent(event.RenterSetEvent, entity.NewRenterSetEvent(frameId, renter, f.Rental.ExpiryBlock))

	return nil
}

func (m market) IsCurrentlyRented(frameId uint64) (bool, error) {
	f, err := m.getFrame(frameId)
	if err != nil {
		return false, err
	}

	return f.IsRented(m.clock.CurrentBlock()), nil
}

func (m market) TokenIsRentedByAddress(frameId uint64, addr common.Address) (bool, error) {
	f, err := m.getFrame(frameId)
	if err != nil {
		return false, err
	}

	return f.IsRentedBy(addr, m.clock.CurrentBlock()), nil
}

func (m market) GetRenter(frameId uint64) (entity.Rental, error) {
	f, err := m.getFrame(frameId)
	if err != nil {
		return entity.Rental{}, err
	}
	if f.Rental == nil {
		return entity.Rental{}, nil
	}

	return *f.Rental, nil
}

// blockCount widens without passing through int64; counts above 1<<63
// must not flip sign.
func blockCount(numBlocks uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(numBlocks), 0)
}

func (m market) getFrame(frameId uint64) (entity.Frame, error) {
	var f entity.Frame
	err := m.badger.View(func(txn *badger.Txn) error {
		var err error
		f, err = m.frames.GetFrame(txn, frameId)
		return err
	})

	return f, err
}

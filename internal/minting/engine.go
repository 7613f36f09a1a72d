package minting

import (
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/musee-dezental/frame-core/internal/access"
	"github.com/musee-dezental/frame-core/internal/entity"
	"github.com/musee-dezental/frame-core/internal/event"
	"github.com/musee-dezental/frame-core/internal/inventory"
	"github.com/musee-dezental/frame-core/internal/ledger"
	"github.com/musee-dezental/frame-core/internal/oracle"
	"github.com/musee-dezental/frame-core/internal/store"
	"github.com/musee-dezental/frame-core/internal/treasury"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrMintingUnavailable = errors.New("Frame: Minting unavailable")
	ErrIncorrectPayment   = errors.New("Frame: Incorrect payment for category")
	ErrSoldOut            = errors.New("Frame: Sold out")
	ErrTokenAlreadyMinted = errors.New("Frame: Token already minted")

	// ErrTokenOutOfRange is a parameter error for direct construction.
	ErrTokenOutOfRange = errors.New("token id outside category sequence")
)

// Engine orchestrates sale gating, payment validation, inventory
// reservation, and the oracle round trip that finishes a mint.
type Engine interface {
	Mint(caller common.Address, category uint8, payment decimal.Decimal) (entity.MintRequest, error)
	Fulfill(requestId string, random decimal.Decimal) (entity.Frame, error)
	ConstructFrame(caller, recipient common.Address, category uint8, tokenId uint64) (entity.Frame, error)
}

type engine struct {
	badger     *store.Badger
	categories store.CategoryRepository
	frames     store.FrameRepository
	accessRepo store.AccessRepository
	access     access.Service
	correlator oracle.Correlator
	requester  oracle.Requester
	treasury   treasury.Service
	clock      ledger.Clock
}

func NewEngine(
	badger *store.Badger,
	categories store.CategoryRepository,
	frames store.FrameRepository,
	accessRepo store.AccessRepository,
	access access.Service,
	correlator oracle.Correlator,
	requester oracle.Requester,
	treasury treasury.Service,
	clock ledger.Clock,
) Engine {
	return engine{badger, categories, frames, accessRepo, access, correlator, requester, treasury, clock}
}

// Mint reserves a category slot and registers the randomness request. The
// slot is reserved here, before the oracle responds, so concurrently
// outstanding requests can never collectively oversell a category.
func (e engine) Mint(caller common.Address, category uint8, payment decimal.Decimal) (entity.MintRequest, error) {
	var req entity.MintRequest

	err := e.badger.Update(func(txn *badger.Txn) error {
		status, err := e.accessRepo.SaleStatus(txn)
		if err != nil {
			return err
		}
		if status == entity.SaleOff {
			return ErrMintingUnavailable
		}

		if status == entity.SalePresale {
			allowed, err := e.accessRepo.HasPresaleRole(txn, caller)
			if err != nil {
				return err
			}
			if !allowed {
				return access.ErrNotAllowlisted
			}
		}

		initialized, err := e.categories.Initialized(txn)
		if err != nil {
			return err
		}
		if !initialized {
			return inventory.ErrNotInitialized
		}

		if !inventory.ValidIndex(category) {
			return inventory.ErrInvalidCategory
		}

		c, err := e.categories.GetCategory(txn, category)
		if err != nil {
			return err
		}

		if !payment.Equal(c.Price) {
			return ErrIncorrectPayment
		}

		if c.SoldOut() {
			return ErrSoldOut
		}
		c.Reserved++
		if err := e.categories.SaveCategory(txn, c); err != nil {
			return err
		}

		if err := e.treasury.CreditNative(txn, payment); err != nil {
			return err
		}

		req, err = e.correlator.Register(txn, caller, category, e.clock.CurrentBlock())
		return err
	})
	if err != nil {
		return entity.MintRequest{}, err
	}

	zap.L().With(
		zap.String("requestId", req.Id),
		zap.String("requester", caller.Hex()),
		zap.Uint8("category", category),
	).Info("Minting: Mint requested")

	event.EmitEvent(event.MintRequestedEvent, entity.NewMintRequestedEvent(req))

	if err := e.requester.RequestRandomness(req); err != nil {
		// The reservation stands; the request can be re-driven from the
		// pending correlations.
		zap.L().With(zap.Error(err), zap.String("requestId", req.Id)).Error("Minting: Failed to dispatch randomness request")
	}

	return req, nil
}

// Fulfill consumes the correlation and assigns the next sequential id of
// the category, keeping id ranges contiguous regardless of delivery order.
// The random payload is retained for provenance only.
func (e engine) Fulfill(requestId string, random decimal.Decimal) (entity.Frame, error) {
	var minted entity.Frame

	err := e.badger.Update(func(txn *badger.Txn) error {
		req, err := e.correlator.Resolve(txn, requestId)
		if err != nil {
			return err
		}

		c, err := e.categories.GetCategory(txn, req.Category)
		if err != nil {
			return err
		}

		tokenId := c.NextTokenId()
		c.Fulfilled++
		if c.Fulfilled > c.Reserved {
			return errors.New("fulfillment exceeds reservations")
		}
		if err := e.categories.SaveCategory(txn, c); err != nil {
			return err
		}

		minted = entity.Frame{
			TokenId:             tokenId,
			Category:            req.Category,
			Owner:               req.Requester,
			RequestId:           req.Id,
			Random:              random,
			BlockNum:            e.clock.CurrentBlock(),
			RentalPricePerBlock: decimal.Zero,
		}

		return e.frames.SaveFrame(txn, minted)
	})
	if err != nil {
		return entity.Frame{}, err
	}

	zap.L().With(
		zap.String("requestId", requestId),
		zap.String("requester", minted.Owner.Hex()),
		zap.Uint64("tokenId", minted.TokenId),
	).Info("Minting: Mint fulfilled")

	event.EmitEvent(event.MintFulfilledEvent, entity.NewMintFulfilledEvent(requestId, minted.Owner, minted.TokenId, random))

	return minted, nil
}

// ConstructFrame mints directly to a recipient, bypassing payment and the
// oracle. A deployment-time escape hatch; it still burns a reservation and
// must follow the category's id sequence.
func (e engine) ConstructFrame(caller, recipient common.Address, category uint8, tokenId uint64) (entity.Frame, error) {
	if err := e.access.RequireAdmin(caller); err != nil {
		return entity.Frame{}, err
	}
	if !inventory.ValidIndex(category) {
		return entity.Frame{}, inventory.ErrInvalidCategory
	}

	var minted entity.Frame

	err := e.badger.Update(func(txn *badger.Txn) error {
		c, err := e.categories.GetCategory(txn, category)
		if err != nil {
			return err
		}

		// Exhaustion is a business-state condition; it outranks the
		// parameter check on the requested id.
		if c.SoldOut() {
			return ErrSoldOut
		}

		if tokenId != c.NextTokenId() || !c.ContainsTokenId(tokenId) {
			return ErrTokenOutOfRange
		}
		if _, err := e.frames.GetFrame(txn, tokenId); err == nil {
			return ErrTokenAlreadyMinted
		} else if !errors.Is(err, store.ErrFrameNotFound) {
			return err
		}

		c.Reserved++
		c.Fulfilled++
		if err := e.categories.SaveCategory(txn, c); err != nil {
			return err
		}

		minted = entity.Frame{
			TokenId:             tokenId,
			Category:            category,
			Owner:               recipient,
			BlockNum:            e.clock.CurrentBlock(),
			Random:              decimal.Zero,
			RentalPricePerBlock: decimal.Zero,
		}

		return e.frames.SaveFrame(txn, minted)
	})
	if err != nil {
		return entity.Frame{}, err
	}

	zap.L().With(
		zap.String("recipient", recipient.Hex()),
		zap.Uint64("tokenId", minted.TokenId),
	).Info("Minting: Frame constructed")

	return minted, nil
}

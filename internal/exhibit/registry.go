package exhibit

import (
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/musee-dezental/frame-core/internal/collectible"
	"github.com/musee-dezental/frame-core/internal/entity"
	"github.com/musee-dezental/frame-core/internal/event"
	"github.com/musee-dezental/frame-core/internal/ledger"
	"github.com/musee-dezental/frame-core/internal/store"
	"go.uber.org/zap"
)

var (
	ErrExhibitInvalid = errors.New("Frame: Exhibit not valid")
	ErrNotController  = errors.New("Frame: Only controller")
)

// Registry manages each frame's pointer to an externally owned collectible.
// Authorization follows the controller rule: the owner, unless an unexpired
// rental delegates control to the renter.
type Registry interface {
	SetExhibit(caller common.Address, frameId uint64, extContract common.Address, extTokenId uint64) error
	ClearExhibit(caller common.Address, frameId uint64) error
	GetExhibit(frameId uint64) (entity.Exhibit, error)
	GetExhibitTokenURI(frameId uint64) (string, error)
}

type registry struct {
	badger   *store.Badger
	frames   store.FrameRepository
	resolver collectible.Resolver
	clock    ledger.Clock
}

func NewRegistry(badger *store.Badger, frames store.FrameRepository, resolver collectible.Resolver, clock ledger.Clock) Registry {
	return registry{badger, frames, resolver, clock}
}

// SetExhibit validates the caller's control of the frame, probes the
// external contract's declared capability, and checks the controller holds
// the referenced token under that capability's ownership semantics.
func (r registry) SetExhibit(caller common.Address, frameId uint64, extContract common.Address, extTokenId uint64) error {
	currentBlock := r.clock.CurrentBlock()

	err := r.badger.Update(func(txn *badger.Txn) error {
		f, err := r.frames.GetFrame(txn, frameId)
		if err != nil {
			return err
		}

		controller := f.Controller(currentBlock)
		if caller != controller {
			return ErrNotController
		}

		c, err := r.resolver.Resolve(extContract)
		if err != nil {
			return err
		}

		capability, err := collectible.Probe(c)
		if err != nil {
			// Probe failures surface verbatim: the call itself is the
			// point of failure, not a business rule.
			return err
		}

		held, err := holds(c, capability, controller, extTokenId)
		if err != nil {
			return err
		}
		if !held {
			return ErrExhibitInvalid
		}

		f.Exhibit = &entity.Exhibit{Contract: extContract, TokenId: extTokenId}
		return r.frames.SaveFrame(txn, f)
	})
	if err != nil {
		return err
	}

	zap.L().With(
		zap.Uint64("frameId", frameId),
		zap.String("contract", extContract.Hex()),
		zap.Uint64("tokenId", extTokenId),
	).Info("Exhibit: Set")

	event.EmitEvent(event.ExhibitSetEvent, entity.NewExhibitSetEvent(frameId, extContract, extTokenId))

	return nil
}

// ClearExhibit resets the pointer to the zero value. The emitted event has
// the same shape as a set, with the zero address and id zero.
func (r registry) ClearExhibit(caller common.Address, frameId uint64) error {
	currentBlock := r.clock.CurrentBlock()

	err := r.badger.Update(func(txn *badger.Txn) error {
		f, err := r.frames.GetFrame(txn, frameId)
		if err != nil {
			return err
		}

		if caller != f.Controller(currentBlock) {
			return ErrNotController
		}

		f.Exhibit = nil
		return r.frames.SaveFrame(txn, f)
	})
	if err != nil {
		return err
	}

	zap.L().With(zap.Uint64("frameId", frameId)).Info("Exhibit: Cleared")

	event.EmitEvent(event.ExhibitSetEvent, entity.NewExhibitSetEvent(frameId, common.Address{}, 0))

	return nil
}

func (r registry) GetExhibit(frameId uint64) (entity.Exhibit, error) {
	f, err := r.getFrame(frameId)
	if err != nil {
		return entity.Exhibit{}, err
	}
	if f.Exhibit == nil {
		return entity.Exhibit{}, nil
	}

	return *f.Exhibit, nil
}

// GetExhibitTokenURI delegates to the external contract's URI convention
// for its declared capability and returns the result verbatim.
func (r registry) GetExhibitTokenURI(frameId uint64) (string, error) {
	f, err := r.getFrame(frameId)
	if err != nil {
		return "", err
	}
	if f.Exhibit == nil {
		return "", nil
	}

	c, err := r.resolver.Resolve(f.Exhibit.Contract)
	if err != nil {
		return "", err
	}

	capability, err := collectible.Probe(c)
	if err != nil {
		return "", err
	}

	switch capability {
	case collectible.Erc721Like:
		return c.(collectible.Erc721).TokenURI(f.Exhibit.TokenId)
	case collectible.Erc1155Like:
		return c.(collectible.Erc1155).URI(f.Exhibit.TokenId)
	}

	return "", collectible.ErrUnrecognizedCall
}

func holds(c collectible.Contract, capability collectible.Capability, controller common.Address, tokenId uint64) (bool, error) {
	switch capability {
	case collectible.Erc721Like:
		erc721, ok := c.(collectible.Erc721)
		if !ok {
			return false, collectible.ErrUnrecognizedCall
		}
		owner, err := erc721.OwnerOf(tokenId)
		if err != nil {
			return false, err
		}
		return owner == controller, nil

	case collectible.Erc1155Like:
		erc1155, ok := c.(collectible.Erc1155)
		if !ok {
			return false, collectible.ErrUnrecognizedCall
		}
		balance, err := erc1155.BalanceOf(controller, tokenId)
		if err != nil {
			return false, err
		}
		return balance > 0, nil
	}

	return false, collectible.ErrUnrecognizedCall
}

func (r registry) getFrame(frameId uint64) (entity.Frame, error) {
	var f entity.Frame
	err := r.badger.View(func(txn *badger.Txn) error {
		var err error
		f, err = r.frames.GetFrame(txn, frameId)
		return err
	})

	return f, err
}

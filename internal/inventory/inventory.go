package inventory

import (
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/musee-dezental/frame-core/internal/access"
	"github.com/musee-dezental/frame-core/internal/entity"
	"github.com/musee-dezental/frame-core/internal/store"
	"github.com/musee-dezental/frame-core/pkg/frame"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// ErrInvalidCategory is a parameter error: the index is outside the
	// fixed 0..10 range, as opposed to a category in an exhausted state.
	ErrInvalidCategory = errors.New("invalid category index")

	ErrAlreadyInitialized = errors.New("Frame: Categories already initialized")
	ErrNotInitialized     = errors.New("Frame: Categories not initialized")
)

// Service is the category inventory: the fixed partition of the id space
// into priced buckets. Configuration is frozen by FinalizeCategories, after
// which only the minting engine mutates the counters.
type Service interface {
	ConfigureCategory(caller common.Address, index uint8, price decimal.Decimal, startingId, supplyCap uint64) error
	FinalizeCategories(caller common.Address) error
	Initialized() (bool, error)
	GetCategoryDetail(index uint8) (entity.Category, error)
	GetAllCategories() ([]entity.Category, error)
}

type service struct {
	badger *store.Badger
	repo   store.CategoryRepository
	access access.Service
}

func NewService(badger *store.Badger, repo store.CategoryRepository, access access.Service) Service {
	return service{badger, repo, access}
}

func ValidIndex(index uint8) bool {
	return index < frame.NumCategories
}

func (s service) ConfigureCategory(caller common.Address, index uint8, price decimal.Decimal, startingId, supplyCap uint64) error {
	if err := s.access.RequireAdmin(caller); err != nil {
		return err
	}
	if !ValidIndex(index) {
		return ErrInvalidCategory
	}

	err := s.badger.Update(func(txn *badger.Txn) error {
		initialized, err := s.repo.Initialized(txn)
		if err != nil {
			return err
		}
		if initialized {
			return ErrAlreadyInitialized
		}

		return s.repo.SaveCategory(txn, entity.Category{
			Index:      index,
			Price:      price,
			StartingId: startingId,
			SupplyCap:  supplyCap,
		})
	})
	if err != nil {
		return err
	}

	zap.L().With(
		zap.Uint8("category", index),
		zap.String("price", price.String()),
		zap.Uint64("startingId", startingId),
		zap.Uint64("supplyCap", supplyCap),
	).Info("Inventory: Category configured")

	return nil
}

func (s service) FinalizeCategories(caller common.Address) error {
	if err := s.access.RequireAdmin(caller); err != nil {
		return err
	}

	err := s.badger.Update(func(txn *badger.Txn) error {
		initialized, err := s.repo.Initialized(txn)
		if err != nil {
			return err
		}
		if initialized {
			return ErrAlreadyInitialized
		}

		return s.repo.SetInitialized(txn)
	})
	if err != nil {
		return err
	}

	zap.L().Info("Inventory: Categories finalized, minting open")

	return nil
}

func (s service) Initialized() (bool, error) {
	var initialized bool
	err := s.badger.View(func(txn *badger.Txn) error {
		var err error
		initialized, err = s.repo.Initialized(txn)
		return err
	})

	return initialized, err
}

func (s service) GetCategoryDetail(index uint8) (entity.Category, error) {
	if !ValidIndex(index) {
		return entity.Category{}, ErrInvalidCategory
	}

	var c entity.Category
	err := s.badger.View(func(txn *badger.Txn) error {
		var err error
		c, err = s.repo.GetCategory(txn, index)
		return err
	})

	return c, err
}

func (s service) GetAllCategories() ([]entity.Category, error) {
	var categories []entity.Category
	err := s.badger.View(func(txn *badger.Txn) error {
		var err error
		categories, err = s.repo.GetAllCategories(txn)
		return err
	})

	return categories, err
}

package store

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/musee-dezental/frame-core/internal/entity"
	"github.com/musee-dezental/frame-core/pkg/frame"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
)

const keyCategoriesInitialized = "categories:initialized"

type CategoryRepository interface {
	GetCategory(txn *badger.Txn, index uint8) (entity.Category, error)
	GetAllCategories(txn *badger.Txn) ([]entity.Category, error)
	SaveCategory(txn *badger.Txn, c entity.Category) error
	Initialized(txn *badger.Txn) (bool, error)
	SetInitialized(txn *badger.Txn) error
}

type categoryRepository struct{}

func NewCategoryRepository() CategoryRepository {
	return categoryRepository{}
}

func categoryKey(index uint8) []byte {
	return []byte(fmt.Sprintf("category:%03d", index))
}

func (r categoryRepository) GetCategory(txn *badger.Txn, index uint8) (entity.Category, error) {
	var c entity.Category
	if err := getJSON(txn, categoryKey(index), &c); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return entity.Category{}, ErrCategoryNotFound
		}
		return entity.Category{}, err
	}

	return c, nil
}

func (r categoryRepository) GetAllCategories(txn *badger.Txn) ([]entity.Category, error) {
	categories := make([]entity.Category, 0)
	for index := uint8(0); index < frame.NumCategories; index++ {
		c, err := r.GetCategory(txn, index)
		if err != nil {
			if errors.Is(err, ErrCategoryNotFound) {
				continue
			}
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, nil
}

func (r categoryRepository) SaveCategory(txn *badger.Txn, c entity.Category) error {
	return setJSON(txn, categoryKey(c.Index), c)
}

func (r categoryRepository) Initialized(txn *badger.Txn) (bool, error) {
	_, err := txn.Get([]byte(keyCategoriesInitialized))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (r categoryRepository) SetInitialized(txn *badger.Txn) error {
	return txn.Set([]byte(keyCategoriesInitialized), []byte{1})
}

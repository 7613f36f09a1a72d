package store

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/musee-dezental/frame-core/internal/entity"
)

const keySaleStatus = "sale:status"

type AccessRepository interface {
	SaleStatus(txn *badger.Txn) (entity.SaleStatus, error)
	SetSaleStatus(txn *badger.Txn, status entity.SaleStatus) error
	HasPresaleRole(txn *badger.Txn, addr common.Address) (bool, error)
	GrantPresaleRole(txn *badger.Txn, addr common.Address) error
}

type accessRepository struct{}

func NewAccessRepository() AccessRepository {
	return accessRepository{}
}

func presaleRoleKey(addr common.Address) []byte {
	return []byte(fmt.Sprintf("role:presale:%s", addr.Hex()))
}

func (r accessRepository) SaleStatus(txn *badger.Txn) (entity.SaleStatus, error) {
	item, err := txn.Get([]byte(keySaleStatus))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return entity.SaleOff, nil
		}
		return entity.SaleOff, err
	}

	var status entity.SaleStatus
	err = item.Value(func(val []byte) error {
		if len(val) != 1 {
			return errors.New("malformed sale status")
		}
		status = entity.SaleStatus(val[0])
		return nil
	})

	return status, err
}

func (r accessRepository) SetSaleStatus(txn *badger.Txn, status entity.SaleStatus) error {
	return txn.Set([]byte(keySaleStatus), []byte{byte(status)})
}

func (r accessRepository) HasPresaleRole(txn *badger.Txn, addr common.Address) (bool, error) {
	_, err := txn.Get(presaleRoleKey(addr))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (r accessRepository) GrantPresaleRole(txn *badger.Txn, addr common.Address) error {
	return txn.Set(presaleRoleKey(addr), []byte{1})
}

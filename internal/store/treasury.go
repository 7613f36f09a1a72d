package store

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/musee-dezental/frame-core/internal/entity"
	"github.com/shopspring/decimal"
)

const keyTreasury = "treasury"

type TreasuryRepository interface {
	GetTreasury(txn *badger.Txn) (entity.Treasury, error)
	SaveTreasury(txn *badger.Txn, t entity.Treasury) error
	GetOwnerBalance(txn *badger.Txn, owner common.Address) (entity.OwnerBalance, error)
	SaveOwnerBalance(txn *badger.Txn, b entity.OwnerBalance) error
}

type treasuryRepository struct{}

func NewTreasuryRepository() TreasuryRepository {
	return treasuryRepository{}
}

func ownerBalanceKey(owner common.Address) []byte {
	return []byte(fmt.Sprintf("balance:%s", owner.Hex()))
}

func (r treasuryRepository) GetTreasury(txn *badger.Txn) (entity.Treasury, error) {
	var t entity.Treasury
	if err := getJSON(txn, []byte(keyTreasury), &t); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return entity.Treasury{
				Native: decimal.Zero,
				Link:   decimal.Zero,
				Fees:   decimal.Zero,
			}, nil
		}
		return entity.Treasury{}, err
	}

	return t, nil
}

func (r treasuryRepository) SaveTreasury(txn *badger.Txn, t entity.Treasury) error {
	return setJSON(txn, []byte(keyTreasury), t)
}

func (r treasuryRepository) GetOwnerBalance(txn *badger.Txn, owner common.Address) (entity.OwnerBalance, error) {
	var b entity.OwnerBalance
	if err := getJSON(txn, ownerBalanceKey(owner), &b); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return entity.OwnerBalance{Owner: owner, Balance: decimal.Zero}, nil
		}
		return entity.OwnerBalance{}, err
	}

	return b, nil
}

func (r treasuryRepository) SaveOwnerBalance(txn *badger.Txn, b entity.OwnerBalance) error {
	return setJSON(txn, ownerBalanceKey(b.Owner), b)
}

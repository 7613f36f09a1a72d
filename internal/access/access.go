package access

import (
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/musee-dezental/frame-core/internal/entity"
	"github.com/musee-dezental/frame-core/internal/store"
	"go.uber.org/zap"
)

var (
	ErrOnlyOwner      = errors.New("Frame: Only owner")
	ErrNotAllowlisted = errors.New("Frame: Not allowlisted")
)

// Service is the two-tier authorization component: a single administrative
// principal fixed at startup, and a dynamically granted presale allowlist.
type Service interface {
	Admin() common.Address
	RequireAdmin(caller common.Address) error

	SaleStatus() (entity.SaleStatus, error)
	SetSaleStatus(caller common.Address, status entity.SaleStatus) error

	GrantPresaleRole(caller, addr common.Address) error
	HasPresaleRole(addr common.Address) (bool, error)
}

type service struct {
	badger *store.Badger
	repo   store.AccessRepository
	admin  common.Address
}

func NewService(badger *store.Badger, repo store.AccessRepository, admin common.Address) Service {
	return service{badger, repo, admin}
}

func (s service) Admin() common.Address {
	return s.admin
}

func (s service) RequireAdmin(caller common.Address) error {
	if caller != s.admin {
		return ErrOnlyOwner
	}

	return nil
}

func (s service) SaleStatus() (entity.SaleStatus, error) {
	var status entity.SaleStatus
	err := s.badger.View(func(txn *badger.Txn) error {
		var err error
		status, err = s.repo.SaleStatus(txn)
		return err
	})

	return status, err
}

func (s service) SetSaleStatus(caller common.Address, status entity.SaleStatus) error {
	if err := s.RequireAdmin(caller); err != nil {
		return err
	}

	err := s.badger.Update(func(txn *badger.Txn) error {
		return s.repo.SetSaleStatus(txn, status)
	})
	if err != nil {
		return err
	}

	zap.L().With(zap.String("status", status.String())).Info("Access: Sale status updated")

	return nil
}

func (s service) GrantPresaleRole(caller, addr common.Address) error {
	if err := s.RequireAdmin(caller); err != nil {
		return err
	}

	err := s.badger.Update(func(txn *badger.Txn) error {
		return s.repo.GrantPresaleRole(txn, addr)
	})
	if err != nil {
		return err
	}

	zap.L().With(zap.String("address", addr.Hex())).Info("Access: Presale role granted")

	return nil
}

func (s service) HasPresaleRole(addr common.Address) (bool, error) {
	var granted bool
	err := s.badger.View(func(txn *badger.Txn) error {
		var err error
		granted, err = s.repo.HasPresaleRole(txn, addr)
		return err
	})

	return granted, err
}

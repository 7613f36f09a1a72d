package store

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/musee-dezental/frame-core/internal/entity"
)

var (
	ErrRequestNotFound = errors.New("mint request not found")
)

type RequestRepository interface {
	GetRequest(txn *badger.Txn, requestId string) (entity.MintRequest, error)
	SaveRequest(txn *badger.Txn, req entity.MintRequest) error
	DeleteRequest(txn *badger.Txn, requestId string) error
	CountPending(txn *badger.Txn) (int, error)
}

type requestRepository struct{}

func NewRequestRepository() RequestRepository {
	return requestRepository{}
}

func requestKey(requestId string) []byte {
	return []byte(fmt.Sprintf("request:%s", requestId))
}

func (r requestRepository) GetRequest(txn *badger.Txn, requestId string) (entity.MintRequest, error) {
	var req entity.MintRequest
	if err := getJSON(txn, requestKey(requestId), &req); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return entity.MintRequest{}, ErrRequestNotFound
		}
		return entity.MintRequest{}, err
	}

	return req, nil
}

func (r requestRepository) SaveRequest(txn *badger.Txn, req entity.MintRequest) error {
	return setJSON(txn, requestKey(req.Id), req)
}

func (r requestRepository) DeleteRequest(txn *badger.Txn, requestId string) error {
	return txn.Delete(requestKey(requestId))
}

func (r requestRepository) CountPending(txn *badger.Txn) (int, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte("request:")
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	count := 0
	for it.Rewind(); it.Valid(); it.Next() {
		count++
	}

	return count, nil
}

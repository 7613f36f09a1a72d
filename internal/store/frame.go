package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/musee-dezental/frame-core/internal/entity"
)

var (
	ErrFrameNotFound = errors.New("frame not found")
)

type FrameRepository interface {
	GetFrame(txn *badger.Txn, tokenId uint64) (entity.Frame, error)
	GetFramesByOwner(txn *badger.Txn, owner common.Address) ([]entity.Frame, error)
	SaveFrame(txn *badger.Txn, f entity.Frame) error
}

type frameRepository struct{}

func NewFrameRepository() FrameRepository {
	return frameRepository{}
}

func frameKey(tokenId uint64) []byte {
	return []byte(fmt.Sprintf("frame:%020d", tokenId))
}

func (r frameRepository) GetFrame(txn *badger.Txn, tokenId uint64) (entity.Frame, error) {
	var f entity.Frame
	if err := getJSON(txn, frameKey(tokenId), &f); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return entity.Frame{}, ErrFrameNotFound
		}
		return entity.Frame{}, err
	}

	return f, nil
}

func (r frameRepository) GetFramesByOwner(txn *badger.Txn, owner common.Address) ([]entity.Frame, error) {
	frames := make([]entity.Frame, 0)

	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte("frame:")
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		var f entity.Frame
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &f)
		})
		if err != nil {
			return nil, err
		}
		if f.Owner == owner {
			frames = append(frames, f)
		}
	}

	return frames, nil
}

func (r frameRepository) SaveFrame(txn *badger.Txn, f entity.Frame) error {
	return setJSON(txn, frameKey(f.TokenId), f)
}

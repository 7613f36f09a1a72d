package store

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// Badger owns the ledger state. Every operation of the core runs inside a
// single Update transaction, so a failing call leaves no partial effects.
// The mutex serializes writers the way the host ledger serializes calls.
type Badger struct {
	db *badger.DB
	mu sync.Mutex
}

func Open(path string, inMemory bool) (*Badger, error) {
	opts := badger.DefaultOptions(path).WithInMemory(inMemory).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	if !inMemory {
		go gc(db)
	}

	return &Badger{db: db}, nil
}

func gc(db *badger.DB) {
	for {
		lsm, vlog := db.Size()
		if lsm > 1024*1024*8 || vlog > 1024*1024*32 {
			err := db.RunValueLogGC(0.5)
			zap.L().With(zap.Error(err)).Debug("Store: value log GC")
		}
		time.Sleep(5 * time.Minute)
	}
}

func (b *Badger) Close() error {
	return b.db.Close()
}

func (b *Badger) Update(fn func(txn *badger.Txn) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.db.Update(fn)
}

func (b *Badger) View(fn func(txn *badger.Txn) error) error {
	return b.db.View(fn)
}

func getJSON(txn *badger.Txn, key []byte, v interface{}) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}

	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key []byte, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return txn.Set(key, raw)
}

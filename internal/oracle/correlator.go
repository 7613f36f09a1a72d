package oracle

import (
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/musee-dezental/frame-core/internal/entity"
	"github.com/musee-dezental/frame-core/internal/store"
	"github.com/nu7hatch/gouuid"
	"go.uber.org/zap"
)

var (
	// ErrUnknownRequest covers both a request id that was never registered
	// and one that was already consumed, so a fulfillment can never be
	// replayed.
	ErrUnknownRequest = errors.New("unknown oracle request")
)

// Requester is the outbound half of the oracle boundary: it carries a
// registered request to whatever delivers randomness back.
type Requester interface {
	RequestRandomness(req entity.MintRequest) error
}

// Correlator matches oracle fulfillments to the mint calls that raised
// them. Methods are transaction-scoped so the minting engine can fold the
// correlation bookkeeping into its own atomic state change.
type Correlator interface {
	Register(txn *badger.Txn, requester common.Address, category uint8, blockNum uint64) (entity.MintRequest, error)
	Resolve(txn *badger.Txn, requestId string) (entity.MintRequest, error)
	PendingCount() (int, error)
}

type correlator struct {
	badger *store.Badger
	repo   store.RequestRepository
}

func NewCorrelator(badger *store.Badger, repo store.RequestRepository) Correlator {
	return correlator{badger, repo}
}

func (c correlator) Register(txn *badger.Txn, requester common.Address, category uint8, blockNum uint64) (entity.MintRequest, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return entity.MintRequest{}, err
	}

	req := entity.MintRequest{
		Id:        id.String(),
		Requester: requester,
		Category:  category,
		BlockNum:  blockNum,
	}

	if err := c.repo.SaveRequest(txn, req); err != nil {
		return entity.MintRequest{}, err
	}

	return req, nil
}

func (c correlator) Resolve(txn *badger.Txn, requestId string) (entity.MintRequest, error) {
	req, err := c.repo.GetRequest(txn, requestId)
	if err != nil {
		if errors.Is(err, store.ErrRequestNotFound) {
			zap.L().With(zap.String("requestId", requestId)).Warn("Oracle: Unknown or already consumed request")
			return entity.MintRequest{}, ErrUnknownRequest
		}
		return entity.MintRequest{}, err
	}

	if err := c.repo.DeleteRequest(txn, requestId); err != nil {
		return entity.MintRequest{}, err
	}

	return req, nil
}

func (c correlator) PendingCount() (int, error) {
	var count int
	err := c.badger.View(func(txn *badger.Txn) error {
		var err error
		count, err = c.repo.CountPending(txn)
		return err
	})

	return count, err
}

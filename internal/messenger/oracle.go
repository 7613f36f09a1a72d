package messenger

import (
	"encoding/json"

	"github.com/musee-dezental/frame-core/internal/config"
	"github.com/musee-dezental/frame-core/internal/entity"
)

// RandomnessRequest is the outbound oracle message: the correlation token
// plus the key hash and fee the oracle contract expects.
type RandomnessRequest struct {
	RequestId string `json:"requestId"`
	KeyHash   string `json:"keyHash"`
	Fee       string `json:"fee"`
}

// RandomnessFulfillment is the inbound oracle message.
type RandomnessFulfillment struct {
	RequestId string `json:"requestId"`
	Random    string `json:"random"`
}

// OracleDispatcher publishes randomness requests to the oracle queue. It
// implements the minting engine's outbound oracle boundary.
type OracleDispatcher struct {
	svc MessageService
}

func NewOracleDispatcher(svc MessageService) OracleDispatcher {
	return OracleDispatcher{svc: svc}
}

func (d OracleDispatcher) RequestRandomness(req entity.MintRequest) error {
	body, err := json.Marshal(RandomnessRequest{
		RequestId: req.Id,
		KeyHash:   config.Get().Oracle.KeyHash,
		Fee:       config.Get().Oracle.Fee,
	})
	if err != nil {
		return err
	}

	return d.svc.SendMessage(OracleRequest, body)
}

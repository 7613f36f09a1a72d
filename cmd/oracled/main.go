package main

import (
	"crypto/rand"
	"encoding/json"
	"math/big"

	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/musee-dezental/frame-core/internal/config"
	"github.com/musee-dezental/frame-core/internal/config/di"
	"github.com/musee-dezental/frame-core/internal/messenger"
	"go.uber.org/zap"
)

// maxRandom bounds the generated words at 256 bits, matching the width of
// the randomness the fulfillment consumers expect.
var maxRandom = new(big.Int).Lsh(big.NewInt(1), 256)

var messageService messenger.MessageService

func main() {
	config.Init("oracled")

	container, err := di.NewContainer()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}

	messageService = container.Get("messenger").(messenger.MessageService)

	zap.L().Info("Oracled Started")

	pollOracleRequests()
}

func pollOracleRequests() {
	zap.L().Info("Subscribing to oracle requests")
	messages := make(chan *sqs.Message, 10)
	go messageService.PollMessages(messenger.OracleRequest, messages)

	for message := range messages {
		var data messenger.RandomnessRequest
		if err := json.Unmarshal([]byte(*message.Body), &data); err != nil {
			zap.L().With(zap.Error(err)).Error("Failed to read oracle request")
			continue
		}

		random, err := rand.Int(rand.Reader, maxRandom)
		if err != nil {
			zap.L().With(zap.Error(err), zap.String("requestId", data.RequestId)).Error("Failed to generate randomness")
			continue
		}

		body, err := json.Marshal(messenger.RandomnessFulfillment{
			RequestId: data.RequestId,
			Random:    random.String(),
		})
		if err != nil {
			zap.L().With(zap.Error(err), zap.String("requestId", data.RequestId)).Error("Failed to encode fulfillment")
			continue
		}

		if err := messageService.SendMessage(messenger.OracleFulfill, body); err != nil {
			zap.L().With(zap.Error(err), zap.String("requestId", data.RequestId)).Error("Failed to publish fulfillment")
			continue
		}

		zap.L().With(zap.String("requestId", data.RequestId)).Info("Oracle request fulfilled")

		if err := messageService.DeleteMessage(messenger.OracleRequest, message); err != nil {
			zap.L().With(zap.Error(err)).Error("Failed to delete oracle request")
		}
	}
}

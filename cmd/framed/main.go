package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/gorilla/mux"
	"github.com/musee-dezental/frame-core/internal/api"
	"github.com/musee-dezental/frame-core/internal/archive"
	"github.com/musee-dezental/frame-core/internal/config"
	"github.com/musee-dezental/frame-core/internal/config/di"
	"github.com/musee-dezental/frame-core/internal/dev"
	"github.com/musee-dezental/frame-core/internal/event"
	"github.com/musee-dezental/frame-core/internal/messenger"
	"github.com/musee-dezental/frame-core/internal/minting"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	archiveIndex   archive.Index
	messageService messenger.MessageService
	mintingEngine  minting.Engine
	apiServer      api.Server
)

func main() {
	config.Init("framed")

	container, err := di.NewContainer()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}

	archiveIndex = container.Get("archive").(archive.Index)
	messageService = container.Get("messenger").(messenger.MessageService)
	mintingEngine = container.Get("minting").(minting.Engine)
	apiServer = container.Get("api").(api.Server)

	archiveIndex.InstallMappings()

	event.AddEventListener(event.MintRequestedEvent, archiveIndex.Listener(archive.MintRequestIndex))
	event.AddEventListener(event.MintFulfilledEvent, archiveIndex.Listener(archive.MintFulfilledIndex))
	event.AddEventListener(event.ExhibitSetEvent, archiveIndex.Listener(archive.ExhibitIndex))
	event.AddEventListener(event.RenterSetEvent, archiveIndex.Listener(archive.RentalIndex))
	event.AddEventListener(event.RentalFeeCollectedEvent, archiveIndex.Listener(archive.RentalIndex))
	event.AddEventListener(event.EtherWithdrawnEvent, archiveIndex.Listener(archive.WithdrawalIndex))
	event.AddEventListener(event.LinkWithdrawnEvent, archiveIndex.Listener(archive.WithdrawalIndex))

	go pollOracleFulfillments()
	go serveApi()

	zap.L().With(
		zap.String("apiPort", config.Get().ApiPort),
		zap.String("healthPort", config.Get().HealthPort),
	).Info("Framed Started")

	if err := http.ListenAndServe(":"+config.Get().HealthPort, healthRouter()); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to start framed")
	}
}

func pollOracleFulfillments() {
	zap.L().Info("Subscribing to oracle fulfillments")
	messages := make(chan *sqs.Message, 10)
	go messageService.PollMessages(messenger.OracleFulfill, messages)

	for message := range messages {
		var data messenger.RandomnessFulfillment
		if err := json.Unmarshal([]byte(*message.Body), &data); err != nil {
			zap.L().With(zap.Error(err)).Error("Failed to read oracle message")
			continue
		}

		random, err := decimal.NewFromString(data.Random)
		if err != nil {
			zap.L().With(zap.Error(err), zap.String("requestId", data.RequestId)).Error("Invalid oracle randomness")
			continue
		}

		frame, err := mintingEngine.Fulfill(data.RequestId, random)
		if err != nil {
			zap.L().With(zap.Error(err), zap.String("requestId", data.RequestId)).Error("Mint fulfillment failed")
			archiveIndex.AddIndexRequest(archive.AuditErrorIndex.Get(), dev.NewError("minting", "fulfill", err, map[string]interface{}{
				"requestId": data.RequestId,
			}))
			archiveIndex.BatchPersist()
		} else {
			zap.L().With(
				zap.String("requestId", data.RequestId),
				zap.Uint64("tokenId", frame.TokenId),
			).Info("Mint fulfillment success")
		}

		if err := messageService.DeleteMessage(messenger.OracleFulfill, message); err != nil {
			zap.L().With(zap.Error(err)).Error("Failed to delete oracle message")
		}
	}
}

func serveApi() {
	if err := http.ListenAndServe(":"+config.Get().ApiPort, apiServer.Router()); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to start api")
	}
}

func healthRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, "OK")
	}).Methods("GET")

	return r
}

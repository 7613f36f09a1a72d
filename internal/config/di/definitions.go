package di

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/musee-dezental/frame-core/internal/access"
	"github.com/musee-dezental/frame-core/internal/api"
	"github.com/musee-dezental/frame-core/internal/archive"
	"github.com/musee-dezental/frame-core/internal/collectible"
	"github.com/musee-dezental/frame-core/internal/config"
	"github.com/musee-dezental/frame-core/internal/exhibit"
	"github.com/musee-dezental/frame-core/internal/inventory"
	"github.com/musee-dezental/frame-core/internal/ledger"
	"github.com/musee-dezental/frame-core/internal/messenger"
	"github.com/musee-dezental/frame-core/internal/metadata"
	"github.com/musee-dezental/frame-core/internal/minting"
	"github.com/musee-dezental/frame-core/internal/oracle"
	"github.com/musee-dezental/frame-core/internal/rental"
	"github.com/musee-dezental/frame-core/internal/store"
	"github.com/musee-dezental/frame-core/internal/treasury"
	"github.com/sarulabs/di/v2"
	"go.uber.org/zap"
)

var Definitions = []di.Def{
	{
		Name: "badger",
		Build: func(ctn di.Container) (interface{}, error) {
			b, err := store.Open(config.Get().Store.Path, config.Get().Store.InMemory)
			if err != nil {
				zap.L().With(zap.Error(err)).Fatal("Failed to open ledger store")
			}

			return b, nil
		},
	},
	{
		Name: "archive",
		Build: func(ctn di.Container) (interface{}, error) {
			idx, err := archive.New()
			if err != nil {
				zap.L().With(zap.Error(err)).Fatal("Failed to start archive")
			}

			return idx, nil
		},
	},
	{
		Name: "clock",
		Build: func(ctn di.Container) (interface{}, error) {
			interval := time.Duration(config.Get().BlockIntervalMs) * time.Millisecond
			return ledger.NewTickingClock(interval), nil
		},
	},
	{
		Name: "messenger",
		Build: func(ctn di.Container) (interface{}, error) {
			sess, err := session.NewSession(&aws.Config{
				Region:      aws.String(config.Get().Aws.Region),
				Credentials: credentials.NewStaticCredentials(config.Get().Aws.AccessKey, config.Get().Aws.SecretKey, ""),
			})
			if err != nil {
				zap.L().With(zap.Error(err)).Fatal("Failed to create aws session")
			}

			return messenger.NewMessenger(sqs.New(sess)), nil
		},
	},
	{
		Name: "oracle.dispatcher",
		Build: func(ctn di.Container) (interface{}, error) {
			return messenger.NewOracleDispatcher(ctn.Get("messenger").(messenger.MessageService)), nil
		},
	},
	{
		Name: "frame.repo",
		Build: func(ctn di.Container) (interface{}, error) {
			return store.NewFrameRepository(), nil
		},
	},
	{
		Name: "category.repo",
		Build: func(ctn di.Container) (interface{}, error) {
			return store.NewCategoryRepository(), nil
		},
	},
	{
		Name: "request.repo",
		Build: func(ctn di.Container) (interface{}, error) {
			return store.NewRequestRepository(), nil
		},
	},
	{
		Name: "access.repo",
		Build: func(ctn di.Container) (interface{}, error) {
			return store.NewAccessRepository(), nil
		},
	},
	{
		Name: "treasury.repo",
		Build: func(ctn di.Container) (interface{}, error) {
			return store.NewTreasuryRepository(), nil
		},
	},
	{
		Name: "access",
		Build: func(ctn di.Container) (interface{}, error) {
			return access.NewService(
				ctn.Get("badger").(*store.Badger),
				ctn.Get("access.repo").(store.AccessRepository),
				config.Get().AdminAddress,
			), nil
		},
	},
	{
		Name: "inventory",
		Build: func(ctn di.Container) (interface{}, error) {
			return inventory.NewService(
				ctn.Get("badger").(*store.Badger),
				ctn.Get("category.repo").(store.CategoryRepository),
				ctn.Get("access").(access.Service),
			), nil
		},
	},
	{
		Name: "oracle.correlator",
		Build: func(ctn di.Container) (interface{}, error) {
			return oracle.NewCorrelator(
				ctn.Get("badger").(*store.Badger),
				ctn.Get("request.repo").(store.RequestRepository),
			), nil
		},
	},
	{
		Name: "treasury",
		Build: func(ctn di.Container) (interface{}, error) {
			return treasury.NewService(
				ctn.Get("badger").(*store.Badger),
				ctn.Get("treasury.repo").(store.TreasuryRepository),
				ctn.Get("access").(access.Service),
				treasury.NewLogTransferor(),
			), nil
		},
	},
	{
		Name: "collectible.resolver",
		Build: func(ctn di.Container) (interface{}, error) {
			return collectible.NewRegistry(), nil
		},
	},
	{
		Name: "minting",
		Build: func(ctn di.Container) (interface{}, error) {
			return minting.NewEngine(
				ctn.Get("badger").(*store.Badger),
				ctn.Get("category.repo").(store.CategoryRepository),
				ctn.Get("frame.repo").(store.FrameRepository),
				ctn.Get("access.repo").(store.AccessRepository),
				ctn.Get("access").(access.Service),
				ctn.Get("oracle.correlator").(oracle.Correlator),
				ctn.Get("oracle.dispatcher").(messenger.OracleDispatcher),
				ctn.Get("treasury").(treasury.Service),
				ctn.Get("clock").(ledger.Clock),
			), nil
		},
	},
	{
		Name: "rental",
		Build: func(ctn di.Container) (interface{}, error) {
			return rental.NewMarket(
				ctn.Get("badger").(*store.Badger),
				ctn.Get("frame.repo").(store.FrameRepository),
				ctn.Get("treasury").(treasury.Service),
				ctn.Get("clock").(ledger.Clock),
				config.Get().RentalFeeNumerator,
				config.Get().RentalFeeDenominator,
			), nil
		},
	},
	{
		Name: "exhibit",
		Build: func(ctn di.Container) (interface{}, error) {
			return exhibit.NewRegistry(
				ctn.Get("badger").(*store.Badger),
				ctn.Get("frame.repo").(store.FrameRepository),
				ctn.Get("collectible.resolver").(collectible.Resolver),
				ctn.Get("clock").(ledger.Clock),
			), nil
		},
	},
	{
		Name: "metadata",
		Build: func(ctn di.Container) (interface{}, error) {
			client := retryablehttp.NewClient()
			client.Logger = nil
			client.RetryMax = 3

			return metadata.NewMetadataService(client), nil
		},
	},
	{
		Name: "api",
		Build: func(ctn di.Container) (interface{}, error) {
			return api.NewServer(
				ctn.Get("badger").(*store.Badger),
				ctn.Get("frame.repo").(store.FrameRepository),
				ctn.Get("inventory").(inventory.Service),
				ctn.Get("rental").(rental.Market),
				ctn.Get("exhibit").(exhibit.Registry),
				ctn.Get("metadata").(metadata.Service),
				ctn.Get("treasury").(treasury.Service),
			), nil
		},
	},
}

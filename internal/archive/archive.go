package archive

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws/credentials"
	v4 "github.com/aws/aws-sdk-go/aws/signer/v4"
	"github.com/musee-dezental/frame-core/internal/config"
	"github.com/musee-dezental/frame-core/internal/entity"
	"github.com/olivere/elastic/v7"
	"github.com/patrickmn/go-cache"
	"github.com/sha1sum/aws_signing_client"
	"go.uber.org/zap"
)

// Index is the audit archive: every emitted event and oracle payload is
// bulk-persisted for provenance and investigation. It is a write-behind
// sink, never a source of ledger truth.
type Index interface {
	GetClient() *elastic.Client

	InstallMappings()

	AddIndexRequest(index string, entity entity.Entity)
	GetRequests() []Request
	ClearRequests()

	BatchPersist() bool
	Persist() int

	Listener(index Indices) func(msg interface{})
}

type index struct {
	client  *elastic.Client
	cache   *cache.Cache
	refresh string
}

type Request struct {
	Index  string
	Entity entity.Entity
}

const defaultMapping = `{"settings":{"number_of_shards":1},"mappings":{"dynamic":true}}`

func New() (Index, error) {
	client, err := newClient()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Archive: Failed to create client")
	}

	return index{client, cache.New(5*time.Minute, 10*time.Minute), config.Get().ElasticSearch.Refresh}, err
}

func newClient() (*elastic.Client, error) {
	opts := []elastic.ClientOptionFunc{
		elastic.SetURL(strings.Join(config.Get().ElasticSearch.Hosts, ",")),
		elastic.SetSniff(config.Get().ElasticSearch.Sniff),
		elastic.SetHealthcheck(config.Get().ElasticSearch.HealthCheck),
	}

	if config.Get().ElasticSearch.Username != "" {
		opts = append(opts, elastic.SetBasicAuth(
			config.Get().ElasticSearch.Username,
			config.Get().ElasticSearch.Password,
		))
	}

	if config.Get().Aws.AccessKey != "" {
		creds := credentials.NewStaticCredentials(config.Get().Aws.AccessKey, config.Get().Aws.SecretKey, "")
		signer := v4.NewSigner(creds)
		awsClient, err := aws_signing_client.New(signer, nil, "es", config.Get().Aws.Region)
		if err != nil {
			return nil, err
		}
		opts = append(opts, elastic.SetHttpClient(awsClient), elastic.SetScheme("https"))
	} else {
		opts = append(opts, elastic.SetHttpClient(http.DefaultClient))
	}

	return elastic.NewClient(opts...)
}

func (i index) GetClient() *elastic.Client {
	return i.client
}

func (i index) InstallMappings() {
	zap.L().Info("Archive: Install mappings")

	for _, idx := range []Indices{MintRequestIndex, MintFulfilledIndex, ExhibitIndex, RentalIndex, WithdrawalIndex, AuditErrorIndex} {
		if err := i.createIndex(idx.Get()); err != nil {
			zap.S().With(zap.Error(err)).Fatalf("Archive: Failed to create index %s", idx.Get())
		}
	}
}

func (i index) createIndex(name string) error {
	ctx := context.Background()

	exists, err := i.client.IndexExists(name).Do(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	created, err := i.client.CreateIndex(name).BodyString(defaultMapping).Do(ctx)
	if err != nil {
		return err
	}
	if created.Acknowledged {
		zap.S().Infof("Archive: Created index %s", name)
	}

	return nil
}

func (i index) AddIndexRequest(index string, entity entity.Entity) {
	zap.L().With(
		zap.String("index", index),
		zap.String("slug", entity.Slug()),
	).Debug("Archive: AddIndexRequest")

	i.cache.Set(entity.Slug(), Request{index, entity}, cache.DefaultExpiration)
}

func (i index) GetRequests() []Request {
	requests := make([]Request, 0)
	for _, item := range i.cache.Items() {
		requests = append(requests, item.Object.(Request))
	}

	return requests
}

func (i index) ClearRequests() {
	i.cache.Flush()
}

func (i index) BatchPersist() bool {
	if len(i.GetRequests()) < config.Get().ElasticSearch.BulkPersistCount {
		return false
	}

	start := time.Now()
	actions := i.Persist()

	zap.L().With(
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("actions", actions),
	).Info("Archive: Persisting data")

	return true
}

func (i index) Persist() int {
	bulk := i.client.Bulk()
	persisted := 0

	for _, r := range i.GetRequests() {
		bulk.Add(elastic.NewBulkIndexRequest().Index(r.Index).Id(r.Entity.Slug()).Doc(r.Entity))
		persisted++

		if bulk.NumberOfActions() >= config.Get().ElasticSearch.BulkPersistCount {
			i.persist(bulk)
			bulk = i.client.Bulk()
		}
	}

	if bulk.NumberOfActions() != 0 {
		i.persist(bulk)
	}
	i.ClearRequests()

	return persisted
}

func (i index) persist(bulk *elastic.BulkService) {
	zap.S().Debugf("Archive: Persisting %d actions", bulk.NumberOfActions())

	_, err := bulk.Refresh(i.refresh).Do(context.Background())
	if err != nil {
		zap.L().With(zap.Error(err)).Error("Archive: Failed to persist requests")
	}
}

// Listener adapts an index into an event-manager callback.
func (i index) Listener(idx Indices) func(msg interface{}) {
	return func(msg interface{}) {
		e, ok := msg.(entity.Entity)
		if !ok {
			zap.L().Warn("Archive: Dropping non-entity event payload")
			return
		}

		i.AddIndexRequest(idx.Get(), e)
		i.BatchPersist()
	}
}

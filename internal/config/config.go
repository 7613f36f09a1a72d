package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/musee-dezental/frame-core/internal/log"
	"go.uber.org/zap"
)

type Config struct {
	Env       string
	Network   string
	Index     string
	Debug     bool
	LogPath   string
	SentryDsn string

	AdminAddress common.Address

	RentalFeeNumerator   int64
	RentalFeeDenominator int64

	BlockIntervalMs int

	IpfsHosts   []string
	IpfsTimeout int

	ApiPort    string
	HealthPort string

	Oracle        OracleConfig
	Store         StoreConfig
	ElasticSearch ElasticSearchConfig
	Aws           AwsConfig
}

type OracleConfig struct {
	KeyHash      string
	Fee          string
	RequestQueue string
	FulfillQueue string
}

type StoreConfig struct {
	Path     string
	InMemory bool
}

type ElasticSearchConfig struct {
	Hosts            []string
	Sniff            bool
	HealthCheck      bool
	Debug            bool
	Username         string
	Password         string
	BulkPersistCount int
	Refresh          string
}

type AwsConfig struct {
	AccessKey string
	SecretKey string
	Region    string
	QueueUrl  string
}

var ipfsHosts = []string{
	"https://gateway.pinata.cloud",
	"https://cloudflare-ipfs.com",
	"https://gateway.ipfs.io",
}

func Init(app string) {
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().With(zap.Error(err)).Warn("Unable to load .env, using environment")
	}

	initLogger(app)
}

func initLogger(app string) {
	log.NewLogger(
		getString("LOG_PATH", fmt.Sprintf("./var/%s.log", app)),
		Get().Debug,
		Get().SentryDsn,
	)
}

func Get() *Config {
	return &Config{
		Env:       getString("ENV", ""),
		Network:   getString("NETWORK", "rinkeby"),
		Index:     getString("INDEX_NAME", "frame"),
		Debug:     getBool("DEBUG", false),
		LogPath:   getString("LOG_PATH", "./var/frame.log"),
		SentryDsn: getString("SENTRY_DSN", ""),

		AdminAddress: common.HexToAddress(getString("ADMIN_ADDRESS", "")),

		RentalFeeNumerator:   int64(getInt("RENTAL_FEE_NUMERATOR", 500)),
		RentalFeeDenominator: int64(getInt("RENTAL_FEE_DENOMINATOR", 10000)),

		BlockIntervalMs: getInt("BLOCK_INTERVAL_MS", 15000),

		IpfsHosts:   getSlice("IPFS_HOSTS", ipfsHosts, ","),
		IpfsTimeout: getInt("IPFS_TIMEOUT", 10),

		ApiPort:    getString("API_PORT", "8080"),
		HealthPort: getString("HEALTH_PORT", "8081"),

		Oracle: OracleConfig{
			KeyHash:      getString("ORACLE_KEY_HASH", ""),
			Fee:          getString("ORACLE_FEE", "0.1"),
			RequestQueue: getString("ORACLE_REQUEST_QUEUE", "oracle.request"),
			FulfillQueue: getString("ORACLE_FULFILL_QUEUE", "oracle.fulfill"),
		},
		Store: StoreConfig{
			Path:     getString("STORE_PATH", "./var/store"),
			InMemory: getBool("STORE_IN_MEMORY", false),
		},
		ElasticSearch: ElasticSearchConfig{
			Hosts:            getSlice("ELASTIC_SEARCH_HOSTS", make([]string, 0), ","),
			Sniff:            getBool("ELASTIC_SEARCH_SNIFF", true),
			HealthCheck:      getBool("ELASTIC_SEARCH_HEALTH_CHECK", true),
			Debug:            getBool("ELASTIC_SEARCH_DEBUG", false),
			Username:         getString("ELASTIC_SEARCH_USERNAME", ""),
			Password:         getString("ELASTIC_SEARCH_PASSWORD", ""),
			BulkPersistCount: getInt("ELASTIC_SEARCH_BULK_PERSIST_COUNT", 300),
			Refresh:          getString("ELASTIC_SEARCH_REFRESH", "wait_for"),
		},
		Aws: AwsConfig{
			AccessKey: getString("AWS_ACCESS_KEY_ID", ""),
			SecretKey: getString("AWS_SECRET_KEY_ID", ""),
			Region:    getString("AWS_REGION", ""),
			QueueUrl:  getString("AWS_QUEUE_URL", ""),
		},
	}
}

func getString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func getInt(key string, defaultValue int) int {
	valStr := getString(key, "")
	val, _, err := big.ParseFloat(valStr, 10, 0, big.ToNearestEven)
	if err != nil {
		return defaultValue
	}

	intVal, _ := val.Int64()
	return int(intVal)
}

func getBool(key string, defaultValue bool) bool {
	valStr := getString(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultValue
}

func getSlice(key string, defaultVal []string, sep string) []string {
	valStr := getString(key, "")
	if valStr == "" {
		return defaultVal
	}

	return strings.Split(valStr, sep)
}

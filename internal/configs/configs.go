package configs

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPAddr  string `env:"HTTP_ADDR" envDefault:":8081"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	DatabaseURL     string `env:"DATABASE_URL" envDefault:""`
	PostgresHost    string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort    string `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser    string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPass    string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresDB      string `env:"POSTGRES_DB" envDefault:"orders"`
	PostgresSSLMode string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:""`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	KafkaBrokers      string `env:"KAFKA_BROKERS" envDefault:""`
	KafkaWebhookTopic string `env:"KAFKA_WEBHOOK_TOPIC" envDefault:"books-webhooks"`
	KafkaDLQTopic     string `env:"KAFKA_DLQ_TOPIC" envDefault:"books-webhooks-dlq"`
	KafkaEventsTopic  string `env:"KAFKA_EVENTS_TOPIC" envDefault:"sync-events"`
	KafkaGroupID      string `env:"KAFKA_GROUP_ID" envDefault:"oms-books-sync"`
	KafkaMaxRetries   int    `env:"KAFKA_MAX_RETRIES" envDefault:"5"`

	WebhookPayloadPath string `env:"WEBHOOK_PAYLOAD_PATH" envDefault:"web/webhook.json"`

	OMSAPIURL            string        `env:"OMS_API_URL" envDefault:"https://eu-ext.linnworks.net/api"`
	OMSAuthURL           string        `env:"OMS_AUTH_URL" envDefault:"https://api.linnworks.net/api"`
	OMSApplicationID     string        `env:"OMS_APPLICATION_ID"`
	OMSApplicationSecret string        `env:"OMS_APPLICATION_SECRET"`
	OMSInstallToken      string        `env:"OMS_INSTALLATION_TOKEN"`
	OMSLocationID        string        `env:"OMS_LOCATION_ID" envDefault:"00000000-0000-0000-0000-000000000000"`
	OMSMaxRetries        int           `env:"OMS_MAX_RETRIES" envDefault:"3"`
	OMSTimeout           time.Duration `env:"OMS_TIMEOUT" envDefault:"30s"`
	OMSRateLimitRPM      int           `env:"OMS_RATE_LIMIT_RPM" envDefault:"150"`
	OMSRateLimitConc     int           `env:"OMS_RATE_LIMIT_CONCURRENCY" envDefault:"4"`

	BooksAPIURL           string        `env:"BOOKS_API_URL" envDefault:"https://www.zohoapis.eu/books/v3"`
	BooksTokenURL         string        `env:"BOOKS_TOKEN_URL" envDefault:"https://accounts.zoho.eu/oauth/v2/token"`
	BooksOrganizationID   string        `env:"BOOKS_ORGANIZATION_ID"`
	BooksClientID         string        `env:"BOOKS_CLIENT_ID"`
	BooksClientSecret     string        `env:"BOOKS_CLIENT_SECRET"`
	BooksRefreshToken     string        `env:"BOOKS_REFRESH_TOKEN"`
	BooksMaxRetries       int           `env:"BOOKS_MAX_RETRIES" envDefault:"2"`
	BooksTimeout          time.Duration `env:"BOOKS_TIMEOUT" envDefault:"30s"`
	BooksRateLimitRPM     int           `env:"BOOKS_RATE_LIMIT_RPM" envDefault:"80"`
	BooksRateLimitConc    int           `env:"BOOKS_RATE_LIMIT_CONCURRENCY" envDefault:"2"`
	BooksTargetWarehouses []string      `env:"BOOKS_TARGET_WAREHOUSES" envSeparator:"," envDefault:"347732000000070863,347732000000070865"`

	PollInterval          time.Duration `env:"POLL_INTERVAL" envDefault:"30s"`
	SyncInterval          time.Duration `env:"SYNC_INTERVAL" envDefault:"1m"`
	InventorySyncInterval time.Duration `env:"INVENTORY_SYNC_INTERVAL" envDefault:"0s"`
	BatchSize             int           `env:"BATCH_SIZE" envDefault:"50"`
	ItemDetailsBatchSize  int           `env:"ITEM_DETAILS_BATCH_SIZE" envDefault:"50"`
	SyncMaxRetries        int           `env:"SYNC_MAX_RETRIES" envDefault:"5"`
	SyncOrderDelay        time.Duration `env:"SYNC_ORDER_DELAY" envDefault:"1s"`
	SyncStepDelay         time.Duration `env:"SYNC_STEP_DELAY" envDefault:"500ms"`
	InventoryPageSize     int           `env:"INVENTORY_PAGE_SIZE" envDefault:"200"`
	InventoryPushBatch    int           `env:"INVENTORY_PUSH_BATCH" envDefault:"50"`
	SalesOrderRefPrefix   string        `env:"SALES_ORDER_REF_PREFIX" envDefault:"OMS-"`

	TokenRefreshBuffer time.Duration `env:"TOKEN_REFRESH_BUFFER" envDefault:"5m"`
	TokenMinTTL        time.Duration `env:"TOKEN_MIN_TTL" envDefault:"60s"`
}

func LoadConfig(_ string) (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, errors.Wrap(err, "config parse")
	}
	return c, nil
}

// Validate reports missing credentials and nonsensical limits. A failure here is fatal at startup.
func (c Config) Validate() error {
	var missing []string
	for name, v := range map[string]string{
		"OMS_APPLICATION_ID":     c.OMSApplicationID,
		"OMS_APPLICATION_SECRET": c.OMSApplicationSecret,
		"OMS_INSTALLATION_TOKEN": c.OMSInstallToken,
		"BOOKS_ORGANIZATION_ID":  c.BooksOrganizationID,
		"BOOKS_CLIENT_ID":        c.BooksClientID,
		"BOOKS_CLIENT_SECRET":    c.BooksClientSecret,
		"BOOKS_REFRESH_TOKEN":    c.BooksRefreshToken,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return errors.Errorf("missing credentials: %s", strings.Join(missing, ", "))
	}
	if c.BatchSize <= 0 || c.ItemDetailsBatchSize <= 0 {
		return errors.New("batch sizes must be positive")
	}
	if c.OMSRateLimitRPM <= 0 || c.BooksRateLimitRPM <= 0 {
		return errors.New("rate limits must be positive")
	}
	if len(c.TargetWarehouses()) == 0 {
		return errors.New("BOOKS_TARGET_WAREHOUSES is empty")
	}
	return nil
}

func (c Config) KafkaBrokersSlice() []string {
	return splitTrim(c.KafkaBrokers)
}

func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokersSlice()) > 0
}

func (c Config) TargetWarehouses() []string {
	out := make([]string, 0, len(c.BooksTargetWarehouses))
	for _, w := range c.BooksTargetWarehouses {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

func (c Config) PgDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser,
		c.PostgresPass,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
		c.PostgresSSLMode,
	)
}

// ConfigureLogger applies LOG_LEVEL and LOG_FORMAT to the global logrus logger.
func (c Config) ConfigureLogger() {
	logrus.SetLevel(ParseLogLevel(c.LogLevel))
	if strings.EqualFold(c.LogFormat, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func ParseLogLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent":
		return logrus.PanicLevel
	case "verbose":
		return logrus.DebugLevel
	}
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func splitTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

package configs_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"oms-books-sync/internal/configs"
)

func validConfig() configs.Config {
	return configs.Config{
		OMSApplicationID:      "app",
		OMSApplicationSecret:  "secret",
		OMSInstallToken:       "install",
		BooksOrganizationID:   "org",
		BooksClientID:         "client",
		BooksClientSecret:     "client-secret",
		BooksRefreshToken:     "refresh",
		BatchSize:             50,
		ItemDetailsBatchSize:  50,
		OMSRateLimitRPM:       150,
		BooksRateLimitRPM:     80,
		BooksTargetWarehouses: []string{"wh-1"},
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("BOOKS_TARGET_WAREHOUSES", " wh-1 , ,wh-2")
	t.Setenv("KAFKA_BROKERS", "")

	c, err := configs.LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, ":8081", c.HTTPAddr)
	require.Equal(t, 50, c.BatchSize)
	require.Equal(t, []string{"wh-1", "wh-2"}, c.TargetWarehouses())
	require.False(t, c.KafkaEnabled())
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	c := validConfig()
	c.BooksClientSecret = " "
	c.OMSInstallToken = ""
	err := c.Validate()
	require.EqualError(t, err, "missing credentials: BOOKS_CLIENT_SECRET, OMS_INSTALLATION_TOKEN")

	c = validConfig()
	c.BatchSize = 0
	require.Error(t, c.Validate())

	c = validConfig()
	c.BooksTargetWarehouses = []string{" "}
	require.Error(t, c.Validate())
}

func TestPgDSN(t *testing.T) {
	c := configs.Config{
		PostgresUser:    "u",
		PostgresPass:    "p",
		PostgresHost:    "db",
		PostgresPort:    "5432",
		PostgresDB:      "orders",
		PostgresSSLMode: "disable",
	}
	require.Equal(t, "postgres://u:p@db:5432/orders?sslmode=disable", c.PgDSN())

	c.DatabaseURL = "postgres://override"
	require.Equal(t, "postgres://override", c.PgDSN())
}

func TestKafkaBrokersSlice(t *testing.T) {
	c := configs.Config{KafkaBrokers: "k1:9092, k2:9092,"}
	require.Equal(t, []string{"k1:9092", "k2:9092"}, c.KafkaBrokersSlice())
	require.True(t, c.KafkaEnabled())
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"WARN":    logrus.WarnLevel,
		"verbose": logrus.DebugLevel,
		"silent":  logrus.PanicLevel,
		"nope":    logrus.InfoLevel,
		"":        logrus.InfoLevel,
	}
	for in, want := range cases {
		require.Equal(t, want, configs.ParseLogLevel(in), in)
	}
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "prod")
	for _, key := range []string{"SERVER_PORT", "STORE_DRIVER", "ACCESS_TOKEN_TTL", "PAYMENT_CURRENCY", "KAFKA_BROKER", "KAFKA_TOPIC"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, ":5000", cfg.ServerPort)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, "usd", cfg.PaymentCurrency)
	assert.Equal(t, "laptop-zone.events", cfg.KafkaTopic)
	assert.False(t, cfg.KafkaEnabled())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("ACCESS_TOKEN_TTL", "2h")
	t.Setenv("PAYMENT_CURRENCY", "BDT")
	t.Setenv("KAFKA_BROKER", "localhost:9092")

	cfg := LoadConfig()
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, 2*time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, "bdt", cfg.PaymentCurrency)
	assert.True(t, cfg.KafkaEnabled())
}

func TestInvalidTTLFallsBack(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "soon")
	assert.Equal(t, time.Minute, getDuration("ACCESS_TOKEN_TTL", time.Minute))
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"missing secret", Config{StoreDriver: StoreMemory}, false},
		{"memory", Config{AccessSecret: "s", StoreDriver: StoreMemory}, true},
		{"postgres without dsn", Config{AccessSecret: "s", StoreDriver: StorePostgres}, false},
		{"postgres", Config{AccessSecret: "s", StoreDriver: StorePostgres, DatabaseDSN: "postgres://x"}, true},
		{"mongo without uri", Config{AccessSecret: "s", StoreDriver: StoreMongo}, false},
		{"unknown driver", Config{AccessSecret: "s", StoreDriver: "sqlite"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

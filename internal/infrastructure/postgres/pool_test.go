package postgres

import (
	"context"
	"net"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/pkg/config"
)

func TestNewPoolConfig_TomaLimitesDeLaConfiguracion(t *testing.T) {
	cfg := config.DBConfig{
		Host: "db", Port: 5432, User: "ledger", Password: "secret", DBName: "stock", SSLMode: "disable",
		MaxConns: 40, MinConns: 4,
		MaxConnLifetime: 2 * time.Hour, MaxConnIdleTime: 5 * time.Minute, HealthCheckPeriod: 15 * time.Second,
	}

	pc, err := newPoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(40), pc.MaxConns)
	assert.Equal(t, int32(4), pc.MinConns)
	assert.Equal(t, 2*time.Hour, pc.MaxConnLifetime)
	assert.Equal(t, 5*time.Minute, pc.MaxConnIdleTime)
	assert.Equal(t, 15*time.Second, pc.HealthCheckPeriod)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.NotNil(t, pc.AfterConnect)
}

func TestNewPoolConfig_DialIPv4SoloSiSePide(t *testing.T) {
	base := config.DBConfig{DatabaseURL: "postgres://ledger:secret@db:5432/stock?sslmode=disable"}

	plain, err := newPoolConfig(base)
	require.NoError(t, err)

	base.PreferIPv4 = true
	forced, err := newPoolConfig(base)
	require.NoError(t, err)

	ipv4Dial := reflect.ValueOf(dialIPv4).Pointer()
	assert.NotEqual(t, ipv4Dial, reflect.ValueOf(plain.ConnConfig.DialFunc).Pointer())
	assert.Equal(t, ipv4Dial, reflect.ValueOf(forced.ConnConfig.DialFunc).Pointer())
}

func TestNewPoolConfig_URLInvalida(t *testing.T) {
	_, err := newPoolConfig(config.DBConfig{DatabaseURL: "postgres://%zz"})
	assert.Error(t, err)
}

func TestLookupIPv4_Literales(t *testing.T) {
	ip, err := lookupIPv4(context.Background(), net.DefaultResolver, "10.0.0.7")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7", ip)

	_, err = lookupIPv4(context.Background(), net.DefaultResolver, "::1")
	assert.Error(t, err)
}

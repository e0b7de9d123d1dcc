package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandapam/portal/internal/config"
)

func TestNewRedis_WrongType(t *testing.T) {
	_, err := NewRedis(config.Cache{Type: "memcached"})
	require.ErrorIs(t, err, ErrWrongType)
}

func TestOptionsFromConfig(t *testing.T) {
	var cfg config.Cache
	cfg.Redis.Address = "localhost:6379"
	cfg.Redis.Password = "secret"
	cfg.Redis.PoolSize = 70
	cfg.RedisCluster.Addresses = []string{"10.0.0.1:7000", "10.0.0.2:7001"}
	cfg.RedisCluster.PoolSize = 30

	single := singleOptions(cfg)
	assert.Equal(t, "localhost:6379", single.Addr)
	assert.Equal(t, "secret", single.Password)
	assert.Equal(t, 70, single.PoolSize)

	cluster := clusterOptions(cfg)
	assert.Equal(t, []string{"10.0.0.1:7000", "10.0.0.2:7001"}, cluster.Addrs)
	assert.Equal(t, 30, cluster.PoolSize)
}

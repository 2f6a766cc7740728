package cache

import (
	"context"
	"encoding/json"

	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// MemoryCache implementa a interface Cache usando armazenamento em memória
type MemoryCache struct {
	cache  *gocache.Cache
	logger *zap.Logger
}

// NewMemoryCache cria uma nova instância de MemoryCache
func NewMemoryCache(defaultExpiration, cleanupInterval time.Duration, logger *zap.Logger) *MemoryCache {
	return &MemoryCache{
		cache:  gocache.New(defaultExpiration, cleanupInterval),
		logger: logger,
	}
}

// Set armazena um valor no cache. Os valores são serializados em JSON para
// manter a semântica de cópia do cache Redis.
func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Error("falha ao serializar valor para o cache",
			zap.String("key", key),
			zap.Error(err))
		return err
	}

	c.cache.Set(key, data, expiration)
	return nil
}

// Get recupera um valor do cache
func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, found := c.cache.Get(key)
	if !found {
		return false, nil
	}

	data, ok := raw.([]byte)
	if !ok {
		// Entrada corrompida, tratar como cache miss
		c.cache.Delete(key)
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Error("falha ao desserializar valor do cache",
			zap.String("key", key),
			zap.Error(err))
		return false, err
	}

	return true, nil
}

// Delete remove um valor do cache
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear remove todos os valores do cache
func (c *MemoryCache) Clear(_ context.Context) error {
	c.cache.Flush()
	return nil
}

// Ping sempre responde com sucesso para o cache em memória
func (c *MemoryCache) Ping(_ context.Context) error {
	return nil
}

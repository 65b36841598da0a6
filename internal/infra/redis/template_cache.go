package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/KevinSet35/geo-whiz/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// TemplatesKey is the hash holding the cached question bank, one field per country code.
const TemplatesKey = "geowhiz:templates"

// TemplateLoader fetches the authored question bank from its backing store.
type TemplateLoader interface {
	LoadTemplates(ctx context.Context) (map[string][]domain.QuestionTemplate, error)
}

// TemplateCache is a read-through Redis cache in front of a TemplateLoader.
// Stored as: HSET geowhiz:templates {countryCode} {json templates}
type TemplateCache struct {
	client *redis.Client
	loader TemplateLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewTemplateCache(client *redis.Client, loader TemplateLoader, ttl time.Duration) *TemplateCache {
	return &TemplateCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *TemplateCache) LoadTemplates(ctx context.Context) (map[string][]domain.QuestionTemplate, error) {
	if bank, ok := c.fromCache(ctx); ok {
		return bank, nil
	}

	result, err, _ := c.sf.Do(TemplatesKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank, ok := c.fromCache(ctx); ok {
			return bank, nil
		}

		bank, err := c.loader.LoadTemplates(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.store(ctx, bank); err != nil {
			return nil, err
		}
		return bank, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string][]domain.QuestionTemplate), nil
}

// Invalidate drops the cached bank so the next load goes to the backing store.
func (c *TemplateCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, TemplatesKey).Err()
}

// fromCache treats any redis or decode failure as a miss.
func (c *TemplateCache) fromCache(ctx context.Context) (map[string][]domain.QuestionTemplate, bool) {
	fields, err := c.client.HGetAll(ctx, TemplatesKey).Result()
	if err != nil || len(fields) == 0 {
		return nil, false
	}
	bank := make(map[string][]domain.QuestionTemplate, len(fields))
	for code, raw := range fields {
		var templates []domain.QuestionTemplate
		if err := json.Unmarshal([]byte(raw), &templates); err != nil {
			return nil, false
		}
		bank[code] = templates
	}
	return bank, true
}

func (c *TemplateCache) store(ctx context.Context, bank map[string][]domain.QuestionTemplate) error {
	if len(bank) == 0 {
		return nil
	}
	values := make(map[string]interface{}, len(bank))
	for code, templates := range bank {
		raw, err := json.Marshal(templates)
		if err != nil {
			return fmt.Errorf("marshal templates for %s: %w", code, err)
		}
		values[code] = raw
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, TemplatesKey)
	pipe.HSet(ctx, TemplatesKey, values)
	if ttl := c.ttlWithJitter(); ttl > 0 {
		pipe.Expire(ctx, TemplatesKey, ttl)
	}
	// A failed write only costs a reload next time.
	_, _ = pipe.Exec(ctx)
	return nil
}

func (c *TemplateCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

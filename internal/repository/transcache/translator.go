package transcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/meridian-clinic/deepsearch/internal/db"
	"github.com/meridian-clinic/deepsearch/internal/domain"
)

const cacheKeyPrefix = "clinic:trans_cache:"

// store is the consumer interface for the translation cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Translator is the inner translation contract being decorated.
type Translator interface {
	Translate(ctx context.Context, lang domain.Language, text, topicName string) (string, error)
}

// CachedTranslator caches query translations in a key-value store. The same
// questionnaire produces the same query text, so repeat visits skip the
// provider call entirely.
type CachedTranslator struct {
	inner      Translator
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner Translator,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedTranslator {
	return &CachedTranslator{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Translate returns a cached translation or calls the inner translator.
// Cache read/write failures degrade to a provider call; they never fail the
// request.
func (c *CachedTranslator) Translate(
	ctx context.Context, lang domain.Language, text, topicName string,
) (string, error) {
	key := c.cacheKey(lang, topicName, text)

	if cached, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return cached, nil
	}

	c.incCache("miss")

	translated, err := c.inner.Translate(ctx, lang, text, topicName)
	if err != nil {
		return "", fmt.Errorf("translate query: %w", err)
	}

	c.putToCache(ctx, key, translated)
	return translated, nil
}

func (c *CachedTranslator) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedTranslator) cacheKey(lang domain.Language, topicName, text string) string {
	h := sha256.Sum256([]byte(string(lang) + "|" + topicName + "|" + text))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedTranslator) getFromCache(ctx context.Context, key string) (string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached translation", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	if len(data) == 0 {
		return "", false
	}
	return string(data), true
}

func (c *CachedTranslator) putToCache(ctx context.Context, key, translated string) {
	if err := c.store.SetWithTTL(ctx, key, []byte(translated), c.ttl); err != nil {
		c.logger.Warn("Failed to cache translation", zap.String("key", key), zap.Error(err))
	}
}

package recognition

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2beens/fitpulse/internal/nutrition"
	"github.com/2beens/fitpulse/internal/telemetry/metrics"

	"github.com/cespare/xxhash/v2"
	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	megabyte              = 1024 * 1024
	DefaultCacheSize      = 10 * megabyte
	DefaultCacheExpireSec = 60 * 60 * 24
)

// CachingRecognizer remembers results per image content, so re-uploading the
// same photo neither hits the service nor spends quota.
type CachingRecognizer struct {
	next      Recognizer
	cache     *freecache.Cache
	expireSec int
	metrics   *metrics.Manager
}

func NewCachingRecognizer(next Recognizer, cacheSize, expireSec int, metricsManager *metrics.Manager) *CachingRecognizer {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if expireSec < 0 {
		expireSec = DefaultCacheExpireSec
	}
	return &CachingRecognizer{
		next:      next,
		cache:     freecache.NewCache(cacheSize),
		expireSec: expireSec,
		metrics:   metricsManager,
	}
}

func (c *CachingRecognizer) Recognize(ctx context.Context, image []byte) ([]nutrition.RecognizedFood, error) {
	cacheKey := []byte(imageCacheKey(image))

	if cached, err := c.cache.Get(cacheKey); err == nil {
		var foods []nutrition.RecognizedFood
		if err := json.Unmarshal(cached, &foods); err == nil {
			log.Tracef("recognition: cache hit for %s", cacheKey)
			if c.metrics != nil {
				c.metrics.CounterCachedRecognitions.Inc()
			}
			return foods, nil
		} else {
			log.Errorf("recognition: unmarshal cached result %s: %s", cacheKey, err)
		}
	}

	foods, err := c.next.Recognize(ctx, image)
	if err != nil {
		return nil, err
	}

	if foodsBytes, err := json.Marshal(foods); err != nil {
		log.Errorf("recognition: marshal result for cache: %s", err)
	} else if err := c.cache.Set(cacheKey, foodsBytes, c.expireSec); err != nil {
		log.Errorf("recognition: set cache %s: %s", cacheKey, err)
	}

	return foods, nil
}

func (c *CachingRecognizer) EntryCount() int64 {
	return c.cache.EntryCount()
}

func imageCacheKey(image []byte) string {
	return fmt.Sprintf("recognition::%016x", xxhash.Sum64(image))
}

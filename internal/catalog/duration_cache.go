package catalog

import (
	"context"
	"encoding/binary"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	defaultDurationCacheSize      = 256 * 1024
	defaultDurationCacheExpireSec = 6 * 60 * 60
)

type videoDurationSource interface {
	VideoDuration(ctx context.Context, videoID int) (int, error)
}

// DurationCache keeps video durations in memory; they are read on every progress update.
type DurationCache struct {
	source    videoDurationSource
	cache     *freecache.Cache
	expireSec int
}

func NewDurationCache(source videoDurationSource) *DurationCache {
	return &DurationCache{
		source:    source,
		cache:     freecache.NewCache(defaultDurationCacheSize),
		expireSec: defaultDurationCacheExpireSec,
	}
}

func (c *DurationCache) VideoDuration(ctx context.Context, videoID int) (int, error) {
	if cached, err := c.cache.GetInt(int64(videoID)); err == nil && len(cached) == 4 {
		return int(binary.BigEndian.Uint32(cached)), nil
	}

	duration, err := c.source.VideoDuration(ctx, videoID)
	if err != nil {
		return 0, err
	}

	value := make([]byte, 4)
	binary.BigEndian.PutUint32(value, uint32(duration))
	if err := c.cache.SetInt(int64(videoID), value, c.expireSec); err != nil {
		log.Errorf("cache duration of video %d: %s", videoID, err)
	}

	return duration, nil
}

package geoip

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/2beens/fitpulse/internal/telemetry/tracing"
	"github.com/2beens/fitpulse/pkg"

	"github.com/go-redis/redis/v8"
	"github.com/ipinfo/go/v2/ipinfo"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const cachedTimezoneTTL = 30 * 24 * time.Hour

var ErrNoTimezone = errors.New("no timezone for ip")

type ipInfoClient interface {
	GetIPInfo(ip net.IP) (*ipinfo.Core, error)
}

// Api resolves the timezone of a client ip, used to label meals by local time.
type Api struct {
	mu          sync.Mutex
	client      ipInfoClient
	redisClient *redis.Client
}

func NewApi(
	ipInfoToken string,
	httpClient *http.Client,
	redisClient *redis.Client,
) *Api {
	return newApi(ipinfo.NewClient(httpClient, nil, ipInfoToken), redisClient)
}

func newApi(client ipInfoClient, redisClient *redis.Client) *Api {
	return &Api{
		client:      client,
		redisClient: redisClient,
	}
}

func (gi *Api) RequestTimezone(ctx context.Context, r *http.Request) (*time.Location, error) {
	userIp, err := pkg.ReadUserIP(r)
	if err != nil {
		return nil, fmt.Errorf("get user ip: %w", err)
	}
	return gi.GetTimezone(ctx, userIp)
}

func (gi *Api) GetTimezone(ctx context.Context, ip string) (_ *time.Location, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "geoIp.getTimezone")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("user.ip", ip))

	// used for development
	if ip == pkg.LocalhostIP {
		return time.UTC, nil
	}

	parsedIp := net.ParseIP(ip)
	if parsedIp == nil {
		return nil, fmt.Errorf("ip addr %s is invalid", ip)
	}

	// the analyze screen fires a few requests at once, all for the same ip;
	// serialize them so only one reaches ipinfo and the rest hit the cache
	gi.mu.Lock()
	defer gi.mu.Unlock()

	key := fmt.Sprintf("ip-tz::%s", ip)
	cached, err := gi.redisClient.Get(ctx, key).Result()
	switch {
	case err == nil && cached != "":
		if loc, err := time.LoadLocation(cached); err == nil {
			span.SetAttributes(attribute.Bool("user.ip.from-cache", true))
			return loc, nil
		}
		log.Errorf("cached timezone [%s] for %s is invalid", cached, ip)
	case errors.Is(err, redis.Nil):
		log.Debugf("timezone for [%s] not cached", ip)
	case err != nil:
		log.Errorf("failed to get cached timezone for [%s]: %s", ip, err)
	}
	span.SetAttributes(attribute.Bool("user.ip.from-cache", false))

	info, err := gi.client.GetIPInfo(parsedIp)
	if err != nil {
		return nil, fmt.Errorf("get ip info: %w", err)
	}
	if info == nil || info.Timezone == "" {
		return nil, ErrNoTimezone
	}

	loc, err := time.LoadLocation(info.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load location %s: %w", info.Timezone, err)
	}

	if err := gi.redisClient.Set(ctx, key, info.Timezone, cachedTimezoneTTL).Err(); err != nil {
		log.Errorf("failed to cache timezone for %s: %s", ip, err)
	} else {
		log.Debugf("timezone cache set in redis for: %s", ip)
	}

	return loc, nil
}

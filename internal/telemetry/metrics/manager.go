package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests             *prometheus.CounterVec
	CounterHandleRequestPanic   prometheus.Counter
	CounterRateLimitedRequests  prometheus.Counter
	CounterRecognitions         *prometheus.CounterVec
	CounterFallbackRecognitions prometheus.Counter
	CounterQuotaExceeded        prometheus.Counter
	CounterCachedRecognitions   prometheus.Counter
	CounterMealsLogged          prometheus.Counter
	CounterStaleAnalyses        prometheus.Counter
	CounterFeedPosts            prometheus.Counter
	CounterVideoCompletions     prometheus.Counter

	// gauges
	GaugeRequests   prometheus.Gauge
	GaugeLifeSignal prometheus.Gauge

	// histograms
	HistAnalysisDuration     prometheus.Histogram
	HistogramRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("backend", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("backend", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})
	counterRecognitions := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "food_recognitions",
		Help:      "The total number of food recognition calls, by outcome",
	}, []string{"outcome"})
	counterFallbackRecognitions := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "food_recognitions_fallback",
		Help:      "The total number of stand-in recognition results served",
	})
	counterQuotaExceeded := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "food_recognitions_quota_exceeded",
		Help:      "The total number of recognitions rejected by the monthly quota",
	})
	counterCachedRecognitions := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "food_recognitions_cached",
		Help:      "The total number of recognitions served from cache",
	})
	counterMealsLogged := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "meals_logged",
		Help:      "The total number of saved meals",
	})
	counterStaleAnalyses := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "meal_analyses_stale",
		Help:      "The total number of analyses dropped because a newer one was started",
	})
	counterFeedPosts := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "feed_posts",
		Help:      "The total number of added feed posts",
	})
	counterVideoCompletions := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "video_completions",
		Help:      "The total number of workout videos watched to the end",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "current_requests",
		Help:        "Current number of requests served",
		ConstLabels: nil,
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "life_signal",
		Help:        "Shows whether the service is alive",
		ConstLabels: nil,
	})

	histAnalysisDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets: []float64{
				0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 15, 30,
			},
			Name: "meal_analysis_duration_seconds",
			Help: "Total duration of a single meal photo analysis in seconds",
		},
	)

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})

	return &Manager{
		CounterRequests:             counterRequests,
		CounterHandleRequestPanic:   counterHandleRequestPanic,
		CounterRateLimitedRequests:  counterRateLimitedRequests,
		CounterRecognitions:         counterRecognitions,
		CounterFallbackRecognitions: counterFallbackRecognitions,
		CounterQuotaExceeded:        counterQuotaExceeded,
		CounterCachedRecognitions:   counterCachedRecognitions,
		CounterMealsLogged:          counterMealsLogged,
		CounterStaleAnalyses:        counterStaleAnalyses,
		CounterFeedPosts:            counterFeedPosts,
		CounterVideoCompletions:     counterVideoCompletions,
		GaugeRequests:               gaugeRequests,
		GaugeLifeSignal:             gaugeLifeSignal,
		HistAnalysisDuration:        histAnalysisDuration,
		HistogramRequestDuration:    histogramRequestDuration,
	}
}

package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fitpulse/internal/telemetry/metrics"
	"github.com/2beens/fitpulse/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrInvalidPosition = errors.New("invalid video position")
	ErrInvalidProgress = errors.New("invalid progress: negative counters")
)

type progressStore interface {
	Get(ctx context.Context, userID int) (*Progress, error)
	Put(ctx context.Context, userID int, p *Progress) error
}

type durationSource interface {
	VideoDuration(ctx context.Context, videoID int) (int, error)
}

// Tracker applies activity to the stored progress documents.
// Read-modify-write cycles of one process are serialized with a mutex.
type Tracker struct {
	mu        sync.Mutex
	store     progressStore
	durations durationSource
	metrics   *metrics.Manager
	now       func() time.Time
}

func NewTracker(store progressStore, durations durationSource, metricsManager *metrics.Manager) *Tracker {
	return &Tracker{
		store:     store,
		durations: durations,
		metrics:   metricsManager,
		now:       time.Now,
	}
}

func (t *Tracker) Get(ctx context.Context, userID int) (*Progress, error) {
	return t.store.Get(ctx, userID)
}

// Replace overwrites the document, used by clients syncing their offline state.
func (t *Tracker) Replace(ctx context.Context, userID int, p *Progress) error {
	if p.Videos == nil {
		p.Videos = map[int]VideoProgress{}
	}
	if p.XP < 0 || p.MealsLogged < 0 {
		return ErrInvalidProgress
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Put(ctx, userID, p)
}

// UpdateVideo records the playback position. The video counts as completed once 90% was watched,
// and the first completion is worth xpVideoCompleted.
func (t *Tracker) UpdateVideo(ctx context.Context, userID, videoID, positionSeconds int) (_ *VideoProgress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.updateVideo")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("video.id", videoID))

	if positionSeconds < 0 {
		return nil, ErrInvalidPosition
	}

	duration, err := t.durations.VideoDuration(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("video duration: %w", err)
	}
	if positionSeconds > duration {
		positionSeconds = duration
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	p, err := t.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	vp := p.Videos[videoID]
	wasCompleted := vp.Completed
	vp.PositionSeconds = positionSeconds
	vp.DurationSeconds = duration
	vp.UpdatedAt = t.now().UTC()
	if duration > 0 && float64(positionSeconds) >= completedThreshold*float64(duration) {
		vp.Completed = true
	}
	if vp.Completed && !wasCompleted {
		p.XP += xpVideoCompleted
		if t.metrics != nil {
			t.metrics.CounterVideoCompletions.Inc()
		}
	}
	p.Videos[videoID] = vp

	if err := t.store.Put(ctx, userID, p); err != nil {
		return nil, err
	}

	return &vp, nil
}

func (t *Tracker) AwardMeal(ctx context.Context, userID int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, err := t.store.Get(ctx, userID)
	if err != nil {
		return err
	}
	p.XP += xpMealLogged
	p.MealsLogged++

	return t.store.Put(ctx, userID, p)
}

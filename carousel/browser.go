package carousel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aluiziolira/swell-carousel/api"
	"github.com/aluiziolira/swell-carousel/models"
	"github.com/aluiziolira/swell-carousel/prefetch"
)

var (
	// ErrNoCurrent is returned by actions that need a displayed recommendation.
	ErrNoCurrent = errors.New("carousel: no current recommendation")
	// ErrNoInteractions is returned when likes or view logs are not wired.
	ErrNoInteractions = errors.New("carousel: interactions not configured")
)

// RecommendationSource loads one page of recommendations.
type RecommendationSource interface {
	GetRecommendations(ctx context.Context, p api.Params) (models.RecommendationPage, error)
}

// Prefetcher warms images. Implementations must not fail as a whole.
type Prefetcher interface {
	PreloadAllMainImages(ctx context.Context, list []models.Recommendation) []prefetch.Outcome
	WarmNeighbors(ctx context.Context, list []models.Recommendation, current int) []prefetch.Batch
}

// Interactions records user feedback on a recommendation.
type Interactions interface {
	Like(ctx context.Context, id models.ID) error
	RecordView(ctx context.Context, id models.ID, seconds int) error
}

// Browser ties list loading, navigation and background prefetching together.
type Browser struct {
	source       RecommendationSource
	prefetcher   Prefetcher
	interactions Interactions
	metrics      *Metrics
	onChange     func(Snapshot)
	nav          *Navigator

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	loading    bool
	lastErr    error
	pagination models.Pagination
	closed     bool
}

// BrowserOption configures a Browser.
type BrowserOption func(*Browser)

// WithMetrics records navigation and reload metrics.
func WithMetrics(m *Metrics) BrowserOption {
	return func(b *Browser) { b.metrics = m }
}

// WithInteractions enables Like and RecordView.
func WithInteractions(i Interactions) BrowserOption {
	return func(b *Browser) { b.interactions = i }
}

// WithOnChange is called after every index change, once neighbor warming
// has been scheduled.
func WithOnChange(fn func(Snapshot)) BrowserOption {
	return func(b *Browser) { b.onChange = fn }
}

// NewBrowser builds a browser with an empty list.
func NewBrowser(source RecommendationSource, prefetcher Prefetcher, transitionDelay time.Duration, opts ...BrowserOption) *Browser {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Browser{
		source:     source,
		prefetcher: prefetcher,
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.nav = NewNavigator(transitionDelay, b.onIndexChange, b.metrics)
	return b
}

// Load fetches a new list and replaces the current one wholesale. On error
// the displayed list is kept and the error is returned and remembered.
func (b *Browser) Load(ctx context.Context, p api.Params) error {
	b.mu.Lock()
	b.loading = true
	b.lastErr = nil
	b.mu.Unlock()

	page, err := b.source.GetRecommendations(ctx, p)

	b.mu.Lock()
	b.loading = false
	if err != nil {
		b.lastErr = err
	} else {
		b.pagination = page.Pagination
	}
	b.mu.Unlock()

	if err != nil {
		b.metrics.IncReload("error")
		slog.Error("failed to load recommendations", slog.Any("error", err))
		return fmt.Errorf("load recommendations: %w", err)
	}
	b.metrics.IncReload("ok")

	list := page.Outfits
	if list == nil {
		list = []models.Recommendation{}
	}
	slog.Info("recommendations loaded",
		slog.Int("count", len(list)),
		slog.Int("page", page.Pagination.Page),
	)

	b.nav.Reset(list)
	if len(list) > 0 {
		b.background(func(ctx context.Context) {
			summary := prefetch.Summarize(b.prefetcher.PreloadAllMainImages(ctx, list))
			if summary.Failed > 0 {
				slog.Warn("failed to preload some images",
					slog.Int("loaded", summary.Loaded),
					slog.Int("failed", summary.Failed),
				)
			}
		})
	}
	return nil
}

func (b *Browser) onIndexChange(change IndexChange) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return
	}

	b.background(func(ctx context.Context) {
		for _, batch := range b.prefetcher.WarmNeighbors(ctx, change.List, change.Index) {
			summary := prefetch.Summarize(batch.Outcomes)
			if summary.Failed > 0 {
				slog.Warn("failed to preload adjacent recommendation images",
					slog.Int("index", batch.Index),
					slog.Int("failed", summary.Failed),
				)
			}
		}
	})

	if b.onChange != nil {
		b.onChange(b.nav.Snapshot())
	}
}

func (b *Browser) background(fn func(ctx context.Context)) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.wg.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.wg.Done()
		fn(b.ctx)
	}()
}

// ChangeRecommendation requests a move in dir; see Navigator.RequestChange.
// It reports false once the browser is closed.
func (b *Browser) ChangeRecommendation(dir Direction) bool {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return false
	}
	return b.nav.RequestChange(dir)
}

// Snapshot returns the cursor state for presentation.
func (b *Browser) Snapshot() Snapshot {
	return b.nav.Snapshot()
}

// Current returns the displayed recommendation.
func (b *Browser) Current() (models.Recommendation, bool) {
	return b.nav.Current()
}

// IsLoading reports whether a Load is in progress.
func (b *Browser) IsLoading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

// LastError returns the error of the most recent Load, if it failed.
func (b *Browser) LastError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// Pagination returns the pagination of the last successful Load.
func (b *Browser) Pagination() models.Pagination {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pagination
}

// Like favorites the displayed recommendation.
func (b *Browser) Like(ctx context.Context) error {
	if b.interactions == nil {
		return ErrNoInteractions
	}
	rec, ok := b.nav.Current()
	if !ok {
		return ErrNoCurrent
	}
	return b.interactions.Like(ctx, rec.ID)
}

// RecordView logs how long the displayed recommendation was on screen.
func (b *Browser) RecordView(ctx context.Context, viewed time.Duration) error {
	if b.interactions == nil {
		return ErrNoInteractions
	}
	rec, ok := b.nav.Current()
	if !ok {
		return ErrNoCurrent
	}
	return b.interactions.RecordView(ctx, rec.ID, int(viewed.Seconds()))
}

// Wait blocks until background prefetches started so far have settled.
// It must not run concurrently with Load or a pending navigation, since
// those start new prefetches.
func (b *Browser) Wait() {
	b.wg.Wait()
}

// Close cancels pending transitions and background prefetches and waits for them.
func (b *Browser) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	b.nav.Stop()
	b.cancel()
	b.wg.Wait()
}

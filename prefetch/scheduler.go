// Package prefetch warms the image cache ahead of display. Every preload
// batch settles all of its sub-requests and never fails as a whole.
package prefetch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aluiziolira/swell-carousel/models"
	"golang.org/x/sync/errgroup"
)

// Cache is the external image cache warmed by successful preloads.
type Cache interface {
	Add(url string, img models.Image)
}

// Status is the settled state of one preload.
type Status int

const (
	StatusLoaded Status = iota
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Outcome is the settled result for one URL.
type Outcome struct {
	URL    string
	Status Status
	Image  models.Image
	Err    error
}

// Summary counts outcomes by status.
type Summary struct {
	Loaded  int
	Failed  int
	Skipped int
}

// Summarize counts outcomes by status.
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch o.Status {
		case StatusLoaded:
			s.Loaded++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s
}

// Scheduler issues best-effort image preloads. No retries, no backoff.
type Scheduler struct {
	loader  Loader
	cache   Cache
	metrics *Metrics
	limit   int
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithCache sets the cache warmed by successful loads.
func WithCache(cache Cache) Option {
	return func(s *Scheduler) { s.cache = cache }
}

// WithMetrics records preload metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// WithConcurrency bounds in-flight loads per batch. Zero or less means unbounded.
func WithConcurrency(n int) Option {
	return func(s *Scheduler) { s.limit = n }
}

// NewScheduler builds a scheduler on top of loader.
func NewScheduler(loader Loader, opts ...Option) *Scheduler {
	s := &Scheduler{loader: loader, limit: -1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PreloadOne loads a single image. An empty url fails with ReasonMissingURL
// without touching the loader.
func (s *Scheduler) PreloadOne(ctx context.Context, url string) (models.Image, error) {
	if url == "" {
		return models.Image{}, &LoadError{Reason: ReasonMissingURL}
	}

	start := time.Now()
	img, err := s.loader.Load(ctx, url)
	s.metrics.ObserveDuration(time.Since(start))
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return models.Image{}, err
		}
		return models.Image{}, &LoadError{URL: url, Reason: ReasonLoadFailure, Err: err}
	}

	if img.URL == "" {
		img.URL = url
	}
	if s.cache != nil {
		s.cache.Add(url, img)
	}
	return img, nil
}

// PreloadRecommendation settles the main image and then every item image in
// list order. Items without a URL are reported as missing-url failures.
func (s *Scheduler) PreloadRecommendation(ctx context.Context, rec models.Recommendation) []Outcome {
	s.metrics.IncBatch("recommendation")
	urls := rec.ImageURLs()
	if len(urls) == 0 {
		return []Outcome{}
	}
	return s.settleAll(ctx, urls)
}

// PreloadAllMainImages settles the main image of every recommendation.
// Recommendations without a main image are reported as skipped.
func (s *Scheduler) PreloadAllMainImages(ctx context.Context, list []models.Recommendation) []Outcome {
	s.metrics.IncBatch("main_images")
	outcomes := make([]Outcome, len(list))

	g := s.group()
	for i, rec := range list {
		if rec.ImageURL == "" {
			outcomes[i] = Outcome{Status: StatusSkipped}
			s.metrics.IncRequest(StatusSkipped)
			continue
		}
		g.Go(func() error {
			outcomes[i] = s.settle(ctx, rec.ImageURL)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (s *Scheduler) settleAll(ctx context.Context, urls []string) []Outcome {
	outcomes := make([]Outcome, len(urls))
	g := s.group()
	for i, url := range urls {
		g.Go(func() error {
			outcomes[i] = s.settle(ctx, url)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (s *Scheduler) settle(ctx context.Context, url string) Outcome {
	img, err := s.PreloadOne(ctx, url)
	if err != nil {
		label := ErrorTypeLabel(err)
		s.metrics.IncRequest(StatusFailed)
		s.metrics.IncError(label)
		slog.Debug("image preload failed",
			slog.String("url", url),
			slog.String("error_type", label),
			slog.Any("error", err),
		)
		return Outcome{URL: url, Status: StatusFailed, Err: err}
	}
	s.metrics.IncRequest(StatusLoaded)
	return Outcome{URL: url, Status: StatusLoaded, Image: img}
}

// group never carries errors: workers always return nil so one failure
// cannot cancel its siblings.
func (s *Scheduler) group() *errgroup.Group {
	g := &errgroup.Group{}
	g.SetLimit(s.limit)
	return g
}

package prefetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aluiziolira/swell-carousel/config"
	"github.com/aluiziolira/swell-carousel/models"
	"github.com/gocolly/colly/v2"
)

// Loader is the image-loading primitive the scheduler depends on.
type Loader interface {
	Load(ctx context.Context, url string) (models.Image, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, url string) (models.Image, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, url string) (models.Image, error) {
	return f(ctx, url)
}

const resultKey = "prefetch_result"

type loadResult struct {
	image models.Image
	err   error
}

// CollyLoader fetches images through an asynchronous colly collector.
// Revisits are allowed: deduplication belongs to the HTTP/image cache layer.
type CollyLoader struct {
	collector *colly.Collector
}

// NewCollyLoader builds a loader configured from cfg.
func NewCollyLoader(cfg *config.Config) (*CollyLoader, error) {
	collector := colly.NewCollector(
		colly.Async(true),
		colly.AllowURLRevisit(),
		colly.UserAgent(cfg.UserAgent),
		colly.MaxBodySize(cfg.MaxImageBytes),
	)

	collector.SetRequestTimeout(cfg.ImageTimeout)
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.ImageTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: cfg.PrefetchParallelism,
	}); err != nil {
		return nil, fmt.Errorf("configure image limits: %w", err)
	}

	l := &CollyLoader{collector: collector}
	collector.OnResponse(l.onResponse)
	collector.OnError(l.onError)
	return l, nil
}

// Load issues one GET and waits for it to settle or for ctx to end.
// Returning early on ctx does not abort the request.
func (l *CollyLoader) Load(ctx context.Context, url string) (models.Image, error) {
	done := make(chan loadResult, 1)
	reqCtx := colly.NewContext()
	reqCtx.Put(resultKey, done)

	if err := l.collector.Request(http.MethodGet, url, nil, reqCtx, nil); err != nil {
		return models.Image{}, fmt.Errorf("request image: %w", err)
	}

	select {
	case res := <-done:
		return res.image, res.err
	case <-ctx.Done():
		return models.Image{}, ctx.Err()
	}
}

// Wait blocks until every request issued so far has finished.
func (l *CollyLoader) Wait() {
	l.collector.Wait()
}

func (l *CollyLoader) onResponse(r *colly.Response) {
	contentType := ""
	if r.Headers != nil {
		contentType = r.Headers.Get("Content-Type")
	}
	if contentType == "" {
		contentType = http.DetectContentType(r.Body)
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		deliver(r.Ctx, loadResult{err: ErrNotImage{ContentType: contentType}})
		return
	}

	deliver(r.Ctx, loadResult{image: models.Image{
		URL:         r.Request.URL.String(),
		ContentType: contentType,
		Size:        len(r.Body),
		LoadedAt:    time.Now(),
	}})
}

func (l *CollyLoader) onError(r *colly.Response, err error) {
	if r == nil {
		return
	}
	deliver(r.Ctx, loadResult{err: classifyError(err, r.StatusCode)})
}

func deliver(ctx *colly.Context, res loadResult) {
	if ctx == nil {
		return
	}
	ch, ok := ctx.GetAny(resultKey).(chan loadResult)
	if !ok {
		return
	}
	select {
	case ch <- res:
	default:
	}
}

package carousel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aluiziolira/swell-carousel/api"
	"github.com/aluiziolira/swell-carousel/models"
	"github.com/aluiziolira/swell-carousel/prefetch"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu     sync.Mutex
	page   models.RecommendationPage
	err    error
	params []api.Params
}

func (f *fakeSource) GetRecommendations(_ context.Context, p api.Params) (models.RecommendationPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.params = append(f.params, p)
	return f.page, f.err
}

func (f *fakeSource) set(page models.RecommendationPage, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.page, f.err = page, err
}

type urlRecorder struct {
	mu   sync.Mutex
	seen map[string]int
}

func (r *urlRecorder) loader() prefetch.Loader {
	return prefetch.LoaderFunc(func(_ context.Context, url string) (models.Image, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.seen == nil {
			r.seen = make(map[string]int)
		}
		r.seen[url]++
		return models.Image{URL: url}, nil
	})
}

func (r *urlRecorder) loaded(url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seen[url] > 0
}

func itemURL(i int) string {
	return fmt.Sprintf("https://img.test/r%d-item.jpg", i)
}

func listWithItems(n int) []models.Recommendation {
	list := buildList(n)
	for i := range list {
		list[i].Items = []models.Item{{ID: "i", ImageURL: itemURL(i)}}
	}
	return list
}

type fakeInteractions struct {
	liked  []models.ID
	viewed map[models.ID]int
}

func (f *fakeInteractions) Like(_ context.Context, id models.ID) error {
	f.liked = append(f.liked, id)
	return nil
}

func (f *fakeInteractions) RecordView(_ context.Context, id models.ID, seconds int) error {
	if f.viewed == nil {
		f.viewed = make(map[models.ID]int)
	}
	f.viewed[id] = seconds
	return nil
}

func TestBrowserLoadWarmsNeighbors(t *testing.T) {
	source := &fakeSource{page: models.RecommendationPage{
		Outfits:    listWithItems(5),
		Pagination: models.Pagination{Page: 1, Limit: 5, Total: 5, TotalPages: 1},
	}}
	rec := &urlRecorder{}
	changes := make(chan Snapshot, 8)
	b := NewBrowser(source, prefetch.NewScheduler(rec.loader()), testDelay,
		WithOnChange(func(s Snapshot) { changes <- s }))
	defer b.Close()

	require.NoError(t, b.Load(context.Background(), api.Params{Page: 1, Limit: 5}))
	b.Wait()

	first := <-changes
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, 5, first.Len)
	assert.Equal(t, 1, b.Pagination().Page)

	for i := 0; i < 5; i++ {
		assert.True(t, rec.loaded(fmt.Sprintf("https://img.test/r%d.jpg", i)), "main image %d", i)
	}
	assert.True(t, rec.loaded(itemURL(1)))
	assert.True(t, rec.loaded(itemURL(4)))
	assert.False(t, rec.loaded(itemURL(2)))
	assert.False(t, rec.loaded(itemURL(3)))

	require.True(t, b.ChangeRecommendation(Next))
	select {
	case s := <-changes:
		assert.Equal(t, 1, s.Index)
		assert.Equal(t, models.ID("r1"), s.Current.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for navigation")
	}
	b.Wait()
	assert.True(t, rec.loaded(itemURL(2)))
	assert.True(t, rec.loaded(itemURL(0)))
	assert.False(t, rec.loaded(itemURL(3)))
}

func TestBrowserLoadFailureKeepsList(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	source := &fakeSource{page: models.RecommendationPage{Outfits: buildList(3)}}
	rec := &urlRecorder{}
	b := NewBrowser(source, prefetch.NewScheduler(rec.loader()), testDelay, WithMetrics(metrics))
	defer b.Close()

	require.NoError(t, b.Load(context.Background(), api.Params{}))
	b.Wait()

	boom := &api.StatusError{StatusCode: 500, Message: "server exploded"}
	source.set(models.RecommendationPage{}, boom)

	err := b.Load(context.Background(), api.Params{})
	require.Error(t, err)

	var statusErr *api.StatusError
	assert.True(t, errors.As(err, &statusErr))
	assert.Equal(t, boom, b.LastError())
	assert.False(t, b.IsLoading())

	snap := b.Snapshot()
	assert.Equal(t, 3, snap.Len)
	assert.Equal(t, 0, snap.Index)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ReloadsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ReloadsTotal.WithLabelValues("error")))

	source.set(models.RecommendationPage{Outfits: buildList(2)}, nil)
	require.NoError(t, b.Load(context.Background(), api.Params{}))
	assert.NoError(t, b.LastError())
	assert.Equal(t, 2, b.Snapshot().Len)
}

func TestBrowserEmptyListDropsNavigation(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	source := &fakeSource{page: models.RecommendationPage{}}
	b := NewBrowser(source, prefetch.NewScheduler((&urlRecorder{}).loader()), testDelay, WithMetrics(metrics))
	defer b.Close()

	require.NoError(t, b.Load(context.Background(), api.Params{}))

	assert.False(t, b.ChangeRecommendation(Next))
	_, ok := b.Current()
	assert.False(t, ok)
	assert.ErrorIs(t, b.Like(context.Background()), ErrNoInteractions)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.NavigationsTotal.WithLabelValues("dropped")))
}

func TestBrowserInteractions(t *testing.T) {
	source := &fakeSource{page: models.RecommendationPage{Outfits: buildList(2)}}
	interactions := &fakeInteractions{}
	b := NewBrowser(source, prefetch.NewScheduler((&urlRecorder{}).loader()), testDelay, WithInteractions(interactions))
	defer b.Close()

	assert.ErrorIs(t, b.Like(context.Background()), ErrNoCurrent)

	require.NoError(t, b.Load(context.Background(), api.Params{}))
	require.NoError(t, b.Like(context.Background()))
	require.NoError(t, b.RecordView(context.Background(), 12500*time.Millisecond))

	assert.Equal(t, []models.ID{"r0"}, interactions.liked)
	assert.Equal(t, 12, interactions.viewed["r0"])
}

func TestBrowserCloseStopsPendingTransition(t *testing.T) {
	source := &fakeSource{page: models.RecommendationPage{Outfits: buildList(3)}}
	changes := make(chan Snapshot, 8)
	b := NewBrowser(source, prefetch.NewScheduler((&urlRecorder{}).loader()), 50*time.Millisecond,
		WithOnChange(func(s Snapshot) { changes <- s }))

	require.NoError(t, b.Load(context.Background(), api.Params{}))
	<-changes
	require.True(t, b.ChangeRecommendation(Next))
	b.Close()

	assert.False(t, b.ChangeRecommendation(Next), "navigation accepted after Close")

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, b.Snapshot().Index)
	assert.NotEqual(t, Transitioning, b.Snapshot().State)
	select {
	case s := <-changes:
		t.Fatalf("change hook fired after Close: index %d", s.Index)
	default:
	}
}

package prefetch

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aluiziolira/swell-carousel/config"
	"github.com/aluiziolira/swell-carousel/models"
	"github.com/jarcoal/httpmock"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func imageResponder(contentType string, body []byte) httpmock.Responder {
	resp := httpmock.NewBytesResponse(http.StatusOK, body)
	resp.Header.Set("Content-Type", contentType)
	return httpmock.ResponderFromResponse(resp)
}

func newMockedLoader(t *testing.T, transport *httpmock.MockTransport) *CollyLoader {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.PrefetchParallelism = 2

	l, err := NewCollyLoader(cfg)
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}
	l.collector.WithTransport(transport)
	t.Cleanup(l.Wait)
	return l
}

func TestCollyLoaderLoadsImage(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://img.test/look.png", imageResponder("image/png", pngHeader))

	l := newMockedLoader(t, transport)
	img, err := l.Load(context.Background(), "http://img.test/look.png")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if img.URL != "http://img.test/look.png" || img.ContentType != "image/png" || img.Size != len(pngHeader) {
		t.Fatalf("unexpected image handle: %+v", img)
	}
}

func TestCollyLoaderRevisitsSameURL(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://img.test/again.png", imageResponder("image/png", pngHeader))

	l := newMockedLoader(t, transport)
	for i := 0; i < 2; i++ {
		if _, err := l.Load(context.Background(), "http://img.test/again.png"); err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
	}
	if got := transport.GetTotalCallCount(); got != 2 {
		t.Fatalf("calls = %d, want 2", got)
	}
}

func TestCollyLoaderFailures(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		register func(*httpmock.MockTransport)
		expected string
	}{
		{
			name: "not found",
			url:  "http://img.test/missing.png",
			register: func(tr *httpmock.MockTransport) {
				tr.RegisterResponder("GET", "http://img.test/missing.png", httpmock.NewStringResponder(http.StatusNotFound, ""))
			},
			expected: "not_found",
		},
		{
			name: "rate limited",
			url:  "http://img.test/busy.png",
			register: func(tr *httpmock.MockTransport) {
				tr.RegisterResponder("GET", "http://img.test/busy.png", httpmock.NewStringResponder(http.StatusTooManyRequests, ""))
			},
			expected: "rate_limited",
		},
		{
			name: "html instead of image",
			url:  "http://img.test/page.png",
			register: func(tr *httpmock.MockTransport) {
				tr.RegisterResponder("GET", "http://img.test/page.png", imageResponder("text/html", []byte("<html></html>")))
			},
			expected: "not_image",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := httpmock.NewMockTransport()
			tt.register(transport)

			l := newMockedLoader(t, transport)
			s := NewScheduler(l)
			outcomes := s.PreloadRecommendation(context.Background(), models.Recommendation{ImageURL: tt.url})
			if len(outcomes) != 1 || outcomes[0].Status != StatusFailed {
				t.Fatalf("expected one failed outcome, got %+v", outcomes)
			}
			var loadErr *LoadError
			if !errors.As(outcomes[0].Err, &loadErr) || loadErr.Reason != ReasonLoadFailure {
				t.Fatalf("expected load failure, got %v", outcomes[0].Err)
			}
			if got := ErrorTypeLabel(outcomes[0].Err); got != tt.expected {
				t.Fatalf("label = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCollyLoaderTransportError(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://img.test/down.png", httpmock.NewErrorResponder(errors.New("connection reset")))

	l := newMockedLoader(t, transport)
	if _, err := l.Load(context.Background(), "http://img.test/down.png"); err == nil {
		t.Fatalf("expected transport error")
	}
}

func TestCollyLoaderContextCancelled(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://img.test/slow.png", imageResponder("image/png", pngHeader))

	l := newMockedLoader(t, transport)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Either the result or the cancellation may win; neither may hang.
	_, err := l.Load(ctx, "http://img.test/slow.png")
	if err != nil && !errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected error: %v", err)
	}
}

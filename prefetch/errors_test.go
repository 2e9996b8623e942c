package prefetch

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
		expected   string
	}{
		{name: "nil", err: nil, statusCode: 0, expected: "unknown"},
		{name: "context timeout", err: context.DeadlineExceeded, statusCode: 0, expected: "timeout"},
		{name: "net timeout", err: &net.DNSError{IsTimeout: true}, statusCode: 0, expected: "timeout"},
		{name: "connection", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, statusCode: 0, expected: "connection"},
		{name: "forbidden", err: nil, statusCode: http.StatusForbidden, expected: "forbidden"},
		{name: "not found", err: errors.New("Not Found"), statusCode: http.StatusNotFound, expected: "not_found"},
		{name: "rate limited", err: nil, statusCode: http.StatusTooManyRequests, expected: "rate_limited"},
		{name: "server error", err: nil, statusCode: http.StatusBadGateway, expected: "other"},
		{name: "other", err: errors.New("some other error"), statusCode: 0, expected: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorTypeLabel(classifyError(tt.err, tt.statusCode)); got != tt.expected {
				t.Fatalf("classifyError(%v, %d) = %q, want %q", tt.err, tt.statusCode, got, tt.expected)
			}
		})
	}
}

func TestLoadErrorUnwrap(t *testing.T) {
	cause := ErrTimeout{Err: context.DeadlineExceeded}
	err := &LoadError{URL: "http://img.test/a.png", Reason: ReasonLoadFailure, Err: cause}

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected load error to unwrap to deadline exceeded")
	}
	if IsMissingURL(err) {
		t.Fatalf("load failure is not a missing url")
	}
	if got := ErrorTypeLabel(&LoadError{Reason: ReasonMissingURL}); got != "missing_url" {
		t.Fatalf("label = %q, want missing_url", got)
	}
}

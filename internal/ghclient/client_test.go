package ghclient

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestParseRateLimitHeaders(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("X-RateLimit-Remaining", "42")
	resp.Header.Set("X-RateLimit-Limit", "5000")
	resp.Header.Set("X-RateLimit-Reset", "1700000000")

	remaining, limit, resetAt := parseRateLimitHeaders(resp)
	if remaining != 42 {
		t.Errorf("remaining = %d, want 42", remaining)
	}
	if limit != 5000 {
		t.Errorf("limit = %d, want 5000", limit)
	}
	if !resetAt.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("resetAt = %v, want %v", resetAt, time.Unix(1700000000, 0))
	}
}

func TestParseRateLimitHeadersMissing(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	remaining, limit, _ := parseRateLimitHeaders(resp)
	if remaining != -1 || limit != -1 {
		t.Errorf("remaining, limit = %d, %d, want -1, -1", remaining, limit)
	}
}

func TestRateLimitState(t *testing.T) {
	s := &RateLimitState{}

	if s.IsLimited() {
		t.Error("fresh state reports limited")
	}

	s.SetLimited(true, time.Now().Add(time.Hour))
	if !s.IsLimited() {
		t.Error("not limited after SetLimited with future reset")
	}

	s.SetLimited(true, time.Now().Add(-time.Minute))
	if s.IsLimited() {
		t.Error("still limited after reset time passed")
	}

	s.Update(0, 5000, time.Now().Add(time.Hour))
	if !s.IsLimited() {
		t.Error("not limited after Update with zero remaining")
	}

	remaining, limit, _, limited := s.GetStatus()
	if remaining != 0 || limit != 5000 || !limited {
		t.Errorf("GetStatus() = %d, %d, limited=%v", remaining, limit, limited)
	}
}

func TestAPIErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &APIError{StatusCode: 403, Operation: "list issues", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("errors.Is does not see the wrapped error")
	}
	var apiErr *APIError
	if !errors.As(error(err), &apiErr) || apiErr.StatusCode != 403 {
		t.Errorf("errors.As failed or wrong status: %v", apiErr)
	}
}

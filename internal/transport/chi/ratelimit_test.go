package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	handler := RateLimitMiddleware(0, 0)(okHandler())

	for i := 0; i < 10; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/businesses/search", http.NoBody))
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: got %d, want %d", i, rr.Code, http.StatusOK)
		}
	}
}

func TestRateLimitMiddleware_Rejects(t *testing.T) {
	// one token, refilled far slower than the test runs
	handler := RateLimitMiddleware(0.001, 1)(okHandler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/businesses/search", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("first request: got %d, want %d", rr.Code, http.StatusOK)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/businesses/search", http.NoBody))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d, want %d", rr.Code, http.StatusTooManyRequests)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != ErrorResponseCodeRateLimited {
		t.Errorf("error code: got %s, want %s", errResp.Code, ErrorResponseCodeRateLimited)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func TestRateLimitMiddleware_ExemptPaths(t *testing.T) {
	handler := RateLimitMiddleware(0.001, 1)(okHandler())

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/health", http.NoBody))
		if rr.Code != http.StatusOK {
			t.Fatalf("health %d: got %d, want %d", i, rr.Code, http.StatusOK)
		}
	}
}

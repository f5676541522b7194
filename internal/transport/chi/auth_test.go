package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serveAuth(keys []string, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	BearerAuthMiddleware(keys)(okHandler()).ServeHTTP(rr, req)
	return rr
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	for name, keys := range map[string][]string{
		"nil keys":   nil,
		"blank keys": {"", "  "},
	} {
		t.Run(name, func(t *testing.T) {
			rr := serveAuth(keys, "/api/businesses/search", "")
			assert.Equal(t, http.StatusOK, rr.Code)
		})
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"missing header", "", "missing authorization header"},
		{"basic scheme", "Basic dXNlcjpwYXNz", "authorization header must use Bearer scheme"},
		{"scheme only", "Bearer", "authorization header must use Bearer scheme"},
		{"empty token", "Bearer   ", "empty bearer token"},
		{"wrong key", "Bearer wrong-key", "invalid api key"},
		{"prefix of key", "Bearer sec", "invalid api key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serveAuth([]string{"secret"}, "/api/businesses/search", tt.header)
			require.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, `Bearer realm="bizdex"`, rr.Header().Get("WWW-Authenticate"))

			var errResp ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&errResp))
			assert.Equal(t, ErrorResponseCodeUnauthorized, errResp.Code)
			assert.Equal(t, tt.message, errResp.Message)
		})
	}
}

func TestAuthMiddleware_Accepts(t *testing.T) {
	keys := []string{"key1", " key2 "}
	for _, header := range []string{"Bearer key1", "Bearer key2", "bearer key1", "Bearer  key2"} {
		rr := serveAuth(keys, "/api/businesses/search", header)
		assert.Equal(t, http.StatusOK, rr.Code, header)
	}
}

func TestAuthMiddleware_ExemptPaths(t *testing.T) {
	for _, path := range []string{"/health", "/metrics"} {
		rr := serveAuth([]string{"secret"}, path, "")
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}
}

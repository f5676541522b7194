package chi

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"
)

// Probe endpoints stay reachable without credentials or rate limiting.
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

func isExempt(r *http.Request) bool {
	_, ok := exemptPaths[r.URL.Path]
	return ok
}

// BearerAuthMiddleware requires "Authorization: Bearer <key>" matching one of apiKeys.
// Blank keys are ignored; with no keys left the middleware is a pass-through.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	digests := make([][sha256.Size]byte, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			digests = append(digests, sha256.Sum256([]byte(k)))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(digests) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isExempt(r) {
				next.ServeHTTP(w, r)
				return
			}

			token, msg := bearerToken(r.Header.Get("Authorization"))
			if msg == "" && !knownKey(digests, token) {
				msg = "invalid api key"
			}
			if msg != "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="bizdex"`)
				writeError(w, http.StatusUnauthorized, ErrorResponseCodeUnauthorized, msg)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the credential; a non-empty message explains a malformed header.
func bearerToken(header string) (string, string) {
	if header == "" {
		return "", "missing authorization header"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", "authorization header must use Bearer scheme"
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", "empty bearer token"
	}
	return token, ""
}

// knownKey compares digests so neither key length nor match position leaks through timing.
func knownKey(digests [][sha256.Size]byte, token string) bool {
	sum := sha256.Sum256([]byte(token))
	found := 0
	for i := range digests {
		found |= subtle.ConstantTimeCompare(digests[i][:], sum[:])
	}
	return found == 1
}

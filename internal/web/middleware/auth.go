package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/JonMunkholm/barredora/internal/logging"
)

const apiKeyAction = "Send a key from API_KEYS in the X-API-Key header or as a Bearer token"

// APIKeyAuth guards the cleaning API. A key is read from X-API-Key, or from
// an "Authorization: Bearer" header for clients that only set that one.
// With required false every request passes; with no usable keys configured
// every request is refused.
func APIKeyAuth(required bool, keys []string) func(http.Handler) http.Handler {
	accepted := acceptedKeys(keys)

	return func(next http.Handler) http.Handler {
		if !required {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := requestAPIKey(r)
			switch {
			case key == "":
				logging.FromContext(r.Context()).Warn("cleaning API called without key", "path", r.URL.Path)
				writeJSONError(w, http.StatusUnauthorized, "missing API key", apiKeyAction, "AUTH001")
			case !accepted.contains(key):
				logging.FromContext(r.Context()).Warn("cleaning API called with unknown key",
					"path", r.URL.Path,
					"client", r.RemoteAddr,
				)
				writeJSONError(w, http.StatusForbidden, "invalid API key", apiKeyAction, "AUTH001")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func requestAPIKey(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get("X-API-Key")); key != "" {
		return key
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// keySet holds the configured keys; blank entries from a trailing comma in
// API_KEYS are dropped.
type keySet [][]byte

func acceptedKeys(keys []string) keySet {
	set := make(keySet, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			set = append(set, []byte(k))
		}
	}
	return set
}

// contains compares against every key so the time taken does not reveal
// which one matched.
func (s keySet) contains(key string) bool {
	found := 0
	for _, k := range s {
		found |= subtle.ConstantTimeCompare([]byte(key), k)
	}
	return found == 1
}

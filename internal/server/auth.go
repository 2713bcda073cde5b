package server

import "net/http"

// apiKeyHeader carries the client's gateway key.
const apiKeyHeader = "X-API-Key"

// requireAPIKey rejects requests whose X-API-Key header is missing (401)
// or not one of the configured keys (403).
func requireAPIKey(keys []string) func(http.Handler) http.Handler {
	valid := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k != "" {
			valid[k] = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(apiKeyHeader)
			if key == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing API key"})
				return
			}
			if !valid[key] {
				writeJSON(w, http.StatusForbidden, map[string]string{"error": "invalid API key"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"net/http"
	"strings"
)

// NoAPICache forbids caching of API responses so the front-end always sees
// the latest availability state. Static assets are left to default caching.
func NoAPICache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		}
		next.ServeHTTP(w, r)
	})
}

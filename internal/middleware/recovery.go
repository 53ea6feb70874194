package middleware

import (
	"log"
	"net/http"
	"runtime/debug"
)

// PanicRecovery converts an escaped handler panic into a 500 response.
// The batch engine recovers its own worker panics; this is the backstop
// for everything else on the request path.
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[Recovery] panic on %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// AngelaMos | 2026
// recoverer.go

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/carterperez-dev/rolodex/internal/core"
)

// Recoverer converts handler panics into a 500 envelope instead of a
// dropped connection. http.ErrAbortHandler is re-raised so aborted
// streams keep their sentinel semantics.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}

					logger.Error("panic recovered",
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"request_id", GetRequestID(r.Context()),
						"stack", string(debug.Stack()),
					)

					core.JSONError(w, core.NewAppError(
						nil,
						"an unexpected error occurred",
						http.StatusInternalServerError,
						"INTERNAL_ERROR",
					))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

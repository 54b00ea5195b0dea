package httpserver

import (
	"net/http"
	"runtime/debug"

	"github.com/sbsheik/sc-gconnector-gis/internal/logger"
)

// Recovery turns a handler panic into a 500 response.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic serving %s %s: %v", r.Method, r.URL.Path, err)
				logger.Debug("%s", debug.Stack())
				writeJSON(w, http.StatusInternalServerError, errorBody{
					Error:   "internal_server_error",
					Message: "An unexpected error occurred",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

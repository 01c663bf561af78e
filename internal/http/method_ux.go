package http

import (
	"net/http"

	"bookmarket/internal/httpx"
)

// MethodMux chooses a handler based on the incoming HTTP method.
func MethodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.Method]; ok {
			h.ServeHTTP(w, r)
			return
		}
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

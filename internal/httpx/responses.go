package httpx

import (
	"encoding/json"
	"net/http"
)

// JSONSuccess writes the standard success envelope. Extra fields sit next to
// the success flag, e.g. {"success":true,"book":{...}}.
func JSONSuccess(w http.ResponseWriter, statusCode int, fields map[string]any) {
	payload := map[string]any{"success": true}
	for k, v := range fields {
		payload[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// JSONError writes the standard failure envelope {"success":false,"error":...}.
func JSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}

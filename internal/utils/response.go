package utils

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// JSON writes data as the response body with the given status code. Encode
// failures are logged rather than surfaced; the status line is already gone.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		GetLogger().Warn("failed to encode response body", zap.Error(err))
	}
}

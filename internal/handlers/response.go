package handlers

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the uniform failure envelope. Every failure path
// ends here; raw transport errors never reach the presentation layer.
type errorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, details interface{}) {
	writeJSON(w, status, errorResponse{Success: false, Error: message, Details: details})
}

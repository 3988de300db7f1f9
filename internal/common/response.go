package common

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the envelope used for every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

var productionMode bool

// SetProductionMode controls whether internal error detail reaches response
// bodies. Set once at startup, before the server accepts traffic.
func SetProductionMode(enabled bool) {
	productionMode = enabled
}

// RespondWithDomainError maps err onto a status code and writes the error
// envelope. In production a 500 body carries a generic message; wrapped
// store and SDK detail stays in the logs.
func RespondWithDomainError(w http.ResponseWriter, err error) {
	status := HTTPStatusFromError(err)
	message := err.Error()
	if status == http.StatusInternalServerError && productionMode {
		message = "Internal server error"
	}
	RespondWithError(w, status, message)
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Success: false, Message: message})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success": false, "message": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Package httpx renders the response envelope shared by every endpoint.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the single response contract of the API: a top-level status,
// one flattened message and the payload. Data is null on errors.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

const (
	statusSuccess = "success"
	statusError   = "error"

	msgListRetrieved = "Data retrieved successfully"
	msgOperationOK   = "Operation successful"
)

// JSON writes the envelope with the given HTTP status code.
func JSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// OK responds with a single-object success payload.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Status: statusSuccess, Message: msgOperationOK, Data: data})
}

// Created responds with a freshly persisted object.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Envelope{Status: statusSuccess, Message: msgOperationOK, Data: data})
}

// List responds with a collection payload.
func List(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Status: statusSuccess, Message: msgListRetrieved, Data: data})
}

// Error responds with an error envelope carrying a single flattened message.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Status: statusError, Message: message, Data: nil})
}

// DecodeJSON decodes the request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

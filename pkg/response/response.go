// Package response writes the JSON bodies the storefront client expects.
// Order endpoints speak {"message": ...}; the upload endpoint and the 404
// handler speak {"error": ...}, matching the public API contract.
package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Message writes {"message": msg} with the given status code.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// Created writes a 201 with a message and the created resource under key.
func Created(w http.ResponseWriter, msg, key string, v interface{}) {
	JSON(w, http.StatusCreated, map[string]interface{}{
		"message": msg,
		key:       v,
	})
}

// BadRequest writes a 400 {"message": msg}.
func BadRequest(w http.ResponseWriter, msg string) {
	Message(w, http.StatusBadRequest, msg)
}

// Internal writes a 500 {"message": msg}.
func Internal(w http.ResponseWriter, msg string) {
	Message(w, http.StatusInternalServerError, msg)
}

// ErrorField writes {"error": msg}, used by the upload endpoint and the
// JSON 404 handler.
func ErrorField(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// NotFound writes the JSON 404 used for unmatched routes.
func NotFound(w http.ResponseWriter) {
	ErrorField(w, http.StatusNotFound, "Route not found")
}

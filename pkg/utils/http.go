// Package utils holds the small cross-cutting helpers shared by the HTTP
// handlers: JSON response writing and identifier generation.
package utils

import (
	"encoding/json"
	"net/http"
)

// JSONError writes status with a {"error": message} body.
func JSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{Error: message})
}

// JSONWrite encodes v as the JSON response body under the given status. A
// zero status leaves the implicit 200 to the first write.
func JSONWrite(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	return json.NewEncoder(w).Encode(v)
}

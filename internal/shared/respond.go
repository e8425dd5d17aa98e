package shared

import (
	"encoding/json"
	"net/http"
)

// Rejection is the stable error envelope returned by the authentication and
// authorization middleware. Required carries the permission (or list of
// permissions) the caller lacked; it names the policy requirement, never
// anything sensitive.
type Rejection struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Required any    `json:"required,omitempty"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Reject terminates a request with the standard rejection envelope.
func Reject(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Rejection{Message: message})
}

// RejectRequired terminates a request, naming the missing permission(s).
func RejectRequired(w http.ResponseWriter, status int, message string, required any) {
	JSON(w, status, Rejection{Message: message, Required: required})
}

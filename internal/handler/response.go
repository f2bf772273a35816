// Package handler provides HTTP handlers for the Alexander IAM API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/prn-tf/alexander-iam/internal/auth"
	"github.com/prn-tf/alexander-iam/internal/domain"
	"github.com/prn-tf/alexander-iam/internal/service"
)

// Response is the JSON envelope every API endpoint returns. Success payloads
// set the field matching their resource; failures set Error.
type Response struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	Error   string             `json:"error,omitempty"`
	User    *domain.PublicUser `json:"user,omitempty"`
	Token   string             `json:"token,omitempty"`

	// Users and Total are pointers so empty listings keep a stable shape:
	// an empty page serializes as "users":[],"total":0 instead of having
	// both fields vanish, while non-listing responses omit them entirely.
	Users *[]domain.PublicUser `json:"users,omitempty"`
	Total *int64               `json:"total,omitempty"`

	Stats *domain.UserStats `json:"stats,omitempty"`
	Data  interface{}       `json:"data,omitempty"`
}

// writeJSON writes a response envelope with the given status code.
func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError writes a failure envelope with the status code mapped from err.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), Response{Success: false, Error: errorMessage(err)})
}

// writeBadRequest writes a 400 with the given message.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: message})
}

// statusForError maps service and domain errors onto the API status taxonomy.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUserAlreadyExists),
		errors.Is(err, domain.ErrInvalidUsername),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidPassword),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrSelfAction):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserInactive),
		errors.Is(err, auth.ErrRoleForbidden):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrNoIdentity), errors.Is(err, auth.ErrNoToken):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrTokenInvalid), errors.Is(err, auth.ErrTokenExpired):
		return http.StatusForbidden
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, service.ErrConcurrentUpdate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the client-facing message for err. Internal errors
// are collapsed so database or cache details never leak.
func errorMessage(err error) string {
	if errors.Is(err, service.ErrInternalError) || statusForError(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	return capitalize(err.Error())
}

// capitalize upper-cases the first byte of s for display.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

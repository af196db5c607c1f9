package utils

import (
	"encoding/json"
	"net/http"

	"movie-review/pkg/apperr"
)

// ErrorResponse is the body of every 4xx/5xx response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// MessageResponse is returned by endpoints that have no resource to echo.
type MessageResponse struct {
	Message string `json:"message"`
}

// ResponseJSON writes body as JSON with the given status code.
func ResponseJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, data any) {
	ResponseJSON(w, http.StatusOK, data)
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, data any) {
	ResponseJSON(w, http.StatusCreated, data)
}

// returns 200 OK with {"message": ...}
func ResponseMessage(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusOK, MessageResponse{Message: message})
}

// ------------- Error responses -------------

// returns 400 Bad Request
func ResponseBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	ResponseJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Details: details})
}

// returns 401 Unauthorized
func ResponseUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	ResponseJSON(w, http.StatusUnauthorized, ErrorResponse{Error: message})
}

// returns 403 Forbidden
func ResponseForbidden(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusForbidden, ErrorResponse{Error: message})
}

// returns 404 Not Found
func ResponseNotFound(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusNotFound, ErrorResponse{Error: message})
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusInternalServerError, ErrorResponse{Error: message})
}

// ResponseError writes a classified error. Internal causes never reach the body.
func ResponseError(w http.ResponseWriter, err error) {
	e := apperr.From(err)

	switch e.Kind {
	case apperr.KindValidation:
		ResponseBadRequest(w, e.Message, e.Details)
	case apperr.KindUnauthenticated:
		ResponseUnauthorized(w, e.Message)
	case apperr.KindForbidden:
		ResponseForbidden(w, e.Message)
	case apperr.KindNotFound:
		ResponseNotFound(w, e.Message)
	case apperr.KindConflict:
		ResponseJSON(w, http.StatusConflict, ErrorResponse{Error: e.Message})
	default:
		ResponseInternalError(w, "internal server error")
	}
}

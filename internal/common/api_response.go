package common

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"horizonva/opsdesk/internal/constants"
	"horizonva/opsdesk/internal/models/dtos"
)

// RespondSuccess sends a standardized JSON success response.
func RespondSuccess(w http.ResponseWriter, initTime time.Time, message string, data any, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusOk),
		Message:      message,
		ResponseTime: GetResponseTime(initTime),
		Data:         data,
	}

	writeJSON(w, code, response)
}

// RespondError sends a standardized JSON error response.
func RespondError(w http.ResponseWriter, initTime time.Time, err error, message string, statusCode ...int) {
	code := http.StatusInternalServerError
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	msg := message
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusError),
		Message:      msg,
		ResponseTime: GetResponseTime(initTime),
	}

	writeJSON(w, code, response)
}

// RespondDenied sends a refused-but-healthy response. Denials ride the
// success envelope with the denial payload in data; callers read the
// code, not the HTTP status, but the status still groups by category.
func RespondDenied(w http.ResponseWriter, initTime time.Time, message string, data any, code constants.DenialCode) {
	response := dtos.APIResponse{
		Status:       string(constants.APIStatusOk),
		Message:      message,
		ResponseTime: GetResponseTime(initTime),
		Data:         data,
	}

	writeJSON(w, DenialHTTPStatus(code), response)
}

// RespondPermissionDenied refuses a request whose credentials lack the
// named role.
func RespondPermissionDenied(w http.ResponseWriter, requiredRole string) {
	response := dtos.APIResponse{
		Status:  string(constants.APIStatusError),
		Message: "Permission denied. Requires " + requiredRole + " access",
	}

	writeJSON(w, http.StatusForbidden, response)
}

// DenialHTTPStatus maps a denial code to its HTTP status. Missing
// referenced records answer 404; other conflicts 409; policy refusals
// 422; everything else is a plain bad request.
func DenialHTTPStatus(code constants.DenialCode) int {
	switch code {
	case constants.DenialRosterNotFound, constants.DenialReportNotFound, constants.DenialPilotNotFound:
		return http.StatusNotFound
	}

	switch constants.CategoryOf(code) {
	case constants.CategoryConflict:
		return http.StatusConflict
	case constants.CategoryPolicy:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// writeJSON marshals data and writes it to the HTTP response.
func writeJSON(w http.ResponseWriter, code int, body dtos.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("JSON encode failed: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

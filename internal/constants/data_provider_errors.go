package constants

// Route Source Error Codes
// These constants define specific error scenarios for external grid providers

// Credential-related errors
const (
	ErrCodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	ErrCodeRateLimited          = "RATE_LIMITED"
	ErrCodeNetworkError         = "NETWORK_ERROR"
)

// Source-related errors
const (
	ErrCodeSourceNotFound     = "SOURCE_NOT_FOUND"
	ErrCodeSourceAccessDenied = "SOURCE_ACCESS_DENIED"
	ErrCodeSourceEmpty        = "SOURCE_EMPTY"
	ErrCodeBadStatus          = "BAD_STATUS"
	ErrCodeMalformedGrid      = "MALFORMED_GRID"
)

// Configuration errors
const (
	ErrCodeConfigMalformed = "CONFIG_MALFORMED"
	ErrCodeConfigInactive  = "CONFIG_INACTIVE"
	ErrCodeNoHeaderRow     = "NO_HEADER_ROW"
)

// Error Messages
// Human-readable messages corresponding to error codes

var RouteSourceErrorMessages = map[string]string{
	ErrCodeAuthenticationFailed: "Authentication with the route source failed",
	ErrCodeRateLimited:          "Rate limit exceeded. Please try again later",
	ErrCodeNetworkError:         "Unable to reach the route source",

	ErrCodeSourceNotFound:     "The configured sheet or URL was not found",
	ErrCodeSourceAccessDenied: "No permission to read the configured source",
	ErrCodeSourceEmpty:        "The source exists but returned no rows",
	ErrCodeBadStatus:          "The source responded with a non-success status",
	ErrCodeMalformedGrid:      "The source payload could not be parsed as a grid",

	ErrCodeConfigMalformed: "The route source configuration is invalid",
	ErrCodeConfigInactive:  "The route source is not active",
	ErrCodeNoHeaderRow:     "No row covered every required column for this source kind",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := RouteSourceErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}

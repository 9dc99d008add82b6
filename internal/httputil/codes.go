package httputil

// Machine-readable error codes returned in ErrorResponse.Code
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"

	// registration / login
	CodeUsernameRequired   = "USERNAME_REQUIRED"
	CodeEmailRequired      = "EMAIL_REQUIRED"
	CodePasswordRequired   = "PASSWORD_REQUIRED"
	CodePasswordTooLong    = "PASSWORD_TOO_LONG"
	CodeUsernameExists     = "USERNAME_ALREADY_EXISTS"
	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"

	// authorization gate
	CodeMissingAuth       = "MISSING_AUTH"
	CodeInvalidAuthHeader = "INVALID_AUTH_HEADER"
	CodeInvalidToken      = "INVALID_TOKEN"

	// analysis
	CodeReviewRequired = "REVIEW_REQUIRED"
	CodeReviewTooLong  = "REVIEW_TOO_LONG"
	CodeAnalysisFailed = "ANALYSIS_FAILED"
	CodeHistoryFailed  = "HISTORY_FAILED"
)

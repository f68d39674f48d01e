package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput      = "INVALID_INPUT"
	CodeNotFound          = "NOT_FOUND"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeMalformedContent  = "MALFORMED_CONTENT"
	CodeUnparsable        = "UNPARSABLE_SECTION"
	CodeEmptyResult       = "EMPTY_RESULT"
	CodeNoSession         = "NO_SESSION"
	CodeTooLarge          = "FILE_TOO_LARGE"
	CodeRateLimited       = "RATE_LIMITED"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

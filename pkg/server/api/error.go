package api

// ErrorResponse is the error envelope returned for every failed request.
// Evaluation never returns partial results: a response is either a complete
// decision or this envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the error classification and a human-readable message.
type ErrorDetail struct {
	// Message is a human-readable error message.
	Message string `json:"message"`

	// Type categorizes the error.
	Type string `json:"type"`

	// Code is a machine-readable error code.
	Code string `json:"code,omitempty"`
}

// Error type constants.
const (
	// ErrorTypeInvalidRequest indicates a client-side error (400).
	ErrorTypeInvalidRequest = "invalid_request_error"

	// ErrorTypeNotFound indicates a missing rule or resource (404).
	ErrorTypeNotFound = "not_found"

	// ErrorTypeRuleError indicates the rule itself failed: a malformed
	// expression, a mandatory table with no matching row, or a structural
	// problem in the graph (422).
	ErrorTypeRuleError = "rule_error"

	// ErrorTypeServerError indicates an internal server error (500).
	ErrorTypeServerError = "server_error"

	// ErrorTypeTimeout indicates the evaluation exceeded its budget (504).
	ErrorTypeTimeout = "evaluation_timeout"
)

// Error code constants for common scenarios.
const (
	CodeInvalidJSON      = "invalid_json"
	CodeMissingField     = "missing_field"
	CodeInvalidValue     = "invalid_value"
	CodeRuleNotFound     = "rule_not_found"
	CodeRuleParseFailed  = "rule_parse_failed"
	CodeNoMatchingRule   = "no_matching_rule"
	CodeMalformedCell    = "malformed_cell"
	CodeEvaluationFailed = "evaluation_failed"
	CodeInternalError    = "internal_error"
)

// NewErrorResponse creates an error response with the given details.
func NewErrorResponse(message, errorType, code string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Message: message,
			Type:    errorType,
			Code:    code,
		},
	}
}

// NewInvalidRequestError creates an error response for invalid requests (400).
func NewInvalidRequestError(message, code string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeInvalidRequest, code)
}

// NewServerError creates an error response for internal errors (500).
func NewServerError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeServerError, CodeInternalError)
}

// HTTPStatusCode returns the HTTP status code for the error type.
func (e *ErrorDetail) HTTPStatusCode() int {
	switch e.Type {
	case ErrorTypeInvalidRequest:
		return 400
	case ErrorTypeNotFound:
		return 404
	case ErrorTypeRuleError:
		return 422
	case ErrorTypeServerError:
		return 500
	case ErrorTypeTimeout:
		return 504
	default:
		return 500
	}
}

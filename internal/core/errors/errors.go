package errors

const (
	HttpInternalError      = "internal_error"
	HttpInvalidJsonError   = "invalid_json"
	HttpInvalidRecordError = "invalid_record"
	HttpInvalidQueryError  = "invalid_query"
	HttpNotFound           = "not_found"
	HttpContractViolation  = "contract_violation"
	HttpStoreUnavailable   = "store_unavailable"
)

// ErrorResponse is the error response body of the HTTP API.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

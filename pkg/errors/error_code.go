package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameters ErrorCode = 100
	ErrCodeInvalidInput      ErrorCode = 101
	ErrCodeInvalidConfig     ErrorCode = 102

	// Data errors (200-299)
	ErrCodeDataUnavailable ErrorCode = 200
	ErrCodeQueryFailed     ErrorCode = 201
	ErrCodeDataParseFailed ErrorCode = 202

	// Indicator errors (300-399)
	ErrCodeIndicatorCalculation ErrorCode = 300

	// Ledger errors (500-599)
	ErrCodeInsufficientFunds    ErrorCode = 500
	ErrCodeInsufficientPosition ErrorCode = 501
	ErrCodeUnknownPosition      ErrorCode = 502
)

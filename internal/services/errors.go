// Package services provides the business logic layer between the HTTP
// handlers and the simplification, statistics and storage packages.
package services

// Error codes returned to API clients
const (
	CodeInvalidCSV             = "INVALID_CSV"
	CodeEmptyCSV               = "EMPTY_CSV"
	CodeInsufficientData       = "INSUFFICIENT_DATA"
	CodeTooManyPoints          = "TOO_MANY_POINTS"
	CodeInvalidEpsilon         = "INVALID_EPSILON"
	CodeInvalidPoints          = "INVALID_POINTS"
	CodeInvalidSeries          = "INVALID_SERIES"
	CodeInvalidConfidenceLevel = "INVALID_CONFIDENCE_LEVEL"
	CodeArtifactNotFound       = "ARTIFACT_NOT_FOUND"
	CodeArtifactExpired        = "ARTIFACT_EXPIRED"
	CodeStorageError           = "STORAGE_ERROR"
	CodeInternalError          = "INTERNAL_ERROR"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// internal/common/errors/handler.go
package errors

import (
	"time"
)

// Logger is the minimal logging surface the handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// StepFailure is the normalized form of a step error handed back to the
// execution engine: an EXECUTION_ERROR-class payload for the step's result.
type StepFailure struct {
	Code        ErrorCode `json:"code"`
	Message     string    `json:"message"`
	Details     string    `json:"details,omitempty"`
	Recoverable bool      `json:"recoverable"`
	Timestamp   time.Time `json:"timestamp"`
}

// ErrorHandler normalizes step errors for the execution engine.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleStepError normalizes any executor/verifier error into a StepFailure.
// Recoverable mirrors the step's remaining retry budget; it is informational
// for an outer supervisor, the engine never retries on its own.
func (h *ErrorHandler) HandleStepError(planID, stepID string, err error, retryCount, maxRetries int) *StepFailure {
	stdErr := h.normalizeError(err)

	failure := &StepFailure{
		Code:        stdErr.Code,
		Message:     stdErr.Message,
		Details:     stdErr.Details,
		Recoverable: retryCount < maxRetries,
		Timestamp:   stdErr.Timestamp,
	}

	h.logger.Error("step failed", map[string]interface{}{
		"planId":        planID,
		"stepId":        stepID,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"recoverable":   failure.Recoverable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	})

	return failure
}

// normalizeError ensures we always have a StandardError.
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeExecutionError,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

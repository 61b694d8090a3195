// Package errors provides standardized error handling for the copilot
// intent/plan/execution pipeline.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeTemplateNotFound         ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrCodeTemplateValidationFailed ErrorCode = "TEMPLATE_VALIDATION_FAILED"

	ErrCodePlanNotFound  ErrorCode = "PLAN_NOT_FOUND"
	ErrCodePlanExpired   ErrorCode = "PLAN_EXPIRED"
	ErrCodePlanTerminal  ErrorCode = "PLAN_ALREADY_TERMINAL"
	ErrCodePlanEmpty     ErrorCode = "PLAN_EMPTY"
	ErrCodeInvalidIntent ErrorCode = "INVALID_INTENT"

	ErrCodeExecutionError       ErrorCode = "EXECUTION_ERROR"
	ErrCodeVerificationRejected ErrorCode = "VERIFICATION_REJECTED"
	ErrCodeExecutorNotFound     ErrorCode = "EXECUTOR_NOT_FOUND"
	ErrCodeStepParameterInvalid ErrorCode = "STEP_PARAMETER_INVALID"

	ErrCodeCardFrozen           ErrorCode = "CARD_FROZEN"
	ErrCodeInsufficientBalance  ErrorCode = "INSUFFICIENT_BALANCE"
	ErrCodePerTxLimitExceeded   ErrorCode = "PER_TX_LIMIT_EXCEEDED"
	ErrCodeDailyLimitExceeded   ErrorCode = "DAILY_LIMIT_EXCEEDED"
	ErrCodeMonthlyLimitExceeded ErrorCode = "MONTHLY_LIMIT_EXCEEDED"

	ErrCodeMerchantNotFound ErrorCode = "MERCHANT_NOT_FOUND"
	ErrCodeMerchantBlocked  ErrorCode = "MERCHANT_BLOCKED"
	ErrCodeInvalidMCC       ErrorCode = "INVALID_MCC"

	ErrCodeDatabaseConnectionFailed      ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed          ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeDatabaseInsertFailed          ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeRedisUnavailable              ErrorCode = "REDIS_UNAVAILABLE"
	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeAuditIndexFailed              ErrorCode = "AUDIT_INDEX_FAILED"
	ErrCodeNotificationSendFailed        ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewTemplateNotFoundError creates a non-retryable template error.
func NewTemplateNotFoundError(action string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateNotFound,
		Message:   "No plan template registered for action",
		Details:   fmt.Sprintf("action: %s", action),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTemplateValidationFailedError creates a non-retryable template authoring error.
// Raised at registry construction, never at run time.
func NewTemplateValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateValidationFailed,
		Message:   "Plan template failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPlanNotFoundError creates a non-retryable unknown-plan error.
func NewPlanNotFoundError(planID string) *StandardError {
	return &StandardError{
		Code:      ErrCodePlanNotFound,
		Message:   "Plan not found",
		Details:   fmt.Sprintf("planId: %s", planID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPlanExpiredError creates a non-retryable structured-plan expiry error.
// An expired plan must be re-derived from the original intent, never extended.
func NewPlanExpiredError(planID string, expiredAt time.Time) *StandardError {
	return &StandardError{
		Code:      ErrCodePlanExpired,
		Message:   "Structured plan has expired",
		Details:   fmt.Sprintf("planId: %s, expiredAt: %s", planID, expiredAt.Format(time.RFC3339)),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPlanTerminalError creates a non-retryable error for operations against a
// plan that already reached a terminal status.
func NewPlanTerminalError(planID, status string) *StandardError {
	return &StandardError{
		Code:      ErrCodePlanTerminal,
		Message:   "Plan already reached a terminal status",
		Details:   fmt.Sprintf("planId: %s, status: %s", planID, status),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPlanEmptyError creates a non-retryable error for a plan with no steps.
func NewPlanEmptyError(planID string) *StandardError {
	return &StandardError{
		Code:      ErrCodePlanEmpty,
		Message:   "Plan has no steps",
		Details:   fmt.Sprintf("planId: %s", planID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidIntentError creates a non-retryable intent error.
func NewInvalidIntentError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidIntent,
		Message:   "Intent cannot be planned",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewExecutionError wraps an action-executor failure.
func NewExecutionError(action string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExecutionError,
		Message:   "Action executor failed",
		Details:   fmt.Sprintf("action: %s, error: %s", action, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewVerificationRejectedError creates an error for a rejected verification gate.
func NewVerificationRejectedError(stepID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeVerificationRejected,
		Message:   "Soul verification rejected the step",
		Details:   fmt.Sprintf("stepId: %s, error: %s", stepID, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewExecutorNotFoundError creates an error for an unregistered step action.
func NewExecutorNotFoundError(action string) *StandardError {
	return &StandardError{
		Code:      ErrCodeExecutorNotFound,
		Message:   "No executor registered for action",
		Details:   fmt.Sprintf("action: %s", action),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStepParameterInvalidError creates a non-retryable parameter validation error.
func NewStepParameterInvalidError(action, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStepParameterInvalid,
		Message:   "Step parameters failed schema validation",
		Details:   fmt.Sprintf("action: %s, %s", action, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCardFrozenError creates a non-retryable policy error.
func NewCardFrozenError(cardID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCardFrozen,
		Message:   "Card is frozen",
		Details:   fmt.Sprintf("cardId: %s", cardID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInsufficientBalanceError creates a non-retryable policy error.
func NewInsufficientBalanceError(cardID string, balanceCents, amountCents int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeInsufficientBalance,
		Message:   "Balance is insufficient for the requested amount",
		Details:   fmt.Sprintf("cardId: %s, balanceCents: %d, amountCents: %d", cardID, balanceCents, amountCents),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLimitExceededError creates a non-retryable spending-limit error.
// code must be one of the *_LIMIT_EXCEEDED codes.
func NewLimitExceededError(code ErrorCode, cardID string, limitCents, attemptedCents int64) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   "Spending limit exceeded",
		Details:   fmt.Sprintf("cardId: %s, limitCents: %d, attemptedCents: %d", cardID, limitCents, attemptedCents),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMerchantNotFoundError creates a non-retryable merchant registry error.
func NewMerchantNotFoundError(merchant string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMerchantNotFound,
		Message:   "Merchant not found in registry",
		Details:   fmt.Sprintf("merchant: %s", merchant),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMerchantBlockedError creates a non-retryable merchant screening error.
func NewMerchantBlockedError(merchant string, riskTier int, active bool) *StandardError {
	return &StandardError{
		Code:      ErrCodeMerchantBlocked,
		Message:   "Merchant is blocked or inactive",
		Details:   fmt.Sprintf("merchant: %s, riskTier: %d, active: %t", merchant, riskTier, active),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidMCCError creates a non-retryable merchant category error.
func NewInvalidMCCError(mcc int) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidMCC,
		Message:   "Merchant category code out of range",
		Details:   fmt.Sprintf("mcc: %d, valid range: 1..9999", mcc),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(query string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("query: %s, error: %s", query, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRedisUnavailableError creates a retryable Redis error.
func NewRedisUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRedisUnavailable,
		Message:   "Redis operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuditIndexFailedError creates a retryable audit sink error. Audit
// failures are logged and never fail the plan.
func NewAuditIndexFailedError(index string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuditIndexFailed,
		Message:   "Audit event indexing failed",
		Details:   fmt.Sprintf("index: %s, error: %s", index, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Retry Guidance
// ==========================

// GetRetryCount returns the recommended retry count for an outer supervisor.
// The execution engine never applies these itself.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeAuditIndexFailed,
		ErrCodeNotificationSendFailed:
		return 3 // Retryable technical errors

	case ErrCodeRedisUnavailable,
		ErrCodeExecutionError:
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// ==========================
// 4. Utility Functions
// ==========================

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "TEMPLATE"):
		return "TEMPLATE"
	case strings.Contains(codeStr, "PLAN") || strings.Contains(codeStr, "INTENT"):
		return "PLAN"
	case strings.Contains(codeStr, "EXECUT") || strings.Contains(codeStr, "VERIFICATION") || strings.Contains(codeStr, "STEP"):
		return "EXECUTION"
	case strings.Contains(codeStr, "CARD") || strings.Contains(codeStr, "BALANCE") || strings.Contains(codeStr, "LIMIT"):
		return "POLICY"
	case strings.Contains(codeStr, "MERCHANT") || strings.Contains(codeStr, "MCC"):
		return "MERCHANT"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY") || strings.Contains(codeStr, "REDIS") || strings.Contains(codeStr, "ELASTICSEARCH"):
		return "INFRASTRUCTURE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}

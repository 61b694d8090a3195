// internal/executors/params.go
package executors

import (
	"encoding/json"

	"discard-copilot/internal/models"
)

// AmountCents reads the step's amount parameter. Plans that crossed a JSON
// boundary carry numbers as float64, fresh plans as int64; both are handled.
func AmountCents(step *models.PlanStep) (int64, bool) {
	v, ok := step.Parameters["amountCents"]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

// StringParam reads a string parameter, returning "" when absent or not a
// string.
func StringParam(step *models.PlanStep, key string) string {
	if v, ok := step.Parameters[key].(string); ok {
		return v
	}
	return ""
}

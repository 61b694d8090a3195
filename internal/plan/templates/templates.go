// internal/plan/templates/templates.go
package templates

import (
	"fmt"

	"discard-copilot/internal/models"
)

// ==========================
// TEMPLATE TYPES
// ==========================

// Template is a reusable multi-step recipe for a family of intents. Steps
// reference their dependencies by index into the same template, which keeps
// authoring simple; expansion rewrites them to concrete step IDs.
type Template struct {
	TemplateID     string
	Name           string
	Description    string
	TriggerActions []models.ActionType
	Steps          []TemplateStep
}

// TemplateStep is one step of a template before expansion. ParameterKeys
// names the intent fields that flow into the step's parameters.
type TemplateStep struct {
	Action                   string
	Description              string
	ParameterKeys            []string
	DependsOn                []int
	RequiresSoulVerification bool
	Optional                 bool
	MaxRetries               int
}

// ==========================
// REGISTRY
// ==========================

// Registry holds the built-in templates. Lookup is a linear scan in
// declaration order and the first template listing the action wins.
type Registry struct {
	templates []*Template
}

func NewRegistry() (*Registry, error) {
	for _, tpl := range builtinTemplates {
		if err := validateTemplate(tpl); err != nil {
			return nil, err
		}
	}
	return &Registry{templates: builtinTemplates}, nil
}

// Find returns the first template triggered by the action, or nil when no
// template covers it.
func (r *Registry) Find(action models.ActionType) *Template {
	for _, tpl := range r.templates {
		for _, trigger := range tpl.TriggerActions {
			if trigger == action {
				return tpl
			}
		}
	}
	return nil
}

func (r *Registry) All() []*Template {
	return r.templates
}

// validateTemplate enforces that every dependency points at an earlier step.
// Forward or self references would deadlock the executor's single pass.
func validateTemplate(tpl *Template) error {
	if tpl.TemplateID == "" {
		return fmt.Errorf("template without id")
	}
	if len(tpl.Steps) == 0 {
		return fmt.Errorf("template %s has no steps", tpl.TemplateID)
	}
	for i, step := range tpl.Steps {
		for _, dep := range step.DependsOn {
			if dep < 0 || dep >= i {
				return fmt.Errorf("template %s step %d: dependency %d must reference an earlier step", tpl.TemplateID, i, dep)
			}
		}
	}
	return nil
}

// BuildParameters resolves a template step's parameter keys against the
// intent. Unresolvable keys are simply absent; schema validation downstream
// decides whether that matters.
func BuildParameters(step TemplateStep, intent *models.ParsedIntent) map[string]interface{} {
	params := make(map[string]interface{}, len(step.ParameterKeys))
	for _, key := range step.ParameterKeys {
		switch key {
		case "amountCents":
			if intent.Amount != nil {
				params[key] = *intent.Amount
			}
		case "currency":
			if intent.Currency != "" {
				params[key] = intent.Currency
			}
		case "merchant":
			if intent.Merchant != "" {
				params[key] = intent.Merchant
			}
		case "sourceType":
			if intent.SourceType != "" {
				params[key] = intent.SourceType
			}
		case "targetType":
			if intent.TargetType != "" {
				params[key] = intent.TargetType
			}
		case "intentId":
			params[key] = intent.IntentID
		}
	}
	return params
}

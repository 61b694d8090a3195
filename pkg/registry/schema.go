// pkg/registry/schema.go
package registry

// ActionCatalog is the JSON-loadable catalog of step actions the execution
// engine can dispatch. It is maintenance metadata: parameter schemas, error
// codes and retry guidance per action.
type ActionCatalog struct {
	Version     string       `json:"version"`
	LastUpdated string       `json:"lastUpdated"`
	Actions     []ActionSpec `json:"actions"`
}

// ActionSpec describes one executor action.
type ActionSpec struct {
	ID              string                 `json:"id"`
	DisplayName     string                 `json:"displayName"`
	Description     string                 `json:"description"`
	Category        string                 `json:"category"`
	ParameterSchema map[string]interface{} `json:"parameterSchema"`
	OutputSchema    map[string]interface{} `json:"outputSchema"`
	ErrorCodes      []string               `json:"errorCodes"`
	Timeout         string                 `json:"timeout"`
	Retries         int                    `json:"retries"`
	Tags            []string               `json:"tags"`
}

// Find returns the spec for an action id, or nil when unknown.
func (c *ActionCatalog) Find(id string) *ActionSpec {
	for i := range c.Actions {
		if c.Actions[i].ID == id {
			return &c.Actions[i]
		}
	}
	return nil
}

// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"os"
)

func LoadCatalog(path string) (*ActionCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cat ActionCatalog
	err = json.Unmarshal(data, &cat)
	return &cat, err
}

// cmd/tools/catalog-updater/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"discard-copilot/internal/common/validation"
	"discard-copilot/pkg/registry"
)

var catalogPath string

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	// Add command flags
	idAdd := addCmd.String("id", "", "Action ID (e.g., fund_card)")
	displayName := addCmd.String("displayName", "", "Display Name (e.g., Fund Card)")
	description := addCmd.String("description", "", "Description")
	category := addCmd.String("category", "", "Category (e.g., card, wallet, policy)")
	timeout := addCmd.String("timeout", "10s", "Timeout")
	retries := addCmd.Int("retries", 0, "Retry budget")
	addCmd.StringVar(&catalogPath, "path", "configs/action-catalog.json", "Path to catalog file")

	// Update command flags
	idUpdate := updateCmd.String("id", "", "Action ID to update")
	field := updateCmd.String("field", "", "Field to update (displayName, description, category, timeout, retries)")
	value := updateCmd.String("value", "", "New value for the field")
	updateCmd.StringVar(&catalogPath, "path", "configs/action-catalog.json", "Path to catalog file")

	// Validate command flags
	validateCmd.StringVar(&catalogPath, "path", "configs/action-catalog.json", "Path to catalog file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *displayName == "" || *category == "" {
			fmt.Println("Error: id, displayName and category are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		action := registry.ActionSpec{
			ID:              *idAdd,
			DisplayName:     *displayName,
			Description:     *description,
			Category:        *category,
			ParameterSchema: map[string]interface{}{},
			OutputSchema:    map[string]interface{}{},
			ErrorCodes:      []string{},
			Timeout:         *timeout,
			Retries:         *retries,
			Tags:            []string{},
		}
		if err := addAction(&action); err != nil {
			fmt.Printf("Error adding action: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added action: %s\n", *idAdd)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateAction(*idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating action: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated action %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		if err := validateCatalog(); err != nil {
			fmt.Printf("Catalog validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Catalog validation passed.")

	case "help":
		fallthrough
	default:
		help()
	}
}

func addAction(action *registry.ActionSpec) error {
	cat, err := registry.LoadCatalog(catalogPath)
	if err != nil {
		// If file doesn't exist, create a new catalog
		if os.IsNotExist(err) {
			cat = &registry.ActionCatalog{
				Version: "1.0.0",
				Actions: []registry.ActionSpec{},
			}
		} else {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
	}

	if cat.Find(action.ID) != nil {
		return fmt.Errorf("action with ID %s already exists", action.ID)
	}

	cat.Actions = append(cat.Actions, *action)
	cat.LastUpdated = time.Now().Format(time.RFC3339)

	return saveCatalog(cat, catalogPath)
}

func updateAction(id, field, value string) error {
	cat, err := registry.LoadCatalog(catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	spec := cat.Find(id)
	if spec == nil {
		return fmt.Errorf("action with ID %s not found", id)
	}

	switch field {
	case "displayName":
		spec.DisplayName = value
	case "description":
		spec.Description = value
	case "category":
		spec.Category = value
	case "timeout":
		spec.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		spec.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	cat.LastUpdated = time.Now().Format(time.RFC3339)
	return saveCatalog(cat, catalogPath)
}

func validateCatalog() error {
	cat, err := registry.LoadCatalog(catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if len(cat.Actions) == 0 {
		return fmt.Errorf("catalog contains no actions")
	}

	ids := make(map[string]bool)
	for _, action := range cat.Actions {
		if action.ID == "" {
			return fmt.Errorf("action missing required field: ID")
		}
		if ids[action.ID] {
			return fmt.Errorf("duplicate action ID: %s", action.ID)
		}
		ids[action.ID] = true

		if action.DisplayName == "" {
			return fmt.Errorf("action %s missing required field: DisplayName", action.ID)
		}
		if action.Category == "" {
			return fmt.Errorf("action %s missing required field: Category", action.ID)
		}
		if err := validation.ValidateSchema(action.ParameterSchema); err != nil {
			return fmt.Errorf("action %s has an invalid parameterSchema: %w", action.ID, err)
		}
	}

	fmt.Printf("Catalog validation passed. Found %d actions.\n", len(cat.Actions))
	return nil
}

// saveCatalog handles saving the catalog to file
func saveCatalog(cat *registry.ActionCatalog, path string) error {
	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}

	return nil
}

func help() {
	fmt.Print(`
Usage: catalog-updater <command> [flags]

Commands:
  add      Add a new action to the catalog
  update   Update an existing action's field
  validate Validate the catalog file
  help     Show this help message

Examples:
  catalog-updater add -id fund_card -displayName "Fund Card" -description "Load the card from the wallet" -category card
  catalog-updater update -id fund_card -field retries -value 2
  catalog-updater validate -path configs/action-catalog.json

Use 'catalog-updater <command> -h' for more information about a command.

`)
}

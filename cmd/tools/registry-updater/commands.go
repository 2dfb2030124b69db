// cmd/tools/registry-updater/commands.go
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"rentcheck-workers/internal/common/validation"
	"rentcheck-workers/pkg/registry"
)

func newActivity(id, displayName, description, category, taskType, version, status, timeout string) registry.Activity {
	return registry.Activity{
		ID:                   id,
		DisplayName:          displayName,
		Description:          description,
		Category:             category,
		Version:              version,
		TaskType:             taskType,
		ImplementationStatus: status,
		InputSchema:          map[string]interface{}{},
		OutputSchema:         map[string]interface{}{},
		ErrorCodes:           []string{"INVALID_INPUT"},
		Timeout:              timeout,
		Workflows:            []string{},
		Tags:                 []string{},
	}
}

// loadForEdit reads path, starting from an empty registry when it does not exist.
func loadForEdit(path string) (*registry.ActivityRegistry, error) {
	reg, err := registry.LoadRegistry(path)
	if err == nil {
		return reg, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return &registry.ActivityRegistry{Version: "1.0.0"}, nil
	}
	return nil, fmt.Errorf("failed to load registry: %w", err)
}

func addActivity(path string, activity registry.Activity) error {
	if err := validation.ValidateActivityNaming(activity.ID); err != nil {
		return err
	}

	reg, err := loadForEdit(path)
	if err != nil {
		return err
	}
	if err := reg.Add(activity); err != nil {
		return err
	}
	if err := reg.Validate(); err != nil {
		return err
	}
	return registry.Save(reg, path)
}

func updateActivity(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	activity, ok := reg.FindByID(id)
	if !ok {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		activity.ImplementationStatus = value
	case "version":
		activity.Version = value
	case "description":
		activity.Description = value
	case "displayName":
		activity.DisplayName = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout %q: %w", value, err)
		}
		activity.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil || retries < 0 {
			return fmt.Errorf("invalid retries value %q", value)
		}
		activity.Retries = retries
	default:
		return fmt.Errorf("unsupported field for update: %s", field)
	}

	if err := reg.Validate(); err != nil {
		return err
	}
	return registry.Save(reg, path)
}

// validateRegistry checks the registry structure, activity naming and that
// every input schema compiles.
func validateRegistry(path string) (int, error) {
	reg, err := registry.LoadOrDefault(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return 0, err
	}
	for _, activity := range reg.Activities {
		if err := validation.ValidateActivityNaming(activity.ID); err != nil {
			return 0, fmt.Errorf("activity %s: %w", activity.ID, err)
		}
	}
	if _, err := validation.NewValidator(reg); err != nil {
		return 0, err
	}
	return len(reg.Activities), nil
}

func exportDefault(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("%s already exists (use -force to overwrite)", path)
	}
	reg, err := registry.Default()
	if err != nil {
		return err
	}
	return registry.Save(reg, path)
}

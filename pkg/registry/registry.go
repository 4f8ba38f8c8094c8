// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"procurement-workers/internal/common/validation"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// Validate checks required fields, unique IDs and task types, and that every
// timeout parses as a duration.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, activity := range r.Activities {
		if activity.ID == "" {
			return fmt.Errorf("activity missing required field: ID")
		}
		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity ID: %s", activity.ID)
		}
		ids[activity.ID] = true

		if activity.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: DisplayName", activity.ID)
		}
		if activity.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: TaskType", activity.ID)
		}
		if taskTypes[activity.TaskType] {
			return fmt.Errorf("activity %s reuses task type %s", activity.ID, activity.TaskType)
		}
		taskTypes[activity.TaskType] = true

		if activity.Category == "" {
			return fmt.Errorf("activity %s missing required field: Category", activity.ID)
		}
		if activity.Timeout != "" {
			if _, err := time.ParseDuration(activity.Timeout); err != nil {
				return fmt.Errorf("activity %s has invalid timeout %q: %w", activity.ID, activity.Timeout, err)
			}
		}
	}
	return nil
}

// Find returns the activity registered for taskType.
func (r *ActivityRegistry) Find(taskType string) (Activity, bool) {
	for _, activity := range r.Activities {
		if activity.TaskType == taskType {
			return activity, true
		}
	}
	return Activity{}, false
}

// ValidateInput checks job variables against the activity's input schema.
func (a Activity) ValidateInput(doc []byte) (*validation.ValidationResult, error) {
	return validateAgainst(a.InputSchema, doc)
}

// ValidateOutput checks completion variables against the output schema.
func (a Activity) ValidateOutput(doc []byte) (*validation.ValidationResult, error) {
	return validateAgainst(a.OutputSchema, doc)
}

func validateAgainst(schema map[string]interface{}, doc []byte) (*validation.ValidationResult, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	v, err := validation.NewValidator(string(raw))
	if err != nil {
		return nil, err
	}
	return v.ValidateBytes(doc), nil
}

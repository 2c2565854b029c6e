package workflows

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// SchemaVersion is the current workflow schema version
const SchemaVersion = 1

// DefaultDelay is the wait after a step that has no delay configured.
const DefaultDelay = 2000 * time.Millisecond

// Workflow is a named, ordered sequence of app launches.
type Workflow struct {
	SchemaVersion int            `yaml:"schema_version" json:"-"`
	ID            string         `yaml:"id,omitempty" json:"id"`
	Name          string         `yaml:"name" json:"name"` // Required
	Description   string         `yaml:"description,omitempty" json:"description,omitempty"`
	Steps         []WorkflowStep `yaml:"steps" json:"steps"`
}

// WorkflowStep launches one catalog app and then waits DelayMs before the
// next step starts.
type WorkflowStep struct {
	ID          string `yaml:"id,omitempty" json:"id"`
	AppID       string `yaml:"app_id" json:"appId"` // Required
	Name        string `yaml:"name,omitempty" json:"name,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	DelayMs     int    `yaml:"delay_ms,omitempty" json:"delayMs,omitempty"` // 0 means DefaultDelay
}

// Delay returns the wait that follows this step. Unset delays use fallback.
func (s *WorkflowStep) Delay(fallback time.Duration) time.Duration {
	if s.DelayMs > 0 {
		return time.Duration(s.DelayMs) * time.Millisecond
	}
	return fallback
}

// Validate validates the workflow structure and content
func (w *Workflow) Validate() error {
	if w.Name == "" {
		return errors.New("workflow name is required")
	}

	if len(w.Steps) == 0 {
		return errors.New("workflow must have at least one step")
	}

	for i, step := range w.Steps {
		if err := step.Validate(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}

	return nil
}

// Validate validates a step
func (s *WorkflowStep) Validate() error {
	if s.AppID == "" {
		return errors.New("step app_id is required")
	}
	if s.DelayMs < 0 {
		return fmt.Errorf("step delay_ms must be >= 0; got %d", s.DelayMs)
	}
	return nil
}

// AssignIDs gives the workflow and each step a UUID when missing.
func (w *Workflow) AssignIDs() {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	for i := range w.Steps {
		if w.Steps[i].ID == "" {
			w.Steps[i].ID = uuid.New().String()
		}
	}
}

// UnmarshalWorkflow unmarshals a workflow from YAML bytes
func UnmarshalWorkflow(data []byte) (*Workflow, error) {
	var wf Workflow
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflow: %w", err)
	}

	if err := wf.Validate(); err != nil {
		return nil, fmt.Errorf("workflow validation failed: %w", err)
	}

	return &wf, nil
}

// MarshalWorkflow marshals a workflow to YAML bytes
func MarshalWorkflow(wf *Workflow) ([]byte, error) {
	if wf.SchemaVersion == 0 {
		wf.SchemaVersion = SchemaVersion
	}
	data, err := yaml.Marshal(wf)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal workflow: %w", err)
	}
	return data, nil
}

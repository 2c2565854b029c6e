package workflows

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadYAML reads and unmarshals a workflow from a YAML file.
//
// LoadYAML combines file reading with validation - it returns an error
// if the file cannot be read or if the workflow content is invalid.
func LoadYAML(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return UnmarshalWorkflow(data)
}

// LoadYAMLReader unmarshals a workflow from an io.Reader.
func LoadYAMLReader(r io.Reader) (*Workflow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return UnmarshalWorkflow(data)
}

// StepSpec is a step given on the command line as "app" or "app:delayMs".
// App is a free-text name resolved against the catalog later.
type StepSpec struct {
	App     string
	DelayMs int
}

// ParseStepSpec parses "app" or "app:delayMs". The delay is split on the
// last colon so app names may contain colons. An explicit delay must be at
// least 1ms.
func ParseStepSpec(s string) (StepSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StepSpec{}, fmt.Errorf("empty step")
	}

	idx := strings.LastIndex(s, ":")
	if idx < 0 {
		return StepSpec{App: s}, nil
	}

	delay, err := strconv.Atoi(strings.TrimSpace(s[idx+1:]))
	if err != nil {
		// Not a delay suffix; treat the whole string as the app name
		return StepSpec{App: s}, nil
	}
	if delay < 0 {
		return StepSpec{}, fmt.Errorf("step %q: delay must be >= 0", s)
	}
	if delay == 0 {
		// A stored delay of 0 means "use the default", so it cannot ask for no wait
		return StepSpec{}, fmt.Errorf("step %q: a delay of 0 would use the default wait; omit it for the default or use 1 for the shortest wait", s)
	}

	app := strings.TrimSpace(s[:idx])
	if app == "" {
		return StepSpec{}, fmt.Errorf("step %q: app name is required", s)
	}
	return StepSpec{App: app, DelayMs: delay}, nil
}

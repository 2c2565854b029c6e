// Package apps defines the catalog entries launchdeck can open and close.
package apps

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// SchemaVersion is the current catalog file schema version
const SchemaVersion = 1

// AppRecord is one application or website in a user's catalog.
type AppRecord struct {
	ID             string    `yaml:"id" json:"id"`
	Name           string    `yaml:"name" json:"name"`
	URL            string    `yaml:"url,omitempty" json:"url,omitempty"`
	Path           string    `yaml:"path,omitempty" json:"path,omitempty"` // Local executable (desktop only)
	Category       string    `yaml:"category,omitempty" json:"category,omitempty"`
	Description    string    `yaml:"description,omitempty" json:"description,omitempty"`
	Thumbnail      string    `yaml:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	Tags           []string  `yaml:"tags,omitempty" json:"tags,omitempty"`
	OfflineCapable bool      `yaml:"offline_capable,omitempty" json:"offlineCapable"`
	CreatedAt      time.Time `yaml:"created_at,omitempty" json:"createdAt,omitempty"`
}

// Catalog is the on-disk apps.yaml document.
type Catalog struct {
	SchemaVersion int         `yaml:"schema_version"`
	Apps          []AppRecord `yaml:"apps"`
}

// Target returns what a launcher should open: the local path when one is
// tracked, otherwise the URL.
func (a *AppRecord) Target() string {
	if a.Path != "" {
		return a.Path
	}
	return a.URL
}

// IsLocal reports whether the app is a tracked local executable.
func (a *AppRecord) IsLocal() bool {
	return a.Path != ""
}

// IsURL reports whether target is a URL with a scheme, including deep links
// such as slack://open or spotify:, rather than a filesystem path.
func IsURL(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	// Windows drive letters parse as a one-letter scheme
	return len(u.Scheme) > 1 && (u.Host != "" || strings.HasPrefix(target, u.Scheme+":"))
}

var launchURL = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" || IsURL(s) {
		return nil
	}
	return errors.New("must be a URL with a scheme, such as https://example.com or slack://open")
})

// Validate validates an app record.
func (a *AppRecord) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Name, validation.Required.Error("app name is required")),
		validation.Field(&a.URL,
			validation.When(a.Path == "", validation.Required.Error("app url or path is required")),
			launchURL),
		validation.Field(&a.Thumbnail, is.URL),
	)
}

// Normalize fills defaults for a record about to be stored: a fresh ID, a
// trimmed name, a creation time and a category from the classifier.
func (a *AppRecord) Normalize(now time.Time) {
	a.Name = strings.TrimSpace(a.Name)
	a.URL = strings.TrimSpace(a.URL)
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now.UTC()
	}
	if a.Category == "" {
		a.Category = Categorize(*a)
	}
}

// UnmarshalCatalog parses an apps.yaml document. Entries are not
// validated; use Valid to pick the usable ones.
func UnmarshalCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	return &c, nil
}

// Valid returns the entries that pass validation, in file order, and one
// error per entry that does not. A repeated ID keeps its first entry.
func (c *Catalog) Valid() ([]AppRecord, []error) {
	records := make([]AppRecord, 0, len(c.Apps))
	var problems []error

	seen := make(map[string]bool, len(c.Apps))
	for i := range c.Apps {
		app := c.Apps[i]
		if err := app.Validate(); err != nil {
			problems = append(problems, fmt.Errorf("app %d (%s): %w", i, app.Name, err))
			continue
		}
		if app.ID != "" {
			if seen[app.ID] {
				problems = append(problems, fmt.Errorf("app %d (%s): duplicate id %q", i, app.Name, app.ID))
				continue
			}
			seen[app.ID] = true
		}
		records = append(records, app)
	}
	return records, problems
}

// MarshalCatalog marshals a catalog to YAML bytes.
func MarshalCatalog(c *Catalog) ([]byte, error) {
	if c.SchemaVersion == 0 {
		c.SchemaVersion = SchemaVersion
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return data, nil
}

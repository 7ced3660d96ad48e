// Package template persists named effect and background combinations so a
// look can be reapplied to other images.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/canvasfx/pkg/effects"
)

var (
	// ErrNotFound is returned when no template has the requested ID.
	ErrNotFound = errors.New("template not found")

	// ErrInvalid is returned for requests missing required fields or
	// carrying an unknown status.
	ErrInvalid = errors.New("invalid template")
)

// Status controls whether a template is offered to users.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Template is a saved look. It never stores image pixels.
type Template struct {
	ID             string                 `json:"id" yaml:"id"`
	Name           string                 `json:"name" yaml:"name"`
	Description    string                 `json:"description,omitempty" yaml:"description,omitempty"`
	ImageEffects   effects.ImageEffects   `json:"imageEffects" yaml:"imageEffects"`
	BackgroundData effects.BackgroundData `json:"backgroundData" yaml:"backgroundData"`
	Status         Status                 `json:"status" yaml:"status"`
	CreatedAt      time.Time              `json:"createdAt" yaml:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt" yaml:"updatedAt"`
}

// DecodeCreateRequest parses a create request body. name, imageEffects and
// backgroundData are required. A previewImage field is dropped. Effects and
// background fields missing from the body take their defaults, and a
// missing status means inactive.
func DecodeCreateRequest(data []byte) (Template, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Template{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	delete(fields, "previewImage")

	var missing []string
	for _, key := range []string{"name", "imageEffects", "backgroundData"} {
		if raw, ok := fields[key]; !ok || isNull(raw) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return Template{}, fmt.Errorf("%w: missing required fields: %s", ErrInvalid, strings.Join(missing, ", "))
	}

	t := Template{Status: StatusInactive}
	if err := json.Unmarshal(fields["name"], &t.Name); err != nil || strings.TrimSpace(t.Name) == "" {
		return Template{}, fmt.Errorf("%w: name must be a non-empty string", ErrInvalid)
	}
	if raw, ok := fields["description"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &t.Description); err != nil {
			return Template{}, fmt.Errorf("%w: description: %v", ErrInvalid, err)
		}
	}
	if raw, ok := fields["status"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &t.Status); err != nil || !t.Status.Valid() {
			return Template{}, fmt.Errorf("%w: unknown status %s", ErrInvalid, raw)
		}
	}

	var err error
	if t.ImageEffects, err = effects.LoadEffects(fields["imageEffects"]); err != nil {
		return Template{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if t.BackgroundData, err = effects.LoadBackground(fields["backgroundData"]); err != nil {
		return Template{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return t, nil
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// ExportYAML renders the template as a YAML document for sharing.
func (t Template) ExportYAML() ([]byte, error) {
	data, err := yaml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("export template %s: %w", t.ID, err)
	}
	return data, nil
}

package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of an entity seed file.
type ImportSchema struct {
	Defaults *DefaultsImport `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	Entities []EntityImport  `json:"entities" yaml:"entities"`
}

// DefaultsImport holds values that cascade to entities that leave them blank.
type DefaultsImport struct {
	Status string       `json:"status,omitempty" yaml:"status,omitempty"`
	Owner  *OwnerImport `json:"owner,omitempty" yaml:"owner,omitempty"`
	Client string       `json:"client,omitempty" yaml:"client,omitempty"`
	Tags   []string     `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// OwnerImport references the person responsible for an entity.
type OwnerImport struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// EntityImport defines one entity in the seed file.
type EntityImport struct {
	Ref       string          `json:"ref" yaml:"ref"`
	Title     string          `json:"title" yaml:"title"`
	Status    string          `json:"status,omitempty" yaml:"status,omitempty"`
	StartDate *string         `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate   *string         `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	Owner     *OwnerImport    `json:"owner,omitempty" yaml:"owner,omitempty"`
	Client    string          `json:"client,omitempty" yaml:"client,omitempty"`
	Progress  *float64        `json:"progress,omitempty" yaml:"progress,omitempty"`
	Tags      []string        `json:"tags,omitempty" yaml:"tags,omitempty"`
	SubItems  []SubItemImport `json:"sub_items,omitempty" yaml:"sub_items,omitempty"`
}

// SubItemImport defines a checklist entry of an entity.
type SubItemImport struct {
	Name      string `json:"name" yaml:"name"`
	Completed bool   `json:"completed,omitempty" yaml:"completed,omitempty"`
	Kind      string `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// LoadImportSchema reads a seed file. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON decodes a JSON seed document.
func ParseJSON(data []byte) (*ImportSchema, error) {
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}

// ParseYAML decodes a YAML seed document.
func ParseYAML(data []byte) (*ImportSchema, error) {
	var schema ImportSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}

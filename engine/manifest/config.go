package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Flow Type
// -----------------------------------------------------------------------------

type FlowType string

const (
	FlowTypeSync   FlowType = "sync"
	FlowTypeAction FlowType = "action"
)

func (t FlowType) String() string {
	return string(t)
}

// -----------------------------------------------------------------------------
// Raw document
// -----------------------------------------------------------------------------

// Document is the raw integration manifest. Both sections are kept as yaml
// nodes so that provider, flow and model field order follow the manifest.
type Document struct {
	Integrations yaml.Node `yaml:"integrations"`
	Models       yaml.Node `yaml:"models"`
}

// ModelNames lists every model declared in the models section, in manifest
// order.
func (d *Document) ModelNames() []string {
	if d.Models.Kind != yaml.MappingNode {
		return nil
	}
	names := make([]string, 0, len(d.Models.Content)/2)
	for i := 0; i+1 < len(d.Models.Content); i += 2 {
		names = append(names, d.Models.Content[i].Value)
	}
	return names
}

// FlowDefinition is one sync or action entry inside a provider section.
type FlowDefinition struct {
	Type         string         `yaml:"type"          validate:"omitempty,oneof=sync action"`
	Runs         string         `yaml:"runs"`
	Returns      StringList     `yaml:"returns"`
	TrackDeletes bool           `yaml:"track_deletes"`
	AutoStart    *bool          `yaml:"auto_start"`
	Attributes   map[string]any `yaml:"attributes"`
	Description  string         `yaml:"description"`
	Scopes       StringList     `yaml:"scopes"`
	Metadata     *FlowMetadata  `yaml:"metadata"`
}

// FlowMetadata carries the legacy nested description/scopes fields.
type FlowMetadata struct {
	Description string     `yaml:"description"`
	Scopes      StringList `yaml:"scopes"`
}

// StringList accepts either a single scalar or a sequence of strings.
type StringList []string

func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var single string
		if err := value.Decode(&single); err != nil {
			return err
		}
		if single == "" {
			*s = nil
			return nil
		}
		*s = StringList{single}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*s = StringList(list)
		return nil
	default:
		return fmt.Errorf("expected a string or a list of strings")
	}
}

// -----------------------------------------------------------------------------
// Normalized view
// -----------------------------------------------------------------------------

// SimplifiedIntegration is the flattened view of one provider section.
type SimplifiedIntegration struct {
	ProviderConfigKey string       `json:"providerConfigKey"`
	Syncs             []FlowConfig `json:"syncs"`
	Actions           []FlowConfig `json:"actions"`
}

// FlowConfig is the normalized descriptor for one sync or action. Descriptors
// are produced once per build invocation and shared read-only afterwards.
type FlowConfig struct {
	Name         string         `json:"name"          validate:"required"`
	Type         FlowType       `json:"type"          validate:"required,oneof=sync action"`
	Runs         string         `json:"runs,omitempty"`
	TrackDeletes bool           `json:"track_deletes"`
	AutoStart    bool           `json:"auto_start"`
	Attributes   map[string]any `json:"attributes,omitempty"`
	Returns      []string       `json:"returns"`
	Models       []ModelSchema  `json:"models"`
	Description  string         `json:"description,omitempty"`
	Scopes       []string       `json:"scopes,omitempty"`
}

// ModelSchema is the resolved field schema for one returned model.
type ModelSchema struct {
	Name   string       `json:"name"`
	Fields []ModelField `json:"fields"`
}

type ModelField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

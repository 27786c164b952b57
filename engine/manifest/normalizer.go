package manifest

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const extendsKey = "__extends"

// primitiveTypes maps builtin scalar type tags to the emitted field types.
// Names in this table are never looked up as user models.
var primitiveTypes = map[string]string{
	"any":       "any",
	"bigint":    "number",
	"bool":      "boolean",
	"boolean":   "boolean",
	"char":      "string",
	"date":      "Date",
	"float":     "number",
	"int":       "number",
	"integer":   "number",
	"null":      "null",
	"number":    "number",
	"object":    "object",
	"string":    "string",
	"undefined": "undefined",
	"varchar":   "string",
}

// IsPrimitive reports whether name is a builtin scalar type tag rather than a
// user model.
func IsPrimitive(name string) bool {
	_, ok := primitiveTypes[strings.ToLower(name)]
	return ok
}

// MapFieldType converts a manifest type tag into the emitted field type.
// Union members split on "|" are mapped independently; unknown members pass
// through unchanged.
func MapFieldType(raw string) string {
	parts := strings.Split(raw, "|")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if mapped, ok := primitiveTypes[strings.ToLower(part)]; ok {
			parts[i] = mapped
		} else {
			parts[i] = part
		}
	}
	return strings.Join(parts, " | ")
}

// Normalize flattens the manifest into per-provider descriptors with resolved
// model field schemas. Providers and flows keep manifest order. Missing
// models never fail normalization; the flow is emitted with an empty field
// list and rejected later by the linter or the packager with a precise
// diagnostic. Extension cycles and duplicate flow names abort the call.
func Normalize(doc *Document) ([]SimplifiedIntegration, error) {
	models := newModelIndex(&doc.Models)
	out := []SimplifiedIntegration{}
	if doc.Integrations.Kind != yaml.MappingNode {
		return out, nil
	}
	seen := make(map[string]string)
	for i := 0; i+1 < len(doc.Integrations.Content); i += 2 {
		providerKey := doc.Integrations.Content[i].Value
		providerNode := doc.Integrations.Content[i+1]
		integration := SimplifiedIntegration{
			ProviderConfigKey: providerKey,
			Syncs:             []FlowConfig{},
			Actions:           []FlowConfig{},
		}
		if providerNode.Kind == yaml.MappingNode {
			for j := 0; j+1 < len(providerNode.Content); j += 2 {
				flowName := providerNode.Content[j].Value
				if firstProvider, dup := seen[flowName]; dup {
					return nil, NewDuplicateFlowError(flowName, firstProvider, providerKey)
				}
				seen[flowName] = providerKey

				var def FlowDefinition
				if err := providerNode.Content[j+1].Decode(&def); err != nil {
					return nil, NewDecodeError(err)
				}
				flow, err := buildFlow(flowName, &def, models)
				if err != nil {
					return nil, err
				}
				if flow.Type == FlowTypeAction {
					integration.Actions = append(integration.Actions, flow)
				} else {
					integration.Syncs = append(integration.Syncs, flow)
				}
			}
		}
		out = append(out, integration)
	}
	return out, nil
}

// ResolveModels resolves the field schema of every model declared in the
// manifest, in manifest order.
func ResolveModels(doc *Document) ([]ModelSchema, error) {
	models := newModelIndex(&doc.Models)
	out := make([]ModelSchema, 0, len(doc.Models.Content)/2)
	for _, name := range doc.ModelNames() {
		fields, err := models.Resolve(name)
		if err != nil {
			return nil, err
		}
		out = append(out, ModelSchema{Name: name, Fields: fields})
	}
	return out, nil
}

func buildFlow(name string, def *FlowDefinition, models *modelIndex) (FlowConfig, error) {
	flowType := FlowType(def.Type)
	if def.Type == "" {
		flowType = FlowTypeSync
	}
	autoStart := true
	if def.AutoStart != nil {
		autoStart = *def.AutoStart
	}

	// Explicit top-level description/scopes win over the legacy metadata block.
	description := def.Description
	scopes := []string(def.Scopes)
	if def.Metadata != nil {
		if description == "" {
			description = def.Metadata.Description
		}
		if len(scopes) == 0 {
			scopes = []string(def.Metadata.Scopes)
		}
	}

	flow := FlowConfig{
		Name:         name,
		Type:         flowType,
		Runs:         def.Runs,
		TrackDeletes: def.TrackDeletes,
		AutoStart:    autoStart,
		Attributes:   def.Attributes,
		Returns:      []string(def.Returns),
		Models:       []ModelSchema{},
		Description:  description,
		Scopes:       scopes,
	}
	for _, ret := range def.Returns {
		if IsPrimitive(ret) {
			continue
		}
		fields, err := models.Resolve(ret)
		if err != nil {
			return FlowConfig{}, err
		}
		flow.Models = append(flow.Models, ModelSchema{Name: ret, Fields: fields})
	}
	return flow, nil
}

// -----------------------------------------------------------------------------
// Model index
// -----------------------------------------------------------------------------

type modelIndex struct {
	node *yaml.Node
}

func newModelIndex(node *yaml.Node) *modelIndex {
	return &modelIndex{node: node}
}

// lookup finds a model entry by exact name, falling back to the singular form
// when the exact name is absent and the requested name ends in "s".
func (m *modelIndex) lookup(name string) (*yaml.Node, string, bool) {
	if m.node.Kind != yaml.MappingNode {
		return nil, "", false
	}
	for i := 0; i+1 < len(m.node.Content); i += 2 {
		if m.node.Content[i].Value == name {
			return m.node.Content[i+1], name, true
		}
	}
	if strings.HasSuffix(name, "s") {
		singular := strings.TrimSuffix(name, "s")
		for i := 0; i+1 < len(m.node.Content); i += 2 {
			if m.node.Content[i].Value == singular {
				return m.node.Content[i+1], singular, true
			}
		}
	}
	return nil, "", false
}

// Resolve returns the flattened field list for a model name, or nil when the
// model is not declared.
func (m *modelIndex) Resolve(name string) ([]ModelField, error) {
	return m.resolve(name, map[string]bool{}, nil)
}

func (m *modelIndex) resolve(name string, visiting map[string]bool, path []string) ([]ModelField, error) {
	node, canonical, ok := m.lookup(name)
	if !ok {
		return nil, nil
	}
	if visiting[canonical] {
		return nil, NewSchemaCycleError(append(path, canonical))
	}
	visiting[canonical] = true
	defer delete(visiting, canonical)
	return m.resolveNode(node, visiting, append(path, canonical))
}

// resolveNode flattens one field-schema mapping. Extended models are spliced
// in first, in listed order, followed by the model's own fields in manifest
// order. Nested mappings emit dotted field paths.
func (m *modelIndex) resolveNode(node *yaml.Node, visiting map[string]bool, path []string) ([]ModelField, error) {
	if node.Kind != yaml.MappingNode {
		return nil, nil
	}
	fields := []ModelField{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != extendsKey {
			continue
		}
		for _, parent := range splitList(node.Content[i+1].Value) {
			parentFields, err := m.resolve(parent, visiting, path)
			if err != nil {
				return nil, err
			}
			fields = append(fields, parentFields...)
		}
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if key == extendsKey {
			continue
		}
		value := node.Content[i+1]
		switch value.Kind {
		case yaml.ScalarNode:
			fields = append(fields, ModelField{Name: key, Type: MapFieldType(value.Value)})
		case yaml.MappingNode:
			sub, err := m.resolveNode(value, visiting, path)
			if err != nil {
				return nil, err
			}
			for _, f := range sub {
				fields = append(fields, ModelField{Name: key + "." + f.Name, Type: f.Type})
			}
		}
	}
	return fields, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

package typegen

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/syncbuild/syncbuild/engine/manifest"
	"github.com/syncbuild/syncbuild/pkg/logger"
)

// hostDeclarations is appended verbatim to the generated file so script
// authors get typed host objects without installing anything.
//
//go:embed host.d.ts
var hostDeclarations string

const fileTemplate = `// Generated by syncbuild. Do not edit.
{{ range .Models }}
export interface {{ .Name }} {
{{ .Body | indent 4 }}
}
{{ end }}
{{ .HostDeclarations }}

export const flowConfig = {{ .FlowConfig }} as const;
`

type modelView struct {
	Name string
	Body string
}

type fileView struct {
	Models           []modelView
	HostDeclarations string
	FlowConfig       string
}

// Generate writes the declarations file for the given manifest: one
// interface per model, the host object declarations, and the normalized
// flow configuration as a typed constant.
func Generate(ctx context.Context, dir string, models []manifest.ModelSchema, integrations []manifest.SimplifiedIntegration) error {
	flowConfig, err := json.MarshalIndent(integrations, "", "    ")
	if err != nil {
		return NewEncodeError(err)
	}

	view := fileView{
		Models:           make([]modelView, 0, len(models)),
		HostDeclarations: strings.TrimRight(hostDeclarations, "\n"),
		FlowConfig:       string(flowConfig),
	}
	for _, model := range models {
		view.Models = append(view.Models, modelView{
			Name: model.Name,
			Body: renderFields(buildTree(model.Fields)),
		})
	}

	tpl, err := template.New("models").Funcs(sprig.FuncMap()).Parse(fileTemplate)
	if err != nil {
		return NewRenderError(err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, view); err != nil {
		return NewRenderError(err)
	}

	dest := filepath.Join(dir, "models.ts")
	if err := os.WriteFile(dest, buf.Bytes(), 0o644); err != nil {
		return NewWriteError(dest, err)
	}
	logger.FromContext(ctx).Info("generated model declarations", "file", dest, "models", len(models))
	return nil
}

// -----------------------------------------------------------------------------
// Field tree
// -----------------------------------------------------------------------------

// fieldNode is one property in a generated interface. A node either carries
// a leaf type or children reconstructed from dotted field paths.
type fieldNode struct {
	name     string
	typ      string
	children []*fieldNode
}

// buildTree re-nests dotted field paths (owner.login) into object
// properties, preserving the order fields first appear in.
func buildTree(fields []manifest.ModelField) []*fieldNode {
	root := &fieldNode{}
	for _, field := range fields {
		node := root
		parts := strings.Split(field.Name, ".")
		for i, part := range parts {
			child := node.child(part)
			if child == nil {
				child = &fieldNode{name: part}
				node.children = append(node.children, child)
			}
			if i == len(parts)-1 {
				child.typ = field.Type
			}
			node = child
		}
	}
	return root.children
}

func (n *fieldNode) child(name string) *fieldNode {
	for _, child := range n.children {
		if child.name == name {
			return child
		}
	}
	return nil
}

func renderFields(fields []*fieldNode) string {
	var b strings.Builder
	writeFields(&b, fields, 0)
	return strings.TrimRight(b.String(), "\n")
}

func writeFields(b *strings.Builder, fields []*fieldNode, depth int) {
	indent := strings.Repeat("    ", depth)
	for _, field := range fields {
		if len(field.children) > 0 {
			b.WriteString(indent + field.name + ": {\n")
			writeFields(b, field.children, depth+1)
			b.WriteString(indent + "};\n")
			continue
		}
		b.WriteString(indent + field.name + ": " + field.typ + ";\n")
	}
}

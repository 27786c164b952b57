package typegen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncbuild/syncbuild/engine/manifest"
)

func generate(t *testing.T, models []manifest.ModelSchema, integrations []manifest.SimplifiedIntegration) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, Generate(context.Background(), dir, models, integrations))
	content, err := os.ReadFile(filepath.Join(dir, "models.ts"))
	require.NoError(t, err)
	return string(content)
}

func Test_Generate(t *testing.T) {
	t.Run("Should emit one interface per model with fields in order", func(t *testing.T) {
		content := generate(t, []manifest.ModelSchema{
			{Name: "Issue", Fields: []manifest.ModelField{
				{Name: "id", Type: "number"},
				{Name: "title", Type: "string"},
			}},
			{Name: "Label", Fields: []manifest.ModelField{
				{Name: "name", Type: "string"},
			}},
		}, nil)
		assert.Contains(t, content, "export interface Issue {\n    id: number;\n    title: string;\n}")
		assert.Contains(t, content, "export interface Label {\n    name: string;\n}")
		assert.Less(t, strings.Index(content, "interface Issue"), strings.Index(content, "interface Label"))
	})

	t.Run("Should re-nest dotted field paths into object properties", func(t *testing.T) {
		content := generate(t, []manifest.ModelSchema{
			{Name: "Issue", Fields: []manifest.ModelField{
				{Name: "id", Type: "number"},
				{Name: "owner.login", Type: "string"},
				{Name: "owner.id", Type: "number"},
			}},
		}, nil)
		assert.Contains(t, content, "owner: {\n        login: string;\n        id: number;\n    };")
	})

	t.Run("Should append host declarations", func(t *testing.T) {
		content := generate(t, nil, nil)
		assert.Contains(t, content, "interface NangoSync extends HostBase")
		assert.Contains(t, content, "interface NangoAction extends HostBase")
		assert.Contains(t, content, "batchSave<T = any>(records: T[], model: string)")
	})

	t.Run("Should serialize the flow configuration as a typed constant", func(t *testing.T) {
		content := generate(t, nil, []manifest.SimplifiedIntegration{
			{
				ProviderConfigKey: "github",
				Syncs: []manifest.FlowConfig{
					{Name: "issues-sync", Type: manifest.FlowTypeSync, Runs: "every half hour", Returns: []string{"Issue"}},
				},
			},
		})
		assert.Contains(t, content, "export const flowConfig = [")
		assert.Contains(t, content, `"providerConfigKey": "github"`)
		assert.Contains(t, content, `"name": "issues-sync"`)
		assert.Contains(t, content, "] as const;")
	})
}

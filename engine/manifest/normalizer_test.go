package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDoc(t *testing.T, source string) *Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), "integrations.yaml")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	doc, err := Load(path)
	require.NoError(t, err)
	return doc
}

func Test_Normalize(t *testing.T) {
	t.Run("Should emit a descriptor with resolved and mapped model fields", func(t *testing.T) {
		doc := loadDoc(t, `
integrations:
  demo-provider:
    demo:
      runs: every half hour
      returns: Widget
models:
  Widget:
    id: integer
    name: string
`)
		integrations, err := Normalize(doc)
		require.NoError(t, err)
		require.Len(t, integrations, 1)
		assert.Equal(t, "demo-provider", integrations[0].ProviderConfigKey)
		require.Len(t, integrations[0].Syncs, 1)
		assert.Empty(t, integrations[0].Actions)

		sync := integrations[0].Syncs[0]
		assert.Equal(t, "demo", sync.Name)
		assert.Equal(t, FlowTypeSync, sync.Type)
		assert.Equal(t, "every half hour", sync.Runs)
		assert.False(t, sync.TrackDeletes)
		assert.True(t, sync.AutoStart)
		require.Len(t, sync.Models, 1)
		assert.Equal(t, "Widget", sync.Models[0].Name)
		assert.Equal(t, []ModelField{
			{Name: "id", Type: "number"},
			{Name: "name", Type: "string"},
		}, sync.Models[0].Fields)
	})

	t.Run("Should separate syncs and actions and default the type to sync", func(t *testing.T) {
		doc := loadDoc(t, `
integrations:
  hubspot:
    import-contacts:
      runs: every hour
      returns: Contact
    create-contact:
      type: action
      returns: Contact
models:
  Contact:
    id: string
`)
		integrations, err := Normalize(doc)
		require.NoError(t, err)
		require.Len(t, integrations, 1)
		require.Len(t, integrations[0].Syncs, 1)
		require.Len(t, integrations[0].Actions, 1)
		assert.Equal(t, "import-contacts", integrations[0].Syncs[0].Name)
		assert.Equal(t, "create-contact", integrations[0].Actions[0].Name)
		assert.Equal(t, FlowTypeAction, integrations[0].Actions[0].Type)
	})

	t.Run("Should splice extended models before the model's own fields", func(t *testing.T) {
		doc := loadDoc(t, `
integrations: {}
models:
  A:
    a1: string
    a2: integer
  B:
    b1: boolean
  C:
    __extends: "A, B"
    c1: date
`)
		schemas, err := ResolveModels(doc)
		require.NoError(t, err)
		require.Len(t, schemas, 3)
		assert.Equal(t, []ModelField{
			{Name: "a1", Type: "string"},
			{Name: "a2", Type: "number"},
			{Name: "b1", Type: "boolean"},
			{Name: "c1", Type: "Date"},
		}, schemas[2].Fields)
	})

	t.Run("Should resolve transitive extensions", func(t *testing.T) {
		doc := loadDoc(t, `
integrations: {}
models:
  Base:
    id: string
  Middle:
    __extends: Base
    mid: integer
  Leaf:
    __extends: Middle
    leaf: boolean
`)
		schemas, err := ResolveModels(doc)
		require.NoError(t, err)
		assert.Equal(t, []ModelField{
			{Name: "id", Type: "string"},
			{Name: "mid", Type: "number"},
			{Name: "leaf", Type: "boolean"},
		}, schemas[2].Fields)
	})

	t.Run("Should reject extension cycles", func(t *testing.T) {
		doc := loadDoc(t, `
integrations: {}
models:
  A:
    __extends: B
  B:
    __extends: A
`)
		_, err := ResolveModels(doc)
		require.Error(t, err)
		var merr *ManifestError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, ErrCodeSchemaCycle, merr.Code)
	})

	t.Run("Should emit dotted paths for nested field schemas", func(t *testing.T) {
		doc := loadDoc(t, `
integrations: {}
models:
  Ticket:
    id: string
    owner:
      name: string
      address:
        city: string
`)
		schemas, err := ResolveModels(doc)
		require.NoError(t, err)
		assert.Equal(t, []ModelField{
			{Name: "id", Type: "string"},
			{Name: "owner.name", Type: "string"},
			{Name: "owner.address.city", Type: "string"},
		}, schemas[0].Fields)
	})

	t.Run("Should fall back to the singular model name", func(t *testing.T) {
		doc := loadDoc(t, `
integrations:
  github:
    list-issues:
      runs: every day
      returns: Issues
models:
  Issue:
    id: integer
`)
		integrations, err := Normalize(doc)
		require.NoError(t, err)
		sync := integrations[0].Syncs[0]
		require.Len(t, sync.Models, 1)
		assert.Equal(t, "Issues", sync.Models[0].Name)
		assert.Equal(t, []ModelField{{Name: "id", Type: "number"}}, sync.Models[0].Fields)
	})

	t.Run("Should map union types per member", func(t *testing.T) {
		doc := loadDoc(t, `
integrations: {}
models:
  Row:
    value: "integer | null"
`)
		schemas, err := ResolveModels(doc)
		require.NoError(t, err)
		assert.Equal(t, "number | null", schemas[0].Fields[0].Type)
	})

	t.Run("Should emit an empty field list for a missing model", func(t *testing.T) {
		doc := loadDoc(t, `
integrations:
  github:
    list-repos:
      runs: every day
      returns: Repository
models: {}
`)
		integrations, err := Normalize(doc)
		require.NoError(t, err)
		sync := integrations[0].Syncs[0]
		require.Len(t, sync.Models, 1)
		assert.Empty(t, sync.Models[0].Fields)
	})

	t.Run("Should exclude primitive pass-through names from model lookup", func(t *testing.T) {
		doc := loadDoc(t, `
integrations:
  github:
    count-stars:
      type: action
      returns: integer
models: {}
`)
		integrations, err := Normalize(doc)
		require.NoError(t, err)
		action := integrations[0].Actions[0]
		assert.Equal(t, []string{"integer"}, action.Returns)
		assert.Empty(t, action.Models)
	})

	t.Run("Should reject duplicate flow names across providers", func(t *testing.T) {
		doc := loadDoc(t, `
integrations:
  github:
    import-things:
      runs: every day
  gitlab:
    import-things:
      runs: every hour
models: {}
`)
		_, err := Normalize(doc)
		require.Error(t, err)
		var merr *ManifestError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, ErrCodeDuplicateFlow, merr.Code)
	})

	t.Run("Should prefer top-level description and scopes over metadata", func(t *testing.T) {
		doc := loadDoc(t, `
integrations:
  github:
    with-top-level:
      runs: every day
      description: top
      scopes: [repo]
      metadata:
        description: legacy
        scopes: [legacy-scope]
    with-metadata:
      runs: every day
      metadata:
        description: legacy
        scopes: legacy-scope
models: {}
`)
		integrations, err := Normalize(doc)
		require.NoError(t, err)
		syncs := integrations[0].Syncs
		require.Len(t, syncs, 2)
		assert.Equal(t, "top", syncs[0].Description)
		assert.Equal(t, []string{"repo"}, syncs[0].Scopes)
		assert.Equal(t, "legacy", syncs[1].Description)
		assert.Equal(t, []string{"legacy-scope"}, syncs[1].Scopes)
	})

	t.Run("Should be idempotent", func(t *testing.T) {
		source := `
integrations:
  github:
    list-issues:
      runs: every half hour
      returns: [Issue, Label]
    close-issue:
      type: action
      returns: Issue
models:
  Issue:
    id: integer
    labels:
      name: string
  Label:
    __extends: Issue
    color: string
`
		first, err := Normalize(loadDoc(t, source))
		require.NoError(t, err)
		second, err := Normalize(loadDoc(t, source))
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func Test_FlowConfigValidate(t *testing.T) {
	t.Run("Should require a cadence for syncs", func(t *testing.T) {
		flow := &FlowConfig{Name: "s", Type: FlowTypeSync}
		err := flow.Validate()
		require.Error(t, err)
		var merr *ManifestError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, ErrCodeMissingRuns, merr.Code)
	})

	t.Run("Should forbid a cadence on actions", func(t *testing.T) {
		flow := &FlowConfig{Name: "a", Type: FlowTypeAction, Runs: "every hour"}
		err := flow.Validate()
		require.Error(t, err)
		var merr *ManifestError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, ErrCodeUnexpectedRuns, merr.Code)
	})

	t.Run("Should reject unknown flow types", func(t *testing.T) {
		flow := &FlowConfig{Name: "w", Type: FlowType("webhook")}
		err := flow.Validate()
		require.Error(t, err)
		var merr *ManifestError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, ErrCodeInvalidType, merr.Code)
	})

	t.Run("Should accept a well-formed sync", func(t *testing.T) {
		flow := &FlowConfig{Name: "s", Type: FlowTypeSync, Runs: "every hour"}
		require.NoError(t, flow.Validate())
	})
}

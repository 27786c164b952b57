package linter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncbuild/syncbuild/engine/manifest"
)

func lintSource(t *testing.T, source string, scriptType manifest.FlowType, models ...string) *Result {
	t.Helper()
	result, err := Lint([]byte(source), "script.ts", scriptType, models)
	require.NoError(t, err)
	return result
}

func Test_Lint(t *testing.T) {
	t.Run("Should accept a well-formed sync script", func(t *testing.T) {
		result := lintSource(t, `
export default async function fetchData(nango: NangoSync): Promise<void> {
    const response = await nango.get({ endpoint: '/issues' });
    await nango.batchSave(response.data, 'Issue');
}
`, manifest.FlowTypeSync, "Issue")
		assert.True(t, result.AwaitedCorrectly)
		assert.True(t, result.UsedCorrectly)
		assert.Empty(t, result.Diagnostics)
	})

	t.Run("Should flag a host call that is neither awaited nor chained", func(t *testing.T) {
		result := lintSource(t, `
export default async function fetchData(nango: NangoSync): Promise<void> {
    nango.batchSave([], 'Issue');
}
`, manifest.FlowTypeSync, "Issue")
		assert.False(t, result.AwaitedCorrectly)
		assert.True(t, result.UsedCorrectly)
		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, SeverityWarning, result.Diagnostics[0].Severity)
		assert.Equal(t, CallBatchSave, result.Diagnostics[0].Call)
		assert.Positive(t, result.Diagnostics[0].Line)
	})

	t.Run("Should accept then and catch continuations", func(t *testing.T) {
		result := lintSource(t, `
export default function fetchData(nango: NangoSync) {
    nango.get({ endpoint: '/a' }).then((res: any) => res.data);
    nango.post({ endpoint: '/b' }).catch((err: any) => err);
}
`, manifest.FlowTypeSync)
		assert.True(t, result.AwaitedCorrectly)
		assert.Empty(t, result.Diagnostics)
	})

	t.Run("Should flag missing await at any nesting depth", func(t *testing.T) {
		result := lintSource(t, `
export default async function fetchData(nango: NangoSync): Promise<void> {
    for (const page of [1, 2, 3]) {
        if (page > 1) {
            try {
                nango.log('deep call');
            } catch (err) {
                await nango.log('caught');
            }
        }
    }
}
`, manifest.FlowTypeSync)
		assert.False(t, result.AwaitedCorrectly)
		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, CallLog, result.Diagnostics[0].Call)
	})

	t.Run("Should not flag calls on other receivers", func(t *testing.T) {
		result := lintSource(t, `
export default async function fetchData(nango: NangoSync): Promise<void> {
    const client = { get: () => null };
    client.get();
    console.log('hello');
    await nango.log('done');
}
`, manifest.FlowTypeSync)
		assert.True(t, result.AwaitedCorrectly)
		assert.True(t, result.UsedCorrectly)
		assert.Empty(t, result.Diagnostics)
	})

	t.Run("Should block batch mutations in action scripts even when awaited", func(t *testing.T) {
		result := lintSource(t, `
export default async function runAction(nango: NangoAction): Promise<void> {
    await nango.batchSave([], 'Widget');
}
`, manifest.FlowTypeAction, "Widget")
		assert.True(t, result.AwaitedCorrectly)
		assert.False(t, result.UsedCorrectly)
		require.Len(t, result.Diagnostics, 1)
		diag := result.Diagnostics[0]
		assert.Equal(t, SeverityError, diag.Severity)
		assert.Equal(t, CallBatchSave, diag.Call)
		assert.Equal(t, 3, diag.Line)
		assert.Contains(t, diag.Message, "batchSave")
	})

	t.Run("Should block setLastSyncDate in action scripts", func(t *testing.T) {
		result := lintSource(t, `
export default async function runAction(nango: NangoAction): Promise<void> {
    await nango.setLastSyncDate(new Date());
}
`, manifest.FlowTypeAction)
		assert.False(t, result.UsedCorrectly)
		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, CallSetLastSyncDate, result.Diagnostics[0].Call)
	})

	t.Run("Should warn on deprecated calls without blocking", func(t *testing.T) {
		result := lintSource(t, `
export default async function fetchData(nango: NangoSync): Promise<void> {
    await nango.batchSend([], 'Issue');
    await nango.getFieldMapping();
}
`, manifest.FlowTypeSync, "Issue")
		assert.True(t, result.UsedCorrectly)
		require.Len(t, result.Diagnostics, 2)
		assert.Equal(t, SeverityWarning, result.Diagnostics[0].Severity)
		assert.Contains(t, result.Diagnostics[0].Message, "batchSave")
		assert.Contains(t, result.Diagnostics[1].Message, "getMetadata")
	})

	t.Run("Should reject model references outside the known set", func(t *testing.T) {
		result := lintSource(t, `
export default async function fetchData(nango: NangoSync): Promise<void> {
    await nango.batchSave([], 'Bogus');
}
`, manifest.FlowTypeSync, "Issue", "Label")
		assert.False(t, result.UsedCorrectly)
		require.Len(t, result.Diagnostics, 1)
		diag := result.Diagnostics[0]
		assert.Equal(t, SeverityError, diag.Severity)
		assert.Contains(t, diag.Message, `"Bogus"`)
		assert.Contains(t, diag.Message, "Issue, Label")
	})

	t.Run("Should skip model validation when the last argument is not a literal", func(t *testing.T) {
		result := lintSource(t, `
export default async function fetchData(nango: NangoSync): Promise<void> {
    const model = 'Issue';
    await nango.batchDelete([], model);
}
`, manifest.FlowTypeSync, "Issue")
		assert.True(t, result.UsedCorrectly)
		assert.Empty(t, result.Diagnostics)
	})

	t.Run("Should return an error for unparseable source", func(t *testing.T) {
		result, err := Lint([]byte("export default function {"), "broken.ts", manifest.FlowTypeSync, nil)
		require.Error(t, err)
		assert.Nil(t, result)
		var lerr *LintError
		require.ErrorAs(t, err, &lerr)
	})
}

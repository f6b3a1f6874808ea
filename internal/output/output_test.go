package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUI() (*UI, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &UI{Out: out, ErrOut: errOut}, out, errOut
}

func TestInfo(t *testing.T) {
	u, out, _ := newTestUI()
	u.Info("found %d projects", 3)
	assert.Contains(t, out.String(), "found 3 projects")
}

func TestSuccess(t *testing.T) {
	u, out, _ := newTestUI()
	u.Success("enabled %s", "web")
	assert.Contains(t, out.String(), "enabled web")
}

func TestSkipAndTodo(t *testing.T) {
	u, out, _ := newTestUI()
	u.Skip("project %s", "a")
	u.Todo("project %s", "b")
	assert.Contains(t, out.String(), "[SKIP]")
	assert.Contains(t, out.String(), "[TODO]")
}

func TestWarning(t *testing.T) {
	u, out, errOut := newTestUI()
	u.Warning("careful %s", "now")
	assert.Contains(t, errOut.String(), "careful now")
	assert.Empty(t, out.String(), "warnings go to the error stream")
}

func TestError(t *testing.T) {
	u, _, errOut := newTestUI()
	u.Error("failed %s", "badly")
	assert.Contains(t, errOut.String(), "failed badly")
}

func TestVerboseLog(t *testing.T) {
	u, out, _ := newTestUI()
	u.VerboseLog("detail %d", 1)
	assert.Empty(t, out.String())

	u.Verbose = true
	u.VerboseLog("detail %d", 2)
	assert.Contains(t, out.String(), "detail 2")
}

func TestDryRunMsg(t *testing.T) {
	u, out, _ := newTestUI()
	u.DryRunMsg("would PATCH %s", "url")
	assert.Empty(t, out.String())

	u.DryRun = true
	u.DryRunMsg("would PATCH %s", "url")
	assert.Contains(t, out.String(), "[DRY-RUN]")
	assert.Contains(t, out.String(), "would PATCH url")
}

func TestColorHelpers(t *testing.T) {
	assert.NotEmpty(t, Green("test"))
	assert.NotEmpty(t, Yellow("test"))
	assert.NotEmpty(t, Red("test"))
}

func TestTable(t *testing.T) {
	u, out, _ := newTestUI()
	table := u.Table([]string{"Project", "SMS"})
	require.NotNil(t, table)

	table.Append([]string{"web", "enabled"})
	table.Append([]string{"api", "missing"})
	err := table.Render()
	require.NoError(t, err)

	result := out.String()
	assert.True(t, strings.Contains(result, "web") || strings.Contains(result, "WEB"))
	assert.True(t, strings.Contains(result, "api") || strings.Contains(result, "API"))
}

package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes rosterctl against a sqlite file in dir.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--path", filepath.Join(dir, "roster.db")}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func decode(t *testing.T, out string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	return resp
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "rosterctl", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"list", "add", "update", "delete", "clear", "hash-key"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	tests := map[string]string{
		"backend":      "sqlite",
		"path":         "roster.db",
		"database-url": "",
		"format":       "text",
	}
	for name, def := range tests {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, def, flag.DefValue, name)
	}
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, t.TempDir(), "--format", "yaml", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestUnknownBackend(t *testing.T) {
	out, err := run(t, t.TempDir(), "--backend", "redis", "list")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "INVALID_ARGUMENT")
}

func TestLifecycle(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "add", "--id", "a", "--name", "Ada", "--team", "platform")
	require.NoError(t, err)
	assert.Contains(t, out, "added a")

	_, err = run(t, dir, "add", "--id", "b", "--name", "Grace", "--team", "compilers")
	require.NoError(t, err)

	out, err = run(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "Grace")

	_, err = run(t, dir, "update", "a", "--team", "infra")
	require.NoError(t, err)

	_, err = run(t, dir, "delete", "b")
	require.NoError(t, err)

	out, err = run(t, dir, "--format", "json", "list")
	require.NoError(t, err)
	resp := decode(t, out)
	assert.Equal(t, "ok", resp.Status)
	data := resp.Data.([]interface{})
	require.Len(t, data, 1)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "a", first["id"])
	assert.Equal(t, "Ada", first["name"])
	assert.Equal(t, "infra", first["team"])

	_, err = run(t, dir, "clear", "--yes")
	require.NoError(t, err)

	out, err = run(t, dir, "--format", "json", "list")
	require.NoError(t, err)
	assert.Empty(t, decode(t, out).Data)
}

func TestAdd_GeneratesID(t *testing.T) {
	out, err := run(t, t.TempDir(), "--format", "json", "add", "--name", "Ada", "--team", "platform")
	require.NoError(t, err)

	data := decode(t, out).Data.(map[string]interface{})
	assert.Len(t, data["id"], 36)
}

func TestAdd_MissingFields(t *testing.T) {
	out, err := run(t, t.TempDir(), "add", "--name", "Ada")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "--name and --team are required")
}

func TestAdd_RejectsUnsafeID(t *testing.T) {
	out, err := run(t, t.TempDir(), "add", "--id", "a/delete", "--name", "Ada", "--team", "platform")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "--id must be")
}

func TestAdd_Duplicate(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "add", "--id", "a", "--name", "Ada", "--team", "platform")
	require.NoError(t, err)

	out, err := run(t, dir, "--format", "json", "add", "--id", "a", "--name", "Other", "--team", "x")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decode(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DUPLICATE_ID", resp.Error.Code)
}

func TestUpdate_RequiresAField(t *testing.T) {
	_, err := run(t, t.TempDir(), "update", "a")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestUpdate_NotFound(t *testing.T) {
	out, err := run(t, t.TempDir(), "update", "missing", "--name", "Ada")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "NOT_FOUND")
}

func TestDelete_NotFound(t *testing.T) {
	out, err := run(t, t.TempDir(), "delete", "missing")
	require.Error(t, err)
	assert.Contains(t, out, "NOT_FOUND")
}

func TestClear_RequiresConfirmation(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "add", "--id", "a", "--name", "Ada", "--team", "platform")
	require.NoError(t, err)

	_, err = run(t, dir, "clear")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	out, err := run(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada")
}

func TestStoreUnavailable(t *testing.T) {
	out, err := run(t, t.TempDir(), "--path", filepath.Join(t.TempDir(), "missing", "dir", "roster.db"), "list")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "STORE_UNAVAILABLE")
}

func TestHashKey(t *testing.T) {
	out, err := run(t, t.TempDir(), "--format", "json", "hash-key", "--cost", "4")
	require.NoError(t, err)

	data := decode(t, out).Data.(map[string]interface{})
	assert.Contains(t, data["key"], "roster_")
	assert.Contains(t, data["hash"], "$2a$04$")
}

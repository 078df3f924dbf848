package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices(&cliStub{})
	defer cleanup()

	_, err := runCommand(t, "add")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestAddCmd_IndexesFile(t *testing.T) {
	stub := &cliStub{addCount: 3}
	cleanup := setupTestServices(stub)
	defer cleanup()

	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("the sky is blue"), 0o644))

	buf, err := runCommand(t, "add", path)

	require.NoError(t, err)
	assert.Equal(t, "notes.md", stub.gotDocID, "doc id defaults to the file name")
	assert.Equal(t, "the sky is blue", stub.gotContent)
	assert.Contains(t, buf.String(), "Indexed 3 chunks")
}

func TestAddCmd_HonoursIDFlag(t *testing.T) {
	stub := &cliStub{addCount: 1}
	cleanup := setupTestServices(stub)
	defer cleanup()

	path := filepath.Join(t.TempDir(), "raw.txt")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

	_, err := runCommand(t, "add", "--id", "custom-id", path)

	require.NoError(t, err)
	assert.Equal(t, "custom-id", stub.gotDocID)

	addDocID = ""
}

func TestAddCmd_MissingFile(t *testing.T) {
	cleanup := setupTestServices(&cliStub{})
	defer cleanup()

	_, err := runCommand(t, "add", filepath.Join(t.TempDir(), "nope.md"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading document")
}

func TestResetCmd_ForceSkipsPrompt(t *testing.T) {
	stub := &cliStub{}
	cleanup := setupTestServices(stub)
	defer cleanup()

	buf, err := runCommand(t, "reset", "--force")

	require.NoError(t, err)
	assert.Equal(t, 1, stub.resetCalls)
	assert.Contains(t, buf.String(), "Index cleared.")

	resetForce = false
}

func TestStatusCmd_PrintsCounts(t *testing.T) {
	stub := &cliStub{}
	stub.stats.Vectors = 12
	stub.stats.Chunks = 12
	cleanup := setupTestServices(stub)
	defer cleanup()

	buf, err := runCommand(t, "status")

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Vectors: 12")
	assert.Contains(t, buf.String(), "Chunks:  12")
}

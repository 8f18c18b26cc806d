package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsmith-labs/docdex/internal/core/domain"
)

func TestIndexCmd_BuildsByDefault(t *testing.T) {
	fake := &fakeEngine{stats: domain.EngineStats{
		State:     domain.StateReady,
		Documents: 12,
		Model:     domain.ModelIdentity{Name: "docs-embed", Dimension: 384},
	}}
	setupFakeEngine(t, fake)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, 1, fake.buildCalls)
	assert.Zero(t, fake.rebuildCalls)
	assert.Contains(t, buf.String(), "Indexed 12 chunks with docs-embed (384 dimensions)")
}

func TestIndexCmd_ForceRebuilds(t *testing.T) {
	fake := &fakeEngine{}
	setupFakeEngine(t, fake)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", "--force"})
	defer func() {
		rootCmd.SetArgs(nil)
		indexForce = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Zero(t, fake.buildCalls)
	assert.Equal(t, 1, fake.rebuildCalls)
}

func TestIndexCmd_PersistenceFailureFailsCommand(t *testing.T) {
	fake := &fakeEngine{buildErr: domain.ErrPersistenceFailure}
	setupFakeEngine(t, fake)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrPersistenceFailure)
}

func TestIndexCmd_EndToEnd(t *testing.T) {
	corpusDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(corpusDir, "install.md"),
		[]byte("# Install\n\nInstalling a custom module requires a manifest file."),
		0o600))
	storageDir := t.TempDir()

	resetApp(t)
	configPath = writeTestConfig(t, corpusDir, storageDir)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Indexed 1 chunks with hash-64 (64 dimensions)")

	// Artifacts persisted for the next run.
	entries, err := os.ReadDir(storageDir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

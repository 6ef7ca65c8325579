package interpreter

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveInterpreter(t *testing.T) {
	svc := NewPathService("/venv/bin/python")
	assert.Equal(t, "/venv/bin/python", svc.ActiveInterpreter())

	assert.Empty(t, NewPathService("").ActiveInterpreter())
}

func TestInterpretersFindsPathCandidates(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake interpreter setup is unix only")
	}

	dir := t.TempDir()
	fake := filepath.Join(dir, "python3")
	require.NoError(t, os.WriteFile(fake, []byte("#!/bin/sh\n"), 0o755))

	t.Setenv("PATH", dir)

	svc := NewPathService("")
	found := svc.Interpreters()
	require.Len(t, found, 1)
	assert.Equal(t, fake, found[0])
}

func TestInterpretersEmptyPath(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	svc := NewPathService("")
	assert.Empty(t, svc.Interpreters())
}

func TestInterpretersDeduplicates(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake interpreter setup is unix only")
	}

	dir := t.TempDir()
	for _, name := range []string{"python3", "python"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"), 0o755))
	}

	t.Setenv("PATH", dir)

	found := NewPathService("").Interpreters()
	require.Len(t, found, 2)
	assert.Equal(t, filepath.Join(dir, "python3"), found[0])
	assert.Equal(t, filepath.Join(dir, "python"), found[1])
}

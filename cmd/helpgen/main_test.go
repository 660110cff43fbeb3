// cmd/helpgen/main_test.go
package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/helpgen/internal/scan"
)

func TestVersionString(t *testing.T) {
	assert.Contains(t, versionString(), "helpgen")
	assert.Contains(t, versionString(), version)
}

func TestScanCommandWritesCodeMap(t *testing.T) {
	root := t.TempDir()
	appDir := filepath.Join(root, "app", "settings")
	require.NoError(t, os.MkdirAll(appDir, 0o755))
	src := `export default function SettingsPage() {
  return <h1>Account Settings</h1>;
}
`
	require.NoError(t, os.WriteFile(filepath.Join(appDir, "page.tsx"), []byte(src), 0o644))

	cmd := scanCmd()
	cmd.SetArgs([]string{root})
	require.NoError(t, cmd.Execute())

	cm, err := scan.ReadCodeMap(filepath.Join(root, ".helpgen", "codemap.json"))
	require.NoError(t, err)
	require.NotNil(t, cm)
	assert.Equal(t, 1, cm.Metadata.FileCount)
	require.Len(t, cm.Routes, 1)
	assert.Equal(t, "/settings", cm.Routes[0].Path)
}

func TestGapsCommandRoundTrip(t *testing.T) {
	root := t.TempDir()

	add := gapsCmd()
	add.SetArgs([]string{"add", "How", "do", "I", "reset", "my", "password?", "--root", root})
	require.NoError(t, add.Execute())

	list := gapsCmd()
	list.SetArgs([]string{"list", "--root", root})
	require.NoError(t, list.Execute())

	// The database file ends up under the project's .helpgen directory.
	_, err := os.Stat(filepath.Join(root, ".helpgen", "helpgen.db"))
	assert.NoError(t, err)
}

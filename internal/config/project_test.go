package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/helpgen/internal/scan"
)

func writeProject(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectFile), []byte(content), 0o644))
	return root
}

func TestLoadProjectDefaults(t *testing.T) {
	proj, err := LoadProject(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, scan.FrameworkAuto, proj.Framework)
	assert.Equal(t, scan.DefaultInclude, proj.Include)
	assert.Equal(t, "docs/help/knowledge.json", proj.Output.KnowledgeFile)
	assert.Equal(t, ".helpgen/codemap.json", proj.Output.CodeMapFile)
}

func TestLoadProjectOverrides(t *testing.T) {
	root := writeProject(t, `
include:
  - "src/**/*.tsx"
framework: nextjs
categories:
  - authentication
  - billing
customTopics:
  - id: warehouse.picking
    name: Order Picking
    patterns:
      - pick[-_ ]?list
output:
  docsDir: help
`)

	proj, err := LoadProject(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/**/*.tsx"}, proj.Include)
	assert.Equal(t, scan.FrameworkNext, proj.Framework)
	assert.Equal(t, []string{"authentication", "billing"}, proj.Categories)
	assert.Equal(t, "help", proj.Output.DocsDir)
	// Unset output paths still get defaults.
	assert.Equal(t, "docs/help/knowledge.json", proj.Output.KnowledgeFile)

	catalog, err := proj.Catalog()
	require.NoError(t, err)
	topic, ok := catalog.TopicByID("warehouse.picking")
	require.True(t, ok)
	assert.Equal(t, "Order Picking", topic.Name)
}

func TestLoadProjectRejectsUnknownFramework(t *testing.T) {
	_, err := LoadProject(writeProject(t, "framework: angular\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown framework")
}

func TestLoadProjectRejectsBadCustomTopic(t *testing.T) {
	_, err := LoadProject(writeProject(t, `
customTopics:
  - id: nodot
    patterns: ["x"]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category.topic")

	_, err = LoadProject(writeProject(t, `
customTopics:
  - id: a.b
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no patterns")
}

func TestLoadProjectRejectsBadYAML(t *testing.T) {
	_, err := LoadProject(writeProject(t, "include: [unclosed\n"))
	assert.Error(t, err)
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("HELPGEN_TEST_KEY", "sk-env")

	key, err := ResolveAPIKey("env", "", "HELPGEN_TEST_KEY")
	require.NoError(t, err)
	assert.Equal(t, "sk-env", key)

	key, err = ResolveAPIKey("config", "sk-cfg", "")
	require.NoError(t, err)
	assert.Equal(t, "sk-cfg", key)

	_, err = ResolveAPIKey("env", "", "HELPGEN_UNSET_KEY")
	assert.Error(t, err)

	_, err = ResolveAPIKey("vault", "", "")
	assert.Error(t, err)
}

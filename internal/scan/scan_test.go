package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

const settingsPageSrc = `export default function SettingsPage() {
	return (
		<div>
			<h2>Enable 2FA</h2>
			<TwoFactorSetup />
		</div>
	)
}

function TwoFactorSetup() {
	return <button>Verify code</button>
}
`

func TestRunEndToEnd(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "app/settings/page.tsx", settingsPageSrc)
	writeFixture(t, root, "app/users/[id]/page.tsx", `export default function UserPage() {
	return <h1>User details</h1>
}
`)

	cm, err := Run(context.Background(), root, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, FrameworkNext, cm.Metadata.Framework)
	assert.Equal(t, 2, cm.Metadata.FileCount)
	assert.Empty(t, cm.Metadata.SkippedFiles)

	require.Len(t, cm.Routes, 2)
	byPath := map[string]Route{}
	for _, r := range cm.Routes {
		byPath[r.Path] = r
	}
	require.Contains(t, byPath, "/settings")
	require.Contains(t, byPath, "/users/:id")
	assert.Equal(t, []string{"id"}, byPath["/users/:id"].Params)

	// The 2FA fixture must trip the two-factor topic with stacked evidence.
	var twoFactor *DetectedFeature
	for i := range cm.Features {
		if cm.Features[i].ID == "authentication.two-factor-auth" {
			twoFactor = &cm.Features[i]
		}
	}
	require.NotNil(t, twoFactor, "expected authentication.two-factor-auth to be detected")
	assert.GreaterOrEqual(t, len(twoFactor.Evidence), 2)
	assert.GreaterOrEqual(t, twoFactor.Confidence, 0.95)
}

func TestRunBuildsPages(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "app/settings/page.tsx", settingsPageSrc)

	cm, err := Run(context.Background(), root, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, cm.Pages, 1)
	page := cm.Pages[0]
	assert.Equal(t, "/settings", page.Path)
	assert.ElementsMatch(t, []string{"SettingsPage", "TwoFactorSetup"}, page.Components)
	assert.Equal(t, []string{"app/settings/page.tsx"}, page.SourceFiles)

	// Strings filtered to the page's file set.
	values := make([]string, 0, len(page.Strings))
	for _, s := range page.Strings {
		values = append(values, s.Value)
	}
	assert.Contains(t, values, "Enable 2FA")
	assert.Contains(t, values, "Verify code")

	// Page→feature mapping is a known gap and stays empty.
	assert.Empty(t, page.Features)
}

func TestRunSkipsUnreadableFile(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "src/good.tsx", `export function Good() { return <div>All good here</div> }
`)
	// A dangling symlink is collected by the walker but fails on read.
	require.NoError(t, os.Symlink(
		filepath.Join(root, "does-not-exist.tsx"),
		filepath.Join(root, "src", "ghost.tsx"),
	))

	cm, err := Run(context.Background(), root, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 2, cm.Metadata.FileCount)
	assert.Equal(t, []string{"src/ghost.tsx"}, cm.Metadata.SkippedFiles)

	// The good file still contributed a component.
	require.Len(t, cm.Components, 1)
	assert.Equal(t, "Good", cm.Components[0].Name)
}

func TestRunExcludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "src/App.tsx", `export const App = () => <div>Hello there</div>
`)
	writeFixture(t, root, "src/App.test.tsx", `test("x", () => {})
`)
	writeFixture(t, root, "node_modules/lib/index.js", `module.exports = {}
`)

	cfg := DefaultConfig()
	cm, err := Run(context.Background(), root, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, cm.Metadata.FileCount)
}

func TestInferFrameworkPriority(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "src/App.tsx", `import { Routes } from "react-router-dom"
export const App = () => <Routes />
`)
	writeFixture(t, root, "server.js", `const express = require("express")
`)

	// react-router wins over express when both are present.
	files, err := CollectFiles(root, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, FrameworkReact, InferFramework(root, files))

	// A next config file wins over everything.
	writeFixture(t, root, "next.config.js", `module.exports = {}
`)
	assert.Equal(t, FrameworkNext, InferFramework(root, files))
}

func TestInferFrameworkExpressOnly(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "server.js", `const express = require("express")
app.get("/api/health", handler)
`)
	files, err := CollectFiles(root, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, FrameworkExpress, InferFramework(root, files))
}

func TestInferFrameworkNone(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "lib/math.ts", `export const add = (a: number, b: number) => a + b
`)
	files, err := CollectFiles(root, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "", InferFramework(root, files))
}

func TestExpressEndpointsInCodeMap(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "server.js", `const express = require("express")
const app = express()
app.get("/api/users", listUsers)
`)

	cm, err := Run(context.Background(), root, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, cm.APIEndpoints, 1)
	assert.Equal(t, "GET", cm.APIEndpoints[0].Method)
	assert.Equal(t, "/api/users", cm.APIEndpoints[0].Path)
}

func TestCodeMapCacheRoundTrip(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "app/settings/page.tsx", settingsPageSrc)

	cm, err := Run(context.Background(), root, DefaultConfig())
	require.NoError(t, err)

	cachePath := filepath.Join(root, ".helpgen", "codemap.json")
	require.NoError(t, WriteCodeMap(cachePath, cm))

	loaded, err := ReadCodeMap(cachePath)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, cm.Routes, loaded.Routes)
	assert.Equal(t, cm.Features, loaded.Features)
}

func TestReadCodeMapMissingFile(t *testing.T) {
	cm, err := ReadCodeMap(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Nil(t, cm)
}

func TestCollectFilesHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, ".gitignore", "generated/\n")
	writeFixture(t, root, "generated/bundle.js", "var x = 1\n")
	writeFixture(t, root, "src/index.ts", "export {}\n")

	files, err := CollectFiles(root, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/index.ts"}, files)
}

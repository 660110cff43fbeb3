package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/helpgen/internal/knowledge"
	"github.com/julianshen/helpgen/internal/scan"
)

func TestRenderPrompt(t *testing.T) {
	gc := &knowledge.GenContext{
		TopicID:    "authentication.two-factor-auth",
		TopicName:  "Two-Factor Authentication",
		Confidence: 0.95,
		Pages: []knowledge.PageContext{
			{Path: "/settings/security", Strings: []string{"Enable 2FA", "Verify code"}},
		},
		Evidence: []scan.Evidence{
			{Pattern: "two[-_ ]?factor", SourceFile: "app/settings/page.tsx", Line: 12},
		},
	}

	prompt, err := RenderPrompt(gc)
	require.NoError(t, err)

	assert.Contains(t, prompt, `"Two-Factor Authentication"`)
	assert.Contains(t, prompt, "confidence 0.95")
	assert.Contains(t, prompt, "- /settings/security")
	assert.Contains(t, prompt, `"Enable 2FA", "Verify code"`)
	assert.Contains(t, prompt, "app/settings/page.tsx:12")
	assert.Contains(t, prompt, `{"title":`)
}

func TestRenderPromptNoPages(t *testing.T) {
	prompt, err := RenderPrompt(&knowledge.GenContext{TopicID: "a.b", TopicName: "A B", Confidence: 0.8})
	require.NoError(t, err)
	assert.NotContains(t, prompt, "appears on these pages")
	assert.NotContains(t, prompt, "Code evidence")
}

func TestParseResponseJSON(t *testing.T) {
	res := ParseResponse("Fallback", `{"title": "Two-Factor Authentication", "pages": ["/settings"], "content": "Enable it in settings."}`)
	assert.Equal(t, "Two-Factor Authentication", res.Title)
	assert.Equal(t, []string{"/settings"}, res.Pages)
	assert.Equal(t, "Enable it in settings.", res.Content)
}

func TestParseResponseFencedJSON(t *testing.T) {
	response := "```json\n{\"title\": \"T\", \"content\": \"body\"}\n```"
	res := ParseResponse("Fallback", response)
	assert.Equal(t, "T", res.Title)
	assert.Equal(t, "body", res.Content)
}

func TestParseResponseRawTextFallback(t *testing.T) {
	res := ParseResponse("Invoices and Receipts", "Here is the article:\n\nInvoices are emailed monthly.")
	assert.Equal(t, "Invoices and Receipts", res.Title)
	assert.Empty(t, res.Pages)
	assert.Contains(t, res.Content, "Invoices are emailed monthly.")
}

func TestParseResponseMissingTitleFallsBack(t *testing.T) {
	res := ParseResponse("Display Name", `{"content": "body only"}`)
	assert.Equal(t, "Display Name", res.Title)
	assert.Equal(t, "body only", res.Content)
}

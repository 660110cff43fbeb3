package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUserFacingFilter(t *testing.T) {
	rejected := []string{"/dashboard", "onClick", "ID", "a", "http://x.dev", "f()", "x => x", "LOADING"}
	for _, v := range rejected {
		assert.False(t, IsUserFacing(v), "expected %q to be rejected", v)
	}

	accepted := []string{"Enable 2FA", "Change Password", "Save changes", "Something went wrong."}
	for _, v := range accepted {
		assert.True(t, IsUserFacing(v), "expected %q to be accepted", v)
	}
}

func TestElementTextStrings(t *testing.T) {
	src := `export function SecuritySettings() {
	return (
		<section>
			<h2>Enable 2FA</h2>
			<button>Change Password</button>
			<label>Email address</label>
			<span>onClick</span>
		</section>
	)
}
`
	tree := parseFixture(t, "security.tsx", src)
	strs := ExtractStrings(tree, "src/security.tsx")
	require.Len(t, strs, 3)

	assert.Equal(t, "Enable 2FA", strs[0].Value)
	assert.Equal(t, StringHeading, strs[0].Type)
	assert.Equal(t, "src/security.tsx", strs[0].SourceFile)
	assert.Equal(t, "SecuritySettings", strs[0].Component)

	assert.Equal(t, "Change Password", strs[1].Value)
	assert.Equal(t, StringButton, strs[1].Type)

	assert.Equal(t, "Email address", strs[2].Value)
	assert.Equal(t, StringLabel, strs[2].Type)
}

func TestAttributeStrings(t *testing.T) {
	src := `const SearchBox = () => (
	<div>
		<input placeholder="Search users" />
		<img alt="Profile photo" src="/avatar.png" />
		<Tooltip title={"Keyboard shortcuts"} onClick={open} />
	</div>
)
`
	tree := parseFixture(t, "search.tsx", src)
	strs := ExtractStrings(tree, "search.tsx")
	require.Len(t, strs, 3)

	assert.Equal(t, "Search users", strs[0].Value)
	assert.Equal(t, StringPlaceholder, strs[0].Type)

	// src is not on the allow-list, alt is.
	assert.Equal(t, "Profile photo", strs[1].Value)

	// A string wrapped in a single expression container still counts.
	assert.Equal(t, "Keyboard shortcuts", strs[2].Value)
	assert.Equal(t, "SearchBox", strs[2].Component)
}

func TestPlaceholderAttributeForcesType(t *testing.T) {
	src := `const C = () => <div placeholder="Start typing here" />
`
	tree := parseFixture(t, "c.tsx", src)
	strs := ExtractStrings(tree, "c.tsx")
	require.Len(t, strs, 1)
	assert.Equal(t, StringPlaceholder, strs[0].Type)
}

func TestErrorTagType(t *testing.T) {
	src := `const C = () => (
	<div>
		<ErrorBanner>Payment failed, try again</ErrorBanner>
		<AlertBox>Session expired</AlertBox>
	</div>
)
`
	tree := parseFixture(t, "err.tsx", src)
	strs := ExtractStrings(tree, "err.tsx")
	require.Len(t, strs, 2)
	assert.Equal(t, StringError, strs[0].Type)
	assert.Equal(t, StringError, strs[1].Type)
}

func TestTextRunsSpaceJoined(t *testing.T) {
	src := `const C = () => <p>Need help? {"Contact support"} anytime</p>
`
	tree := parseFixture(t, "help.tsx", src)
	strs := ExtractStrings(tree, "help.tsx")
	require.Len(t, strs, 1)
	assert.Equal(t, "Need help? Contact support anytime", strs[0].Value)
	assert.Equal(t, StringOther, strs[0].Type)
}

func TestStringsNotDeduplicated(t *testing.T) {
	src := `const C = () => (
	<div>
		<button>Save changes</button>
		<button>Save changes</button>
	</div>
)
`
	tree := parseFixture(t, "dup.tsx", src)
	strs := ExtractStrings(tree, "dup.tsx")
	assert.Len(t, strs, 2)
}

func TestExtractStringsDeterministic(t *testing.T) {
	src := `const C = () => <div><h1>Welcome back</h1><button>Sign in</button></div>
`
	tree := parseFixture(t, "login.tsx", src)
	first := ExtractStrings(tree, "login.tsx")
	second := ExtractStrings(tree, "login.tsx")
	assert.Equal(t, first, second)
}

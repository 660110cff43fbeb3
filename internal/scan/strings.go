package scan

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/julianshen/helpgen/internal/parser"
)

// stringAttributes is the allow-list of markup attributes whose literal
// values count as user-facing text.
var stringAttributes = map[string]bool{
	"placeholder": true,
	"title":       true,
	"alt":         true,
	"aria-label":  true,
	"label":       true,
	"children":    true,
	"text":        true,
	"message":     true,
	"description": true,
	"content":     true,
}

var (
	headingTags    = map[string]bool{"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true}
	bareIdentifier = regexp.MustCompile(`(?i)^[a-z_][a-z0-9_]*$`)
)

// ExtractStrings pulls user-facing text fragments from one parsed source
// file: allow-listed attribute values and literal text between matching
// markup tags. Strings are never deduplicated.
func ExtractStrings(tree *parser.Tree, relPath string) []ExtractedString {
	source := tree.Source()
	var out []ExtractedString

	parser.Walk(tree.RootNode(), func(node *sitter.Node) {
		switch node.Type() {
		case "jsx_opening_element", "jsx_self_closing_element":
			out = append(out, attributeStrings(node, source, relPath)...)
		case "jsx_element":
			if s, ok := elementText(node, source, relPath); ok {
				out = append(out, s)
			}
		}
	})

	return out
}

// attributeStrings extracts allow-listed attribute values from one element.
func attributeStrings(node *sitter.Node, source []byte, relPath string) []ExtractedString {
	tag := jsxTagName(node, source)
	var out []ExtractedString

	for _, attr := range jsxAttributes(node) {
		name := jsxAttributeName(attr, source)
		if !stringAttributes[name] {
			continue
		}
		value, ok := literalString(jsxAttributeValue(attr), source)
		if !ok || !IsUserFacing(value) {
			continue
		}

		kind := stringTypeForTag(tag)
		if name == "placeholder" {
			// The placeholder attribute wins over the enclosing tag.
			kind = StringPlaceholder
		}

		out = append(out, ExtractedString{
			Value:      value,
			SourceFile: relPath,
			Line:       lineOf(attr),
			Type:       kind,
			Component:  enclosingComponent(attr, source),
		})
	}
	return out
}

// elementText joins the literal text runs and literal-valued expression
// children directly between an element's opening and closing tags.
func elementText(node *sitter.Node, source []byte, relPath string) (ExtractedString, bool) {
	var parts []string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "jsx_text":
			if text := strings.TrimSpace(child.Content(source)); text != "" {
				parts = append(parts, text)
			}
		case "jsx_expression":
			if text, ok := literalString(child, source); ok {
				if text = strings.TrimSpace(text); text != "" {
					parts = append(parts, text)
				}
			}
		}
	}

	value := strings.Join(parts, " ")
	if !IsUserFacing(value) {
		return ExtractedString{}, false
	}

	return ExtractedString{
		Value:      value,
		SourceFile: relPath,
		Line:       lineOf(node),
		Type:       stringTypeForTag(jsxTagName(node, source)),
		Component:  enclosingComponent(node, source),
	}, true
}

// stringTypeForTag derives the string classification from the tag holding
// the text.
func stringTypeForTag(tag string) StringType {
	lower := strings.ToLower(tag)
	switch {
	case headingTags[lower]:
		return StringHeading
	case lower == "button":
		return StringButton
	case lower == "label":
		return StringLabel
	case lower == "input" || lower == "textarea":
		return StringPlaceholder
	case strings.Contains(lower, "error") || strings.Contains(lower, "alert"):
		return StringError
	default:
		return StringOther
	}
}

// IsUserFacing is the filter every extracted string must pass: long enough
// to be prose, not identifier-shaped, not a path or URL, free of code-like
// tokens, and not a shouted constant.
func IsUserFacing(value string) bool {
	if len(value) < 2 {
		return false
	}
	if bareIdentifier.MatchString(value) {
		return false
	}
	if strings.HasPrefix(value, "/") || strings.HasPrefix(value, "http") {
		return false
	}
	if strings.Contains(value, "=>") || strings.Contains(value, "()") {
		return false
	}
	if len(value) > 3 && value == strings.ToUpper(value) && value != strings.ToLower(value) {
		return false
	}
	return true
}

// enclosingComponent finds the nearest enclosing capitalized function or
// variable definition name, used to attribute a string to its component.
func enclosingComponent(node *sitter.Node, source []byte) string {
	for cur := node.Parent(); cur != nil; cur = cur.Parent() {
		var nameNode *sitter.Node
		switch cur.Type() {
		case "function_declaration", "variable_declarator":
			nameNode = cur.ChildByFieldName("name")
		}
		if nameNode == nil {
			continue
		}
		if name := nameNode.Content(source); componentName.MatchString(name) {
			return name
		}
	}
	return ""
}

package scan

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// jsxTagName returns the tag name of a jsx_element, jsx_opening_element or
// jsx_self_closing_element node, or "" if none can be determined.
func jsxTagName(node *sitter.Node, source []byte) string {
	switch node.Type() {
	case "jsx_element":
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child != nil && child.Type() == "jsx_opening_element" {
				return jsxTagName(child, source)
			}
		}
		return ""
	case "jsx_opening_element", "jsx_self_closing_element":
		if name := node.ChildByFieldName("name"); name != nil {
			return name.Content(source)
		}
		return ""
	default:
		return ""
	}
}

// jsxAttributes returns the jsx_attribute nodes of an opening or self-closing
// element.
func jsxAttributes(node *sitter.Node) []*sitter.Node {
	var attrs []*sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child != nil && child.Type() == "jsx_attribute" {
			attrs = append(attrs, child)
		}
	}
	return attrs
}

// jsxAttributeName returns the name of a jsx_attribute node.
func jsxAttributeName(attr *sitter.Node, source []byte) string {
	if attr.ChildCount() == 0 {
		return ""
	}
	name := attr.Child(0)
	if name == nil {
		return ""
	}
	return name.Content(source)
}

// jsxAttributeValue returns the value node of a jsx_attribute (the node
// after the "="), or nil for bare boolean attributes.
func jsxAttributeValue(attr *sitter.Node) *sitter.Node {
	for i := 1; i < int(attr.ChildCount()); i++ {
		child := attr.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "=":
			continue
		default:
			return child
		}
	}
	return nil
}

// literalString resolves a node to a plain string literal value. It accepts
// a string node directly, or a jsx_expression wrapping a single string node.
// Returns "" and false when the node is not a literal string.
func literalString(node *sitter.Node, source []byte) (string, bool) {
	if node == nil {
		return "", false
	}
	switch node.Type() {
	case "string":
		return unquote(node.Content(source)), true
	case "jsx_expression":
		var inner *sitter.Node
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child == nil {
				continue
			}
			switch child.Type() {
			case "{", "}", "comment":
				continue
			default:
				if inner != nil {
					return "", false
				}
				inner = child
			}
		}
		if inner != nil && inner.Type() == "string" {
			return unquote(inner.Content(source)), true
		}
		return "", false
	default:
		return "", false
	}
}

// unquote strips surrounding single, double or backtick quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'' || first == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// lineOf converts a node's 0-indexed start row to a 1-based line number.
func lineOf(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

// isCapitalized reports whether s starts with an upper-case ASCII letter,
// the shape required of component and type identifiers.
func isCapitalized(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

// nodeText is shorthand for a node's source text, tolerating nil.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return node.Content(source)
}

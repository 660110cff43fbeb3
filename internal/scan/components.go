package scan

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/julianshen/helpgen/internal/parser"
)

// componentName is the capitalized-identifier shape a definition must have
// to qualify as a UI component.
var componentName = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*$`)

// jsxNodeTypes are the markup node types whose presence in a body qualifies
// a definition as a component. Any one suffices.
var jsxNodeTypes = map[string]bool{
	"jsx_element":              true,
	"jsx_self_closing_element": true,
	"jsx_fragment":             true,
}

// functionValueTypes are the initializer node types accepted for
// variable-form component definitions.
var functionValueTypes = map[string]bool{
	"arrow_function":      true,
	"function":            true,
	"function_expression": true,
}

// componentDef pairs a Component record with its definition node so the
// child-edge pass can re-scan the body.
type componentDef struct {
	comp Component
	node *sitter.Node
}

// ExtractComponents finds UI-component definitions in one parsed source
// file and backfills same-file child-usage edges.
func ExtractComponents(tree *parser.Tree, relPath string) []Component {
	source := tree.Source()
	var defs []componentDef

	parser.Walk(tree.RootNode(), func(node *sitter.Node) {
		switch node.Type() {
		case "function_declaration":
			if def, ok := functionComponent(node, source, relPath); ok {
				defs = append(defs, def)
			}
		case "variable_declarator":
			if def, ok := variableComponent(node, source, relPath); ok {
				defs = append(defs, def)
			}
		}
	})

	if len(defs) == 0 {
		return nil
	}

	names := make(map[string]bool, len(defs))
	for _, d := range defs {
		names[d.comp.Name] = true
	}

	components := make([]Component, 0, len(defs))
	for _, d := range defs {
		d.comp.Children = childComponents(d.node, source, d.comp.Name, names)
		components = append(components, d.comp)
	}
	return components
}

// functionComponent qualifies a function declaration as a component.
func functionComponent(node *sitter.Node, source []byte, relPath string) (componentDef, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return componentDef{}, false
	}
	name := nameNode.Content(source)
	if !componentName.MatchString(name) {
		return componentDef{}, false
	}
	body := node.ChildByFieldName("body")
	if !containsJSX(body) {
		return componentDef{}, false
	}

	return componentDef{
		comp: Component{
			Name:       name,
			SourceFile: relPath,
			Line:       lineOf(node),
			Exported:   isExportStatement(node.Parent()),
			PropsType:  firstParamType(node.ChildByFieldName("parameters"), source),
		},
		node: node,
	}, true
}

// variableComponent qualifies a variable declarator whose initializer is a
// function with markup in its body.
func variableComponent(node *sitter.Node, source []byte, relPath string) (componentDef, bool) {
	nameNode := node.ChildByFieldName("name")
	value := node.ChildByFieldName("value")
	if nameNode == nil || value == nil || !functionValueTypes[value.Type()] {
		return componentDef{}, false
	}
	name := nameNode.Content(source)
	if !componentName.MatchString(name) {
		return componentDef{}, false
	}
	if !containsJSX(value.ChildByFieldName("body")) {
		return componentDef{}, false
	}

	// Export status comes from the enclosing statement: declarator ->
	// lexical_declaration -> (optionally) export_statement.
	exported := false
	if decl := node.Parent(); decl != nil {
		exported = isExportStatement(decl.Parent())
	}

	return componentDef{
		comp: Component{
			Name:       name,
			SourceFile: relPath,
			Line:       lineOf(node),
			Exported:   exported,
			PropsType:  firstParamType(value.ChildByFieldName("parameters"), source),
		},
		node: node,
	}, true
}

// isExportStatement tolerates nil.
func isExportStatement(node *sitter.Node) bool {
	return node != nil && node.Type() == "export_statement"
}

// containsJSX reports whether any markup node appears under body.
func containsJSX(body *sitter.Node) bool {
	if body == nil {
		return false
	}
	found := false
	parser.Walk(body, func(n *sitter.Node) {
		if jsxNodeTypes[n.Type()] {
			found = true
		}
	})
	return found
}

// firstParamType returns the verbatim type annotation of the callable's
// first parameter, or "" when absent.
func firstParamType(params *sitter.Node, source []byte) string {
	if params == nil {
		return ""
	}
	for i := 0; i < int(params.ChildCount()); i++ {
		child := params.Child(i)
		if child == nil || !child.IsNamed() {
			continue
		}
		annotation := child.ChildByFieldName("type")
		if annotation == nil {
			return ""
		}
		text := annotation.Content(source)
		text = strings.TrimPrefix(text, ":")
		return strings.TrimSpace(text)
	}
	return ""
}

// childComponents scans a definition body for opening or self-closing tags
// whose name is capitalized and defined in the same file, collecting unique
// names in first-seen order. Self references are not usage edges.
func childComponents(def *sitter.Node, source []byte, self string, names map[string]bool) []string {
	children := []string{}
	seen := map[string]bool{}

	parser.Walk(def, func(n *sitter.Node) {
		if n.Type() != "jsx_opening_element" && n.Type() != "jsx_self_closing_element" {
			return
		}
		tag := jsxTagName(n, source)
		if tag == self || seen[tag] || !isCapitalized(tag) || !names[tag] {
			return
		}
		seen[tag] = true
		children = append(children, tag)
	})

	return children
}

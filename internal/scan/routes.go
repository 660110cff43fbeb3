package scan

import (
	"path"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/julianshen/helpgen/internal/parser"
)

// Framework identifiers accepted in scan configuration and produced by
// framework inference.
const (
	FrameworkAuto    = "auto"
	FrameworkReact   = "react"
	FrameworkNext    = "nextjs"
	FrameworkExpress = "express"
)

// pageMarker matches the app-router reserved page filename.
var pageMarker = regexp.MustCompile(`^page\.(tsx|jsx|ts|js)$`)

// httpMethods are the member names recognized by the imperative convention.
var httpMethods = map[string]bool{
	"get":    true,
	"post":   true,
	"put":    true,
	"patch":  true,
	"delete": true,
}

// paramToken matches named dynamic segments in a resolved route path:
// ":name" (optionally a ":name*" catch-all) or bracket forms "[name]" /
// "[...name]".
var paramToken = regexp.MustCompile(`:([A-Za-z0-9_]+)\*?|\[(?:\.\.\.)?([A-Za-z0-9_]+)\]`)

// ExtractRoutes derives Route records from one parsed source file. All
// routing conventions fire independently and their results are unioned;
// deduplication is a downstream concern. The tree may be nil for files that
// failed to parse, in which case only the file-system convention applies.
func ExtractRoutes(tree *parser.Tree, relPath, framework string) ([]Route, []APIEndpoint) {
	var routes []Route

	if r, ok := fileSystemRoute(relPath); ok {
		routes = append(routes, r)
	}

	if tree == nil {
		return routes, nil
	}

	routes = append(routes, declarativeRoutes(tree, relPath)...)

	var endpoints []APIEndpoint
	if framework == FrameworkExpress {
		var imperative []Route
		imperative, endpoints = imperativeRoutes(tree, relPath)
		routes = append(routes, imperative...)
	}

	return routes, endpoints
}

// fileSystemRoute derives a route from the file's location under an "app" or
// "pages" routing root, per the Next.js conventions.
func fileSystemRoute(relPath string) (Route, bool) {
	segments := strings.Split(path.Clean(filepathToSlash(relPath)), "/")
	if len(segments) < 2 {
		// A routing root plus a filename is the minimum shape.
		return Route{}, false
	}
	filename := segments[len(segments)-1]
	dirs := segments[:len(segments)-1]

	for i, seg := range dirs {
		switch seg {
		case "app":
			if !pageMarker.MatchString(filename) {
				continue
			}
			routePath := lowerSegments(dirs[i+1:])
			return Route{
				Path:       routePath,
				SourceFile: relPath,
				Params:     ExtractParams(routePath),
			}, true
		case "pages":
			if !parser.Supported(filename) || strings.HasPrefix(filename, "_") {
				continue
			}
			rest := dirs[i+1:]
			if len(rest) > 0 && rest[0] == "api" {
				continue
			}
			base := strings.TrimSuffix(filename, path.Ext(filename))
			if strings.HasPrefix(base, "_") {
				continue
			}
			segs := rest
			if base != "index" {
				segs = append(append([]string{}, rest...), base)
			}
			routePath := lowerSegments(segs)
			return Route{
				Path:       routePath,
				SourceFile: relPath,
				Params:     ExtractParams(routePath),
			}, true
		}
	}
	return Route{}, false
}

// lowerSegments lowers raw directory segments to a URL path: group-only
// segments "(name)" are stripped, "[...name]" becomes a parameterized
// wildcard ":name*", and "[name]" becomes ":name".
func lowerSegments(segments []string) string {
	var parts []string
	for _, seg := range segments {
		switch {
		case seg == "":
			continue
		case strings.HasPrefix(seg, "(") && strings.HasSuffix(seg, ")"):
			continue
		case strings.HasPrefix(seg, "[...") && strings.HasSuffix(seg, "]"):
			parts = append(parts, ":"+seg[4:len(seg)-1]+"*")
		case strings.HasPrefix(seg, "[") && strings.HasSuffix(seg, "]"):
			parts = append(parts, ":"+seg[1:len(seg)-1])
		default:
			parts = append(parts, seg)
		}
	}
	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/")
}

// ExtractParams collects named dynamic-segment parameters from a resolved
// route path in order of appearance. Lowering is idempotent: extracting from
// an already-lowered path yields the same set.
func ExtractParams(routePath string) []string {
	params := []string{}
	for _, m := range paramToken.FindAllStringSubmatch(routePath, -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if name != "" {
			params = append(params, name)
		}
	}
	return params
}

// declarativeRoutes finds <Route path="..."/> elements and derives routes
// from their path and component/element attributes.
func declarativeRoutes(tree *parser.Tree, relPath string) []Route {
	source := tree.Source()
	var routes []Route

	parser.Walk(tree.RootNode(), func(node *sitter.Node) {
		if node.Type() != "jsx_opening_element" && node.Type() != "jsx_self_closing_element" {
			return
		}
		if jsxTagName(node, source) != "Route" {
			return
		}

		var routePath, component string
		var havePath bool
		for _, attr := range jsxAttributes(node) {
			name := jsxAttributeName(attr, source)
			value := jsxAttributeValue(attr)
			switch name {
			case "path":
				if v, ok := literalString(value, source); ok {
					routePath = v
					havePath = true
				}
			case "component", "element":
				if component == "" {
					component = componentRef(nodeText(value, source))
				}
			}
		}
		if !havePath {
			return
		}

		routes = append(routes, Route{
			Path:       routePath,
			SourceFile: relPath,
			Component:  component,
			Line:       lineOf(node),
			Params:     ExtractParams(routePath),
		})
	})

	return routes
}

// componentRef heuristically parses a component/element attribute value into
// a component name: JSX expressions lose their braces and leading "<", bare
// string references lose their quotes.
func componentRef(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	s = strings.TrimSpace(s)
	s = unquote(s)
	if strings.HasPrefix(s, "<") {
		s = s[1:]
		if i := strings.IndexAny(s, " \t\n/>"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

// imperativeRoutes finds app.get("/path", ...) style registrations. Only
// called under the express framework hint.
func imperativeRoutes(tree *parser.Tree, relPath string) ([]Route, []APIEndpoint) {
	source := tree.Source()
	var routes []Route
	var endpoints []APIEndpoint

	parser.Walk(tree.RootNode(), func(node *sitter.Node) {
		if node.Type() != "call_expression" {
			return
		}
		fn := node.ChildByFieldName("function")
		if fn == nil || fn.Type() != "member_expression" {
			return
		}
		object := fn.ChildByFieldName("object")
		property := fn.ChildByFieldName("property")
		if object == nil || property == nil {
			return
		}
		receiver := object.Content(source)
		method := property.Content(source)
		if (receiver != "app" && receiver != "router") || !httpMethods[method] {
			return
		}

		args := node.ChildByFieldName("arguments")
		if args == nil {
			return
		}
		var first *sitter.Node
		for i := 0; i < int(args.ChildCount()); i++ {
			child := args.Child(i)
			if child != nil && child.IsNamed() {
				first = child
				break
			}
		}
		if first == nil || first.Type() != "string" {
			return
		}
		routePath := unquote(first.Content(source))
		if !strings.HasPrefix(routePath, "/") {
			return
		}

		line := lineOf(node)
		routes = append(routes, Route{
			Path:       routePath,
			SourceFile: relPath,
			Line:       line,
			Params:     ExtractParams(routePath),
		})
		endpoints = append(endpoints, APIEndpoint{
			Method:     strings.ToUpper(method),
			Path:       routePath,
			SourceFile: relPath,
			Line:       line,
		})
	})

	return routes, endpoints
}

// filepathToSlash normalizes Windows separators to forward slashes.
func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

package scan

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianshen/helpgen/internal/parser"
)

// Config controls one scan run.
type Config struct {
	Include     []string
	Exclude     []string
	Framework   string // react, nextjs, express or auto
	Catalog     *Catalog
	Concurrency int // parallel file workers
}

// DefaultConfig returns a Config covering the common web-app layout.
func DefaultConfig() Config {
	return Config{
		Include:     DefaultInclude,
		Exclude:     DefaultExclude,
		Framework:   FrameworkAuto,
		Concurrency: 5,
	}
}

// fileResult holds one file's contribution, collected before the merge.
type fileResult struct {
	routes     []Route
	endpoints  []APIEndpoint
	components []Component
	strings    []ExtractedString
	features   []DetectedFeature
	skipped    bool
}

// Run scans the project tree at root and assembles a CodeMap. Files are
// processed concurrently; each file's extraction is independent and the
// merge happens only after every file completes. A file that cannot be read
// or parsed is skipped without failing the scan.
func Run(ctx context.Context, root string, cfg Config) (*CodeMap, error) {
	start := time.Now()

	catalog := cfg.Catalog
	if catalog == nil {
		catalog = BuiltinCatalog()
	}

	files, err := CollectFiles(root, cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, fmt.Errorf("collecting files: %w", err)
	}

	framework := cfg.Framework
	if framework == "" || framework == FrameworkAuto {
		framework = InferFramework(root, files)
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}

	results := make([]fileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, rel := range files {
		i, rel := i, rel
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = scanFile(root, rel, framework, catalog)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scanning files: %w", err)
	}

	cm := &CodeMap{}
	perFileFeatures := make([][]DetectedFeature, 0, len(results))
	var skipped []string
	for i, r := range results {
		if r.skipped {
			skipped = append(skipped, files[i])
		}
		cm.Routes = append(cm.Routes, r.routes...)
		cm.APIEndpoints = append(cm.APIEndpoints, r.endpoints...)
		cm.Components = append(cm.Components, r.components...)
		cm.Strings = append(cm.Strings, r.strings...)
		perFileFeatures = append(perFileFeatures, r.features)
	}
	cm.Features = MergeFeatures(perFileFeatures)
	cm.Pages = buildPages(cm.Routes, cm.Components, cm.Strings)

	cm.Metadata = Metadata{
		ScannedAt:    start,
		FileCount:    len(files),
		SkippedFiles: skipped,
		Duration:     time.Since(start),
		Framework:    framework,
	}

	return cm, nil
}

// scanFile runs all extractors over one file. Extraction fails soft: on a
// parse failure the tree-based extractors are skipped but the path-derived
// route and the content-based feature detection still contribute.
func scanFile(root, rel, framework string, catalog *Catalog) fileResult {
	var r fileResult

	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		log.Printf("scan: skipping %s: %v", rel, err)
		r.skipped = true
		return r
	}

	r.features = DetectFeatures(rel, content, catalog)

	tree, err := parser.NewParser().Parse(rel, content)
	if err != nil {
		log.Printf("scan: parse failed for %s: %v", rel, err)
		r.skipped = true
		r.routes, r.endpoints = ExtractRoutes(nil, rel, framework)
		return r
	}
	defer tree.Close()

	r.routes, r.endpoints = ExtractRoutes(tree, rel, framework)
	r.components = ExtractComponents(tree, rel)
	r.strings = ExtractStrings(tree, rel)
	return r
}

var (
	nextConfigPattern  = regexp.MustCompile(`^next\.config\.(js|mjs|ts)$`)
	routerDirPattern   = regexp.MustCompile(`(^|/)(app|pages)/`)
	reactRouterPattern = regexp.MustCompile(`['"]react-router(-dom)?['"]`)
	expressPattern     = regexp.MustCompile(`['"]express['"]`)
)

// InferFramework guesses the routing framework when the configuration says
// "auto". Priority: a Next-style config file or a router directory marker,
// then a react-router import, then an express import. Returns "" when
// nothing matches.
func InferFramework(root string, files []string) string {
	for _, candidate := range []string{"next.config.js", "next.config.mjs", "next.config.ts"} {
		if fileExists(filepath.Join(root, candidate)) {
			return FrameworkNext
		}
	}
	for _, f := range files {
		if nextConfigPattern.MatchString(filepath.Base(f)) || routerDirPattern.MatchString(f) {
			return FrameworkNext
		}
	}
	if anyFileMatches(root, files, reactRouterPattern) {
		return FrameworkReact
	}
	if anyFileMatches(root, files, expressPattern) {
		return FrameworkExpress
	}
	return ""
}

// anyFileMatches reads each file until one matches the pattern.
func anyFileMatches(root string, files []string, pattern *regexp.Regexp) bool {
	for _, rel := range files {
		content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			continue
		}
		if pattern.Match(content) {
			return true
		}
	}
	return false
}

// buildPages associates each route with the components defined in its file
// or named by the route, unions their source files, and filters the global
// string list to that file set. Feature-to-page mapping is deliberately
// left unpopulated.
func buildPages(routes []Route, components []Component, strings []ExtractedString) []Page {
	pages := make([]Page, 0, len(routes))

	for _, route := range routes {
		sourceFiles := []string{route.SourceFile}
		inSet := map[string]bool{route.SourceFile: true}

		var compNames []string
		for _, c := range components {
			if c.SourceFile == route.SourceFile || (route.Component != "" && c.Name == route.Component) {
				compNames = append(compNames, c.Name)
				if !inSet[c.SourceFile] {
					inSet[c.SourceFile] = true
					sourceFiles = append(sourceFiles, c.SourceFile)
				}
			}
		}

		var pageStrings []ExtractedString
		for _, s := range strings {
			if inSet[s.SourceFile] {
				pageStrings = append(pageStrings, s)
			}
		}

		pages = append(pages, Page{
			Path:        route.Path,
			Components:  compNames,
			SourceFiles: sourceFiles,
			Strings:     pageStrings,
			Features:    []string{},
		})
	}

	return pages
}

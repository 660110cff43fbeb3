package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianshen/helpgen/internal/scan"
)

// ProjectFile is the per-project config file name, looked up at the scan root.
const ProjectFile = ".helpgen.yaml"

// Project is the per-project configuration controlling what gets scanned and
// where output lands. All fields are optional; zero values fall back to
// defaults.
type Project struct {
	Include      []string           `yaml:"include"`
	Exclude      []string           `yaml:"exclude"`
	Framework    string             `yaml:"framework"`
	Categories   []string           `yaml:"categories"`
	CustomTopics []scan.CustomTopic `yaml:"customTopics"`
	Output       OutputPaths        `yaml:"output"`
}

// OutputPaths names the artifacts a run produces, relative to the scan root.
type OutputPaths struct {
	KnowledgeFile string `yaml:"knowledgeFile"`
	DocsDir       string `yaml:"docsDir"`
	CodeMapFile   string `yaml:"codeMapFile"`
	DatabaseFile  string `yaml:"databaseFile"`
}

// DefaultProject returns the project configuration used when no
// .helpgen.yaml is present.
func DefaultProject() *Project {
	return &Project{
		Include:   append([]string(nil), scan.DefaultInclude...),
		Exclude:   append([]string(nil), scan.DefaultExclude...),
		Framework: scan.FrameworkAuto,
		Output: OutputPaths{
			KnowledgeFile: "docs/help/knowledge.json",
			DocsDir:       "docs/help",
			CodeMapFile:   ".helpgen/codemap.json",
			DatabaseFile:  ".helpgen/helpgen.db",
		},
	}
}

// LoadProject reads root/.helpgen.yaml. A missing file yields defaults; an
// invalid file is an error so a typo cannot silently scan the wrong tree.
func LoadProject(root string) (*Project, error) {
	proj := DefaultProject()
	path := filepath.Join(root, ProjectFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return proj, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, proj); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(proj.Include) == 0 {
		proj.Include = append([]string(nil), scan.DefaultInclude...)
	}
	if proj.Framework == "" {
		proj.Framework = scan.FrameworkAuto
	}
	fillOutputDefaults(&proj.Output)
	if err := proj.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return proj, nil
}

func fillOutputDefaults(out *OutputPaths) {
	def := DefaultProject().Output
	if out.KnowledgeFile == "" {
		out.KnowledgeFile = def.KnowledgeFile
	}
	if out.DocsDir == "" {
		out.DocsDir = def.DocsDir
	}
	if out.CodeMapFile == "" {
		out.CodeMapFile = def.CodeMapFile
	}
	if out.DatabaseFile == "" {
		out.DatabaseFile = def.DatabaseFile
	}
}

func (p *Project) validate() error {
	switch p.Framework {
	case scan.FrameworkAuto, scan.FrameworkNext, scan.FrameworkReact, scan.FrameworkExpress:
	default:
		return fmt.Errorf("unknown framework %q", p.Framework)
	}
	for _, ct := range p.CustomTopics {
		if !strings.Contains(ct.ID, ".") {
			return fmt.Errorf("custom topic id %q must be category.topic", ct.ID)
		}
		if len(ct.Patterns) == 0 {
			return fmt.Errorf("custom topic %q has no patterns", ct.ID)
		}
	}
	return nil
}

// Catalog builds the topic catalog for this project: builtins extended with
// the project's custom topics.
func (p *Project) Catalog() (*scan.Catalog, error) {
	return scan.BuiltinCatalog().Extend(p.CustomTopics)
}

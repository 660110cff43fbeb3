package knowledge

import (
	"sort"
	"time"

	"github.com/julianshen/helpgen/internal/scan"
)

// Action classifies what the generation run should do for one topic.
type Action string

const (
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionSkipPinned    Action = "skip-pinned"
	ActionSkipUnchanged Action = "skip-unchanged"
)

const (
	maxEvidenceSnippets = 5
	maxStringsPerPage   = 10
)

// PlannerConfig controls reconciliation.
type PlannerConfig struct {
	// Categories restricts planning to features whose category (topic id
	// prefix before the first dot) appears in the list. Empty means all
	// categories are eligible.
	Categories []string

	// ChangedOnly skips topics whose evidence files are all already
	// recorded on the existing item.
	ChangedOnly bool
}

// PageContext is the slice of a scanned page handed to the generator.
type PageContext struct {
	Path    string   `json:"path"`
	Strings []string `json:"strings,omitempty"`
}

// GenContext is everything the generation backend sees for one topic.
// It is assembled here so the generator stays a dumb prompt-and-parse layer.
type GenContext struct {
	TopicID    string          `json:"topicId"`
	TopicName  string          `json:"topicName"`
	Confidence float64         `json:"confidence"`
	Pages      []PageContext   `json:"pages,omitempty"`
	Evidence   []scan.Evidence `json:"evidence,omitempty"`
}

// Decision is the planner's verdict for one detected feature.
type Decision struct {
	Feature  scan.DetectedFeature
	Action   Action
	Existing *Item
	Context  *GenContext
}

// Plan reconciles detected features against the knowledge base and returns
// one decision per eligible feature, in detection order. Features outside
// the category allow-list are dropped entirely.
func Plan(cm *scan.CodeMap, base *Base, catalog *scan.Catalog, cfg PlannerConfig) []Decision {
	allowed := map[string]bool{}
	for _, c := range cfg.Categories {
		allowed[c] = true
	}
	byTopic := base.ItemsByTopic()

	var decisions []Decision
	for _, f := range cm.Features {
		if len(allowed) > 0 && !allowed[f.Category()] {
			continue
		}
		d := Decision{Feature: f}
		existing := byTopic[f.ID]
		switch {
		case existing == nil:
			d.Action = ActionCreate
		case existing.Pinned:
			d.Action = ActionSkipPinned
			d.Existing = existing
		case cfg.ChangedOnly && coveredBy(f.Evidence, existing.SourceFiles):
			d.Action = ActionSkipUnchanged
			d.Existing = existing
		default:
			d.Action = ActionUpdate
			d.Existing = existing
		}
		if d.Action == ActionCreate || d.Action == ActionUpdate {
			d.Context = BuildContext(cm, catalog, f)
		}
		decisions = append(decisions, d)
	}
	return decisions
}

// coveredBy reports whether every evidence file is already recorded.
func coveredBy(evidence []scan.Evidence, sourceFiles []string) bool {
	known := make(map[string]bool, len(sourceFiles))
	for _, f := range sourceFiles {
		known[f] = true
	}
	for _, ev := range evidence {
		if !known[ev.SourceFile] {
			return false
		}
	}
	return true
}

// BuildContext assembles the generation context for one feature: the pages
// whose source files overlap the feature's evidence, each with at most ten
// user-facing strings, plus at most five evidence snippets.
func BuildContext(cm *scan.CodeMap, catalog *scan.Catalog, f scan.DetectedFeature) *GenContext {
	gc := &GenContext{
		TopicID:    f.ID,
		TopicName:  topicName(catalog, f.ID),
		Confidence: f.Confidence,
	}

	evFiles := make(map[string]bool, len(f.Evidence))
	for _, ev := range f.Evidence {
		evFiles[ev.SourceFile] = true
	}
	for _, page := range cm.Pages {
		if !touchesAny(page.SourceFiles, evFiles) {
			continue
		}
		pc := PageContext{Path: page.Path}
		for _, s := range page.Strings {
			if len(pc.Strings) >= maxStringsPerPage {
				break
			}
			pc.Strings = append(pc.Strings, s.Value)
		}
		gc.Pages = append(gc.Pages, pc)
	}
	sort.Slice(gc.Pages, func(i, j int) bool { return gc.Pages[i].Path < gc.Pages[j].Path })

	ev := f.Evidence
	if len(ev) > maxEvidenceSnippets {
		ev = ev[:maxEvidenceSnippets]
	}
	gc.Evidence = append(gc.Evidence, ev...)
	return gc
}

func touchesAny(files []string, set map[string]bool) bool {
	for _, f := range files {
		if set[f] {
			return true
		}
	}
	return false
}

func topicName(catalog *scan.Catalog, id string) string {
	if catalog != nil {
		if t, ok := catalog.TopicByID(id); ok {
			return t.Name
		}
	}
	return id
}

// GenResult is the parsed generator output for one topic.
type GenResult struct {
	Title   string
	Pages   []string
	Content string
}

// ApplyGeneration folds a generation result into the existing item, or a
// fresh one when existing is nil. Regeneration always resets the item to an
// unedited draft; the pinned flag is never touched here since pinned items
// never reach generation.
func ApplyGeneration(existing *Item, f scan.DetectedFeature, res GenResult, codeVersion string, now time.Time) Item {
	var item Item
	if existing != nil {
		item = *existing
	} else {
		item = NewItem(f.ID)
	}
	item.Title = res.Title
	item.Pages = res.Pages
	item.Content = res.Content
	item.SourceFiles = evidenceFiles(f.Evidence)
	item.Confidence = f.Confidence
	item.CodeVersion = codeVersion
	item.GeneratedAt = now
	item.Status = StatusDraft
	item.HumanEdited = false
	item.LastEditedAt = nil
	return item
}

// evidenceFiles returns the unique evidence files in first-seen order.
func evidenceFiles(evidence []scan.Evidence) []string {
	seen := make(map[string]bool, len(evidence))
	var files []string
	for _, ev := range evidence {
		if seen[ev.SourceFile] {
			continue
		}
		seen[ev.SourceFile] = true
		files = append(files, ev.SourceFile)
	}
	return files
}

// Package knowledge models the persistent help-documentation knowledge base
// and the reconciliation logic that decides, per detected topic, whether an
// item must be created, regenerated or left alone.
package knowledge

import (
	"time"

	"github.com/google/uuid"
)

// Status is the review state of a knowledge item.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusReviewed Status = "reviewed"
	StatusApproved Status = "approved"
	StatusPinned   Status = "pinned"
)

// Item is one generated help article. Identity is stable once created;
// reconciliation looks items up by Topic. Regeneration overwrites
// SourceFiles, Confidence, Content, Title and GeneratedAt unless the item
// is pinned.
type Item struct {
	ID           string     `json:"id"`
	Topic        string     `json:"topic"`
	Title        string     `json:"title"`
	Pages        []string   `json:"pages"`
	Content      string     `json:"content"`
	SourceFiles  []string   `json:"sourceFiles"`
	CodeVersion  string     `json:"codeVersion,omitempty"`
	GeneratedAt  time.Time  `json:"generatedAt"`
	Status       Status     `json:"status"`
	Confidence   float64    `json:"confidence"`
	HumanEdited  bool       `json:"humanEdited"`
	Pinned       bool       `json:"pinned"`
	LastEditedAt *time.Time `json:"lastEditedAt,omitempty"`
}

// NewItem creates a draft item with a fresh id.
func NewItem(topic string) Item {
	return Item{
		ID:     uuid.NewString(),
		Topic:  topic,
		Status: StatusDraft,
	}
}

// Edit records a human content edit made outside the generation path.
// HumanEdited stays set until the next regeneration clears it.
func (it *Item) Edit(content string, now time.Time) {
	it.Content = content
	it.HumanEdited = true
	it.LastEditedAt = &now
}

// Pin protects the item from regeneration. Pinning is exclusively a human
// action; the generation pipeline never sets it.
func (it *Item) Pin() {
	it.Pinned = true
	it.Status = StatusPinned
}

// Gap is a user question with no covering topic, kept for intake triage.
// Gaps are deduplicated by exact question match, bumping Frequency.
type Gap struct {
	ID          string    `json:"id"`
	Question    string    `json:"question"`
	Frequency   int       `json:"frequency"`
	CreatedAt   time.Time `json:"createdAt"`
	LastAskedAt time.Time `json:"lastAskedAt"`
}

// Base is the on-disk knowledge base: read once before planning, written
// once after all topics are resolved.
type Base struct {
	SchemaVersion int    `json:"schemaVersion"`
	Product       string `json:"product,omitempty"`
	Items         []Item `json:"items"`
}

// ItemsByTopic indexes the base's items for reconciliation lookups.
func (b *Base) ItemsByTopic() map[string]*Item {
	m := make(map[string]*Item, len(b.Items))
	for i := range b.Items {
		m[b.Items[i].Topic] = &b.Items[i]
	}
	return m
}

// Upsert replaces the item with the same topic or appends a new one.
func (b *Base) Upsert(item Item) {
	for i := range b.Items {
		if b.Items[i].Topic == item.Topic {
			b.Items[i] = item
			return
		}
	}
	b.Items = append(b.Items, item)
}

package generate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/helpgen/internal/knowledge"
	"github.com/julianshen/helpgen/internal/provider"
	"github.com/julianshen/helpgen/internal/scan"
)

// mockLLM returns canned responses keyed by a substring of the prompt.
type mockLLM struct {
	mu        sync.Mutex
	calls     int
	respond   func(prompt string) (string, error)
	lastModel string
}

func (m *mockLLM) Complete(_ context.Context, req provider.CompletionRequest) (*provider.Completion, error) {
	m.mu.Lock()
	m.calls++
	m.lastModel = req.Model
	m.mu.Unlock()
	text, err := m.respond(req.Prompt)
	if err != nil {
		return nil, err
	}
	return &provider.Completion{Text: text, Usage: provider.Usage{InputTokens: 100, OutputTokens: 50}}, nil
}

func decision(action knowledge.Action, topic string, existing *knowledge.Item) knowledge.Decision {
	f := scan.DetectedFeature{
		ID:         topic,
		Confidence: 0.9,
		Evidence:   []scan.Evidence{{Pattern: "x", SourceFile: "src/app.tsx", Line: 1}},
	}
	return knowledge.Decision{
		Feature:  f,
		Action:   action,
		Existing: existing,
		Context:  &knowledge.GenContext{TopicID: topic, TopicName: topic, Confidence: 0.9},
	}
}

func TestRunCreatesAndUpdates(t *testing.T) {
	llm := &mockLLM{respond: func(string) (string, error) {
		return `{"title": "T", "pages": ["/p"], "content": "Body."}`, nil
	}}
	existing := &knowledge.Item{ID: "old-id", Topic: "billing.invoices"}
	base := &knowledge.Base{Items: []knowledge.Item{*existing}}
	r := &Runner{LLM: llm, Model: "m", MaxTokens: 512}

	summary := r.Run(context.Background(), []knowledge.Decision{
		decision(knowledge.ActionCreate, "authentication.login", nil),
		decision(knowledge.ActionUpdate, "billing.invoices", existing),
	}, base)

	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 200, summary.Usage.InputTokens)
	assert.Equal(t, 100, summary.Usage.OutputTokens)
	assert.Len(t, base.Items, 2)

	byTopic := base.ItemsByTopic()
	assert.Equal(t, "old-id", byTopic["billing.invoices"].ID)
	assert.Equal(t, "Body.", byTopic["billing.invoices"].Content)
	assert.Equal(t, knowledge.StatusDraft, byTopic["billing.invoices"].Status)
}

func TestRunCountsSkipsWithoutCalls(t *testing.T) {
	llm := &mockLLM{respond: func(string) (string, error) { return "", errors.New("must not be called") }}
	r := &Runner{LLM: llm}

	summary := r.Run(context.Background(), []knowledge.Decision{
		decision(knowledge.ActionSkipPinned, "a.b", nil),
		decision(knowledge.ActionSkipUnchanged, "c.d", nil),
	}, &knowledge.Base{})

	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 0, llm.calls)
}

func TestRunIsolatesFailures(t *testing.T) {
	llm := &mockLLM{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "billing.invoices") {
			return "", errors.New("rate limited")
		}
		return `{"title": "T", "content": "ok"}`, nil
	}}
	base := &knowledge.Base{}
	r := &Runner{LLM: llm, Concurrency: 2}

	summary := r.Run(context.Background(), []knowledge.Decision{
		decision(knowledge.ActionCreate, "authentication.login", nil),
		decision(knowledge.ActionCreate, "billing.invoices", nil),
	}, base)

	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "billing.invoices", summary.Failures[0].Topic)
	// The failed topic leaves no partial item behind.
	require.Len(t, base.Items, 1)
	assert.Equal(t, "authentication.login", base.Items[0].Topic)
}

func TestRunDryRunMakesNoCalls(t *testing.T) {
	llm := &mockLLM{respond: func(string) (string, error) { return "", errors.New("must not be called") }}
	base := &knowledge.Base{}
	r := &Runner{LLM: llm, DryRun: true}

	summary := r.Run(context.Background(), []knowledge.Decision{
		decision(knowledge.ActionCreate, "a.b", nil),
		decision(knowledge.ActionUpdate, "c.d", &knowledge.Item{Topic: "c.d"}),
		decision(knowledge.ActionSkipPinned, "e.f", nil),
	}, base)

	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, llm.calls)
	assert.Empty(t, base.Items)
}

func TestRunTimeoutFailsTopic(t *testing.T) {
	slow := completerFunc(func(ctx context.Context, _ provider.CompletionRequest) (*provider.Completion, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return &provider.Completion{Text: "late"}, nil
		}
	})
	r := &Runner{LLM: slow, Timeout: 10 * time.Millisecond}

	summary := r.Run(context.Background(), []knowledge.Decision{
		decision(knowledge.ActionCreate, "a.b", nil),
	}, &knowledge.Base{})

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 0, summary.Created)
}

type completerFunc func(ctx context.Context, req provider.CompletionRequest) (*provider.Completion, error)

func (f completerFunc) Complete(ctx context.Context, req provider.CompletionRequest) (*provider.Completion, error) {
	return f(ctx, req)
}

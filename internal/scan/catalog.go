package scan

import (
	"fmt"
	"regexp"
	"strings"
)

// Topic is one entry of the feature catalog: a topic id, the regex patterns
// that evidence it, and a base confidence for a single match.
type Topic struct {
	ID         string
	Name       string
	Patterns   []*regexp.Regexp
	Confidence float64
	Prompt     string
}

// CustomTopic is a user-supplied catalog extension from project
// configuration. Patterns are matched the same way as built-in patterns.
type CustomTopic struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
	Prompt   string   `yaml:"prompt"`
}

// Catalog is an immutable, ordered set of topics. Load it once and extend
// with custom topics; tests substitute a reduced catalog.
type Catalog struct {
	topics []Topic
}

// Topics returns the catalog entries in order.
func (c *Catalog) Topics() []Topic {
	return c.topics
}

// Extend returns a new catalog with the custom topics appended. Custom
// patterns are compiled case-insensitively; a pattern that is not valid
// regex syntax is treated as a literal substring.
func (c *Catalog) Extend(custom []CustomTopic) (*Catalog, error) {
	topics := make([]Topic, 0, len(c.topics)+len(custom))
	topics = append(topics, c.topics...)

	for _, ct := range custom {
		if ct.ID == "" || !strings.Contains(ct.ID, ".") {
			return nil, fmt.Errorf("custom topic id %q must have the form <category>.<topic>", ct.ID)
		}
		var patterns []*regexp.Regexp
		for _, p := range ct.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(p))
			}
			patterns = append(patterns, re)
		}
		name := ct.Name
		if name == "" {
			name = displayName(ct.ID)
		}
		topics = append(topics, Topic{
			ID:         ct.ID,
			Name:       name,
			Patterns:   patterns,
			Confidence: 0.8,
			Prompt:     ct.Prompt,
		})
	}

	return &Catalog{topics: topics}, nil
}

// TopicByID looks up a catalog entry; ok is false when absent.
func (c *Catalog) TopicByID(id string) (Topic, bool) {
	for _, t := range c.topics {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}

// displayName turns "authentication.two-factor-auth" into
// "Two Factor Auth".
func displayName(id string) string {
	topic := id
	if i := strings.Index(id, "."); i >= 0 {
		topic = id[i+1:]
	}
	words := strings.FieldsFunc(topic, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func pats(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile("(?i)" + e)
	}
	return out
}

// BuiltinCatalog returns the fixed product-support topic taxonomy. Patterns
// cover both naming tokens and route fragments.
func BuiltinCatalog() *Catalog {
	return &Catalog{topics: []Topic{
		// authentication
		{ID: "authentication.login", Name: "Logging In", Confidence: 0.9,
			Patterns: pats(`sign[-_ ]?in`, `log[-_ ]?in`, `/auth\b`, `authenticate`)},
		{ID: "authentication.signup", Name: "Creating an Account", Confidence: 0.9,
			Patterns: pats(`sign[-_ ]?up`, `\bregister\b`, `create[-_ ]?account`)},
		{ID: "authentication.password-reset", Name: "Resetting Your Password", Confidence: 0.9,
			Patterns: pats(`forgot[-_ ]?password`, `reset[-_ ]?password`, `change[-_ ]?password`)},
		{ID: "authentication.two-factor-auth", Name: "Two-Factor Authentication", Confidence: 0.95,
			Patterns: pats(`two[-_ ]?factor`, `\b2fa\b`, `\btotp\b`, `authenticator[-_ ]?app`, `verification[-_ ]?code`)},
		{ID: "authentication.sso", Name: "Single Sign-On", Confidence: 0.85,
			Patterns: pats(`single[-_ ]?sign[-_ ]?on`, `\bsso\b`, `\bsaml\b`, `\boauth\b`)},

		// navigation
		{ID: "navigation.search", Name: "Searching", Confidence: 0.85,
			Patterns: pats(`\bsearch\b`, `autocomplete`, `typeahead`)},
		{ID: "navigation.dashboard", Name: "Your Dashboard", Confidence: 0.85,
			Patterns: pats(`dashboard`, `/overview\b`)},
		{ID: "navigation.shortcuts", Name: "Keyboard Shortcuts", Confidence: 0.75,
			Patterns: pats(`keyboard[-_ ]?shortcut`, `hotkey`, `command[-_ ]?palette`)},

		// data
		{ID: "data.export", Name: "Exporting Data", Confidence: 0.9,
			Patterns: pats(`export[-_ ]?(csv|data|pdf|report)`, `download[-_ ]?(csv|report|file)`, `\bxlsx\b`)},
		{ID: "data.import", Name: "Importing Data", Confidence: 0.9,
			Patterns: pats(`import[-_ ]?(csv|data|file)`, `file[-_ ]?upload`, `bulk[-_ ]?upload`, `dropzone`)},
		{ID: "data.filtering", Name: "Filtering and Sorting", Confidence: 0.8,
			Patterns: pats(`\bfilter`, `sort[-_ ]?by`, `\bfacet`)},
		{ID: "data.pagination", Name: "Paging Through Results", Confidence: 0.75,
			Patterns: pats(`paginat`, `page[-_ ]?size`, `next[-_ ]?page`, `load[-_ ]?more`)},

		// settings
		{ID: "settings.profile", Name: "Managing Your Profile", Confidence: 0.85,
			Patterns: pats(`\bprofile\b`, `\bavatar\b`, `display[-_ ]?name`)},
		{ID: "settings.preferences", Name: "Preferences", Confidence: 0.8,
			Patterns: pats(`preference`, `/settings\b`, `\btheme\b`, `dark[-_ ]?mode`)},
		{ID: "settings.notifications", Name: "Notification Settings", Confidence: 0.85,
			Patterns: pats(`notification`, `email[-_ ]?alert`, `push[-_ ]?notif`, `unsubscribe`)},

		// errors
		{ID: "errors.error-pages", Name: "Error Pages", Confidence: 0.7,
			Patterns: pats(`not[-_ ]?found`, `\b404\b`, `\b500\b`, `error[-_ ]?boundary`)},
		{ID: "errors.form-validation", Name: "Form Validation", Confidence: 0.8,
			Patterns: pats(`validation`, `\binvalid\b`, `required[-_ ]?field`, `form[-_ ]?error`)},

		// billing
		{ID: "billing.subscription", Name: "Subscriptions and Plans", Confidence: 0.9,
			Patterns: pats(`subscription`, `\bbilling\b`, `upgrade[-_ ]?plan`, `\bpricing\b`)},
		{ID: "billing.payment-methods", Name: "Payment Methods", Confidence: 0.9,
			Patterns: pats(`payment[-_ ]?method`, `credit[-_ ]?card`, `\bstripe\b`, `checkout`)},
		{ID: "billing.invoices", Name: "Invoices and Receipts", Confidence: 0.85,
			Patterns: pats(`invoice`, `receipt`, `billing[-_ ]?history`)},

		// integrations
		{ID: "integrations.api-keys", Name: "API Keys", Confidence: 0.85,
			Patterns: pats(`api[-_ ]?key`, `access[-_ ]?token`, `personal[-_ ]?token`)},
		{ID: "integrations.webhooks", Name: "Webhooks", Confidence: 0.85,
			Patterns: pats(`webhook`, `callback[-_ ]?url`, `event[-_ ]?subscription`)},
		{ID: "integrations.connected-apps", Name: "Connected Apps", Confidence: 0.75,
			Patterns: pats(`\bintegration`, `connect[-_ ]?(slack|github|google)`, `oauth[-_ ]?app`)},

		// collaboration
		{ID: "collaboration.sharing", Name: "Sharing and Permissions", Confidence: 0.85,
			Patterns: pats(`\bshare\b`, `\binvite\b`, `\bpermission`)},
		{ID: "collaboration.comments", Name: "Comments and Mentions", Confidence: 0.8,
			Patterns: pats(`\bcomment`, `\bmention\b`, `\breply\b`)},
		{ID: "collaboration.teams", Name: "Teams and Workspaces", Confidence: 0.85,
			Patterns: pats(`team[-_ ]?member`, `workspace`, `organization`)},
	}}
}

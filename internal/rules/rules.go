// Package rules implements the categorisation rule table. Rules annotate
// reconciled transactions with a category label; they run strictly after
// reconciliation and may read only the description, type, and amount.
package rules

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ledgerstitch-dev/ledgerstitch/internal/model"
)

// Rule is one row of the rule table. Lower priority values match first.
type Rule struct {
	Priority     int    `yaml:"priority"`
	Category     string `yaml:"category"`
	Match        string `yaml:"match"` // contains (default), exact, startswith, endswith, regex
	Pattern      string `yaml:"pattern"`
	Direction    string `yaml:"direction,omitempty"`     // debit, credit, or empty for any
	TypeContains string `yaml:"type_contains,omitempty"` // substring filter on the transaction type
	Active       *bool  `yaml:"active,omitempty"`        // nil means active
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// RuleSet is a compiled, priority-ordered rule table.
type RuleSet struct {
	rules   []Rule
	regexes map[int]*regexp.Regexp // index into rules, for match: regex
}

// Load reads a YAML rule file and compiles it.
func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	return New(rf.Rules)
}

// New compiles a rule slice. Inactive rules and rules without a category or
// pattern are dropped; the rest sort by ascending priority, ties keeping
// file order.
func New(rules []Rule) (*RuleSet, error) {
	var kept []Rule
	for _, r := range rules {
		if r.Active != nil && !*r.Active {
			continue
		}
		if strings.TrimSpace(r.Category) == "" || strings.TrimSpace(r.Pattern) == "" {
			continue
		}
		kept = append(kept, r)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Priority < kept[j].Priority })

	regexes := make(map[int]*regexp.Regexp)
	for i, r := range kept {
		if strings.EqualFold(r.Match, "regex") {
			re, err := regexp.Compile("(?i)" + r.Pattern)
			if err != nil {
				return nil, fmt.Errorf("rule %q: bad pattern: %w", r.Category, err)
			}
			regexes[i] = re
		}
	}
	return &RuleSet{rules: kept, regexes: regexes}, nil
}

// Empty returns a rule set with no rules; Categorize always returns "".
func Empty() *RuleSet {
	return &RuleSet{}
}

// Categorize returns the category of the first matching rule, or "" when no
// rule matches. It reads only the description, type, and amount.
func (rs *RuleSet) Categorize(txn model.CanonicalTransaction) string {
	for i, r := range rs.rules {
		if rs.matches(i, r, txn) {
			return r.Category
		}
	}
	return ""
}

func (rs *RuleSet) matches(idx int, r Rule, txn model.CanonicalTransaction) bool {
	if r.TypeContains != "" &&
		!strings.Contains(strings.ToLower(txn.Type), strings.ToLower(r.TypeContains)) {
		return false
	}

	switch strings.ToLower(r.Direction) {
	case "debit":
		if txn.Amount.Sign() >= 0 {
			return false
		}
	case "credit":
		if txn.Amount.Sign() <= 0 {
			return false
		}
	}

	desc := strings.TrimSpace(txn.Description)
	pattern := strings.TrimSpace(r.Pattern)
	descLow := strings.ToLower(desc)
	pattLow := strings.ToLower(pattern)

	switch strings.ToLower(r.Match) {
	case "exact":
		return descLow == pattLow
	case "startswith":
		return strings.HasPrefix(descLow, pattLow)
	case "endswith":
		return strings.HasSuffix(descLow, pattLow)
	case "regex":
		return rs.regexes[idx].MatchString(desc)
	default:
		return strings.Contains(descLow, pattLow)
	}
}

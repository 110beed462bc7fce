// Package alerts evaluates moderation alert rules against match
// listings. Each rule is compiled to a CEL program once and reused for
// every match checked, so moderators can scan full listings cheaply.
package alerts

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"

	"uhc/internal/domain"
)

// Hit records one rule firing on one match field value.
type Hit struct {
	Rule  domain.AlertRule
	Field domain.AlertField
	Value string
}

type compiledRule struct {
	rule    domain.AlertRule
	program cel.Program
}

// Detector holds the compiled rule set. Reload swaps the set atomically
// so checks never observe a half-updated configuration.
type Detector struct {
	mu    sync.RWMutex
	rules []compiledRule
}

// NewDetector compiles the rule set. A rule that fails validation or
// compilation fails the whole load: a silently dropped rule is worse
// than a loud startup error.
func NewDetector(rules []domain.AlertRule) (*Detector, error) {
	d := &Detector{}
	if err := d.Reload(rules); err != nil {
		return nil, err
	}
	return d, nil
}

// Reload replaces the rule set.
func (d *Detector) Reload(rules []domain.AlertRule) error {
	compiled := make([]compiledRule, 0, len(rules))
	for i := range rules {
		cr, err := compileRule(rules[i])
		if err != nil {
			return fmt.Errorf("rule %d (%s): %w", rules[i].ID, rules[i].Field, err)
		}
		compiled = append(compiled, cr)
	}
	d.mu.Lock()
	d.rules = compiled
	d.mu.Unlock()
	return nil
}

func compileRule(rule domain.AlertRule) (compiledRule, error) {
	if err := rule.Validate(); err != nil {
		return compiledRule{}, err
	}

	env, err := cel.NewEnv(
		cel.Declarations(
			decls.NewVar("value", decls.String),
		),
	)
	if err != nil {
		return compiledRule{}, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	pattern := strconv.Quote(strings.ToLower(rule.AlertOn))
	expr := "value.contains(" + pattern + ")"
	if rule.Exact {
		expr = "value == " + pattern
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return compiledRule{}, fmt.Errorf("failed to compile expression: %w", issues.Err())
	}
	program, err := env.Program(ast)
	if err != nil {
		return compiledRule{}, fmt.Errorf("failed to create program: %w", err)
	}
	return compiledRule{rule: rule, program: program}, nil
}

// Check evaluates every rule against the match. Matching is
// case-insensitive; each rule reports at most one hit per match.
func (d *Detector) Check(m *domain.Match) []Hit {
	if d == nil {
		return nil
	}
	d.mu.RLock()
	rules := d.rules
	d.mu.RUnlock()

	var hits []Hit
	for _, cr := range rules {
		for _, value := range cr.rule.FieldValues(m) {
			result, _, err := cr.program.Eval(map[string]any{
				"value": strings.ToLower(value),
			})
			if err != nil {
				continue
			}
			if matched, ok := result.Value().(bool); ok && matched {
				hits = append(hits, Hit{Rule: cr.rule, Field: cr.rule.Field, Value: value})
				break
			}
		}
	}
	return hits
}

// CheckAll maps match ID to the hits on that match, omitting clean
// matches.
func (d *Detector) CheckAll(matches []domain.Match) map[int64][]Hit {
	out := map[int64][]Hit{}
	for i := range matches {
		if hits := d.Check(&matches[i]); len(hits) > 0 {
			out[matches[i].ID] = hits
		}
	}
	return out
}

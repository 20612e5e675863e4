package domain

// Step is a named position in a wizard. Sort strictly defines traversal
// order; rules only gate visibility, they never reorder.
type Step struct {
	StepID string `json:"stepId" yaml:"stepId"`
	Sort   int    `json:"sort" yaml:"sort"`
	Name   string `json:"name" yaml:"name"`
	Title  string `json:"title" yaml:"title"`

	// SemanticTag is a stable key for the step, independent of wording.
	SemanticTag string `json:"semanticTag" yaml:"semanticTag"`

	// Rule is an optional natural-language visibility condition, evaluated
	// by the RuleOracle against the accumulated response context. A step
	// with no rule is unconditionally visible.
	Rule string `json:"rule,omitempty" yaml:"rule,omitempty"`

	// RuleContext is free-text background handed to the oracle alongside
	// the rule. Display metadata only; never evaluated client-side.
	RuleContext string `json:"ruleContext,omitempty" yaml:"ruleContext,omitempty"`
}

// HasRule reports whether this step's visibility is gated by the oracle.
func (s Step) HasRule() bool {
	return s.Rule != ""
}

// RuleQuery is one entry in a batched oracle evaluation request.
type RuleQuery struct {
	StepID      string `json:"stepId"`
	Rule        string `json:"rule"`
	RuleContext string `json:"ruleContext,omitempty"`
}

// RuleVerdict is the oracle's boolean answer for a single step.
type RuleVerdict struct {
	StepID       string `json:"stepId"`
	IsRulePassed bool   `json:"isRulePassed"`
}

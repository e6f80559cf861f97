package core

// Rule is one enumerated policy statement, scoped to an area. Rules are
// immutable after load and live for the whole run.
type Rule struct {
	Area      string
	Text      string
	Predicate string // ID of the mechanical check; empty when the rule has none
}

// Copyright 2017 The Peggy Authors
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

package peg

import "github.com/rs/zerolog"

// defaultMaxRecursion is the recursion bound a Registry uses unless
// overridden with WithMaxRecursion.
const defaultMaxRecursion = 1024

// A Rule pairs a RuleID with the Element it invokes. Rules are the unit of
// mutual recursion: a Rule's Element may reference any RuleID registered in
// the same Registry, including its own, so long as that reference is not
// directly left-recursive.
type Rule struct {
	ID      RuleID
	Element Element
}

// A Registry is a named mapping of RuleID to Element, built once via
// AddModule and thereafter read-only. A *Registry may be shared across
// concurrent Parse calls on disjoint inputs: parsing never mutates it.
type Registry struct {
	rules        map[RuleID]Element
	maxRecursion uint
	log          zerolog.Logger
}

// A RegistryOption configures a Registry at construction.
type RegistryOption func(*Registry)

// WithMaxRecursion overrides the default rule-activation recursion bound.
func WithMaxRecursion(n uint) RegistryOption {
	return func(r *Registry) { r.maxRecursion = n }
}

// WithLogger attaches a zerolog.Logger that Parse uses to emit Debug-level
// trace events (rule entry/exit, CatchTo recovery scans). The default
// Registry is silent (zerolog.Nop()).
func WithLogger(l zerolog.Logger) RegistryOption {
	return func(r *Registry) { r.log = l }
}

// NewRegistry returns an empty Registry configured by opts.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		rules:        make(map[RuleID]Element),
		maxRecursion: defaultMaxRecursion,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddModule merges a batch of rules into the Registry. It is atomic: if any
// rule in module is already declared, has a zero-value Element, or has
// direct left recursion, AddModule adds none of module's rules and returns
// a *RegistryErrors describing every such problem found in module.
func (r *Registry) AddModule(module []Rule) error {
	var errs RegistryErrors
	seenInModule := make(map[RuleID]bool, len(module))
	for _, rule := range module {
		if rule.Element.k == kindString && rule.Element.str == "" {
			// The zero Element{} has kind kindString (0) and an empty str,
			// a combination no constructor can produce: String panics on
			// an empty literal.
			errs.add(&InvalidElementError{ID: rule.ID})
			continue
		}
		if _, ok := r.rules[rule.ID]; ok || seenInModule[rule.ID] {
			errs.add(&DuplicateRuleError{ID: rule.ID})
			continue
		}
		seenInModule[rule.ID] = true
		if rule.Element.HasLeftRecursion(rule.ID) {
			errs.add(&LeftRecursionError{ID: rule.ID})
		}
	}
	if err := errs.ret(); err != nil {
		return err
	}
	for _, rule := range module {
		r.rules[rule.ID] = rule.Element
	}
	return nil
}

// Parse evaluates entry against input and returns the resulting SyntaxTree.
// Parse succeeds only if entry's Element matches and the match consumes all
// of input; otherwise it returns ErrNoMatchedRule. See the parser.go engine
// for the matching semantics of each Element kind.
func (r *Registry) Parse(input string, entry RuleID) (*SyntaxTree, error) {
	return newState(r, input).parse(entry)
}

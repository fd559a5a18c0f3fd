// Copyright 2017 The Peggy Authors
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

package peg

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrNoMatchedRule is returned by Parse when the entry rule fails to match,
// or matches without consuming the whole input.
var ErrNoMatchedRule = errors.New("peg: no matched rule")

// ErrExceededMaxRecursion is returned by Parse when rule activation nests
// deeper than the Registry's configured maxRecursion. It is a hard error:
// it propagates straight out of any Sequence, Choice, or Loop backtracking
// in progress, rather than being treated as an ordinary match failure.
var ErrExceededMaxRecursion = errors.New("peg: exceeded max recursion")

// A RuleNotExistsError reports that a RuleRef Element named a RuleID absent
// from the Registry. Like ErrExceededMaxRecursion, it is a hard error.
type RuleNotExistsError struct {
	ID RuleID
}

func (e *RuleNotExistsError) Error() string {
	return fmt.Sprintf("peg: rule %q does not exist", e.ID)
}

// state holds the mutable cursor of a single Parse call. A state is never
// shared between calls, so Parse can run concurrently against one Registry.
type state struct {
	reg       *Registry
	input     []rune
	index     uint
	recursion uint
	pos       *InputPositionCounter
}

func newState(reg *Registry, input string) *state {
	return &state{
		reg:   reg,
		input: []rune(input),
		pos:   NewInputPositionCounter(input),
	}
}

// parse invokes entry and, on a full-input match, wraps its children in the
// SyntaxTree's root Node.
func (s *state) parse(entry RuleID) (*SyntaxTree, error) {
	node, matched, err := s.evalRule(entry)
	if err != nil {
		return nil, err
	}
	if !matched || s.index != uint(len(s.input)) {
		return nil, ErrNoMatchedRule
	}
	return &SyntaxTree{Root: node}, nil
}

// evalRule activates id: looks up its Element, evaluates it under one more
// level of recursion, and on success wraps the result in a Node named id.
func (s *state) evalRule(id RuleID) (*Node, bool, error) {
	if s.recursion >= s.reg.maxRecursion {
		return nil, false, ErrExceededMaxRecursion
	}
	elem, ok := s.reg.rules[id]
	if !ok {
		return nil, false, &RuleNotExistsError{ID: id}
	}
	s.reg.log.Debug().Str("rule", id.String()).Uint("index", s.index).Msg("enter")
	s.recursion++
	children, matched, err := s.evalElement(elem)
	s.recursion--
	s.reg.log.Debug().Str("rule", id.String()).Bool("matched", matched).Msg("exit")
	if err != nil {
		return nil, false, err
	}
	if !matched {
		return nil, false, nil
	}
	return &Node{Name: id.String(), Children: children}, true, nil
}

// evalElement dispatches on e.k, implementing the matching semantics of
// every Element variant. It returns (children, matched, err): err is a hard
// error (RuleNotExists, ExceededMaxRecursion) that must propagate past any
// enclosing backtracking; matched is false for an ordinary, recoverable
// match failure, in which case children is always nil.
func (s *state) evalElement(e Element) ([]SyntaxChild, bool, error) {
	switch e.k {
	case kindString:
		return s.evalString(e.str)
	case kindCharClass:
		return s.evalCharClass(e.re)
	case kindWildcard:
		return s.evalWildcard()
	case kindRule:
		node, matched, err := s.evalRule(e.ruleID)
		if err != nil || !matched {
			return nil, matched, err
		}
		return []SyntaxChild{node}, true, nil
	case kindSequence:
		return s.evalSequence(e.items)
	case kindChoice:
		return s.evalChoice(e.items)
	case kindLoop:
		return s.evalLoop(e.items[0], e.loopRange)
	case kindPosLookahead:
		return s.evalLookahead(e.items[0], true)
	case kindNegLookahead:
		return s.evalLookahead(e.items[0], false)
	case kindGroup:
		children, matched, err := s.evalElement(e.items[0])
		if err != nil || !matched {
			return nil, matched, err
		}
		return []SyntaxChild{&Node{Name: e.name, Children: children}}, true, nil
	case kindHidden:
		_, matched, err := s.evalElement(e.items[0])
		if err != nil || !matched {
			return nil, matched, err
		}
		return []SyntaxChild{}, true, nil
	case kindExpansion:
		children, matched, err := s.evalElement(e.items[0])
		if err != nil || !matched {
			return nil, matched, err
		}
		return []SyntaxChild(SyntaxChildVec(children).Expand(0, !e.expandOnce)), true, nil
	case kindError:
		return s.evalError(e.items[0], e.msg)
	case kindCatchSkip:
		return s.evalCatchSkip(e.items[0], *e.recovery, e.msg)
	default:
		panic("peg: invalid element kind")
	}
}

// evalString matches str literally, scalar by scalar.
func (s *state) evalString(str string) ([]SyntaxChild, bool, error) {
	runes := []rune(str)
	n := uint(len(runes))
	if s.index+n > uint(len(s.input)) {
		return nil, false, nil
	}
	for i := uint(0); i < n; i++ {
		if s.input[s.index+i] != runes[i] {
			return nil, false, nil
		}
	}
	start := s.pos.GetPosition(s.index)
	s.index += n
	return []SyntaxChild{&Leaf{Start: start, Value: str}}, true, nil
}

// evalCharClass matches one scalar against re, anchored at position 0 of
// the single-scalar string re is tested against.
func (s *state) evalCharClass(re *regexp.Regexp) ([]SyntaxChild, bool, error) {
	if s.index >= uint(len(s.input)) {
		return nil, false, nil
	}
	r := s.input[s.index]
	if loc := re.FindStringIndex(string(r)); loc == nil || loc[0] != 0 {
		return nil, false, nil
	}
	start := s.pos.GetPosition(s.index)
	s.index++
	return []SyntaxChild{&Leaf{Start: start, Value: string(r)}}, true, nil
}

// evalWildcard matches any single remaining scalar.
func (s *state) evalWildcard() ([]SyntaxChild, bool, error) {
	if s.index >= uint(len(s.input)) {
		return nil, false, nil
	}
	r := s.input[s.index]
	start := s.pos.GetPosition(s.index)
	s.index++
	return []SyntaxChild{&Leaf{Start: start, Value: string(r)}}, true, nil
}

// evalSequence matches every item in order, restoring index and failing
// atomically if any item fails.
func (s *state) evalSequence(items []Element) ([]SyntaxChild, bool, error) {
	save := s.index
	var children []SyntaxChild
	for _, item := range items {
		kids, matched, err := s.evalElement(item)
		if err != nil {
			return nil, false, err
		}
		if !matched {
			s.index = save
			return nil, false, nil
		}
		children = append(children, kids...)
	}
	return children, true, nil
}

// evalChoice tries each item in order, restoring index between attempts,
// and returns the first that matches.
func (s *state) evalChoice(items []Element) ([]SyntaxChild, bool, error) {
	save := s.index
	for _, item := range items {
		kids, matched, err := s.evalElement(item)
		if err != nil {
			return nil, false, err
		}
		if matched {
			return kids, true, nil
		}
		s.index = save
	}
	return nil, false, nil
}

// evalLoop matches item repeatedly within r's bounds. The (1,1) identity
// range bypasses the loop machinery entirely. Otherwise it stops attempting
// further iterations once count reaches r.Max (so a Max(0) loop never
// evaluates item at all), and separately stops if an iteration matched
// without advancing index, so an unbounded loop over a nullable item can
// never spin forever. It fails (restoring index) only if fewer than r.Min
// iterations succeeded.
func (s *state) evalLoop(item Element, r LoopRange) ([]SyntaxChild, bool, error) {
	if r.isIdentity() {
		return s.evalElement(item)
	}
	save := s.index
	var children []SyntaxChild
	var count uint
	for {
		if !r.Max.unbounded && count == r.Max.n {
			break
		}
		before := s.index
		kids, matched, err := s.evalElement(item)
		if err != nil {
			return nil, false, err
		}
		if !matched {
			break
		}
		children = append(children, kids...)
		count++
		if s.index == before {
			break
		}
	}
	if count >= r.Min {
		return children, true, nil
	}
	s.index = save
	return nil, false, nil
}

// evalLookahead evaluates item for its match result only, always restoring
// index, and succeeds with no children iff that result equals want.
func (s *state) evalLookahead(item Element, want bool) ([]SyntaxChild, bool, error) {
	save := s.index
	_, matched, err := s.evalElement(item)
	s.index = save
	if err != nil {
		return nil, false, err
	}
	if matched == want {
		return []SyntaxChild{}, true, nil
	}
	return nil, false, nil
}

// evalError is the soft diagnostic form: a match wraps item's children in
// an Error carrying msg; a non-match still succeeds, consuming and emitting
// nothing, so Err never fails the enclosing parse on its own.
func (s *state) evalError(item Element, msg string) ([]SyntaxChild, bool, error) {
	children, matched, err := s.evalElement(item)
	if err != nil {
		return nil, false, err
	}
	if !matched {
		return []SyntaxChild{}, true, nil
	}
	return []SyntaxChild{&Error{Message: msg, Children: children}}, true, nil
}

// evalCatchSkip behaves as item when item matches. On failure it restores
// index, then scans forward one scalar at a time, retrying recovery at
// each position, until recovery matches or input is exhausted. A match
// yields a single Error carrying msg over whatever recovery consumed;
// exhausting the input without a match surfaces ErrNoMatchedRule.
func (s *state) evalCatchSkip(item, recovery Element, msg string) ([]SyntaxChild, bool, error) {
	save := s.index
	children, matched, err := s.evalElement(item)
	if err != nil {
		return nil, false, err
	}
	if matched {
		return children, true, nil
	}
	s.index = save
	for {
		kids, matched, err := s.evalElement(recovery)
		if err != nil {
			return nil, false, err
		}
		if matched {
			return []SyntaxChild{&Error{Message: msg, Children: kids}}, true, nil
		}
		if s.index >= uint(len(s.input)) {
			return nil, false, ErrNoMatchedRule
		}
		s.reg.log.Debug().Uint("index", s.index).Msg("catch_to scanning forward")
		s.index++
	}
}

// Copyright 2017 The Peggy Authors
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

package peg

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// kind tags the variant held by an Element. Element is a single tagged sum
// rather than a hierarchy of types implementing a common interface, so that
// the parser engine below is one structural dispatch over kind instead of a
// scattered set of per-type match methods.
type kind int

const (
	kindString kind = iota
	kindCharClass
	kindWildcard
	kindRule
	kindSequence
	kindChoice
	kindLoop
	kindPosLookahead
	kindNegLookahead
	kindGroup
	kindHidden
	kindExpansion
	kindError
	kindCatchSkip
)

// An Element is a node of the grammar algebra: an atomic matcher or a
// combinator built from other Elements. Elements are immutable once built
// and safe to share between rules and goroutines; every combinator method
// below returns a new Element rather than mutating the receiver.
type Element struct {
	k kind

	// kindString
	str string

	// kindCharClass
	pattern string
	re      *regexp.Regexp

	// kindRule
	ruleID RuleID

	// kindSequence, kindChoice: item list.
	// kindLoop, kindPosLookahead, kindNegLookahead, kindGroup, kindHidden,
	// kindExpansion, kindError, kindCatchSkip: sole child in items[0].
	items []Element

	// kindLoop
	loopRange LoopRange

	// kindGroup
	name string

	// kindExpansion
	expandOnce bool

	// kindError, kindCatchSkip
	msg string

	// kindCatchSkip
	recovery *Element
}

// String constructs an Element matching s literally. s must be non-empty;
// String panics otherwise, since an empty literal can never advance the
// parser and so can never be a meaningful grammar element.
func String(s string) Element {
	if s == "" {
		panic("peg: String: empty string is not allowed")
	}
	return Element{k: kindString, str: s}
}

// CharClass constructs an Element matching a single scalar against the
// regular-expression character class pattern. The pattern is compiled once,
// here; CharClass panics if it does not compile.
func CharClass(pattern string) Element {
	re, err := regexp.Compile(pattern)
	if err != nil {
		panic(fmt.Sprintf("peg: CharClass: invalid pattern %q: %v", pattern, err))
	}
	return Element{k: kindCharClass, pattern: pattern, re: re}
}

// Wildcard constructs an Element matching exactly one scalar.
func Wildcard() Element {
	return Element{k: kindWildcard}
}

// RuleRef constructs an Element that invokes the rule named id.
func RuleRef(id RuleID) Element {
	return Element{k: kindRule, ruleID: id}
}

// Sequence constructs an Element matching each of items in order,
// failing atomically (consuming nothing) if any item fails.
func Sequence(items ...Element) Element {
	return Element{k: kindSequence, items: items}
}

// Choice constructs an Element matching the first of items that succeeds,
// trying each in order and backtracking between attempts.
func Choice(items ...Element) Element {
	return Element{k: kindChoice, items: items}
}

// A Maxable is the upper bound of a LoopRange: either a concrete count or
// Unbounded.
type Maxable struct {
	unbounded bool
	n         uint
}

// Bounded returns a Maxable with upper bound n.
func Bounded(n uint) Maxable { return Maxable{n: n} }

// Unbounded is the Maxable with no upper bound.
var Unbounded = Maxable{unbounded: true}

// IsUnbounded reports whether m has no upper bound.
func (m Maxable) IsUnbounded() bool { return m.unbounded }

// N returns m's bound. It is meaningful only when !m.IsUnbounded().
func (m Maxable) N() uint { return m.n }

// A LoopRange is the repetition bound of a Loop Element.
type LoopRange struct {
	Min uint
	Max Maxable
}

// isIdentity reports whether r is the (1,1) range, the identity repetition
// that the engine short-circuits around the loop machinery entirely.
func (r LoopRange) isIdentity() bool {
	return r.Min == 1 && !r.Max.unbounded && r.Max.n == 1
}

// Loop constructs an Element matching item repeated according to r.
func Loop(item Element, r LoopRange) Element {
	return Element{k: kindLoop, items: []Element{item}, loopRange: r}
}

// Times constructs an Element matching e exactly n times.
func (e Element) Times(n uint) Element {
	return e.MinMax(n, n)
}

// MinMax constructs an Element matching e at least min and at most max times.
func (e Element) MinMax(min, max uint) Element {
	return Loop(e, LoopRange{Min: min, Max: Bounded(max)})
}

// Min constructs an Element matching e at least min times, with no upper bound.
func (e Element) Min(min uint) Element {
	return Loop(e, LoopRange{Min: min, Max: Unbounded})
}

// Max constructs an Element matching e at most max times (and possibly zero).
func (e Element) Max(max uint) Element {
	return Loop(e, LoopRange{Min: 0, Max: Bounded(max)})
}

// Optional constructs an Element that matches e if possible, and otherwise
// succeeds having matched nothing.
func (e Element) Optional() Element {
	return e.MinMax(0, 1)
}

// PosLook constructs a zero-width Element that succeeds, consuming nothing,
// iff e matches.
func (e Element) PosLook() Element {
	return Element{k: kindPosLookahead, items: []Element{e}}
}

// NegLook constructs a zero-width Element that succeeds, consuming nothing,
// iff e does not match.
func (e Element) NegLook() Element {
	return Element{k: kindNegLookahead, items: []Element{e}}
}

// Group constructs an Element that, on matching e, wraps e's children in a
// single Node named name.
func (e Element) Group(name string) Element {
	return Element{k: kindGroup, items: []Element{e}, name: name}
}

// Hide constructs an Element that matches e but emits no children.
func (e Element) Hide() Element {
	return Element{k: kindHidden, items: []Element{e}}
}

// Expand constructs an Element that, on matching e, recursively flattens
// any Node children of the result into their own children.
func (e Element) Expand() Element {
	return Element{k: kindExpansion, items: []Element{e}}
}

// ExpandOnce constructs an Element that, on matching e, flattens one level
// of Node children of the result.
func (e Element) ExpandOnce() Element {
	return Element{k: kindExpansion, items: []Element{e}, expandOnce: true}
}

// Err constructs an Element that, on matching e, replaces its children with
// a single Error marker carrying msg. If e does not match, Err succeeds
// having consumed and emitted nothing: it is a soft, in-tree diagnostic, and
// never fails the enclosing parse on its own.
func (e Element) Err(msg string) Element {
	return Element{k: kindError, items: []Element{e}, msg: msg}
}

// CatchTo constructs an Element that behaves as e when e matches. When e
// fails, CatchTo scans forward by repeatedly evaluating recovery until it
// matches, then emits a single Error marker carrying msg over whatever
// recovery consumed. If input is exhausted before recovery matches, the
// parse fails with ErrNoMatchedRule.
func (e Element) CatchTo(msg string, recovery Element) Element {
	r := recovery
	return Element{k: kindCatchSkip, items: []Element{e}, msg: msg, recovery: &r}
}

// Around constructs an Element matching enc, then e, then enc again
// (e.g. a quoted or bracketed value).
func (e Element) Around(enc Element) Element {
	return Sequence(enc, e, enc)
}

// Separate constructs an Element matching one or more e separated by sep,
// with an optional trailing sep.
func (e Element) Separate(sep Element) Element {
	return Sequence(e, Sequence(sep, e).Min(0), sep.Optional())
}

// SeparateAround is like Separate, additionally wrapped in enc on both ends.
func (e Element) SeparateAround(enc, sep Element) Element {
	return e.Separate(sep).Around(enc)
}

// SeparateTimes constructs an Element matching e exactly n times, joined by
// sep, with no trailing separator.
func (e Element) SeparateTimes(sep Element, n uint) Element {
	if n == 0 {
		return Sequence()
	}
	items := make([]Element, 0, 2*int(n)-1)
	items = append(items, e)
	for i := uint(1); i < n; i++ {
		items = append(items, sep, e)
	}
	return Sequence(items...)
}

// HasLeftRecursion reports whether e's leftmost position reachable without
// consuming input refers back to id. It descends into the first child of
// Sequence and Choice, inspects rule references directly, and treats every
// other variant as not left-recursive (a Loop, lookahead, group, etc. either
// cannot appear first without consuming, or the check is conservatively
// limited to the shapes that matter in practice, per the grammar algebra's
// recursion discipline).
func (e Element) HasLeftRecursion(id RuleID) bool {
	switch e.k {
	case kindSequence, kindChoice:
		if len(e.items) == 0 {
			return false
		}
		return e.items[0].HasLeftRecursion(id)
	case kindRule:
		return e.ruleID == id
	default:
		return false
	}
}

// String returns e's canonical grammar source form, as described in the
// package documentation: literals as "...", wildcards as _, rule references
// as their identifier, choices as " / "-joined parenthesized lists,
// sequences as space-joined parenthesized lists, loops with suffixes *, +,
// ?, or {min,max}, lookaheads prefixed with & or !, groups suffixed #name,
// hidden suffixed ##, expansions suffixed ###, and error/catch forms
// rendered .err(msg) / .catch_to(recovery,msg).
func (e Element) String() string {
	switch e.k {
	case kindString:
		return `"` + e.str + `"`
	case kindCharClass:
		return e.re.String()
	case kindWildcard:
		return "_"
	case kindRule:
		return e.ruleID.String()
	case kindSequence:
		return "(" + joinElements(e.items, " ") + ")"
	case kindChoice:
		return "(" + joinElements(e.items, " / ") + ")"
	case kindLoop:
		return e.items[0].String() + e.loopRange.String()
	case kindPosLookahead:
		return "&" + e.items[0].String()
	case kindNegLookahead:
		return "!" + e.items[0].String()
	case kindGroup:
		return e.items[0].String() + "#" + e.name
	case kindHidden:
		return e.items[0].String() + "##"
	case kindExpansion:
		return e.items[0].String() + "###"
	case kindError:
		return e.items[0].String() + ".err(" + e.msg + ")"
	case kindCatchSkip:
		return e.items[0].String() + ".catch_to(" + e.recovery.String() + "," + e.msg + ")"
	default:
		return "<invalid element>"
	}
}

func joinElements(items []Element, sep string) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.String()
	}
	return strings.Join(parts, sep)
}

// String renders r using the * ({0,∞}), + ({1,∞}), ? ({0,1}) shorthands,
// falling back to {min,max} (max left empty when unbounded).
func (r LoopRange) String() string {
	switch {
	case r.Min == 0 && r.Max.unbounded:
		return "*"
	case r.Min == 1 && r.Max.unbounded:
		return "+"
	case r.Min == 0 && !r.Max.unbounded && r.Max.n == 1:
		return "?"
	}
	max := ""
	if !r.Max.unbounded {
		max = strconv.FormatUint(uint64(r.Max.n), 10)
	}
	return "{" + strconv.FormatUint(uint64(r.Min), 10) + "," + max + "}"
}

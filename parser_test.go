// Copyright 2017 The Peggy Authors
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

package peg

import (
	"errors"
	"testing"

	"github.com/eaburns/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, e Element, input string) *SyntaxTree {
	t.Helper()
	id := NewRuleID(t.Name())
	r := NewRegistry()
	require.NoError(t, r.AddModule([]Rule{{ID: id, Element: e}}))
	tree, err := r.Parse(input, id)
	require.NoError(t, err)
	return tree
}

func TestParseString(t *testing.T) {
	tree := parseOne(t, String("hello"), "hello")
	want := &Node{Name: t.Name(), Children: []SyntaxChild{
		&Leaf{Start: InputPosition{Line: 1, Column: 0}, Value: "hello"},
	}}
	if !treeEqual(tree.Root, want) {
		t.Errorf("got %s, want %s", pretty.String(tree.Root), pretty.String(want))
	}
}

func TestParseStringFailsOnMismatch(t *testing.T) {
	id := NewRuleID(t.Name())
	r := NewRegistry()
	require.NoError(t, r.AddModule([]Rule{{ID: id, Element: String("hello")}}))
	_, err := r.Parse("world", id)
	assert.ErrorIs(t, err, ErrNoMatchedRule)
}

func TestParseFailsOnPartialMatch(t *testing.T) {
	id := NewRuleID(t.Name())
	r := NewRegistry()
	require.NoError(t, r.AddModule([]Rule{{ID: id, Element: String("he")}}))
	_, err := r.Parse("hello", id)
	assert.ErrorIs(t, err, ErrNoMatchedRule)
}

func TestParseCharClass(t *testing.T) {
	tree := parseOne(t, CharClass("[a-z]"), "q")
	assert.Equal(t, "q", tree.Root.Children[0].(*Leaf).Value)
}

func TestParseWildcard(t *testing.T) {
	tree := parseOne(t, Wildcard(), "x")
	assert.Equal(t, "x", tree.Root.Children[0].(*Leaf).Value)
}

func TestParseWildcardFailsAtEOF(t *testing.T) {
	id := NewRuleID(t.Name())
	r := NewRegistry()
	require.NoError(t, r.AddModule([]Rule{{ID: id, Element: Wildcard()}}))
	_, err := r.Parse("", id)
	assert.ErrorIs(t, err, ErrNoMatchedRule)
}

func TestParseSequence(t *testing.T) {
	tree := parseOne(t, Sequence(String("a"), String("b")), "ab")
	assert.Len(t, tree.Root.Children, 2)
}

func TestParseSequenceBacktracksAtomically(t *testing.T) {
	id := NewRuleID(t.Name())
	r := NewRegistry()
	require.NoError(t, r.AddModule([]Rule{
		{ID: id, Element: Choice(
			Sequence(String("a"), String("X")),
			Sequence(String("a"), String("b")),
		)},
	}))
	tree, err := r.Parse("ab", id)
	require.NoError(t, err)
	assert.Len(t, tree.Root.Children, 2)
}

func TestParseChoiceTriesInOrder(t *testing.T) {
	id := NewRuleID(t.Name())
	r := NewRegistry()
	require.NoError(t, r.AddModule([]Rule{
		{ID: id, Element: Choice(String("a"), String("ab")).Min(1)},
	}))
	// Choice takes the first alternative that matches, so the Loop's first
	// iteration takes "a" and never tries "ab"; its second iteration meets
	// "b", which neither alternative matches, so "b" is left unconsumed and
	// the whole parse must fail.
	_, err := r.Parse("ab", id)
	assert.ErrorIs(t, err, ErrNoMatchedRule)
}

func TestParseLoopMinMax(t *testing.T) {
	id := NewRuleID(t.Name())
	r := NewRegistry()
	require.NoError(t, r.AddModule([]Rule{{ID: id, Element: String("a").MinMax(2, 3)}}))

	_, err := r.Parse("a", id)
	assert.ErrorIs(t, err, ErrNoMatchedRule, "fewer than Min repetitions must fail")

	tree, err := r.Parse("aa", id)
	require.NoError(t, err)
	assert.Len(t, tree.Root.Children, 2)

	tree, err = r.Parse("aaa", id)
	require.NoError(t, err)
	assert.Len(t, tree.Root.Children, 3)

	// A fourth "a" is left over: MinMax(2,3) matches at most 3, so the
	// rule matches "aaa" and the remaining "a" fails the full-input check.
	_, err = r.Parse("aaaa", id)
	assert.ErrorIs(t, err, ErrNoMatchedRule)
}

func TestParseLoopMaxZeroNeverEvaluatesItem(t *testing.T) {
	id := NewRuleID(t.Name())
	r := NewRegistry()
	require.NoError(t, r.AddModule([]Rule{{ID: id, Element: String("a").Max(0)}}))
	tree, err := r.Parse("", id)
	require.NoError(t, err)
	assert.Empty(t, tree.Root.Children)
}

func TestParseLoopForwardProgressGuard(t *testing.T) {
	// A nullable item (an Optional, which always succeeds) inside an
	// unbounded Loop must not spin forever: the loop must stop as soon as
	// an iteration fails to advance the index.
	id := NewRuleID(t.Name())
	r := NewRegistry()
	require.NoError(t, r.AddModule([]Rule{
		{ID: id, Element: String("x").Optional().Min(0)},
	}))
	tree, err := r.Parse("", id)
	require.NoError(t, err)
	assert.Empty(t, tree.Root.Children)
}

func TestParseLoopIdentityBypassesMachinery(t *testing.T) {
	tree := parseOne(t, String("a").MinMax(1, 1), "a")
	assert.Len(t, tree.Root.Children, 1)
}

func TestParsePositiveLookahead(t *testing.T) {
	id := NewRuleID(t.Name())
	r := NewRegistry()
	require.NoError(t, r.AddModule([]Rule{
		{ID: id, Element: Sequence(String("a").PosLook(), String("a"))},
	}))
	tree, err := r.Parse("a", id)
	require.NoError(t, err)
	// The lookahead itself contributes no children, only the following
	// String("a") does.
	assert.Len(t, tree.Root.Children, 1)

	_, err = r.Parse("b", id)
	assert.ErrorIs(t, err, ErrNoMatchedRule)
}

func TestParseNegativeLookahead(t *testing.T) {
	id := NewRuleID(t.Name())
	r := NewRegistry()
	require.NoError(t, r.AddModule([]Rule{
		{ID: id, Element: Sequence(String("a").NegLook(), String("b"))},
	}))
	tree, err := r.Parse("b", id)
	require.NoError(t, err)
	assert.Len(t, tree.Root.Children, 1)

	_, err = r.Parse("a", id)
	assert.ErrorIs(t, err, ErrNoMatchedRule)
}

func TestParseLookaheadConsumesNothing(t *testing.T) {
	id := NewRuleID(t.Name())
	r := NewRegistry()
	require.NoError(t, r.AddModule([]Rule{
		{ID: id, Element: Sequence(String("ab").PosLook(), String("ab"))},
	}))
	tree, err := r.Parse("ab", id)
	require.NoError(t, err)
	assert.Equal(t, "ab", tree.Root.Children[0].(*Leaf).Value)
}

func TestParseGroup(t *testing.T) {
	tree := parseOne(t, Sequence(String("a"), String("b")).Group("ab"), "ab")
	require.Len(t, tree.Root.Children, 1)
	group, ok := tree.Root.Children[0].(*Node)
	require.True(t, ok)
	assert.Equal(t, "ab", group.Name)
	assert.Len(t, group.Children, 2)
}

func TestParseHide(t *testing.T) {
	id := NewRuleID(t.Name())
	r := NewRegistry()
	require.NoError(t, r.AddModule([]Rule{
		{ID: id, Element: Sequence(String(" ").Hide(), String("a"))},
	}))
	tree, err := r.Parse(" a", id)
	require.NoError(t, err)
	assert.Len(t, tree.Root.Children, 1)
	assert.Equal(t, "a", tree.Root.Children[0].(*Leaf).Value)
}

func TestParseExpandOnce(t *testing.T) {
	inner := NewRuleID("Inner")
	id := NewRuleID(t.Name())
	r := NewRegistry()
	require.NoError(t, r.AddModule([]Rule{
		{ID: inner, Element: String("a").Group("leaf")},
		{ID: id, Element: RuleRef(inner).ExpandOnce()},
	}))
	tree, err := r.Parse("a", id)
	require.NoError(t, err)
	// RuleRef(inner) produces one Node ("Inner"); ExpandOnce flattens that
	// one level, surfacing Inner's own children (the "leaf" Group Node).
	require.Len(t, tree.Root.Children, 1)
	assert.Equal(t, "leaf", tree.Root.Children[0].(*Node).Name)
}

func TestParseExpandRecursive(t *testing.T) {
	inner := NewRuleID("Inner")
	id := NewRuleID(t.Name())
	r := NewRegistry()
	require.NoError(t, r.AddModule([]Rule{
		{ID: inner, Element: String("a").Group("leaf")},
		{ID: id, Element: RuleRef(inner).Expand()},
	}))
	tree, err := r.Parse("a", id)
	require.NoError(t, err)
	// Full recursive Expand flattens through the "leaf" Group Node too,
	// down to the raw Leaf.
	require.Len(t, tree.Root.Children, 1)
	assert.Equal(t, "a", tree.Root.Children[0].(*Leaf).Value)
}

func TestParseErrSoftDiagnostic(t *testing.T) {
	id := NewRuleID(t.Name())
	r := NewRegistry()
	require.NoError(t, r.AddModule([]Rule{
		{ID: id, Element: Sequence(String("a"), String("b").Err("expected b"), String("c").Optional())},
	}))

	// b matches: Err wraps it in an Error marker.
	tree, err := r.Parse("abc", id)
	require.NoError(t, err)
	errNode, ok := tree.Root.Children[1].(*Error)
	require.True(t, ok)
	assert.Equal(t, "expected b", errNode.Message)

	// b fails to match ("x" in its place): Err still succeeds, consuming
	// and emitting nothing, so the parse as a whole does not fail on b's
	// account -- it fails only because "x" is then left over unmatched.
	_, err = r.Parse("axc", id)
	assert.ErrorIs(t, err, ErrNoMatchedRule)
}

func TestParseCatchToRecovers(t *testing.T) {
	id := NewRuleID(t.Name())
	r := NewRegistry()
	require.NoError(t, r.AddModule([]Rule{
		{ID: id, Element: Sequence(
			String("a"),
			String("b").CatchTo("expected b", CharClass(`[;\n]`)),
		)},
	}))

	tree, err := r.Parse("a;", id)
	require.NoError(t, err)
	errNode, ok := tree.Root.Children[1].(*Error)
	require.True(t, ok)
	assert.Equal(t, "expected b", errNode.Message)
	assert.Equal(t, ";", errNode.Children[0].(*Leaf).Value)
}

func TestParseCatchToExhaustsInput(t *testing.T) {
	id := NewRuleID(t.Name())
	r := NewRegistry()
	require.NoError(t, r.AddModule([]Rule{
		{ID: id, Element: Sequence(
			String("a"),
			String("b").CatchTo("expected b", String(";")),
		)},
	}))
	_, err := r.Parse("axyz", id)
	assert.ErrorIs(t, err, ErrNoMatchedRule)
}

func TestParseMutualRecursion(t *testing.T) {
	expr := NewRuleID("Expr")
	paren := NewRuleID("Paren")
	r := NewRegistry()
	require.NoError(t, r.AddModule([]Rule{
		{ID: expr, Element: Choice(String("x"), RuleRef(paren))},
		{ID: paren, Element: Sequence(String("("), RuleRef(expr), String(")"))},
	}))

	_, err := r.Parse("((x))", expr)
	require.NoError(t, err)

	_, err = r.Parse("((x)", expr)
	assert.ErrorIs(t, err, ErrNoMatchedRule)
}

func TestParseRuleNotExistsIsHardError(t *testing.T) {
	missing := NewRuleID("Missing")
	id := NewRuleID(t.Name())
	r := NewRegistry()
	require.NoError(t, r.AddModule([]Rule{
		{ID: id, Element: Choice(RuleRef(missing), String("a"))},
	}))
	_, err := r.Parse("a", id)
	var notExists *RuleNotExistsError
	require.True(t, errors.As(err, &notExists), "a hard error must not be swallowed by Choice backtracking")
	assert.Equal(t, missing, notExists.ID)
}

func treeEqual(a, b SyntaxChild) bool {
	switch a := a.(type) {
	case *Node:
		b, ok := b.(*Node)
		if !ok || a.Name != b.Name || len(a.Children) != len(b.Children) {
			return false
		}
		for i := range a.Children {
			if !treeEqual(a.Children[i], b.Children[i]) {
				return false
			}
		}
		return true
	case *Leaf:
		b, ok := b.(*Leaf)
		return ok && a.Value == b.Value && a.Start.Equal(b.Start)
	case *Error:
		b, ok := b.(*Error)
		if !ok || a.Message != b.Message || len(a.Children) != len(b.Children) {
			return false
		}
		for i := range a.Children {
			if !treeEqual(a.Children[i], b.Children[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Copyright 2017 The Peggy Authors
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

package peg

import (
	"fmt"
	"sort"
	"strings"
)

// ruleIDError is implemented by every diagnostic RegistryErrors aggregates,
// letting ret() sort them into a deterministic order before joining.
type ruleIDError interface {
	error
	ruleID() RuleID
}

// A DuplicateRuleError reports that a rule id was registered more than once.
type DuplicateRuleError struct {
	ID RuleID
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("peg: rule %q is already declared", e.ID)
}

func (e *DuplicateRuleError) ruleID() RuleID { return e.ID }

// A LeftRecursionError reports that a rule's element directly refers to its
// own rule at a position reachable without consuming input.
type LeftRecursionError struct {
	ID RuleID
}

func (e *LeftRecursionError) Error() string {
	return fmt.Sprintf("peg: rule %q has direct left recursion", e.ID)
}

func (e *LeftRecursionError) ruleID() RuleID { return e.ID }

// An InvalidElementError reports that a module tried to register a rule
// whose Element is the zero value (a bare Element{}, never produced by any
// constructor in this package).
type InvalidElementError struct {
	ID RuleID
}

func (e *InvalidElementError) Error() string {
	return fmt.Sprintf("peg: rule %q has an invalid (zero-value) element", e.ID)
}

func (e *InvalidElementError) ruleID() RuleID { return e.ID }

// RegistryErrors aggregates every fatal diagnostic found while checking one
// AddModule call. AddModule is atomic: a module with any diagnostic adds no
// rules at all, and every diagnostic found in that module is reported
// together rather than stopping at the first one.
type RegistryErrors struct {
	Errs []error
}

func (e *RegistryErrors) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes the individual diagnostics for errors.Is / errors.As.
func (e *RegistryErrors) Unwrap() []error {
	return e.Errs
}

// ret returns nil if no diagnostic was added, otherwise e with Errs sorted
// by rule id for deterministic output, mirroring the teacher's
// Errors.ret() sort-then-join shape (there sorted by source Loc; here there
// is no source position, so rule id takes its place).
func (e *RegistryErrors) ret() error {
	if len(e.Errs) == 0 {
		return nil
	}
	sort.Slice(e.Errs, func(i, j int) bool {
		ri, oki := e.Errs[i].(ruleIDError)
		rj, okj := e.Errs[j].(ruleIDError)
		if !oki || !okj {
			return false
		}
		return ri.ruleID().String() < rj.ruleID().String()
	})
	return e
}

func (e *RegistryErrors) add(err error) {
	e.Errs = append(e.Errs, err)
}

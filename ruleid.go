// Copyright 2017 The Peggy Authors
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

package peg

import "sync"

// A RuleID names a rule within a Registry. IDs are interned: two RuleIDs
// built from equal strings always compare equal and hash identically, so a
// RuleID can be used directly as a map key or compared with ==.
type RuleID struct {
	s *string
}

var ruleIDPool = struct {
	sync.Mutex
	m map[string]*string
}{m: make(map[string]*string)}

// NewRuleID interns name and returns its RuleID.
func NewRuleID(name string) RuleID {
	ruleIDPool.Lock()
	defer ruleIDPool.Unlock()
	if p, ok := ruleIDPool.m[name]; ok {
		return RuleID{s: p}
	}
	p := new(string)
	*p = name
	ruleIDPool.m[name] = p
	return RuleID{s: p}
}

// String returns the rule name.
func (id RuleID) String() string {
	if id.s == nil {
		return ""
	}
	return *id.s
}

// IsZero reports whether id is the zero RuleID, never produced by NewRuleID.
func (id RuleID) IsZero() bool { return id.s == nil }

// Copyright 2017 The Peggy Authors
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

package peg

import "sort"

// sentinelIndex marks an InputPosition that compares equal to any other
// position. It exists purely as a testing convenience for oracles that want
// to ignore position fields; production code never constructs it.
const sentinelIndex = ^uint(0)

// An InputPosition locates a scalar offset within an input string by its
// scalar index, 1-based line number, and 0-based column within that line.
type InputPosition struct {
	Index, Line, Column uint
}

// SentinelPosition compares equal to every InputPosition, including itself.
// It is intended only for test oracles that don't care about exact
// positions; see InputPosition.Equal.
var SentinelPosition = InputPosition{Index: sentinelIndex, Line: sentinelIndex, Column: sentinelIndex}

// Equal reports whether p and q denote the same position, treating
// SentinelPosition as equal to anything.
func (p InputPosition) Equal(q InputPosition) bool {
	if p.isSentinel() || q.isSentinel() {
		return true
	}
	return p == q
}

func (p InputPosition) isSentinel() bool {
	return p.Index == sentinelIndex || p.Line == sentinelIndex || p.Column == sentinelIndex
}

// An InputPositionCounter answers index -> InputPosition queries for a fixed
// input, having scanned it once up front. Construction is O(n) in the input
// length; GetPosition runs in O(log lines) via binary search over a
// precomputed line table.
type InputPositionCounter struct {
	// lines[i] is the scalar start index of line i (0-based internally;
	// InputPosition.Line is reported 1-based).
	lines []uint
}

// NewInputPositionCounter scans input once, recording the start of every
// line (input is split at '\n'; content after the final newline is a
// trailing synthetic line, possibly empty).
func NewInputPositionCounter(input string) *InputPositionCounter {
	lines := []uint{0}
	var i uint
	for _, r := range input {
		i++
		if r == '\n' {
			lines = append(lines, i)
		}
	}
	return &InputPositionCounter{lines: lines}
}

// GetPosition returns the InputPosition of scalar offset index.
func (c *InputPositionCounter) GetPosition(index uint) InputPosition {
	// sort.Search finds the first line start strictly greater than index;
	// the line containing index is the one before it.
	line := sort.Search(len(c.lines), func(i int) bool {
		return c.lines[i] > index
	}) - 1
	if line < 0 {
		line = 0
	}
	return InputPosition{
		Index:  index,
		Line:   uint(line) + 1,
		Column: index - c.lines[line],
	}
}

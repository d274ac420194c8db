// seehuhn.de/go/pdfps - CMaps and calculator functions for PDF files
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package cmap

import (
	"bytes"
	"errors"
	"fmt"
)

// CodespaceRange describes a set of valid character codes of a fixed
// length.  A code matches if every byte lies between the corresponding
// bytes of Start and End, so multi-byte ranges are rectangular rather than
// numerically contiguous.
type CodespaceRange struct {
	start, end []byte
}

var errCodespaceLength = errors.New("codespace range bounds differ in length")

// NewCodespaceRange creates a new codespace range.
// A single zero byte as the start is extended with zeros to the length of
// end.  Otherwise start and end must have the same, non-zero length.
func NewCodespaceRange(start, end []byte) (CodespaceRange, error) {
	if len(start) == 1 && start[0] == 0 && len(end) > 1 {
		start = make([]byte, len(end))
	}
	if len(start) != len(end) || len(start) == 0 {
		return CodespaceRange{}, fmt.Errorf("%w: <%x> <%x>", errCodespaceLength, start, end)
	}
	return CodespaceRange{
		start: bytes.Clone(start),
		end:   bytes.Clone(end),
	}, nil
}

// CodeLength returns the number of bytes in the codes of the range.
func (r CodespaceRange) CodeLength() int {
	return len(r.start)
}

// Start returns the first code of the range.
func (r CodespaceRange) Start() []byte {
	return bytes.Clone(r.start)
}

// End returns the last code of the range.
func (r CodespaceRange) End() []byte {
	return bytes.Clone(r.end)
}

// IsFullMatch reports whether code has the length of the range and each of
// its bytes lies within the bounds for its position.
func (r CodespaceRange) IsFullMatch(code []byte) bool {
	if len(code) != len(r.start) {
		return false
	}
	for i, b := range code {
		if !r.IsPartialMatch(b, i) {
			return false
		}
	}
	return true
}

// Matches reports whether the first CodeLength() bytes of code lie in the
// range.
func (r CodespaceRange) Matches(code []byte) bool {
	if len(code) < len(r.start) {
		return false
	}
	return r.IsFullMatch(code[:len(r.start)])
}

// IsPartialMatch reports whether b is a valid byte at position pos of a code
// in this range.
func (r CodespaceRange) IsPartialMatch(b byte, pos int) bool {
	if pos < 0 || pos >= len(r.start) {
		return false
	}
	return b >= r.start[pos] && b <= r.end[pos]
}

func (r CodespaceRange) String() string {
	return fmt.Sprintf("<%02X> <%02X>", r.start, r.end)
}

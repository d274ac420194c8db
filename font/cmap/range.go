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
	"iter"
)

// All returns an iterator over all codes in the range, in increasing order.
// The byte slice is reused between iterations.
func (r CodespaceRange) All() iter.Seq2[int, []byte] {
	return codesInRange(r.start, r.end)
}

// Size returns the number of codes in the range.
func (r CodespaceRange) Size() int {
	n := 1
	for i := range r.start {
		if r.start[i] > r.end[i] {
			return 0
		}
		n *= int(r.end[i]-r.start[i]) + 1
	}
	return n
}

func rangeIsValid(first, last []byte) bool {
	if len(first) != len(last) || len(first) == 0 {
		return false
	}
	for i := 0; i < len(first); i++ {
		if first[i] > last[i] {
			return false
		}
	}
	return true
}

// codesInRange enumerates the codes in a rectangular range.  When the last
// byte reaches its upper bound, it is reset to its lower bound and the
// previous byte is incremented.
func codesInRange(first []byte, last []byte) iter.Seq2[int, []byte] {
	if !rangeIsValid(first, last) {
		return func(yield func(int, []byte) bool) {}
	}

	return func(yield func(int, []byte) bool) {
		idx := 0
		buf := bytes.Clone(first)
		for {
			if !yield(idx, buf) {
				return
			}

			pos := len(first) - 1
			for pos >= 0 {
				if buf[pos] < last[pos] {
					buf[pos]++
					break
				}
				buf[pos] = first[pos]
				pos--
			}
			if pos < 0 {
				break
			}
			idx++
		}
	}
}

// increment adds one to the big-endian number stored in buf.
// If carry is false, only the last byte is changed and the function fails
// once this byte is 0xFF.  If carry is true, overflow propagates to the
// left and the function only fails once all bytes are 0xFF.
// On failure, buf is left unchanged.
func increment(buf []byte, carry bool) bool {
	for pos := len(buf) - 1; pos >= 0; pos-- {
		if buf[pos] < 0xFF {
			buf[pos]++
			for i := pos + 1; i < len(buf); i++ {
				buf[i] = 0
			}
			return true
		}
		if !carry {
			return false
		}
	}
	return false
}

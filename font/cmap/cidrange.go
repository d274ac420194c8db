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

// CIDRange is a run of consecutive codes of the same length, which map to
// consecutive values starting at Base.
type CIDRange struct {
	From   int
	To     int
	Base   int
	Length int
}

// Map returns the value for code, if code is a Length-byte code in the
// range.
func (r *CIDRange) Map(code, length int) (int, bool) {
	if length != r.Length || code < r.From || code > r.To {
		return 0, false
	}
	return r.Base + (code - r.From), true
}

// Unmap returns the code which maps to val.
func (r *CIDRange) Unmap(val int) (int, bool) {
	if val < r.Base || val > r.Base+(r.To-r.From) {
		return 0, false
	}
	return r.From + (val - r.Base), true
}

// Extend grows the range to cover the codes from..to, if these directly
// follow the range and continue its values.  The return value indicates
// whether the range was modified.
func (r *CIDRange) Extend(from, to, base, length int) bool {
	if length != r.Length || from != r.To+1 || base != r.Base+(r.To-r.From)+1 {
		return false
	}
	r.To = to
	return true
}

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

// Package type4 implements the PostScript calculator language used by
// PDF Type 4 functions.
//
// A program is parsed into a [Sequence] by [Parse].  The sequence is then
// run by [Sequence.Execute] on a [Context], which holds the operand stack:
// inputs are pushed before the call and outputs are read from the stack
// afterwards.
//
// Only the operators listed in section 7.10.5 of ISO 32000-2:2020 are
// supported.  Integers are 32 bits wide; results of add, sub, mul, abs
// and neg which do not fit are converted to reals.
package type4

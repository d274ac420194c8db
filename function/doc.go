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

// Package function implements PDF functions, which are parameterized
// mathematical transformations that map m input values to n output values.
//
// Functions are used in PDF for colour transformations, shadings and
// similar numerical tasks.  Inputs are clipped to the function's domain,
// and outputs are clipped to its range.
//
// The following function types are supported:
//
//   - [Type2]: power interpolation functions, y = C0 + x^N × (C1 - C0)
//   - [Type3]: stitching functions, which combine several one-input functions
//   - [Type4]: PostScript calculator functions, see package
//     [seehuhn.de/go/pdfps/function/type4]
//
// All function types implement the [Func] interface.
package function

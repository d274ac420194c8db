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

// Package pdfps implements a lexer for the subset of the PostScript language
// which is used inside PDF files, for example in embedded CMap streams.
//
// The subpackages build on this lexer:
//
//   - [seehuhn.de/go/pdfps/font/cmap]: character maps, mapping character codes
//     to CIDs and Unicode text
//   - [seehuhn.de/go/pdfps/function/type4]: the PostScript calculator used by
//     PDF type 4 functions
//   - [seehuhn.de/go/pdfps/function]: PDF function objects
package pdfps

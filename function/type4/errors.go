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

package type4

import "errors"

// These errors are reported when a program fails during execution.
// They are named after the corresponding PostScript errors.
var (
	ErrStackUnderflow  = errors.New("stackunderflow")
	ErrStackOverflow   = errors.New("stackoverflow")
	ErrTypeCheck       = errors.New("typecheck")
	ErrRangeCheck      = errors.New("rangecheck")
	ErrUndefined       = errors.New("undefined")
	ErrUndefinedResult = errors.New("undefinedresult")
	ErrLimitCheck      = errors.New("limitcheck")
)

var (
	errUnexpectedClose = errors.New("unexpected '}'")
	errUnclosedProc    = errors.New("unterminated procedure")
)

// OpError records the operator which caused an execution error.
type OpError struct {
	Op  string
	Err error
}

func (err *OpError) Error() string {
	return err.Op + ": " + err.Err.Error()
}

func (err *OpError) Unwrap() error {
	return err.Err
}

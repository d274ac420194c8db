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

package pdfps

import (
	"errors"
	"strconv"
)

var (
	errUnexpectedDelimiter = errors.New("unexpected delimiter")
	errUnbalanced          = errors.New("unbalanced brackets")
	errBadHexDigit         = errors.New("invalid character in hex string")
)

// ParseError indicates that a PostScript-subset program could not be parsed.
// Token gives the offending token, Pos its byte offset in the input.
type ParseError struct {
	Pos   int64
	Token string
	Err   error
}

func (err *ParseError) Error() string {
	msg := "malformed PostScript input"
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	if err.Token != "" {
		msg += " near " + strconv.Quote(err.Token)
	}
	if err.Pos >= 0 {
		msg += " (at byte " + strconv.FormatInt(err.Pos, 10) + ")"
	}
	return msg
}

func (err *ParseError) Unwrap() error {
	return err.Err
}

// TokenError returns a ParseError for the given token.
func TokenError(tok Token, err error) *ParseError {
	return &ParseError{
		Pos:   tok.Pos,
		Token: tok.String(),
		Err:   err,
	}
}

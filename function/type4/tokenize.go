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

import (
	"bufio"
	"io"

	"seehuhn.de/go/pdfps"
)

// SyntaxHandler receives the lexical elements of a Type 4 program,
// in the order they occur in the input.
type SyntaxHandler interface {
	// NewLine is called for a run of end-of-line characters
	// (carriage return, line feed, form feed).
	NewLine(text string)

	// Whitespace is called for a run of spaces, tabs and null characters.
	Whitespace(text string)

	// Comment is called for a comment, from the "%" up to
	// the end of the line.
	Comment(text string)

	// Token is called for every other element.  The braces "{" and "}"
	// are always reported as separate tokens.
	Token(text string)
}

// BaseHandler implements [SyntaxHandler] with methods which do nothing.
// It can be embedded to implement only some of the methods.
type BaseHandler struct{}

func (BaseHandler) NewLine(string)    {}
func (BaseHandler) Whitespace(string) {}
func (BaseHandler) Comment(string)    {}
func (BaseHandler) Token(string)      {}

type lexState int

const (
	stateNone lexState = iota
	stateNewLine
	stateWhitespace
	stateComment
	stateToken
)

// Tokenize splits a Type 4 program into lexical elements and reports
// them to h.  The only errors returned are read errors from r.
func Tokenize(r io.Reader, h SyntaxHandler) error {
	br := bufio.NewReader(r)

	var buf []byte
	state := stateNone
	flush := func() {
		if len(buf) == 0 {
			return
		}
		text := string(buf)
		switch state {
		case stateNewLine:
			h.NewLine(text)
		case stateWhitespace:
			h.Whitespace(text)
		case stateComment:
			h.Comment(text)
		case stateToken:
			h.Token(text)
		}
		buf = buf[:0]
	}

	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			flush()
			return nil
		} else if err != nil {
			return err
		}

		next := classifyByte(c)
		if state == stateComment && next != stateNewLine {
			buf = append(buf, c)
			continue
		}

		if c == '{' || c == '}' {
			flush()
			state = stateToken
			buf = append(buf, c)
			flush()
			state = stateNone
			continue
		}

		if next != state {
			flush()
			state = next
		}
		buf = append(buf, c)
	}
}

func classifyByte(c byte) lexState {
	switch {
	case c == '\r' || c == '\n' || c == '\f':
		return stateNewLine
	case pdfps.IsSpace(c):
		return stateWhitespace
	case c == '%':
		return stateComment
	default:
		return stateToken
	}
}

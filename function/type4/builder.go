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
	"io"
	"math"
	"strings"

	"seehuhn.de/go/pdfps"
)

// Builder assembles a [Sequence] from the tokens reported by [Tokenize].
// Each "{" starts a nested procedure, which is stored as a literal in the
// enclosing sequence.
type Builder struct {
	frames []*Sequence
	pos    int64

	err error
}

// NewBuilder returns a Builder which holds an empty program.
func NewBuilder() *Builder {
	return &Builder{
		frames: []*Sequence{{}},
	}
}

// NewLine implements the [SyntaxHandler] interface.
func (b *Builder) NewLine(text string) {
	b.pos += int64(len(text))
}

// Whitespace implements the [SyntaxHandler] interface.
func (b *Builder) Whitespace(text string) {
	b.pos += int64(len(text))
}

// Comment implements the [SyntaxHandler] interface.
func (b *Builder) Comment(text string) {
	b.pos += int64(len(text))
}

// Token implements the [SyntaxHandler] interface.
func (b *Builder) Token(text string) {
	pos := b.pos
	b.pos += int64(len(text))
	if b.err != nil {
		return
	}

	cur := b.frames[len(b.frames)-1]
	switch text {
	case "{":
		proc := &Sequence{}
		cur.code = append(cur.code, instruction{val: Proc(proc)})
		b.frames = append(b.frames, proc)
	case "}":
		if len(b.frames) == 1 {
			b.err = &pdfps.ParseError{Pos: pos, Token: text, Err: errUnexpectedClose}
			return
		}
		b.frames = b.frames[:len(b.frames)-1]
	default:
		if v, ok := parseNumber(text); ok {
			cur.code = append(cur.code, instruction{val: v})
		} else {
			cur.code = append(cur.code, instruction{name: text, op: operators[text]})
		}
	}
}

// Result returns the program assembled so far.
func (b *Builder) Result() (*Sequence, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.frames) != 1 {
		return nil, &pdfps.ParseError{Pos: b.pos, Err: errUnclosedProc}
	}
	return b.frames[0], nil
}

// Parse reads a Type 4 program.  Operator names are not checked here;
// unknown operators cause [ErrUndefined] when the program is executed.
func Parse(r io.Reader) (*Sequence, error) {
	b := NewBuilder()
	err := Tokenize(r, b)
	if err != nil {
		return nil, err
	}
	return b.Result()
}

// ParseString reads a Type 4 program from a string.
func ParseString(s string) (*Sequence, error) {
	return Parse(strings.NewReader(s))
}

// parseNumber converts a token to an integer or a real.  Integers which
// do not fit into 32 bits are converted to reals.
func parseNumber(text string) (Value, bool) {
	tok, ok := pdfps.ParseNumber(text)
	if !ok {
		return Value{}, false
	}
	if tok.Kind == pdfps.Integer {
		if tok.Int >= math.MinInt32 && tok.Int <= math.MaxInt32 {
			return Int(int32(tok.Int)), true
		}
		return Real(float64(tok.Int)), true
	}
	return Real(tok.Real), true
}

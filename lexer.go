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
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TokenKind identifies the syntactic class of a [Token].
type TokenKind int

// These are the token kinds produced by a [Lexer].
const (
	Integer TokenKind = iota + 1
	Real
	String    // (...)
	HexString // <...>
	Name      // /Name
	Keyword   // executable name, e.g. "begincmap"
	ArrayStart
	ArrayEnd
	DictStart
	DictEnd
	ProcStart
	ProcEnd
)

func (k TokenKind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Real:
		return "real"
	case String:
		return "string"
	case HexString:
		return "hex string"
	case Name:
		return "name"
	case Keyword:
		return "keyword"
	case ArrayStart:
		return "["
	case ArrayEnd:
		return "]"
	case DictStart:
		return "<<"
	case DictEnd:
		return ">>"
	case ProcStart:
		return "{"
	case ProcEnd:
		return "}"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is a single lexical element of a PostScript-subset program.
type Token struct {
	Kind TokenKind

	// Pos is the byte offset of the first character of the token.
	Pos int64

	// Int holds the value of Integer tokens.
	Int int64

	// Real holds the value of Real tokens.
	Real float64

	// Bytes holds the contents of String and HexString tokens.
	Bytes []byte

	// Text holds the name of Name and Keyword tokens, without the leading
	// slash.
	Text string
}

// Is reports whether t is the keyword kw.
func (t Token) Is(kw string) bool {
	return t.Kind == Keyword && t.Text == kw
}

// IsNumber reports whether t is an integer or a real number.
func (t Token) IsNumber() bool {
	return t.Kind == Integer || t.Kind == Real
}

// Number returns the numeric value of an Integer or Real token.
func (t Token) Number() float64 {
	if t.Kind == Integer {
		return float64(t.Int)
	}
	return t.Real
}

func (t Token) String() string {
	switch t.Kind {
	case Integer:
		return strconv.FormatInt(t.Int, 10)
	case Real:
		return strconv.FormatFloat(t.Real, 'g', -1, 64)
	case String:
		return "(" + string(t.Bytes) + ")"
	case HexString:
		return fmt.Sprintf("<%x>", t.Bytes)
	case Name:
		return "/" + t.Text
	case Keyword:
		return t.Text
	default:
		return t.Kind.String()
	}
}

// Lexer splits a PostScript-subset program into tokens.
// Comments and white space are skipped.
type Lexer struct {
	s *scanner
}

// NewLexer returns a new Lexer which reads from r.
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{s: newScanner(r)}
}

// Pos returns the current byte offset in the input.
func (l *Lexer) Pos() int64 {
	return l.s.filePos()
}

// Next returns the next token.
// At the end of input, io.EOF is returned.
func (l *Lexer) Next() (Token, error) {
	s := l.s
	err := s.SkipWhiteSpace()
	if err != nil {
		return Token{}, err
	}

	pos := s.filePos()
	buf, err := s.Peek(2)
	if err != nil {
		return Token{}, err
	}
	if len(buf) == 0 {
		return Token{}, io.EOF
	}

	single := func(k TokenKind, n int) (Token, error) {
		s.pos += n
		return Token{Kind: k, Pos: pos}, nil
	}

	switch buf[0] {
	case '[':
		return single(ArrayStart, 1)
	case ']':
		return single(ArrayEnd, 1)
	case '{':
		return single(ProcStart, 1)
	case '}':
		return single(ProcEnd, 1)
	case '<':
		if len(buf) > 1 && buf[1] == '<' {
			return single(DictStart, 2)
		}
		s.pos++
		data, err := l.readHexString()
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: HexString, Pos: pos, Bytes: data}, nil
	case '>':
		if len(buf) > 1 && buf[1] == '>' {
			return single(DictEnd, 2)
		}
		s.pos++
		return Token{}, &ParseError{Pos: pos, Token: ">", Err: errUnexpectedDelimiter}
	case ')':
		s.pos++
		return Token{}, &ParseError{Pos: pos, Token: ")", Err: errUnexpectedDelimiter}
	case '(':
		s.pos++
		data, err := l.readQuotedString()
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: String, Pos: pos, Bytes: data}, nil
	case '/':
		s.pos++
		if len(buf) > 1 && buf[1] == '/' {
			s.pos++ // immediately evaluated name
		}
		name, err := l.readName()
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: Name, Pos: pos, Text: name}, nil
	}

	var word []byte
	err = s.ScanBytes(func(c byte) bool {
		if IsSpace(c) || IsDelimiter(c) {
			return false
		}
		word = append(word, c)
		return true
	})
	if err != nil {
		return Token{}, err
	}
	return classify(string(word), pos), nil
}

// Skip consumes tokens up to and including the token which closes an
// array, dictionary or procedure opened by open.
func (l *Lexer) Skip(open Token) error {
	var stack []TokenKind
	push := func(k TokenKind) {
		switch k {
		case ArrayStart:
			stack = append(stack, ArrayEnd)
		case DictStart:
			stack = append(stack, DictEnd)
		case ProcStart:
			stack = append(stack, ProcEnd)
		}
	}
	push(open.Kind)
	for len(stack) > 0 {
		tok, err := l.Next()
		if err == io.EOF {
			return &ParseError{Pos: l.Pos(), Token: open.String(), Err: io.ErrUnexpectedEOF}
		} else if err != nil {
			return err
		}
		switch tok.Kind {
		case ArrayStart, DictStart, ProcStart:
			push(tok.Kind)
		case ArrayEnd, DictEnd, ProcEnd:
			if tok.Kind != stack[len(stack)-1] {
				return &ParseError{Pos: tok.Pos, Token: tok.String(), Err: errUnbalanced}
			}
			stack = stack[:len(stack)-1]
		}
	}
	return nil
}

// classify converts a regular word into a number or a keyword.
func classify(word string, pos int64) Token {
	if x, err := strconv.ParseInt(word, 10, 64); err == nil {
		return Token{Kind: Integer, Pos: pos, Int: x}
	}
	if looksLikeReal(word) {
		if x, err := strconv.ParseFloat(word, 64); err == nil || errors.Is(err, strconv.ErrRange) {
			return Token{Kind: Real, Pos: pos, Real: x}
		}
	}
	if base, digits, ok := strings.Cut(word, "#"); ok {
		b, err := strconv.Atoi(base)
		if err == nil && b >= 2 && b <= 36 {
			if x, err := strconv.ParseUint(digits, b, 32); err == nil {
				return Token{Kind: Integer, Pos: pos, Int: int64(x)}
			}
		}
	}
	return Token{Kind: Keyword, Pos: pos, Text: word}
}

// ParseNumber interprets word as a PostScript number.  Integers, reals
// and radix numbers like "16#FF" are recognized.  The Pos field of the
// result is -1.
func ParseNumber(word string) (Token, bool) {
	tok := classify(word, -1)
	return tok, tok.IsNumber()
}

// looksLikeReal checks that word only uses the characters allowed in
// PostScript real numbers, so that strconv.ParseFloat does not accept
// things like "Inf" or hexadecimal floats.
func looksLikeReal(word string) bool {
	hasDigit := false
	for i := 0; i < len(word); i++ {
		c := word[i]
		switch {
		case c >= '0' && c <= '9':
			hasDigit = true
		case c == '+', c == '-', c == '.', c == 'e', c == 'E':
			// pass
		default:
			return false
		}
	}
	return hasDigit
}

// readHexString reads a <>-delimited string, starting after the opening
// angled bracket.  White space inside the string is ignored and an odd
// final digit is padded with zero.
func (l *Lexer) readHexString() ([]byte, error) {
	s := l.s
	res := []byte{}
	var hexVal byte
	first := true
	var bad error
	err := s.ScanBytes(func(c byte) bool {
		d, ok := hexDigit(c)
		switch {
		case ok:
			// pass
		case c == '>':
			return false
		case IsSpace(c):
			return true
		default:
			bad = &ParseError{Pos: s.filePos(), Token: string(c), Err: errBadHexDigit}
			return false
		}
		if first {
			hexVal = d
		} else {
			res = append(res, 16*hexVal+d)
		}
		first = !first
		return true
	})
	if err != nil {
		return nil, err
	}
	if bad != nil {
		return nil, bad
	}
	if !first {
		res = append(res, 16*hexVal)
	}

	buf, err := s.Peek(1)
	if err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return nil, &ParseError{Pos: s.filePos(), Token: "<", Err: io.ErrUnexpectedEOF}
	}
	s.pos++
	return res, nil
}

// readQuotedString reads a ()-delimited string, starting after the opening
// bracket.
func (l *Lexer) readQuotedString() ([]byte, error) {
	s := l.s
	res := []byte{}
	parenCount := 0
	escape := false
	ignoreLF := false
	isOctal := 0
	octalVal := byte(0)
	err := s.ScanBytes(func(c byte) bool {
		if ignoreLF {
			ignoreLF = false
			if c == '\n' {
				return true
			}
		}
		if isOctal > 0 {
			if c >= '0' && c <= '7' {
				octalVal = octalVal*8 + (c - '0')
				isOctal--
				if isOctal > 0 {
					return true
				}
				res = append(res, octalVal)
				return true
			}
			isOctal = 0
			res = append(res, octalVal)
		}
		if escape {
			escape = false
			switch c {
			case '\n':
				return true
			case '\r':
				ignoreLF = true
				return true
			case 'n':
				c = '\n'
			case 'r':
				c = '\r'
			case 't':
				c = '\t'
			case 'b':
				c = '\b'
			case 'f':
				c = '\f'
			}
			if c >= '0' && c <= '7' {
				isOctal = 2
				octalVal = c - '0'
				return true
			}
		} else if c == '\\' {
			escape = true
			return true
		} else if c == '(' {
			parenCount++
		} else if c == ')' {
			if parenCount == 0 {
				return false
			}
			parenCount--
		} else if c == '\r' {
			c = '\n'
			ignoreLF = true
		}
		res = append(res, c)
		return true
	})
	if err != nil {
		return nil, err
	}
	if isOctal > 0 {
		res = append(res, octalVal)
	}

	buf, err := s.Peek(1)
	if err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return nil, &ParseError{Pos: s.filePos(), Token: "(", Err: io.ErrUnexpectedEOF}
	}
	s.pos++ // we have already seen the closing ")"
	return res, nil
}

// readName reads a name, starting after the slash.
// The PDF escape sequence #xx is decoded.
func (l *Lexer) readName() (string, error) {
	var raw []byte
	err := l.s.ScanBytes(func(c byte) bool {
		if IsSpace(c) || IsDelimiter(c) {
			return false
		}
		raw = append(raw, c)
		return true
	})
	if err != nil {
		return "", err
	}

	res := raw[:0]
	for i := 0; i < len(raw); i++ {
		if raw[i] == '#' && i+2 < len(raw) {
			hi, ok1 := hexDigit(raw[i+1])
			lo, ok2 := hexDigit(raw[i+2])
			if ok1 && ok2 {
				res = append(res, 16*hi+lo)
				i += 2
				continue
			}
		}
		res = append(res, raw[i])
	}
	return string(res), nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

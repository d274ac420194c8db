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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"seehuhn.de/go/pdfps"
)

var (
	errMissingCount   = errors.New("expected an entry count")
	errUnterminated   = errors.New("missing end of section")
	errUnexpected     = errors.New("unexpected token")
	errCIDRangeLength = errors.New("cidrange bounds differ in length")
	errMissingName    = errors.New("usecmap without a CMap name")
)

// ParseOptions controls how [Parse] reads a CMap.
type ParseOptions struct {
	// Registry is used to resolve usecmap operators.
	// If this is nil, the registry returned by [Default] is used.
	Registry *Registry

	// Logger receives diagnostics about malformed but usable input.
	// If this is nil, slog.Default() is used.
	Logger *slog.Logger

	// chain lists the names of the CMaps currently being loaded by the
	// registry, outermost first.
	chain []string
}

// Parse reads a CMap program.
//
// Unknown operators are ignored.  Entries which cannot be interpreted, like
// bfchar destinations consisting of more than one character, are skipped
// and reported to the logger.  Structural problems, like a missing end of a
// section or a missing entry count, cause a [*pdfps.ParseError].
func Parse(r io.Reader, opt *ParseOptions) (*CMap, error) {
	p := &parser{
		lex:  pdfps.NewLexer(r),
		cmap: New(),
	}
	if opt != nil {
		p.opt = *opt
	}
	if p.opt.Registry == nil {
		p.opt.Registry = Default()
	}
	p.log = p.opt.Logger
	if p.log == nil {
		p.log = slog.Default()
	}
	p.cmap.logger = p.opt.Logger

	err := p.run()
	if err != nil {
		return nil, err
	}
	return p.cmap, nil
}

type parser struct {
	lex  *pdfps.Lexer
	cmap *CMap
	opt  ParseOptions
	log  *slog.Logger

	operands []pdfps.Token
}

func (p *parser) run() error {
	for {
		tok, err := p.lex.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		switch tok.Kind {
		case pdfps.Keyword:
			err = p.operator(tok)
			p.operands = p.operands[:0]
		case pdfps.DictStart:
			err = p.readDict(tok)
			p.operands = append(p.operands, tok)
		case pdfps.ArrayStart, pdfps.ProcStart:
			err = p.lex.Skip(tok)
			p.operands = append(p.operands, tok)
		case pdfps.ArrayEnd, pdfps.DictEnd, pdfps.ProcEnd:
			p.log.Debug("ignoring unbalanced delimiter", slog.Int64("pos", tok.Pos))
		default:
			p.operands = append(p.operands, tok)
		}
		if err != nil {
			return err
		}
	}
}

func (p *parser) operator(op pdfps.Token) error {
	switch op.Text {
	case "usecmap":
		return p.useCMap(op)
	case "def":
		n := len(p.operands)
		if n >= 2 && p.operands[n-2].Kind == pdfps.Name {
			p.setMeta(p.operands[n-2].Text, p.operands[n-1])
		}
		return nil
	case "begincodespacerange":
		return p.withCount(op, p.parseCodespaceRange)
	case "beginbfchar":
		return p.withCount(op, p.parseBFChar)
	case "beginbfrange":
		return p.withCount(op, p.parseBFRange)
	case "begincidchar":
		return p.withCount(op, p.parseCIDChar)
	case "begincidrange":
		return p.withCount(op, p.parseCIDRange)
	}
	return nil
}

// withCount checks that the operator is preceded by an entry count and
// then calls parse.
func (p *parser) withCount(op pdfps.Token, parse func(op pdfps.Token) (int, error)) error {
	n := len(p.operands)
	if n == 0 || p.operands[n-1].Kind != pdfps.Integer || p.operands[n-1].Int < 0 {
		return pdfps.TokenError(op, errMissingCount)
	}
	count := int(p.operands[n-1].Int)

	seen, err := parse(op)
	if err != nil {
		return err
	}
	if seen != count {
		p.log.Debug("wrong entry count",
			slog.String("op", op.Text),
			slog.Int("declared", count),
			slog.Int("found", seen))
	}
	return nil
}

func (p *parser) useCMap(op pdfps.Token) error {
	n := len(p.operands)
	if n == 0 {
		return pdfps.TokenError(op, errMissingName)
	}
	arg := p.operands[n-1]
	var name string
	switch arg.Kind {
	case pdfps.Name:
		name = arg.Text
	case pdfps.String:
		name = string(arg.Bytes)
	default:
		return pdfps.TokenError(arg, errMissingName)
	}

	base, err := p.opt.Registry.get(name, p.opt.chain)
	if err != nil {
		return err
	}
	if base == nil {
		p.log.Warn("unknown CMap in usecmap", slog.String("name", name))
		return nil
	}
	p.cmap.UseCMap(base)
	return nil
}

// readDict reads a dictionary and records the metadata it contains.  This
// picks up the entries of the /CIDSystemInfo dictionary.
func (p *parser) readDict(open pdfps.Token) error {
	key := ""
	for {
		tok, err := p.lex.Next()
		if err == io.EOF {
			return pdfps.TokenError(open, io.ErrUnexpectedEOF)
		} else if err != nil {
			return err
		}

		switch tok.Kind {
		case pdfps.DictEnd:
			return nil
		case pdfps.ArrayStart, pdfps.DictStart, pdfps.ProcStart:
			err = p.lex.Skip(tok)
			if err != nil {
				return err
			}
			key = ""
		case pdfps.Name:
			if key == "" {
				key = tok.Text
			} else {
				p.setMeta(key, tok)
				key = ""
			}
		default:
			if key != "" {
				p.setMeta(key, tok)
			}
			key = ""
		}
	}
}

func (p *parser) setMeta(key string, val pdfps.Token) {
	c := p.cmap
	ok := true
	switch key {
	case "CMapName":
		ok = val.Kind == pdfps.Name || val.Kind == pdfps.String
		if val.Kind == pdfps.Name {
			c.name = val.Text
		} else {
			c.name = string(val.Bytes)
		}
	case "CMapType":
		ok = val.Kind == pdfps.Integer
		c.cmapType = int(val.Int)
	case "Registry":
		ok = val.Kind == pdfps.String || val.Kind == pdfps.Name
		c.registry = string(val.Bytes) + val.Text
	case "Ordering":
		ok = val.Kind == pdfps.String || val.Kind == pdfps.Name
		c.ordering = string(val.Bytes) + val.Text
	case "Supplement":
		ok = val.Kind == pdfps.Integer
		c.supplement = int(val.Int)
	case "WMode":
		ok = val.Kind == pdfps.Integer
		c.wMode = int(val.Int)
	}
	if !ok {
		p.log.Debug("ignoring malformed CMap metadata",
			slog.String("key", key),
			slog.String("value", val.String()))
	}
}

// next returns the first token of the next entry.  The boolean result is
// true if the section is finished.
func (p *parser) next(op pdfps.Token, end string) (pdfps.Token, bool, error) {
	tok, err := p.lex.Next()
	if err == io.EOF {
		return tok, false, pdfps.TokenError(op, errUnterminated)
	} else if err != nil {
		return tok, false, err
	}
	return tok, tok.Is(end), nil
}

// value returns the next token inside an entry.
func (p *parser) value(op pdfps.Token) (pdfps.Token, error) {
	tok, err := p.lex.Next()
	if err == io.EOF {
		return tok, pdfps.TokenError(op, errUnterminated)
	}
	return tok, err
}

// bad returns the error for an unexpected token inside a section.
func bad(tok pdfps.Token) error {
	if tok.Kind == pdfps.Keyword {
		return pdfps.TokenError(tok, errUnterminated)
	}
	return pdfps.TokenError(tok, errUnexpected)
}

func code(tok pdfps.Token) ([]byte, error) {
	switch tok.Kind {
	case pdfps.HexString, pdfps.String:
		return tok.Bytes, nil
	}
	return nil, bad(tok)
}

func (p *parser) parseCodespaceRange(op pdfps.Token) (int, error) {
	for n := 0; ; n++ {
		lo, done, err := p.next(op, "endcodespacerange")
		if err != nil || done {
			return n, err
		}
		hi, err := p.value(op)
		if err != nil {
			return n, err
		}

		start, err := code(lo)
		if err != nil {
			return n, err
		}
		end, err := code(hi)
		if err != nil {
			return n, err
		}
		r, err := NewCodespaceRange(start, end)
		if err != nil {
			return n, pdfps.TokenError(lo, err)
		}
		p.cmap.AddCodespaceRange(r)
	}
}

func (p *parser) parseBFChar(op pdfps.Token) (int, error) {
	for n := 0; ; n++ {
		src, done, err := p.next(op, "endbfchar")
		if err != nil || done {
			return n, err
		}
		srcCode, err := code(src)
		if err != nil {
			return n, err
		}
		dst, err := p.value(op)
		if err != nil {
			return n, err
		}

		var r rune
		ok := false
		switch dst.Kind {
		case pdfps.HexString, pdfps.String:
			r, ok = decodeUTF16(dst.Bytes)
		case pdfps.Name:
			r, ok = glyphRune(dst.Text)
		case pdfps.Integer:
			r = rune(dst.Int)
			ok = dst.Int >= 0 && utf8.ValidRune(r)
		case pdfps.ArrayStart:
			err = p.lex.Skip(dst)
			if err != nil {
				return n, err
			}
		default:
			return n, bad(dst)
		}
		if !ok {
			p.log.Debug("skipping unsupported bfchar destination",
				slog.String("cmap", p.cmap.name),
				slog.String("code", fmt.Sprintf("%x", srcCode)),
				slog.String("dst", dst.String()))
			continue
		}
		p.cmap.AddCharMapping(srcCode, r)
	}
}

func (p *parser) parseBFRange(op pdfps.Token) (int, error) {
	for n := 0; ; n++ {
		lo, done, err := p.next(op, "endbfrange")
		if err != nil || done {
			return n, err
		}
		start, err := code(lo)
		if err != nil {
			return n, err
		}
		hi, err := p.value(op)
		if err != nil {
			return n, err
		}
		end, err := code(hi)
		if err != nil {
			return n, err
		}
		dst, err := p.value(op)
		if err != nil {
			return n, err
		}

		if toInt(end) < toInt(start) {
			p.log.Warn("bfrange ends before it starts, skipping rest of section",
				slog.String("cmap", p.cmap.name),
				slog.Int64("pos", lo.Pos))
			if dst.Kind == pdfps.ArrayStart {
				err = p.lex.Skip(dst)
				if err != nil {
					return n, err
				}
			}
			return n, p.skipTo(op, "endbfrange")
		}

		switch dst.Kind {
		case pdfps.ArrayStart:
			err = p.bfRangeArray(dst, start, end)
			if err != nil {
				return n, err
			}
		case pdfps.HexString, pdfps.String:
			p.bfRangeScalar(start, end, dst.Bytes)
		case pdfps.Name:
			p.log.Debug("skipping bfrange with glyph name destination",
				slog.String("cmap", p.cmap.name),
				slog.String("dst", dst.Text))
		default:
			return n, bad(dst)
		}
	}
}

// bfRangeArray maps the codes of a bfrange to the elements of an array, in
// order.  Mapping stops at the end of the array or of the range, whichever
// comes first.
func (p *parser) bfRangeArray(open pdfps.Token, start, end []byte) error {
	src := bytes.Clone(start)
	remaining := toInt(end) - toInt(start) + 1
	for {
		tok, err := p.lex.Next()
		if err == io.EOF {
			return pdfps.TokenError(open, io.ErrUnexpectedEOF)
		} else if err != nil {
			return err
		}

		var r rune
		ok := false
		switch tok.Kind {
		case pdfps.ArrayEnd:
			return nil
		case pdfps.HexString, pdfps.String:
			r, ok = decodeUTF16(tok.Bytes)
		case pdfps.Name:
			r, ok = glyphRune(tok.Text)
		case pdfps.ArrayStart, pdfps.DictStart, pdfps.ProcStart:
			err = p.lex.Skip(tok)
			if err != nil {
				return err
			}
		case pdfps.Keyword:
			return pdfps.TokenError(open, errUnterminated)
		}

		if remaining <= 0 {
			continue
		}
		if ok {
			p.cmap.AddCharMapping(src, r)
		} else {
			p.log.Debug("skipping unsupported bfrange destination",
				slog.String("cmap", p.cmap.name),
				slog.String("code", fmt.Sprintf("%x", src)),
				slog.String("dst", tok.String()))
		}
		remaining--
		increment(src, true)
	}
}

// bfRangeScalar maps consecutive codes to consecutive destination values.
// The last byte of the destination is not allowed to overflow; codes
// beyond this point stay unmapped.
func (p *parser) bfRangeScalar(start, end, dst []byte) {
	if len(dst) == 0 {
		return
	}

	// The malformed range <0000> <FFFF> <0000> is common.  It is read as an
	// identity mapping for the 256 codes with a zero first byte.
	if len(start) == 2 && len(end) == 2 && len(dst) == 2 &&
		toInt(start) == 0 && toInt(end) == 0xFFFF && toInt(dst) == 0 {
		for i := 0; i < 256; i++ {
			p.cmap.AddCharMapping([]byte{0, byte(i)}, rune(i))
		}
		return
	}

	src := bytes.Clone(start)
	val := bytes.Clone(dst)
	count := toInt(end) - toInt(start) + 1
	for i := 0; i < count; i++ {
		if r, ok := decodeUTF16(val); ok {
			p.cmap.AddCharMapping(src, r)
		} else {
			p.log.Debug("skipping unsupported bfrange destination",
				slog.String("cmap", p.cmap.name),
				slog.String("code", fmt.Sprintf("%x", src)),
				slog.String("dst", fmt.Sprintf("%x", val)))
		}
		if !increment(val, false) || !increment(src, true) {
			break
		}
	}
}

func (p *parser) parseCIDChar(op pdfps.Token) (int, error) {
	for n := 0; ; n++ {
		src, done, err := p.next(op, "endcidchar")
		if err != nil || done {
			return n, err
		}
		srcCode, err := code(src)
		if err != nil {
			return n, err
		}
		dst, err := p.value(op)
		if err != nil {
			return n, err
		}
		if dst.Kind != pdfps.Integer {
			return n, bad(dst)
		}
		p.cmap.AddCIDMapping(srcCode, int(dst.Int))
	}
}

func (p *parser) parseCIDRange(op pdfps.Token) (int, error) {
	for n := 0; ; n++ {
		lo, done, err := p.next(op, "endcidrange")
		if err != nil || done {
			return n, err
		}
		start, err := code(lo)
		if err != nil {
			return n, err
		}
		hi, err := p.value(op)
		if err != nil {
			return n, err
		}
		end, err := code(hi)
		if err != nil {
			return n, err
		}
		dst, err := p.value(op)
		if err != nil {
			return n, err
		}
		if dst.Kind != pdfps.Integer {
			return n, bad(dst)
		}
		cid := int(dst.Int)

		if len(start) != len(end) {
			return n, pdfps.TokenError(lo, errCIDRangeLength)
		}
		if bytes.Equal(start, end) {
			p.cmap.AddCIDMapping(start, cid)
			continue
		}
		err = p.cmap.AddCIDRange(start, end, cid)
		if err != nil {
			p.log.Debug("skipping cidrange",
				slog.String("cmap", p.cmap.name),
				slog.String("error", err.Error()))
		}
	}
}

// skipTo discards tokens up to and including the keyword end.
func (p *parser) skipTo(op pdfps.Token, end string) error {
	for {
		tok, err := p.value(op)
		if err != nil {
			return err
		}
		if tok.Is(end) {
			return nil
		}
	}
}

// decodeUTF16 decodes a destination string, which must contain exactly one
// character in UTF-16BE encoding.  A single byte is taken as the character
// code itself.
func decodeUTF16(b []byte) (rune, bool) {
	switch len(b) {
	case 1:
		return rune(b[0]), true
	case 2:
		u := uint16(b[0])<<8 | uint16(b[1])
		if utf16.IsSurrogate(rune(u)) {
			return 0, false
		}
		return rune(u), true
	case 4:
		u1 := uint16(b[0])<<8 | uint16(b[1])
		u2 := uint16(b[2])<<8 | uint16(b[3])
		r := utf16.DecodeRune(rune(u1), rune(u2))
		if r == utf8.RuneError {
			return 0, false
		}
		return r, true
	}
	return 0, false
}

// glyphRune converts glyph names of the form "uniXXXX" and "uXXXX" to the
// corresponding character.
func glyphRune(name string) (rune, bool) {
	var digits string
	switch {
	case strings.HasPrefix(name, "uni") && len(name) == 7:
		digits = name[3:]
	case strings.HasPrefix(name, "u") && len(name) >= 5 && len(name) <= 7:
		digits = name[1:]
	default:
		return 0, false
	}
	x, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, false
	}
	r := rune(x)
	if !utf8.ValidRune(r) {
		return 0, false
	}
	return r, true
}

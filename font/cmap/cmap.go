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
	"fmt"
	"iter"
	"log/slog"

	"golang.org/x/exp/maps"

	"seehuhn.de/go/postscript/cid"
)

// CMap maps character codes to CIDs and to Unicode text.
//
// A CMap is populated by [Parse] and must not be modified afterwards.  Once
// parsing is complete, all methods are safe for concurrent use.
type CMap struct {
	name       string
	cmapType   int
	registry   string
	ordering   string
	supplement int
	wMode      int

	codespaceRanges []CodespaceRange

	charToUnicode  map[int]rune
	unicodeToCodes map[rune][]byte

	// codeToCID is indexed by code length first, so that for example the
	// one-byte code 0x41 and the two-byte code 0x0041 do not collide.
	codeToCID map[int]map[int]int
	cidRanges []CIDRange

	minCodeLength, maxCodeLength int
	minCIDLength, maxCIDLength   int

	spaceMapping []byte

	logger *slog.Logger
}

// New allocates an empty CMap.
func New() *CMap {
	return &CMap{
		charToUnicode:  make(map[int]rune),
		unicodeToCodes: make(map[rune][]byte),
		codeToCID:      make(map[int]map[int]int),
		minCodeLength:  4,
		minCIDLength:   4,
	}
}

// Name returns the value of /CMapName.
func (c *CMap) Name() string { return c.name }

// Type returns the value of /CMapType.
func (c *CMap) Type() int { return c.cmapType }

// Registry returns the registry of the character collection.
func (c *CMap) Registry() string { return c.registry }

// Ordering returns the ordering of the character collection.
func (c *CMap) Ordering() string { return c.ordering }

// Supplement returns the supplement number of the character collection.
func (c *CMap) Supplement() int { return c.supplement }

// WMode returns the writing mode, 0 for horizontal and 1 for vertical.
func (c *CMap) WMode() int { return c.wMode }

// ROS returns the character collection of the CMap, or nil if no
// registry and ordering are set.
func (c *CMap) ROS() *cid.SystemInfo {
	if c.registry == "" && c.ordering == "" {
		return nil
	}
	return &cid.SystemInfo{
		Registry:   c.registry,
		Ordering:   c.ordering,
		Supplement: int32(c.supplement),
	}
}

// MinCodeLength returns the length of the shortest codespace range.
func (c *CMap) MinCodeLength() int { return c.minCodeLength }

// MaxCodeLength returns the length of the longest codespace range.
func (c *CMap) MaxCodeLength() int { return c.maxCodeLength }

// MinCIDLength returns the length of the shortest code with a CID mapping.
func (c *CMap) MinCIDLength() int { return c.minCIDLength }

// MaxCIDLength returns the length of the longest code with a CID mapping.
func (c *CMap) MaxCIDLength() int { return c.maxCIDLength }

// CodespaceRanges returns the codespace ranges, in the order they are
// tried by [CMap.ReadCode].
func (c *CMap) CodespaceRanges() []CodespaceRange {
	return append([]CodespaceRange(nil), c.codespaceRanges...)
}

// SpaceMapping returns the code which maps to U+0020, if any.
func (c *CMap) SpaceMapping() ([]byte, bool) {
	if c.spaceMapping == nil {
		return nil, false
	}
	return bytes.Clone(c.spaceMapping), true
}

// HasCIDMappings reports whether the CMap maps any codes to CIDs.
func (c *CMap) HasCIDMappings() bool {
	return len(c.codeToCID) > 0 || len(c.cidRanges) > 0
}

// HasUnicodeMappings reports whether the CMap maps any codes to Unicode.
func (c *CMap) HasUnicodeMappings() bool {
	return len(c.charToUnicode) > 0
}

// CIDRanges returns a copy of the list of CID ranges.
func (c *CMap) CIDRanges() []CIDRange {
	return append([]CIDRange(nil), c.cidRanges...)
}

// ReadCode determines the length of the character code at the start of in.
//
// Code lengths from MinCodeLength to MaxCodeLength are tried in increasing
// order, and the first length for which the prefix of in lies in one of the
// codespace ranges is used.  If no codespace range matches, the prefix of
// length MaxCodeLength is used instead.  This is not treated as an error,
// since malformed CMaps are common.
func (c *CMap) ReadCode(in []byte) (code int, n int) {
	if len(in) == 0 {
		return 0, 0
	}

	for length := c.minCodeLength; length <= c.maxCodeLength && length <= len(in); length++ {
		prefix := in[:length]
		for _, r := range c.codespaceRanges {
			if r.IsFullMatch(prefix) {
				return toInt(prefix), length
			}
		}
	}

	n = min(max(c.maxCodeLength, 1), len(in))
	c.log().Debug("no codespace range matches",
		slog.String("cmap", c.name),
		slog.String("input", fmt.Sprintf("%x", in[:n])))
	return toInt(in[:n]), n
}

// ToCID returns the CID for the given code of the given byte length.
// If the code is not mapped, 0 is returned.
func (c *CMap) ToCID(code, length int) int {
	if !c.HasCIDMappings() {
		return 0
	}
	if cid, ok := c.codeToCID[length][code]; ok {
		return cid
	}
	for i := range c.cidRanges {
		if cid, ok := c.cidRanges[i].Map(code, length); ok {
			return cid
		}
	}
	return 0
}

// ToCIDAny looks up code for every code length with CID mappings, starting
// with the shortest.  The first non-zero CID is returned.
func (c *CMap) ToCIDAny(code int) int {
	if !c.HasCIDMappings() {
		return 0
	}
	for length := c.minCIDLength; length <= c.maxCIDLength; length++ {
		if cid := c.ToCID(code, length); cid != 0 {
			return cid
		}
	}
	return 0
}

// ToCIDBytes returns the CID for a code given as a byte string.
func (c *CMap) ToCIDBytes(code []byte) int {
	return c.ToCID(toInt(code), len(code))
}

// ToUnicode returns the Unicode value for the given code.
// Only single character mappings are consulted.
func (c *CMap) ToUnicode(code int) (rune, bool) {
	r, ok := c.charToUnicode[code]
	return r, ok
}

// ToUnicodeBytes returns the Unicode value for a code given as a byte
// string.
func (c *CMap) ToUnicodeBytes(code []byte) (rune, bool) {
	return c.ToUnicode(toInt(code))
}

// CodesFromUnicode returns the code which maps to r.
func (c *CMap) CodesFromUnicode(r rune) ([]byte, bool) {
	code, ok := c.unicodeToCodes[r]
	if !ok {
		return nil, false
	}
	return bytes.Clone(code), true
}

// CodesFromCID returns the shortest and then smallest code which maps to
// cid.
func (c *CMap) CodesFromCID(cid int) ([]byte, bool) {
	for length := c.minCIDLength; length <= c.maxCIDLength; length++ {
		best := -1
		for code, val := range c.codeToCID[length] {
			if val == cid && (best < 0 || code < best) {
				best = code
			}
		}
		for i := range c.cidRanges {
			r := &c.cidRanges[i]
			if r.Length != length {
				continue
			}
			if code, ok := r.Unmap(cid); ok && (best < 0 || code < best) {
				best = code
			}
		}
		if best >= 0 {
			return fromInt(best, length), true
		}
	}
	return nil, false
}

// Code is a character code found by [CMap.Codes].
type Code struct {
	Bytes []byte
	CID   int

	Text    rune
	HasText bool
}

// Codes splits s into character codes and looks up their CID and Unicode
// values.
func (c *CMap) Codes(s []byte) iter.Seq[Code] {
	return func(yield func(Code) bool) {
		rest := s
		for len(rest) > 0 {
			code, n := c.ReadCode(rest)
			text, hasText := c.ToUnicode(code)
			item := Code{
				Bytes:   rest[:n],
				CID:     c.ToCID(code, n),
				Text:    text,
				HasText: hasText,
			}
			if !yield(item) {
				return
			}
			rest = rest[n:]
		}
	}
}

// AddCodespaceRange appends a codespace range.
func (c *CMap) AddCodespaceRange(r CodespaceRange) {
	c.codespaceRanges = append(c.codespaceRanges, r)
	c.maxCodeLength = max(c.maxCodeLength, r.CodeLength())
	c.minCodeLength = min(c.minCodeLength, r.CodeLength())
}

// AddCharMapping maps code to the Unicode value r.
func (c *CMap) AddCharMapping(code []byte, r rune) {
	c.charToUnicode[toInt(code)] = r
	c.unicodeToCodes[r] = bytes.Clone(code)
	if r == ' ' {
		c.spaceMapping = bytes.Clone(code)
	}
}

// AddCIDMapping maps code to the given CID.
func (c *CMap) AddCIDMapping(code []byte, cid int) {
	length := len(code)
	m := c.codeToCID[length]
	if m == nil {
		m = make(map[int]int)
		c.codeToCID[length] = m
	}
	m[toInt(code)] = cid
	c.noteCIDLength(length)
}

// AddCIDRange maps the codes from start to end to consecutive CIDs,
// starting at cid.  If the new codes directly continue the most recently
// added range, that range is extended instead of adding a new one.
func (c *CMap) AddCIDRange(start, end []byte, cid int) error {
	if len(start) != len(end) {
		return fmt.Errorf("cid range bounds <%x> and <%x> differ in length", start, end)
	}
	length := len(start)
	from, to := toInt(start), toInt(end)
	if from > to {
		return fmt.Errorf("empty cid range <%x> <%x>", start, end)
	}

	if n := len(c.cidRanges); n > 0 && c.cidRanges[n-1].Extend(from, to, cid, length) {
		return nil
	}
	c.cidRanges = append(c.cidRanges, CIDRange{
		From:   from,
		To:     to,
		Base:   cid,
		Length: length,
	})
	c.noteCIDLength(length)
	return nil
}

// UseCMap merges the codespace ranges and mappings of other into c.
// Mappings of other replace existing mappings for the same codes.
func (c *CMap) UseCMap(other *CMap) {
	c.codespaceRanges = append(c.codespaceRanges, other.codespaceRanges...)
	maps.Copy(c.charToUnicode, other.charToUnicode)
	maps.Copy(c.unicodeToCodes, other.unicodeToCodes)
	for length, m := range other.codeToCID {
		dst := c.codeToCID[length]
		if dst == nil {
			dst = make(map[int]int, len(m))
			c.codeToCID[length] = dst
		}
		maps.Copy(dst, m)
	}
	// CIDRange is copied by value here, so extending the last range
	// later does not modify other.
	c.cidRanges = append(c.cidRanges, other.cidRanges...)

	if len(other.codespaceRanges) > 0 {
		c.maxCodeLength = max(c.maxCodeLength, other.maxCodeLength)
		c.minCodeLength = min(c.minCodeLength, other.minCodeLength)
	}
	if other.HasCIDMappings() {
		c.maxCIDLength = max(c.maxCIDLength, other.maxCIDLength)
		c.minCIDLength = min(c.minCIDLength, other.minCIDLength)
	}
	if c.spaceMapping == nil && other.spaceMapping != nil {
		c.spaceMapping = other.spaceMapping
	}
}

func (c *CMap) noteCIDLength(length int) {
	c.maxCIDLength = max(c.maxCIDLength, length)
	c.minCIDLength = min(c.minCIDLength, length)
}

func (c *CMap) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

func (c *CMap) String() string {
	return fmt.Sprintf("CMap(%s, %d codespace ranges, %d unicode, %d cid ranges)",
		c.name, len(c.codespaceRanges), len(c.charToUnicode), len(c.cidRanges))
}

// toInt interprets code as a big-endian integer.
func toInt(code []byte) int {
	var x int
	for _, b := range code {
		x = x<<8 | int(b)
	}
	return x
}

// fromInt returns the length-byte big-endian representation of x.
func fromInt(x, length int) []byte {
	res := make([]byte, length)
	for i := length - 1; i >= 0; i-- {
		res[i] = byte(x)
		x >>= 8
	}
	return res
}

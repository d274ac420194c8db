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
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pdfps"
)

func parseString(t *testing.T, in string) *CMap {
	t.Helper()
	c, err := Parse(strings.NewReader(in), nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

const testHeader = `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CIDSystemInfo << /Registry (Adobe) /Ordering (Japan1) /Supplement 6 >> def
/CMapName /Test-H def
/CMapType 1 def
/XUID [1 10 25404 9999] def
/WMode 1 def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
`

const testFooter = `endcmap
CMapName currentdict /CMap defineresource pop
end
end
`

func TestParseMetadata(t *testing.T) {
	c := parseString(t, testHeader+testFooter)

	type meta struct {
		Name, Registry, Ordering     string
		Type, Supplement, WMode      int
		MinCodeLength, MaxCodeLength int
	}
	got := meta{
		Name:          c.Name(),
		Registry:      c.Registry(),
		Ordering:      c.Ordering(),
		Type:          c.Type(),
		Supplement:    c.Supplement(),
		WMode:         c.WMode(),
		MinCodeLength: c.MinCodeLength(),
		MaxCodeLength: c.MaxCodeLength(),
	}
	want := meta{
		Name:          "Test-H",
		Registry:      "Adobe",
		Ordering:      "Japan1",
		Type:          1,
		Supplement:    6,
		WMode:         1,
		MinCodeLength: 2,
		MaxCodeLength: 2,
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("metadata differs (-want +got):\n%s", d)
	}
}

func TestParseDefStyleSystemInfo(t *testing.T) {
	c := parseString(t, `/CIDSystemInfo 3 dict dup begin
  /Registry (Adobe) def
  /Ordering (Identity) def
  /Supplement 0 def
end def`)
	if c.Registry() != "Adobe" || c.Ordering() != "Identity" {
		t.Errorf("got %q %q", c.Registry(), c.Ordering())
	}
}

func TestParseBFChar(t *testing.T) {
	c := parseString(t, testHeader+`5 beginbfchar
<0001> <0041>
<0002> <D83DDE00>
<0003> <00660069>
<0004> /uni20AC
<0005> <D800>
endbfchar
`+testFooter)

	cases := []struct {
		code int
		r    rune
		ok   bool
	}{
		{1, 'A', true},
		{2, '😀', true},
		{3, 0, false}, // ligatures are not supported
		{4, '€', true},
		{5, 0, false}, // lone surrogate
	}
	for _, test := range cases {
		r, ok := c.ToUnicode(test.code)
		if r != test.r || ok != test.ok {
			t.Errorf("ToUnicode(%d) = %q, %t, want %q, %t", test.code, r, ok, test.r, test.ok)
		}
	}
}

func TestParseBFRangeScalar(t *testing.T) {
	c := parseString(t, testHeader+`3 beginbfrange
<01FE> <0202> <0041>
<00F0> <0110> <00FE>
<0300> <0301> <D83DDE00>
endbfrange
`+testFooter)

	want := map[int]rune{
		0x01FE: 'A',
		0x01FF: 'B',
		0x0200: 'C',
		0x0201: 'D',
		0x0202: 'E',
		0x00F0: 0xFE,
		0x00F1: 0xFF,
		0x0300: '😀',
		0x0301: '😁',
	}
	if d := cmp.Diff(want, c.charToUnicode); d != "" {
		t.Errorf("mappings differ (-want +got):\n%s", d)
	}
}

func TestParseBFRangeArray(t *testing.T) {
	c := parseString(t, testHeader+`2 beginbfrange
<0010> <0013> [<0041> <0042>]
<0020> <0021> [<0061> <0062> <0063>]
endbfrange
`+testFooter)

	want := map[int]rune{
		0x10: 'A',
		0x11: 'B',
		0x20: 'a',
		0x21: 'b',
	}
	if d := cmp.Diff(want, c.charToUnicode); d != "" {
		t.Errorf("mappings differ (-want +got):\n%s", d)
	}
}

func TestParseBFRangeIdentity(t *testing.T) {
	c := parseString(t, testHeader+`1 beginbfrange
<0000> <FFFF> <0000>
endbfrange
`+testFooter)

	if n := len(c.charToUnicode); n != 256 {
		t.Fatalf("got %d mappings, want 256", n)
	}
	for code := 0; code < 256; code++ {
		if r, ok := c.ToUnicode(code); !ok || r != rune(code) {
			t.Errorf("ToUnicode(%04x) = %q, %t", code, r, ok)
		}
	}
	if _, ok := c.ToUnicode(0x0100); ok {
		t.Error("code 0100 is mapped")
	}
}

func TestParseBFRangeBackwards(t *testing.T) {
	c := parseString(t, testHeader+`2 beginbfrange
<0005> <0001> <0041>
<0010> <0011> <0061>
endbfrange
1 beginbfchar
<0020> <0020>
endbfchar
`+testFooter)

	if _, ok := c.ToUnicode(0x10); ok {
		t.Error("entry after malformed range was used")
	}
	if r, ok := c.ToUnicode(0x20); !ok || r != ' ' {
		t.Errorf("following section lost: %q, %t", r, ok)
	}
}

func TestParseCID(t *testing.T) {
	c := parseString(t, testHeader+`1 begincidchar
<0041> 17
endcidchar
3 begincidrange
<0100> <0100> 5
<0200> <02FF> 1000
<0300> <03FF> 1256
endcidrange
`+testFooter)

	want := []CIDRange{{From: 0x0200, To: 0x03FF, Base: 1000, Length: 2}}
	if d := cmp.Diff(want, c.CIDRanges()); d != "" {
		t.Errorf("ranges differ (-want +got):\n%s", d)
	}
	for code, cid := range map[int]int{0x41: 17, 0x0100: 5, 0x0201: 1001, 0x0300: 1256} {
		if got := c.ToCID(code, 2); got != cid {
			t.Errorf("ToCID(%04x) = %d, want %d", code, got, cid)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"1 beginbfchar <01> <0041>",
		"1 beginbfchar <01> <0041> endcmap",
		"beginbfchar <01> <0041> endbfchar",
		"/x begincidchar <01> 1 endcidchar",
		"1 begincidrange <01> <00FF> 1 endcidrange",
		"1 begincidchar <01> (x) endcidchar",
		"1 begincodespacerange <00 00> <FF> endcodespacerange",
		"1 beginbfrange <00> 17 <0041> endbfrange",
		"usecmap",
	}
	for _, in := range cases {
		_, err := Parse(strings.NewReader(in), nil)
		var pErr *pdfps.ParseError
		if !errors.As(err, &pErr) {
			t.Errorf("%q: expected ParseError, got %v", in, err)
		}
	}
}

func TestParseUnknownOperators(t *testing.T) {
	c := parseString(t, testHeader+`1 beginnotdefrange
<0000> <001f> 1
endnotdefrange
/Foo 17 bar baz { 1 2 add } exec
1 beginbfchar
<0020> <0020>
endbfchar
`+testFooter)
	if r, ok := c.ToUnicode(0x20); !ok || r != ' ' {
		t.Errorf("ToUnicode(0x20) = %q, %t", r, ok)
	}
}

func TestParseUseCMap(t *testing.T) {
	fsys := fstest.MapFS{
		"Base": {Data: []byte(`/CMapName /Base def
1 begincodespacerange <00> <FF> endcodespacerange
1 beginbfchar <20> <0020> endbfchar`)},
		"A": {Data: []byte("/B usecmap")},
		"B": {Data: []byte("/A usecmap")},
	}
	reg, err := NewRegistry(fsys, nil)
	if err != nil {
		t.Fatal(err)
	}

	derived := `/CMapName /Derived def
/Base usecmap
1 begincidchar <41> 1 endcidchar`
	c, err := Parse(strings.NewReader(derived), &ParseOptions{Registry: reg})
	if err != nil {
		t.Fatal(err)
	}
	if r, ok := c.ToUnicode(0x20); !ok || r != ' ' {
		t.Errorf("ToUnicode(0x20) = %q, %t", r, ok)
	}
	if c.Name() != "Derived" {
		t.Errorf("name %q", c.Name())
	}
	if code, n := c.ReadCode([]byte{0x41}); code != 0x41 || n != 1 {
		t.Errorf("ReadCode = %x, %d", code, n)
	}

	// unknown base CMaps are ignored
	c, err = Parse(strings.NewReader("/Missing usecmap"), &ParseOptions{Registry: reg})
	if err != nil || c == nil {
		t.Errorf("unknown usecmap: %v", err)
	}

	_, err = reg.Get("A")
	if !errors.Is(err, errUseCycle) {
		t.Errorf("cycle not detected: %v", err)
	}
}

func FuzzParse(f *testing.F) {
	f.Add(testHeader + "1 beginbfchar <0001> <0041> endbfchar" + testFooter)
	f.Add(testHeader + "1 beginbfrange <0000> <FFFF> <0000> endbfrange" + testFooter)
	f.Add(testHeader + "1 begincidrange <0000> <00FF> 0 endcidrange" + testFooter)
	f.Fuzz(func(t *testing.T, in string) {
		reg, err := NewRegistry(fstest.MapFS{}, nil)
		if err != nil {
			t.Fatal(err)
		}
		c, err := Parse(strings.NewReader(in), &ParseOptions{Registry: reg})
		if err != nil {
			return
		}
		for range c.Codes([]byte(in)) {
		}
	})
}

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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestToUnicodeWriterOutput(t *testing.T) {
	w := NewToUnicodeWriter()
	for cid, text := range map[int]string{1: "A", 2: "B", 3: "C", 5: "fi", 6: "😀", 7: "😁"} {
		err := w.Add(cid, text)
		if err != nil {
			t.Fatal(err)
		}
	}

	want := `/CIDInit /ProcSet findresource begin
12 dict begin

begincmap
/CIDSystemInfo
<< /Registry (Adobe)
/Ordering (UCS)
/Supplement 0
>> def

/CMapName /Adobe-Identity-UCS def
/CMapType 2 def

1 begincodespacerange
<0000> <FFFF>
endcodespacerange

4 beginbfrange
<0001> <0003> <0041>
<0005> <0005> <00660069>
<0006> <0006> <D83DDE00>
<0007> <0007> <D83DDE01>
endbfrange

endcmap
CMapName currentdict /CMap defineresource pop
end
end
`
	if d := cmp.Diff(want, string(w.Bytes())); d != "" {
		t.Errorf("output differs (-want +got):\n%s", d)
	}

	c := parseString(t, string(w.Bytes()))
	for code, r := range map[int]rune{1: 'A', 2: 'B', 3: 'C', 6: '😀', 7: '😁'} {
		if got, ok := c.ToUnicode(code); !ok || got != r {
			t.Errorf("ToUnicode(%d) = %q, %t", code, got, ok)
		}
	}
}

func TestToUnicodeWriterRanges(t *testing.T) {
	w := NewToUnicodeWriter()
	add := func(cid int, text string) {
		t.Helper()
		if err := w.Add(cid, text); err != nil {
			t.Fatal(err)
		}
	}
	add(0x10, "þ")
	add(0x11, "ÿ")
	add(0x12, "Ā") // the last byte of the destination would pass 255
	add(0xFF, "a")
	add(0x100, "b") // the last byte of the CID would pass 255

	want := []toUnicodeRange{
		{from: 0x10, to: 0x11, text: "þ"},
		{from: 0x12, to: 0x12, text: "Ā"},
		{from: 0xFF, to: 0xFF, text: "a"},
		{from: 0x100, to: 0x100, text: "b"},
	}
	if d := cmp.Diff(want, w.ranges(), cmp.AllowUnexported(toUnicodeRange{})); d != "" {
		t.Errorf("ranges differ (-want +got):\n%s", d)
	}
}

func TestToUnicodeWriterAdd(t *testing.T) {
	w := NewToUnicodeWriter()
	cases := []struct {
		cid  int
		text string
		ok   bool
	}{
		{0, "x", true},
		{0xFFFF, "x", true},
		{-1, "x", false},
		{0x10000, "x", false},
		{1, "", false},
		{2, "\xff", false},
		{3, strings.Repeat("x", 256), true},
		{4, strings.Repeat("x", 257), false},
	}
	for _, test := range cases {
		err := w.Add(test.cid, test.text)
		if (err == nil) != test.ok {
			t.Errorf("Add(%d, %d bytes): %v", test.cid, len(test.text), err)
		}
	}
}

func TestToUnicodeWriterWMode(t *testing.T) {
	w := NewToUnicodeWriter()
	w.SetWMode(1)
	if err := w.Add(1, "x"); err != nil {
		t.Fatal(err)
	}
	out := string(w.Bytes())
	if !strings.Contains(out, "/CMapType 2 def\n\n/WMode 1 def\n1 begincodespacerange\n") {
		t.Errorf("missing WMode:\n%s", out)
	}
	c := parseString(t, out)
	if c.WMode() != 1 {
		t.Errorf("WMode() = %d", c.WMode())
	}
}

func TestToUnicodeWriterChunks(t *testing.T) {
	w := NewToUnicodeWriter()
	for i := 0; i < 150; i++ {
		if err := w.Add(2*i, "x"); err != nil {
			t.Fatal(err)
		}
	}
	out := string(w.Bytes())
	if !strings.Contains(out, "100 beginbfrange\n") || !strings.Contains(out, "\n50 beginbfrange\n") {
		t.Errorf("wrong sections:\n%s", out)
	}
}

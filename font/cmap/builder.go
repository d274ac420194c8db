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
	"cmp"
	"fmt"
	"io"
	"strconv"
	"text/template"
	"unicode/utf16"

	"golang.org/x/exp/slices"

	"seehuhn.de/go/postscript"
)

// EntryKind selects the type of CMap written by a [Builder].
type EntryKind int

const (
	// BaseFont entries map codes to Unicode values (bfchar/bfrange).
	BaseFont EntryKind = iota

	// CIDEntries map codes to CIDs (cidchar/cidrange).
	CIDEntries
)

func (k EntryKind) tag() string {
	if k == BaseFont {
		return "bf"
	}
	return "cid"
}

// chunkSize is the maximal number of entries per begin...end section.
const chunkSize = 100

// Builder writes a CMap program for a set of code mappings.
// Runs of consecutive codes with consecutive values are written as range
// entries.
type Builder struct {
	kind    EntryKind
	name    string
	entries map[string]int
}

// NewBuilder returns a builder for a CMap of the given kind.
// If name is empty, "Adobe-Identity-UCS" is used for [BaseFont] and
// "Custom" for [CIDEntries].
func NewBuilder(kind EntryKind, name string) *Builder {
	if name == "" {
		if kind == BaseFont {
			name = "Adobe-Identity-UCS"
		} else {
			name = "Custom"
		}
	}
	return &Builder{
		kind:    kind,
		name:    name,
		entries: make(map[string]int),
	}
}

// Add maps code to val.  For [BaseFont] builders, val is a Unicode code
// point, otherwise it is a CID.
func (b *Builder) Add(code []byte, val int) {
	b.entries[string(code)] = val
}

// Len returns the number of mappings.
func (b *Builder) Len() int {
	return len(b.entries)
}

type builderEntry struct {
	code []byte
	val  int
}

type builderRange struct {
	first, last builderEntry
}

// WriteTo writes the CMap program to w.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	sorted := make([]builderEntry, 0, len(b.entries))
	for code, val := range b.entries {
		sorted = append(sorted, builderEntry{code: []byte(code), val: val})
	}
	slices.SortFunc(sorted, func(a, b builderEntry) int {
		if c := cmp.Compare(len(a.code), len(b.code)); c != 0 {
			return c
		}
		return bytes.Compare(a.code, b.code)
	})

	var singles []builderEntry
	var ranges []builderRange
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && b.contiguous(sorted[j-1], sorted[j]) {
			j++
		}
		if j-i > 1 {
			ranges = append(ranges, builderRange{first: sorted[i], last: sorted[j-1]})
		} else {
			singles = append(singles, sorted[i])
		}
		i = j
	}

	rangeLines := make([]string, len(ranges))
	for i, r := range ranges {
		rangeLines[i] = fmt.Sprintf("<%02X> <%02X> %s", r.first.code, r.last.code, b.value(r.first.val))
	}
	charLines := make([]string, len(singles))
	for i, s := range singles {
		charLines[i] = fmt.Sprintf("<%02X> %s", s.code, b.value(s.val))
	}

	data := builderData{
		Name:   b.name,
		Tag:    b.kind.tag(),
		Ranges: chunks(rangeLines),
		Chars:  chunks(charLines),
	}
	tmpl := bfTmpl
	if b.kind == CIDEntries {
		tmpl = cidTmpl
	}

	cw := &countingWriter{w: w}
	err := tmpl.Execute(cw, data)
	return cw.n, err
}

// Bytes returns the CMap program.
func (b *Builder) Bytes() []byte {
	buf := &bytes.Buffer{}
	b.WriteTo(buf)
	return buf.Bytes()
}

// contiguous reports whether cur can be appended to a range ending in prev.
// Only the last byte of the code may change.  For Unicode values, the last
// byte of the value is not allowed to wrap around.
func (b *Builder) contiguous(prev, cur builderEntry) bool {
	n := len(cur.code)
	if n != len(prev.code) || n == 0 ||
		!bytes.Equal(prev.code[:n-1], cur.code[:n-1]) ||
		int(cur.code[n-1])-int(prev.code[n-1]) != 1 ||
		cur.val-prev.val != 1 {
		return false
	}
	if b.kind == BaseFont && (prev.val&0xFF == 0xFF || cur.val > 0xFFFF) {
		return false
	}
	return true
}

// value formats a destination value.  Unicode values outside the basic
// multilingual plane are written as a surrogate pair.
func (b *Builder) value(val int) string {
	if b.kind == CIDEntries {
		return strconv.Itoa(val)
	}
	if val > 0xFFFF {
		hi, lo := utf16.EncodeRune(rune(val))
		return fmt.Sprintf("<%04X%04X>", hi, lo)
	}
	return fmt.Sprintf("<%04X>", val)
}

// BuildBF returns a ToUnicode CMap for the given mapping from codes to
// Unicode values.
func BuildBF(name string, m map[string]rune) []byte {
	b := NewBuilder(BaseFont, name)
	for code, r := range m {
		b.Add([]byte(code), int(r))
	}
	return b.Bytes()
}

// BuildCID returns a CMap for the given mapping from codes to CIDs.
func BuildCID(name string, m map[string]int) []byte {
	b := NewBuilder(CIDEntries, name)
	for code, cid := range m {
		b.Add([]byte(code), cid)
	}
	return b.Bytes()
}

func chunks[T any](x []T) [][]T {
	var res [][]T
	for len(x) >= chunkSize {
		res = append(res, x[:chunkSize])
		x = x[chunkSize:]
	}
	if len(x) > 0 {
		res = append(res, x)
	}
	return res
}

type builderData struct {
	Name   string
	Tag    string
	Ranges [][]string
	Chars  [][]string
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

var builderFuncs = template.FuncMap{
	"PN": func(s string) string {
		x := postscript.Name(s)
		return x.PS()
	},
}

// The entry sections are shared between both CMap types.
const builderSections = `{{define "sections" -}}
{{range .Ranges}}{{len .}} begin{{$.Tag}}range
{{range .}}{{.}}
{{end}}end{{$.Tag}}range
{{end -}}
{{range .Chars}}{{len .}} begin{{$.Tag}}char
{{range .}}{{.}}
{{end}}end{{$.Tag}}char
{{end -}}
{{end}}`

var bfTmpl = template.Must(template.New("bf").Funcs(builderFuncs).Parse(builderSections + `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CIDSystemInfo
<< /Registry (Adobe)
/Ordering (UCS)
/Supplement 0
>> def
/CMapName {{PN .Name}} def
/CMapVersion 10.001 def
/CMapType 2 def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
{{template "sections" .}}endcmap
CMapName currentdict /CMap defineresource pop
end
end
`))

var cidTmpl = template.Must(template.New("cid").Funcs(builderFuncs).Parse(builderSections + `%!PS-Adobe-3.0 Resource-CMap
%%DocumentNeededResources: ProcSet (CIDInit)
%%IncludeResource: ProcSet (CIDInit)
%%BeginResource: CMap ({{.Name}})
%%Title: ({{.Name}} Adobe Identity 0)
%%Version: 1
%%EndComments
/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CIDSystemInfo 3 dict dup begin
/Registry (Adobe) def
/Ordering (Identity) def
/Supplement 0 def
end def
/CMapVersion 1 def
/CMapType 1 def
/CMapName {{PN .Name}} def
/WMode 0 def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
{{template "sections" .}}endcmap
CMapName currentdict /CMap defineresource pop
end
end
%%EndResource
%%EOF`))

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
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

var (
	errInvalidCID  = errors.New("CID out of range")
	errInvalidText = errors.New("invalid ToUnicode text")
)

// maxTextBytes is the maximal length of the UTF-16 encoding of a single
// mapping.
const maxTextBytes = 512

// ToUnicodeWriter writes ToUnicode CMaps which map two-byte CIDs to text.
type ToUnicodeWriter struct {
	cidToText map[int]string
	wMode     int
}

// NewToUnicodeWriter returns a new, empty writer.
func NewToUnicodeWriter() *ToUnicodeWriter {
	return &ToUnicodeWriter{
		cidToText: make(map[int]string),
	}
}

// SetWMode sets the writing mode, 1 for vertical and 0 for horizontal.
func (w *ToUnicodeWriter) SetWMode(wMode int) {
	w.wMode = wMode
}

// Add maps cid to text.  The CID must be in the range 0 to 65535, and the
// UTF-16 encoding of text must be between 1 and 512 bytes long.
func (w *ToUnicodeWriter) Add(cid int, text string) error {
	if cid < 0 || cid > 0xFFFF {
		return fmt.Errorf("%w: %d", errInvalidCID, cid)
	}
	if text == "" || !utf8.ValidString(text) {
		return fmt.Errorf("%w: %q", errInvalidText, text)
	}
	enc, err := encodeUTF16(text)
	if err != nil {
		return err
	}
	if len(enc) > maxTextBytes {
		return fmt.Errorf("%w: %d bytes", errInvalidText, len(enc))
	}
	w.cidToText[cid] = text
	return nil
}

type toUnicodeRange struct {
	from, to int
	text     string
}

// ranges groups the mappings into bfrange entries.  A range is only
// extended by a single character in the basic multilingual plane, which
// directly follows the previous character, and only while the last byte
// of both the CID and the destination stays below 256.
func (w *ToUnicodeWriter) ranges() []toUnicodeRange {
	cids := make([]int, 0, len(w.cidToText))
	for cid := range w.cidToText {
		cids = append(cids, cid)
	}
	sort.Ints(cids)

	var res []toUnicodeRange
	for _, cid := range cids {
		text := w.cidToText[cid]
		r, size := utf8.DecodeRuneInString(text)
		single := size == len(text) && r <= 0xFFFF

		if n := len(res); n > 0 && single {
			last := &res[n-1]
			prev, prevSize := utf8.DecodeRuneInString(last.text)
			offset := cid - last.from
			if cid == last.to+1 && cid&0xFF != 0 &&
				prevSize == len(last.text) && prev <= 0xFFFF &&
				r == prev+rune(offset) &&
				int(prev&0xFF)+offset <= 0xFF {
				last.to = cid
				continue
			}
		}
		res = append(res, toUnicodeRange{from: cid, to: cid, text: text})
	}
	return res
}

// WriteTo writes the CMap to out.
func (w *ToUnicodeWriter) WriteTo(out io.Writer) (int64, error) {
	cw := &countingWriter{w: out}
	bw := bufio.NewWriter(cw)

	bw.WriteString("/CIDInit /ProcSet findresource begin\n")
	bw.WriteString("12 dict begin\n\n")
	bw.WriteString("begincmap\n")
	bw.WriteString("/CIDSystemInfo\n")
	bw.WriteString("<< /Registry (Adobe)\n")
	bw.WriteString("/Ordering (UCS)\n")
	bw.WriteString("/Supplement 0\n")
	bw.WriteString(">> def\n\n")
	bw.WriteString("/CMapName /Adobe-Identity-UCS def\n")
	bw.WriteString("/CMapType 2 def\n\n")
	if w.wMode != 0 {
		fmt.Fprintf(bw, "/WMode %d def\n", w.wMode)
	}
	bw.WriteString("1 begincodespacerange\n")
	bw.WriteString("<0000> <FFFF>\n")
	bw.WriteString("endcodespacerange\n\n")

	for _, batch := range chunks(w.ranges()) {
		fmt.Fprintf(bw, "%d beginbfrange\n", len(batch))
		for _, r := range batch {
			enc, err := encodeUTF16(r.text)
			if err != nil {
				return cw.n, err
			}
			fmt.Fprintf(bw, "<%04x> <%04x> <%X>\n", r.from, r.to, enc)
		}
		bw.WriteString("endbfrange\n\n")
	}

	bw.WriteString("endcmap\n")
	bw.WriteString("CMapName currentdict /CMap defineresource pop\n")
	bw.WriteString("end\n")
	bw.WriteString("end\n")

	err := bw.Flush()
	return cw.n, err
}

// Bytes returns the CMap.
func (w *ToUnicodeWriter) Bytes() []byte {
	buf := &bytes.Buffer{}
	w.WriteTo(buf)
	return buf.Bytes()
}

var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

func encodeUTF16(text string) ([]byte, error) {
	return utf16BE.NewEncoder().Bytes([]byte(text))
}

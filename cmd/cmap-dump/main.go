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

// Cmap-dump prints the mappings defined by a CMap.
//
// Usage:
//
//	cmap-dump [options] file.cmap
//	cmap-dump [options] -p Identity-H
//
// The CMap is read either from a file or from the set of predefined CMaps.
// With -rewrite, the mappings are serialized again instead of being listed.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"
	"unicode"

	"golang.org/x/term"

	"seehuhn.de/go/pdfps/font/cmap"
)

func main() {
	predefined := flag.String("p", "", "use the predefined CMap with the given `name`")
	list := flag.Bool("l", false, "list the predefined CMaps")
	maxCodes := flag.Int("n", 1000, "list at most `count` codes")
	rewrite := flag.Bool("rewrite", false, "write the mappings as a new CMap")
	verbose := flag.Bool("v", false, "report problems in the input")
	flag.Parse()

	if *verbose {
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		slog.SetDefault(slog.New(h))
	}

	if *list {
		names, err := cmap.Default().Names()
		if err != nil {
			log.Fatal(err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	var c *cmap.CMap
	var err error
	switch {
	case *predefined != "":
		c, err = cmap.Default().Get(*predefined)
		if err == nil && c == nil {
			err = fmt.Errorf("%s: %w", *predefined, cmap.ErrNotFound)
		}
	case flag.NArg() == 1:
		c, err = readFile(flag.Arg(0))
	default:
		fmt.Fprintf(os.Stderr, "Usage: %s [options] file.cmap\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}

	if *rewrite {
		err = writeCMap(os.Stdout, c)
	} else {
		err = dump(os.Stdout, c, *maxCodes)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func readFile(fname string) (*cmap.CMap, error) {
	fd, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return cmap.Parse(fd, nil)
}

// dump lists the header information and the code mappings of c.  On a
// terminal the columns are aligned, otherwise they are separated by tabs.
func dump(w io.Writer, c *cmap.CMap, maxCodes int) error {
	aligned := false
	if f, ok := w.(*os.File); ok {
		aligned = term.IsTerminal(int(f.Fd()))
	}
	var tw *tabwriter.Writer
	if aligned {
		tw = tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		w = tw
	}

	fmt.Fprintf(w, "# name\t%s\n", c.Name())
	if ros := c.ROS(); ros != nil {
		fmt.Fprintf(w, "# ROS\t%s-%s-%d\n", ros.Registry, ros.Ordering, ros.Supplement)
	}
	fmt.Fprintf(w, "# type\t%d\n", c.Type())
	fmt.Fprintf(w, "# wmode\t%d\n", c.WMode())
	for _, r := range c.CodespaceRanges() {
		fmt.Fprintf(w, "# codespace\t%s\t%d codes\n", r, r.Size())
	}
	if code, ok := c.SpaceMapping(); ok {
		fmt.Fprintf(w, "# space\t<%x>\n", code)
	}

	count := 0
	for _, r := range c.CodespaceRanges() {
		for _, code := range r.All() {
			if count >= maxCodes {
				fmt.Fprintf(w, "# ...\n")
				return flush(tw)
			}
			cid := c.ToCIDBytes(code)
			text, hasText := c.ToUnicodeBytes(code)
			if cid == 0 && !hasText {
				continue
			}
			fmt.Fprintf(w, "<%x>\t%d\t%s\n", code, cid, showRune(text, hasText))
			count++
		}
	}
	return flush(tw)
}

func flush(tw *tabwriter.Writer) error {
	if tw == nil {
		return nil
	}
	return tw.Flush()
}

func showRune(r rune, ok bool) string {
	switch {
	case !ok:
		return "-"
	case unicode.IsPrint(r):
		return fmt.Sprintf("U+%04X %q", r, r)
	default:
		return fmt.Sprintf("U+%04X", r)
	}
}

var errEmpty = errors.New("no mappings found")

// writeCMap serializes the mappings of c.  CID mappings take precedence
// over Unicode mappings.
func writeCMap(w io.Writer, c *cmap.CMap) error {
	kind := cmap.BaseFont
	if c.HasCIDMappings() {
		kind = cmap.CIDEntries
	}
	b := cmap.NewBuilder(kind, c.Name())
	for _, r := range c.CodespaceRanges() {
		for _, code := range r.All() {
			if kind == cmap.CIDEntries {
				if cid := c.ToCIDBytes(code); cid != 0 {
					b.Add(code, cid)
				}
			} else if text, ok := c.ToUnicodeBytes(code); ok {
				b.Add(code, int(text))
			}
		}
	}
	if b.Len() == 0 {
		return errEmpty
	}
	_, err := b.WriteTo(w)
	return err
}

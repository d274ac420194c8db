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

// Type4-eval runs a PostScript calculator program.
//
// Usage:
//
//	type4-eval [options] x1 x2 ...
//
// The program is given with -e, read from the file given with -f, or read
// from standard input.  The inputs are pushed onto the operand stack before
// the program runs.  Without -range, the complete operand stack is printed
// afterwards.  With -domain and -range, the program is run as a PDF Type 4
// function, with clipping of inputs and outputs.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"seehuhn.de/go/pdfps/function"
	"seehuhn.de/go/pdfps/function/type4"
)

func main() {
	program := flag.String("e", "", "the `program` to run")
	fname := flag.String("f", "", "read the program from `file`")
	domainArg := flag.String("domain", "", "comma-separated function domain, e.g. \"0,1,0,1\"")
	rangeArg := flag.String("range", "", "comma-separated function range")
	maxOps := flag.Int("max-ops", type4.DefaultLimits.MaxOps, "maximal number of executed instructions")
	flag.Parse()

	src, err := readProgram(*program, *fname)
	if err != nil {
		log.Fatal(err)
	}

	inputs := make([]float64, flag.NArg())
	for i, arg := range flag.Args() {
		inputs[i], err = strconv.ParseFloat(arg, 64)
		if err != nil {
			log.Fatalf("invalid input %q: %v", arg, err)
		}
	}

	lim := type4.DefaultLimits
	lim.MaxOps = *maxOps

	if *rangeArg != "" {
		err = runFunction(src, *domainArg, *rangeArg, &lim, inputs)
	} else {
		err = runProgram(src, &lim, inputs)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func readProgram(program, fname string) (string, error) {
	switch {
	case program != "":
		return program, nil
	case fname != "":
		body, err := os.ReadFile(fname)
		return string(body), err
	case term.IsTerminal(int(os.Stdin.Fd())):
		fmt.Fprintln(os.Stderr, "enter the program, followed by end of file:")
	}
	body, err := io.ReadAll(os.Stdin)
	return string(body), err
}

func runProgram(src string, lim *type4.Limits, inputs []float64) error {
	seq, err := type4.ParseString(src)
	if err != nil {
		return err
	}
	ctx, err := type4.NewContext(lim)
	if err != nil {
		return err
	}
	for _, x := range inputs {
		if err := ctx.Push(number(x)); err != nil {
			return err
		}
	}
	err = seq.Execute(ctx)
	if err != nil {
		return err
	}
	for _, v := range ctx.Stack() {
		fmt.Println(v)
	}
	return nil
}

// number converts x to an integer value if possible.
func number(x float64) type4.Value {
	if i := int32(x); float64(i) == x {
		return type4.Int(i)
	}
	return type4.Real(x)
}

func runFunction(src, domainArg, rangeArg string, lim *type4.Limits, inputs []float64) error {
	rng, err := parseFloats(rangeArg)
	if err != nil {
		return fmt.Errorf("invalid range: %w", err)
	}
	var domain []float64
	if domainArg != "" {
		domain, err = parseFloats(domainArg)
		if err != nil {
			return fmt.Errorf("invalid domain: %w", err)
		}
	} else {
		// one input in [0, 1] per argument
		for range inputs {
			domain = append(domain, 0, 1)
		}
	}

	f, err := function.NewType4(domain, rng, src)
	if err != nil {
		return err
	}
	f.Limits = lim
	if m, _ := f.Shape(); m != len(inputs) {
		return fmt.Errorf("function needs %d inputs, got %d", m, len(inputs))
	}

	outputs, err := f.Apply(inputs...)
	if err != nil {
		return err
	}
	for _, y := range outputs {
		fmt.Println(strconv.FormatFloat(y, 'g', -1, 64))
	}
	return nil
}

func parseFloats(s string) ([]float64, error) {
	var res []float64
	for _, field := range strings.Split(s, ",") {
		x, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, err
		}
		res = append(res, x)
	}
	return res, nil
}

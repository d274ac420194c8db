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

package function

import (
	"fmt"
	"strings"

	"seehuhn.de/go/pdfps/function/type4"
)

// Type4 represents a Type 4 PostScript calculator function.
//
// A Type4 is safe for concurrent use; every call to Apply uses
// its own operand stack.
type Type4 struct {
	// Domain defines the valid input ranges as [min0, max0, min1, max1, ...]
	Domain []float64

	// Range defines the valid output ranges as [min0, max0, min1, max1, ...]
	Range []float64

	// Program contains the PostScript code.
	Program string

	// Limits (optional) bounds the resources used by a single evaluation.
	// If this is nil, [type4.DefaultLimits] are used.
	Limits *type4.Limits

	prog *type4.Sequence
}

// NewType4 parses a PostScript calculator program and returns the
// corresponding function.
func NewType4(domain, rng []float64, program string) (*Type4, error) {
	f := &Type4{
		Domain:  domain,
		Range:   rng,
		Program: program,
	}
	if err := f.validate(); err != nil {
		return nil, err
	}

	prog, err := type4.Parse(strings.NewReader(program))
	if err != nil {
		return nil, newInvalidFunctionError(4, "Program", "%v", err)
	}
	f.prog = prog

	return f, nil
}

// FunctionType returns 4 for Type 4 functions.
func (f *Type4) FunctionType() int {
	return 4
}

// Shape returns the number of input and output values of the function.
func (f *Type4) Shape() (int, int) {
	return len(f.Domain) / 2, len(f.Range) / 2
}

// Apply clips the inputs to the domain, runs the program and returns the
// top n values of the operand stack, clipped to the range.
func (f *Type4) Apply(inputs ...float64) ([]float64, error) {
	m, n := f.Shape()
	if len(inputs) != m {
		panic(fmt.Sprintf("expected %d inputs, got %d", m, len(inputs)))
	}
	if f.prog == nil {
		return nil, newInvalidFunctionError(4, "Program", "not parsed, use NewType4")
	}

	ctx, err := type4.NewContext(f.Limits)
	if err != nil {
		return nil, err
	}
	for i, x := range inputs {
		x = clip(x, f.Domain[2*i], f.Domain[2*i+1])
		if err := ctx.PushReal(x); err != nil {
			return nil, err
		}
	}

	err = f.prog.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("Type 4 function: %w", err)
	}

	stack := ctx.Stack()
	if len(stack) < n {
		return nil, fmt.Errorf("Type 4 function: %d values on the stack, %d required",
			len(stack), n)
	}
	outputs := make([]float64, n)
	for i, v := range stack[len(stack)-n:] {
		if !v.IsNumber() {
			return nil, fmt.Errorf("Type 4 function: output %d: %w", i, type4.ErrTypeCheck)
		}
		outputs[i] = v.AsReal()
	}
	clipAll(outputs, f.Range)

	return outputs, nil
}

func (f *Type4) validate() error {
	if err := checkIntervals(4, "Domain", f.Domain); err != nil {
		return err
	}
	if err := checkIntervals(4, "Range", f.Range); err != nil {
		return err
	}
	return nil
}

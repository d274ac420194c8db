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
)

// Type3 represents a piecewise defined function with a single input.
// The PDF specification refers to this as a "stitching function".
type Type3 struct {
	// XMin and XMax define the input range.
	XMin, XMax float64

	// Range (optional) defines the valid output ranges as [min0, max0, min1,
	// max1, ...].
	Range []float64

	// Functions is the array of k functions to be combined.
	// All functions must have 1 input and the same number of outputs.
	Functions []Func

	// Bounds defines the boundaries between subdomains.
	// It must have k-1 elements, in increasing order, within the domain.
	// The first function applies to the range [XMin, Bounds[0]),
	// the second to [Bounds[0], Bounds[1]), ..., the last to
	// [Bounds[k-2], XMax].
	Bounds []float64

	// Encode maps each subdomain to corresponding function's domain as
	// [min0, max0, min1, max1, ...].
	Encode []float64
}

// FunctionType returns 3.
func (f *Type3) FunctionType() int {
	return 3
}

// Shape returns the number of input and output values of the function.
func (f *Type3) Shape() (int, int) {
	_, n := f.Functions[0].Shape()
	return 1, n
}

// Apply applies the function to the given input value and returns the
// output values.
func (f *Type3) Apply(inputs ...float64) ([]float64, error) {
	if len(inputs) != 1 {
		panic(fmt.Sprintf("Type 3 function expects 1 input, got %d", len(inputs)))
	}

	x := clip(inputs[0], f.XMin, f.XMax)

	idx, a, b := f.findSubdomain(x)
	t := interpolate(x, a, b, f.Encode[2*idx], f.Encode[2*idx+1])

	outputs, err := f.Functions[idx].Apply(t)
	if err != nil {
		return nil, fmt.Errorf("Type 3 function %d: %w", idx, err)
	}
	clipAll(outputs, f.Range)
	return outputs, nil
}

// findSubdomain determines which subdomain the input x belongs to and
// returns the subdomain index and its boundaries.
//
// Subdomains are half-open intervals [a, b), except for the last one, which
// includes XMax.  If XMin equals Bounds[0], the first subdomain is the single
// point XMin and the second one is open on the left.
func (f *Type3) findSubdomain(x float64) (int, float64, float64) {
	k := len(f.Functions)
	if k == 1 {
		return 0, f.XMin, f.XMax
	}

	if f.XMin == f.Bounds[0] {
		if x == f.XMin {
			return 0, f.XMin, f.XMin
		}
	} else if x < f.Bounds[0] {
		return 0, f.XMin, f.Bounds[0]
	}

	for i := 0; i < len(f.Bounds)-1; i++ {
		if x < f.Bounds[i+1] {
			return i + 1, f.Bounds[i], f.Bounds[i+1]
		}
	}
	return k - 1, f.Bounds[k-2], f.XMax
}

// Validate checks if the Type3 function is properly configured.
func (f *Type3) Validate() error {
	if !isRange(f.XMin, f.XMax) {
		return newInvalidFunctionError(3, "domain", "invalid domain [%g,%g]", f.XMin, f.XMax)
	}

	k := len(f.Functions)
	if k == 0 {
		return newInvalidFunctionError(3, "functions", "at least one function must be specified")
	}

	if len(f.Bounds) != k-1 {
		return newInvalidFunctionError(3, "bounds", "must have k-1 (%d) elements, got %d", k-1, len(f.Bounds))
	}
	for i, bound := range f.Bounds {
		if bound < f.XMin || bound > f.XMax {
			return newInvalidFunctionError(3, "bounds",
				"bound[%d] = %g must be within domain [%g, %g]", i, bound, f.XMin, f.XMax)
		}
		if i > 0 && bound <= f.Bounds[i-1] {
			return newInvalidFunctionError(3, "bounds", "must be in increasing order: bounds[%d] = %g <= bounds[%d] = %g",
				i, bound, i-1, f.Bounds[i-1])
		}
	}

	if len(f.Encode) != 2*k {
		return newInvalidFunctionError(3, "encode", "must have 2*k (%d) elements, got %d", 2*k, len(f.Encode))
	}

	_, expectedN := f.Functions[0].Shape()
	for i, fn := range f.Functions {
		m, n := fn.Shape()
		if m != 1 {
			return newInvalidFunctionError(3, "functions", "function[%d] must have 1 input, got %d", i, m)
		}
		if n != expectedN {
			return newInvalidFunctionError(3, "functions", "function[%d] has %d outputs, expected %d", i, n, expectedN)
		}
	}

	if len(f.Range) != 0 {
		if len(f.Range) != 2*expectedN {
			return newInvalidFunctionError(3, "range", "must have 2*n (%d) elements or be empty", 2*expectedN)
		}
		if err := checkIntervals(3, "range", f.Range); err != nil {
			return err
		}
	}
	return nil
}

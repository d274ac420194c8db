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
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"seehuhn.de/go/pdfps/function/type4"
)

func TestType4Apply(t *testing.T) {
	tests := []struct {
		name     string
		domain   []float64
		rng      []float64
		program  string
		inputs   []float64
		expected []float64
	}{
		{
			name:     "absolute value",
			domain:   []float64{-10, 10},
			rng:      []float64{0, 10},
			program:  "{ dup 0 lt { neg } if }",
			inputs:   []float64{-5},
			expected: []float64{5},
		},
		{
			name:     "input clipped to domain",
			domain:   []float64{-1, 1},
			rng:      []float64{-10, 10},
			program:  "{ 2 mul }",
			inputs:   []float64{3},
			expected: []float64{2},
		},
		{
			name:     "output clipped to range",
			domain:   []float64{0, 10},
			rng:      []float64{0, 1},
			program:  "{ 2 mul }",
			inputs:   []float64{3},
			expected: []float64{1},
		},
		{
			name:     "top values are used",
			domain:   []float64{0, 1},
			rng:      []float64{0, 10, 0, 10},
			program:  "{ 1 2 3 }",
			inputs:   []float64{0.5},
			expected: []float64{2, 3},
		},
		{
			name:     "round dot spot function",
			domain:   []float64{-1, 1, -1, 1},
			rng:      []float64{-1, 1},
			program:  "{ dup mul exch dup mul add 1 exch sub }",
			inputs:   []float64{0.5, 0.5},
			expected: []float64{0.5},
		},
		{
			name:     "CMYK from gray",
			domain:   []float64{0, 1},
			rng:      []float64{0, 1, 0, 1, 0, 1, 0, 1},
			program:  "{ 0 0 0 4 -1 roll 1 exch sub }",
			inputs:   []float64{0.25},
			expected: []float64{0, 0, 0, 0.75},
		},
		{
			name:     "integer operators after cvi",
			domain:   []float64{0, 255},
			rng:      []float64{0, 255},
			program:  "{ cvi 2 bitshift 255 and }",
			inputs:   []float64{100},
			expected: []float64{144},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewType4(tt.domain, tt.rng, tt.program)
			if err != nil {
				t.Fatal(err)
			}
			got, err := f.Apply(tt.inputs...)
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(tt.expected, got, cmpopts.EquateApprox(0, 1e-9)); d != "" {
				t.Errorf("unexpected outputs (-want +got):\n%s", d)
			}
		})
	}
}

func TestType4Errors(t *testing.T) {
	_, err := NewType4([]float64{0}, []float64{0, 1}, "{ }")
	if !errors.Is(err, &InvalidFunctionError{}) {
		t.Errorf("odd domain length: got %v", err)
	}
	_, err = NewType4([]float64{0, 1}, []float64{1, 0}, "{ }")
	if !errors.Is(err, &InvalidFunctionError{}) {
		t.Errorf("invalid range: got %v", err)
	}
	_, err = NewType4([]float64{0, 1}, []float64{0, 1}, "{ 1 } }")
	if !errors.Is(err, &InvalidFunctionError{}) {
		t.Errorf("unbalanced braces: got %v", err)
	}

	f, err := NewType4([]float64{0, 1}, []float64{0, 1, 0, 1}, "{ pop 1 }")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Apply(0.5); err == nil {
		t.Error("missing outputs not detected")
	}

	f, err = NewType4([]float64{0, 1}, []float64{0, 1}, "{ 0 eq }")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Apply(0); !errors.Is(err, type4.ErrTypeCheck) {
		t.Errorf("boolean output: got %v", err)
	}

	f, err = NewType4([]float64{-1, 1}, []float64{0, 1}, "{ sqrt }")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Apply(-1); !errors.Is(err, type4.ErrRangeCheck) {
		t.Errorf("sqrt of negative number: got %v", err)
	}

	f, err = NewType4([]float64{0, 1}, []float64{0, 1}, "{ frobnicate }")
	if err != nil {
		t.Fatal(err)
	}
	var opErr *type4.OpError
	if _, err := f.Apply(0); !errors.As(err, &opErr) || opErr.Op != "frobnicate" {
		t.Errorf("unknown operator: got %v", err)
	}
}

func TestType4Limits(t *testing.T) {
	f, err := NewType4([]float64{0, 1}, []float64{0, 1}, "{ 1 2 3 4 5 6 pop pop pop pop pop }")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Apply(0); err != nil {
		t.Fatal(err)
	}

	f.Limits = &type4.Limits{MaxStack: 4, MaxDepth: 4, MaxOps: 100}
	if _, err := f.Apply(0); !errors.Is(err, type4.ErrStackOverflow) {
		t.Errorf("got %v, want %v", err, type4.ErrStackOverflow)
	}

	f.Limits = &type4.Limits{}
	if _, err := f.Apply(0); err == nil {
		t.Error("invalid limits not detected")
	}
}

func TestType4Concurrent(t *testing.T) {
	f, err := NewType4([]float64{0, 360}, []float64{-1, 1}, "{ sin }")
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for x := 0.0; x <= 360; x += 15 {
				y, err := f.Apply(x)
				if err != nil {
					errs[i] = err
					return
				}
				if math.Abs(y[0]-math.Sin(x*math.Pi/180)) > 1e-9 {
					errs[i] = errors.New("wrong result")
					return
				}
			}
		}()
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			t.Error(err)
		}
	}
}

func TestType4Unparsed(t *testing.T) {
	f := &Type4{Domain: []float64{0, 1}, Range: []float64{0, 1}, Program: "{ }"}
	if _, err := f.Apply(0); err == nil {
		t.Error("expected an error")
	}
}

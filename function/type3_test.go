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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestType3BoundaryHandling(t *testing.T) {
	up := &Type2{XMin: 0, XMax: 1, C0: []float64{0}, C1: []float64{1}, N: 1}
	down := &Type2{XMin: 0, XMax: 1, C0: []float64{1}, C1: []float64{0}, N: 1}
	square := &Type2{XMin: 0, XMax: 1, C0: []float64{0}, C1: []float64{1}, N: 2}

	type probe struct {
		input    float64
		wantFunc int
		wantA    float64
		wantB    float64
	}
	tests := []struct {
		name   string
		f      *Type3
		probes []probe
	}{
		{
			name: "k=2, XMin < Bounds[0] < XMax",
			f: &Type3{
				XMin: 0, XMax: 2,
				Functions: []Func{up, down},
				Bounds:    []float64{1},
				Encode:    []float64{0, 1, 0, 1},
			},
			probes: []probe{
				{0.0, 0, 0, 1},
				{0.999, 0, 0, 1},
				{1.0, 1, 1, 2},
				{2.0, 1, 1, 2},
			},
		},
		{
			name: "k=2, XMin = Bounds[0]",
			f: &Type3{
				XMin: 0, XMax: 2,
				Functions: []Func{up, down},
				Bounds:    []float64{0},
				Encode:    []float64{0, 1, 0, 1},
			},
			probes: []probe{
				{0.0, 0, 0, 0},
				{0.001, 1, 0, 2},
				{2.0, 1, 0, 2},
			},
		},
		{
			name: "k=3",
			f: &Type3{
				XMin: 0, XMax: 3,
				Functions: []Func{up, down, square},
				Bounds:    []float64{1, 2},
				Encode:    []float64{0, 1, 0, 1, 0, 1},
			},
			probes: []probe{
				{0.0, 0, 0, 1},
				{1.0, 1, 1, 2},
				{1.999, 1, 1, 2},
				{2.0, 2, 2, 3},
				{3.0, 2, 2, 3},
			},
		},
		{
			name: "k=1",
			f: &Type3{
				XMin: 0, XMax: 1,
				Functions: []Func{up},
				Bounds:    []float64{},
				Encode:    []float64{0, 1},
			},
			probes: []probe{
				{0.0, 0, 0, 1},
				{1.0, 0, 0, 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.f.Validate(); err != nil {
				t.Fatal(err)
			}
			for _, p := range tt.probes {
				idx, a, b := tt.f.findSubdomain(p.input)
				if idx != p.wantFunc || a != p.wantA || b != p.wantB {
					t.Errorf("x=%g: got function %d on [%g, %g], want %d on [%g, %g]",
						p.input, idx, a, b, p.wantFunc, p.wantA, p.wantB)
				}
			}
		})
	}
}

func TestType3Apply(t *testing.T) {
	abs, err := NewType4([]float64{-1, 1}, []float64{0, 1}, "{ abs }")
	if err != nil {
		t.Fatal(err)
	}
	f := &Type3{
		XMin: 0, XMax: 2,
		Functions: []Func{
			&Type2{XMin: 0, XMax: 1, C0: []float64{0}, C1: []float64{1}, N: 2},
			abs,
		},
		Bounds: []float64{1},
		Encode: []float64{0, 1, 1, -1},
		Range:  []float64{0, 0.5},
	}
	if err := f.Validate(); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		x, y float64
	}{
		{-1, 0},
		{0.5, 0.25},
		{1, 0.5},    // abs(1), clipped
		{1.5, 0},    // abs(0)
		{1.75, 0.5}, // abs(-0.5)
		{2, 0.5},
	}
	for _, c := range cases {
		got, err := f.Apply(c.x)
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff([]float64{c.y}, got, cmpopts.EquateApprox(0, 1e-12)); d != "" {
			t.Errorf("x=%g (-want +got):\n%s", c.x, d)
		}
	}

	failing, err := NewType4([]float64{0, 1}, []float64{0, 1}, "{ pop }")
	if err != nil {
		t.Fatal(err)
	}
	g := &Type3{XMin: 0, XMax: 1, Functions: []Func{failing}, Encode: []float64{0, 1}}
	if _, err := g.Apply(0.5); err == nil {
		t.Error("error from sub-function not reported")
	}
}

func TestType3Validate(t *testing.T) {
	up := &Type2{XMin: 0, XMax: 1, C0: []float64{0}, C1: []float64{1}, N: 1}
	two := &Type2{XMin: 0, XMax: 1, C0: []float64{0, 0}, C1: []float64{1, 1}, N: 1}

	bad := []*Type3{
		{XMin: 1, XMax: 0, Functions: []Func{up}, Encode: []float64{0, 1}},
		{XMin: 0, XMax: 1, Encode: []float64{}},
		{XMin: 0, XMax: 1, Functions: []Func{up, up}, Encode: []float64{0, 1, 0, 1}},
		{XMin: 0, XMax: 1, Functions: []Func{up, up}, Bounds: []float64{2}, Encode: []float64{0, 1, 0, 1}},
		{XMin: 0, XMax: 1, Functions: []Func{up}, Encode: []float64{0, 1, 0}},
		{XMin: 0, XMax: 1, Functions: []Func{up, two}, Bounds: []float64{0.5}, Encode: []float64{0, 1, 0, 1}},
		{XMin: 0, XMax: 1, Functions: []Func{up}, Encode: []float64{0, 1}, Range: []float64{0}},
	}
	for i, f := range bad {
		err := f.Validate()
		if !errors.Is(err, &InvalidFunctionError{}) {
			t.Errorf("%d: got %v", i, err)
		}
	}
}

func TestType2(t *testing.T) {
	f := &Type2{
		XMin:  0,
		XMax:  1,
		C0:    []float64{0, 1},
		C1:    []float64{1, 0},
		N:     2,
		Range: []float64{0, 1, 0, 0.5},
	}
	if err := f.Validate(); err != nil {
		t.Fatal(err)
	}
	got, err := f.Apply(0.5)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]float64{0.25, 0.5}, got); d != "" {
		t.Errorf("unexpected outputs (-want +got):\n%s", d)
	}

	bad := []*Type2{
		{XMin: 1, XMax: 0, C0: []float64{0}, C1: []float64{1}, N: 1},
		{XMin: 0, XMax: 1, C0: []float64{0}, C1: []float64{1, 2}, N: 1},
		{XMin: -1, XMax: 1, C0: []float64{0}, C1: []float64{1}, N: 0.5},
		{XMin: -1, XMax: 1, C0: []float64{0}, C1: []float64{1}, N: -1},
		{XMin: 0, XMax: 1, C0: []float64{0}, C1: []float64{1}, N: 1, Range: []float64{0, 1, 0, 1}},
	}
	for i, f := range bad {
		if err := f.Validate(); !errors.Is(err, &InvalidFunctionError{}) {
			t.Errorf("%d: got %v", i, err)
		}
	}
}

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

package type4

import (
	"maps"
	"math"
	"slices"
)

// opFunc implements a Type 4 operator.
type opFunc func(ctx *Context) error

// operators lists all operators allowed in Type 4 functions.
var operators = map[string]opFunc{
	// arithmetic operators
	"abs":      opAbs,
	"add":      opAdd,
	"atan":     opAtan,
	"ceiling":  rounding(math.Ceil),
	"cos":      unaryReal(cosDeg),
	"cvi":      opCvi,
	"cvr":      opCvr,
	"div":      opDiv,
	"exp":      opExp,
	"floor":    rounding(math.Floor),
	"idiv":     opIdiv,
	"ln":       unaryReal(ln),
	"log":      unaryReal(log10),
	"mod":      opMod,
	"mul":      opMul,
	"neg":      opNeg,
	"round":    rounding(roundHalfUp),
	"sin":      unaryReal(sinDeg),
	"sqrt":     unaryReal(sqrt),
	"sub":      opSub,
	"truncate": rounding(math.Trunc),

	// relational, boolean and bitwise operators
	"and":      logical(func(a, b bool) bool { return a && b }, func(a, b int32) int32 { return a & b }),
	"bitshift": opBitshift,
	"eq":       opEq,
	"false":    opFalse,
	"ge":       compare(func(a, b float64) bool { return a >= b }),
	"gt":       compare(func(a, b float64) bool { return a > b }),
	"le":       compare(func(a, b float64) bool { return a <= b }),
	"lt":       compare(func(a, b float64) bool { return a < b }),
	"ne":       opNe,
	"not":      opNot,
	"or":       logical(func(a, b bool) bool { return a || b }, func(a, b int32) int32 { return a | b }),
	"true":     opTrue,
	"xor":      logical(func(a, b bool) bool { return a != b }, func(a, b int32) int32 { return a ^ b }),

	// conditional operators
	"if":     opIf,
	"ifelse": opIfelse,

	// stack operators
	"copy":  opCopy,
	"dup":   opDup,
	"exch":  opExch,
	"index": opIndex,
	"pop":   opPop,
	"roll":  opRoll,
}

// Operators returns the names of all supported operators, in sorted order.
func Operators() []string {
	return slices.Sorted(maps.Keys(operators))
}

// IsOperator reports whether name is a supported operator.
func IsOperator(name string) bool {
	_, ok := operators[name]
	return ok
}

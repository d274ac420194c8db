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
	"strconv"
)

// Kind identifies the type of a [Value].
type Kind uint8

// These are the value types which can occur on the operand stack.
const (
	KindInteger Kind = iota
	KindReal
	KindBoolean
	KindProc
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindBoolean:
		return "boolean"
	case KindProc:
		return "procedure"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is an element of the operand stack.
// The zero value is the integer 0.
type Value struct {
	kind Kind
	i    int32 // integer value, or 0/1 for booleans
	r    float64
	proc *Sequence
}

// Int returns an integer value.
func Int(x int32) Value { return Value{kind: KindInteger, i: x} }

// Real returns a real value.
func Real(x float64) Value { return Value{kind: KindReal, r: x} }

// Bool returns a boolean value.
func Bool(b bool) Value {
	v := Value{kind: KindBoolean}
	if b {
		v.i = 1
	}
	return v
}

// Proc returns a value which holds an unexecuted procedure.
func Proc(s *Sequence) Value { return Value{kind: KindProc, proc: s} }

// Kind returns the type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNumber reports whether v is an integer or a real.
func (v Value) IsNumber() bool {
	return v.kind == KindInteger || v.kind == KindReal
}

// AsInt returns the value of an integer.
// For other kinds the result is 0.
func (v Value) AsInt() int32 {
	if v.kind != KindInteger {
		return 0
	}
	return v.i
}

// AsReal returns the numeric value of an integer or a real.
// For other kinds the result is 0.
func (v Value) AsReal() float64 {
	switch v.kind {
	case KindInteger:
		return float64(v.i)
	case KindReal:
		return v.r
	default:
		return 0
	}
}

// AsBool returns the value of a boolean.
func (v Value) AsBool() bool {
	return v.kind == KindBoolean && v.i != 0
}

// AsProc returns the procedure held by v, or nil.
func (v Value) AsProc() *Sequence {
	return v.proc
}

// Equal reports whether v and w compare equal under the "eq" operator.
// Numbers are compared by value, independent of their type.
func (v Value) Equal(w Value) bool {
	if v.IsNumber() && w.IsNumber() {
		if v.kind == KindInteger && w.kind == KindInteger {
			return v.i == w.i
		}
		return v.AsReal() == w.AsReal()
	}
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case KindBoolean:
		return v.i == w.i
	case KindProc:
		return v.proc == w.proc
	}
	return false
}

// String returns the PostScript representation of v.
func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(int64(v.i), 10)
	case KindReal:
		s := strconv.FormatFloat(v.r, 'g', -1, 64)
		if isIntegral(s) {
			s += ".0"
		}
		return s
	case KindBoolean:
		return strconv.FormatBool(v.i != 0)
	case KindProc:
		return v.proc.String()
	}
	return "?"
}

// isIntegral reports whether s would be read back as an integer.
func isIntegral(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && c != '-' {
			return false
		}
	}
	return true
}

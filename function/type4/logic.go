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

func opEq(ctx *Context) error {
	return equality(ctx, true)
}

func opNe(ctx *Context) error {
	return equality(ctx, false)
}

func equality(ctx *Context, want bool) error {
	b, err := ctx.Pop()
	if err != nil {
		return err
	}
	a, err := ctx.Pop()
	if err != nil {
		return err
	}
	return ctx.Push(Bool(a.Equal(b) == want))
}

// compare implements ge, gt, le and lt.
func compare(fn func(a, b float64) bool) opFunc {
	return func(ctx *Context) error {
		b, err := ctx.PopNumber()
		if err != nil {
			return err
		}
		a, err := ctx.PopNumber()
		if err != nil {
			return err
		}
		return ctx.Push(Bool(fn(a.AsReal(), b.AsReal())))
	}
}

// logical implements and, or and xor.  The operands must either both be
// booleans or both be integers.
func logical(boolFn func(a, b bool) bool, intFn func(a, b int32) int32) opFunc {
	return func(ctx *Context) error {
		b, err := ctx.Pop()
		if err != nil {
			return err
		}
		a, err := ctx.Pop()
		if err != nil {
			return err
		}
		switch {
		case a.kind == KindBoolean && b.kind == KindBoolean:
			return ctx.Push(Bool(boolFn(a.i != 0, b.i != 0)))
		case a.kind == KindInteger && b.kind == KindInteger:
			return ctx.Push(Int(intFn(a.i, b.i)))
		default:
			return ErrTypeCheck
		}
	}
}

func opNot(ctx *Context) error {
	if err := ctx.need(1); err != nil {
		return err
	}
	v := ctx.top(0)
	switch v.kind {
	case KindBoolean:
		v.i ^= 1
	case KindInteger:
		v.i = ^v.i
	default:
		return ErrTypeCheck
	}
	return nil
}

// opBitshift shifts the bit pattern of an integer.  Positive shift counts
// shift to the left, negative counts shift to the right.  Vacated bits
// are filled with zeros.
func opBitshift(ctx *Context) error {
	shift, err := ctx.PopInt()
	if err != nil {
		return err
	}
	x, err := ctx.PopInt()
	if err != nil {
		return err
	}
	bits := uint32(x)
	switch {
	case shift >= 32 || shift <= -32:
		bits = 0
	case shift >= 0:
		bits <<= uint(shift)
	default:
		bits >>= uint(-shift)
	}
	return ctx.Push(Int(int32(bits)))
}

func opTrue(ctx *Context) error {
	return ctx.Push(Bool(true))
}

func opFalse(ctx *Context) error {
	return ctx.Push(Bool(false))
}

func opIf(ctx *Context) error {
	proc, err := ctx.PopProc()
	if err != nil {
		return err
	}
	cond, err := ctx.PopBool()
	if err != nil {
		return err
	}
	if cond {
		return proc.run(ctx)
	}
	return nil
}

func opIfelse(ctx *Context) error {
	procFalse, err := ctx.PopProc()
	if err != nil {
		return err
	}
	procTrue, err := ctx.PopProc()
	if err != nil {
		return err
	}
	cond, err := ctx.PopBool()
	if err != nil {
		return err
	}
	if cond {
		return procTrue.run(ctx)
	}
	return procFalse.run(ctx)
}

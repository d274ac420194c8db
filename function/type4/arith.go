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
	"math"
)

// fromInt64 returns x as an integer value if it fits into 32 bits,
// and as a real value otherwise.
func fromInt64(x int64) Value {
	if x < math.MinInt32 || x > math.MaxInt32 {
		return Real(float64(x))
	}
	return Int(int32(x))
}

// binaryNumeric implements add, sub and mul.  Integer operands give an
// integer result, unless the result overflows.
func binaryNumeric(ctx *Context, intFn func(a, b int64) int64, realFn func(a, b float64) float64) error {
	b, err := ctx.PopNumber()
	if err != nil {
		return err
	}
	a, err := ctx.PopNumber()
	if err != nil {
		return err
	}
	if a.kind == KindInteger && b.kind == KindInteger {
		return ctx.Push(fromInt64(intFn(int64(a.i), int64(b.i))))
	}
	return ctx.PushReal(realFn(a.AsReal(), b.AsReal()))
}

func opAdd(ctx *Context) error {
	return binaryNumeric(ctx,
		func(a, b int64) int64 { return a + b },
		func(a, b float64) float64 { return a + b })
}

func opSub(ctx *Context) error {
	return binaryNumeric(ctx,
		func(a, b int64) int64 { return a - b },
		func(a, b float64) float64 { return a - b })
}

func opMul(ctx *Context) error {
	return binaryNumeric(ctx,
		func(a, b int64) int64 { return a * b },
		func(a, b float64) float64 { return a * b })
}

func opDiv(ctx *Context) error {
	b, err := ctx.PopNumber()
	if err != nil {
		return err
	}
	a, err := ctx.PopNumber()
	if err != nil {
		return err
	}
	den := b.AsReal()
	if den == 0 {
		return ErrUndefinedResult
	}
	return ctx.PushReal(a.AsReal() / den)
}

// binaryInt implements idiv and mod.
func binaryInt(ctx *Context, fn func(a, b int64) int64) error {
	b, err := ctx.PopInt()
	if err != nil {
		return err
	}
	a, err := ctx.PopInt()
	if err != nil {
		return err
	}
	if b == 0 {
		return ErrUndefinedResult
	}
	res := fn(int64(a), int64(b))
	if res > math.MaxInt32 {
		// -2147483648 -1 idiv
		return ErrUndefinedResult
	}
	return ctx.Push(Int(int32(res)))
}

func opIdiv(ctx *Context) error {
	return binaryInt(ctx, func(a, b int64) int64 { return a / b })
}

func opMod(ctx *Context) error {
	return binaryInt(ctx, func(a, b int64) int64 { return a % b })
}

// negate implements abs and neg for integers, where the negation of the
// smallest integer is promoted to a real.
func negate(x int32) Value {
	return fromInt64(-int64(x))
}

func opNeg(ctx *Context) error {
	a, err := ctx.PopNumber()
	if err != nil {
		return err
	}
	if a.kind == KindInteger {
		return ctx.Push(negate(a.i))
	}
	return ctx.PushReal(-a.r)
}

func opAbs(ctx *Context) error {
	a, err := ctx.PopNumber()
	if err != nil {
		return err
	}
	if a.kind == KindInteger {
		if a.i < 0 {
			return ctx.Push(negate(a.i))
		}
		return ctx.Push(a)
	}
	return ctx.PushReal(math.Abs(a.r))
}

// rounding implements the four rounding operators.  Integers are left
// unchanged, reals are rounded and stay real.
func rounding(fn func(float64) float64) opFunc {
	return func(ctx *Context) error {
		if err := ctx.need(1); err != nil {
			return err
		}
		v := ctx.top(0)
		switch v.kind {
		case KindInteger:
			// no-op
		case KindReal:
			v.r = fn(v.r)
		default:
			return ErrTypeCheck
		}
		return nil
	}
}

// roundHalfUp rounds to the nearest integer.  Halfway cases round
// towards positive infinity, so that -2.5 becomes -2.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// unaryReal implements the operators which take one number and
// always return a real.
func unaryReal(fn func(float64) (float64, error)) opFunc {
	return func(ctx *Context) error {
		a, err := ctx.PopNumber()
		if err != nil {
			return err
		}
		res, err := fn(a.AsReal())
		if err != nil {
			return err
		}
		return ctx.PushReal(res)
	}
}

func sqrt(x float64) (float64, error) {
	if x < 0 {
		return 0, ErrRangeCheck
	}
	return math.Sqrt(x), nil
}

func ln(x float64) (float64, error) {
	if x <= 0 {
		return 0, ErrUndefinedResult
	}
	return math.Log(x), nil
}

func log10(x float64) (float64, error) {
	if x <= 0 {
		return 0, ErrUndefinedResult
	}
	return math.Log10(x), nil
}

func sinDeg(x float64) (float64, error) {
	return math.Sin(x * math.Pi / 180), nil
}

func cosDeg(x float64) (float64, error) {
	return math.Cos(x * math.Pi / 180), nil
}

func opCvr(ctx *Context) error {
	return unaryReal(func(x float64) (float64, error) { return x, nil })(ctx)
}

func opExp(ctx *Context) error {
	exponent, err := ctx.PopNumber()
	if err != nil {
		return err
	}
	base, err := ctx.PopNumber()
	if err != nil {
		return err
	}
	res := math.Pow(base.AsReal(), exponent.AsReal())
	if math.IsNaN(res) || math.IsInf(res, 0) {
		return ErrUndefinedResult
	}
	return ctx.PushReal(res)
}

// opAtan computes the angle in degrees, in the range [0, 360),
// for the vector (den, num).
func opAtan(ctx *Context) error {
	den, err := ctx.PopNumber()
	if err != nil {
		return err
	}
	num, err := ctx.PopNumber()
	if err != nil {
		return err
	}
	y, x := num.AsReal(), den.AsReal()
	if x == 0 && y == 0 {
		return ErrUndefinedResult
	}
	deg := math.Atan2(y, x) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return ctx.PushReal(deg)
}

func opCvi(ctx *Context) error {
	a, err := ctx.PopNumber()
	if err != nil {
		return err
	}
	if a.kind == KindInteger {
		return ctx.Push(a)
	}
	t := math.Trunc(a.r)
	if math.IsNaN(t) || t < math.MinInt32 || t > math.MaxInt32 {
		return ErrRangeCheck
	}
	return ctx.Push(Int(int32(t)))
}

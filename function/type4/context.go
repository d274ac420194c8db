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
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Limits bounds the resources used while executing a program.
type Limits struct {
	// MaxStack is the maximal number of values on the operand stack.
	MaxStack int `validate:"min=1"`

	// MaxDepth is the maximal nesting depth of executed procedures.
	MaxDepth int `validate:"min=1"`

	// MaxOps is the maximal number of instructions executed
	// during one call to [Sequence.Execute].
	MaxOps int `validate:"min=1"`
}

// DefaultLimits are used when no limits are given.
var DefaultLimits = Limits{
	MaxStack: 500,
	MaxDepth: 64,
	MaxOps:   1_000_000,
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that all limits are positive.
func (lim *Limits) Validate() error {
	if err := validate.Struct(lim); err != nil {
		return fmt.Errorf("invalid limits: %w", err)
	}
	return nil
}

// Context holds the operand stack used to execute a Type 4 program.
// A Context must not be used concurrently.
type Context struct {
	stack []Value
	lim   Limits

	depth int
	ops   int
}

// NewContext allocates a new execution context.
// If lim is nil, [DefaultLimits] are used.
func NewContext(lim *Limits) (*Context, error) {
	if lim == nil {
		lim = &DefaultLimits
	}
	if err := lim.Validate(); err != nil {
		return nil, err
	}
	ctx := &Context{
		lim: *lim,
	}
	return ctx, nil
}

// Len returns the number of values on the operand stack.
func (ctx *Context) Len() int {
	return len(ctx.stack)
}

// Stack returns a copy of the operand stack, bottom first.
func (ctx *Context) Stack() []Value {
	res := make([]Value, len(ctx.stack))
	copy(res, ctx.stack)
	return res
}

// Reset clears the operand stack and the instruction counter.
func (ctx *Context) Reset() {
	ctx.stack = ctx.stack[:0]
	ctx.depth = 0
	ctx.ops = 0
}

// Push places v on top of the operand stack.
func (ctx *Context) Push(v Value) error {
	if len(ctx.stack) >= ctx.lim.MaxStack {
		return ErrStackOverflow
	}
	ctx.stack = append(ctx.stack, v)
	return nil
}

// PushReal places a real value on top of the operand stack.
func (ctx *Context) PushReal(x float64) error {
	return ctx.Push(Real(x))
}

// Pop removes the top value from the operand stack.
func (ctx *Context) Pop() (Value, error) {
	n := len(ctx.stack)
	if n == 0 {
		return Value{}, ErrStackUnderflow
	}
	v := ctx.stack[n-1]
	ctx.stack = ctx.stack[:n-1]
	return v, nil
}

// PopNumber removes the top value, which must be an integer or a real.
func (ctx *Context) PopNumber() (Value, error) {
	v, err := ctx.Pop()
	if err != nil {
		return v, err
	}
	if !v.IsNumber() {
		return v, ErrTypeCheck
	}
	return v, nil
}

// PopInt removes the top value, which must be an integer.
func (ctx *Context) PopInt() (int32, error) {
	v, err := ctx.Pop()
	if err != nil {
		return 0, err
	}
	if v.kind != KindInteger {
		return 0, ErrTypeCheck
	}
	return v.i, nil
}

// PopBool removes the top value, which must be a boolean.
func (ctx *Context) PopBool() (bool, error) {
	v, err := ctx.Pop()
	if err != nil {
		return false, err
	}
	if v.kind != KindBoolean {
		return false, ErrTypeCheck
	}
	return v.i != 0, nil
}

// PopProc removes the top value, which must be a procedure.
func (ctx *Context) PopProc() (*Sequence, error) {
	v, err := ctx.Pop()
	if err != nil {
		return nil, err
	}
	if v.kind != KindProc {
		return nil, ErrTypeCheck
	}
	return v.proc, nil
}

// need checks that at least n values are on the stack.
func (ctx *Context) need(n int) error {
	if len(ctx.stack) < n {
		return ErrStackUnderflow
	}
	return nil
}

// top returns a pointer to the i-th value from the top of the stack.
// The caller must check the stack depth first.
func (ctx *Context) top(i int) *Value {
	return &ctx.stack[len(ctx.stack)-1-i]
}

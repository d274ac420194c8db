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
	"errors"
	"strings"
)

// instruction is either a literal value or an operator.
type instruction struct {
	name string // operator name, empty for literals
	op   opFunc // nil for literals and for unknown operator names
	val  Value
}

// Sequence is a parsed Type 4 program or procedure body.
// A Sequence is not modified after parsing and can be executed
// concurrently on different contexts.
type Sequence struct {
	code []instruction
}

// Len returns the number of instructions in s.
func (s *Sequence) Len() int {
	return len(s.code)
}

// Execute runs the program on the given context.  Input values must be
// pushed before the call, results are left on the operand stack.
//
// Procedures which remain on top of the stack after the program has run
// are popped and executed in turn.  This executes programs which consist
// of a single braced procedure, "{ ... }".
//
// If an error is returned, the contents of the stack are unspecified.
func (s *Sequence) Execute(ctx *Context) error {
	ctx.depth = 0
	ctx.ops = 0

	err := s.run(ctx)
	if err != nil {
		return err
	}
	for len(ctx.stack) > 0 {
		top := ctx.top(0)
		if top.kind != KindProc {
			break
		}
		proc := top.proc
		ctx.stack = ctx.stack[:len(ctx.stack)-1]
		if err := proc.run(ctx); err != nil {
			return err
		}
	}
	return nil
}

// run executes the instructions of s, without the special handling of
// trailing procedures.
func (s *Sequence) run(ctx *Context) error {
	if ctx.depth >= ctx.lim.MaxDepth {
		return ErrLimitCheck
	}
	ctx.depth++
	defer func() { ctx.depth-- }()

	for i := range s.code {
		ctx.ops++
		if ctx.ops > ctx.lim.MaxOps {
			return ErrLimitCheck
		}

		inst := &s.code[i]
		if inst.name == "" {
			if err := ctx.Push(inst.val); err != nil {
				return err
			}
			continue
		}

		if inst.op == nil {
			return &OpError{Op: inst.name, Err: ErrUndefined}
		}
		err := inst.op(ctx)
		if err != nil {
			var opErr *OpError
			if errors.As(err, &opErr) || errors.Is(err, ErrLimitCheck) {
				return err
			}
			return &OpError{Op: inst.name, Err: err}
		}
	}
	return nil
}

// String returns the program text in normalized form.
func (s *Sequence) String() string {
	b := &strings.Builder{}
	s.format(b)
	return b.String()
}

func (s *Sequence) format(b *strings.Builder) {
	b.WriteByte('{')
	for _, inst := range s.code {
		b.WriteByte(' ')
		if inst.name != "" {
			b.WriteString(inst.name)
		} else if inst.val.kind == KindProc {
			inst.val.proc.format(b)
		} else {
			b.WriteString(inst.val.String())
		}
	}
	b.WriteString(" }")
}

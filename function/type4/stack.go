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

func opPop(ctx *Context) error {
	_, err := ctx.Pop()
	return err
}

func opDup(ctx *Context) error {
	if err := ctx.need(1); err != nil {
		return err
	}
	return ctx.Push(*ctx.top(0))
}

func opExch(ctx *Context) error {
	if err := ctx.need(2); err != nil {
		return err
	}
	a, b := ctx.top(0), ctx.top(1)
	*a, *b = *b, *a
	return nil
}

// popCount pops a non-negative integer n and checks that at least
// n values remain on the stack.
func popCount(ctx *Context) (int, error) {
	n, err := ctx.PopInt()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, ErrRangeCheck
	}
	if int(n) > len(ctx.stack) {
		return 0, ErrStackUnderflow
	}
	return int(n), nil
}

// opCopy duplicates the top n values.
func opCopy(ctx *Context) error {
	n, err := popCount(ctx)
	if err != nil {
		return err
	}
	if len(ctx.stack)+n > ctx.lim.MaxStack {
		return ErrStackOverflow
	}
	ctx.stack = append(ctx.stack, ctx.stack[len(ctx.stack)-n:]...)
	return nil
}

// opIndex pushes a copy of the n-th value below the top.
func opIndex(ctx *Context) error {
	n, err := ctx.PopInt()
	if err != nil {
		return err
	}
	if n < 0 {
		return ErrRangeCheck
	}
	if int(n) >= len(ctx.stack) {
		return ErrStackUnderflow
	}
	return ctx.Push(*ctx.top(int(n)))
}

// opRoll rotates the top n values by j positions.  Positive j moves
// values towards the top of the stack, negative j moves them down:
// "a b c 3 1 roll" gives "c a b" and "a b c 3 -1 roll" gives "b c a".
func opRoll(ctx *Context) error {
	j, err := ctx.PopInt()
	if err != nil {
		return err
	}
	n, err := popCount(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	k := int(j) % n
	if k < 0 {
		k += n
	}
	if k == 0 {
		return nil
	}

	data := ctx.stack[len(ctx.stack)-n:]
	tmp := make([]Value, k)
	copy(tmp, data[n-k:])
	copy(data[k:], data[:n-k])
	copy(data, tmp)
	return nil
}

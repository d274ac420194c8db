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

package cmap

import (
	"context"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredefinedIdentity(t *testing.T) {
	h, err := Default().Get("Identity-H")
	require.NoError(t, err)
	require.NotNil(t, h)

	assert.Equal(t, "Identity-H", h.Name())
	assert.Equal(t, 0, h.WMode())
	assert.Equal(t, 1, h.Type())
	assert.Equal(t, "Adobe", h.ROS().Registry)
	assert.Equal(t, "Identity", h.ROS().Ordering)
	assert.Len(t, h.CIDRanges(), 1, "consecutive ranges should be merged")
	assert.Equal(t, 0x1234, h.ToCID(0x1234, 2))
	assert.Equal(t, 0xFFFF, h.ToCIDBytes([]byte{0xFF, 0xFF}))

	code, n := h.ReadCode([]byte{0x12, 0x34, 0x56})
	assert.Equal(t, 0x1234, code)
	assert.Equal(t, 2, n)

	v, err := Default().Get("Identity-V")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "Identity-V", v.Name())
	assert.Equal(t, 1, v.WMode())
	assert.Equal(t, 0x1234, v.ToCID(0x1234, 2))
	assert.Equal(t, 2, v.MaxCodeLength())
}

func TestRegistryNotFound(t *testing.T) {
	for _, name := range []string{"NoSuchCMap", "", ".", "../Identity-H", "a/b"} {
		c, err := Default().Get(name)
		assert.NoError(t, err, name)
		assert.Nil(t, c, name)
	}
}

func TestRegistryNames(t *testing.T) {
	names, err := Default().Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"Identity-H", "Identity-V"}, names)
}

func TestRegistryConcurrentGet(t *testing.T) {
	reg, err := NewRegistry(fstest.MapFS{
		"Test": {Data: []byte("1 begincodespacerange <00> <FF> endcodespacerange")},
	}, nil)
	require.NoError(t, err)

	const n = 16
	results := make([]*CMap, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := reg.Get("Test")
			assert.NoError(t, err)
			results[i] = c
		}()
	}
	wg.Wait()

	require.NotNil(t, results[0])
	for i := 1; i < n; i++ {
		assert.Same(t, results[0], results[i], "all callers should share one CMap")
	}
}

func TestRegistryPreload(t *testing.T) {
	reg, err := NewRegistry(fstest.MapFS{
		"A": {Data: []byte("/CMapName /A def")},
		"B": {Data: []byte("/A usecmap /CMapName /B def")},
	}, nil)
	require.NoError(t, err)

	err = reg.Preload(context.Background(), "A", "B")
	require.NoError(t, err)

	err = reg.Preload(context.Background(), "A", "Missing")
	assert.ErrorIs(t, err, ErrNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = reg.Preload(ctx, "A")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegistryUseDepth(t *testing.T) {
	reg, err := NewRegistry(fstest.MapFS{
		"A": {Data: []byte("/B usecmap")},
		"B": {Data: []byte("/C usecmap")},
		"C": {Data: []byte("/CMapName /C def")},
	}, &RegistryOptions{MaxUseDepth: 2})
	require.NoError(t, err)

	_, err = reg.Get("A")
	assert.ErrorIs(t, err, errUseDepth)
	_, err = reg.Get("B")
	assert.NoError(t, err)
}

func TestRegistryOptions(t *testing.T) {
	cases := []struct {
		name    string
		opt     RegistryOptions
		wantErr bool
	}{
		{"default", *DefaultRegistryOptions(), false},
		{"zero depth", RegistryOptions{MaxUseDepth: 0}, true},
		{"too deep", RegistryOptions{MaxUseDepth: 100}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opt.Validate()
			if tc.wantErr {
				assert.Error(t, err, "expected validation error")
			} else {
				assert.NoError(t, err, "expected validation to pass")
			}
		})
	}

	_, err := NewRegistry(fstest.MapFS{}, &RegistryOptions{})
	assert.Error(t, err)
}

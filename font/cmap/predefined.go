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
	"compress/gzip"
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

//go:embed predefined/*.gz
var predefined embed.FS

var (
	// ErrNotFound is returned by [Registry.Preload] for unknown CMap names.
	ErrNotFound = errors.New("CMap not found")

	errUseCycle = errors.New("usecmap cycle")
	errUseDepth = errors.New("usecmap nesting too deep")
)

// RegistryOptions configures a [Registry].
type RegistryOptions struct {
	// Logger receives diagnostics about malformed CMaps.
	// If this is nil, slog.Default() is used.
	Logger *slog.Logger

	// MaxUseDepth limits the length of usecmap chains.
	MaxUseDepth int `validate:"min=1,max=64"`
}

// DefaultRegistryOptions returns the options used by [Default].
func DefaultRegistryOptions() *RegistryOptions {
	return &RegistryOptions{
		MaxUseDepth: 8,
	}
}

// Validate checks the option values.
func (o *RegistryOptions) Validate() error {
	return validator.New().Struct(o)
}

// Registry is a cache of named CMaps, loaded on demand from a file system.
// Each CMap is parsed at most once; concurrent requests for the same name
// wait for the first one to finish.  CMaps returned by a Registry must not
// be modified.
type Registry struct {
	fsys fs.FS
	opt  RegistryOptions

	group singleflight.Group

	mu    sync.RWMutex
	cmaps map[string]*CMap
}

// NewRegistry creates a registry which loads CMaps from fsys.
// The CMap with name N is read from the file "N.gz" (gzip compressed) or,
// if this does not exist, from the file "N".
func NewRegistry(fsys fs.FS, opt *RegistryOptions) (*Registry, error) {
	if opt == nil {
		opt = DefaultRegistryOptions()
	}
	err := opt.Validate()
	if err != nil {
		return nil, fmt.Errorf("registry options: %w", err)
	}
	return &Registry{
		fsys:  fsys,
		opt:   *opt,
		cmaps: make(map[string]*CMap),
	}, nil
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	fsys, err := fs.Sub(predefined, "predefined")
	if err != nil {
		panic(err)
	}
	r, err := NewRegistry(fsys, nil)
	if err != nil {
		panic(err)
	}
	return r
})

// Default returns the registry of the predefined CMaps which are built into
// the library.
func Default() *Registry {
	return defaultRegistry()
}

// Get returns the CMap with the given name.
// If no CMap of this name exists, nil is returned without an error.
func (r *Registry) Get(name string) (*CMap, error) {
	return r.get(name, nil)
}

func (r *Registry) get(name string, chain []string) (*CMap, error) {
	if !validName(name) {
		return nil, nil
	}
	if slices.Contains(chain, name) {
		return nil, fmt.Errorf("%w: %s -> %s", errUseCycle, strings.Join(chain, " -> "), name)
	}
	if len(chain) >= r.opt.MaxUseDepth {
		return nil, fmt.Errorf("%w: %s", errUseDepth, name)
	}

	r.mu.RLock()
	c, ok := r.cmaps[name]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	v, err, _ := r.group.Do(name, func() (any, error) {
		r.mu.RLock()
		c, ok := r.cmaps[name]
		r.mu.RUnlock()
		if ok {
			return c, nil
		}

		c, err := r.load(name, append(slices.Clone(chain), name))
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cmaps[name] = c
		r.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*CMap), nil
}

// load reads and parses a CMap.  If the file does not exist, nil is
// returned without an error.
func (r *Registry) load(name string, chain []string) (*CMap, error) {
	var in io.Reader
	fd, err := r.fsys.Open(name + ".gz")
	if errors.Is(err, fs.ErrNotExist) {
		fd, err = r.fsys.Open(name)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		} else if err != nil {
			return nil, err
		}
		in = fd
	} else if err != nil {
		return nil, err
	} else {
		zr, err := gzip.NewReader(fd)
		if err != nil {
			fd.Close()
			return nil, fmt.Errorf("CMap %s: %w", name, err)
		}
		in = zr
	}
	defer fd.Close()

	c, err := Parse(in, &ParseOptions{
		Registry: r,
		Logger:   r.opt.Logger,
		chain:    chain,
	})
	if err != nil {
		return nil, fmt.Errorf("CMap %s: %w", name, err)
	}
	return c, nil
}

// Preload loads the named CMaps concurrently.
// Unknown names cause an error wrapping [ErrNotFound].
func (r *Registry) Preload(ctx context.Context, names ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := r.Get(name)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("%w: %s", ErrNotFound, name)
			}
			return nil
		})
	}
	return g.Wait()
}

// Names lists the CMaps available in the registry's file system.
func (r *Registry) Names() ([]string, error) {
	entries, err := fs.ReadDir(r.fsys, ".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".gz")
		if validName(name) && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

func validName(name string) bool {
	return name != "" && name != "." && fs.ValidPath(name) && !strings.Contains(name, "/")
}

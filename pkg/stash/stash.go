/*
 *  MIT License
 *
 *  Copyright (c) 2020 Nicolas JUHEL
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a copy
 *  of this software and associated documentation files (the "Software"), to deal
 *  in the Software without restriction, including without limitation the rights
 *  to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *  copies of the Software, and to permit persons to whom the Software is
 *  furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included in all
 *  copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *  AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *  LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *  OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *  SOFTWARE.
 *
 */

// Package stash is an append-only, handle-indexed store of intermediate
// byte streams backed by a scoped temporary directory, in the spirit of this
// codebase's own ioutils temp-file helpers but scoped to an entire unpack
// session rather than one file at a time.
package stash

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sabouaram/explode/pkg/mio"
)

// Handle is an opaque, copyable reference to a stashed payload. It is valid
// only for the lifetime of the Stash that issued it.
type Handle struct {
	idx uint64
}

// String renders the handle's index, chiefly for logging and the tree
// printer.
func (h Handle) String() string {
	return strconv.FormatUint(h.idx, 10)
}

// Stash owns a directory of intermediate payloads written during a single
// unpack session. Handle indices are strictly increasing and never reused.
type Stash struct {
	dir     string
	counter uint64
	closed  bool
}

// NewIn creates a fresh scratch directory under parent and returns a Stash
// scoped to it.
func NewIn(parent string) (*Stash, error) {
	dir, err := os.MkdirTemp(parent, ".splayers")
	if err != nil {
		return nil, fmt.Errorf("stash: create scratch dir: %w", err)
	}
	return &Stash{dir: dir}, nil
}

// Insert copies all remaining bytes of src into a new stash file and returns
// a handle to it.
func (s *Stash) Insert(src io.Reader) (Handle, error) {
	idx := s.counter
	s.counter++
	h := Handle{idx: idx}

	f, err := os.OpenFile(s.PathOf(h), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return Handle{}, fmt.Errorf("stash: create %s: %w", h, err)
	}
	defer f.Close()

	if _, err := io.CopyBuffer(f, src, make([]byte, 8*1024)); err != nil {
		return Handle{}, fmt.Errorf("stash: write %s: %w", h, err)
	}

	return h, nil
}

// PathOf returns the deterministic on-disk path of h. It performs no I/O and
// never fails; the file may or may not currently exist.
func (s *Stash) PathOf(h Handle) string {
	return filepath.Join(s.dir, fmt.Sprintf(".%d.tmp", h.idx))
}

// Open opens the payload referenced by h for reading.
func (s *Stash) Open(h Handle) (*mio.Mio, error) {
	if h.idx >= s.counter {
		panic(fmt.Sprintf("stash: handle %s was never issued by this stash", h))
	}
	return mio.FromPath(s.PathOf(h))
}

// Release deletes the payload referenced by h. Callers must call Release at
// most once per handle.
func (s *Stash) Release(h Handle) error {
	if err := os.Remove(s.PathOf(h)); err != nil {
		return fmt.Errorf("stash: release %s: %w", h, err)
	}
	return nil
}

// IntoPath consumes the stash, suppressing automatic cleanup, and returns
// the backing directory path so the caller can inspect or relocate it.
func (s *Stash) IntoPath() string {
	s.closed = true
	return s.dir
}

// Close removes the scratch directory and everything still in it, unless
// IntoPath was called first.
func (s *Stash) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("stash: close: %w", err)
	}
	return nil
}

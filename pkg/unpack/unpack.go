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

// Package unpack is the recursive archive exploder: it classifies one input
// (a file or a directory tree), extracts every member of every container it
// finds into a session-scoped stash, and recurses into each member, so that
// a .deb containing a gzipped tar containing a source file is reported all
// the way down to that source file.
//
// Processing is single-threaded, synchronous and depth-first; there is no
// parallel unpacking and no partial-extraction mode; a container is either
// walked completely or reported as StatusKind Error at that node.
package unpack

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sabouaram/explode/pkg/stash"
)

// Unpack is the result of one top-level call to Into: the result tree, plus
// the stash backing whatever stashed payloads survived eager release.
type Unpack struct {
	stash  *stash.Stash
	status Status
}

// Option configures Into.
type Option func(*driver)

// WithLogger attaches a logger the driver uses for non-fatal warnings (for
// instance a failed eager release). The default is silent.
func WithLogger(log logrus.FieldLogger) Option {
	return func(d *driver) {
		d.log = log
	}
}

// Into unpacks what (a file or directory path) using a stash created under
// root, and returns the resulting tree. The caller must call Close (or
// IntoPath, to keep the stash) on the returned *Unpack once done with it.
func Into(what, root string, opts ...Option) (*Unpack, error) {
	s, err := stash.NewIn(root)
	if err != nil {
		return nil, fmt.Errorf("unpack: %w", err)
	}

	d := &driver{stash: s}
	for _, opt := range opts {
		opt(d)
	}

	return &Unpack{stash: s, status: d.Root(what)}, nil
}

// Status returns the result tree's root status.
func (u *Unpack) Status() Status {
	return u.status
}

// IntoPath suppresses cleanup of the backing stash directory and returns its
// path, so the caller can inspect the surviving stashed payloads.
func (u *Unpack) IntoPath() string {
	return u.stash.IntoPath()
}

// PathOf resolves a stash handle to its on-disk path.
func (u *Unpack) PathOf(h stash.Handle) string {
	return u.stash.PathOf(h)
}

// Close releases every surviving stashed payload, unless IntoPath was
// called first.
func (u *Unpack) Close() error {
	return u.stash.Close()
}

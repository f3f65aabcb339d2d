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

// Package mio provides Mio, a seekable, peekable, cheaply re-openable file
// reader. Header peeks never consume stream bytes, which lets callers
// classify a stream and then still read it from the start.
package mio

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// HeaderCap is the minimum number of bytes Header guarantees when the
// backing file is at least that large.
const HeaderCap = 1024

const bufferSize = 8 * 1024

// Mio is an owned, buffered handle on a file, identified by its path so it
// can be cheaply reopened from the start.
type Mio struct {
	path string
	file *os.File
	buf  *bufio.Reader
}

// FromPath opens path for buffered reading.
func FromPath(path string) (*Mio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mio: open %s: %w", path, err)
	}
	return &Mio{
		path: path,
		file: f,
		buf:  bufio.NewReaderSize(f, bufferSize),
	}, nil
}

// Path returns the path Mio was opened from.
func (m *Mio) Path() string {
	return m.path
}

// Header returns a peeked byte prefix of at least HeaderCap bytes, or the
// whole file if it is smaller. The returned bytes remain available to
// subsequent Read calls.
func (m *Mio) Header() ([]byte, error) {
	buf, err := m.buf.Peek(HeaderCap)
	if err == nil || err == io.EOF {
		return buf, nil
	}
	return nil, fmt.Errorf("mio: header %s: %w", m.path, err)
}

// Read implements io.Reader.
func (m *Mio) Read(p []byte) (int, error) {
	return m.buf.Read(p)
}

// Seek implements io.Seeker. Seeking invalidates any pending peeked bytes.
func (m *Mio) Seek(offset int64, whence int) (int64, error) {
	pos, err := m.file.Seek(offset, whence)
	if err != nil {
		return 0, fmt.Errorf("mio: seek %s: %w", m.path, err)
	}
	m.buf.Reset(m.file)
	return pos, nil
}

// Clone reopens the same path at offset 0, independent of this Mio's current
// read position. It is the mechanism by which the embedded-tar heuristic
// restarts a stream after a speculative decode fails.
func (m *Mio) Clone() (*Mio, error) {
	return FromPath(m.path)
}

// Close releases the underlying file descriptor.
func (m *Mio) Close() error {
	return m.file.Close()
}

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

package unpack

import (
	"fmt"

	"github.com/sabouaram/explode/pkg/filetype"
	"github.com/sabouaram/explode/pkg/meta"
	"github.com/sabouaram/explode/pkg/stash"
)

// StatusKind is the closed set of outcomes an attempt to unpack one stream
// can have.
type StatusKind uint8

const (
	// Unnecessary means the stream was empty; there was nothing to unpack.
	Unnecessary StatusKind = iota
	// Unrecognised means the stream's format classified as plain text or
	// binary data, with no container to descend into.
	Unrecognised
	// Unsupported means the stream classified as a known container format
	// for which no extractor is wired.
	Unsupported
	// Error means an extractor was invoked and failed.
	Error
	// Success means an extractor ran and produced zero or more children.
	Success
)

// Status is the tagged result of attempting to unpack one stream.
type Status struct {
	Kind     StatusKind
	Type     filetype.FileType // populated when Kind == Unsupported
	Message  string            // populated when Kind == Error
	Children []Entry           // populated when Kind == Success
}

// FullyConsumed reports whether this status represents a container that was
// successfully decoded into at least one child, meaning the compressed
// blob that produced it is no longer needed.
func (s Status) FullyConsumed() bool {
	return s.Kind == Success && len(s.Children) > 0
}

func statusUnnecessary() Status  { return Status{Kind: Unnecessary} }
func statusUnrecognised() Status { return Status{Kind: Unrecognised} }

func statusUnsupported(ft filetype.FileType) Status {
	return Status{Kind: Unsupported, Type: ft}
}

func statusError(format string, args ...interface{}) Status {
	return Status{Kind: Error, Message: fmt.Sprintf(format, args...)}
}

func statusSuccess(children []Entry) Status {
	return Status{Kind: Success, Children: children}
}

// LocalEntry is one archive member as observed by its immediate parent
// container.
type LocalEntry struct {
	// Path is the member's raw path or name, as the source format recorded
	// it. It is not assumed to be valid UTF-8 except where the source
	// format guarantees it (zip, the local filesystem walk).
	Path []byte
	Meta meta.Meta
	Temp *stash.Handle
}

// Entry is one node of the result tree: a member plus the outcome of
// recursing into it.
type Entry struct {
	Local    LocalEntry
	Children Status
}

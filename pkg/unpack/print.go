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
	"io"
	"strings"
)

// Print writes a human-readable dump of entries to w, indenting children by
// depth.
func Print(w io.Writer, entries []Entry, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, e := range entries {
		fmt.Fprintf(w, "%s- %s", indent, lossyPath(e.Local.Path))
		if e.Local.Temp != nil {
			fmt.Fprintf(w, " (stashed)")
		}

		switch e.Children.Kind {
		case Success:
			fmt.Fprintln(w, ":")
			Print(w, e.Children.Children, depth+1)
		case Unnecessary:
			fmt.Fprintln(w, " [empty]")
		case Unrecognised:
			fmt.Fprintln(w, " [leaf]")
		case Unsupported:
			fmt.Fprintf(w, " [unsupported: %s]\n", e.Children.Type)
		case Error:
			fmt.Fprintf(w, " [error: %s]\n", e.Children.Message)
		}
	}
}

// lossyPath renders a raw path as UTF-8, substituting the replacement
// character for any byte sequence that does not decode cleanly.
func lossyPath(p []byte) string {
	return strings.ToValidUTF8(string(p), "�")
}

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

	"github.com/blakesmith/ar"

	"github.com/sabouaram/explode/pkg/meta"
	"github.com/sabouaram/explode/pkg/mio"
	"github.com/sabouaram/explode/pkg/stash"
)

// extractAR reads from as an ar archive (the container format behind
// .deb packages: "debian-binary", "control.tar.*" and "data.tar.*" members
// in sequence) and stashes each member's payload.
func extractAR(from *mio.Mio, st *stash.Stash) ([]LocalEntry, error) {
	r := ar.NewReader(from)

	var locals []LocalEntry
	for {
		hdr, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ar: %w", err)
		}

		h, err := insertIfNonEmpty(st, r, hdr.Size)
		if err != nil {
			return nil, fmt.Errorf("ar: stash %s: %w", hdr.Name, err)
		}

		locals = append(locals, LocalEntry{
			Path: []byte(hdr.Name),
			Meta: meta.FromAR(hdr),
			Temp: h,
		})
	}

	return locals, nil
}

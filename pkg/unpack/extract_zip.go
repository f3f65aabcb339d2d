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
	"archive/zip"
	"fmt"

	"github.com/sabouaram/explode/pkg/meta"
	"github.com/sabouaram/explode/pkg/mio"
	"github.com/sabouaram/explode/pkg/stash"
)

// extractZip reads from as a zip archive. Zip's central directory requires
// random access, so this extractor reopens from's path directly rather than
// streaming through the Mio, unlike every other extractor in this package.
func extractZip(from *mio.Mio, st *stash.Stash) ([]LocalEntry, error) {
	zr, err := zip.OpenReader(from.Path())
	if err != nil {
		return nil, fmt.Errorf("zip: %w", err)
	}
	defer zr.Close()

	locals := make([]LocalEntry, 0, len(zr.File))
	for _, f := range zr.File {
		m := meta.FromZip(f)

		var h *stash.Handle
		if m.ItemType.Kind != meta.Directory {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("zip: open %s: %w", f.Name, err)
			}
			h, err = insertIfNonEmpty(st, rc, int64(f.UncompressedSize64))
			rc.Close()
			if err != nil {
				return nil, fmt.Errorf("zip: stash %s: %w", f.Name, err)
			}
		}

		locals = append(locals, LocalEntry{
			Path: []byte(f.Name),
			Meta: m,
			Temp: h,
		})
	}

	return locals, nil
}

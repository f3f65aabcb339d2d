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
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"

	"github.com/sabouaram/explode/pkg/filetype"
	"github.com/sabouaram/explode/pkg/meta"
	"github.com/sabouaram/explode/pkg/mio"
	"github.com/sabouaram/explode/pkg/stash"
)

// openStream wraps raw in the decompressor matching ft. The returned reader
// yields the single stream's decompressed bytes; gzHeader is populated only
// for Gz, and carries the gzip header's embedded filename, if any.
func openStream(ft filetype.FileType, raw io.Reader) (rdr io.Reader, gzHeader *gzip.Header, err error) {
	switch ft {
	case filetype.Gz:
		gr, err := gzip.NewReader(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip: %w", err)
		}
		return gr, &gr.Header, nil
	case filetype.Bz:
		return bzip2.NewReader(raw), nil, nil
	case filetype.Xz:
		xr, err := xz.NewReader(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("xz: %w", err)
		}
		return xr, nil, nil
	case filetype.Lz4:
		return lz4.NewReader(raw), nil, nil
	default:
		return nil, nil, fmt.Errorf("unpack: %s has no stream extractor", ft)
	}
}

func streamSuffix(ft filetype.FileType) string {
	switch ft {
	case filetype.Gz:
		return "..gz"
	case filetype.Bz:
		return "..bz2"
	case filetype.Xz:
		return "..xz"
	case filetype.Lz4:
		return "..lz4"
	default:
		return "..bin"
	}
}

// extractStream handles the four single-stream compressed formats. It first
// tries the embedded-tar heuristic: decompress the start of the stream, peek
// its first 512 bytes, and if they look like a tar header, extract the tar
// directly so the compressed container never appears as its own node. If the
// probe does not look like tar, or the tar extraction fails, it falls back to
// stashing the whole decompressed stream as one opaque member.
func extractStream(from *mio.Mio, st *stash.Stash, ft filetype.FileType) ([]LocalEntry, error) {
	if locals, ok, err := embeddedTar(from, st, ft); err != nil {
		return nil, err
	} else if ok {
		return locals, nil
	}

	clone, err := from.Clone()
	if err != nil {
		return nil, fmt.Errorf("reopen for stash: %w", err)
	}
	defer clone.Close()

	rdr, gzHeader, err := openStream(ft, clone)
	if err != nil {
		return nil, err
	}

	h, err := st.Insert(rdr)
	if err != nil {
		return nil, fmt.Errorf("stash %s payload: %w", ft, err)
	}

	path := streamSuffix(ft)
	m := meta.JustStream()
	if gzHeader != nil {
		if gzHeader.Name != "" {
			path = gzHeader.Name
		}
		m = meta.FromGzip(meta.GzipHeader{ModTime: gzHeader.ModTime, Name: gzHeader.Name})
	}

	return []LocalEntry{{Path: []byte(path), Meta: m, Temp: &h}}, nil
}

// embeddedTar speculatively decodes from's stream and checks whether the
// decompressed prefix looks like a tar archive. It clones from first so
// the caller's own stream position is never disturbed; on success it
// extracts the tar directly from the decompressed bytes, which means the
// compressed wrapper contributes no node of its own to the result tree.
func embeddedTar(from *mio.Mio, st *stash.Stash, ft filetype.FileType) ([]LocalEntry, bool, error) {
	probe, err := from.Clone()
	if err != nil {
		return nil, false, fmt.Errorf("reopen for tar probe: %w", err)
	}
	defer probe.Close()

	rdr, _, err := openStream(ft, probe)
	if err != nil {
		// A stream that fails to even open as this format cannot be
		// salvaged by the non-speculative path either; surface it there.
		return nil, false, nil
	}

	buffered := bufio.NewReaderSize(rdr, 512)
	header, err := buffered.Peek(512)
	if err != nil && err != io.EOF {
		return nil, false, nil
	}
	if !filetype.IsProbablyTar(header) {
		return nil, false, nil
	}

	locals, err := extractTar(buffered, st)
	if err != nil {
		return nil, false, nil
	}

	return locals, true, nil
}

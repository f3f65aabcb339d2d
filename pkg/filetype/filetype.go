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

package filetype

import (
	"bytes"
	"strconv"
	"strings"
)

// FileType is the closed set of container/stream formats and residual text
// classes this repository can tell apart from a header alone.
type FileType uint8

const (
	// Other is anything that matched no rule below and did not look like
	// binary or source text.
	Other FileType = iota
	// Empty marks a zero-byte input.
	Empty
	// Binary marks a non-container byte stream containing a NUL byte.
	Binary
	// Source marks a likely text source file (shebang, comment, markup).
	Source

	// Gz is a gzip stream.
	Gz
	// Zip is a zip archive.
	Zip
	// Tar is a POSIX or pre-POSIX tar archive.
	Tar
	// Bz is a bzip2 stream.
	Bz
	// Xz is an xz stream.
	Xz
	// Lz4 is a raw LZ4 frame stream.
	Lz4
	// Deb is an ar archive carrying a Debian-binary member (a .deb package).
	Deb
)

func (f FileType) String() string {
	switch f {
	case Empty:
		return "Empty"
	case Binary:
		return "Binary"
	case Source:
		return "Source"
	case Gz:
		return "Gz"
	case Zip:
		return "Zip"
	case Tar:
		return "Tar"
	case Bz:
		return "Bz"
	case Xz:
		return "Xz"
	case Lz4:
		return "Lz4"
	case Deb:
		return "Deb"
	default:
		return "Other"
	}
}

// IsContainer reports whether f names a format this package knows how to
// recurse into, as opposed to a leaf classification.
func (f FileType) IsContainer() bool {
	switch f {
	case Gz, Zip, Tar, Bz, Xz, Lz4, Deb:
		return true
	default:
		return false
	}
}

var debPrefix = []byte("!<arch>\ndebian-binary ")

// Identify classifies header, a byte prefix of a stream (ideally at least
// 512 bytes, the size of one tar block). Rules are evaluated in order; the
// first match wins. Identify never reads beyond header: it takes no io.Reader
// and performs no I/O of its own.
func Identify(header []byte) FileType {
	switch {
	case len(header) == 0:
		return Empty

	case len(header) >= 20 && header[0] == 0x1f && header[1] == 0x8b:
		return Gz

	case len(header) >= 152 && bytes.Equal(header[0:4], []byte{'P', 'K', 0x03, 0x04}):
		return Zip

	case len(header) > 70 &&
		bytes.Equal(header[:len(debPrefix)], debPrefix) &&
		bytes.Equal(header[66:70], []byte("`\n2.")):
		return Deb

	case len(header) > 40 &&
		header[0] == 'B' && header[1] == 'Z' && header[2] == 'h' &&
		header[4] == 0x31 && header[5] == 0x41 && header[6] == 0x59 &&
		header[7] == 0x26 && header[8] == 0x53 && header[9] == 0x59:
		return Bz

	case len(header) > 6 &&
		header[0] == 0xfd && header[1] == '7' && header[2] == 'z' &&
		header[3] == 'X' && header[4] == 'Z' && header[5] == 0x00:
		return Xz

	case len(header) >= 4 &&
		header[0] == 0x04 && header[1] == 0x22 && header[2] == 0x4D && header[3] == 0x18:
		return Lz4

	case IsProbablyTar(header):
		return Tar

	case bytes.IndexByte(header[:min(len(header), 512)], 0) >= 0:
		return Binary

	case source(header):
		return Source

	default:
		return Other
	}
}

// IsProbablyTar reports whether header looks like the start of a tar
// archive, either by the POSIX ustar magic or by a valid header checksum
// (pre-POSIX tar variants omit the magic but still carry a correct
// checksum).
func IsProbablyTar(header []byte) bool {
	if len(header) < 512 {
		return false
	}

	if bytes.Equal(header[257:262], []byte("ustar")) &&
		((header[262] == 0 && header[263] == '0' && header[264] == '0') ||
			(header[262] == ' ' && header[263] == ' ' && header[264] == 0)) {
		return true
	}

	expected, ok := readOctal(header[148:156])
	if !ok {
		return false
	}

	var found uint32
	for _, b := range header[0:148] {
		found += uint32(b)
	}
	found += uint32(' ') * 8
	for _, b := range header[156:512] {
		found += uint32(b)
	}

	return expected == found
}

// readOctal parses a tar header's space/NUL padded octal field.
func readOctal(field []byte) (uint32, bool) {
	start := 0
	for start < len(field) && field[start] == ' ' {
		start++
	}

	end := len(field) - 1
	for end > start && (field[end] == ' ' || field[end] == 0) {
		end--
	}

	s := strings.TrimSpace(string(field[start : end+1]))
	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, false
	}

	return uint32(v), true
}

// source is a best-effort heuristic for text/source payloads: a Unix
// shebang, a C-like comment opener, or common markup/processing-instruction
// openers.
func source(header []byte) bool {
	if len(header) > 16 && header[0] == '#' && header[1] == '!' &&
		(header[2] == '/' || header[3] == '/') {
		return true
	}

	if len(header) > 16 && header[0] == '/' && (header[1] == '*' || header[1] == '/') {
		return true
	}

	if len(header) > 16 && header[0] == '<' &&
		(header[1] == '?' || header[1] == 'h' || header[1] == '!') {
		return true
	}

	return false
}

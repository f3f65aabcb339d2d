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

// Package filetype classifies a byte stream from its leading header bytes
// alone.
//
// # Overview
//
// Every container and compression format this repository knows how to open
// advertises itself with a short, fixed byte prefix: gzip's 0x1f 0x8b, zip's
// "PK\x03\x04", xz's six-byte magic, and so on. Identify inspects at most the
// first 512 bytes of a stream and returns one of a small closed set of
// FileType values describing what was found, without reading the rest of the
// stream and without knowing anything about where the bytes came from.
//
// # Design Philosophy
//
//  1. Detection never consumes the stream: callers peek a header and decide,
//     they do not hand this package an io.Reader to drain.
//  2. The result is a closed, comparable value, not an error: an input that
//     matches nothing recognised is still classified, as Other, Binary or
//     Source, rather than rejected.
//  3. Ambiguous or heuristic cases (an uncompressed tar embedded directly,
//     with no outer container) are resolved by one dedicated predicate,
//     IsProbablyTar, kept separate from the main dispatch so callers that
//     already suspect a tar stream can call it directly.
//
// # Key Features
//
//   - Magic-number detection for gzip, zip, bzip2, xz, lz4 and the ar-based
//     Debian package container.
//   - A POSIX tar heuristic that accepts both the ustar magic and a valid
//     checksum, covering pre-POSIX tar variants that omit the magic.
//   - A best-effort split between likely binary and likely source/text
//     payloads for anything left unrecognised.
package filetype

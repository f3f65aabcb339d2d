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

// # Overview
//
// This file documents the recursion at the heart of the unpack package,
// which the rest of the package's godoc assumes as background.
//
// A call to Into classifies its input's header bytes (see pkg/filetype),
// dispatches to the extractor matching that format, stashes every member
// the extractor yields, and recurses into each stashed member by calling
// Unknown on it again. The recursion bottoms out at a leaf: an empty
// stream, a plain-text or binary stream with no container to open, or a
// format this package does not (yet) extract.
//
// # Design Philosophy
//
//  1. Every extractor returns its members as a plain slice before any
//     recursion happens; a member that cannot be read is a failure of that
//     one container, not of its siblings or its parent.
//  2. A stashed payload is released back to disk the moment it is proven to
//     have been fully flattened into children, so peak disk usage tracks the
//     deepest surviving leaf path rather than the sum of every compressed
//     layer ever seen.
//  3. The compressed-stream extractors (gzip, bzip2, xz, lz4) share one
//     heuristic for detecting an uncompressed tar directly inside them, so
//     a .tar.gz is reported with the same shape as an equivalent .tar.
//
// # Key Features
//
//   - ar/.deb, tar, zip container extractors, plus gzip/bzip2/xz/lz4 single
//     stream extractors.
//   - A directory-tree entry point (Root) alongside the single-stream entry
//     point (Unknown), so a pre-extracted directory and a still-packed
//     archive are walked with the same recursion.
//   - Eager stash release once a member is proven to have children.
package unpack

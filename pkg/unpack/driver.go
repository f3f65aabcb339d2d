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
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/karrick/godirwalk"
	"github.com/sirupsen/logrus"

	"github.com/sabouaram/explode/pkg/filetype"
	"github.com/sabouaram/explode/pkg/meta"
	"github.com/sabouaram/explode/pkg/mio"
	"github.com/sabouaram/explode/pkg/stash"
)

// driver carries the one piece of state every recursive call shares: the
// stash backing the whole session, plus an optional logger.
type driver struct {
	stash *stash.Stash
	log   logrus.FieldLogger
}

// Root unpacks path, which may be a single file or a directory tree. A
// directory is walked with every subdirectory, regular file and symlink
// turned into a LocalEntry relative to path (subdirectories and symlinks
// carry no stash handle); a regular file is handed to Unknown.
func (d *driver) Root(path string) Status {
	info, err := os.Lstat(path)
	if err != nil {
		return statusError("stat %s: %v", path, err)
	}

	if !info.IsDir() {
		m, err := mio.FromPath(path)
		if err != nil {
			return statusError("open %s: %v", path, err)
		}
		defer m.Close()
		return d.Unknown(m)
	}

	var locals []LocalEntry
	err = godirwalk.Walk(path, &godirwalk.Options{
		Unsorted: false,
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if osPathname == path {
				return nil
			}

			rel, relErr := filepath.Rel(path, osPathname)
			if relErr != nil {
				return relErr
			}

			if !utf8.ValidString(rel) {
				return fmt.Errorf("%w: %s", ErrNotUTF8, rel)
			}

			if de.IsDir() {
				locals = append(locals, LocalEntry{
					Path: []byte(rel),
					Meta: meta.Meta{ItemType: meta.ItemType{Kind: meta.Directory}, Ownership: meta.Ownership{Kind: meta.OwnershipUnknown}, Xattrs: map[string][]byte{}},
				})
				return nil
			}

			lst, lstErr := os.Lstat(osPathname)
			if lstErr != nil {
				return lstErr
			}

			if lst.Mode()&os.ModeSymlink != 0 {
				target, readErr := os.Readlink(osPathname)
				if readErr != nil {
					return readErr
				}
				locals = append(locals, LocalEntry{
					Path: []byte(rel),
					Meta: meta.FromLocal(lst, target),
				})
				return nil
			}

			f, openErr := os.Open(osPathname)
			if openErr != nil {
				return openErr
			}
			defer f.Close()

			h, insErr := d.stash.Insert(f)
			if insErr != nil {
				return insErr
			}

			locals = append(locals, LocalEntry{
				Path: []byte(rel),
				Meta: meta.FromLocal(lst, ""),
				Temp: &h,
			})
			return nil
		},
	})
	if err != nil {
		return statusError("walk %s: %v", path, err)
	}

	return statusSuccess(d.recurseAll(locals))
}

// Unknown classifies from's header and dispatches to the matching
// extractor, or returns a leaf status when from is empty, unrecognised, or
// a container format with no wired extractor.
func (d *driver) Unknown(from *mio.Mio) Status {
	header, err := from.Header()
	if err != nil {
		return statusError("read header: %v", err)
	}

	ft := filetype.Identify(header)
	switch ft {
	case filetype.Empty:
		return statusUnnecessary()
	case filetype.Other, filetype.Binary, filetype.Source:
		return statusUnrecognised()
	}

	var (
		locals []LocalEntry
		xerr   error
	)

	switch ft {
	case filetype.Deb:
		locals, xerr = extractAR(from, d.stash)
	case filetype.Tar:
		locals, xerr = extractTar(from, d.stash)
	case filetype.Zip:
		locals, xerr = extractZip(from, d.stash)
	case filetype.Gz, filetype.Bz, filetype.Xz, filetype.Lz4:
		locals, xerr = extractStream(from, d.stash, ft)
	default:
		return statusUnsupported(ft)
	}

	if xerr != nil {
		return statusError("%s: %v", ft, xerr)
	}

	return statusSuccess(d.recurseAll(locals))
}

// recurseAll converts each LocalEntry into an Entry by recursing into its
// stashed payload, releasing the payload eagerly once it has been proven
// fully consumed.
func (d *driver) recurseAll(locals []LocalEntry) []Entry {
	entries := make([]Entry, 0, len(locals))
	for _, local := range locals {
		entries = append(entries, d.intoEntry(local))
	}
	return entries
}

func (d *driver) intoEntry(local LocalEntry) Entry {
	if local.Temp == nil {
		return Entry{Local: local, Children: statusUnnecessary()}
	}

	m, err := d.stash.Open(*local.Temp)
	if err != nil {
		return Entry{Local: local, Children: statusError("open stashed payload: %v", err)}
	}
	defer m.Close()

	children := d.Unknown(m)

	if children.FullyConsumed() {
		if err := d.stash.Release(*local.Temp); err != nil && d.log != nil {
			d.log.WithError(err).Warn("failed to release fully-consumed stash entry")
		}
		local.Temp = nil
	}

	return Entry{Local: local, Children: children}
}

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

// Package meta normalises the handful of per-format header shapes (ar, tar,
// gzip, zip, and the local filesystem) into one common record.
package meta

import (
	"archive/tar"
	"archive/zip"
	"errors"
	"io/fs"
	"time"

	"github.com/blakesmith/ar"

	"github.com/sabouaram/explode/pkg/clock"
)

// ErrMissingLinkName is returned when a tar symlink/hardlink header carries
// no link target.
var ErrMissingLinkName = errors.New("meta: link entry has no link name")

// ErrMissingDevice is returned when a tar device header carries no
// major/minor numbers.
var ErrMissingDevice = errors.New("meta: device entry has no major/minor")

// ItemKind is the closed set of filesystem object kinds Meta can describe.
type ItemKind uint8

const (
	// Unknown means the source format does not expose enough information
	// to classify the item.
	Unknown ItemKind = iota
	RegularFile
	Directory
	Fifo
	Socket
	SymbolicLink
	HardLink
	CharacterDevice
	BlockDevice
)

// ItemType tags an object's kind along with the payload a handful of kinds
// require (a link target, or a device's major/minor numbers).
type ItemType struct {
	Kind     ItemKind
	LinkName string
	Major    uint32
	Minor    uint32
}

// fromMode maps POSIX mode bits to an ItemKind using bits (mode>>12)&0xF.
func fromMode(mode uint32) ItemKind {
	switch (mode >> 12) & 0xF {
	case 0x8:
		return Directory
	case 0x4:
		return RegularFile
	case 0xA:
		return SymbolicLink
	case 0x1:
		return Fifo
	case 0xC:
		return Socket
	case 0x2:
		return CharacterDevice
	case 0x6:
		return BlockDevice
	default:
		return Unknown
	}
}

// Entity is a POSIX user or group, by id and (if known) name.
type Entity struct {
	ID   uint32
	Name string
}

// OwnershipKind distinguishes an unknown ownership record from one carrying
// POSIX user/group/mode data.
type OwnershipKind uint8

const (
	// OwnershipUnknown means the source format carries no ownership data.
	OwnershipUnknown OwnershipKind = iota
	// OwnershipPosix means User, Group and Mode are populated.
	OwnershipPosix
)

// Ownership is a tagged POSIX ownership record.
type Ownership struct {
	Kind  OwnershipKind
	User  *Entity
	Group *Entity
	Mode  uint32
}

// Meta is the normalised metadata record attached to every LocalEntry.
type Meta struct {
	ATime     clock.Nanos
	MTime     clock.Nanos
	CTime     clock.Nanos
	BTime     clock.Nanos
	ItemType  ItemType
	Ownership Ownership
	Xattrs    map[string][]byte
}

// JustStream is the Meta attached to a raw decompressed stream with no
// format-native header of its own (a bare gzip/bzip2/xz/lz4 payload).
func JustStream() Meta {
	return Meta{
		ItemType:  ItemType{Kind: RegularFile},
		Ownership: Ownership{Kind: OwnershipUnknown},
		Xattrs:    map[string][]byte{},
	}
}

// FromAR normalises one blakesmith/ar archive member header.
func FromAR(h *ar.Header) Meta {
	return Meta{
		MTime:     clock.FromTime(h.ModTime),
		ItemType:  ItemType{Kind: fromMode(uint32(h.Mode))},
		Ownership: Ownership{Kind: OwnershipPosix, User: &Entity{ID: uint32(h.Uid)}, Group: &Entity{ID: uint32(h.Gid)}, Mode: uint32(h.Mode)},
		Xattrs:    map[string][]byte{},
	}
}

// GzipHeader is the subset of a gzip stream's header this package needs;
// compress/gzip.Reader exposes exactly these fields after reading the
// header.
type GzipHeader struct {
	ModTime time.Time
	Name    string
}

// FromGzip normalises a gzip stream header.
func FromGzip(h GzipHeader) Meta {
	return Meta{
		MTime:     clock.FromTime(h.ModTime),
		ItemType:  ItemType{Kind: RegularFile},
		Ownership: Ownership{Kind: OwnershipUnknown},
		Xattrs:    map[string][]byte{},
	}
}

// FromTar normalises a stdlib archive/tar header.
func FromTar(h *tar.Header) (Meta, error) {
	kind := fromMode(uint32(h.Mode) | typeflagBits(h.Typeflag))
	it := ItemType{Kind: kind}

	switch kind {
	case SymbolicLink, HardLink:
		if h.Linkname == "" {
			return Meta{}, ErrMissingLinkName
		}
		it.LinkName = h.Linkname
	case CharacterDevice, BlockDevice:
		if h.Devmajor == 0 && h.Devminor == 0 {
			return Meta{}, ErrMissingDevice
		}
		it.Major = uint32(h.Devmajor)
		it.Minor = uint32(h.Devminor)
	}

	return Meta{
		MTime:    clock.FromTime(h.ModTime),
		ATime:    clock.FromTime(h.AccessTime),
		CTime:    clock.FromTime(h.ChangeTime),
		ItemType: it,
		Ownership: Ownership{
			Kind:  OwnershipPosix,
			User:  &Entity{ID: uint32(h.Uid), Name: h.Uname},
			Group: &Entity{ID: uint32(h.Gid), Name: h.Gname},
			Mode:  uint32(h.Mode),
		},
		Xattrs: map[string][]byte{},
	}, nil
}

// typeflagBits folds archive/tar's own Typeflag constant into the mode-bits
// shape fromMode expects, for the handful of types tar encodes only in
// Typeflag and never in Mode.
func typeflagBits(flag byte) uint32 {
	switch flag {
	case tar.TypeDir:
		return 0x8 << 12
	case tar.TypeSymlink:
		return 0xA << 12
	case tar.TypeLink:
		return 0xA << 12
	case tar.TypeFifo:
		return 0x1 << 12
	case tar.TypeChar:
		return 0x2 << 12
	case tar.TypeBlock:
		return 0x6 << 12
	default:
		return 0x4 << 12
	}
}

// FromZip normalises one archive/zip file entry.
func FromZip(f *zip.File) Meta {
	kind := RegularFile
	if len(f.Name) > 0 && f.Name[len(f.Name)-1] == '/' {
		kind = Directory
	}

	ownership := Ownership{Kind: OwnershipUnknown}
	if f.CreatorVersion>>8 == 3 { // UNIX host, per the zip appnote.
		mode := f.ExternalAttrs >> 16
		ownership = Ownership{Kind: OwnershipPosix, Mode: mode}
	}

	return Meta{
		MTime:     clock.FromTime(f.Modified),
		ItemType:  ItemType{Kind: kind},
		Ownership: ownership,
		Xattrs:    map[string][]byte{},
	}
}

// FromLocal normalises a local filesystem entry observed while walking a
// directory root. info must come from Lstat so symlinks are reported as
// such rather than followed.
func FromLocal(info fs.FileInfo, linkTarget string) Meta {
	it := ItemType{Kind: RegularFile}
	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		it = ItemType{Kind: SymbolicLink, LinkName: linkTarget}
	case info.IsDir():
		it = ItemType{Kind: Directory}
	}

	return Meta{
		MTime:     clock.FromTime(info.ModTime()),
		ItemType:  it,
		Ownership: Ownership{Kind: OwnershipUnknown},
		Xattrs:    map[string][]byte{},
	}
}

package filetype_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/explode/pkg/filetype"
)

func tarHeader(name string) []byte {
	buf := make([]byte, 512)
	copy(buf[0:100], name)
	copy(buf[100:108], "0000644\x00")
	copy(buf[257:263], "ustar\x00")
	buf[263] = '0'
	buf[264] = '0'
	return buf
}

var _ = Describe("Identify", func() {
	It("classifies an empty header as Empty", func() {
		Expect(filetype.Identify(nil)).To(Equal(filetype.Empty))
	})

	It("classifies a gzip header", func() {
		h := append([]byte{0x1f, 0x8b, 0x08, 0x00}, bytes.Repeat([]byte{0}, 20)...)
		Expect(filetype.Identify(h)).To(Equal(filetype.Gz))
	})

	It("classifies a zip header", func() {
		h := append([]byte{'P', 'K', 0x03, 0x04}, bytes.Repeat([]byte{0}, 152)...)
		Expect(filetype.Identify(h)).To(Equal(filetype.Zip))
	})

	It("classifies an xz header", func() {
		h := append([]byte{0xfd, '7', 'z', 'X', 'Z', 0x00}, bytes.Repeat([]byte{0}, 10)...)
		Expect(filetype.Identify(h)).To(Equal(filetype.Xz))
	})

	It("classifies a bzip2 header", func() {
		h := append([]byte("BZh9"), []byte{0x31, 0x41, 0x59, 0x26, 0x53, 0x59}...)
		h = append(h, bytes.Repeat([]byte{0}, 40)...)
		Expect(filetype.Identify(h)).To(Equal(filetype.Bz))
	})

	It("classifies an lz4 header", func() {
		h := []byte{0x04, 0x22, 0x4D, 0x18, 0x60}
		Expect(filetype.Identify(h)).To(Equal(filetype.Lz4))
	})

	It("classifies a deb ar header", func() {
		h := make([]byte, 80)
		copy(h, "!<arch>\ndebian-binary ")
		copy(h[66:70], "`\n2.")
		Expect(filetype.Identify(h)).To(Equal(filetype.Deb))
	})

	It("classifies a ustar header as Tar", func() {
		Expect(filetype.Identify(tarHeader("a.txt"))).To(Equal(filetype.Tar))
	})

	It("classifies a checksum-only pre-POSIX tar header as Tar", func() {
		h := make([]byte, 512)
		copy(h[0:100], "old.txt")
		// mode field left at zeros; checksum field must hold the correct octal sum.
		var sum uint32
		for i, b := range h {
			if i >= 148 && i < 156 {
				continue
			}
			sum += uint32(b)
		}
		sum += uint32(' ') * 8
		copy(h[148:156], []byte(octal(sum)))
		Expect(filetype.IsProbablyTar(h)).To(BeTrue())
	})

	It("classifies a NUL-containing header as Binary", func() {
		h := []byte("abc\x00def")
		Expect(filetype.Identify(h)).To(Equal(filetype.Binary))
	})

	It("classifies a shebang as Source", func() {
		h := []byte("#!/bin/sh\nset -e\necho hi\n")
		Expect(filetype.Identify(h)).To(Equal(filetype.Source))
	})

	It("classifies plain prose as Other", func() {
		h := []byte("hello\n")
		Expect(filetype.Identify(h)).To(Equal(filetype.Other))
	})
})

func octal(v uint32) string {
	out := make([]byte, 6)
	for i := 5; i >= 0; i-- {
		out[i] = byte('0' + v%8)
		v /= 8
	}
	return string(out) + "\x00 "
}

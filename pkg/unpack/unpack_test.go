package unpack_test

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/explode/pkg/unpack"
)

var _ = Describe("Into", func() {
	var root string

	BeforeEach(func() {
		root = GinkgoT().TempDir()
	})

	It("E1: reports an empty file as Unnecessary", func() {
		path := writeFile(GinkgoT(), root, "empty", nil)

		u, err := unpack.Into(path, root)
		Expect(err).NotTo(HaveOccurred())
		defer u.Close()

		Expect(u.Status().Kind).To(Equal(unpack.Unnecessary))
	})

	It("E2: reports plain text as Unrecognised", func() {
		path := writeFile(GinkgoT(), root, "hello.txt", []byte("hello\n"))

		u, err := unpack.Into(path, root)
		Expect(err).NotTo(HaveOccurred())
		defer u.Close()

		Expect(u.Status().Kind).To(Equal(unpack.Unrecognised))
	})

	It("E3: unpacks a tar with one file", func() {
		raw := buildTar(GinkgoT(), map[string]string{"a.txt": "hello\n"})
		path := writeFile(GinkgoT(), root, "a.tar", raw)

		u, err := unpack.Into(path, root)
		Expect(err).NotTo(HaveOccurred())
		defer u.Close()

		Expect(u.Status().Kind).To(Equal(unpack.Success))
		Expect(u.Status().Children).To(HaveLen(1))

		child := u.Status().Children[0]
		Expect(string(child.Local.Path)).To(Equal("a.txt"))
		Expect(child.Children.Kind).To(Equal(unpack.Unrecognised))
	})

	It("E4: flattens a gzipped tar to the same shape as a bare tar (embedded-tar heuristic)", func() {
		inner := buildTar(GinkgoT(), map[string]string{"a.txt": "hello\n"})
		path := writeFile(GinkgoT(), root, "a.tar.gz", buildGzip(GinkgoT(), inner))

		u, err := unpack.Into(path, root)
		Expect(err).NotTo(HaveOccurred())
		defer u.Close()

		Expect(u.Status().Kind).To(Equal(unpack.Success))
		Expect(u.Status().Children).To(HaveLen(1))
		Expect(string(u.Status().Children[0].Local.Path)).To(Equal("a.txt"))
	})

	It("E5: stashes a gzipped plain-text stream as one opaque leaf", func() {
		path := writeFile(GinkgoT(), root, "a.txt.gz", buildGzip(GinkgoT(), []byte("hello\n")))

		u, err := unpack.Into(path, root)
		Expect(err).NotTo(HaveOccurred())
		defer u.Close()

		Expect(u.Status().Kind).To(Equal(unpack.Success))
		Expect(u.Status().Children).To(HaveLen(1))
		Expect(u.Status().Children[0].Children.Kind).To(Equal(unpack.Unrecognised))
	})

	It("E6: unpacks a .deb's ar members and recurses into the compressed ones", func() {
		controlTar := buildGzip(GinkgoT(), buildTar(GinkgoT(), map[string]string{"control": "Package: demo\n"}))
		dataTar := buildTar(GinkgoT(), map[string]string{"./usr/bin/demo": "binary"})

		raw := buildAR(GinkgoT(), map[string]string{
			"debian-binary":   "2.0\n",
			"control.tar.gz":  string(controlTar),
			"data.tar":        string(dataTar),
		}, []string{"debian-binary", "control.tar.gz", "data.tar"})

		path := writeFile(GinkgoT(), root, "demo.deb", raw)

		u, err := unpack.Into(path, root)
		Expect(err).NotTo(HaveOccurred())
		defer u.Close()

		Expect(u.Status().Kind).To(Equal(unpack.Success))
		Expect(u.Status().Children).To(HaveLen(3))

		byName := map[string]unpack.Entry{}
		for _, e := range u.Status().Children {
			byName[string(e.Local.Path)] = e
		}

		Expect(byName["debian-binary"].Children.Kind).To(Equal(unpack.Unrecognised))
		Expect(byName["control.tar.gz"].Children.Kind).To(Equal(unpack.Success))
		Expect(byName["data.tar"].Children.Kind).To(Equal(unpack.Success))
	})

	It("E7: unpacks a zip with a directory and a nested file", func() {
		raw := buildZip(GinkgoT(), []string{"dir/"}, map[string]string{"dir/x": "abc"})
		path := writeFile(GinkgoT(), root, "a.zip", raw)

		u, err := unpack.Into(path, root)
		Expect(err).NotTo(HaveOccurred())
		defer u.Close()

		Expect(u.Status().Kind).To(Equal(unpack.Success))
		Expect(u.Status().Children).To(HaveLen(2))

		byName := map[string]unpack.Entry{}
		for _, e := range u.Status().Children {
			byName[string(e.Local.Path)] = e
		}

		Expect(byName["dir/"].Local.Temp).To(BeNil())
		Expect(byName["dir/x"].Local.Temp).NotTo(BeNil())
	})

	It("E8: flattens an lz4-wrapped tar the same way as gzip", func() {
		inner := buildTar(GinkgoT(), map[string]string{"a.txt": "hello\n"})
		path := writeFile(GinkgoT(), root, "a.tar.lz4", buildLz4(GinkgoT(), inner))

		u, err := unpack.Into(path, root)
		Expect(err).NotTo(HaveOccurred())
		defer u.Close()

		Expect(u.Status().Kind).To(Equal(unpack.Success))
		Expect(u.Status().Children).To(HaveLen(1))
		Expect(string(u.Status().Children[0].Local.Path)).To(Equal("a.txt"))
	})

	It("eagerly releases a stashed payload once it has children", func() {
		inner := buildGzip(GinkgoT(), buildTar(GinkgoT(), map[string]string{"a.txt": "hello\n"}))
		raw := buildTar(GinkgoT(), map[string]string{"inner.tar.gz": string(inner)})
		path := writeFile(GinkgoT(), root, "outer.tar", raw)

		u, err := unpack.Into(path, root)
		Expect(err).NotTo(HaveOccurred())
		defer u.Close()

		top := u.Status().Children
		Expect(top).To(HaveLen(1))
		Expect(top[0].Children.Kind).To(Equal(unpack.Success))
		Expect(top[0].Local.Temp).To(BeNil())
		Expect(top[0].Children.Children).To(HaveLen(1))
		Expect(top[0].Children.Children[0].Local.Temp).NotTo(BeNil())
	})

	It("keeps stashed payloads on disk when IntoPath is used instead of Close", func() {
		raw := buildTar(GinkgoT(), map[string]string{"a.txt": "hello\n"})
		path := writeFile(GinkgoT(), root, "a.tar", raw)

		u, err := unpack.Into(path, root)
		Expect(err).NotTo(HaveOccurred())

		dir := u.IntoPath()
		Expect(dir).NotTo(BeEmpty())
		Expect(u.Close()).To(Succeed())

		child := u.Status().Children[0]
		Expect(child.Local.Temp).NotTo(BeNil())
		_, statErr := os.Stat(u.PathOf(*child.Local.Temp))
		Expect(statErr).NotTo(HaveOccurred())
	})
})

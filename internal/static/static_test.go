package static_test

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/devserver/internal/static"
)

var _ = Describe("Anchor", func() {
	DescribeTable("re-anchors request paths at the root",
		func(in, expected string) {
			Expect(static.Anchor(in)).To(Equal(expected))
		},
		Entry("empty", "", "/"),
		Entry("plain", "/app.js", "/app.js"),
		Entry("missing slash", "css/site.css", "/css/site.css"),
		Entry("parent escape", "/../../etc/passwd", "/etc/passwd"),
		Entry("relative escape", "../secret", "/secret"),
		Entry("nested dots", "/a/./b/../c", "/a/c"),
	)
})

var _ = Describe("FileSystem", func() {
	var (
		memFs afero.Fs
		fsys  *static.FileSystem
	)

	BeforeEach(func() {
		memFs = afero.NewMemMapFs()
		Expect(afero.WriteFile(memFs, "/site/index.html", []byte("home"), 0644)).To(Succeed())
		Expect(afero.WriteFile(memFs, "/secret.txt", []byte("hidden"), 0644)).To(Succeed())
		fsys = static.NewFileSystemFrom(memFs, "/site")
	})

	It("resolves paths under the root", func() {
		p, err := fsys.Resolve("/index.html")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(filepath.FromSlash("/site/index.html")))
	})

	It("keeps escaping paths inside the root", func() {
		p, err := fsys.Resolve("/../secret.txt")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(filepath.FromSlash("/site/secret.txt")))
	})

	It("opens files under the root", func() {
		f, err := fsys.Open("/index.html")
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		body, err := io.ReadAll(f)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(Equal("home"))
	})

	It("never opens files outside the root", func() {
		_, err := fsys.Open("../secret.txt")
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, fs.ErrNotExist)).To(BeTrue())
	})

	It("reports its root", func() {
		Expect(fsys.Root()).To(Equal("/site"))
	})
})

var _ = Describe("Handler", func() {
	var (
		parent string
		root   string
		server *httptest.Server
	)

	get := func(p string) (int, string) {
		resp, err := http.Get(server.URL + p)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		return resp.StatusCode, string(body)
	}

	BeforeEach(func() {
		var err error
		parent, err = os.MkdirTemp("", "static-test-*")
		Expect(err).NotTo(HaveOccurred())

		root = filepath.Join(parent, "www")
		Expect(os.MkdirAll(filepath.Join(root, "docs"), 0755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(root, "index.html"), []byte("<h1>chat</h1>"), 0644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(root, "app.js"), []byte("console.log(1)"), 0644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(root, "docs", "readme.txt"), []byte("docs"), 0644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(parent, "outside.txt"), []byte("outside"), 0644)).To(Succeed())

		server = httptest.NewServer(static.Handler(root))
	})

	AfterEach(func() {
		server.Close()
		os.RemoveAll(parent)
	})

	It("serves existing files with 200", func() {
		status, body := get("/app.js")
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(Equal("console.log(1)"))
	})

	It("serves nested files", func() {
		status, body := get("/docs/readme.txt")
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(Equal("docs"))
	})

	It("serves index.html for the root directory", func() {
		status, body := get("/")
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(Equal("<h1>chat</h1>"))
	})

	It("lists directories without an index", func() {
		status, body := get("/docs/")
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring("readme.txt"))
	})

	It("returns 404 for missing files", func() {
		status, _ := get("/missing.html")
		Expect(status).To(Equal(http.StatusNotFound))
	})

	It("does not serve files above the root", func() {
		status, body := get("/%2e%2e/outside.txt")
		Expect(status).To(Equal(http.StatusNotFound))
		Expect(body).NotTo(ContainSubstring("outside"))
	})
})

package render

import (
	"archive/tar"
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/refileproj/refile/internal/cache"
	"github.com/refileproj/refile/internal/model"
	"github.com/refileproj/refile/internal/worker"
)

func testConverter(t *testing.T) *Converter {
	t.Helper()
	store, err := cache.NewStore(t.TempDir(), false, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	limiter := worker.NewLimiter(0, 0) // unlimited in tests
	return NewConverter(store, limiter, model.ToolsConfig{}, false)
}

func writeInput(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readRendition(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestConverter_Text_PlainText(t *testing.T) {
	c := testConverter(t)
	src := writeInput(t, "note.txt", []byte("Rennes, le 3 janvier 2018\ncontenu\n"))

	out, ok := c.Text(context.Background(), src, model.FileType{Extension: "txt-ascii", Encoding: "ascii"})
	if !ok {
		t.Fatal("no rendition")
	}
	if got := readRendition(t, out); !strings.Contains(got, "3 janvier 2018") {
		t.Errorf("rendition = %q", got)
	}
}

func TestConverter_Text_Latin1Transcoded(t *testing.T) {
	c := testConverter(t)
	// "réunion" in ISO-8859-1.
	src := writeInput(t, "note.txt", []byte("r\xe9union pr\xe9vue\n"))

	out, ok := c.Text(context.Background(), src, model.FileType{Extension: "txt-iso-8859-1", Encoding: "iso-8859-1"})
	if !ok {
		t.Fatal("no rendition")
	}
	if got := readRendition(t, out); !strings.Contains(got, "réunion prévue") {
		t.Errorf("rendition = %q, want UTF-8 text", got)
	}
}

func TestConverter_Text_Mailbox(t *testing.T) {
	c := testConverter(t)
	mail := strings.Join([]string{
		"Message-ID: <1@example.org>",
		"Date: Mon, 3 Nov 2018 10:00:00 +0100",
		"Subject: compte rendu",
		"",
		"Bonjour,",
	}, "\n")
	src := writeInput(t, "mail.bin", []byte(mail))

	out, ok := c.Text(context.Background(), src, model.FileType{Extension: "mbox", Encoding: "ascii"})
	if !ok {
		t.Fatal("no rendition")
	}
	got := readRendition(t, out)
	first, _, _ := strings.Cut(got, "\n")
	if first != "MailBox Date: Mon, 3 Nov 2018 10:00:00 +0100" {
		t.Errorf("first line = %q, want promoted Date header", first)
	}
}

func TestConverter_Text_ZipListing(t *testing.T) {
	c := testConverter(t)

	path := filepath.Join(t.TempDir(), "archive.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	hdr := &zip.FileHeader{Name: "rapport/compte_rendu.doc"}
	hdr.Modified = time.Date(2015, time.April, 20, 12, 0, 0, 0, time.UTC)
	w, err := zw.CreateHeader(hdr)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	out, ok := c.Text(context.Background(), path, model.FileType{Extension: "zip"})
	if !ok {
		t.Fatal("no rendition")
	}
	got := readRendition(t, out)
	first, _, _ := strings.Cut(got, "\n")
	if !strings.Contains(first, "2015/4/20") {
		t.Errorf("first line = %q, want the member date", first)
	}
	if !strings.Contains(got, "rapport/compte_rendu.doc") {
		t.Errorf("rendition = %q, want member names", got)
	}
}

func TestConverter_Text_TarListing(t *testing.T) {
	c := testConverter(t)

	path := filepath.Join(t.TempDir(), "archive.tar")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	tw := tar.NewWriter(f)
	if err := tw.WriteHeader(&tar.Header{Name: "photos/vacances.jpg", Size: 1, Mode: 0o644}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write([]byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	out, ok := c.Text(context.Background(), path, model.FileType{Extension: "tar"})
	if !ok {
		t.Fatal("no rendition")
	}
	if got := readRendition(t, out); !strings.Contains(got, "photos/vacances.jpg") {
		t.Errorf("rendition = %q", got)
	}
}

func TestConverter_Text_HTML(t *testing.T) {
	c := testConverter(t)
	page := `<html><head><title>Compte rendu 2018</title><script>var x=1;</script></head>
<body><h1>Réunion du conseil</h1><p>Rennes, le 3 janvier 2018</p></body></html>`
	src := writeInput(t, "page.html", []byte(page))

	out, ok := c.Text(context.Background(), src, model.FileType{Extension: "html"})
	if !ok {
		t.Fatal("no rendition")
	}
	got := readRendition(t, out)
	if !strings.Contains(got, "Compte rendu 2018") || !strings.Contains(got, "Réunion du conseil") {
		t.Errorf("rendition = %q", got)
	}
	if strings.Contains(got, "var x=1") {
		t.Errorf("rendition leaked script content: %q", got)
	}
}

func TestConverter_Text_UsesCachedRendition(t *testing.T) {
	c := testConverter(t)
	src := writeInput(t, "note.txt", []byte("premier contenu\n"))
	ft := model.FileType{Extension: "txt-ascii", Encoding: "ascii"}

	first, ok := c.Text(context.Background(), src, ft)
	if !ok {
		t.Fatal("no rendition")
	}

	// Remove the source: the second call must come from the cache.
	if err := os.Remove(src); err != nil {
		t.Fatal(err)
	}
	second, ok := c.Text(context.Background(), src, ft)
	if !ok {
		t.Fatal("no cached rendition")
	}
	if second != first {
		t.Errorf("cached path %q != original %q", second, first)
	}
}

func TestConverter_Text_UnsupportedType(t *testing.T) {
	c := testConverter(t)
	src := writeInput(t, "data.xyz", []byte("binary"))

	if out, ok := c.Text(context.Background(), src, model.FileType{Extension: "xyz"}); ok {
		t.Errorf("got rendition %q for unsupported type", out)
	}
}

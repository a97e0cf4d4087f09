package filetype

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeTags map[string]string

func (f fakeTags) Tag(path, name string) (string, bool) {
	v, ok := f[name]
	return v, ok && v != ""
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestClassifier_Classify_TagWins(t *testing.T) {
	c := NewClassifier(fakeTags{"FileTypeExtension": "PDF"})

	ft := c.Classify(writeFile(t, "recovered.bin", "%PDF-1.4 not really"))
	if ft.Extension != "pdf" {
		t.Errorf("Extension = %q, want pdf", ft.Extension)
	}
}

func TestClassifier_Classify_TextEncoding(t *testing.T) {
	c := NewClassifier(fakeTags{"FileTypeExtension": "txt"})

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"ascii", "plain ascii content\n", "txt-ascii"},
		{"utf8", "contenu accentué\n", "txt-utf-8"},
		{"latin1", "r\xe9union pr\xe9vue\n", "txt-iso-8859-1"},
	}

	for _, tt := range tests {
		ft := c.Classify(writeFile(t, tt.name+".txt", tt.content))
		if ft.Extension != tt.want {
			t.Errorf("%s: Extension = %q, want %q", tt.name, ft.Extension, tt.want)
		}
		if !ft.IsText() {
			t.Errorf("%s: IsText() = false", tt.name)
		}
	}
}

func TestClassifier_Classify_Mailbox(t *testing.T) {
	c := NewClassifier(fakeTags{"FileTypeExtension": "txt"})

	mail := strings.Join([]string{
		"Received: from smtp.example.org",
		"Message-ID: <1234@example.org>",
		"Date: Mon, 3 Nov 2018 10:00:00 +0100",
		"Subject: compte rendu",
		"",
		"Bonjour,",
	}, "\n")

	ft := c.Classify(writeFile(t, "mail.bin", mail))
	if ft.Extension != "mbox" {
		t.Errorf("Extension = %q, want mbox", ft.Extension)
	}
}

func TestClassifier_Classify_FilenameFallback(t *testing.T) {
	// No tag and content sniffing yields nothing usable for an empty file,
	// so the filename extension is the last resort.
	c := NewClassifier(fakeTags{})

	ft := c.Classify(filepath.Join(t.TempDir(), "missing.ods"))
	if ft.Extension != "ods" {
		t.Errorf("Extension = %q, want ods", ft.Extension)
	}
}

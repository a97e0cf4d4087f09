// Package filetype classifies recovered files by content. Filenames and
// extensions from bulk recovery are unreliable, so classification asks the
// file's own metadata first and falls back to content sniffing.
package filetype

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/refileproj/refile/internal/metadata"
	"github.com/refileproj/refile/internal/model"
)

// Classifier determines the normalized file type of a recovered file.
type Classifier struct {
	tags metadata.TagSource
}

// NewClassifier builds a classifier over the given tag source.
func NewClassifier(tags metadata.TagSource) *Classifier {
	return &Classifier{tags: tags}
}

// Classify returns the normalized type for path. The exiftool
// FileTypeExtension tag wins when present; otherwise the content is
// sniffed. Plain text is probed further for its encoding and for mailbox
// markers.
func (c *Classifier) Classify(path string) model.FileType {
	if ext, ok := c.tags.Tag(path, "FileTypeExtension"); ok && ext != "" {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "txt" {
			return model.FileType{Extension: ext}
		}
		// Text still needs an encoding probe for conversion later.
		return c.classifyText(path)
	}

	if m, err := mimetype.DetectFile(path); err == nil {
		if strings.HasPrefix(m.String(), "text/") {
			return c.classifyText(path)
		}
		if ext := strings.TrimPrefix(m.Extension(), "."); ext != "" {
			return model.FileType{Extension: ext}
		}
	}

	// Last resort: trust whatever extension the filename carries.
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return model.FileType{Extension: ext}
}

// classifyText decides between plain text variants and mailboxes.
func (c *Classifier) classifyText(path string) model.FileType {
	encoding := detectEncoding(path)
	if isMailbox(path) {
		return model.FileType{Extension: "mbox", Encoding: encoding}
	}
	return model.FileType{Extension: "txt-" + encoding, Encoding: encoding}
}

// detectEncoding takes a cheap sample-based guess: pure ASCII, UTF-8, or
// Latin-1 as the catch-all for high bytes that are not valid UTF-8.
func detectEncoding(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return "ascii"
	}
	defer f.Close()

	buf := make([]byte, 64*1024)
	n, _ := f.Read(buf)
	sample := buf[:n]

	ascii := true
	for _, b := range sample {
		if b >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return "ascii"
	}
	if utf8.Valid(sample) {
		return "utf-8"
	}
	return "iso-8859-1"
}

// isMailbox scans for mail headers near the top of the file.
func isMailbox(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for i := 0; i < 200 && scanner.Scan(); i++ {
		line := scanner.Text()
		if strings.HasPrefix(line, "Received: from ") ||
			strings.HasPrefix(line, "Message-ID:") ||
			strings.HasPrefix(line, "Message-Id:") {
			return true
		}
	}
	return false
}

package render

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// textToUTF8 copies a plain text file into the cache, transcoding Latin-1
// to UTF-8 when the encoding probe says so. ASCII and UTF-8 copy verbatim.
func (c *Converter) textToUTF8(path, key, encoding string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}

	if encoding == "iso-8859-1" {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err == nil {
			data = decoded
		}
		// On a decode failure the raw bytes go through; a partly garbled
		// rendition still carries dates and titles.
	}

	return c.store.Put(key, data)
}

// mboxToText renders a mailbox: the first Date: header is promoted to the
// first line so the date matcher sees it inside the scan window, followed
// by the mail text itself.
func (c *Converter) mboxToText(path, key string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open mailbox: %w", err)
	}
	defer f.Close()

	var date string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var body strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if date == "" && strings.HasPrefix(line, "Date: ") {
			date = line
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}

	out := fmt.Sprintf("MailBox %s\n%s", date, body.String())
	return c.store.Put(key, []byte(out))
}

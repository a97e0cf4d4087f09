package render

import (
	"archive/tar"
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"
)

// zipListing renders a zip archive as its member list. The first member's
// modification date is appended to the first line, where the date matcher
// will find it: archives usually postdate their newest member by little.
func (c *Converter) zipListing(path, key string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	if len(r.File) == 0 {
		return "", fmt.Errorf("empty zip archive")
	}

	var b strings.Builder
	first := r.File[0]
	mod := first.Modified
	fmt.Fprintf(&b, "%s %d/%d/%d\n", first.Name, mod.Year(), int(mod.Month()), mod.Day())
	for _, f := range r.File {
		b.WriteString(f.Name)
		b.WriteByte('\n')
	}
	return c.store.Put(key, []byte(b.String()))
}

// tarListing renders a tar archive as its member list.
func (c *Converter) tarListing(path, key string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open tar: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	tr := tar.NewReader(f)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Truncated archives are common after recovery; keep what we got.
			break
		}
		b.WriteString(hdr.Name)
		b.WriteByte('\n')
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no readable tar entries")
	}
	return c.store.Put(key, []byte(b.String()))
}

package metadata

import (
	"os/exec"
	"strings"
)

// ExifTool is a TagSource backed by the exiftool binary. Each lookup is one
// subprocess invocation; failures of any kind surface as a missing tag,
// never as an error.
type ExifTool struct {
	bin string
}

// NewExifTool returns a tag source using "exiftool" from PATH.
func NewExifTool() *ExifTool {
	return &ExifTool{bin: "exiftool"}
}

// Tag looks up a single tag value, with date-typed tags rendered in
// "YYYY:MM:DD HH:MM:SS" form so the resolver's first layout matches them.
func (e *ExifTool) Tag(path, name string) (string, bool) {
	out, err := exec.Command(e.bin, "-"+name, "-s3", "-d", "%Y:%m:%d %H:%M:%S", path).Output()
	if err != nil {
		return "", false
	}
	value := strings.TrimSpace(string(out))
	if value == "" {
		return "", false
	}
	// Multiple values for one tag come back one per line; the first group
	// wins, matching exiftool's own precedence.
	if i := strings.IndexByte(value, '\n'); i >= 0 {
		value = strings.TrimSpace(value[:i])
	}
	return value, true
}

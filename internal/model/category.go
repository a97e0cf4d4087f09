package model

import "strings"

// Category groups file types that share metadata tag priorities.
type Category string

const (
	CategoryDefault  Category = "default"  // Anything without specialized tags
	CategoryPDF      Category = "pdf"      // PDF and Illustrator drawings
	CategoryArchive  Category = "archive"  // Zip archives
	CategoryDocument Category = "document" // OpenDocument text/spreadsheets
)

// FileType is the normalized type of a recovered file, independent of its
// (often missing or wrong) filename extension. For plain text files the
// detected encoding is carried along, e.g. "txt-utf-8".
type FileType struct {
	Extension string `json:"extension"`          // "pdf", "zip", "txt-utf-8", "mbox", ...
	Encoding  string `json:"encoding,omitempty"` // Only set for text files
}

// Category returns the metadata category for this file type.
func (t FileType) Category() Category {
	switch t.Extension {
	case "pdf", "ai":
		return CategoryPDF
	case "zip":
		return CategoryArchive
	case "ods", "odt":
		return CategoryDocument
	default:
		return CategoryDefault
	}
}

// IsText reports whether the type is a plain text variant.
func (t FileType) IsText() bool {
	return strings.HasPrefix(t.Extension, "txt-")
}

// OutputExtension returns the extension to use when renaming the file.
// Text variants collapse to plain "txt".
func (t FileType) OutputExtension() string {
	if t.IsText() {
		return "txt"
	}
	return t.Extension
}

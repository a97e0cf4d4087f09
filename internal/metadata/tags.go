package metadata

import "github.com/refileproj/refile/internal/model"

// searchTags returns the metadata tag names worth consulting for a file
// category, in priority order. Filesystem modify-time tags are deliberately
// absent: bulk recovery resets them, so they date the recovery, not the
// document.
func searchTags(cat model.Category) []string {
	switch cat {
	case model.CategoryPDF:
		// The PDF-namespaced tag first: PostScript CreateDate values leak
		// through in ambiguous short formats, the PDF group is reliable.
		return []string{"PDF:ModifyDate", "ModifyDate", "CreateDate"}
	case model.CategoryArchive:
		return []string{"ModifyDate", "CreateDate", "ZipModifyDate"}
	case model.CategoryDocument:
		return []string{"ModifyDate", "CreateDate", "Date", "Creation-date"}
	default:
		return []string{"ModifyDate", "CreateDate"}
	}
}

// tagLayout pairs a Go time layout with whether it carries a 2-digit year
// needing the century pivot.
type tagLayout struct {
	layout    string
	shortYear bool
}

// Ordered date formats tag values are tried against. Non-padded day/month
// verbs accept both "09/01/17" and "9/1/17".
var tagLayouts = []tagLayout{
	{"2006:1:2", false},
	{"2/1/06", true},
	{"2/1/2006", false},
	{"2 January 2006", false},
}

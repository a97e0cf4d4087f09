package organize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/refileproj/refile/internal/model"
)

type fakeRecorder struct {
	records [][3]string
}

func (f *fakeRecorder) Record(source, destination, title string) error {
	f.records = append(f.records, [3]string{source, destination, title})
	return nil
}

func writeSource(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(out string) model.OrganizeConfig {
	return model.OrganizeConfig{OutputDir: out, TitleMaxLen: 100}
}

func TestOrganizer_Place_YearMonthHierarchy(t *testing.T) {
	out := t.TempDir()
	rec := &fakeRecorder{}
	o := NewOrganizer(testConfig(out), rec, false)
	src := writeSource(t, "f1034056.pdf")

	res := model.InferenceResult{Year: "2018", Month: "05", Title: "Convention collective"}
	dst, err := o.Place(src, res, model.FileType{Extension: "pdf"})
	if err != nil {
		t.Fatal(err)
	}

	want := filepath.Join(out, "2018", "05", "Convention_collective.pdf")
	if dst != want {
		t.Errorf("dst = %q, want %q", dst, want)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Errorf("destination missing: %v", err)
	}
	if len(rec.records) != 1 || rec.records[0][1] != dst {
		t.Errorf("recorder got %v", rec.records)
	}
	// Source untouched.
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source gone: %v", err)
	}
}

func TestOrganizer_Place_UnknownDate(t *testing.T) {
	out := t.TempDir()
	o := NewOrganizer(testConfig(out), nil, false)
	src := writeSource(t, "mystery.bin")

	res := model.UnknownResult("sans date")
	dst, err := o.Place(src, res, model.FileType{Extension: "bin"})
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(out, "Unknown_year", "sans_date.bin")
	if dst != want {
		t.Errorf("dst = %q, want %q", dst, want)
	}
}

func TestOrganizer_Place_UniqueSuffix(t *testing.T) {
	out := t.TempDir()
	o := NewOrganizer(testConfig(out), nil, false)

	res := model.InferenceResult{Year: "2018", Month: "05", Title: "rapport"}
	ft := model.FileType{Extension: "pdf"}

	first, err := o.Place(writeSource(t, "a.pdf"), res, ft)
	if err != nil {
		t.Fatal(err)
	}
	second, err := o.Place(writeSource(t, "b.pdf"), res, ft)
	if err != nil {
		t.Fatal(err)
	}
	third, err := o.Place(writeSource(t, "c.pdf"), res, ft)
	if err != nil {
		t.Fatal(err)
	}

	if filepath.Base(first) != "rapport.pdf" {
		t.Errorf("first = %q", first)
	}
	if filepath.Base(second) != "rapport_01.pdf" {
		t.Errorf("second = %q", second)
	}
	if filepath.Base(third) != "rapport_02.pdf" {
		t.Errorf("third = %q", third)
	}
}

func TestOrganizer_Place_DryRun(t *testing.T) {
	out := t.TempDir()
	cfg := testConfig(out)
	cfg.DryRun = true
	rec := &fakeRecorder{}
	o := NewOrganizer(cfg, rec, false)
	src := writeSource(t, "a.pdf")

	res := model.InferenceResult{Year: "2018", Month: "05", Title: "rapport"}
	dst, err := o.Place(src, res, model.FileType{Extension: "pdf"})
	if err != nil {
		t.Fatal(err)
	}
	if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
		t.Error("dry run wrote a file")
	}
	if len(rec.records) != 0 {
		t.Error("dry run recorded a placement")
	}
}

func TestOrganizer_Place_KeepOriginalName(t *testing.T) {
	out := t.TempDir()
	cfg := testConfig(out)
	cfg.Keep = true
	o := NewOrganizer(cfg, nil, false)
	src := writeSource(t, "IMG 2034 (copie).JPG")

	res := model.InferenceResult{Year: "2019", Month: "07", Title: "ignoré en mode keep"}
	dst, err := o.Place(src, res, model.FileType{Extension: "jpg"})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(dst) != "IMG 2034 (copie).JPG" {
		t.Errorf("keep mode renamed the file: %q", dst)
	}
}

func TestOrganizer_Place_TitleTruncatedAndCollapsed(t *testing.T) {
	out := t.TempDir()
	cfg := testConfig(out)
	cfg.TitleMaxLen = 10
	o := NewOrganizer(cfg, nil, false)
	src := writeSource(t, "a.txt")

	res := model.InferenceResult{Year: "2018", Month: "05", Title: "très   long   titre   de   document"}
	dst, err := o.Place(src, res, model.FileType{Extension: "txt-utf-8"})
	if err != nil {
		t.Fatal(err)
	}
	base := filepath.Base(dst)
	if base != "tres_long_.txt" {
		t.Errorf("base = %q, want %q", base, "tres_long_.txt")
	}
}

func TestOrganizer_Place_EmptyTitleFallsBackToStem(t *testing.T) {
	out := t.TempDir()
	o := NewOrganizer(testConfig(out), nil, false)
	src := writeSource(t, "f1034056.bin")

	res := model.InferenceResult{Year: "2018", Month: "05", Title: ""}
	dst, err := o.Place(src, res, model.FileType{Extension: "bin"})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(dst) != "f1034056.bin" {
		t.Errorf("base = %q, want stem fallback", filepath.Base(dst))
	}
}

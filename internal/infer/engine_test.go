package infer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/refileproj/refile/internal/datescan"
	"github.com/refileproj/refile/internal/filetype"
	"github.com/refileproj/refile/internal/metadata"
	"github.com/refileproj/refile/internal/model"
	"github.com/refileproj/refile/internal/title"
)

// fakeTags serves fixed metadata tags.
type fakeTags map[string]string

func (f fakeTags) Tag(path, name string) (string, bool) {
	v, ok := f[name]
	return v, ok && v != ""
}

// fakeProducer writes the configured text as the rendition for every file
// and counts how often it is asked to.
type fakeProducer struct {
	dir   string
	text  string
	calls int
}

func (f *fakeProducer) Text(ctx context.Context, path string, ft model.FileType) (string, bool) {
	f.calls++
	if f.text == "" {
		return "", false
	}
	out := filepath.Join(f.dir, "rendition.txt")
	if err := os.WriteFile(out, []byte(f.text), 0o644); err != nil {
		return "", false
	}
	return out, true
}

func testEngine(t *testing.T, tags fakeTags, rendition string) (*Engine, *fakeProducer) {
	t.Helper()
	cfg := model.DatesConfig{
		MaxDate:   time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC),
		MinYear:   1900,
		Languages: []string{"fr", "en"},
		ScanLines: 200,
	}
	scanner := datescan.New(cfg)
	producer := &fakeProducer{dir: t.TempDir(), text: rendition}
	engine := NewEngine(
		filetype.NewClassifier(tags),
		metadata.NewResolver(tags, scanner),
		producer,
		scanner,
		title.NewExtractor(cfg),
		cfg.ScanLines,
		false,
	)
	return engine, producer
}

func TestEngine_Infer_MetadataWins(t *testing.T) {
	tags := fakeTags{
		"FileTypeExtension": "pdf",
		"ModifyDate":        "2016:02:11 08:00:00",
		"PDF:ModifyDate":    "2016:02:11 08:00:00",
		"Title":             "Convention collective 2016",
	}
	e, _ := testEngine(t, tags, "du texte sans rien d'utile")

	res, ft := e.Infer(context.Background(), "/recovered/f1034056.pdf")
	if ft.Extension != "pdf" {
		t.Errorf("type = %q, want pdf", ft.Extension)
	}
	if res.Year != "2016" || res.Month != "02" {
		t.Errorf("date = %s/%s, want 2016/02", res.Year, res.Month)
	}
	if res.Title != "Convention collective 2016" {
		t.Errorf("title = %q", res.Title)
	}
}

func TestEngine_Infer_MeaningfulStemKept(t *testing.T) {
	tags := fakeTags{
		"FileTypeExtension": "pdf",
		"PDF:ModifyDate":    "2016:02:11 08:00:00",
		"Title":             "Convention collective",
	}
	e, _ := testEngine(t, tags, "")

	res, _ := e.Infer(context.Background(), "/recovered/factures avril.pdf")
	if res.Title != "factures avril-Convention collective" {
		t.Errorf("title = %q, want stem prefix joined with a hyphen", res.Title)
	}
}

func TestEngine_Infer_DateFromTitle(t *testing.T) {
	// No metadata date; the composed title itself carries the date.
	tags := fakeTags{
		"FileTypeExtension": "pdf",
		"Title":             "Bulletin de mai 2017",
	}
	e, _ := testEngine(t, tags, "")

	res, _ := e.Infer(context.Background(), "/recovered/f1034056.pdf")
	if res.Year != "2017" || res.Month != "05" {
		t.Errorf("date = %s/%s, want 2017/05", res.Year, res.Month)
	}
}

func TestEngine_Infer_DateFromRendition(t *testing.T) {
	// The title carries no date, so the chain must fall through to the
	// rendition aggregate.
	tags := fakeTags{
		"FileTypeExtension": "pdf",
		"Title":             "Demande de subvention",
	}
	rendition := strings.Join([]string{
		"Mairie de Rennes",
		"Rennes, le 3 janvier 2018",
		"Objet: demande de subvention",
	}, "\n")
	e, _ := testEngine(t, tags, rendition)

	res, _ := e.Infer(context.Background(), "/recovered/f1034056.pdf")
	if res.Year != "2018" || res.Month != "01" {
		t.Errorf("date = %s/%s, want 2018/01", res.Year, res.Month)
	}
	// Numeric-only stem is dropped; the tag title stands alone.
	if res.Title != "Demande de subvention" {
		t.Errorf("title = %q", res.Title)
	}
}

func TestEngine_Infer_TitleExtractedFromRendition(t *testing.T) {
	tags := fakeTags{"FileTypeExtension": "pdf"}
	rendition := strings.Join([]string{
		"Mairie de Rennes",
		"Service urbanisme et habitat",
		"Objet: demande de permis de construire",
	}, "\n")
	e, _ := testEngine(t, tags, rendition)

	res, _ := e.Infer(context.Background(), "/recovered/f1034056.pdf")
	if strings.Contains(res.Title, "f1034056") {
		t.Errorf("title %q kept a meaningless stem", res.Title)
	}
	if !strings.Contains(res.Title, "Mairie de Rennes") {
		t.Errorf("title = %q, want extracted text", res.Title)
	}
}

func TestEngine_Infer_AuthorPadsShortTitle(t *testing.T) {
	tags := fakeTags{
		"FileTypeExtension": "pdf",
		"Title":             "Note interne",
		"Author":            "Service RH",
		"Creator":           "Adobe InDesign CC",
		"PDF:ModifyDate":    "2016:02:11 08:00:00",
	}
	e, _ := testEngine(t, tags, "")

	res, _ := e.Infer(context.Background(), "/recovered/f1034056.pdf")
	// "Note interne" is under 20 characters, so the author joins; it is
	// over 5, so the creator stays out.
	if res.Title != "Note interne-Service RH" {
		t.Errorf("title = %q", res.Title)
	}
}

func TestEngine_Infer_NothingFound(t *testing.T) {
	tags := fakeTags{"FileTypeExtension": "pdf"}
	e, _ := testEngine(t, tags, "")

	res, _ := e.Infer(context.Background(), "/recovered/f1034056.pdf")
	if res.Known() {
		t.Errorf("result %+v, want unknown year", res)
	}
	if res.Year != model.UnknownYear || res.Month != "" {
		t.Errorf("result = %+v", res)
	}
}

func TestEngine_Infer_MetadataNeedsNoRendition(t *testing.T) {
	// With the title and date both answered by tags, conversion and OCR
	// must never run.
	tags := fakeTags{
		"FileTypeExtension": "pdf",
		"Title":             "Convention collective 2016",
		"PDF:ModifyDate":    "2016:02:11 08:00:00",
	}
	e, producer := testEngine(t, tags, "du texte sans rien d'utile")

	res, _ := e.Infer(context.Background(), "/recovered/f1034056.pdf")
	if res.Year != "2016" || res.Month != "02" {
		t.Errorf("date = %s/%s, want 2016/02", res.Year, res.Month)
	}
	if producer.calls != 0 {
		t.Errorf("rendition produced %d time(s) although tags answered everything", producer.calls)
	}
}

func TestEngine_Infer_RenditionProducedOnce(t *testing.T) {
	// No Title tag and no date tags: both the title extractor and the date
	// aggregator need the rendition, but it is produced a single time.
	tags := fakeTags{"FileTypeExtension": "pdf"}
	e, producer := testEngine(t, tags, "Mairie de Rennes\nService urbanisme et habitat\nObjet: demande de permis de construire")

	e.Infer(context.Background(), "/recovered/f1034056.pdf")
	if producer.calls != 1 {
		t.Errorf("rendition produced %d time(s), want 1", producer.calls)
	}
}

func TestEngine_Infer_BareYearMeansUnknownMonth(t *testing.T) {
	tags := fakeTags{"FileTypeExtension": "pdf"}
	e, _ := testEngine(t, tags, "exercice 2011\nsans autre precision")

	res, _ := e.Infer(context.Background(), "/recovered/f1034056.pdf")
	if res.Year != "2011" || res.Month != model.UnknownMonth {
		t.Errorf("result = %s/%s, want 2011/%s", res.Year, res.Month, model.UnknownMonth)
	}
}

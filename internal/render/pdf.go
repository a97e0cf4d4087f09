package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// minUsefulRendition is the size below which a pdftotext output is assumed
// to be an empty page (scanned documents yield a few whitespace bytes).
const minUsefulRendition = 20

// pdfToText renders the first page of a PDF (or Illustrator file). The
// cheap path is pdftotext; when its output is too small the document is
// probably a scan, and the OCR chain takes over: a pre-seeded "<key>_ocr.txt"
// or "<key>_ocr.pdf" in the cache dir wins, else the page is rasterized with
// mutool and fed to tesseract.
func (c *Converter) pdfToText(ctx context.Context, path, key string) (string, error) {
	out := c.store.Path(key)

	if !c.tools.ForcePDFOCR {
		if _, err := os.Stat(out); err != nil {
			c.logf("generating %s", out)
			if err := c.runTool(ctx, "pdftotext", "-l", "1", path, out); err != nil {
				c.logf("pdftotext failed, continuing: %v", err)
			}
		}
		if info, err := os.Stat(out); err == nil && info.Size() > minUsefulRendition {
			return out, nil
		}
	}

	ocrTxt := c.store.Aux(key, "_ocr.txt")
	if _, err := os.Stat(ocrTxt); err == nil {
		data, err := os.ReadFile(ocrTxt)
		if err != nil {
			return "", fmt.Errorf("read pre-seeded OCR text: %w", err)
		}
		return c.store.Put(key, data)
	}

	ocrPDF := c.store.Aux(key, "_ocr.pdf")
	if _, err := os.Stat(ocrPDF); err == nil {
		c.logf("generating %s from pre-seeded OCR pdf", ocrTxt)
		if err := c.runTool(ctx, "pdftotext", "-l", "1", ocrPDF, ocrTxt); err == nil {
			if data, err := os.ReadFile(ocrTxt); err == nil {
				return c.store.Put(key, data)
			}
		}
	}

	c.logf("trying OCR on %s, please wait", path)
	if err := c.pdfOCR(ctx, path, out); err != nil {
		return "", err
	}
	if _, err := os.Stat(out); err != nil {
		return "", fmt.Errorf("OCR produced no rendition: %w", err)
	}
	return out, nil
}

// pdfOCR rasterizes the first PDF page at 300dpi and runs OCR on it.
func (c *Converter) pdfOCR(ctx context.Context, path, out string) error {
	tmp, err := os.MkdirTemp("", "refile-pdf-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	// mutool appends the page number to the output name: page.png -> page1.png.
	target := filepath.Join(tmp, "page.png")
	rendered := filepath.Join(tmp, "page1.png")
	if err := c.runTool(ctx, "mutool", "convert", "-o", target, "-O", "resolution=300", path, "1"); err != nil {
		return err
	}
	if _, err := os.Stat(rendered); err != nil {
		return fmt.Errorf("mutool produced no image: %w", err)
	}
	return c.ocr(ctx, rendered, out)
}

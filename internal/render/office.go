package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// officeToText converts a legacy word-processor document with headless
// libreoffice. catdoc would be lighter but leaks memory on damaged .doc
// files, which recovered sets are full of.
func (c *Converter) officeToText(ctx context.Context, path, key string) (string, error) {
	err := c.runTool(ctx, "libreoffice", "--headless",
		"--convert-to", "txt:Text (encoded):UTF8",
		"--outdir", c.store.Dir(), path)
	if err != nil {
		return "", err
	}
	return c.claimConverted(path, key, ".txt")
}

// sheetToText converts a spreadsheet to CSV (keeps cell separators, where
// dates tend to live), falling back to a plain text conversion.
func (c *Converter) sheetToText(ctx context.Context, path, key string) (string, error) {
	err := c.runTool(ctx, "libreoffice", "--headless",
		"--convert-to", "csv:Text - txt - csv (StarCalc):32,ANSI,76",
		"--outdir", c.store.Dir(), path)
	if err == nil {
		if out, err := c.claimConverted(path, key, ".csv"); err == nil {
			return out, nil
		}
	}

	err = c.runTool(ctx, "libreoffice", "--headless",
		"--convert-to", "txt",
		"--outdir", c.store.Dir(), path)
	if err != nil {
		return "", err
	}
	return c.claimConverted(path, key, ".txt")
}

// slidesToText renders the first slide to an image and OCRs it; slide text
// is not reliably extractable as text but titles are big and OCR-friendly.
func (c *Converter) slidesToText(ctx context.Context, path, key string) (string, error) {
	tmp, err := os.MkdirTemp("", "refile-slides-")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	err = c.runTool(ctx, "libreoffice", "--headless",
		"--convert-to", "png", "--outdir", tmp, path)
	if err != nil {
		return "", err
	}
	image := filepath.Join(tmp, stem(path)+".png")
	if _, err := os.Stat(image); err != nil {
		return "", fmt.Errorf("slide image conversion produced nothing: %w", err)
	}

	out := c.store.Path(key)
	if err := c.ocr(ctx, image, out); err != nil {
		return "", err
	}
	return out, nil
}

// pandocToText converts rich documents (docx, rtf, odt) via pandoc.
func (c *Converter) pandocToText(ctx context.Context, path, key string) (string, error) {
	out := c.store.Path(key)
	c.logf("converting %s to %s using pandoc", path, out)
	if err := c.runTool(ctx, "pandoc", "-o", out, path); err != nil {
		return "", err
	}
	return out, nil
}

// claimConverted moves a tool's own-named output (<input stem><ext> in the
// cache dir) to the rendition path for key. Conversion tools pick their
// output name from the input, which rarely matches the sanitized cache key.
func (c *Converter) claimConverted(path, key, ext string) (string, error) {
	produced := filepath.Join(c.store.Dir(), stem(path)+ext)
	if _, err := os.Stat(produced); err != nil {
		return "", fmt.Errorf("conversion produced nothing: %w", err)
	}
	out := c.store.Path(key)
	if produced != out {
		if err := os.Rename(produced, out); err != nil {
			return "", fmt.Errorf("claim converted output: %w", err)
		}
	}
	return out, nil
}

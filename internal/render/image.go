package render

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// imageToText runs OCR on an image file.
func (c *Converter) imageToText(ctx context.Context, path, key string) (string, error) {
	out := c.store.Path(key)
	if err := c.ocr(ctx, path, out); err != nil {
		return "", err
	}
	return out, nil
}

// ocr runs tesseract on image, writing the rendition to out. Tesseract
// insists on appending ".txt" to its output base itself.
func (c *Converter) ocr(ctx context.Context, image, out string) error {
	base := strings.TrimSuffix(out, ".txt")
	c.logf("generating %s.txt using tesseract", base)
	err := c.runTool(ctx, "tesseract",
		"-l", c.tools.TesseractLangs,
		"-c", "tessedit_page_number=0",
		image, base)
	if err != nil {
		return fmt.Errorf("OCR failed: %w", err)
	}
	if _, statErr := os.Stat(base + ".txt"); statErr != nil {
		return fmt.Errorf("tesseract produced no output: %w", statErr)
	}
	return nil
}

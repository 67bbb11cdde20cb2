// Package ocr wraps the external text-extraction collaborator and the text
// parsing applied to its output.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// DetectedText is one region of text found in a rendered creative.
type DetectedText struct {
	Text       string          `json:"text"`
	Box        image.Rectangle `json:"box"`
	Confidence float64         `json:"confidence"`
}

// TextExtractor is the OCR collaborator boundary. An empty result is valid:
// it means no text was found.
type TextExtractor interface {
	ExtractText(ctx context.Context, img image.Image) ([]DetectedText, error)
}

// TesseractExtractor implements TextExtractor with a local Tesseract engine
// via gosseract, extracting line-level regions with confidences.
type TesseractExtractor struct {
	languages string
}

// NewTesseractExtractor creates an extractor for the given Tesseract
// language codes (e.g. "eng").
func NewTesseractExtractor(languages string) *TesseractExtractor {
	if languages == "" {
		languages = "eng"
	}
	return &TesseractExtractor{languages: languages}
}

// ExtractText runs OCR over img and returns detected text lines with their
// bounding boxes. Tesseract clients are not safe for reuse across
// goroutines, so each call owns its own client.
func (t *TesseractExtractor) ExtractText(ctx context.Context, img image.Image) ([]DetectedText, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode image for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.languages); err != nil {
		return nil, fmt.Errorf("set OCR language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("load image into OCR engine: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("extract text regions: %w", err)
	}

	out := make([]DetectedText, 0, len(boxes))
	for _, b := range boxes {
		if b.Word == "" {
			continue
		}
		out = append(out, DetectedText{
			Text:       b.Word,
			Box:        b.Box,
			Confidence: b.Confidence,
		})
	}
	return out, nil
}

// JoinText concatenates detected regions into a single string in detection
// order.
func JoinText(regions []DetectedText) string {
	var buf bytes.Buffer
	for i, r := range regions {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(r.Text)
	}
	return buf.String()
}

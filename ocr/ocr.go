//go:build ocr

// Package ocr recognizes text on rendered exam pages that carry no native
// text layer (scanned documents).
//
// It wraps the Tesseract engine via gosseract and defaults to Korean plus
// English, the languages exam documents in scope use. Tesseract must be
// installed on the system together with its kor language data:
//
//	apt-get install tesseract-ocr tesseract-ocr-kor
package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguages is the language set pages are recognized with.
const DefaultLanguages = "kor+eng"

// Client wraps Tesseract for page recognition.
type Client struct {
	client *gosseract.Client
}

// New creates an OCR client configured for exam pages. The client should
// be closed when no longer needed to release resources.
func New() (*Client, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(DefaultLanguages); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting OCR languages: %w", err)
	}
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// RecognizePage performs OCR on a rendered page raster and returns the
// recognized text with surrounding whitespace trimmed.
func (c *Client) RecognizePage(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encoding page for OCR: %w", err)
	}
	return c.RecognizeImage(buf.Bytes())
}

// RecognizeImage performs OCR on encoded image data (PNG, TIFF, JPEG).
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// SetLanguage overrides the recognition languages, "+"-separated
// (e.g. "kor+eng+jpn").
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

//go:build !ocr

// Package ocr recognizes text on rendered exam pages that carry no native
// text layer (scanned documents).
//
// This is the stub implementation used when the "ocr" build tag is not
// set: all operations return ErrOCRNotEnabled and the page renderer leaves
// such pages with empty text. To enable OCR, rebuild with the tag:
//
//	go build -tags ocr
//
// This requires Tesseract and its kor language data:
//
//	apt-get install tesseract-ocr tesseract-ocr-kor
package ocr

import (
	"errors"
	"image"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR
// support was not compiled in. Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// DefaultLanguages is the language set pages are recognized with.
const DefaultLanguages = "kor+eng"

// Client is a stub OCR client that returns errors for all operations.
type Client struct{}

// New returns an error indicating OCR support is not enabled.
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op for the stub client. It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// RecognizePage returns an error indicating OCR support is not enabled.
func (c *Client) RecognizePage(img image.Image) (string, error) {
	return "", ErrOCRNotEnabled
}

// RecognizeImage returns an error indicating OCR support is not enabled.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	return "", ErrOCRNotEnabled
}

// SetLanguage returns an error indicating OCR support is not enabled.
func (c *Client) SetLanguage(lang string) error {
	return ErrOCRNotEnabled
}

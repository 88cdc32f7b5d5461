// Package pagerender rasterizes exam document pages and extracts each
// page's text layer.
//
// The document is validated up front; an unreadable or corrupt file is the
// one fatal condition at this level. Rasters come from MuPDF via go-fitz
// at a fixed density. Text comes from the native text layer where one
// exists; pages without a layer fall back to OCR when OCR support is
// compiled in, and otherwise contribute empty text, which later stages
// treat as a page-level skip.
package pagerender

import (
	"errors"
	"fmt"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/sijun-lee/examsift/model"
	"github.com/sijun-lee/examsift/ocr"
)

// ErrUnreadableDocument marks a document that cannot be opened or fails
// structural validation. It is fatal to the run.
var ErrUnreadableDocument = errors.New("unreadable document")

// Config holds page renderer configuration
type Config struct {
	// DPI is the rasterization density.
	DPI int

	// UseOCR enables the OCR fallback for pages without a text layer.
	// It has no effect unless the binary was built with the ocr tag.
	UseOCR bool
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		DPI:    200,
		UseOCR: true,
	}
}

// PageIssue records a non-fatal, page-level extraction problem.
type PageIssue struct {
	Page   int
	Reason string
}

// Result holds the rendered pages plus any page-level issues.
type Result struct {
	Pages  []*model.Page
	Issues []PageIssue
}

// Renderer rasterizes documents and extracts per-page text.
type Renderer struct {
	config Config
}

// New creates a renderer with default configuration.
func New() *Renderer {
	return &Renderer{config: DefaultConfig()}
}

// NewWithConfig creates a renderer with the given configuration.
func NewWithConfig(config Config) *Renderer {
	if config.DPI == 0 {
		config.DPI = DefaultConfig().DPI
	}
	return &Renderer{config: config}
}

// Render validates the document, rasterizes every page, and attaches each
// page's text layer. Only an unreadable document is fatal; per-page text
// problems are recorded as issues and leave that page's text empty. Every
// page that ends up without text carries at least one issue, so the
// diagnostics account for the whole document.
func (r *Renderer) Render(path string) (*Result, error) {
	if err := api.ValidateFile(path, nil); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableDocument, path, err)
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableDocument, path, err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, fmt.Errorf("%w: %s: document has no pages", ErrUnreadableDocument, path)
	}

	texts, textIssues := r.textLayers(path, pageCount)

	result := &Result{Issues: textIssues}
	issued := make(map[int]bool, len(textIssues))
	for _, issue := range textIssues {
		issued[issue.Page] = true
	}

	var ocrClient *ocr.Client
	var ocrInitErr error
	ocrAvailable := r.config.UseOCR
	defer func() {
		if ocrClient != nil {
			ocrClient.Close()
		}
	}()

	for i := 0; i < pageCount; i++ {
		img, err := doc.ImageDPI(i, float64(r.config.DPI))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: rendering page %d of %d: %v",
				ErrUnreadableDocument, path, i+1, pageCount, err)
		}

		page := &model.Page{
			Index:  i + 1,
			Width:  img.Bounds().Dx(),
			Height: img.Bounds().Dy(),
			Text:   texts[i],
			Raster: img,
		}

		if !page.HasText() && ocrAvailable {
			if ocrClient == nil {
				ocrClient, ocrInitErr = ocr.New()
				if ocrInitErr != nil {
					ocrClient = nil
					ocrAvailable = false
				}
			}
			if ocrClient != nil {
				text, err := ocrClient.RecognizePage(img)
				if err != nil {
					result.Issues = append(result.Issues, PageIssue{
						Page:   page.Index,
						Reason: fmt.Sprintf("OCR failed: %v", err),
					})
					issued[page.Index] = true
				} else {
					page.Text = text
				}
			}
		}

		if issue := missingTextIssue(page, issued, ocrInitErr); issue != nil {
			result.Issues = append(result.Issues, *issue)
			issued[page.Index] = true
		}

		result.Pages = append(result.Pages, page)
	}

	return result, nil
}

// missingTextIssue reports a page that finished rendering without any text
// and without an issue already on record for it. The OCR init error, when
// set, explains why the fallback could not run.
func missingTextIssue(page *model.Page, issued map[int]bool, ocrErr error) *PageIssue {
	if page.HasText() || issued[page.Index] {
		return nil
	}
	reason := "no text layer"
	if ocrErr != nil {
		reason = fmt.Sprintf("no text layer and OCR unavailable: %v", ocrErr)
	}
	return &PageIssue{Page: page.Index, Reason: reason}
}

// textLayers pulls the native text layer for every page. Failures are
// per-page issues, never fatal: rasterization already proved the document
// readable.
func (r *Renderer) textLayers(path string, pageCount int) ([]string, []PageIssue) {
	texts := make([]string, pageCount)

	f, reader, err := pdf.Open(path)
	if err != nil {
		issues := make([]PageIssue, 0, pageCount)
		for i := 1; i <= pageCount; i++ {
			issues = append(issues, PageIssue{Page: i, Reason: fmt.Sprintf("text layer unavailable: %v", err)})
		}
		return texts, issues
	}
	defer f.Close()

	var issues []PageIssue
	for i := 1; i <= pageCount && i <= reader.NumPage(); i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			issues = append(issues, PageIssue{Page: i, Reason: fmt.Sprintf("text extraction failed: %v", err)})
			continue
		}
		texts[i-1] = text
	}
	return texts, issues
}

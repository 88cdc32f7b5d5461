// Package examsift provides a fluent API for turning exam-document
// bundles into structured question records with linked tables and
// figures.
//
// Basic usage:
//
//	result, warnings, err := examsift.Open("exams/2024-midterm").Extract(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", examsift.FormatWarnings(warnings))
//	}
//
// With external services:
//
//	result, _, err := examsift.Open("exams/2024-midterm").
//	    WithLayout("https://layout.example.com", layoutKey).
//	    WithVision(visionKey).
//	    AssetDir("out/assets").
//	    Extract(ctx)
//
// For advanced use cases, the lower-level pipeline package is also
// available.
package examsift

import (
	"fmt"

	"github.com/sijun-lee/examsift/bundle"
	"github.com/sijun-lee/examsift/pagerender"
	"github.com/sijun-lee/examsift/pipeline"
)

// Fatal errors of the run taxonomy. Everything else is surfaced as a
// warning alongside best-effort output.
var (
	// ErrNoQuestions means segmentation found no questions in the
	// entire document.
	ErrNoQuestions = pipeline.ErrNoQuestions

	// ErrUnreadableDocument means the question document could not be
	// opened or rendered.
	ErrUnreadableDocument = pagerender.ErrUnreadableDocument

	// ErrMissingCredentials means a stage was enabled without the
	// service credentials it needs.
	ErrMissingCredentials = pipeline.ErrMissingCredentials

	// ErrNoQuestionDocument means the bundle directory holds no
	// recognizable question document.
	ErrNoQuestionDocument = bundle.ErrNoQuestionDocument
)

// Open opens an exam bundle directory and returns an Extractor for fluent
// configuration. The directory must hold a question document; answer-key,
// solution, audio, and annotated files are picked up when present.
//
// Example:
//
//	result, warnings, err := examsift.Open("exams/2024-midterm").Extract(ctx)
func Open(dir string) *Extractor {
	e := &Extractor{
		dir:     dir,
		options: defaultOptions(),
	}
	if dir == "" {
		e.err = fmt.Errorf("no bundle directory specified")
	}
	return e
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	qs := examsift.Must(examsift.Open("exams/2024-midterm").Questions(ctx))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustExtract is a helper that wraps a call to Extract and panics if the
// error is non-nil. It discards warnings and returns just the result.
//
// Example:
//
//	result := examsift.MustExtract(examsift.Open("exams/2024-midterm").Extract(ctx))
func MustExtract(result *pipeline.Result, _ []Warning, err error) *pipeline.Result {
	if err != nil {
		panic(err)
	}
	return result
}

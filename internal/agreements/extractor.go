package agreements

import "context"

// ExtractionBackend runs one schema-guided extraction pass over a page range
// of the document and returns the raw field mapping.
type ExtractionBackend interface {
	Extract(ctx context.Context, shape FieldShape, pageRange string, document []byte) (map[string]any, error)
}

// TextExtractor pulls plain text out of a document's first page. Used only
// for title detection; the extraction backend sees the document itself.
type TextExtractor interface {
	FirstPageText(document []byte) (string, error)
}

// Extractor drives a full extraction run: detect the title, resolve its plan,
// execute each step, overlay the step results, then apply the title's
// post-processor.
type Extractor struct {
	backend ExtractionBackend
	text    TextExtractor
}

func NewExtractor(backend ExtractionBackend, text TextExtractor) *Extractor {
	return &Extractor{backend: backend, text: text}
}

// Run extracts a raw record from the document. Any step failure aborts the
// run; partial results are never returned.
func (e *Extractor) Run(ctx context.Context, document []byte) (RawRecord, DocumentTitle, error) {
	firstPage, err := e.text.FirstPageText(document)
	if err != nil {
		return nil, "", err
	}
	title, err := DetectTitle(firstPage)
	if err != nil {
		return nil, "", err
	}

	plan, err := PlanFor(title)
	if err != nil {
		return nil, "", err
	}

	rec := RawRecord{}
	for i, step := range plan {
		data, err := e.backend.Extract(ctx, step.Shape, step.PageRange, document)
		if err != nil {
			return nil, title, &StepError{Title: title, Step: i + 1, PageRange: step.PageRange, Cause: err}
		}
		// Later steps overwrite earlier keys; plans are ordered so page-two
		// payment data lands on top of the page-one record.
		for k, v := range data {
			rec[k] = v
		}
	}

	if post := PostProcessorFor(title); post != nil {
		rec = post(rec)
	}
	return rec, title, nil
}

package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"agreements-backend/internal/agreements"
)

// PDFText extracts plain text from PDF pages.
// Library used: github.com/ledongthuc/pdf.
type PDFText struct{}

// FirstPageText returns the text of page one, one line per visual row. Title
// detection reads the first non-empty line of this output.
func (PDFText) FirstPageText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty pdf data")
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	if reader.NumPage() < 1 {
		return "", errors.New("pdf has no pages")
	}

	page := reader.Page(1)
	if page.V.IsNull() {
		return "", errors.New("pdf first page is unreadable")
	}
	rows, err := page.GetTextByRow()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		for _, word := range row.Content {
			b.WriteString(word.S)
		}
	}
	return b.String(), nil
}

var _ agreements.TextExtractor = PDFText{}

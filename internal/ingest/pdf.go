package ingest

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	"querybot/internal/models"
	"querybot/internal/util"
)

// ExtractPDFPages returns the plain text of every page, numbered from 1.
// Empty input yields no pages. Pages without text are kept with empty text.
func ExtractPDFPages(data []byte) (pages []models.Page, err error) {
	if len(data) == 0 {
		return []models.Page{}, nil
	}
	// The parser panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("%w: parser panic: %v", util.ErrNotPDF, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrNotPDF, err)
	}
	n := r.NumPage()
	pages = make([]models.Page, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		for _, name := range p.Fonts() {
			f := p.Font(name)
			fonts[name] = &f
		}
		text, err := p.GetPlainText(fonts)
		if err != nil {
			return nil, fmt.Errorf("extract text of page %d: %w", i, err)
		}
		pages = append(pages, models.Page{Number: i, Text: util.SanitizeText(text)})
	}
	return pages, nil
}

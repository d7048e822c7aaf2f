// Package document renders uploaded documents to images for receipt extraction.
package document

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/iho/debtledger/internal/domain"
)

// DefaultDPI renders a first page at twice the PDF's native 72 DPI.
const DefaultDPI = 144

// PDFConverter implements usecase.DocumentConverter with MuPDF.
type PDFConverter struct {
	dpi float64
}

// NewPDFConverter creates a new PDFConverter. A zero dpi selects DefaultDPI.
func NewPDFConverter(dpi float64) *PDFConverter {
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	return &PDFConverter{dpi: dpi}
}

// ToImage renders the first page of a PDF as PNG.
func (c *PDFConverter) ToImage(ctx context.Context, pdf []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConversionFailed, err)
	}
	defer doc.Close()

	if doc.NumPage() < 1 {
		return nil, fmt.Errorf("%w: document has no pages", domain.ErrConversionFailed)
	}

	png, err := doc.ImagePNG(0, c.dpi)
	if err != nil {
		return nil, fmt.Errorf("%w: render first page: %v", domain.ErrConversionFailed, err)
	}

	return png, nil
}

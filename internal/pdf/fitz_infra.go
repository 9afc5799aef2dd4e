package pdf

import (
	"context"
	"fmt"
	"io"

	"github.com/gen2brain/go-fitz"

	"github.com/Vovarama1992/pdf_tools/internal/images"
)

const rasterQuality = 85

// FitzPDFConverter растеризует через MuPDF (go-fitz), без внешних процессов
type FitzPDFConverter struct{}

func NewFitzPDFConverter() *FitzPDFConverter {
	return &FitzPDFConverter{}
}

func (c *FitzPDFConverter) ConvertToImages(ctx context.Context, pdf io.Reader) ([]PDFPage, error) {
	buf, err := io.ReadAll(pdf)
	if err != nil {
		return nil, err
	}

	doc, err := fitz.NewFromMemory(buf)
	if err != nil {
		return nil, fmt.Errorf("fitz open: %w", err)
	}
	defer doc.Close()

	n := doc.NumPage()
	if n == 0 {
		return nil, fmt.Errorf("no pages generated")
	}

	pages := make([]PDFPage, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := doc.Image(i)
		if err != nil {
			return nil, fmt.Errorf("fitz render page %d: %w", i+1, err)
		}

		b, err := images.EncodeJPEG(img, rasterQuality)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}

		pages = append(pages, PDFPage{
			Bytes:    b,
			FileName: pageName(i + 1),
			MimeType: "image/jpeg",
		})
	}

	return pages, nil
}

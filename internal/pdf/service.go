package pdf

import (
	"bytes"
	"context"
	"errors"

	"github.com/Vovarama1992/pdf_tools/internal/archive"
	"github.com/Vovarama1992/pdf_tools/internal/domain"
	"github.com/Vovarama1992/pdf_tools/internal/images"
)

const (
	msgProtected      = "PDF is password protected. Provide the correct password."
	msgNoImages       = "No valid images provided"
	msgImagesToPDF    = "Failed to convert JPG to PDF"
	mimeJPEG          = "image/jpeg"
	mimeZIP           = "application/zip"
	mimePDF           = "application/pdf"
	singleImageName   = "converted.jpg"
	imagesArchiveName = "converted_images.zip"
	convertedPDFName  = "converted.pdf"
)

type PDFService struct {
	conv   PDFConverter
	engine Engine
}

func NewPDFService(c PDFConverter, e Engine) *PDFService {
	return &PDFService{conv: c, engine: e}
}

// Convert: сырая растеризация без проверки шифрования
func (s *PDFService) Convert(ctx context.Context, data []byte) ([]PDFPage, error) {
	return s.conv.ConvertToImages(ctx, bytes.NewReader(data))
}

// ToImages: PDF → один JPEG или zip со страницами page_N.jpg
func (s *PDFService) ToImages(ctx context.Context, data []byte, password string) (*Artifact, error) {
	encrypted, err := s.engine.Inspect(ctx, data)
	if err != nil {
		return nil, domain.CodecError(err.Error(), err)
	}

	if encrypted {
		if password == "" {
			return nil, domain.DecryptionError(msgProtected, nil)
		}
		data, err = s.engine.Decrypt(ctx, data, password)
		if errors.Is(err, ErrWrongPassword) {
			return nil, domain.DecryptionError(msgProtected, err)
		}
		if err != nil {
			return nil, domain.CodecError(err.Error(), err)
		}
	}

	pages, err := s.Convert(ctx, data)
	if err != nil {
		return nil, domain.CodecError(err.Error(), err)
	}

	if len(pages) == 1 {
		return &Artifact{Bytes: pages[0].Bytes, FileName: singleImageName, MimeType: mimeJPEG}, nil
	}

	entries := make([]archive.Entry, len(pages))
	for i, p := range pages {
		entries[i] = archive.Entry{Name: pageName(i + 1), Bytes: p.Bytes}
	}
	zipped, err := archive.Pack(entries)
	if err != nil {
		return nil, domain.CodecError(err.Error(), err)
	}

	return &Artifact{Bytes: zipped, FileName: imagesArchiveName, MimeType: mimeZIP}, nil
}

// FromImages: картинки → многостраничный PDF, порядок страниц = порядок входа
func (s *PDFService) FromImages(ctx context.Context, imgs [][]byte) (*Artifact, error) {
	if len(imgs) == 0 {
		return nil, domain.ValidationError(msgNoImages, nil)
	}

	normalized := make([][]byte, len(imgs))
	for i, b := range imgs {
		rgb, err := images.DecodeRGB(b)
		if err != nil {
			return nil, domain.CodecError(msgImagesToPDF, err)
		}
		if normalized[i], err = images.EncodeJPEG(rgb, images.DefaultQuality); err != nil {
			return nil, domain.CodecError(msgImagesToPDF, err)
		}
	}

	out, err := s.engine.FromImages(ctx, normalized)
	if err != nil {
		return nil, domain.CodecError(msgImagesToPDF, err)
	}

	return &Artifact{Bytes: out, FileName: convertedPDFName, MimeType: mimePDF}, nil
}

package pdf

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/Vovarama1992/pdf_tools/internal/domain"
	"github.com/Vovarama1992/pdf_tools/internal/images"
)

const (
	DefaultCompressQuality = 50
	MinCompressQuality     = 1
	MaxCompressQuality     = 100

	msgCompressRange  = "Compression ratio must be between 1 and 100"
	msgCompressFailed = "Failed to compress PDF"
)

// Compress пережимает только растровые объекты, текст и вектор не трогаем.
// Отката нет: ошибка на любом объекте роняет всю операцию.
func (s *PDFService) Compress(ctx context.Context, data []byte, quality int) (*Artifact, error) {
	// Required нужен отдельно: ozzo не применяет Min к нулевому значению
	if err := validation.Validate(quality,
		validation.Required,
		validation.Min(MinCompressQuality),
		validation.Max(MaxCompressQuality),
	); err != nil {
		return nil, domain.ValidationError(msgCompressRange, err)
	}

	out, err := s.engine.RewriteImages(ctx, data, func(img EmbeddedImage) ([]byte, error) {
		return images.Recompress(img.Bytes, quality)
	})
	if err != nil {
		return nil, domain.CodecError(msgCompressFailed, err)
	}

	return &Artifact{Bytes: out, FileName: "compressed.pdf", MimeType: mimePDF}, nil
}

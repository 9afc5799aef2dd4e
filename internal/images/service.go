package images

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	// декодеры, которые регистрируются в image.Decode
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const DefaultQuality = 95

// DecodeRGB декодирует картинку и сводит её к трём каналам:
// альфа накладывается на белый фон, палитра разворачивается.
func DecodeRGB(data []byte) (image.Image, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return Flatten(src, format), nil
}

// Flatten возвращает непрозрачное RGB изображение.
// JPEG (YCbCr / Gray) уже без альфы, такие отдаём как есть.
func Flatten(src image.Image, format string) image.Image {
	switch src.(type) {
	case *image.YCbCr, *image.Gray:
		if format == "jpeg" {
			return src
		}
	}

	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}

// EncodeJPEG кодирует изображение в JPEG с заданным качеством (1..100)
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Recompress: decode → RGB → JPEG(quality)
func Recompress(data []byte, quality int) ([]byte, error) {
	img, err := DecodeRGB(data)
	if err != nil {
		return nil, err
	}
	return EncodeJPEG(img, quality)
}

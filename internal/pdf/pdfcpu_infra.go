package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/filter"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// PdfcpuEngine: реализация Engine на pdfcpu, всё в памяти
type PdfcpuEngine struct{}

func NewPdfcpuEngine() *PdfcpuEngine {
	// pdfcpu по умолчанию пишет конфиг в ~/.config, серверу это не нужно
	api.DisableConfigDir()
	return &PdfcpuEngine{}
}

func newConf(password string) *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.UserPW = password
	conf.OwnerPW = password
	return conf
}

func (e *PdfcpuEngine) Inspect(_ context.Context, data []byte) (bool, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), newConf(""))
	if err != nil {
		if isWrongPassword(err) {
			return true, nil
		}
		return false, err
	}
	return ctx.Encrypt != nil, nil
}

func (e *PdfcpuEngine) Decrypt(_ context.Context, data []byte, password string) ([]byte, error) {
	var buf bytes.Buffer
	if err := api.Decrypt(bytes.NewReader(data), &buf, newConf(password)); err != nil {
		if isWrongPassword(err) {
			return nil, fmt.Errorf("%w: %v", ErrWrongPassword, err)
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *PdfcpuEngine) Encrypt(_ context.Context, data []byte, password string) ([]byte, error) {
	conf := newConf(password)
	// pdfcpu не шифрует без owner-пароля; пустой user-пароль при этом допустим
	if password == "" {
		conf.OwnerPW = uuid.NewString()
	}
	conf.EncryptUsingAES = true
	conf.EncryptKeyLength = 256

	var buf bytes.Buffer
	if err := api.Encrypt(bytes.NewReader(data), &buf, conf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *PdfcpuEngine) Rewrite(_ context.Context, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := api.Optimize(bytes.NewReader(data), &buf, newConf("")); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *PdfcpuEngine) FromImages(_ context.Context, imgs [][]byte) ([]byte, error) {
	readers := make([]io.Reader, len(imgs))
	for i, b := range imgs {
		readers[i] = bytes.NewReader(b)
	}

	var buf bytes.Buffer
	if err := api.ImportImages(nil, &buf, readers, pdfcpu.DefaultImportConfig(), newConf("")); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *PdfcpuEngine) PageCount(_ context.Context, data []byte) (int, error) {
	return api.PageCount(bytes.NewReader(data), newConf(""))
}

func (e *PdfcpuEngine) RewriteImages(
	cctx context.Context,
	data []byte,
	fn func(EmbeddedImage) ([]byte, error),
) ([]byte, error) {

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), newConf(""))
	if err != nil {
		return nil, err
	}

	// один объект может висеть на нескольких страницах
	done := map[int]bool{}

	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		if err := cctx.Err(); err != nil {
			return nil, err
		}

		imgs, err := pdfcpu.ExtractPageImages(ctx, pageNr, false)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNr, err)
		}

		objNrs := make([]int, 0, len(imgs))
		for objNr := range imgs {
			objNrs = append(objNrs, objNr)
		}
		sort.Ints(objNrs)

		for _, objNr := range objNrs {
			img := imgs[objNr]
			if done[objNr] || img.IsImgMask || img.Thumb || img.Reader == nil {
				continue
			}
			done[objNr] = true

			raw, err := io.ReadAll(img)
			if err != nil {
				return nil, fmt.Errorf("read image obj %d: %w", objNr, err)
			}

			out, err := fn(EmbeddedImage{
				ObjNr:    objNr,
				PageNr:   pageNr,
				FileType: img.FileType,
				Bytes:    raw,
			})
			if err != nil {
				return nil, fmt.Errorf("image obj %d: %w", objNr, err)
			}

			if err := replaceWithJPEG(ctx, objNr, out); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// replaceWithJPEG подменяет поток объекта objNr на готовый DCT поток.
// Ширина и высота не меняются, поэтому остальной словарь остаётся валидным.
func replaceWithJPEG(ctx *model.Context, objNr int, jpg []byte) error {
	entry, ok := ctx.FindTableEntryLight(objNr)
	if !ok || entry == nil {
		return fmt.Errorf("obj %d not found", objNr)
	}

	sd, ok := entry.Object.(types.StreamDict)
	if !ok {
		return fmt.Errorf("obj %d is not a stream", objNr)
	}

	l := int64(len(jpg))
	sd.Raw = jpg
	sd.Content = nil
	sd.StreamLength = &l
	sd.FilterPipeline = []types.PDFFilter{{Name: filter.DCT}}

	sd.Update("Filter", types.Name(filter.DCT))
	sd.Update("Length", types.Integer(l))
	sd.Update("ColorSpace", types.Name("DeviceRGB"))
	sd.Update("BitsPerComponent", types.Integer(8))
	sd.Delete("DecodeParms")
	sd.Delete("Decode")

	entry.Object = sd
	return nil
}

// pdfcpu не экспортирует отдельный тип для неверного пароля
func isWrongPassword(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "password")
}

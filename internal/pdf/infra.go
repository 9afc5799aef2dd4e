package pdf

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

type PopplerPDFConverter struct {
	bin string
}

func NewPopplerPDFConverter() *PopplerPDFConverter {
	bin := os.Getenv("PDFTOPPM_BIN")
	if bin == "" {
		bin = "pdftoppm"
	}
	return &PopplerPDFConverter{bin: bin}
}

func (c *PopplerPDFConverter) ConvertToImages(
	ctx context.Context,
	pdf io.Reader,
) ([]PDFPage, error) {

	// 1. читаем PDF в память
	buf, err := io.ReadAll(pdf)
	if err != nil {
		return nil, err
	}

	// 2. уникальный temp-dir, подчистим потом
	tmpDir, err := os.MkdirTemp("", "pdfconv-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	input := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(input, buf, 0o600); err != nil {
		return nil, err
	}
	outBase := filepath.Join(tmpDir, "page")

	// 3. запускаем poppler
	cmd := exec.CommandContext(ctx, c.bin, "-jpeg", input, outBase)
	if out, err := cmd.CombinedOutput(); err != nil {
		log.Printf("[pdf.poppler] %s failed: %v", c.bin, err)
		return nil, fmt.Errorf("pdftoppm: %w: %s", err, strings.TrimSpace(string(out)))
	}

	// 4. pdftoppm дополняет номер нулями (page-01.jpg при 10+ страницах),
	// поэтому сортируем по числу, а не по имени
	files, err := filepath.Glob(outBase + "-*.jpg")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no pages generated")
	}

	nums := make(map[string]int, len(files))
	for _, fn := range files {
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(fn, outBase+"-"), ".jpg"))
		if err != nil {
			return nil, fmt.Errorf("unexpected pdftoppm output %q", filepath.Base(fn))
		}
		nums[fn] = n
	}
	sort.Slice(files, func(i, j int) bool { return nums[files[i]] < nums[files[j]] })

	pages := make([]PDFPage, 0, len(files))
	for i, fn := range files {
		b, err := os.ReadFile(fn)
		if err != nil {
			return nil, err
		}
		pages = append(pages, PDFPage{
			Bytes:    b,
			FileName: pageName(i + 1),
			MimeType: "image/jpeg",
		})
	}

	return pages, nil
}

func pageName(n int) string {
	return fmt.Sprintf("page_%d.jpg", n)
}

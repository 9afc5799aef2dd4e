package delivery

import (
	"net/http"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/dustin/go-humanize"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/Vovarama1992/pdf_tools/internal/domain"
	"github.com/Vovarama1992/pdf_tools/internal/error_notificator"
	"github.com/Vovarama1992/pdf_tools/internal/pdf"
)

type PDFHandler struct {
	base
	svc                 *pdf.PDFService
	defaultLockPassword string
}

func NewPDFHandler(
	svc *pdf.PDFService,
	errs *error_notificator.Service,
	log *logger.ZapLogger,
	maxUpload int64,
	defaultLockPassword string,
) *PDFHandler {
	return &PDFHandler{
		base:                base{log: log, errs: errs, maxUpload: maxUpload},
		svc:                 svc,
		defaultLockPassword: defaultLockPassword,
	}
}

type unlockReq struct {
	Password string `json:"password"`
}

func (req *unlockReq) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Password, validation.Required.Error("password is required")),
	)
}

func (h *PDFHandler) done(op string, in int, a *pdf.Artifact) {
	h.info("[%s] %s -> %s (%s)", op, humanize.Bytes(uint64(in)), a.FileName, humanize.Bytes(uint64(len(a.Bytes))))
}

// POST /pdf-to-jpg
func (h *PDFHandler) PDFToJPG(w http.ResponseWriter, r *http.Request) {
	const op = "pdf-to-jpg"

	if err := h.parseForm(w, r); err != nil {
		h.fail(w, r, op, err, msgBadRequest)
		return
	}
	data, _, err := readFile(r, "file")
	if err != nil {
		h.fail(w, r, op, err, msgNoFile)
		return
	}

	art, err := h.svc.ToImages(r.Context(), data, r.FormValue("password"))
	if err != nil {
		h.fail(w, r, op, err, err.Error())
		return
	}

	h.done(op, len(data), art)
	writeArtifact(w, art)
}

// POST /jpg-to-pdf
func (h *PDFHandler) JPGToPDF(w http.ResponseWriter, r *http.Request) {
	const op = "jpg-to-pdf"

	if err := h.parseForm(w, r); err != nil {
		h.fail(w, r, op, err, msgBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		files = r.MultipartForm.File["files[]"]
	}

	imgs := make([][]byte, 0, len(files))
	total := 0
	for _, fh := range files {
		b, err := readPart(fh)
		if err != nil {
			h.fail(w, r, op, domain.CodecError("Failed to convert JPG to PDF", err), "")
			return
		}
		total += len(b)
		imgs = append(imgs, b)
	}

	art, err := h.svc.FromImages(r.Context(), imgs)
	if err != nil {
		h.fail(w, r, op, err, "Failed to convert JPG to PDF")
		return
	}

	h.done(op, total, art)
	writeArtifact(w, art)
}

// POST /lock-pdf
func (h *PDFHandler) LockPDF(w http.ResponseWriter, r *http.Request) {
	const op = "lock-pdf"

	if err := h.parseForm(w, r); err != nil {
		h.fail(w, r, op, err, msgBadRequest)
		return
	}
	data, _, err := readFile(r, "file")
	if err != nil {
		h.fail(w, r, op, err, msgNoFile)
		return
	}

	// пустой пароль допустим, дефолт только если поле не пришло
	password, ok := formValue(r, "password")
	if !ok {
		password = h.defaultLockPassword
	}

	art, err := h.svc.Lock(r.Context(), data, password)
	if err != nil {
		h.fail(w, r, op, err, "Failed to lock PDF")
		return
	}

	h.done(op, len(data), art)
	writeArtifact(w, art)
}

// POST /unlock-pdf
func (h *PDFHandler) UnlockPDF(w http.ResponseWriter, r *http.Request) {
	const op = "unlock-pdf"

	if err := h.parseForm(w, r); err != nil {
		h.fail(w, r, op, err, msgBadRequest)
		return
	}
	data, _, err := readFile(r, "file")
	if err != nil {
		h.fail(w, r, op, err, msgNoFile)
		return
	}

	req := unlockReq{Password: r.FormValue("password")}
	if err := req.Validate(); err != nil {
		h.fail(w, r, op, domain.ValidationError("password is required", err), "")
		return
	}

	art, err := h.svc.Unlock(r.Context(), data, req.Password)
	if err != nil {
		h.fail(w, r, op, err, "Failed to unlock PDF")
		return
	}

	h.done(op, len(data), art)
	writeArtifact(w, art)
}

// POST /compress-pdf
func (h *PDFHandler) CompressPDF(w http.ResponseWriter, r *http.Request) {
	const op = "compress-pdf"

	if err := h.parseForm(w, r); err != nil {
		h.fail(w, r, op, err, msgBadRequest)
		return
	}

	quality := pdf.DefaultCompressQuality
	if raw, ok := formValue(r, "compression_ratio"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(w, r, op, domain.ValidationError("Compression ratio must be between 1 and 100", err), "")
			return
		}
		quality = n
	}

	data, _, err := readFile(r, "file")
	if err != nil {
		h.fail(w, r, op, err, msgNoFile)
		return
	}

	art, err := h.svc.Compress(r.Context(), data, quality)
	if err != nil {
		h.fail(w, r, op, err, "Failed to compress PDF")
		return
	}

	h.done(op, len(data), art)
	writeArtifact(w, art)
}

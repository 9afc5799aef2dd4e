package delivery

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/Vovarama1992/pdf_tools/internal/domain"
	"github.com/Vovarama1992/pdf_tools/internal/error_notificator"
	"github.com/Vovarama1992/pdf_tools/internal/uploads"
)

type UploadHandler struct {
	base
	svc           *uploads.Service
	publicBaseURL string
}

func NewUploadHandler(
	svc *uploads.Service,
	errs *error_notificator.Service,
	log *logger.ZapLogger,
	maxUpload int64,
	publicBaseURL string,
) *UploadHandler {
	return &UploadHandler{
		base:          base{log: log, errs: errs, maxUpload: maxUpload},
		svc:           svc,
		publicBaseURL: publicBaseURL,
	}
}

// POST /upload
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	const op = "upload"

	if err := h.parseForm(w, r); err != nil {
		h.fail(w, r, op, err, msgBadRequest)
		return
	}
	f, fh, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, op, domain.ValidationError(msgNoFile, err), "")
		return
	}
	defer f.Close()

	name, err := h.svc.Store(r.Context(), fh.Filename, f)
	if err != nil {
		h.fail(w, r, op, err, "Failed to upload file")
		return
	}

	h.info("[%s] stored %s (%s)", op, name, humanize.Bytes(uint64(fh.Size)))
	writeJSON(w, http.StatusOK, map[string]string{"filename": name})
}

// POST /upload-folder
func (h *UploadHandler) UploadFolder(w http.ResponseWriter, r *http.Request) {
	const op = "upload-folder"

	if err := h.parseForm(w, r); err != nil {
		h.fail(w, r, op, err, msgBadRequest)
		return
	}
	f, fh, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, op, domain.ValidationError(msgNoFile, err), "")
		return
	}
	defer f.Close()

	res, err := h.svc.StoreAndExpand(r.Context(), fh.Filename, f)
	if err != nil {
		h.fail(w, r, op, err, "Failed to upload folder")
		return
	}

	if len(res.Skipped) > 0 {
		h.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: fmt.Sprintf("[%s] %s: skipped unsafe entries %v", op, res.Stored, res.Skipped),
			Service: service,
		})
	}
	h.info("[%s] %s: %s, %d extracted", op, res.Stored, humanize.Bytes(uint64(fh.Size)), len(res.Extracted))
	writeJSON(w, http.StatusOK, map[string]string{"status": res.Status})
}

// GET /files
func (h *UploadHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	const op = "files"

	links, err := h.svc.List(r.Context(), h.baseURL(r))
	if err != nil {
		h.fail(w, r, op, err, "Failed to list files")
		return
	}
	if links == nil {
		links = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"files": links})
}

// GET /download/{filename}
func (h *UploadHandler) Download(w http.ResponseWriter, r *http.Request) {
	const op = "download"

	obj, name, err := h.svc.Open(r.Context(), downloadName(r))
	if err != nil {
		h.fail(w, r, op, err, "File not found")
		return
	}
	defer obj.Body.Close()

	ctype := mime.TypeByExtension(path.Ext(name))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	if obj.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, obj.Body)
}

// chi матчит по RawPath, если он есть, и тогда параметр приходит закодированным (a%2Bb.txt)
func downloadName(r *http.Request) string {
	name := chi.URLParam(r, "filename")
	if r.URL.RawPath == "" {
		return name
	}
	if u, err := url.PathUnescape(name); err == nil {
		return u
	}
	return name
}

// baseURL: из конфига, иначе из самого запроса (с учётом прокси)
func (h *UploadHandler) baseURL(r *http.Request) string {
	if h.publicBaseURL != "" {
		return h.publicBaseURL
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme = p
	}
	host := r.Host
	if fh := r.Header.Get("X-Forwarded-Host"); fh != "" {
		host = fh
	}
	return scheme + "://" + host
}

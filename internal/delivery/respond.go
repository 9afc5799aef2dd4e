package delivery

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	json "github.com/goccy/go-json"

	"github.com/Vovarama1992/pdf_tools/internal/domain"
	"github.com/Vovarama1992/pdf_tools/internal/error_notificator"
	"github.com/Vovarama1992/pdf_tools/internal/pdf"
)

const (
	service       = "pdf_tools"
	multipartMem  = 32 << 20
	msgNoFile     = "file is required"
	msgBadRequest = "invalid multipart form"
)

// base: общее для обоих хендлеров: лог, нотификатор, лимит тела
type base struct {
	log       *logger.ZapLogger
	errs      *error_notificator.Service
	maxUpload int64
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeArtifact(w http.ResponseWriter, a *pdf.Artifact) {
	w.Header().Set("Content-Type", a.MimeType)
	w.Header().Set("Content-Disposition", "attachment; filename="+a.FileName)
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Bytes)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Bytes)
}

func statusOf(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindDecryption:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail пишет ошибку клиенту; 5xx дополнительно уходят в нотификатор с полной причиной
func (b *base) fail(w http.ResponseWriter, r *http.Request, op string, err error, fallback string) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		_ = b.errs.Notify(r.Context(), op, err, fmt.Sprintf("%s %s", r.Method, r.URL.Path))
	} else {
		b.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: fmt.Sprintf("[%s] rejected with %d", op, status),
			Error:   err,
			Service: service,
		})
	}
	writeError(w, status, domain.MessageOf(err, fallback))
}

func (b *base) info(msg string, args ...any) {
	b.log.Log(logger.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf(msg, args...),
		Service: service,
	})
}

// parseForm ограничивает тело и разбирает multipart
func (b *base) parseForm(w http.ResponseWriter, r *http.Request) error {
	if b.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, b.maxUpload)
	}
	if err := r.ParseMultipartForm(multipartMem); err != nil {
		return domain.ValidationError(msgBadRequest, err)
	}
	return nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// readFile читает единственный файл из поля field
func readFile(r *http.Request, field string) ([]byte, *multipart.FileHeader, error) {
	f, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, domain.ValidationError(msgNoFile, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, domain.ValidationError(msgBadRequest, err)
	}
	return data, header, nil
}

// formValue отличает отсутствующее поле от пустого
func formValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	vs, ok := r.MultipartForm.Value[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

package delivery

import (
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func RegisterRoutes(
	r chi.Router,
	hPDF *PDFHandler,
	hUp *UploadHandler,
	corsOrigins []string,
	ratePerMin int,
) {
	r.Use(RequestID, httputil.RecoverMiddleware)
	if ratePerMin > 0 {
		r.Use(httprate.LimitByIP(ratePerMin, time.Minute))
	}

	// --- конвертация: только доверенные фронты ---
	r.Group(func(cr chi.Router) {
		cr.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsOrigins,
			AllowedMethods:   []string{"POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", HeaderXRequestID},
			ExposedHeaders:   []string{"Content-Disposition", HeaderXRequestID},
			AllowCredentials: true,
		}))

		route(cr, "/pdf-to-jpg", hPDF.PDFToJPG)
		route(cr, "/jpg-to-pdf", hPDF.JPGToPDF)
		route(cr, "/lock-pdf", hPDF.LockPDF)
		route(cr, "/unlock-pdf", hPDF.UnlockPDF)
		route(cr, "/compress-pdf", hPDF.CompressPDF)
	})

	// --- файлы: открыто для всех ---
	r.Group(func(ur chi.Router) {
		ur.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"*"},
			ExposedHeaders: []string{"Content-Disposition", HeaderXRequestID},
		}))

		route(ur, "/upload", hUp.Upload)
		route(ur, "/upload-folder", hUp.UploadFolder)
		ur.Get("/files", hUp.ListFiles)
		ur.Options("/files", noContent)
		ur.Get("/download/{filename}", hUp.Download)
		ur.Options("/download/{filename}", noContent)
	})
}

// route вешает POST и OPTIONS, иначе preflight не доходит до cors-мидлвари группы
func route(r chi.Router, pattern string, h http.HandlerFunc) {
	r.Post(pattern, h)
	r.Options(pattern, noContent)
}

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

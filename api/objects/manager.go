// Package objects streams stored uploads back to clients.
package objects

import (
	"modfy_server/api/middleware"
	"modfy_server/handling"
	"modfy_server/services"
	"net/http"
	"os"
	"path/filepath"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type ObjectRoutesManager struct {
	logger        *gecho.Logger
	uploadService *services.UploadService
	mw            *middleware.Middleware
}

func NewObjectRoutesManager(logger *gecho.Logger, uploadService *services.UploadService, mw *middleware.Middleware) *ObjectRoutesManager {
	return &ObjectRoutesManager{
		logger:        logger,
		uploadService: uploadService,
		mw:            mw,
	}
}

// RegisterRoutes serves /public-objects to everyone. Private objects only reach admins.
func (orm *ObjectRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/public-objects/*", orm.serve(orm.uploadService.OpenPublic, "public, max-age=3600"))
	r.With(orm.mw.RequireAdmin).Get("/objects/*", orm.serve(orm.uploadService.OpenPrivate, "private, no-store"))
}

func (orm *ObjectRoutesManager) serve(open func(string) (*os.File, error), cacheControl string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := open(chi.URLParam(r, "*"))
		if err != nil {
			handling.HandleError(err, "Failed to open object", orm.logger, w)
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			handling.HandleError(err, "Failed to open object", orm.logger, w)
			return
		}

		w.Header().Set("Cache-Control", cacheControl)
		http.ServeContent(w, r, filepath.Base(f.Name()), info.ModTime(), f)
	}
}

package admin

import (
	"modfy_server/handling"
	"modfy_server/lib"
	"modfy_server/services"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

const multipartMemory = 10 << 20

func (ar *AdminRoutesManager) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	ar.uploadImage(w, r, services.UploadProducts, "productName")
}

func (ar *AdminRoutesManager) UploadCategoryImage(w http.ResponseWriter, r *http.Request) {
	ar.uploadImage(w, r, services.UploadCategories, "categoryName")
}

// uploadImage stores the multipart "image" field under the folder named by ownerField.
func (ar *AdminRoutesManager) uploadImage(w http.ResponseWriter, r *http.Request, kind services.UploadKind, ownerField string) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		handling.InvalidBody(lib.NewValidationError("image", "must be sent as multipart/form-data"), ar.logger, w)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		handling.InvalidBody(lib.NewValidationError("image", "is required"), ar.logger, w)
		return
	}
	defer file.Close()

	owner := r.FormValue(ownerField)
	if owner == "" {
		owner = r.FormValue("name")
	}
	if owner == "" {
		owner = "uncategorized"
	}

	url, err := ar.uploadService.SaveImage(kind, owner, header.Filename, file)
	if err != nil {
		handling.HandleError(err, "Failed to upload image", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Image uploaded successfully"),
		gecho.WithData(map[string]string{"imageUrl": url}),
		gecho.Send(),
	)
}

// IssueUploadURL hands out a one-off target for a raw PUT upload.
func (ar *AdminRoutesManager) IssueUploadURL(w http.ResponseWriter, r *http.Request) {
	target, err := ar.uploadService.IssueUploadURL(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to issue upload url", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(target), gecho.Send())
}

func (ar *AdminRoutesManager) PutObject(w http.ResponseWriter, r *http.Request) {
	objectPath, err := ar.uploadService.SavePrivateObject(r.Context(), chi.URLParam(r, "objectId"), r.Body)
	if err != nil {
		handling.HandleError(err, "Failed to store object", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(map[string]string{"objectPath": objectPath}), gecho.Send())
}

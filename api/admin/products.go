package admin

import (
	"bytes"
	"fmt"
	"modfy_server/handling"
	"modfy_server/lib"
	"modfy_server/structs"
	"net/http"
	"strconv"
	"time"

	"github.com/MonkyMars/gecho"
)

// ListProducts returns active and inactive products; isActive narrows it down.
func (ar *AdminRoutesManager) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := handling.ParseProductFilter(r)
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	products, err := ar.catalogService.ListProducts(r.Context(), filter, false)
	if err != nil {
		handling.HandleError(err, "Failed to fetch products", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(products), gecho.Send())
}

func (ar *AdminRoutesManager) CreateProduct(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ProductRequest](r)
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	ar.logger.Debug("CreateProduct request received",
		gecho.Field("product_name", body.Name),
		gecho.Field("images_count", len(body.Images)),
	)

	product, err := ar.catalogService.CreateProduct(r.Context(), body)
	if err != nil {
		handling.HandleError(err, "Unable to create product. Please try again", ar.logger, w)
		return
	}
	gecho.Created(w, gecho.WithMessage("Product created successfully"), gecho.WithData(product), gecho.Send())
}

func (ar *AdminRoutesManager) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateProductRequest](r)
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	product, err := ar.catalogService.UpdateProduct(r.Context(), id, body)
	if err != nil {
		handling.HandleError(err, "Unable to update product. Please try again", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Product updated successfully"), gecho.WithData(product), gecho.Send())
}

// CycleProductStatus moves Active to Out of Stock to Inactive and back to Active.
func (ar *AdminRoutesManager) CycleProductStatus(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	product, err := ar.catalogService.CycleProductStatus(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Unable to change product status. Please try again", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Product status updated"), gecho.WithData(product), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	if err := ar.catalogService.DeleteProduct(r.Context(), id); err != nil {
		handling.HandleError(err, "Unable to delete product. Please try again", ar.logger, w)
		return
	}
	handling.NoContent(w)
}

// ExportProducts streams the catalog as an .xlsx workbook.
func (ar *AdminRoutesManager) ExportProducts(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := ar.catalogService.ExportProducts(r.Context(), &buf); err != nil {
		handling.HandleError(err, "Unable to export products", ar.logger, w)
		return
	}

	filename := fmt.Sprintf("products-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		ar.logger.Warn("Failed to write product export", gecho.Field("error", err))
	}
}

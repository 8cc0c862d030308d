package handling

import (
	"modfy_server/lib"
	"modfy_server/storage"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ParseProductFilter reads categoryId, subcategoryId, isFeatured, isActive and search.
func ParseProductFilter(r *http.Request) (storage.ProductFilter, error) {
	query := r.URL.Query()
	var filter storage.ProductFilter

	if len(query) == 0 {
		return filter, nil
	}

	if v := query.Get("categoryId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, lib.NewValidationError("categoryId", "must be a valid UUID")
		}
		filter.CategoryID = &id
	}

	if v := query.Get("subcategoryId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, lib.NewValidationError("subcategoryId", "must be a valid UUID")
		}
		filter.SubcategoryID = &id
	}

	if v := query.Get("isFeatured"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, lib.NewValidationError("isFeatured", "must be true or false")
		}
		filter.IsFeatured = &b
	}

	if v := query.Get("isActive"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, lib.NewValidationError("isActive", "must be true or false")
		}
		filter.IsActive = &b
	}

	filter.Search = strings.TrimSpace(query.Get("search"))
	return filter, nil
}

// URLParamUUID parses a chi url parameter as a UUID.
func URLParamUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, lib.NewValidationError(name, "must be a valid UUID")
	}
	return id, nil
}

// QueryBool reports whether the query parameter is set to a true value.
func QueryBool(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return b
}

// QueryInt returns the query parameter as an int, or def when missing or malformed.
func QueryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}

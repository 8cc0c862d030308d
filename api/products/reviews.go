package products

import (
	"modfy_server/api/middleware"
	"modfy_server/handling"
	"modfy_server/lib"
	"modfy_server/services"
	"modfy_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// productID resolves the {id} param, which may also be a slug, to an active product's id.
func (p *ProductRoutesManager) productID(r *http.Request) (uuid.UUID, error) {
	product, err := p.catalogService.GetProduct(r.Context(), chi.URLParam(r, "id"), true)
	if err != nil {
		return uuid.Nil, err
	}
	return product.ID, nil
}

func (p *ProductRoutesManager) FetchReviews(w http.ResponseWriter, r *http.Request) {
	productID, err := p.productID(r)
	if err != nil {
		handling.HandleError(err, "Failed to fetch reviews", p.logger, w)
		return
	}

	reviews, err := p.reviewService.List(r.Context(), productID)
	if err != nil {
		handling.HandleError(err, "Failed to fetch reviews", p.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(reviews), gecho.Send())
}

func (p *ProductRoutesManager) CreateReview(w http.ResponseWriter, r *http.Request) {
	productID, err := p.productID(r)
	if err != nil {
		handling.HandleError(err, "Failed to create review", p.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.ReviewRequest](r)
	if err != nil {
		handling.InvalidBody(err, p.logger, w)
		return
	}

	review, err := p.reviewService.Create(r.Context(), middleware.GetSession(r.Context()), productID, body)
	if err != nil {
		handling.HandleError(err, "Failed to create review", p.logger, w)
		return
	}
	gecho.Created(w, gecho.WithMessage("Review submitted"), gecho.WithData(review), gecho.Send())
}

func (p *ProductRoutesManager) DeleteReview(w http.ResponseWriter, r *http.Request) {
	productID, err := p.productID(r)
	if err != nil {
		handling.HandleError(err, "Failed to delete review", p.logger, w)
		return
	}

	reviewID, err := handling.URLParamUUID(r, "reviewId")
	if err != nil {
		handling.InvalidBody(err, p.logger, w)
		return
	}

	if err := p.reviewService.Delete(r.Context(), middleware.GetSession(r.Context()), productID, reviewID); err != nil {
		handling.HandleError(err, "Failed to delete review", p.logger, w)
		return
	}
	handling.NoContent(w)
}

func (p *ProductRoutesManager) FetchRandomReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := p.reviewService.Random(r.Context(), handling.QueryInt(r, "limit", services.DefaultRandomReviews))
	if err != nil {
		handling.HandleError(err, "Failed to fetch reviews", p.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(reviews), gecho.Send())
}

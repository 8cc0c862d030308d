package services

import (
	"context"
	"errors"
	"modfy_server/lib"
	"modfy_server/storage"
	"modfy_server/structs"
	"modfy_server/structs/tables"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

const (
	DefaultRandomReviews = 3
	MaxRandomReviews     = 20
)

type ReviewService struct {
	logger *gecho.Logger
	store  storage.Storage
}

func NewReviewService(logger *gecho.Logger, store storage.Storage) *ReviewService {
	return &ReviewService{
		logger: logger,
		store:  store,
	}
}

func (rs *ReviewService) List(ctx context.Context, productID uuid.UUID) ([]*tables.Review, error) {
	if _, err := rs.store.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	reviews, err := rs.store.ListReviews(ctx, productID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []*tables.Review{}
	}
	return reviews, nil
}

// Create stores a review by the session's user or guest. Logged-in buyers get the verified flag.
func (rs *ReviewService) Create(ctx context.Context, session *structs.Session, productID uuid.UUID, req *structs.ReviewRequest) (*tables.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, lib.NewValidationError("rating", "must be between 1 and 5")
	}

	review := &tables.Review{
		ProductID:  productID,
		Rating:     req.Rating,
		Title:      strings.TrimSpace(req.Title),
		Comment:    strings.TrimSpace(req.Comment),
		AuthorName: strings.TrimSpace(req.AuthorName),
	}

	switch {
	case session.IsAuthenticated():
		userID := *session.UserID
		review.UserID = &userID
		if review.AuthorName == "" && session.User != nil {
			review.AuthorName = strings.TrimSpace(session.User.FirstName + " " + session.User.LastName)
		}

		purchased, err := rs.store.HasPurchased(ctx, userID, productID)
		if err != nil {
			return nil, err
		}
		review.IsVerifiedPurchase = purchased
	case session != nil:
		review.SessionID = session.ID
	}
	if review.AuthorName == "" {
		review.AuthorName = "Anonymous"
	}

	if err := rs.store.CreateReview(ctx, review); err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			return nil, err
		}
		rs.logger.Error("Failed to create review", gecho.Field("error", err), gecho.Field("product_id", productID))
		return nil, err
	}
	return review, nil
}

// Delete removes a review when the session wrote it or belongs to an admin.
func (rs *ReviewService) Delete(ctx context.Context, session *structs.Session, productID, reviewID uuid.UUID) error {
	review, err := rs.store.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.ProductID != productID {
		return lib.ErrNotFound
	}
	if !canDeleteReview(session, review) {
		return lib.ErrForbidden
	}
	return rs.store.DeleteReview(ctx, reviewID)
}

func canDeleteReview(session *structs.Session, review *tables.Review) bool {
	switch {
	case session == nil:
		return false
	case session.IsAdmin():
		return true
	case session.IsAuthenticated():
		return review.UserID != nil && *review.UserID == *session.UserID
	default:
		return review.UserID == nil && review.SessionID != "" && review.SessionID == session.ID
	}
}

// Random returns a random sample. limit is clamped to 1..20, zero means the default of 3.
func (rs *ReviewService) Random(ctx context.Context, limit int) ([]*tables.Review, error) {
	switch {
	case limit <= 0:
		limit = DefaultRandomReviews
	case limit > MaxRandomReviews:
		limit = MaxRandomReviews
	}

	reviews, err := rs.store.RandomReviews(ctx, limit)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []*tables.Review{}
	}
	return reviews, nil
}

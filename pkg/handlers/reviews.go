package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sakenavi/sakenavi-engine/pkg/apperrors"
	"github.com/sakenavi/sakenavi-engine/pkg/models"
	"github.com/sakenavi/sakenavi-engine/pkg/services"
)

// ReviewRecorder records and lists tasting notes.
type ReviewRecorder interface {
	Create(ctx context.Context, input services.CreateReviewInput) (*models.Review, error)
	ListBySake(ctx context.Context, sakeID uuid.UUID, limit int) ([]*models.Review, error)
}

// ReviewHandler handles review HTTP requests.
type ReviewHandler struct {
	reviews ReviewRecorder
	logger  *zap.Logger
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviews ReviewRecorder, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		logger:  logger,
	}
}

// RegisterRoutes registers the review handler's routes on the given mux.
func (h *ReviewHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/brands/{id}/reviews", h.CreateReview)
	mux.HandleFunc("GET /api/brands/{id}/reviews", h.ListReviews)
}

// CreateReview handles POST /api/brands/{id}/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	sakeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_brand_id", "brand id must be a UUID")
		return
	}

	var input services.CreateReviewInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request_body", "request body must be valid JSON")
		return
	}
	input.SakeID = sakeID

	review, err := h.reviews.Create(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidRating):
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_rating", err.Error())
		case errors.Is(err, apperrors.ErrNotFound):
			_ = ErrorResponse(w, http.StatusNotFound, "brand_not_found", "brand not found")
		default:
			h.logger.Error("Failed to create review", zap.Error(err))
			_ = ErrorResponse(w, http.StatusInternalServerError, "create_review_failed", "failed to create review")
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, review); err != nil {
		h.logger.Error("Failed to encode review response", zap.Error(err))
	}
}

// ListReviews handles GET /api/brands/{id}/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	sakeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_brand_id", "brand id must be a UUID")
		return
	}

	reviews, err := h.reviews.ListBySake(r.Context(), sakeID, parseLimit(r))
	if err != nil {
		h.logger.Error("Failed to list reviews", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "list_reviews_failed", "failed to list reviews")
		return
	}
	if reviews == nil {
		reviews = []*models.Review{}
	}

	if err := WriteJSON(w, http.StatusOK, reviews); err != nil {
		h.logger.Error("Failed to encode reviews response", zap.Error(err))
	}
}

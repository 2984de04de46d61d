package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sakenavi/sakenavi-engine/pkg/apperrors"
	"github.com/sakenavi/sakenavi-engine/pkg/models"
	"github.com/sakenavi/sakenavi-engine/pkg/services"
)

type stubReviewRecorder struct {
	created   *models.Review
	listed    []*models.Review
	err       error
	lastInput services.CreateReviewInput
}

func (s *stubReviewRecorder) Create(ctx context.Context, input services.CreateReviewInput) (*models.Review, error) {
	s.lastInput = input
	return s.created, s.err
}

func (s *stubReviewRecorder) ListBySake(ctx context.Context, sakeID uuid.UUID, limit int) ([]*models.Review, error) {
	return s.listed, s.err
}

func newReviewServer(reviews ReviewRecorder) *httptest.Server {
	mux := http.NewServeMux()
	NewReviewHandler(reviews, zap.NewNop()).RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

func TestCreateReview_Created(t *testing.T) {
	brandID := uuid.New()
	stub := &stubReviewRecorder{created: &models.Review{ID: uuid.New(), SakeID: brandID, Rating: 4.5}}
	server := newReviewServer(stub)
	defer server.Close()

	body := `{"email":"taster@example.com","rating":4.5,"comment":"crisp"}`
	resp, err := http.Post(server.URL+"/api/brands/"+brandID.String()+"/reviews", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Equal(t, brandID, stub.lastInput.SakeID, "brand id comes from the path, not the body")
	assert.Equal(t, "taster@example.com", stub.lastInput.Email)

	var review models.Review
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&review))
	assert.Equal(t, 4.5, review.Rating)
}

func TestCreateReview_InvalidRatingIsBadRequest(t *testing.T) {
	server := newReviewServer(&stubReviewRecorder{err: apperrors.ErrInvalidRating})
	defer server.Close()

	body := `{"email":"taster@example.com","rating":9}`
	resp, err := http.Post(server.URL+"/api/brands/"+uuid.NewString()+"/reviews", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateReview_UnknownBrandIsNotFound(t *testing.T) {
	server := newReviewServer(&stubReviewRecorder{err: apperrors.ErrNotFound})
	defer server.Close()

	body := `{"email":"taster@example.com","rating":4}`
	resp, err := http.Post(server.URL+"/api/brands/"+uuid.NewString()+"/reviews", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateReview_MalformedBodyIsBadRequest(t *testing.T) {
	server := newReviewServer(&stubReviewRecorder{})
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/brands/"+uuid.NewString()+"/reviews", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListReviews_EmptyResultIsJSONArray(t *testing.T) {
	server := newReviewServer(&stubReviewRecorder{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/brands/" + uuid.NewString() + "/reviews")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reviews []*models.Review
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reviews))
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
}

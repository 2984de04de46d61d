package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sakenavi/sakenavi-engine/pkg/apperrors"
	"github.com/sakenavi/sakenavi-engine/pkg/models"
)

// stubBrandReader returns canned catalog data and records query arguments.
type stubBrandReader struct {
	detail  *models.BrandDetail
	results []*models.BrandDetail
	ranked  []*models.RankedBrand
	err     error

	lastQuery    string
	lastCategory string
	lastTag      string
}

func (s *stubBrandReader) Search(ctx context.Context, query string, limit int) ([]*models.BrandDetail, error) {
	s.lastQuery = query
	return s.results, s.err
}

func (s *stubBrandReader) GetDetail(ctx context.Context, id uuid.UUID) (*models.BrandDetail, error) {
	return s.detail, s.err
}

func (s *stubBrandReader) TopRankings(ctx context.Context, category string, limit int) ([]*models.RankedBrand, error) {
	s.lastCategory = category
	return s.ranked, s.err
}

func (s *stubBrandReader) BrandsByFlavorTag(ctx context.Context, tagName string, limit int) ([]*models.RankedBrand, error) {
	s.lastTag = tagName
	return s.ranked, s.err
}

func newCatalogServer(brands BrandReader) *httptest.Server {
	mux := http.NewServeMux()
	NewCatalogHandler(brands, zap.NewNop()).RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

func TestSearchBrands_PassesQuery(t *testing.T) {
	stub := &stubBrandReader{results: []*models.BrandDetail{
		{SakeBrand: models.SakeBrand{ID: uuid.New(), Name: "Kubota"}, BreweryName: "Asahi Shuzo"},
	}}
	server := newCatalogServer(stub)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/brands?q=kubota")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "kubota", stub.lastQuery)

	var results []*models.BrandDetail
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&results))
	require.Len(t, results, 1)
	assert.Equal(t, "Kubota", results[0].Name)
}

func TestSearchBrands_EmptyResultIsJSONArray(t *testing.T) {
	server := newCatalogServer(&stubBrandReader{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/brands")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var results []*models.BrandDetail
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&results))
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestGetBrand_InvalidIDIsBadRequest(t *testing.T) {
	server := newCatalogServer(&stubBrandReader{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/brands/not-a-uuid")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetBrand_MissingIsNotFound(t *testing.T) {
	server := newCatalogServer(&stubBrandReader{err: apperrors.ErrNotFound})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/brands/" + uuid.NewString())
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetBrand_RepositoryErrorIsInternal(t *testing.T) {
	server := newCatalogServer(&stubBrandReader{err: errors.New("connection lost")})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/brands/" + uuid.NewString())
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestGetRankings_PassesCategory(t *testing.T) {
	stub := &stubBrandReader{ranked: []*models.RankedBrand{
		{Ranking: models.Ranking{Rank: 1, Category: "overall"}, BrandName: "Tama Jiman"},
	}}
	server := newCatalogServer(stub)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/rankings?category=overall")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "overall", stub.lastCategory)

	var ranked []*models.RankedBrand
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ranked))
	require.Len(t, ranked, 1)
	assert.Equal(t, "Tama Jiman", ranked[0].BrandName)
}

func TestGetBrandsByFlavorTag_PassesName(t *testing.T) {
	stub := &stubBrandReader{}
	server := newCatalogServer(stub)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/flavor-tags/fruity/brands")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "fruity", stub.lastTag)
}

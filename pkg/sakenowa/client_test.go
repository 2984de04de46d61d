package sakenowa

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestClient points a client at a stub API serving fixed responses per
// path.
func newTestClient(t *testing.T, responses map[string]string) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := responses[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(&Config{BaseURL: server.URL, Timeout: 5 * time.Second}, zap.NewNop())
	require.NoError(t, err)
	return client, server
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(&Config{BaseURL: "", Timeout: time.Second}, zap.NewNop())
	assert.Error(t, err, "empty base URL must be rejected")

	_, err = NewClient(&Config{BaseURL: "http://example.com", Timeout: 0}, zap.NewNop())
	assert.Error(t, err, "zero timeout must be rejected")
}

func TestAreas_BareArray(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{
		"/areas": `[{"id":1,"name":"Tokyo"},{"id":2,"name":"Kyoto"}]`,
	})

	areas, err := client.Areas(context.Background())
	require.NoError(t, err)
	require.Len(t, areas, 2)
	assert.Equal(t, ExternalID("1"), areas[0].ID)
	assert.Equal(t, "Tokyo", areas[0].Name)
}

func TestAreas_WrappedObject(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{
		"/areas": `{"areas":[{"id":"13","name":"Tokyo"}]}`,
	})

	areas, err := client.Areas(context.Background())
	require.NoError(t, err)
	require.Len(t, areas, 1)
	assert.Equal(t, ExternalID("13"), areas[0].ID)
}

func TestAreas_EmptyCollectionIsNotAnError(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{
		"/areas": `{"areas":[]}`,
	})

	areas, err := client.Areas(context.Background())
	require.NoError(t, err)
	assert.Empty(t, areas)
}

func TestAreas_UnrecognizedWrapperKeyIsFormatError(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{
		"/areas": `{"prefectures":[{"id":1,"name":"Tokyo"}]}`,
	})

	_, err := client.Areas(context.Background())
	require.Error(t, err)
	assert.True(t, IsFormatError(err), "unrecognized shape must be a format error, not an empty result")
	assert.False(t, IsNetworkError(err))
}

func TestAreas_ScalarPayloadIsFormatError(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{
		"/areas": `"unexpected"`,
	})

	_, err := client.Areas(context.Background())
	require.Error(t, err)
	assert.True(t, IsFormatError(err))
}

func TestGet_ServerErrorIsRetryableNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(&Config{BaseURL: server.URL, Timeout: 5 * time.Second}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.Brands(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))

	var clientErr *Error
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusInternalServerError, clientErr.StatusCode)
	assert.Contains(t, clientErr.Body, "upstream exploded")
	assert.True(t, clientErr.IsRetryable())
}

func TestGet_NotFoundIsNonRetryableNetworkError(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{})

	_, err := client.Breweries(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))

	var clientErr *Error
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, http.StatusNotFound, clientErr.StatusCode)
	assert.False(t, clientErr.IsRetryable())
}

func TestGet_TransportFailureIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client, err := NewClient(&Config{BaseURL: server.URL, Timeout: 5 * time.Second}, zap.NewNop())
	require.NoError(t, err)
	server.Close() // connection refused from here on

	_, err = client.Areas(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
}

func TestBreweries_NumericAndStringForeignKeys(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{
		"/breweries": `{"breweries":[{"id":10,"name":"Acme","areaId":1},{"id":"11","name":"Beta","areaId":"1"}]}`,
	})

	breweries, err := client.Breweries(context.Background())
	require.NoError(t, err)
	require.Len(t, breweries, 2)
	assert.Equal(t, ExternalID("1"), breweries[0].AreaID)
	assert.Equal(t, ExternalID("1"), breweries[1].AreaID)
}

func TestFlavorCharts_Wrapped(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{
		"/flavor-charts": `{"flavorCharts":[{"brandId":100,"f1":0.8,"f2":0.2}]}`,
	})

	charts, err := client.FlavorCharts(context.Background())
	require.NoError(t, err)
	require.Len(t, charts, 1)
	assert.Equal(t, ExternalID("100"), charts[0].BrandID)
	assert.Equal(t, 0.8, charts[0].F1.Value())
	assert.Equal(t, 0.0, charts[0].F3.Value())
}

func TestFlavorTags_BothWrapperKeys(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{
		"/flavor-tags": `{"tags":[{"id":1,"tag":"fruity"}]}`,
	})
	tags, err := client.FlavorTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "fruity", tags[0].Name)

	client2, _ := newTestClient(t, map[string]string{
		"/flavor-tags": `{"flavorTags":[{"id":2,"name":"dry"}]}`,
	})
	tags, err = client2.FlavorTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "dry", tags[0].Name)
}

func TestBrandFlavorTags(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{
		"/brand-flavor-tags": `{"flavorTags":[{"brandId":100,"tagIds":[1,2,3]}]}`,
	})

	links, err := client.BrandFlavorTags(context.Background())
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, ExternalID("100"), links[0].BrandID)
	assert.Equal(t, []ExternalID{"1", "2", "3"}, links[0].TagIDs)
}

func TestRankings_CategoryBreakdown(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{
		"/rankings": `{
			"overall":[{"brandId":100,"rank":1,"score":95.0}],
			"areas":[{"areaId":1,"ranking":[{"brandId":100,"rank":1,"score":90.5}]}]
		}`,
	})

	rankings, err := client.Rankings(context.Background())
	require.NoError(t, err)
	require.Len(t, rankings.Overall, 1)
	assert.Equal(t, 1, rankings.Overall[0].Rank)
	assert.Equal(t, 95.0, rankings.Overall[0].ScoreValue())
	require.Len(t, rankings.Areas, 1)
	assert.Equal(t, ExternalID("1"), rankings.Areas[0].AreaID)
	require.Len(t, rankings.Areas[0].Ranking, 1)
}

func TestRankings_BareArrayIsOverallOnly(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{
		"/rankings": `[{"brandId":100,"rank":1}]`,
	})

	rankings, err := client.Rankings(context.Background())
	require.NoError(t, err)
	require.Len(t, rankings.Overall, 1)
	assert.Empty(t, rankings.Areas)
}

func TestRankings_UnrecognizedObjectIsFormatError(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{
		"/rankings": `{"monthly":[{"brandId":100,"rank":1}]}`,
	})

	_, err := client.Rankings(context.Background())
	require.Error(t, err)
	assert.True(t, IsFormatError(err))
}

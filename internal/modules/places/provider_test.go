package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-journal-backend/internal/models"
)

func TestHTTPProvider_SearchNormalizesDocuments(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("query")
		w.Write([]byte(`{
			"documents": [
				{"id": "123", "place_name": "Gwangalli Beach", "road_address_name": "219 Gwanganhaebyeon-ro", "y": "35.1532", "x": "129.1186", "category_group_code": "AT4"},
				{"contentid": "456", "title": "Haedong Yonggungsa", "addr1": "86 Yonggung-gil", "mapy": 35.1884, "mapx": 129.2233, "contenttypeid": "12"}
			],
			"meta": {"total_count": 2, "is_end": true}
		}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "test-key")
	result, err := p.Search(context.Background(), models.PlaceSearchRequest{Keyword: "busan"})
	require.NoError(t, err)

	assert.Equal(t, "KakaoAK test-key", gotAuth)
	assert.Equal(t, "busan", gotQuery)
	assert.Equal(t, 2, result.TotalCount)
	assert.True(t, result.IsEnd)
	assert.Equal(t, 1, result.Page)
	require.Len(t, result.Places, 2)

	first := result.Places[0]
	assert.Equal(t, "123", first.ID)
	assert.Equal(t, "Gwangalli Beach", first.Name)
	assert.Equal(t, "219 Gwanganhaebyeon-ro", first.Address)
	assert.InDelta(t, 35.1532, first.Coordinates.Lat, 1e-9, "string coordinates are parsed")
	assert.InDelta(t, 129.1186, first.Coordinates.Lng, 1e-9)
	assert.Equal(t, models.PlaceSourceSearch, first.Source)
	assert.Equal(t, "AT4", first.Category)

	// Alternate upstream spellings fold to the same canonical fields.
	second := result.Places[1]
	assert.Equal(t, "456", second.ID)
	assert.Equal(t, "Haedong Yonggungsa", second.Name)
	assert.Equal(t, "86 Yonggung-gil", second.Address)
	assert.InDelta(t, 35.1884, second.Coordinates.Lat, 1e-9)
	assert.Equal(t, "12", second.ContentType)
}

func TestHTTPProvider_SearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "bad-key")
	_, err := p.Search(context.Background(), models.PlaceSearchRequest{Keyword: "busan"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestHTTPProvider_DetailContentFlags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/detail", r.URL.Path)
		assert.Equal(t, "456", r.URL.Query().Get("id"))
		w.Write([]byte(`{
			"contentid": "456", "title": "Haedong Yonggungsa",
			"overview": "A seaside temple.",
			"firstimage": "https://img.example/456.jpg",
			"tel": "051-722-7744",
			"mapy": "35.1884", "mapx": "129.2233"
		}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "test-key")
	detail, err := p.Detail(context.Background(), "456", "12")
	require.NoError(t, err)

	assert.Equal(t, "A seaside temple.", detail.Overview)
	assert.Equal(t, "https://img.example/456.jpg", detail.ImageURL)
	assert.Equal(t, "051-722-7744", detail.Tel)
	assert.Equal(t, "12", detail.ContentType)
	assert.True(t, detail.HasDetail)
}

func TestHTTPProvider_DetailWithoutContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"contentid": "789", "title": "Unknown Alley"}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "test-key")
	detail, err := p.Detail(context.Background(), "789", "")
	require.NoError(t, err)
	assert.False(t, detail.HasDetail, "no overview and no image means nothing to show")
}

func TestHTTPProvider_DetailCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewHTTPProvider(srv.URL, "test-key")
	_, err := p.Detail(ctx, "456", "12")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPickFloat(t *testing.T) {
	doc := map[string]any{"y": "not-a-number", "lat": 35.5}
	assert.InDelta(t, 35.5, pickFloat(doc, "y", "lat"), 1e-9, "unparsable string falls through to next key")
	assert.Zero(t, pickFloat(doc, "missing"))
}

func TestPickBool(t *testing.T) {
	assert.True(t, pickBool(map[string]any{"is_end": true}, "is_end"))
	assert.True(t, pickBool(map[string]any{"is_end": "Y"}, "is_end"))
	assert.True(t, pickBool(map[string]any{"is_end": "true"}, "is_end"))
	assert.True(t, pickBool(map[string]any{"is_end": float64(1)}, "is_end"))
	assert.False(t, pickBool(map[string]any{"is_end": "N"}, "is_end"))
	assert.False(t, pickBool(map[string]any{}, "is_end"))
}

package distributor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/catalogsync/backend/internal/domain/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNODConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *NODConfig
		wantErr error
	}{
		{
			name:    "valid config",
			config:  &NODConfig{APIUser: "user", APIKey: "key"},
			wantErr: nil,
		},
		{
			name:    "missing api user",
			config:  &NODConfig{APIKey: "key"},
			wantErr: provider.ErrMissingCredential,
		},
		{
			name:    "missing api key",
			config:  &NODConfig{APIUser: "user"},
			wantErr: provider.ErrMissingCredential,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, NODDefaultBaseURL, tt.config.BaseURL)
				assert.Equal(t, 3*time.Minute, tt.config.Timeout)
			}
		})
	}
}

func newTestNODAdapter(t *testing.T, baseURL string) *NODAdapter {
	t.Helper()
	adapter, err := NewNODAdapter(&NODConfig{
		BaseURL: baseURL,
		APIUser: "testuser",
		APIKey:  "testkey",
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return adapter
}

func TestNODAdapter_SigningHeaders(t *testing.T) {
	fixedNow := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	var gotHeaders http.Header
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	adapter := newTestNODAdapter(t, server.URL)
	adapter.now = func() time.Time { return fixedNow }

	_, err := adapter.FetchBrands(context.Background())
	require.NoError(t, err)

	want := adapter.signer.Sign(http.MethodGet, gotQuery, fixedNow)
	assert.Equal(t, want.Signature, gotHeaders.Get("X-NodWS-Auth"))
	assert.Equal(t, "testuser", gotHeaders.Get("X-NodWS-User"))
	assert.Equal(t, "json", gotHeaders.Get("X-NodWS-Accept"))
	assert.Equal(t, want.Date, gotHeaders.Get("Date"))
}

func TestNODAdapter_FetchBrands(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bare array", `[{"id":1,"name":"Acer"},{"id":2,"name":"Asus"}]`, 2},
		{"object wrapper", `{"manufacturers":[{"id":"3","name":"Dell"}]}`, 1},
		{"singleton wrapper", `{"manufacturers":{"id":4,"name":"HP"}}`, 1},
		{"nameless entries skipped", `[{"id":5},{"id":6,"name":"Lenovo"}]`, 1},
		{"empty", `[]`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/manufacturers/", r.URL.Path)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			brands, err := newTestNODAdapter(t, server.URL).FetchBrands(context.Background())
			require.NoError(t, err)
			assert.Len(t, brands, tt.want)
		})
	}
}

func TestNODAdapter_FetchCategories(t *testing.T) {
	body := `{"product_categories":[
		{"id":"1","name":"Components","parent_id":"0","children":[
			{"id":"2","name":"CPUs","parent_id":"1"}
		]},
		{"id":"3","name":"Laptops","parent_id":"0","children":{"children":{"id":"4","name":"Ultrabooks","parent_id":"3"}}}
	]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	categories, err := newTestNODAdapter(t, server.URL).FetchCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 4)

	byID := make(map[string]provider.NormalizedCategory)
	for _, c := range categories {
		byID[c.ExternalID] = c
	}
	assert.Equal(t, "", byID["1"].ParentExternalID) // root "0" is cleared
	assert.Equal(t, "1", byID["2"].ParentExternalID)
	assert.Equal(t, "3", byID["4"].ParentExternalID)
}

func TestNODAdapter_FetchProducts_FullFeed(t *testing.T) {
	body := `{"result":{"products":[
		{"id":101,"code":"NB-1","title":"Notebook","ron_promo_price":"1999.99","ron_price":"2299.00","stock_value":7,
		 "manufacturer_id":2,"product_category_id":"15","ean":"5901234123457",
		 "images":"http://img/a.jpg,nan","pictures":[{"url_overlay_picture":"http://img/b.jpg"},{"url_thumbnail_picture":"http://img/c.jpg"}]},
		{"id":102,"ron_price":0,"price":"45.5","stock_value":0},
		{"title":"no id or code, skipped"}
	]}}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/full-feed", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Write([]byte(body))
	}))
	defer server.Close()

	result, err := newTestNODAdapter(t, server.URL).FetchProducts(context.Background(), provider.FetchOptions{})
	require.NoError(t, err)
	require.Len(t, result.Products, 2)
	assert.False(t, result.HasMore)

	p := result.Products[0]
	assert.Equal(t, "101", p.ExternalID)
	assert.Equal(t, "NB-1", p.SKU)
	assert.Equal(t, "Notebook", p.Name)
	require.NotNil(t, p.Price)
	assert.Equal(t, "1999.99", p.Price.String()) // promo beats list
	assert.Equal(t, "RON", p.Currency)
	require.NotNil(t, p.StockQty)
	assert.Equal(t, 7, *p.StockQty)
	assert.True(t, p.InStock)
	assert.Equal(t, []string{"http://img/a.jpg", "http://img/b.jpg", "http://img/c.jpg"}, p.Images)
	assert.Equal(t, "2", p.BrandExternalID)
	assert.Equal(t, "15", p.CategoryExternalID)
	assert.Equal(t, "5901234123457", p.Attributes["ean"])

	fallback := result.Products[1]
	assert.Equal(t, "NOD-102", fallback.Name) // title fallback
	require.NotNil(t, fallback.Price)
	assert.Equal(t, "45.5", fallback.Price.String()) // zero ron_price skipped
	assert.False(t, fallback.InStock)
}

func TestNODAdapter_FetchProducts_Delta(t *testing.T) {
	since := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/stock-changes", r.URL.Path)
		assert.Equal(t, "2024-05-01 08:30:00", r.URL.Query().Get("changedfrom"))
		w.Write([]byte(`{"result":[{"id":101,"code":"NB-1","stock_value":3},{"id":102,"stock_value":0}]}`))
	}))
	defer server.Close()

	result, err := newTestNODAdapter(t, server.URL).FetchProducts(context.Background(), provider.FetchOptions{UpdatedSince: &since})
	require.NoError(t, err)
	require.Len(t, result.Products, 2)

	assert.Equal(t, "NB-1", result.Products[0].SKU)
	require.NotNil(t, result.Products[0].StockQty)
	assert.Equal(t, 3, *result.Products[0].StockQty)
	assert.True(t, result.Products[0].InStock)
	assert.Nil(t, result.Products[0].Price) // delta carries no prices

	assert.Equal(t, "102", result.Products[1].Name) // code fallback
	assert.False(t, result.Products[1].InStock)
}

func TestNODAdapter_FetchProducts_DeltaFailureCollapsesToEmpty(t *testing.T) {
	since := time.Now().Add(-time.Hour)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	result, err := newTestNODAdapter(t, server.URL).FetchProducts(context.Background(), provider.FetchOptions{UpdatedSince: &since})
	require.NoError(t, err)
	assert.Empty(t, result.Products)
	assert.False(t, result.HasMore)
}

func TestNODAdapter_FetchProducts_CursorFullForcesFullFeed(t *testing.T) {
	since := time.Now().Add(-time.Hour)
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := newTestNODAdapter(t, server.URL).FetchProducts(context.Background(), provider.FetchOptions{
		UpdatedSince: &since,
		Cursor:       "full",
	})
	require.NoError(t, err)
	assert.Equal(t, "/products/full-feed", gotPath)
}

func TestNODAdapter_ErrorMapping(t *testing.T) {
	t.Run("non-200 response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		_, err := newTestNODAdapter(t, server.URL).FetchBrands(context.Background())
		assert.ErrorIs(t, err, provider.ErrFeedRequestFailed)
	})

	t.Run("invalid json", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{not json`))
		}))
		defer server.Close()

		_, err := newTestNODAdapter(t, server.URL).FetchBrands(context.Background())
		assert.ErrorIs(t, err, provider.ErrFeedInvalidResponse)
	})

	t.Run("unreachable host", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // connection refused

		_, err := newTestNODAdapter(t, server.URL).FetchBrands(context.Background())
		assert.ErrorIs(t, err, provider.ErrFeedUnavailable)
	})
}

func TestNODAdapter_TestConnection(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/product-categories/", r.URL.Path)
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		result := newTestNODAdapter(t, server.URL).TestConnection(context.Background())
		assert.True(t, result.Success)
	})

	t.Run("rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		result := newTestNODAdapter(t, server.URL).TestConnection(context.Background())
		assert.False(t, result.Success)
		assert.NotEmpty(t, result.Message)
	})
}

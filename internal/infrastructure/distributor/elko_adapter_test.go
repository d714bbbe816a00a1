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

func TestElkoConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := &ElkoConfig{Token: "jwt"}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, ElkoDefaultBaseURL, cfg.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
	})

	t.Run("missing token", func(t *testing.T) {
		assert.ErrorIs(t, (&ElkoConfig{}).Validate(), provider.ErrMissingCredential)
	})

	t.Run("trailing slash trimmed", func(t *testing.T) {
		cfg := &ElkoConfig{Token: "jwt", BaseURL: "http://example.test/v3.0/"}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://example.test/v3.0", cfg.BaseURL)
	})
}

func newTestElkoAdapter(t *testing.T, baseURL string) *ElkoAdapter {
	t.Helper()
	adapter, err := NewElkoAdapter(&ElkoConfig{BaseURL: baseURL, Token: "jwt", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return adapter
}

func TestElkoAdapter_FetchProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer jwt", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/Catalogs/Products":
			w.Write([]byte(`[
				{"code":"EK-1","name":"Mouse","price":9.99,"stock":2,"vendorCode":"LOGI","categoryCode":"ACC","ean":"123"},
				{"elkoCode":"EK-2","price":0,"stock":0},
				{"name":"no codes, skipped"}
			]`))
		case "/Catalogs/Products/EK-1/Availability":
			w.Write([]byte(`{"price":8.50,"stock":5}`))
		case "/Catalogs/Products/EK-2/Availability":
			w.WriteHeader(http.StatusNotFound)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	result, err := newTestElkoAdapter(t, server.URL).FetchProducts(context.Background(), provider.FetchOptions{})
	require.NoError(t, err)
	require.Len(t, result.Products, 2)

	enriched := result.Products[0]
	assert.Equal(t, "EK-1", enriched.ExternalID)
	require.NotNil(t, enriched.Price)
	assert.Equal(t, "8.5", enriched.Price.String()) // availability overrides listing
	require.NotNil(t, enriched.StockQty)
	assert.Equal(t, 5, *enriched.StockQty)
	assert.True(t, enriched.InStock)
	assert.Equal(t, "EUR", enriched.Currency)
	assert.Equal(t, "LOGI", enriched.BrandExternalID)
	assert.Equal(t, "123", enriched.Attributes["ean"])

	// Availability failed: base listing values kept, name falls back to code
	base := result.Products[1]
	assert.Equal(t, "EK-2", base.ExternalID)
	assert.Equal(t, "EK-2", base.Name)
	assert.Nil(t, base.Price)
	assert.False(t, base.InStock)
}

func TestElkoAdapter_FetchBrandsAndCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Catalogs/Vendors":
			w.Write([]byte(`[{"code":"LOGI","name":"Logitech"},{"code":"","name":"skipped"}]`))
		case "/Catalogs/Categories":
			w.Write([]byte(`[{"code":"ACC","name":"Accessories"},{"code":"MICE","name":"Mice","parentCode":"ACC"}]`))
		}
	}))
	defer server.Close()

	adapter := newTestElkoAdapter(t, server.URL)

	brands, err := adapter.FetchBrands(context.Background())
	require.NoError(t, err)
	require.Len(t, brands, 1)
	assert.Equal(t, "Logitech", brands[0].Name)

	categories, err := adapter.FetchCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "ACC", categories[1].ParentExternalID)
}

func TestElkoAdapter_TestConnection(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"code":"ACC","name":"Accessories"}]`))
		}))
		defer server.Close()

		result := newTestElkoAdapter(t, server.URL).TestConnection(context.Background())
		assert.True(t, result.Success)
		assert.Contains(t, result.Message, "1 categories")
	})

	t.Run("bad token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		result := newTestElkoAdapter(t, server.URL).TestConnection(context.Background())
		assert.False(t, result.Success)
	})
}

func TestElkoAdapter_ListingFailureIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestElkoAdapter(t, server.URL).FetchProducts(context.Background(), provider.FetchOptions{})
	assert.ErrorIs(t, err, provider.ErrFeedRequestFailed)
}

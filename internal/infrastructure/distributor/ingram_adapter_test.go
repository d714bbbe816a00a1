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

func TestIngramConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := &IngramConfig{APIKey: "key123"}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, IngramDefaultBaseURL, cfg.BaseURL)
		assert.Equal(t, IngramDefaultBaseURL+"/ro/api/availability/key123/", cfg.availabilityURL())
	})

	t.Run("missing api key", func(t *testing.T) {
		assert.ErrorIs(t, (&IngramConfig{}).Validate(), provider.ErrMissingCredential)
	})
}

func newTestIngramAdapter(t *testing.T, baseURL string) *IngramAdapter {
	t.Helper()
	adapter, err := NewIngramAdapter(&IngramConfig{BaseURL: baseURL, APIKey: "key123", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return adapter
}

func TestIngramAdapter_FetchProducts(t *testing.T) {
	csv := "p_id;p_pn;p_name;FinalPrice;price;l_price;stockFree;imStock;eancode;manufacturer_name;category_name\n" +
		"1001;SKU-1;Router X;129,90;150,00;170,00;3;12;590123;Cisco;Networking\n" +
		"1002;SKU-2;;;99,50;120,00;0;0;;;\n" +
		";;;;;;;;;;\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ro/api/availability/key123/", r.URL.Path)
		w.Write([]byte(csv))
	}))
	defer server.Close()

	result, err := newTestIngramAdapter(t, server.URL).FetchProducts(context.Background(), provider.FetchOptions{})
	require.NoError(t, err)
	require.Len(t, result.Products, 2)

	p := result.Products[0]
	assert.Equal(t, "1001", p.ExternalID)
	assert.Equal(t, "SKU-1", p.SKU)
	assert.Equal(t, "Router X", p.Name)
	require.NotNil(t, p.Price)
	assert.Equal(t, "129.9", p.Price.String()) // FinalPrice wins, comma decimal
	assert.Equal(t, "EUR", p.Currency)
	require.NotNil(t, p.StockQty)
	assert.Equal(t, 15, *p.StockQty) // local + central
	assert.True(t, p.InStock)
	assert.Equal(t, "3", p.Attributes["local_stock"])
	assert.Equal(t, "12", p.Attributes["central_stock"])
	assert.Equal(t, "Cisco", p.Attributes["brand"])
	assert.Equal(t, "Networking", p.Attributes["category"])
	assert.Equal(t, "590123", p.Attributes["ean"])

	second := result.Products[1]
	assert.Equal(t, "SKU-2", second.Name) // name falls back to sku
	require.NotNil(t, second.Price)
	assert.Equal(t, "99.5", second.Price.String()) // no FinalPrice, price wins over l_price
	assert.False(t, second.InStock)
}

func TestIngramAdapter_FetchProducts_CommaDelimiter(t *testing.T) {
	csv := "ImSKU,VPN,Name,StdPrice,FreeOnStock,CentralStock\n" +
		"IM-1,VPN-1,Switch,45.00,1,2\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(csv))
	}))
	defer server.Close()

	result, err := newTestIngramAdapter(t, server.URL).FetchProducts(context.Background(), provider.FetchOptions{})
	require.NoError(t, err)
	require.Len(t, result.Products, 1)

	p := result.Products[0]
	assert.Equal(t, "IM-1", p.ExternalID)
	assert.Equal(t, "VPN-1", p.SKU)
	require.NotNil(t, p.Price)
	assert.Equal(t, "45", p.Price.String())
	assert.Equal(t, 3, *p.StockQty)
}

func TestIngramAdapter_EmptyTaxonomies(t *testing.T) {
	adapter := newTestIngramAdapter(t, "http://unused.test")

	brands, err := adapter.FetchBrands(context.Background())
	require.NoError(t, err)
	assert.Empty(t, brands)

	categories, err := adapter.FetchCategories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestIngramAdapter_TestConnection(t *testing.T) {
	t.Run("delimited feed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("p_id;p_pn;price\n1;A;2\n"))
		}))
		defer server.Close()

		result := newTestIngramAdapter(t, server.URL).TestConnection(context.Background())
		assert.True(t, result.Success)
	})

	t.Run("html error page with status 200", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html><body>Access denied</body></html>"))
		}))
		defer server.Close()

		result := newTestIngramAdapter(t, server.URL).TestConnection(context.Background())
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "invalid API key")
	})

	t.Run("http error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		result := newTestIngramAdapter(t, server.URL).TestConnection(context.Background())
		assert.False(t, result.Success)
	})
}

func TestIngramPrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"129,90", "129.9"},
		{"45.00", "45"},
		{"0", ""},
		{"", ""},
		{"abc", ""},
		{"-5,00", ""},
	}

	for _, tt := range tests {
		got := ingramPrice(tt.in)
		if tt.want == "" {
			assert.Nil(t, got, "input %q", tt.in)
		} else {
			require.NotNil(t, got, "input %q", tt.in)
			assert.Equal(t, tt.want, got.String())
		}
	}
}

package pricing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRESTClientPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/bill", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var items []string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&items))
		assert.Equal(t, []string{"apple", "apple", "banana"}, items)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"fruits": [
				{"fruit": "apple", "offer": "BOGO", "unitPrice": 2.00, "quantity": 2, "charged": 3.00, "avgPrice": 1.50},
				{"fruit": "banana", "offer": "NONE", "unitPrice": 1.25, "quantity": 1, "charged": 1.25, "avgPrice": 1.25}
			],
			"totalQuantity": 3,
			"totalPrice": 4.25
		}`))
	}))
	defer server.Close()

	client := NewRESTClient(server.URL, 5*time.Second)
	bill, err := client.Price(context.Background(), []string{"apple", "apple", "banana"})
	require.NoError(t, err)

	require.Len(t, bill.Fruits, 2)
	assert.Equal(t, "apple", bill.Fruits[0].Name)
	assert.Equal(t, "BOGO", bill.Fruits[0].Offer)
	assert.Equal(t, 2, bill.Fruits[0].Quantity)
	assert.True(t, bill.Fruits[0].Charged.Equal(decimalFromString(t, "3.00")))
	assert.True(t, bill.Fruits[0].AvgPrice.Equal(decimalFromString(t, "1.5")))
	assert.Equal(t, 3, bill.TotalQuantity)
	assert.True(t, bill.TotalPrice.Equal(decimalFromString(t, "4.25")))
}

func TestRESTClientNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewRESTClient(server.URL, 5*time.Second)
	_, err := client.Price(context.Background(), []string{"apple"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "pricing service error")
}

func TestRESTClientMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewRESTClient(server.URL, 5*time.Second)
	_, err := client.Price(context.Background(), []string{"apple"})
	assert.Error(t, err)
}

func TestRESTClientTimeout(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	client := NewRESTClient(server.URL, 50*time.Millisecond)
	_, err := client.Price(context.Background(), []string{"apple"})
	assert.Error(t, err)
}

func TestRESTClientHonorsContextCancellation(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewRESTClient(server.URL, 10*time.Second)
	_, err := client.Price(ctx, []string{"apple"})
	assert.Error(t, err)
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

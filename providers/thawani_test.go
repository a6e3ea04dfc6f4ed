package providers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilal-alaabadi/arkan-b/models"
	"github.com/bilal-alaabadi/arkan-b/providers"
)

func newTestProvider(serverURL string) *providers.ThawaniProvider {
	return providers.NewThawaniProvider("sk_test", "pk_test", serverURL, "https://checkout.thawani.om")
}

func TestCreateSession(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout/session", r.URL.Path)
		gotAuth = r.Header.Get("thawani-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"session_id":"sess_123"}}`))
	}))
	defer server.Close()

	provider := newTestProvider(server.URL)
	sessionID, err := provider.CreateSession(context.Background(), providers.CreateSessionRequest{
		ClientReferenceID: "ref-1",
		Products: []models.LineItem{
			{Name: "Shayla", Quantity: 2, UnitAmount: 9500},
		},
		SuccessURL: "https://shop.example.com/success",
		CancelURL:  "https://shop.example.com/cancel",
		Metadata:   map[string]string{"order_reference": "ref-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "sess_123", sessionID)

	assert.Equal(t, "sk_test", gotAuth)
	assert.Equal(t, "payment", gotBody["mode"])
	assert.Equal(t, "ref-1", gotBody["client_reference_id"])
}

func TestListSessions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "0", r.URL.Query().Get("skip"))

		w.Write([]byte(`{"data":[
			{"session_id":"sess_1","client_reference_id":"ref-1"},
			{"session_id":"sess_2","client_reference_id":"ref-2"}
		]}`))
	}))
	defer server.Close()

	provider := newTestProvider(server.URL)
	summaries, err := provider.ListSessions(context.Background(), 20, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "sess_2", summaries[1].SessionID)
	assert.Equal(t, "ref-2", summaries[1].ClientReferenceID)
}

func TestGetSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkout/session/sess_1", r.URL.Path)
		w.Write([]byte(`{"data":{
			"session_id":"sess_1",
			"client_reference_id":"ref-1",
			"payment_status":"paid",
			"total_amount":21000,
			"metadata":{"order_reference":"ref-1"}
		}}`))
	}))
	defer server.Close()

	provider := newTestProvider(server.URL)
	session, err := provider.GetSession(context.Background(), "sess_1")
	require.NoError(t, err)
	assert.Equal(t, providers.PaymentStatusPaid, session.PaymentStatus)
	assert.Equal(t, int64(21000), session.TotalAmount)
	assert.Equal(t, "ref-1", session.Metadata["order_reference"])
}

func TestGetSession_MetaDataKeyFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{
			"session_id":"sess_1",
			"payment_status":"paid",
			"total_amount":5000,
			"meta_data":{"customer_name":"Maha"}
		}}`))
	}))
	defer server.Close()

	provider := newTestProvider(server.URL)
	session, err := provider.GetSession(context.Background(), "sess_1")
	require.NoError(t, err)
	assert.Equal(t, "Maha", session.Metadata["customer_name"])
}

func TestDoRequest_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"code":401}`))
	}))
	defer server.Close()

	provider := newTestProvider(server.URL)
	_, err := provider.GetSession(context.Background(), "sess_1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestPaymentLink(t *testing.T) {
	provider := providers.NewThawaniProvider("sk_test", "pk_test", "https://uatcheckout.thawani.om/api/v1", "https://uatcheckout.thawani.om")
	link := provider.PaymentLink("sess_1")
	assert.Equal(t, "https://uatcheckout.thawani.om/pay/sess_1?key=pk_test", link)
}

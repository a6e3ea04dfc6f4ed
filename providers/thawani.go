package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bilal-alaabadi/arkan-b/models"
)

// ThawaniProvider implements PaymentProvider against the Thawani checkout
// API. Amounts are in baisa (1/1000 OMR).
type ThawaniProvider struct {
	apiKey      string
	publishKey  string
	baseURL     string
	checkoutURL string
	httpClient  *http.Client
}

// NewThawaniProvider creates a new ThawaniProvider.
func NewThawaniProvider(apiKey, publishKey, baseURL, checkoutURL string) *ThawaniProvider {
	return &ThawaniProvider{
		apiKey:      apiKey,
		publishKey:  publishKey,
		baseURL:     baseURL,
		checkoutURL: checkoutURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ---- Thawani API request/response structs ----

type thawaniCreateSessionRequest struct {
	ClientReferenceID string            `json:"client_reference_id"`
	Mode              string            `json:"mode"`
	Products          []models.LineItem `json:"products"`
	SuccessURL        string            `json:"success_url"`
	CancelURL         string            `json:"cancel_url"`
	Metadata          map[string]string `json:"metadata"`
}

type thawaniCreateSessionResponse struct {
	Data struct {
		SessionID string `json:"session_id"`
	} `json:"data"`
}

type thawaniSessionSummary struct {
	SessionID         string `json:"session_id"`
	ClientReferenceID string `json:"client_reference_id"`
}

type thawaniListSessionsResponse struct {
	Data []thawaniSessionSummary `json:"data"`
}

type thawaniSessionDetail struct {
	SessionID         string            `json:"session_id"`
	ClientReferenceID string            `json:"client_reference_id"`
	PaymentStatus     string            `json:"payment_status"`
	TotalAmount       int64             `json:"total_amount"`
	Metadata          map[string]string `json:"metadata"`
	MetaData          map[string]string `json:"meta_data"`
}

type thawaniGetSessionResponse struct {
	Data thawaniSessionDetail `json:"data"`
}

// ---- PaymentProvider implementation ----

// CreateSession creates a hosted checkout session and returns its id.
func (t *ThawaniProvider) CreateSession(ctx context.Context, req CreateSessionRequest) (string, error) {
	body := thawaniCreateSessionRequest{
		ClientReferenceID: req.ClientReferenceID,
		Mode:              "payment",
		Products:          req.Products,
		SuccessURL:        req.SuccessURL,
		CancelURL:         req.CancelURL,
		Metadata:          req.Metadata,
	}

	var resp thawaniCreateSessionResponse
	if err := t.doRequest(ctx, http.MethodPost, "/checkout/session", body, &resp); err != nil {
		return "", fmt.Errorf("thawani CreateSession: %w", err)
	}
	return resp.Data.SessionID, nil
}

// ListSessions returns session summaries; the gateway has no lookup by
// client reference, so confirmation matches against this listing.
func (t *ThawaniProvider) ListSessions(ctx context.Context, limit, skip int) ([]SessionSummary, error) {
	path := fmt.Sprintf("/checkout/session/?limit=%d&skip=%d", limit, skip)

	var resp thawaniListSessionsResponse
	if err := t.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("thawani ListSessions: %w", err)
	}

	summaries := make([]SessionSummary, 0, len(resp.Data))
	for _, s := range resp.Data {
		summaries = append(summaries, SessionSummary{
			SessionID:         s.SessionID,
			ClientReferenceID: s.ClientReferenceID,
		})
	}
	return summaries, nil
}

// GetSession fetches full session detail by the gateway-assigned session id.
func (t *ThawaniProvider) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	path := fmt.Sprintf("/checkout/session/%s", sessionID)

	var resp thawaniGetSessionResponse
	if err := t.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("thawani GetSession: %w", err)
	}

	// The API has returned the metadata block under both keys historically.
	metadata := resp.Data.Metadata
	if len(metadata) == 0 {
		metadata = resp.Data.MetaData
	}

	return &Session{
		SessionID:         resp.Data.SessionID,
		ClientReferenceID: resp.Data.ClientReferenceID,
		PaymentStatus:     resp.Data.PaymentStatus,
		TotalAmount:       resp.Data.TotalAmount,
		Metadata:          metadata,
	}, nil
}

// PaymentLink builds the hosted payment page URL for a session.
func (t *ThawaniProvider) PaymentLink(sessionID string) string {
	return fmt.Sprintf("%s/pay/%s?key=%s", t.checkoutURL, sessionID, t.publishKey)
}

// ---- HTTP helper ----

func (t *ThawaniProvider) doRequest(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("thawani-api-key", t.apiKey)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("thawani API error (status %d): %s", resp.StatusCode, string(respBytes))
	}

	if out != nil {
		if err := json.Unmarshal(respBytes, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("billing client not configured")

// Client talks to the hosted subscription provider. A zero-configured client
// reports EntitlementUnknown from every check so the trial gate degrades to
// trial-only evaluation instead of failing the app.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, apiKey string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

func (client *Client) Configured() bool {
	return client.baseURL != "" && client.apiKey != ""
}

type subscriberResponse struct {
	Subscriber struct {
		Entitlements map[string]struct {
			ExpiresDate *time.Time `json:"expires_date"`
		} `json:"entitlements"`
	} `json:"subscriber"`
}

// Status fetches the subscriber's entitlements and reduces them to a tagged
// status. Any transport or decode failure maps to EntitlementUnknown with a
// non-nil error for the caller to log.
func (client *Client) Status(ctx context.Context, userID uint) (EntitlementStatus, error) {
	if !client.Configured() {
		return EntitlementUnknown, ErrNotConfigured
	}

	url := fmt.Sprintf("%s/v1/subscribers/%d", client.baseURL, userID)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return EntitlementUnknown, fmt.Errorf("build entitlement request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+client.apiKey)
	request.Header.Set("Accept", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return EntitlementUnknown, fmt.Errorf("entitlement check: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return EntitlementInactive, nil
	}
	if response.StatusCode != http.StatusOK {
		return EntitlementUnknown, fmt.Errorf("entitlement check: unexpected status %d", response.StatusCode)
	}

	payload := subscriberResponse{}
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return EntitlementUnknown, fmt.Errorf("decode entitlement response: %w", err)
	}

	now := time.Now()
	for _, entitlement := range payload.Subscriber.Entitlements {
		if entitlement.ExpiresDate == nil || entitlement.ExpiresDate.After(now) {
			return EntitlementActive, nil
		}
	}
	return EntitlementInactive, nil
}

type receiptPayload struct {
	UserID  uint   `json:"app_user_id"`
	PlanID  string `json:"product_id"`
	Receipt string `json:"fetch_token"`
}

// SubmitReceipt forwards a store receipt for validation. The provider doing
// the actual charging is out of scope here; this only reports the outcome.
func (client *Client) SubmitReceipt(ctx context.Context, userID uint, planID string, receipt string) PurchaseResult {
	if !client.Configured() {
		return PurchaseResult{Error: "billing not configured"}
	}

	body, err := json.Marshal(receiptPayload{UserID: userID, PlanID: planID, Receipt: receipt})
	if err != nil {
		return PurchaseResult{Error: "invalid receipt payload"}
	}

	url := client.baseURL + "/v1/receipts"
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return PurchaseResult{Error: "build purchase request failed"}
	}
	request.Header.Set("Authorization", "Bearer "+client.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		client.logger.Warn("purchase submit failed", zap.Error(err))
		return PurchaseResult{Error: "billing provider unreachable"}
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode == http.StatusOK || response.StatusCode == http.StatusCreated:
		return PurchaseResult{Success: true}
	case response.StatusCode == http.StatusConflict:
		return PurchaseResult{Cancelled: true}
	default:
		return PurchaseResult{Error: fmt.Sprintf("purchase rejected with status %d", response.StatusCode)}
	}
}

package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lunaselene/solace/internal/models"
	"go.uber.org/zap"
)

// Mirror pushes derived metadata to the hosted document store. It is
// best-effort by contract: callers log failures and move on, and an
// unconfigured mirror behaves as a disabled no-op.
type Mirror struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewMirror(baseURL string, apiKey string, logger *zap.Logger) *Mirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mirror{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

func (mirror *Mirror) Enabled() bool {
	return mirror.baseURL != ""
}

// PublishEntry mirrors an entry's metadata. The conversion to EntryMetadata
// is the privacy partition: it is the only payload this method can encode.
func (mirror *Mirror) PublishEntry(ctx context.Context, entry models.JournalEntry) error {
	if !mirror.Enabled() {
		return nil
	}
	path := fmt.Sprintf("/v1/users/%d/entries", entry.UserID)
	return mirror.post(ctx, path, EntryMetadataFrom(entry))
}

func (mirror *Mirror) PublishWeeklyMarker(ctx context.Context, userID uint, createdAt time.Time) error {
	if !mirror.Enabled() {
		return nil
	}
	path := fmt.Sprintf("/v1/users/%d/weekly-markers", userID)
	return mirror.post(ctx, path, WeeklyMarker{UserID: userID, CreatedAt: createdAt})
}

type latestWeeklyResponse struct {
	CreatedAt *time.Time `json:"created_at"`
}

// LatestWeeklyAt reads the newest weekly marker for the cross-device
// cooldown. Reads never reconstruct content; this is the only read path.
func (mirror *Mirror) LatestWeeklyAt(ctx context.Context, userID uint) (time.Time, bool, error) {
	if !mirror.Enabled() {
		return time.Time{}, false, nil
	}

	url := fmt.Sprintf("%s/v1/users/%d/weekly-markers/latest", mirror.baseURL, userID)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("build weekly marker request: %w", err)
	}
	mirror.authorize(request)

	response, err := mirror.httpClient.Do(request)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("fetch weekly marker: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return time.Time{}, false, nil
	}
	if response.StatusCode != http.StatusOK {
		return time.Time{}, false, fmt.Errorf("fetch weekly marker: unexpected status %d", response.StatusCode)
	}

	payload := latestWeeklyResponse{}
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return time.Time{}, false, fmt.Errorf("decode weekly marker: %w", err)
	}
	if payload.CreatedAt == nil {
		return time.Time{}, false, nil
	}
	return *payload.CreatedAt, true, nil
}

func (mirror *Mirror) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode mirror payload: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, mirror.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mirror request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	mirror.authorize(request)

	response, err := mirror.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("mirror write: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusCreated {
		return fmt.Errorf("mirror write: unexpected status %d", response.StatusCode)
	}
	return nil
}

func (mirror *Mirror) authorize(request *http.Request) {
	if mirror.apiKey != "" {
		request.Header.Set("Authorization", "Bearer "+mirror.apiKey)
	}
}

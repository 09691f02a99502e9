package directoryservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Client клиент для работы с Activity Directory
// Каталог владеет идентичностью активностей; admission обращается к нему
// только на чтение
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента Activity Directory
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetActivity получает активность по ID в рамках тенанта
func (c *Client) GetActivity(ctx context.Context, tenantID, activityID int64) (*Activity, error) {
	url := fmt.Sprintf("%s/internal/activities/%d", c.baseURL, activityID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", strconv.FormatInt(tenantID, 10))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrActivityNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var activity Activity
	if err := json.NewDecoder(resp.Body).Decode(&activity); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	// Каталог мультитенантный - чужая активность эквивалентна отсутствующей
	if activity.TenantID != tenantID {
		c.log.Warn("GetActivity: activity id=%d belongs to tenant=%d, requested by tenant=%d",
			activityID, activity.TenantID, tenantID)
		return nil, ErrActivityNotFound
	}

	return &activity, nil
}

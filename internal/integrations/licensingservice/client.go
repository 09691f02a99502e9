package licensingservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Client клиент для работы с Licensing
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента Licensing
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetReservationQuota получает дневную квоту бронирований тенанта на дату
func (c *Client) GetReservationQuota(ctx context.Context, tenantID int64, date time.Time) (*Quota, error) {
	url := fmt.Sprintf("%s/internal/tenants/%d/reservation-quota?date=%s",
		c.baseURL, tenantID, date.Format("2006-01-02"))

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

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusTooManyRequests:
		return nil, ErrQuotaExceeded
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var quota Quota
	if err := json.NewDecoder(resp.Body).Decode(&quota); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &quota, nil
}

// GetReservationQuotaWithGracefulDegradation получает квоту с graceful degradation
// Недоступность Licensing не должна останавливать продажи: при ошибках
// инфраструктурного характера возвращается ErrServiceDegraded, и admission
// пропускает проверку квоты (fail open)
func (c *Client) GetReservationQuotaWithGracefulDegradation(ctx context.Context, tenantID int64, date time.Time) (*Quota, error) {
	quota, err := c.GetReservationQuota(ctx, tenantID, date)
	if err != nil {
		// Явный отказ по квоте - бизнес-ошибка, пробрасываем дальше
		if err == ErrQuotaExceeded {
			return nil, err
		}

		// Повышаем уровень логирования до ERROR, чтобы быстрее заметить проблему
		c.log.Error("Licensing unavailable, applying graceful degradation for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: tenant=%d, error=%v", ErrServiceDegraded, tenantID, err)
	}

	return quota, nil
}

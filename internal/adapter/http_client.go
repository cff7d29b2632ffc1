package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/furkeep/pawsync/models"
)

// HTTPClientConfig holds transport settings for the HTTP remote store.
type HTTPClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

type httpRemoteStore struct {
	client *resty.Client
}

// NewHTTPRemoteStore returns a [RemoteStore] speaking the record store's REST
// protocol: GET/POST/PUT/DELETE on /api/records/{key}, with the base version
// of conditional operations carried in the If-Match-Version header.
func NewHTTPRemoteStore(cfg HTTPClientConfig) RemoteStore {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &httpRemoteStore{client: cli}
}

func (h *httpRemoteStore) Fetch(ctx context.Context, key string) (models.RemoteRecord, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("key", key).
		Get("/api/records/{key}")
	if err != nil {
		return models.RemoteRecord{}, fmt.Errorf("fetch request: %w: %w", ErrUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RemoteRecord{}, err
	}

	return decodeRecord(resp)
}

func (h *httpRemoteStore) Create(ctx context.Context, key string, data []byte) (models.RemoteRecord, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("key", key).
		SetHeader("Content-Type", "application/json").
		SetBody(json.RawMessage(data)).
		Post("/api/records/{key}")
	if err != nil {
		return models.RemoteRecord{}, fmt.Errorf("create request: %w: %w", ErrUnavailable, err)
	}
	if resp.StatusCode() == http.StatusConflict {
		return models.RemoteRecord{}, fmt.Errorf("create %q: %w", key, ErrKeyExists)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RemoteRecord{}, err
	}

	return decodeRecord(resp)
}

func (h *httpRemoteStore) Put(ctx context.Context, key string, data []byte, baseVersion int64) (models.RemoteRecord, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("key", key).
		SetHeader("Content-Type", "application/json").
		SetHeader("If-Match-Version", strconv.FormatInt(baseVersion, 10)).
		SetBody(json.RawMessage(data)).
		Put("/api/records/{key}")
	if err != nil {
		return models.RemoteRecord{}, fmt.Errorf("put request: %w: %w", ErrUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RemoteRecord{}, err
	}

	return decodeRecord(resp)
}

func (h *httpRemoteStore) ForcePut(ctx context.Context, key string, data []byte) (models.RemoteRecord, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("key", key).
		SetHeader("Content-Type", "application/json").
		SetBody(json.RawMessage(data)).
		Put("/api/records/{key}")
	if err != nil {
		return models.RemoteRecord{}, fmt.Errorf("force put request: %w: %w", ErrUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RemoteRecord{}, err
	}

	return decodeRecord(resp)
}

func (h *httpRemoteStore) Delete(ctx context.Context, key string, baseVersion int64) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("key", key).
		SetHeader("If-Match-Version", strconv.FormatInt(baseVersion, 10)).
		Delete("/api/records/{key}")
	if err != nil {
		return fmt.Errorf("delete request: %w: %w", ErrUnavailable, err)
	}
	// Deleting an already-deleted record is idempotent.
	if resp.StatusCode() == http.StatusNotFound {
		return nil
	}

	return mapHTTPError(resp)
}

func decodeRecord(resp *resty.Response) (models.RemoteRecord, error) {
	var record models.RemoteRecord
	if len(resp.Body()) == 0 {
		return record, nil
	}
	if err := json.Unmarshal(resp.Body(), &record); err != nil {
		return models.RemoteRecord{}, fmt.Errorf("decode record response: %w", err)
	}
	return record, nil
}

func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))

	switch {
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusConflict || code == http.StatusPreconditionFailed:
		return ErrVersionConflict
	case code >= http.StatusInternalServerError:
		if body == "" {
			body = http.StatusText(code)
		}
		return fmt.Errorf("%w: http %d: %s", ErrUnavailable, code, body)
	}

	if body == "" {
		body = http.StatusText(code)
	}
	return fmt.Errorf("http %d: %s", code, body)
}

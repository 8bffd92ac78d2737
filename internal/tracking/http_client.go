package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"seqview/internal/config"
	"seqview/internal/metrics"
	"seqview/internal/services"
)

const userAgent = "seqview/0.1.0"

// HTTPDoer describes the HTTP client used by the tracking client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClient talks to the tracking server REST API.
type HTTPClient struct {
	baseURL string
	apiUser string
	apiKey  string
	client  HTTPDoer
}

// NewConfiguredClient builds an HTTP client from configuration.
func NewConfiguredClient(cfg *config.Config) *HTTPClient {
	return NewHTTPClient(cfg.Tracking.ServerURL, cfg.Tracking.APIUser, cfg.Tracking.APIKey,
		&http.Client{Timeout: cfg.TrackingTimeout()})
}

// NewHTTPClient constructs a client against baseURL. A nil doer uses a client
// with a one minute timeout.
func NewHTTPClient(baseURL, apiUser, apiKey string, doer HTTPDoer) *HTTPClient {
	if doer == nil {
		doer = &http.Client{Timeout: time.Minute}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiUser: strings.TrimSpace(apiUser),
		apiKey:  strings.TrimSpace(apiKey),
		client:  doer,
	}
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "ping", "/api/ping", nil)
}

func (c *HTTPClient) GetTask(ctx context.Context, id string) (Task, error) {
	var task Task
	err := c.do(ctx, http.MethodGet, "get task", "/api/tasks/"+url.PathEscape(id), &task)
	return task, err
}

func (c *HTTPClient) TaskAssets(ctx context.Context, taskID, assetType string) ([]Asset, error) {
	path := "/api/tasks/" + url.PathEscape(taskID) + "/assets"
	if assetType != "" {
		path += "?type=" + url.QueryEscape(assetType)
	}
	var assets []Asset
	err := c.do(ctx, http.MethodGet, "list task assets", path, &assets)
	return assets, err
}

func (c *HTTPClient) GetAsset(ctx context.Context, id string) (Asset, error) {
	var asset Asset
	err := c.do(ctx, http.MethodGet, "get asset", "/api/assets/"+url.PathEscape(id), &asset)
	return asset, err
}

func (c *HTTPClient) AssetVersions(ctx context.Context, assetID string) ([]AssetVersion, error) {
	var versions []AssetVersion
	err := c.do(ctx, http.MethodGet, "list asset versions", "/api/assets/"+url.PathEscape(assetID)+"/versions", &versions)
	return versions, err
}

func (c *HTTPClient) GetAssetVersion(ctx context.Context, id string) (AssetVersion, error) {
	var version AssetVersion
	err := c.do(ctx, http.MethodGet, "get asset version", "/api/asset_versions/"+url.PathEscape(id), &version)
	return version, err
}

func (c *HTTPClient) VersionComponents(ctx context.Context, versionID string) ([]Component, error) {
	var components []Component
	err := c.do(ctx, http.MethodGet, "list components", "/api/asset_versions/"+url.PathEscape(versionID)+"/components", &components)
	return components, err
}

func (c *HTTPClient) GetComponent(ctx context.Context, id string) (Component, error) {
	var component Component
	err := c.do(ctx, http.MethodGet, "get component", "/api/components/"+url.PathEscape(id), &component)
	return component, err
}

func (c *HTTPClient) PublishVersion(ctx context.Context, versionID string) error {
	return c.do(ctx, http.MethodPost, "publish version", "/api/asset_versions/"+url.PathEscape(versionID)+"/publish", nil)
}

func (c *HTTPClient) do(ctx context.Context, method, operation, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return services.Wrap(services.ErrRemote, "tracking", operation, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("ftrack-user", c.apiUser)
	req.Header.Set("ftrack-api-key", c.apiKey)

	timer := metrics.NewTimer()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordTrackingCall(operation, "error", timer.Duration())
		return services.Wrap(services.ErrRemote, "tracking", operation, "", err)
	}
	defer resp.Body.Close()
	metrics.RecordTrackingCall(operation, strconv.Itoa(resp.StatusCode), timer.Duration())

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "tracking", operation, path, nil)
	case resp.StatusCode >= http.StatusMultipleChoices:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		detail := fmt.Sprintf("status %d", resp.StatusCode)
		if text := strings.TrimSpace(string(body)); text != "" {
			detail += ": " + text
		}
		return services.Wrap(services.ErrRemote, "tracking", operation, detail, nil)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrRemote, "tracking", operation, "decode response", err)
	}
	return nil
}

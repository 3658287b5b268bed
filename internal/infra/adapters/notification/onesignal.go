// File: internal/infra/adapters/notification/onesignal.go
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"activation-admin/internal/domain"
	"activation-admin/internal/domain/ports/adapter"
)

var _ adapter.NotificationProvider = (*OneSignal)(nil)

// OneSignal implements adapter.NotificationProvider using the OneSignal REST API.
type OneSignal struct {
	appID   string
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewOneSignal(appID, restAPIKey, baseURL string, timeout time.Duration) (*OneSignal, error) {
	if appID == "" || restAPIKey == "" {
		return nil, errors.New("onesignal app id and rest api key are required")
	}
	if baseURL == "" {
		baseURL = "https://api.onesignal.com"
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid onesignal base url: %w", err)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &OneSignal{
		appID:   appID,
		apiKey:  restAPIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (o *OneSignal) Name() string { return "onesignal" }

// Send posts one notification to a named segment. Headings and contents are
// duplicated for en and fr so both app locales render the message.
func (o *OneSignal) Send(ctx context.Context, msg adapter.PushMessage) (adapter.PushResult, error) {
	segment := msg.Segment
	if segment == "" {
		segment = "Subscribed Users"
	}
	payload := map[string]any{
		"app_id":            o.appID,
		"included_segments": []string{segment},
		"headings":          map[string]string{"en": msg.Title, "fr": msg.Title},
		"contents":          map[string]string{"en": msg.Body, "fr": msg.Body},
	}
	if msg.TargetURL != "" {
		payload["data"] = map[string]string{"targetUrl": msg.TargetURL}
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/notifications", bytes.NewReader(b))
	if err != nil {
		return adapter.PushResult{}, err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Key "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return adapter.PushResult{}, fmt.Errorf("%w: onesignal send: %v", domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	var out struct {
		ID         string          `json:"id"`
		Recipients int             `json:"recipients"`
		Errors     json.RawMessage `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return adapter.PushResult{}, fmt.Errorf("%w: onesignal send: decode http %d: %v", domain.ErrProvider, resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return adapter.PushResult{}, fmt.Errorf("%w: onesignal send: %s", domain.ErrProvider, firstError(out.Errors, resp.StatusCode))
	}
	// An empty id on 2xx means nobody was subscribed; the send still counts.
	return adapter.PushResult{ID: out.ID, Recipients: out.Recipients}, nil
}

// Get returns OneSignal's delivery report for id without interpreting it.
func (o *OneSignal) Get(ctx context.Context, id string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/notifications/%s?app_id=%s", o.baseURL, url.PathEscape(id), url.QueryEscape(o.appID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Key "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: onesignal get: %v", domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: onesignal get: %v", domain.ErrProvider, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		var out struct {
			Errors json.RawMessage `json:"errors"`
		}
		_ = json.Unmarshal(body, &out)
		return nil, fmt.Errorf("%w: onesignal get: %s", domain.ErrProvider, firstError(out.Errors, resp.StatusCode))
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: onesignal get: invalid json", domain.ErrProvider)
	}
	return json.RawMessage(body), nil
}

// firstError extracts a readable message from OneSignal's "errors" field, which is
// either a list of strings or an object keyed by error kind.
func firstError(raw json.RawMessage, status int) string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		for k, v := range obj {
			return fmt.Sprintf("%s: %v", k, v)
		}
	}
	return fmt.Sprintf("http %d", status)
}

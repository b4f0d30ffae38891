package evolution

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/nikitkaralius/evopoll/internal/polls"
)

const sendPollPath = "/message/sendPoll/{instance}"

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to an Evolution API server.
type Client struct {
	http *resty.Client
}

// NewClient validates cfg and builds the HTTP client. Requests are never retried, and resty's
// debug log stays off because it would print the apikey header.
func NewClient(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid evolution api url: %w", err)
	}
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("evolution api url must be absolute http(s), got: %s", cfg.BaseURL)
	}

	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		c.SetHeader("apikey", cfg.APIKey)
	}
	if cfg.Timeout > 0 {
		c.SetTimeout(cfg.Timeout)
	}
	return &Client{http: c}, nil
}

// SendPoll posts body to /message/sendPoll/{instance} and returns the decoded response.
func (c *Client) SendPoll(ctx context.Context, instance string, body polls.RequestBody) (any, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("instance", instance).
		SetBody(body).
		Post(sendPollPath)
	if err != nil {
		return nil, fmt.Errorf("send poll request failed: %w", err)
	}
	if resp.IsError() {
		return nil, newAPIError(resp.StatusCode(), resp.Body())
	}

	raw := resp.Body()
	if len(raw) == 0 {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return string(raw), nil
	}
	return out, nil
}

// APIError is a non-2xx answer from the Evolution API.
type APIError struct {
	Status int
	Detail string
}

func newAPIError(status int, body []byte) *APIError {
	detail := http.StatusText(status)
	if gjson.ValidBytes(body) {
		if m := gjson.GetBytes(body, "response.message"); m.Exists() {
			detail = m.String()
		} else if m := gjson.GetBytes(body, "message"); m.Exists() {
			detail = m.String()
		} else if m := gjson.GetBytes(body, "error"); m.Exists() {
			detail = m.String()
		}
	} else if s := strings.TrimSpace(string(body)); s != "" {
		detail = s
	}
	return &APIError{Status: status, Detail: detail}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Request failed with status code %d: %s", e.Status, e.Detail)
}

func (e *APIError) Code() string {
	return fmt.Sprintf("HTTP_%d", e.Status)
}

// Package threads is a thin client for the Threads Graph API endpoints the gateway uses.
// It performs no retries and never interprets access tokens.
package threads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/maheshrc27/threads-gateway/internal/transfer"
)

const (
	defaultTimeout   = 15 * time.Second
	maxResponseBytes = 1 << 20
)

var ErrMalformedResponse = errors.New("threads: malformed response body")

// APIError is a response the platform completed with a non-2xx status.
type APIError struct {
	Endpoint   string
	StatusCode int
	RetryAfter time.Duration
	Envelope   transfer.ThreadsErrorResponse
}

func (e *APIError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("threads: %s returned %d: %s", e.Endpoint, e.StatusCode, msg)
	}
	return fmt.Sprintf("threads: %s returned %d", e.Endpoint, e.StatusCode)
}

// Message is the human-readable text from the remote error envelope, if any.
func (e *APIError) Message() string {
	if e == nil {
		return ""
	}
	if msg := strings.TrimSpace(e.Envelope.Error.ErrorUserMsg); msg != "" {
		return msg
	}
	return strings.TrimSpace(e.Envelope.Error.Message)
}

// TransportError means no usable response was received (dial failure, timeout, reset).
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("threads: %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

type Options struct {
	GraphURL   string
	TokenURL   string
	RefreshURL string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	graphURL   string
	tokenURL   string
	refreshURL string
	timeout    time.Duration
	http       *http.Client
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		graphURL:   strings.TrimRight(opts.GraphURL, "/"),
		tokenURL:   opts.TokenURL,
		refreshURL: opts.RefreshURL,
		timeout:    timeout,
		http:       httpClient,
	}
}

// Me looks up the identity behind accessToken, returning only the requested fields.
func (c *Client) Me(ctx context.Context, accessToken string, fields ...string) (*transfer.ThreadsUserInfo, error) {
	return c.User(ctx, "me", accessToken, fields...)
}

func (c *Client) User(ctx context.Context, userID, accessToken string, fields ...string) (*transfer.ThreadsUserInfo, error) {
	params := url.Values{}
	params.Set("fields", strings.Join(fields, ","))
	params.Set("access_token", accessToken)

	endpoint := "/" + url.PathEscape(userID)
	var info transfer.ThreadsUserInfo
	if err := c.call(ctx, http.MethodGet, c.graphURL+endpoint, endpoint, params, nil, "", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ExchangeCode posts the authorization-code grant form to the token endpoint.
func (c *Client) ExchangeCode(ctx context.Context, form url.Values) (*transfer.ThreadsToken, error) {
	var token transfer.ThreadsToken
	err := c.call(ctx, http.MethodPost, c.tokenURL, "/oauth/access_token", nil,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &token)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (c *Client) RefreshToken(ctx context.Context, accessToken string) (*transfer.ThreadsRefreshedToken, error) {
	params := url.Values{}
	params.Set("grant_type", "ig_refresh_token")
	params.Set("access_token", accessToken)

	var token transfer.ThreadsRefreshedToken
	if err := c.call(ctx, http.MethodGet, c.refreshURL, "/refresh_access_token", params, nil, "", &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// CreateTextContainer stages a text-only thread and returns its creation id.
func (c *Client) CreateTextContainer(ctx context.Context, userID, accessToken, text string) (string, error) {
	params := url.Values{}
	params.Set("media_type", "TEXT")
	params.Set("text", text)
	params.Set("access_token", accessToken)
	return c.createContainer(ctx, userID, params)
}

// CreateImageURLContainer stages an image thread from a publicly reachable URL.
func (c *Client) CreateImageURLContainer(ctx context.Context, userID, accessToken, caption, imageURL string) (string, error) {
	params := url.Values{}
	params.Set("media_type", "IMAGE")
	params.Set("image_url", imageURL)
	params.Set("text", caption)
	params.Set("access_token", accessToken)
	return c.createContainer(ctx, userID, params)
}

type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CreateImageContainer uploads the image bytes as multipart form data.
func (c *Client) CreateImageContainer(ctx context.Context, userID, accessToken, caption string, image ImageUpload) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, image.Filename))
	header.Set("Content-Type", image.ContentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("create image part: %w", err)
	}
	if _, err := part.Write(image.Data); err != nil {
		return "", fmt.Errorf("write image part: %w", err)
	}

	fields := [][2]string{
		{"media_type", "IMAGE"},
		{"caption", caption},
		{"access_token", accessToken},
	}
	for _, f := range fields {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return "", fmt.Errorf("write %s field: %w", f[0], err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart body: %w", err)
	}

	endpoint := "/" + url.PathEscape(userID) + "/media"
	var media transfer.ThreadsMediaResponse
	err = c.call(ctx, http.MethodPost, c.graphURL+endpoint, endpoint, nil, body, writer.FormDataContentType(), &media)
	if err != nil {
		return "", err
	}
	return media.ID.String(), nil
}

// Publish commits a previously created container and returns the thread id.
func (c *Client) Publish(ctx context.Context, userID, accessToken, creationID string) (string, error) {
	params := url.Values{}
	params.Set("creation_id", creationID)
	params.Set("access_token", accessToken)

	endpoint := "/" + url.PathEscape(userID) + "/threads_publish"
	var media transfer.ThreadsMediaResponse
	if err := c.call(ctx, http.MethodPost, c.graphURL+endpoint, endpoint, params, nil, "", &media); err != nil {
		return "", err
	}
	return media.ID.String(), nil
}

func (c *Client) createContainer(ctx context.Context, userID string, params url.Values) (string, error) {
	endpoint := "/" + url.PathEscape(userID) + "/threads"
	var media transfer.ThreadsMediaResponse
	if err := c.call(ctx, http.MethodPost, c.graphURL+endpoint, endpoint, params, nil, "", &media); err != nil {
		return "", err
	}
	return media.ID.String(), nil
}

// call performs one request under the client timeout. endpoint is the token-free path
// used in errors and logs.
func (c *Client) call(ctx context.Context, method, rawURL, endpoint string, query url.Values, body io.Reader, contentType string, out any) error {
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		rawURL += sep + query.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: errors.New("invalid request")}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error embeds the full URL, access token included; keep only the cause.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
		_ = json.Unmarshal(raw, &apiErr.Envelope)
		return apiErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w: %v", endpoint, ErrMalformedResponse, err)
	}
	return nil
}

func parseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d.Round(time.Second)
		}
	}
	return 0
}

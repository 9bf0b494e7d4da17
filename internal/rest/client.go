// Package rest implements the JSON client shared by every service wrapper
// that talks to the companion backend.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"projection/internal/result"
)

// APIError is a backend rejection: the request reached the backend and was
// refused with a decoded error body.
type APIError struct {
	StatusCode       int
	Message          string
	ValidationErrors map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// Client is a thin JSON client bound to the backend base URL. Requests are
// credentialed through a shared cookie jar. The client performs no retries
// and owns no cache.
type Client struct {
	baseURL string
	httpc   *http.Client
	bearer  string
}

// NewClient creates a client for the given base URL (e.g. "http://host/api").
// Pass nil to use a default 15s-timeout client with a cookie jar.
func NewClient(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		jar, _ := cookiejar.New(nil)
		httpc = &http.Client{Timeout: 15 * time.Second, Jar: jar}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
	}
}

// WithBearer returns a copy of the client that sends the given token in the
// Authorization header. The rating endpoints require this.
func (c *Client) WithBearer(token string) *Client {
	clone := *c
	clone.bearer = token
	return &clone
}

// Get issues a GET request and decodes the JSON response into out (ignored
// when out is nil).
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	reader, err := encodeBody(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, nil, reader, "application/json", out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	reader, err := encodeBody(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, nil, reader, "application/json", out)
}

// Delete issues a DELETE request with optional query parameters.
func (c *Client) Delete(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodDelete, path, query, nil, "", out)
}

// PostMultipart uploads a single file under the given form field.
func (c *Client) PostMultipart(ctx context.Context, path, field, filename string, data []byte, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("build multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("build multipart body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, nil, &buf, mw.FormDataContentType(), out)
}

func encodeBody(body any) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return bytes.NewReader(encoded), nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError turns a non-2xx response into an APIError, decoding the
// backend's {message, validationErrors} body when present.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("request failed with status %d", resp.StatusCode),
	}

	var body struct {
		Message          string            `json:"message"`
		Error            string            `json:"error"`
		ValidationErrors map[string]string `json:"validationErrors"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err == nil {
		if body.Message != "" {
			apiErr.Message = body.Message
		} else if body.Error != "" {
			apiErr.Message = body.Error
		}
		apiErr.ValidationErrors = body.ValidationErrors
	}
	return apiErr
}

// FailureFrom converts a client error into the envelope's failure payload.
// Backend rejections keep their message and per-field errors; transport
// failures collapse to the caller's generic fallback message.
func FailureFrom(err error, fallback string) result.Error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return result.Error{
			Message:          apiErr.Message,
			ValidationErrors: apiErr.ValidationErrors,
		}
	}
	return result.Error{Message: fallback}
}

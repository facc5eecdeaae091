package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/taskflow/internal/logging"
)

const contentTypeJSON = "application/json"

// Client issues JSON requests against the API base URL.
type Client struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

// NewClient returns a client sending through hc. Pass an *http.Client whose
// Transport is a *Transport to get authenticated requests.
func NewClient(baseURL string, hc *http.Client, log logging.Logger) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    hc,
		log:     log.With("component", "api"),
	}
}

// Do sends in as JSON (nil for no body) and decodes a 2xx body into out
// (nil to discard it). Failures are *APIError.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
	}
	contentType := ""
	if in != nil {
		contentType = contentTypeJSON
	}
	return c.send(ctx, method, path, body, contentType, out)
}

// Upload posts r as a multipart file under field.
func (c *Client) Upload(ctx context.Context, path, field, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}

	return c.send(ctx, http.MethodPost, path, buf.Bytes(), mw.FormDataContentType(), out)
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, contentType string, out any) error {
	var rdr io.Reader
	if body != nil {
		// bytes.Reader lets net/http set GetBody, which the transport
		// needs to replay the request.
		rdr = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "path", path, "error", err)
		return networkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := fromResponse(resp)
		c.log.Debug(ctx, "request rejected", "method", method, "path", path, "status", resp.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return decodeError(resp.StatusCode, err)
	}
	return nil
}

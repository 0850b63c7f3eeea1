// Package pipeline drives the three-step remote run: submit the video,
// fetch the decoded keypoints, fetch the binary model asset. Steps are
// strictly sequential and the outcome is all-or-nothing.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bdougie/handpreview/internal/hand"
)

// Client talks to the hand-capture backend.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *slog.Logger
}

// NewClient builds a Client for the backend at baseURL. A timeout of
// zero disables the client-side deadline (callers can still bound
// requests through the context).
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL '%s': %v", baseURL, err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base:   base,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}, nil
}

// Health probes the backend's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve("/health"), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: "health check failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.serverError(resp)
	}
	return nil
}

// Submit uploads the source video and returns the run record. targetFPS
// of zero leaves the backend's default sampling rate in place.
func (c *Client) Submit(ctx context.Context, name string, video io.Reader, targetFPS int) (*hand.Run, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %v", err)
	}
	if _, err := io.Copy(part, video); err != nil {
		return nil, fmt.Errorf("failed to read video: %v", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %v", err)
	}

	endpoint := c.resolve("/process")
	if targetFPS > 0 {
		endpoint += "?fps=" + strconv.Itoa(targetFPS)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.logger.Debug("submitting video", "name", name, "bytes", body.Len())
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "upload failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.serverError(resp)
	}

	var run hand.Run
	if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
		return nil, fmt.Errorf("failed to decode run record: %v", err)
	}
	if run.ID == "" {
		return nil, fmt.Errorf("run record has no run_id")
	}
	return &run, nil
}

// FetchKeypoints retrieves and decodes the keypoint data referenced by
// a run. The reference may be relative to the server base.
func (c *Client) FetchKeypoints(ctx context.Context, ref string) (*hand.KeypointSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(ref), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "keypoints fetch failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.serverError(resp)
	}

	var set hand.KeypointSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("failed to decode keypoints: %v", err)
	}
	return &set, nil
}

// FetchAsset retrieves the binary asset referenced by a run as raw
// bytes.
func (c *Client) FetchAsset(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(ref), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "asset fetch failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.serverError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: "asset fetch failed", Err: err}
	}
	return data, nil
}

// resolve joins a possibly-relative reference against the server base.
func (c *Client) resolve(ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return c.base.ResolveReference(parsed).String()
}

// serverError reads a failure response, preferring the backend's
// detail message over the generic status text.
func (c *Client) serverError(resp *http.Response) *ServerError {
	detail := resp.Status

	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err == nil && body.Detail != "" {
		detail = body.Detail
	}

	return &ServerError{StatusCode: resp.StatusCode, Detail: detail}
}

package plex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"plexmirror/internal/services"
)

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// HTTPClient implements Client against a Plex Media Server.
type HTTPClient struct {
	baseURL string
	token   string
	client  HTTPDoer
}

// NewHTTPClient constructs a Plex client using the provided HTTP
// backend. A nil doer falls back to an http.Client with the given
// timeout.
func NewHTTPClient(baseURL, token string, timeout time.Duration, doer HTTPDoer) *HTTPClient {
	if doer == nil {
		doer = &http.Client{Timeout: timeout}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  doer,
	}
}

type mediaContainer struct {
	MediaContainer struct {
		Directory []Library `json:"Directory"`
		Metadata  []Item    `json:"Metadata"`
	} `json:"MediaContainer"`
}

// Libraries lists the server's library sections.
func (c *HTTPClient) Libraries(ctx context.Context) ([]Library, error) {
	var envelope mediaContainer
	if err := c.getJSON(ctx, "/library/sections", &envelope); err != nil {
		return nil, err
	}
	return envelope.MediaContainer.Directory, nil
}

// Items lists the top-level items of a library section.
func (c *HTTPClient) Items(ctx context.Context, libraryKey string) ([]Item, error) {
	path := fmt.Sprintf("/library/sections/%s/all", url.PathEscape(libraryKey))
	var envelope mediaContainer
	if err := c.getJSON(ctx, path, &envelope); err != nil {
		return nil, err
	}
	return envelope.MediaContainer.Metadata, nil
}

// Children lists the direct children of an item.
func (c *HTTPClient) Children(ctx context.Context, ratingKey string) ([]Item, error) {
	path := fmt.Sprintf("/library/metadata/%s/children", url.PathEscape(ratingKey))
	var envelope mediaContainer
	if err := c.getJSON(ctx, path, &envelope); err != nil {
		return nil, err
	}
	return envelope.MediaContainer.Metadata, nil
}

// Thumbnail fetches the raw bytes behind a thumb path. A 404 response
// classifies as missing media so callers skip the artifact.
func (c *HTTPClient) Thumbnail(ctx context.Context, thumbPath string) ([]byte, error) {
	resp, err := c.get(ctx, thumbPath, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, services.Wrap(services.ErrMissingMedia, "plex", "thumbnail", thumbPath, nil)
	}
	if err := classifyStatus(resp.StatusCode, "thumbnail", thumbPath); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "plex", "thumbnail", "read body", err)
	}
	return data, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.get(ctx, path, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode, "get", path); err != nil {
		return err
	}

	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(out); err != nil {
		return services.Wrap(services.ErrPermanent, "plex", "get", "decode "+path, err)
	}
	return nil
}

func (c *HTTPClient) get(ctx context.Context, path, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrPermanent, "plex", "get", "build request "+path, err)
	}
	req.Header.Set("X-Plex-Token", c.token)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(path, err)
	}
	return resp, nil
}

func classifyTransportError(path string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return services.Wrap(services.ErrTransient, "plex", "get", path, err)
	}
	// url.Error wraps connection refusals and DNS failures.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return services.Wrap(services.ErrTransient, "plex", "get", path, err)
	}
	return services.Wrap(services.ErrPermanent, "plex", "get", path, err)
}

func classifyStatus(status int, operation, path string) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status >= 500 || status == http.StatusTooManyRequests:
		return services.Wrap(services.ErrTransient, "plex", operation, fmt.Sprintf("%s returned %d", path, status), nil)
	default:
		return services.Wrap(services.ErrPermanent, "plex", operation, fmt.Sprintf("%s returned %d", path, status), nil)
	}
}

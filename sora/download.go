package sora

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/azvideo/sora-go/storage"
)

// ContentKind selects which rendition of a generation to download.
type ContentKind string

// Available content kinds.
const (
	// ContentVideo is the full video rendition.
	ContentVideo ContentKind = "video"
	// ContentGIF is the animated GIF rendition.
	ContentGIF ContentKind = "gif"
)

// ErrInvalidContentKind is returned for content kinds other than video
// and gif.
var ErrInvalidContentKind = errors.New("sora: invalid content kind")

// DownloadContent streams the binary content of a generation into dst.
// It returns ErrContentNotReady when the generation's job has not
// succeeded (the service answers 404 until then). When dst is owned by
// the caller, partial writes on mid-stream failure are the caller's to
// clean up; use SaveContent or StoreContent for all-or-nothing
// persistence.
func (c *Client) DownloadContent(ctx context.Context, generationID string, kind ContentKind, dst io.Writer) error {
	body, err := c.contentReader(ctx, generationID, kind)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	if _, err := io.Copy(dst, body); err != nil {
		return fmt.Errorf("sora: download %s content: %w", kind, err)
	}
	return nil
}

// SaveContent downloads the content of a generation to the given file
// path. The file is written atomically: either the full content lands at
// path or the destination is left untouched.
func (c *Client) SaveContent(ctx context.Context, generationID string, kind ContentKind, path string) error {
	body, err := c.contentReader(ctx, generationID, kind)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	if err := storage.WriteFileAtomic(path, body); err != nil {
		return fmt.Errorf("sora: save %s content: %w", kind, err)
	}

	c.logger.Debug("content saved",
		slog.String("generation_id", generationID),
		slog.String("kind", string(kind)),
		slog.String("path", path),
	)
	return nil
}

// StoreContent downloads the content of a generation into a storage sink
// under the given name and returns the stored location.
func (c *Client) StoreContent(ctx context.Context, generationID string, kind ContentKind, sink storage.Sink, name string) (string, error) {
	body, err := c.contentReader(ctx, generationID, kind)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }()

	location, err := sink.Store(ctx, name, body)
	if err != nil {
		return "", fmt.Errorf("sora: store %s content: %w", kind, err)
	}

	c.logger.Debug("content stored",
		slog.String("generation_id", generationID),
		slog.String("kind", string(kind)),
		slog.String("location", location),
	)
	return location, nil
}

// contentReader opens the binary content stream for a generation. The
// caller must close the returned ReadCloser.
func (c *Client) contentReader(ctx context.Context, generationID string, kind ContentKind) (io.ReadCloser, error) {
	if generationID == "" {
		return nil, ErrGenerationIDRequired
	}
	if kind != ContentVideo && kind != ContentGIF {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContentKind, kind)
	}

	reqURL := c.buildURL(generationID+"/content/"+string(kind), nil)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("sora: create content request: %w", err)
	}
	req.Header.Set("Api-key", c.apiKey)

	c.logger.Debug("sora content request",
		slog.String("url", reqURL),
		slog.String("generation_id", generationID),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sora: content request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("sora: read error response: %w", readErr)
		}
		// The service answers 404 for generations whose job has not
		// succeeded yet.
		if resp.StatusCode == http.StatusNotFound {
			return nil, &APIError{
				StatusCode: resp.StatusCode,
				Body:       string(respBody),
				err:        ErrContentNotReady,
			}
		}
		return nil, statusError(resp.StatusCode, respBody)
	}

	return resp.Body, nil
}

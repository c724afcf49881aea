package sora

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// defaultAPIVersion is used when no API version is configured.
const defaultAPIVersion = "preview"

// Client is an HTTP client for the Azure OpenAI Sora video generation
// API. It holds no state beyond configuration and the underlying HTTP
// connection pool; every job and generation is a remote resource
// addressed purely by identifier, so a single Client may be shared across
// goroutines.
type Client struct {
	endpoint   string
	apiKey     string
	deployment string
	apiVersion string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key for authentication.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithDeployment sets the Sora deployment name.
func WithDeployment(name string) ClientOption {
	return func(c *Client) {
		c.deployment = name
	}
}

// WithAPIVersion sets the api-version query parameter sent on every
// request.
func WithAPIVersion(version string) ClientOption {
	return func(c *Client) {
		c.apiVersion = version
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger enables diagnostic logging. At debug level the client logs
// outgoing payloads and full response bodies, which may contain prompt
// content; logging is disabled entirely unless this option is supplied.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Sora client for the given Azure OpenAI
// endpoint. Explicit options take precedence over environment variables:
// any of endpoint, API key, deployment name, and API version not supplied
// is read from AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_API_KEY,
// AZURE_OPENAI_DEPLOYMENT_NAME, and AZURE_OPENAI_API_VERSION. Endpoint,
// key, and deployment name are required.
func NewClient(endpoint string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})),
	}

	// Apply options first so explicit values win over the environment
	for _, opt := range opts {
		opt(c)
	}

	if c.endpoint == "" {
		c.endpoint = os.Getenv("AZURE_OPENAI_ENDPOINT")
	}
	if c.apiKey == "" {
		c.apiKey = os.Getenv("AZURE_OPENAI_API_KEY")
	}
	if c.deployment == "" {
		c.deployment = os.Getenv("AZURE_OPENAI_DEPLOYMENT_NAME")
	}
	if c.apiVersion == "" {
		c.apiVersion = os.Getenv("AZURE_OPENAI_API_VERSION")
	}
	if c.apiVersion == "" {
		c.apiVersion = defaultAPIVersion
	}

	if c.endpoint == "" {
		return nil, ErrEndpointRequired
	}
	if c.apiKey == "" {
		return nil, ErrAPIKeyRequired
	}
	if c.deployment == "" {
		return nil, ErrDeploymentRequired
	}

	if !strings.HasSuffix(c.endpoint, "/") {
		c.endpoint += "/"
	}

	return c, nil
}

// Close releases the client's idle HTTP connections. The client must not
// be used after Close.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// CreateJob validates the request, transforms it into its wire form, and
// submits a new video generation job. The returned job starts in a
// non-terminal state; use PollUntilComplete or GetJob to track it. The
// service enforces at most one pending job at a time, which surfaces as
// ErrRateLimited or ErrService from the remote side.
func (c *Client) CreateJob(ctx context.Context, req GenerationRequest) (*Job, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	wire := newCreateJobRequest(c.deployment, req)

	var resource jobResource
	if err := c.doJSON(ctx, http.MethodPost, c.buildURL("jobs", nil), wire, &resource); err != nil {
		return nil, fmt.Errorf("sora: create job: %w", err)
	}

	if resource.ID == "" {
		return nil, ErrNoJobIDReturned
	}

	return resource.toJob(), nil
}

// GetJob fetches a fresh snapshot of a job, including its generations
// once the job has succeeded.
func (c *Client) GetJob(ctx context.Context, jobID string) (*Job, error) {
	if jobID == "" {
		return nil, ErrJobIDRequired
	}

	var resource jobResource
	if err := c.doJSON(ctx, http.MethodGet, c.buildURL("jobs/"+jobID, nil), nil, &resource); err != nil {
		return nil, fmt.Errorf("sora: get job %s: %w", jobID, err)
	}

	return resource.toJob(), nil
}

// ListJobs returns one page of video generation jobs, newest first. A
// limit of zero or less leaves the page size to the service.
func (c *Client) ListJobs(ctx context.Context, limit int) (*JobList, error) {
	var params url.Values
	if limit > 0 {
		params = url.Values{"limit": []string{strconv.Itoa(limit)}}
	}

	var resource jobListResource
	if err := c.doJSON(ctx, http.MethodGet, c.buildURL("jobs", params), nil, &resource); err != nil {
		return nil, fmt.Errorf("sora: list jobs: %w", err)
	}

	return resource.toJobList(), nil
}

// DeleteJob deletes a job. The job ID is invalid afterwards; subsequent
// calls for it fail with ErrNotFound.
func (c *Client) DeleteJob(ctx context.Context, jobID string) error {
	if jobID == "" {
		return ErrJobIDRequired
	}

	if err := c.doJSON(ctx, http.MethodDelete, c.buildURL("jobs/"+jobID, nil), nil, nil); err != nil {
		return fmt.Errorf("sora: delete job %s: %w", jobID, err)
	}

	return nil
}

// GetGeneration fetches the details of a single generation.
func (c *Client) GetGeneration(ctx context.Context, generationID string) (*Generation, error) {
	if generationID == "" {
		return nil, ErrGenerationIDRequired
	}

	var resource generationResource
	if err := c.doJSON(ctx, http.MethodGet, c.buildURL(generationID, nil), nil, &resource); err != nil {
		return nil, fmt.Errorf("sora: get generation %s: %w", generationID, err)
	}

	gen := resource.toGeneration()
	return &gen, nil
}

// buildURL joins a path relative to the generations base URL and attaches
// the api-version query parameter.
func (c *Client) buildURL(path string, params url.Values) string {
	query := url.Values{"api-version": []string{c.apiVersion}}
	for key, values := range params {
		query[key] = values
	}
	return c.endpoint + "openai/v1/video/generations/" + path + "?" + query.Encode()
}

// doJSON performs a single JSON request. No retries are attempted; retry
// policy belongs to the caller, notably for ErrRateLimited.
func (c *Client) doJSON(ctx context.Context, method, reqURL string, body, result any) error {
	var bodyReader io.Reader
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Api-key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("sora request",
		slog.String("method", method),
		slog.String("url", reqURL),
		slog.String("payload", string(payload)),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("sora response",
		slog.Int("status", resp.StatusCode),
		slog.String("body", string(respBody)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

package consultation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxResponseBytes bounds how much of an engine response is decoded.
const maxResponseBytes = 1 << 20

// Client submits a consultation request to the inference engine.
type Client interface {
	Submit(ctx context.Context, req Request) (*Result, error)
}

// TokenSource supplies a bearer token for each engine request.
type TokenSource interface {
	Token() (string, error)
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient overrides the default HTTP client used for engine calls.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(h *HTTPClient) { h.httpClient = c }
}

// WithTokenSource attaches a bearer token to every request.
func WithTokenSource(ts TokenSource) ClientOption {
	return func(h *HTTPClient) { h.tokens = ts }
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(h *HTTPClient) { h.logger = logger }
}

// HTTPClient is the JSON-over-HTTP Client. It never retries.
type HTTPClient struct {
	endpoint   string
	httpClient *http.Client
	tokens     TokenSource
	logger     zerolog.Logger
}

// NewHTTPClient creates a client posting to endpoint with the given timeout.
func NewHTTPClient(endpoint string, timeout time.Duration, opts ...ClientOption) *HTTPClient {
	h := &HTTPClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: zerolog.Nop(),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

func (h *HTTPClient) Submit(ctx context.Context, r Request) (*Result, error) {
	payload, err := json.Marshal(NewRequest(r.Symptoms, r.Allergies))
	if err != nil {
		return nil, &ServiceError{Kind: KindTransport, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &ServiceError{Kind: KindTransport, Err: err}
	}

	rid := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", rid)

	if h.tokens != nil {
		token, err := h.tokens.Token()
		if err != nil {
			return nil, &ServiceError{Kind: KindTransport, Err: fmt.Errorf("sign request: %w", err)}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := h.httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		h.logger.Warn().Err(err).Str("request_id", rid).Dur("latency", latency).Msg("engine request failed")
		return nil, &ServiceError{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	h.logger.Debug().
		Str("request_id", rid).
		Int("status", resp.StatusCode).
		Dur("latency", latency).
		Msg("engine responded")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read at most 1KB of the error body for the log line.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		h.logger.Warn().Str("request_id", rid).Int("status", resp.StatusCode).Str("body", string(body)).Msg("engine rejected request")
		return nil, &ServiceError{
			Kind:       KindStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("non-2xx response: %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &ServiceError{Kind: KindTransport, Err: fmt.Errorf("read response: %w", err)}
	}
	return decodeResult(body)
}

// decodeResult accepts exactly one JSON object. null, other top-level values
// and trailing data are parse failures.
func decodeResult(body []byte) (*Result, error) {
	var result *Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &ServiceError{Kind: KindParse, Err: fmt.Errorf("decode response: %w", err)}
	}
	if result == nil {
		return nil, &ServiceError{Kind: KindParse, Err: fmt.Errorf("decode response: body is null")}
	}
	return result, nil
}

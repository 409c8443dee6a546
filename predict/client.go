package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is where the prediction service listens in local setups.
const DefaultBaseURL = "http://localhost:5000"

// Querier is implemented by inputs of GET endpoints.
type Querier interface {
	Query() url.Values
}

// Client calls the prediction service. HTTPClient has no timeout by default;
// callers bound a request with their context.
type Client struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// NewClient returns a client for baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		UserAgent:  "agriforecast/1.0",
		HTTPClient: &http.Client{},
		Logger:     zerolog.Nop(),
	}
}

// Do performs one round trip to ep with in as the payload and returns the
// endpoint's response field exactly as the service sent it. A 2xx body that
// lacks the field yields JSON null.
func (c *Client) Do(ctx context.Context, ep Endpoint, in any) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, ep, in)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Warn().Err(err).Str("endpoint", ep.Name).Str("url", req.URL.String()).Msg("prediction service unreachable")
		return nil, transportError(ep, 0, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Logger.Warn().Err(err).Str("endpoint", ep.Name).Int("status", resp.StatusCode).Msg("read prediction response")
		return nil, transportError(ep, resp.StatusCode, err)
	}
	if !json.Valid(data) {
		c.Logger.Warn().Str("endpoint", ep.Name).Int("status", resp.StatusCode).Msg("prediction response is not JSON")
		return nil, transportError(ep, resp.StatusCode, fmt.Errorf("decode %s response: invalid JSON", ep.Name))
	}

	// Non-object bodies are valid JSON without fields.
	var envelope map[string]json.RawMessage
	_ = json.Unmarshal(data, &envelope)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := serverMessage(envelope["error"])
		if msg == "" {
			msg = ep.failureMessage()
		}
		c.Logger.Debug().Str("endpoint", ep.Name).Int("status", resp.StatusCode).Str("error", msg).Msg("prediction service rejected request")
		return nil, &Error{
			Endpoint: ep.Name,
			Kind:     KindServer,
			Status:   resp.StatusCode,
			Message:  msg,
			Err:      fmt.Errorf("%s: %s", ep.Name, resp.Status),
		}
	}

	v, ok := envelope[ep.Field]
	if !ok {
		return json.RawMessage("null"), nil
	}
	return v, nil
}

// Fetch is Do followed by decoding the field into T. With T = json.RawMessage
// the field is passed through untouched.
func Fetch[T any](ctx context.Context, c *Client, ep Endpoint, in any) (T, error) {
	var out T
	raw, err := c.Do(ctx, ep, in)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, transportError(ep, http.StatusOK, fmt.Errorf("decode %s %q: %w", ep.Name, ep.Field, err))
	}
	return out, nil
}

func (c *Client) newRequest(ctx context.Context, ep Endpoint, in any) (*http.Request, error) {
	u := c.BaseURL + ep.Path

	var body io.Reader
	switch ep.method() {
	case http.MethodGet, http.MethodDelete:
		q, err := queryOf(in)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ep.Name, err)
		}
		if enc := q.Encode(); enc != "" {
			u += "?" + enc
		}
	default:
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("marshal %s request: %w", ep.Name, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, ep.method(), u, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	return req, nil
}

func queryOf(in any) (url.Values, error) {
	switch v := in.(type) {
	case nil:
		return url.Values{}, nil
	case url.Values:
		return v, nil
	case Querier:
		return v.Query(), nil
	default:
		return nil, fmt.Errorf("input %T has no query encoding", in)
	}
}

// serverMessage returns the "error" field when it is a non-empty string.
func serverMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

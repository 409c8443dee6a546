package predict

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

var rainfallEndpoint = Endpoint{
	Name:             "rainfall",
	Method:           http.MethodPost,
	Path:             "/rainfall/predict",
	Field:            "prediction",
	FailureMessage:   "Failed to get prediction",
	TransportMessage: "An error occurred while fetching the prediction",
}

// failingRoundTripper simulates an unreachable host.
type failingRoundTripper struct{}

func (failingRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func newTestServer(t *testing.T, status int, body string, check func(r *http.Request)) *Client {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return NewClient(ts.URL)
}

func TestDo_SuccessReturnsFieldVerbatim(t *testing.T) {
	c := newTestServer(t, http.StatusOK, `{"status":"success","prediction":120.50}`, func(r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/rainfall/predict" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected a request id header")
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["location"] != "Delhi" || body["date_range"] != "2024-01-01 to 2024-01-31" {
			t.Errorf("unexpected body %v", body)
		}
	})

	raw, err := c.Do(context.Background(), rainfallEndpoint, map[string]string{
		"location":   "Delhi",
		"date_range": "2024-01-01 to 2024-01-31",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != "120.50" {
		t.Errorf("expected 120.50, got %s", raw)
	}
}

func TestDo_ObjectPredictionIsNotNormalized(t *testing.T) {
	c := newTestServer(t, http.StatusOK, `{"prediction":{"predicted_rainfall":3.25,"confidence":0.85}}`, nil)

	raw, err := c.Do(context.Background(), rainfallEndpoint, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"predicted_rainfall":3.25,"confidence":0.85}` {
		t.Errorf("unexpected field %s", raw)
	}
}

func TestDo_MissingFieldIsNull(t *testing.T) {
	c := newTestServer(t, http.StatusOK, `{"status":"success"}`, nil)

	raw, err := c.Do(context.Background(), rainfallEndpoint, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != "null" {
		t.Errorf("expected null, got %s", raw)
	}
}

func TestDo_ServerErrorMessage(t *testing.T) {
	c := newTestServer(t, http.StatusBadRequest, `{"error":"Missing required parameters"}`, nil)

	_, err := c.Do(context.Background(), rainfallEndpoint, map[string]string{})
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if pe.Kind != KindServer {
		t.Errorf("expected server kind, got %s", pe.Kind)
	}
	if pe.Status != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", pe.Status)
	}
	if err.Error() != "Missing required parameters" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestDo_ServerErrorFallback(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no error field", `{"status":"failed"}`},
		{"null error", `{"error":null}`},
		{"empty error", `{"error":""}`},
		{"array body", `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, http.StatusInternalServerError, tt.body, nil)
			_, err := c.Do(context.Background(), rainfallEndpoint, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != "Failed to get prediction" {
				t.Errorf("unexpected message %q", err.Error())
			}
		})
	}
}

func TestDo_NonJSONIsTransportFailure(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusBadGateway} {
		c := newTestServer(t, status, `<html>bad gateway</html>`, nil)
		_, err := c.Do(context.Background(), rainfallEndpoint, nil)
		var pe *Error
		if !errors.As(err, &pe) {
			t.Fatalf("status %d: expected *Error, got %v", status, err)
		}
		if pe.Kind != KindTransport {
			t.Errorf("status %d: expected transport kind, got %s", status, pe.Kind)
		}
		if pe.Message != "An error occurred while fetching the prediction" {
			t.Errorf("status %d: unexpected message %q", status, pe.Message)
		}
	}
}

func TestDo_UnreachableHost(t *testing.T) {
	c := NewClient("http://prediction.invalid")
	c.HTTPClient = &http.Client{Transport: failingRoundTripper{}}

	_, err := c.Do(context.Background(), rainfallEndpoint, nil)
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if pe.Kind != KindTransport || pe.Status != 0 {
		t.Errorf("unexpected error %+v", pe)
	}
	if pe.Message != "An error occurred while fetching the prediction" {
		t.Errorf("unexpected message %q", pe.Message)
	}
	if pe.Unwrap() == nil {
		t.Error("expected the network error to be wrapped")
	}
}

type historyQuery struct{ location, start, end string }

func (q historyQuery) Query() url.Values {
	v := url.Values{}
	v.Set("location", q.location)
	v.Set("start_date", q.start)
	v.Set("end_date", q.end)
	return v
}

func TestDo_GetSendsQuery(t *testing.T) {
	c := newTestServer(t, http.StatusOK, `{"data":[{"date":"2024-01-01","rainfall":2.5}]}`, func(r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.ContentLength > 0 {
			t.Error("GET must not carry a body")
		}
		q := r.URL.Query()
		if q.Get("location") != "Delhi" || q.Get("start_date") != "2024-01-01" || q.Get("end_date") != "2024-12-31" {
			t.Errorf("unexpected query %v", q)
		}
	})

	ep := Endpoint{Name: "rainfall-history", Method: http.MethodGet, Path: "/api/rainfall/historical", Field: "data"}
	raw, err := c.Do(context.Background(), ep, historyQuery{"Delhi", "2024-01-01", "2024-12-31"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `[{"date":"2024-01-01","rainfall":2.5}]` {
		t.Errorf("unexpected data %s", raw)
	}
}

func TestDo_GetRejectsInputWithoutQuery(t *testing.T) {
	c := NewClient("http://prediction.invalid")
	ep := Endpoint{Name: "history", Method: http.MethodGet, Path: "/h", Field: "data"}

	_, err := c.Do(context.Background(), ep, struct{ X int }{1})
	if err == nil {
		t.Fatal("expected error")
	}
	var pe *Error
	if errors.As(err, &pe) {
		t.Errorf("encoding errors are not service errors, got %+v", pe)
	}
}

func TestFetch_DecodesField(t *testing.T) {
	c := newTestServer(t, http.StatusOK, `{"prediction":{"predicted_yield":4.2,"confidence":0.9}}`, nil)

	type yield struct {
		PredictedYield float64 `json:"predicted_yield"`
		Confidence     float64 `json:"confidence"`
	}
	got, err := Fetch[yield](context.Background(), c, rainfallEndpoint, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PredictedYield != 4.2 || got.Confidence != 0.9 {
		t.Errorf("unexpected value %+v", got)
	}
}

func TestFetch_ShapeMismatchIsTransportFailure(t *testing.T) {
	c := newTestServer(t, http.StatusOK, `{"prediction":"heavy"}`, nil)

	_, err := Fetch[float64](context.Background(), c, rainfallEndpoint, nil)
	var pe *Error
	if !errors.As(err, &pe) || pe.Kind != KindTransport {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestMessage(t *testing.T) {
	if got := Message(nil, "fallback"); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
	if got := Message(context.Canceled, "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
	if got := Message(&Error{Message: "X"}, "fallback"); got != "X" {
		t.Errorf("expected X, got %q", got)
	}
}

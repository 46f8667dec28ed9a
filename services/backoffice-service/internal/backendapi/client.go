// Package backendapi calls the backend_api ajax endpoints the back-office
// pages are built on. Every call is one form-encoded POST answered with JSON;
// there are no retries.
package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/md-rashed-zaman/backoffice/libs/httpx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxResponseBytes = 8 << 20

type Config struct {
	// BaseURL is the application root; endpoints live under
	// BaseURL + "backend_api/".
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default instrumented client (tests).
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
}

func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend base url %q", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(httpx.RequestIDTransport{Base: http.DefaultTransport}),
		}
	}

	return &Client{
		baseURL: strings.TrimRight(base.String(), "/") + "/backend_api/",
		http:    hc,
		tracer:  otel.Tracer("backoffice/backendapi"),
	}, nil
}

// Response is a decoded, non-exceptional answer.
type Response struct {
	Payload  json.RawMessage
	Warnings []Issue
}

// Post issues one call. A response carrying exceptions yields
// *ExceptionsError; warnings are returned alongside the payload.
func (c *Client) Post(ctx context.Context, endpoint string, form url.Values) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, "backend_api "+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("backend.endpoint", endpoint)),
	)
	defer span.End()

	resp, err := c.post(ctx, endpoint, form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return resp, err
	}
	if len(resp.Warnings) > 0 {
		span.SetAttributes(attribute.Int("backend.warnings", len(resp.Warnings)))
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, endpoint string, form url.Values) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("Accept", "application/json")
	// CodeIgniter's is_ajax_request() looks for this header.
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", endpoint, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{Endpoint: endpoint, StatusCode: res.StatusCode, Body: truncate(string(body), 512)}
	}
	return decodeResponse(endpoint, body)
}

func decodeResponse(endpoint string, body []byte) (*Response, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return &Response{}, nil
	}
	if !json.Valid(trimmed) {
		return nil, &DecodeError{Endpoint: endpoint, Err: fmt.Errorf("body is not json: %q", truncate(string(trimmed), 120))}
	}
	if trimmed[0] != '{' {
		return &Response{Payload: trimmed}, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, &DecodeError{Endpoint: endpoint, Err: err}
	}
	excRaw, hasExc := obj["exceptions"]
	warnRaw, hasWarn := obj["warnings"]
	if !hasExc && !hasWarn {
		return &Response{Payload: trimmed}, nil
	}

	resp := &Response{Warnings: parseIssues(warnRaw)}
	if issues := parseIssues(excRaw); len(issues) > 0 {
		return resp, &ExceptionsError{Endpoint: endpoint, Issues: issues}
	}

	delete(obj, "exceptions")
	delete(obj, "warnings")
	if len(obj) > 0 {
		payload, err := json.Marshal(obj)
		if err != nil {
			return nil, &DecodeError{Endpoint: endpoint, Err: err}
		}
		resp.Payload = payload
	}
	return resp, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Ping reports whether the backend answers HTTP at all. Any status counts;
// only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return res.Body.Close()
}

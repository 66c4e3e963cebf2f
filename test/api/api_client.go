/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

//nolint:revive // naming conventions acceptable in test code
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "store-api-tests"

type APIClient struct {
	baseURL    string
	client     *http.Client
	config     *TestConfig
	endpoints  *Endpoints
	logWriter  io.Writer
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	validator  *SchemaValidator
	runID      string
}

// Option customises an APIClient at construction time.
type Option func(*APIClient)

// WithLogWriter sets the diagnostic stream requests and responses are logged to.
func WithLogWriter(w io.Writer) Option {
	return func(c *APIClient) {
		c.logWriter = w
	}
}

// WithHTTPClient replaces the underlying HTTP client, e.g. with one from httptest.
func WithHTTPClient(client *http.Client) Option {
	return func(c *APIClient) {
		c.client = client
	}
}

// WithTracerProvider sets where request spans are recorded.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *APIClient) {
		c.tracer = provider.Tracer(tracerName)
	}
}

// WithSchemaValidator checks every response against the store OpenAPI document.
func WithSchemaValidator(validator *SchemaValidator) Option {
	return func(c *APIClient) {
		c.validator = validator
	}
}

// NewAPIClientWithConfig returns a client sharing the base address, content
// type and logging hooks of config for every request it sends.
func NewAPIClientWithConfig(config *TestConfig, opts ...Option) *APIClient {
	c := &APIClient{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		config:     config,
		endpoints:  NewEndpoints(),
		logWriter:  ginkgo.GinkgoWriter,
		tracer:     sdktrace.NewTracerProvider().Tracer(tracerName),
		propagator: propagation.TraceContext{},
		runID:      NewRunID(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Response is a fully read HTTP response.
type Response struct {
	Method     string
	Path       string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// ExpectStatus returns an AssertionError when the status code differs from expected.
func (r *Response) ExpectStatus(expected int) error {
	if r.StatusCode != expected {
		return &AssertionError{
			Check:    fmt.Sprintf("status code of %s %s", r.Method, r.Path),
			Expected: expected,
			Actual:   fmt.Sprintf("%d, body: %s", r.StatusCode, string(r.Body)),
		}
	}

	return nil
}

// DecodeJSON unmarshals the body, reporting a malformed body as an assertion failure.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &AssertionError{
			Check:    fmt.Sprintf("body of %s %s", r.Method, r.Path),
			Expected: fmt.Sprintf("JSON decodable into %T", v),
			Actual:   fmt.Sprintf("%s (%v)", string(r.Body), err),
		}
	}

	return nil
}

// logRequest writes the outgoing request verbatim.
func (c *APIClient) logRequest(req *http.Request, body []byte) {
	if !c.config.LogRequests {
		return
	}

	fmt.Fprintf(c.logWriter, "[%s %s] request uri=%s\n", req.Method, req.URL.Path, req.URL.String())
	c.logHeaders(req.Header)
	c.logBody(body)
}

// logResponse writes the incoming response verbatim.
func (c *APIClient) logResponse(method, path string, resp *Response, duration time.Duration) {
	if !c.config.LogResponses {
		return
	}

	fmt.Fprintf(c.logWriter, "[%s %s] response status=%d duration=%s\n", method, path, resp.StatusCode, duration)
	c.logHeaders(resp.Header)
	c.logBody(resp.Body)
}

func (c *APIClient) logHeaders(header http.Header) {
	for _, name := range slices.Sorted(maps.Keys(header)) {
		fmt.Fprintf(c.logWriter, "    %s: %s\n", name, strings.Join(header[name], ", "))
	}
}

func (c *APIClient) logBody(body []byte) {
	if len(body) == 0 {
		fmt.Fprintln(c.logWriter, "    <no body>")
		return
	}

	fmt.Fprintf(c.logWriter, "    %s\n", string(body))
}

// logError logs a transport error with trace context.
func (c *APIClient) logError(method, path string, duration time.Duration, span trace.Span, err error, context string) {
	fmt.Fprintf(c.logWriter, "[%s %s] ERROR %s duration=%s trace_id=%s error=%v\n", method, path, context, duration, span.SpanContext().TraceID(), err)
}

func (c *APIClient) doRequest(ctx context.Context, method, path string, body []byte) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, method+" "+path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// W3C trace context so a failing request can be found in server logs.
	c.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))
	req.Header.Set("Tracestate", "store-api-tests="+c.runID)
	req.Header.Set("Accept", ContentTypeJSON)

	if body != nil {
		req.Header.Set("Content-Type", c.config.ContentType)
	}

	c.logRequest(req, body)

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logError(method, path, duration, span, err, "http request failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, "http request failed")

		return nil, &TransportError{Method: method, Path: path, Err: err}
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logError(method, path, duration, span, err, "reading response body")
		span.RecordError(err)
		span.SetStatus(codes.Error, "reading response body")

		return nil, &TransportError{Method: method, Path: path, Err: fmt.Errorf("reading response body: %w", err)}
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	response := &Response{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}

	c.logResponse(method, path, response, duration)

	if c.validator != nil {
		if err := c.validator.ValidateResponse(ctx, response); err != nil {
			return response, &AssertionError{
				Check:    fmt.Sprintf("%s %s response matches the store contract", method, path),
				Expected: "a conformant response",
				Actual:   err.Error(),
			}
		}
	}

	return response, nil
}

// PlaceOrder creates a new store order.
func (c *APIClient) PlaceOrder(ctx context.Context, order Order) (*Response, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("marshaling order body: %w", err)
	}

	return c.doRequest(ctx, http.MethodPost, c.endpoints.CreateOrder(), body)
}

// GetOrder retrieves a store order by ID.
func (c *APIClient) GetOrder(ctx context.Context, orderID int64) (*Response, error) {
	path, err := c.endpoints.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	return c.doRequest(ctx, http.MethodGet, path, nil)
}

// GetInventory retrieves the pet counts by status.
func (c *APIClient) GetInventory(ctx context.Context) (*Response, error) {
	return c.doRequest(ctx, http.MethodGet, c.endpoints.Inventory(), nil)
}

// DeleteOrder deletes a store order by ID.
func (c *APIClient) DeleteOrder(ctx context.Context, orderID int64) (*Response, error) {
	path, err := c.endpoints.DeleteOrder(orderID)
	if err != nil {
		return nil, err
	}

	return c.doRequest(ctx, http.MethodDelete, path, nil)
}

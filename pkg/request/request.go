package request

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gojek/heimdall/v7"
	"github.com/opentracing-contrib/go-stdlib/nethttp"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/sirupsen/logrus"

	"github.com/redhat-data-and-ai/addressbook/pkg/logger"
)

// Request is a single outbound call, traced and logged by MakeRequest
type Request struct {
	ctx     context.Context
	method  string
	url     string
	body    []byte
	headers map[string]string
}

func NewRequest(ctx context.Context, method, url string, body []byte) (*Request, error) {
	if url == "" {
		return nil, fmt.Errorf("request url is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &Request{
		ctx:     ctx,
		method:  method,
		url:     url,
		body:    body,
		headers: make(map[string]string),
	}, nil
}

func (r *Request) SetHeaders(headers map[string]string) {
	for k, v := range headers {
		r.headers[k] = v
	}
}

// MakeRequest sends the request through client and returns the body and status code.
// methodName names the tracing span, service tags it with the remote system.
func (r *Request) MakeRequest(client heimdall.Doer, methodName, service string) ([]byte, int, error) {
	span, ctx := opentracing.StartSpanFromContext(r.ctx, methodName)
	defer span.Finish()
	ext.PeerService.Set(span, service)

	var body io.Reader
	if len(r.body) > 0 {
		body = bytes.NewReader(r.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range r.headers {
		httpReq.Header.Set(k, v)
	}
	if id := logger.RequestID(r.ctx); id != "" {
		httpReq.Header.Set("X-Request-ID", id)
	}

	httpReq, ht := nethttp.TraceRequest(opentracing.GlobalTracer(), httpReq,
		nethttp.OperationName(methodName))
	defer ht.Finish()

	log := logger.Logger(r.ctx).WithFields(logrus.Fields{
		"service": service,
		"method":  r.method,
		"url":     r.url,
	})

	start := time.Now()
	resp, err := client.Do(httpReq)
	if err != nil {
		ext.Error.Set(span, true)
		log.WithError(err).Error("outbound request failed")
		if resp != nil {
			_ = resp.Body.Close()
			return nil, resp.StatusCode, fmt.Errorf("%s request failed: %w", methodName, err)
		}
		return nil, 0, fmt.Errorf("%s request failed: %w", methodName, err)
	}
	defer resp.Body.Close()

	ext.HTTPStatusCode.Set(span, uint16(resp.StatusCode))
	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("outbound request completed")

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return respBody, resp.StatusCode, nil
}

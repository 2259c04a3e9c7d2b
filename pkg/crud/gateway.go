package crud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Ratio1/crud_sdk_go/internal/crudapi"
	"github.com/Ratio1/crud_sdk_go/internal/httpx"
)

const (
	headerAPIKey      = "x-api-key"
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
)

// gateway issues one request per call and classifies the outcome.
type gateway struct {
	client *httpx.Client
	logger logrus.FieldLogger
}

func newGateway(cfg Config, o *options) (*gateway, error) {
	header := make(http.Header, len(o.headers)+2)
	for k, values := range o.headers {
		header[k] = append([]string(nil), values...)
	}
	header.Set(headerAPIKey, cfg.APIKey)
	header.Set(headerContentType, contentTypeJSON)

	httpOpts := []httpx.Option{httpx.WithHeaders(header)}
	if o.httpClient != nil {
		httpOpts = append(httpOpts, httpx.WithHTTPClient(o.httpClient))
	}
	if o.timeout > 0 {
		httpOpts = append(httpOpts, httpx.WithTimeout(o.timeout))
	}

	cl, err := httpx.NewClient(cfg.BaseURL, httpOpts...)
	if err != nil {
		return nil, &Error{Kind: ErrConfig, Message: msgConfigRequired, Err: err}
	}
	return &gateway{client: cl, logger: o.logger}, nil
}

// send issues method against baseURL+path. body is JSON encoded and sent for
// POST and PUT only. A 2xx response yields its raw body; anything else is
// classified into ErrQuotaExceeded, ErrRemote or ErrTransport.
func (g *gateway) send(ctx context.Context, method, path string, body any) ([]byte, error) {
	verb := strings.ToUpper(method)
	withBody := false
	switch verb {
	case http.MethodGet, http.MethodDelete:
	case http.MethodPost, http.MethodPut:
		withBody = true
	default:
		return nil, &Error{Kind: ErrUnsupportedMethod, Message: fmt.Sprintf("Unsupported method: %s", method)}
	}

	req := &httpx.Request{Method: verb, Path: path}
	if withBody && body != nil {
		payload, err := encodeJSON(body)
		if err != nil {
			return nil, fmt.Errorf("crud: encode request body: %w", err)
		}
		req.Body = payload
	}

	log := g.logger.WithFields(logrus.Fields{"method": verb, "path": path})
	resp, err := g.client.Do(ctx, req)
	if err != nil {
		classified := TransportFailure(err)
		log.WithError(err).Debug("crud: no response")
		return nil, classified
	}

	log = log.WithField("status", resp.StatusCode)
	if resp.Success() {
		log.Debug("crud: request completed")
		return resp.Body, nil
	}

	classified := classify(resp)
	log.WithField("kind", classified.Kind).Debug("crud: request rejected")
	return nil, classified
}

func classify(resp *httpx.Response) *Error {
	if resp.StatusCode == http.StatusForbidden {
		e := QuotaExceeded()
		e.Body = resp.Body
		return e
	}
	e := RemoteFailure(resp.StatusCode, crudapi.ErrorMessage(resp.StatusCode, resp.Body))
	e.Body = resp.Body
	return e
}

// causeText strips the "Method URL:" prefix net/http adds to transport errors.
func causeText(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}

func encodeJSON(payload any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

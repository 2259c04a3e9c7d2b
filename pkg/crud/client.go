package crud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Ratio1/crud_sdk_go/internal/crudapi"
)

const itemsPath = "/items"

// Backend performs the four item operations and returns raw response bodies.
// The HTTP implementation talks to the remote service; other implementations
// (see package mock) serve tests and local development. Errors should be
// *Error values; anything else is relabelled with the operation's fallback
// message.
type Backend interface {
	Create(ctx context.Context, payload []byte) ([]byte, error)
	Get(ctx context.Context, id string) ([]byte, error)
	Update(ctx context.Context, id string, payload []byte) ([]byte, error)
	Delete(ctx context.Context, id string) ([]byte, error)
}

// Option configures a Client.
type Option func(*options)

type options struct {
	httpClient *http.Client
	timeout    time.Duration
	headers    http.Header
	logger     logrus.FieldLogger
}

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(h *http.Client) Option {
	return func(o *options) {
		o.httpClient = h
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithHeaders adds headers to every request. The x-api-key and Content-Type
// headers cannot be overridden.
func WithHeaders(h http.Header) Option {
	return func(o *options) {
		if o.headers == nil {
			o.headers = make(http.Header)
		}
		for k, values := range h {
			for _, v := range values {
				o.headers.Add(k, v)
			}
		}
	}
}

// WithLogger routes debug logging to l. By default the client is silent.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.logger = l
	}
	return o
}

// Client provides access to the item CRUD API. It holds no mutable state and
// is safe for concurrent use.
type Client struct {
	backend Backend
	logger  logrus.FieldLogger
}

// New constructs a Client bound to apiKey and baseURL. Both are required. No
// network activity happens here.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	return NewWithConfig(Config{APIKey: apiKey, BaseURL: baseURL}, opts...)
}

// NewWithConfig is New taking a Config.
func NewWithConfig(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	gw, err := newGateway(cfg, o)
	if err != nil {
		return nil, err
	}
	return &Client{backend: &httpBackend{gw: gw}, logger: o.logger}, nil
}

// NewWithBackend allows callers to supply a custom backend (e.g., mocks).
func NewWithBackend(b Backend, opts ...Option) *Client {
	o := buildOptions(opts)
	return &Client{backend: b, logger: o.logger}
}

// Create stores a new item and returns its id.
func (c *Client) Create(ctx context.Context, data CreateData) (*CreateResult, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}
	payload, err := encodeJSON(data)
	if err != nil {
		return nil, wrapOperation(err, msgCreateFailed)
	}
	return c.create(ctx, payload)
}

// CreateJSON stores a new item from a pre-encoded JSON object. The object must
// hold a numeric "value" and a string "txHash"; it is forwarded unchanged.
func (c *Client) CreateJSON(ctx context.Context, raw []byte) (*CreateResult, error) {
	payload, err := validateCreateJSON(raw)
	if err != nil {
		return nil, err
	}
	return c.create(ctx, payload)
}

func (c *Client) create(ctx context.Context, payload []byte) (*CreateResult, error) {
	return call[CreateResult](c, "create", msgCreateFailed, func(b Backend) ([]byte, error) {
		return b.Create(ctx, payload)
	})
}

// Get fetches the item stored under id.
func (c *Client) Get(ctx context.Context, id string) (*GetResult, error) {
	if id == "" {
		return nil, newError(ErrValidation, msgIDRequired)
	}
	return call[GetResult](c, "get", msgGetFailed, func(b Backend) ([]byte, error) {
		return b.Get(ctx, id)
	})
}

// GetJSON fetches the raw JSON body returned for id.
func (c *Client) GetJSON(ctx context.Context, id string) ([]byte, error) {
	if id == "" {
		return nil, newError(ErrValidation, msgIDRequired)
	}
	if c == nil || c.backend == nil {
		return nil, wrapOperation(fmt.Errorf("crud: client is nil"), msgGetFailed)
	}
	body, err := c.backend.Get(ctx, id)
	if err != nil {
		return nil, wrapOperation(err, msgGetFailed)
	}
	return body, nil
}

// Update changes the fields of id that are present in data.
func (c *Client) Update(ctx context.Context, id string, data UpdateData) (*UpdateResult, error) {
	if id == "" {
		return nil, newError(ErrValidation, msgIDRequired)
	}
	if err := data.validate(); err != nil {
		return nil, err
	}
	payload, err := encodeJSON(data)
	if err != nil {
		return nil, wrapOperation(err, msgUpdateFailed)
	}
	return call[UpdateResult](c, "update", msgUpdateFailed, func(b Backend) ([]byte, error) {
		return b.Update(ctx, id, payload)
	})
}

// Delete removes the item stored under id.
func (c *Client) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	if id == "" {
		return nil, newError(ErrValidation, msgIDRequired)
	}
	return call[DeleteResult](c, "delete", msgDeleteFailed, func(b Backend) ([]byte, error) {
		return b.Delete(ctx, id)
	})
}

func call[T any](c *Client, op, fallback string, fn func(Backend) ([]byte, error)) (*T, error) {
	if c == nil || c.backend == nil {
		return nil, wrapOperation(fmt.Errorf("crud: client is nil"), fallback)
	}

	body, err := fn(c.backend)
	if err != nil {
		err = wrapOperation(err, fallback)
		c.logger.WithError(err).WithField("op", op).Debug("crud: operation failed")
		return nil, err
	}

	var out T
	if err := crudapi.DecodeResult(body, &out); err != nil {
		err = wrapOperation(fmt.Errorf("crud: decode %s response: %w", op, err), fallback)
		c.logger.WithError(err).WithField("op", op).Debug("crud: operation failed")
		return nil, err
	}
	return &out, nil
}

func validateCreateJSON(raw []byte) ([]byte, error) {
	fields, err := crudapi.ParseItemFields(raw)
	if err != nil || !fields.Complete() {
		return nil, newError(ErrValidation, msgInvalidCreate)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, newError(ErrValidation, msgInvalidCreate)
	}
	return buf.Bytes(), nil
}

type httpBackend struct {
	gw *gateway
}

func (b *httpBackend) Create(ctx context.Context, payload []byte) ([]byte, error) {
	return b.gw.send(ctx, http.MethodPost, itemsPath, json.RawMessage(payload))
}

func (b *httpBackend) Get(ctx context.Context, id string) ([]byte, error) {
	return b.gw.send(ctx, http.MethodGet, itemsPath+"/"+id, nil)
}

func (b *httpBackend) Update(ctx context.Context, id string, payload []byte) ([]byte, error) {
	return b.gw.send(ctx, http.MethodPut, itemsPath+"/"+id, json.RawMessage(payload))
}

func (b *httpBackend) Delete(ctx context.Context, id string) ([]byte, error) {
	return b.gw.send(ctx, http.MethodDelete, itemsPath+"/"+id, nil)
}

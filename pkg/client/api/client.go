package api

import (
	"maps"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/devantler-tech/apidelta/pkg/utils/logger"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultRequestTimeout bounds a whole exchange, body included.
	DefaultRequestTimeout = 15 * time.Second
	// DefaultConnectTimeout bounds establishing the connection.
	DefaultConnectTimeout = 10 * time.Second
	// RequestIDHeader carries the per-request identifier when enabled.
	RequestIDHeader = "X-Request-Id"

	contentTypeJSON = "application/json"
)

// RequestObserver runs before a request is sent. A non-nil *Error stops
// the request and becomes its Result.
type RequestObserver func(spec RequestSpec) *Error

// ResponseObserver runs after the response headers arrive and before the
// body is classified. A non-nil *Error becomes the Result.
type ResponseObserver func(resp *http.Response) *Error

// Client holds the transport and policy shared by every request it sends.
// A Client is safe for concurrent use.
type Client struct {
	httpClient       *http.Client
	requestTimeout   time.Duration
	connectTimeout   time.Duration
	baseURL          string
	headers          map[string]string
	requestObserver  RequestObserver
	responseObserver ResponseObserver
	requestID        func() string
	log              *logrus.Entry
}

// defaultClient is built on first use.
//
//nolint:gochecknoglobals // shared default transport, like http.DefaultClient
var defaultClient = sync.OnceValue(func() *Client { return NewClient() })

// Default returns the shared client used when Send is given none. It has
// the default timeouts and no base URL.
func Default() *Client {
	return defaultClient()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Timeouts configured
// with WithTimeouts are not applied to a client supplied this way.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeouts sets the request and connect timeouts. Non-positive values
// keep the defaults.
func WithTimeouts(request, connect time.Duration) Option {
	return func(c *Client) {
		if request > 0 {
			c.requestTimeout = request
		}

		if connect > 0 {
			c.connectTimeout = connect
		}
	}
}

// WithBaseURL makes relative request URLs resolve against baseURL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHeaders adds headers sent with every request. Per-request headers
// take precedence.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		if c.headers == nil {
			c.headers = make(map[string]string, len(headers))
		}

		maps.Copy(c.headers, headers)
	}
}

// WithRequestObserver installs the pre-send hook.
func WithRequestObserver(observer RequestObserver) Option {
	return func(c *Client) {
		c.requestObserver = observer
	}
}

// WithResponseObserver installs the post-receive hook.
func WithResponseObserver(observer ResponseObserver) Option {
	return func(c *Client) {
		c.responseObserver = observer
	}
}

// WithLogger sets the entry requests are logged to.
func WithLogger(log *logrus.Entry) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithRequestID stamps every request with an X-Request-Id header produced
// by generate. A per-request header of the same name wins.
func WithRequestID(generate func() string) Option {
	return func(c *Client) {
		c.requestID = generate
	}
}

// NewClient creates a Client with a 15 s request timeout and a 10 s connect
// timeout unless options say otherwise.
func NewClient(opts ...Option) *Client {
	client := &Client{
		requestTimeout: DefaultRequestTimeout,
		connectTimeout: DefaultConnectTimeout,
		log:            logger.Tagged(nil, logger.TagAPI),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		client.httpClient = newHTTPClient(client.requestTimeout, client.connectTimeout)
	}

	return client
}

func newHTTPClient(requestTimeout, connectTimeout time.Duration) *http.Client {
	transport, ok := http.DefaultTransport.(*http.Transport)
	if ok {
		transport = transport.Clone()
	} else {
		transport = &http.Transport{Proxy: http.ProxyFromEnvironment}
	}

	transport.DialContext = (&net.Dialer{Timeout: connectTimeout}).DialContext
	transport.TLSHandshakeTimeout = connectTimeout

	return &http.Client{Transport: transport, Timeout: requestTimeout}
}

// resolveURL joins relative URLs onto the base URL. Absolute URLs and
// clients without a base URL pass through.
func (c *Client) resolveURL(raw string) string {
	if c.baseURL == "" || strings.Contains(raw, "://") {
		return raw
	}

	return c.baseURL + "/" + strings.TrimLeft(raw, "/")
}

// CloseIdleConnections releases idle keep-alive connections held by the
// underlying transport.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// Shutdown closes idle connections. It lets a dependency container release
// the client when it shuts down.
func (c *Client) Shutdown() {
	c.CloseIdleConnections()
}

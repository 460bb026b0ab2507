package provider

import (
	"time"

	"github.com/rxtech-lab/fedfunds/internal/logger"
)

const (
	DefaultFREDBaseURL      = "https://api.stlouisfed.org"
	DefaultFREDGraphBaseURL = "https://fred.stlouisfed.org"
	DefaultTimeout          = 30 * time.Second
)

// Option configures a FRED client.
type Option func(*clientOptions)

type clientOptions struct {
	baseURL string
	timeout time.Duration
	logger  *logger.Logger
}

func newClientOptions(defaultBaseURL string, opts []Option) clientOptions {
	o := clientOptions{
		baseURL: defaultBaseURL,
		timeout: DefaultTimeout,
		logger:  nil,
	}

	for _, opt := range opts {
		opt(&o)
	}

	o.logger = logger.OrNop(o.logger)

	return o
}

// WithBaseURL points the client at a different host, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithTimeout sets the HTTP timeout for a single request. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *clientOptions) {
		o.logger = l
	}
}

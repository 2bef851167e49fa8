// Package fetcher retrieves content from arbitrary URLs on behalf of the fetch tool.
package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds a whole retrieval, redirects and body included.
	DefaultTimeout = 10 * time.Second

	// MaxContentChars is the number of characters of the body kept in a result.
	MaxContentChars = 2000
)

// Result is the outcome of a retrieval.
// On success URL, Status and Content are set; on failure URL and Error are set.
type Result struct {
	URL     string `json:"url"`
	Status  int    `json:"status,omitempty"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Fetcher performs outbound GET requests with a bounded timeout.
// It is safe for concurrent use.
type Fetcher struct {
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout overrides the retrieval timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithTransport overrides the HTTP transport, mostly useful in tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) { f.httpClient.Transport = rt }
}

// WithLogger sets the logger used to report failed retrievals.
func WithLogger(l *zap.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// New creates a Fetcher. Redirects are followed using net/http's default policy.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch retrieves url. It never returns an error: any failure, including
// a malformed URL, DNS failure or timeout, is reported in Result.Error.
func (f *Fetcher) Fetch(ctx context.Context, url string) Result {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return f.failure(url, err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return f.failure(url, err)
	}
	defer resp.Body.Close()

	// a character is at most 4 bytes in UTF-8, so this is always enough to fill MaxContentChars
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxContentChars*utf8.UTFMax))
	if err != nil {
		return f.failure(url, err)
	}

	return Result{
		URL:     url,
		Status:  resp.StatusCode,
		Content: Truncate(string(body), MaxContentChars),
	}
}

func (f *Fetcher) failure(url string, err error) Result {
	f.logger.Debug("fetch failed", zap.String("url", url), zap.Error(err))
	return Result{URL: url, Error: err.Error()}
}

// Truncate returns the first n characters of s.
// Invalid UTF-8 sequences are replaced with the Unicode replacement character.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return toValidUTF8(s[:pos])
		}
		i++
	}
	return toValidUTF8(s)
}

func toValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return string([]rune(s))
}

// Package fetch retrieves the remote resource a choice list is built from.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/chen-qa/dynamic-choice/pkg/httpclient"
)

const (
	DefaultUserAgent      = "Jenkins-DynamicChoiceUrlParameter/1.2.0"
	DefaultConnectTimeout = 10 * time.Second
	DefaultReadTimeout    = 30 * time.Second
)

// Result is the decoded body of one GET.
type Result struct {
	Content     string
	ContentType string
	// URLPath is the lower-cased path component of the requested URL.
	URLPath string
}

// NetworkError covers every failure to obtain a body: bad URL, dial,
// timeout, HTTP error status and body read errors.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string { return e.Err.Error() }

func (e *NetworkError) Unwrap() error { return e.Err }

// Fetcher performs single GET requests. The zero value uses a fresh client
// with the default timeouts.
type Fetcher struct {
	Client       httpclient.HTTPDoer
	UserAgent    string
	ReadTimeout  time.Duration
	MaxBodyBytes int64
	Log          *zerolog.Logger
}

// New returns a Fetcher backed by a non-pooling client.
func New(connect, read time.Duration) *Fetcher {
	if connect <= 0 {
		connect = DefaultConnectTimeout
	}
	if read <= 0 {
		read = DefaultReadTimeout
	}
	return &Fetcher{
		Client:      httpclient.New(httpclient.Timeouts{Connect: connect, Read: read}),
		UserAgent:   DefaultUserAgent,
		ReadTimeout: read,
	}
}

// Fetch GETs rawURL and returns its body decoded as UTF-8.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log := f.logger(ctx)

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Result{}, &NetworkError{URL: rawURL, Err: err}
	}
	if u.Scheme == "" {
		return Result{}, &NetworkError{URL: rawURL, Err: fmt.Errorf("no protocol: %s", rawURL)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Result{}, &NetworkError{URL: rawURL, Err: fmt.Errorf("unsupported protocol: %q", u.Scheme)}
	}
	if u.Host == "" {
		return Result{}, &NetworkError{URL: rawURL, Err: fmt.Errorf("missing host in URL: %s", rawURL)}
	}
	log.Info().Str("url", u.String()).Msg("fetching options")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return Result{}, &NetworkError{URL: rawURL, Err: err}
	}
	ua := f.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	resp, err := f.client().Do(req)
	if err != nil {
		return Result{}, &NetworkError{URL: rawURL, Err: unwrapURLError(err)}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		return Result{}, &NetworkError{
			URL: rawURL,
			Err: fmt.Errorf("Server returned HTTP response code: %d for URL: %s", resp.StatusCode, u.String()),
		}
	}

	var body io.Reader = resp.Body
	idle := newIdleReader(resp.Body, f.readTimeout(), cancel)
	defer idle.stop()
	body = idle
	if f.MaxBodyBytes > 0 {
		body = &capReader{r: body, remaining: f.MaxBodyBytes}
	}
	raw, err := io.ReadAll(transform.NewReader(body, unicode.UTF8.NewDecoder()))
	if err != nil {
		if idle.expired() {
			err = errReadTimeout
		}
		return Result{}, &NetworkError{URL: rawURL, Err: err}
	}

	res := Result{
		Content:     joinLines(string(raw)),
		ContentType: resp.Header.Get("Content-Type"),
		URLPath:     strings.ToLower(u.Path),
	}
	log.Info().Str("content_type", res.ContentType).Int("bytes", len(raw)).Msg("fetched options source")
	log.Debug().Str("content", res.Content).Msg("fetched content")
	return res, nil
}

func (f *Fetcher) client() httpclient.HTTPDoer {
	if f.Client != nil {
		return f.Client
	}
	return httpclient.New(httpclient.Timeouts{Connect: DefaultConnectTimeout, Read: f.readTimeout()})
}

func (f *Fetcher) readTimeout() time.Duration {
	if f.ReadTimeout > 0 {
		return f.ReadTimeout
	}
	return DefaultReadTimeout
}

func (f *Fetcher) logger(ctx context.Context) *zerolog.Logger {
	if f.Log != nil {
		return f.Log
	}
	return zerolog.Ctx(ctx)
}

// unwrapURLError drops the "Get \"...\":" prefix net/http adds so the
// message names only the cause.
func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		if ue.Timeout() {
			if strings.Contains(ue.Err.Error(), "awaiting headers") {
				return errReadTimeout
			}
			return errConnectTimeout
		}
		return ue.Err
	}
	return err
}

// joinLines splits on \n, \r\n and \r and rejoins with \n. A final line
// terminator does not produce a trailing newline.
func joinLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSuffix(s, "\n")
}

package httpclienttest

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/chen-qa/dynamic-choice/pkg/httpclient"
)

// Reply is one queued outcome of a Do call.
type Reply struct {
	Resp *http.Response
	Err  error
}

// FakeDoer implements httpclient.HTTPDoer so callers can run tests without
// making outbound HTTP requests.
type FakeDoer struct {
	t        testing.TB
	mu       sync.Mutex
	replies  []Reply
	requests []*http.Request
}

// NewFakeDoer returns a FakeDoer seeded with the responses that should be
// returned for each Do call.
func NewFakeDoer(t testing.TB, responses ...*http.Response) *FakeDoer {
	f := &FakeDoer{t: t}
	for _, r := range responses {
		f.replies = append(f.replies, Reply{Resp: r})
	}
	return f
}

// Fail queues a transport error for the next Do call.
func (f *FakeDoer) Fail(err error) *FakeDoer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, Reply{Err: err})
	return f
}

// Do records the request and returns the next queued reply.
func (f *FakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if len(f.replies) == 0 {
		f.t.Fatalf("fake http client has no responses left for request %s %s", req.Method, req.URL.String())
		return nil, io.ErrUnexpectedEOF
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	if r.Resp != nil && r.Resp.Request == nil {
		r.Resp.Request = req
	}
	return r.Resp, r.Err
}

// Requests returns the HTTP requests captured so far.
func (f *FakeDoer) Requests() []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*http.Request(nil), f.requests...)
}

// NewStringResponse builds a minimal http.Response with the provided status
// code and body string.
func NewStringResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

// NewTypedResponse is NewStringResponse with a Content-Type header.
func NewTypedResponse(status int, contentType, body string) *http.Response {
	resp := NewStringResponse(status, body)
	if contentType != "" {
		resp.Header.Set("Content-Type", contentType)
	}
	return resp
}

var _ httpclient.HTTPDoer = (*FakeDoer)(nil)

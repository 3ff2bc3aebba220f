// Package resolver runs the option-resolution pipeline: fetch, detect the
// format, extract, filter and sort.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/chen-qa/dynamic-choice/pkg/choices"
	"github.com/chen-qa/dynamic-choice/pkg/extract"
	"github.com/chen-qa/dynamic-choice/pkg/fetch"
	"github.com/chen-qa/dynamic-choice/pkg/format"
)

var (
	ErrEmptyURL  = errors.New("url is empty")
	ErrEmptyPath = errors.New("path is empty")
)

// Query names the resource to fetch, the path to extract and an optional
// filter pattern.
type Query struct {
	url    string
	path   string
	filter string
}

func NewQuery(url, path, filter string) (Query, error) {
	if strings.TrimSpace(url) == "" {
		return Query{}, ErrEmptyURL
	}
	if strings.TrimSpace(path) == "" {
		return Query{}, ErrEmptyPath
	}
	return Query{url: url, path: path, filter: filter}, nil
}

func (q Query) URL() string    { return q.url }
func (q Query) Path() string   { return q.path }
func (q Query) Filter() string { return q.filter }

type Fetcher interface {
	Fetch(ctx context.Context, url string) (fetch.Result, error)
}

// Resolver holds only configuration and is safe for concurrent use.
type Resolver struct {
	Fetcher Fetcher
	Log     *zerolog.Logger
}

func New(f Fetcher, log *zerolog.Logger) *Resolver {
	return &Resolver{Fetcher: f, Log: log}
}

// Resolve never fails: every error is folded into an Err list.
func (r *Resolver) Resolve(ctx context.Context, q Query) (list choices.ChoiceList) {
	if ctx == nil {
		ctx = context.Background()
	}
	log := r.logger(ctx)
	if r.Log != nil {
		ctx = r.Log.WithContext(ctx)
	}
	defer func() {
		if v := recover(); v != nil {
			log.Error().Interface("panic", v).Str("url", q.url).Msg("option resolution panicked")
			list = choices.Err(parsePrefix + fmt.Sprint(v))
		}
	}()

	seq, err := r.options(ctx, log, q)
	if err != nil {
		log.Error().Err(err).Str("url", q.url).Str("path", q.path).Msg("failed to resolve options")
		return choices.Err(Message(err))
	}
	return choices.Ok(seq)
}

func (r *Resolver) options(ctx context.Context, log *zerolog.Logger, q Query) ([]string, error) {
	if r.Fetcher == nil {
		return nil, errors.New("resolver has no fetcher")
	}
	res, err := r.Fetcher.Fetch(ctx, q.url)
	if err != nil {
		return nil, err
	}
	f := format.Detect(res.ContentType, res.URLPath)
	_, byType := format.FromContentType(res.ContentType)
	_, byPath := format.FromPath(res.URLPath)
	if !byType && !byPath {
		log.Info().Str("content_type", res.ContentType).Msg("content type undetermined, trying JSON")
	}
	raw, err := extract.Options(f, res.Content, q.path)
	if err != nil {
		return nil, err
	}
	log.Info().Str("format", f.String()).Strs("options", raw).Msg("extracted options")

	seq := make([]string, 0, len(raw)+1)
	seq = append(seq, choices.Sentinel)
	for _, v := range raw {
		if v != "" {
			seq = append(seq, v)
		}
	}
	if strings.TrimSpace(q.filter) != "" {
		seq, err = choices.Filter(seq, q.filter)
		if err != nil {
			return nil, err
		}
		log.Info().Str("filter", q.filter).Strs("options", seq).Msg("filtered options")
	}
	return choices.Sort(seq), nil
}

func (r *Resolver) logger(ctx context.Context) *zerolog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return zerolog.Ctx(ctx)
}

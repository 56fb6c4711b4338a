// Package bggapi fetches collection documents from the BoardGameGeek XML API.
package bggapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/cenkalti/backoff/v5"
	"github.com/vytor/bggcollect/internal/cache"
	"github.com/vytor/bggcollect/internal/errors"
	"github.com/vytor/bggcollect/internal/loader"
	"github.com/vytor/bggcollect/internal/logger"
)

const DefaultBaseURL = "https://boardgamegeek.com/xmlapi2"

// BGG answers 202 while it prepares a collection; the request has to be repeated.
var errQueued = stderrors.New("request queued by server")

type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      cache.Cache
	timeout    time.Duration
	retries    uint
	retryDelay time.Duration
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each HTTP attempt. It is applied to a copy of the
// configured http.Client, never to the caller's.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithCache(cc cache.Cache) Option {
	return func(c *Client) { c.cache = cc }
}

// WithRetries sets how many times a queued or failed request is repeated.
func WithRetries(n uint) Option {
	return func(c *Client) { c.retries = n }
}

// WithRetryDelay sets the first wait between attempts; later waits grow
// exponentially.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      cache.None{},
		retries:    5,
		retryDelay: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

type response struct {
	status int
	body   []byte
}

// FetchCollection requests one collection document. A 200 collection body is
// cached. An XML error payload, whatever the status, is returned uncached as a
// document so the loader can report the service's message.
func (c *Client) FetchCollection(ctx context.Context, q CollectionQuery) (*etree.Document, error) {
	log := logger.FromContext(ctx).WithPrefix("bggapi").WithFields(map[string]any{
		"username": q.Username,
		"subtype":  q.Subtype,
	})
	url := c.baseURL + "/collection?" + q.Values().Encode()

	if body, ok, err := c.cache.Get(ctx, url); err != nil {
		log.WithError(err).Warn("cache lookup failed, fetching")
	} else if ok {
		log.Debug("serving collection from cache")
		return loader.ParseDocument([]byte(body))
	}

	log.Debug("fetching collection from: %s", url)
	start := time.Now()

	resp, err := c.fetch(ctx, url)
	if err != nil {
		log.WithError(err).Error("failed to fetch collection")
		return nil, err
	}
	log.Debug("collection response received in %v, status=%d", time.Since(start), resp.status)

	doc, err := loader.ParseDocument(resp.body)
	if err != nil {
		log.WithError(err).Error("failed to parse collection response")
		return nil, err
	}

	if tag := doc.Root().Tag; tag == "errors" || tag == "error" {
		// Error payloads are answered live every time, never from the cache.
		log.Warn("collection request rejected: status=%d", resp.status)
		return doc, nil
	}
	if resp.status != http.StatusOK {
		return nil, errors.NewTransportError(fmt.Sprintf("collection status %d", resp.status), nil)
	}

	if err := c.cache.Set(ctx, url, string(resp.body)); err != nil {
		log.WithError(err).Warn("failed to cache collection response")
	}
	log.Info("fetched collection document (%d bytes)", len(resp.body))
	return doc, nil
}

func (c *Client) fetch(ctx context.Context, url string) (response, error) {
	log := logger.FromContext(ctx).WithPrefix("bggapi")

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryDelay
	b.MaxInterval = 8 * c.retryDelay

	resp, err := backoff.Retry(ctx, func() (response, error) {
		return c.do(ctx, url)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.retries+1),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			log.Debug("retrying in %v: %v", wait, err)
		}),
	)
	if err == nil {
		return resp, nil
	}

	var appErr *errors.AppError
	switch {
	case stderrors.As(err, &appErr):
		return response{}, appErr
	case stderrors.Is(err, errQueued):
		return response{}, errors.NewTransportError(fmt.Sprintf("collection still queued after %d attempts", c.retries+1), err)
	default:
		return response{}, errors.NewTransportError("fetch collection", err)
	}
}

func (c *Client) do(ctx context.Context, url string) (response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return response{}, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return response{}, backoff.Permanent(ctx.Err())
		}
		return response{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, err
	}

	switch {
	case resp.StatusCode == http.StatusOK,
		resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusNotFound:
		return response{status: resp.StatusCode, body: body}, nil
	case resp.StatusCode == http.StatusAccepted:
		return response{}, errQueued
	case resp.StatusCode == http.StatusTooManyRequests:
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			return response{}, backoff.RetryAfter(secs)
		}
		return response{}, fmt.Errorf("status %d", resp.StatusCode)
	case resp.StatusCode >= 500:
		return response{}, fmt.Errorf("status %d", resp.StatusCode)
	default:
		return response{}, backoff.Permanent(errors.NewTransportError(
			fmt.Sprintf("collection status %d: %s", resp.StatusCode, truncate(body, 1024)), nil))
	}
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}

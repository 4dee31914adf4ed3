// Package resty implements pagemig.ContentAPI and pagemig.PostService over
// the source site's paginated REST API using go-resty.
package resty

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/pagemig"
	"github.com/go-resty/resty/v2"
)

// APIPath is the REST API root relative to the site URL.
const APIPath = "/wp-json/wp/v2"

// DefaultPageSize is the largest page the API serves.
const DefaultPageSize = 100

// DefaultTimeout bounds a single API request.
const DefaultTimeout = 15 * time.Second

// Ensure Client implements the API interfaces at compile time.
var (
	_ pagemig.ContentAPI  = (*Client)(nil)
	_ pagemig.PostService = (*Client)(nil)
)

// Client reads collections and single items from the REST API.
type Client struct {
	http     *resty.Client
	limiter  pagemig.RateLimiter
	pageSize int
	timeout  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithLimiter paces page requests after the first of each collection walk.
func WithLimiter(l pagemig.RateLimiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithPageSize sets the page size used by the typed post and term lookups.
func WithPageSize(n int) Option {
	return func(c *Client) {
		c.pageSize = n
	}
}

// NewClient returns a client for the site at siteURL.
func NewClient(siteURL string, opts ...Option) *Client {
	c := &Client{
		pageSize: DefaultPageSize,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = resty.New().
		SetBaseURL(strings.TrimRight(siteURL, "/")+APIPath).
		SetTimeout(c.timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "pagemig/1.0")

	return c
}

// Collection implements pagemig.ContentAPI.
func (c *Client) Collection(ctx context.Context, endpoint string, pageSize int) iter.Seq2[json.RawMessage, error] {
	if pageSize <= 0 {
		pageSize = c.pageSize
	}
	return func(yield func(json.RawMessage, error) bool) {
		for page := 1; ; page++ {
			if page > 1 && c.limiter != nil {
				if err := c.limiter.Wait(ctx); err != nil {
					yield(nil, err)
					return
				}
			}

			items, last, err := c.page(ctx, endpoint, page, pageSize)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}
			if last {
				return
			}
		}
	}
}

// page fetches one page of a collection. last reports that no further
// page should be requested.
func (c *Client) page(ctx context.Context, endpoint string, page, pageSize int) (items []json.RawMessage, last bool, err error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("per_page", strconv.Itoa(pageSize)).
		Get("/" + endpoint)
	if err != nil {
		return nil, false, c.transportError(err, "fetch %s page %d", endpoint, page)
	}

	// The API answers 400 for a page past the end.
	if resp.StatusCode() == http.StatusBadRequest {
		return nil, true, nil
	}
	if !resp.IsSuccess() {
		return nil, false, fmt.Errorf("fetch %s page %d: %w", endpoint, page,
			&pagemig.FetchError{URL: resp.Request.URL, StatusCode: resp.StatusCode()})
	}

	if err := json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, false, fmt.Errorf("decode %s page %d: %w", endpoint, page, err)
	}
	if len(items) == 0 {
		return nil, true, nil
	}

	if total, err := strconv.Atoi(resp.Header().Get("X-WP-TotalPages")); err == nil && page >= total {
		return items, true, nil
	}
	return items, false, nil
}

// FindBySlug implements pagemig.ContentAPI.
func (c *Client) FindBySlug(ctx context.Context, endpoint, slug string) (json.RawMessage, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("slug", slug).
		Get("/" + endpoint)
	if err != nil {
		return nil, c.transportError(err, "find %s %q", endpoint, slug)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("find %s %q: %w", endpoint, slug,
			&pagemig.FetchError{URL: resp.Request.URL, StatusCode: resp.StatusCode()})
	}

	var items []json.RawMessage
	if err := json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("decode %s %q: %w", endpoint, slug, err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

// FindPosts implements pagemig.PostService.
func (c *Client) FindPosts(ctx context.Context) iter.Seq2[*pagemig.Post, error] {
	return func(yield func(*pagemig.Post, error) bool) {
		for raw, err := range c.Collection(ctx, pagemig.EndpointPosts, c.pageSize) {
			if err != nil {
				yield(nil, err)
				return
			}
			var post pagemig.Post
			if err := json.Unmarshal(raw, &post); err != nil {
				yield(nil, fmt.Errorf("decode post: %w", err))
				return
			}
			if !yield(&post, nil) {
				return
			}
		}
	}
}

// FindPostBySlug implements pagemig.PostService.
func (c *Client) FindPostBySlug(ctx context.Context, slug string) (*pagemig.Post, error) {
	raw, err := c.FindBySlug(ctx, pagemig.EndpointPosts, slug)
	if err != nil || raw == nil {
		return nil, err
	}
	var post pagemig.Post
	if err := json.Unmarshal(raw, &post); err != nil {
		return nil, fmt.Errorf("decode post %q: %w", slug, err)
	}
	return &post, nil
}

// FindTerms implements pagemig.PostService.
func (c *Client) FindTerms(ctx context.Context, taxonomy pagemig.Taxonomy) ([]*pagemig.Term, error) {
	if taxonomy != pagemig.TaxonomyCategories && taxonomy != pagemig.TaxonomyTags {
		return nil, pagemig.Errorf(pagemig.EINVALID, "unknown taxonomy %q", taxonomy)
	}

	var terms []*pagemig.Term
	for raw, err := range c.Collection(ctx, string(taxonomy), c.pageSize) {
		if err != nil {
			return nil, err
		}
		var term pagemig.Term
		if err := json.Unmarshal(raw, &term); err != nil {
			return nil, fmt.Errorf("decode %s term: %w", taxonomy, err)
		}
		terms = append(terms, &term)
	}
	return terms, nil
}

// FindMediaURL implements pagemig.PostService.
func (c *Client) FindMediaURL(ctx context.Context, id int) (string, error) {
	if id <= 0 {
		return "", pagemig.Errorf(pagemig.ENOTFOUND, "media %d not found", id)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.Itoa(id)).
		Get("/" + pagemig.EndpointMedia + "/{id}")
	if err != nil {
		return "", c.transportError(err, "find media %d", id)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return "", pagemig.Errorf(pagemig.ENOTFOUND, "media %d not found", id)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("find media %d: %w", id,
			&pagemig.FetchError{URL: resp.Request.URL, StatusCode: resp.StatusCode()})
	}

	var media struct {
		SourceURL string `json:"source_url"`
	}
	if err := json.Unmarshal(resp.Body(), &media); err != nil {
		return "", fmt.Errorf("decode media %d: %w", id, err)
	}
	if media.SourceURL == "" {
		return "", pagemig.Errorf(pagemig.ENOTFOUND, "media %d has no source URL", id)
	}
	return media.SourceURL, nil
}

func (c *Client) transportError(err error, format string, args ...any) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return pagemig.Errorf(pagemig.ETIMEOUT, "%s: timed out after %s", fmt.Sprintf(format, args...), c.timeout)
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

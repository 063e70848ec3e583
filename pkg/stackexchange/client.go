package stackexchange

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kbroman/errorgrams/pkg/corpus"
	"github.com/kbroman/errorgrams/pkg/observability"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Define static errors
var (
	ErrAPIResponse = errors.New("stack exchange API error")
	ErrInvalidPage = errors.New("page must be at least 1")
)

const searchPath = "/search/advanced"

// PageCache stores raw result pages between runs
type PageCache interface {
	// GetPage returns nil, nil on a cache miss
	GetPage(ctx context.Context, key string) ([]byte, error)
	SetPage(ctx context.Context, key string, data []byte) error
}

// ClientInterface defines the methods for querying the search API
type ClientInterface interface {
	// Posts runs the configured query
	Posts(ctx context.Context) ([]corpus.Post, error)
	// Search fetches pages of results for q until the API reports no more
	// results, the quota runs out or the configured page limit is reached
	Search(ctx context.Context, q Query) ([]corpus.Post, error)
	// FetchPage fetches a single page of results
	FetchPage(ctx context.Context, q Query, page int) (*Page, error)
	// Stop closes the client
	Stop() error
}

// client implements ClientInterface over HTTP
type client struct {
	log        logrus.FieldLogger
	httpClient *http.Client
	baseURL    string
	cfg        *Config
	limiter    *rate.Limiter
	cache      PageCache
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewClient creates a new search API client. cache may be nil.
func NewClient(logger logrus.FieldLogger, cfg *Config, cache PageCache) (ClientInterface, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.SetDefaults()

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}

	return &client{
		log:        logger.WithField("component", "stackexchange"),
		httpClient: &http.Client{Transport: transport},
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		cfg:        cfg,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		cache:      cache,
		sleep:      sleepContext,
	}, nil
}

func (c *client) Stop() error {
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}

	return nil
}

func (c *client) Posts(ctx context.Context) ([]corpus.Post, error) {
	return c.Search(ctx, c.cfg.Query())
}

func (c *client) Search(ctx context.Context, q Query) ([]corpus.Post, error) {
	log := c.log.WithFields(logrus.Fields{
		"tagged": q.Tagged,
		"body":   q.Body,
	})

	var posts []corpus.Post

	for page := 1; page <= c.cfg.MaxPages; page++ {
		p, err := c.FetchPage(ctx, q, page)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", page, err)
		}

		posts = append(posts, p.Posts...)

		log.WithFields(logrus.Fields{
			"page":   page,
			"posts":  len(p.Posts),
			"cached": p.Cached,
		}).Debug("Fetched search page")

		if !p.HasMore {
			break
		}

		if p.Cached {
			continue
		}

		if p.QuotaRemaining <= 0 {
			log.WithField("page", page).Warn("API quota exhausted, stopping early")
			break
		}

		if p.Backoff > 0 && page < c.cfg.MaxPages {
			wait := time.Duration(p.Backoff) * time.Second
			log.WithField("backoff", wait).Info("API requested backoff")

			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}
		}
	}

	observability.PostsFetched.Add(float64(len(posts)))
	log.WithField("posts", len(posts)).Info("Search complete")

	return posts, nil
}

func (c *client) FetchPage(ctx context.Context, q Query, page int) (*Page, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}

	values := c.values(q, page)
	key := cacheKey(c.baseURL, values)

	if c.cache != nil {
		data, err := c.cache.GetPage(ctx, key)
		if err != nil {
			c.log.WithError(err).Warn("Page cache lookup failed")
			observability.RecordError("stackexchange", "cache_read")
		}

		if data != nil {
			p, decodeErr := decodePage(data, page)
			if decodeErr == nil {
				observability.RecordPageCacheHit()
				p.Cached = true

				return p, nil
			}

			c.log.WithError(decodeErr).Warn("Discarding undecodable cached page")
		}

		observability.RecordPageCacheMiss()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()

	body, err := c.executeHTTPRequest(ctx, values)
	if err != nil {
		observability.RecordSearchPage("error", time.Since(start).Seconds())
		return nil, err
	}

	p, err := decodePage(body, page)
	if err != nil {
		observability.RecordSearchPage("error", time.Since(start).Seconds())
		return nil, err
	}

	observability.RecordSearchPage("success", time.Since(start).Seconds())
	observability.SearchQuotaRemaining.Set(float64(p.QuotaRemaining))

	if c.cache != nil {
		if err := c.cache.SetPage(ctx, key, body); err != nil {
			c.log.WithError(err).Warn("Failed to store page in cache")
			observability.RecordError("stackexchange", "cache_write")
		}
	}

	return p, nil
}

func (c *client) executeHTTPRequest(ctx context.Context, values url.Values) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.getTimeout(ctx))
	defer cancel()

	reqURL := c.baseURL + searchPath + "?" + values.Encode()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if c.cfg.Debug {
		c.log.WithField("params", redact(values).Encode()).Debug("Executing search request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.log.WithError(closeErr).Debug("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp wrapper
		if jsonErr := json.Unmarshal(body, &errorResp); jsonErr == nil && errorResp.ErrorID != 0 {
			return nil, fmt.Errorf("%w (status %d): %s: %s", ErrAPIResponse, resp.StatusCode, errorResp.ErrorName, errorResp.ErrorMessage)
		}

		return nil, fmt.Errorf("%w (status %d): %s", ErrAPIResponse, resp.StatusCode, string(body))
	}

	return body, nil
}

func (c *client) getTimeout(ctx context.Context) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		return time.Until(deadline)
	}

	return c.cfg.RequestTimeout
}

func decodePage(body []byte, number int) (*Page, error) {
	var w wrapper
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if w.ErrorID != 0 {
		return nil, fmt.Errorf("%w %d (%s): %s", ErrAPIResponse, w.ErrorID, w.ErrorName, w.ErrorMessage)
	}

	posts := make([]corpus.Post, 0, len(w.Items))
	for _, item := range w.Items {
		posts = append(posts, item.post())
	}

	return &Page{
		Number:         number,
		Posts:          posts,
		HasMore:        w.HasMore,
		QuotaRemaining: w.QuotaRemaining,
		Backoff:        w.Backoff,
	}, nil
}

// cacheKey identifies a page by endpoint and parameters. The app key is
// left out so it never ends up in Redis.
func cacheKey(baseURL string, values url.Values) string {
	sum := sha256.Sum256([]byte(baseURL + searchPath + "?" + redact(values).Encode()))
	return hex.EncodeToString(sum[:])
}

func redact(values url.Values) url.Values {
	if values.Get("key") == "" {
		return values
	}

	out := url.Values{}
	for k, v := range values {
		if k != "key" {
			out[k] = v
		}
	}

	return out
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

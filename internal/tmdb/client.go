package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/five82/marquee/internal/metrics"
)

// MovieAPI is the subset of TMDB the browser needs. *Client implements it;
// tests substitute fakes.
type MovieAPI interface {
	ListPopular(ctx context.Context, page int) (Page[Movie], error)
	Search(ctx context.Context, query string, page int) (Page[Movie], error)
	Details(ctx context.Context, id int) (MovieDetails, error)
}

var _ MovieAPI = (*Client)(nil)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
	DefaultLanguage     = "en-US"
	DefaultRegion       = "US"

	// PlaceholderPoster is returned by ImageURL when a movie has no artwork.
	PlaceholderPoster = "/placeholder-poster.png"

	defaultUserAgent  = "marquee/0.1"
	defaultImageSize  = "w500"
	defaultTimeout    = 10 * time.Second
	breakerName       = "tmdb-api"
	breakerTripAfter  = 5
	maxErrorBodyBytes = 4 << 10
)

// Options configures a Client.
type Options struct {
	BaseURL      string
	ImageBaseURL string
	// APIKey is a v3 key sent as the api_key query parameter.
	APIKey string
	// ReadToken is a v4 read access token sent as a bearer token. It wins
	// over APIKey when both are set.
	ReadToken string
	Language  string
	Region    string

	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration

	// BreakerTimeout is how long the breaker stays open before probing.
	BreakerTimeout time.Duration

	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the TMDB v3 HTTP API. It is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	imageBase string
	http      *http.Client
	userAgent string
	apiKey    string
	readToken string
	language  string
	region    string

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  *slog.Logger
}

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	apiKey := strings.TrimSpace(opts.APIKey)
	token := strings.TrimSpace(opts.ReadToken)
	if apiKey == "" && token == "" {
		return nil, fmt.Errorf("tmdb api key or read token required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "tmdb"))

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	imageBase := strings.TrimRight(strings.TrimSpace(opts.ImageBaseURL), "/")
	if imageBase == "" {
		imageBase = DefaultImageBaseURL
	}

	c := &Client{
		baseURL:   base,
		imageBase: imageBase,
		http:      httpClient,
		userAgent: defaultUserAgent,
		apiKey:    apiKey,
		readToken: token,
		language:  valueOr(opts.Language, DefaultLanguage),
		region:    valueOr(opts.Region, DefaultRegion),
		limiter:   rate.NewLimiter(limit, burst),
		logger:    logger,
	}
	c.breaker = newBreaker(opts.BreakerTimeout, logger)
	return c, nil
}

func newBreaker(timeout time.Duration, logger *slog.Logger) *gobreaker.CircuitBreaker[struct{}] {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripAfter
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !temporary(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
}

// ListPopular fetches one page of /movie/popular.
func (c *Client) ListPopular(ctx context.Context, page int) (Page[Movie], error) {
	if c == nil {
		return Page[Movie]{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("page", strconv.Itoa(max(page, 1)))
	values.Set("region", c.region)
	var payload Page[Movie]
	if err := c.get(ctx, "movie/popular", "movie/popular", values, &payload); err != nil {
		return Page[Movie]{}, err
	}
	return normalizePage(payload), nil
}

// Search fetches one page of /search/movie for query.
func (c *Client) Search(ctx context.Context, query string, page int) (Page[Movie], error) {
	if c == nil {
		return Page[Movie]{}, fmt.Errorf("client is nil")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return Page[Movie]{}, fmt.Errorf("search query required")
	}
	values := url.Values{}
	values.Set("query", query)
	values.Set("page", strconv.Itoa(max(page, 1)))
	values.Set("include_adult", "false")
	var payload Page[Movie]
	if err := c.get(ctx, "search/movie", "search/movie", values, &payload); err != nil {
		return Page[Movie]{}, err
	}
	return normalizePage(payload), nil
}

// Details fetches /movie/{id}.
func (c *Client) Details(ctx context.Context, id int) (MovieDetails, error) {
	if c == nil {
		return MovieDetails{}, fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return MovieDetails{}, fmt.Errorf("movie id required")
	}
	var payload MovieDetails
	if err := c.get(ctx, "movie/"+strconv.Itoa(id), "movie/{id}", url.Values{}, &payload); err != nil {
		return MovieDetails{}, err
	}
	return payload, nil
}

// ImageURL builds an artwork URL for path at size (for example "w500" or
// "original"). An empty path yields PlaceholderPoster.
func (c *Client) ImageURL(path, size string) string {
	base := DefaultImageBaseURL
	if c != nil {
		base = c.imageBase
	}
	return imageURL(base, path, size)
}

// ImageURL builds an artwork URL against the default image host.
func ImageURL(path, size string) string {
	return imageURL(DefaultImageBaseURL, path, size)
}

func imageURL(base, path, size string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return PlaceholderPoster
	}
	if size = strings.TrimSpace(size); size == "" {
		size = defaultImageSize
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + "/" + size + path
}

func (c *Client) get(ctx context.Context, path, endpoint string, values url.Values, dest any) error {
	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.doURL(ctx, endpoint, path, values, dest)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.UpstreamRequests.WithLabelValues(endpoint, "rejected").Inc()
		return fmt.Errorf("tmdb unavailable: %w", err)
	}
	return err
}

func (c *Client) doURL(ctx context.Context, endpoint, path string, values url.Values, dest any) error {
	waitStart := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	metrics.UpstreamRateLimitWait.Observe(time.Since(waitStart).Seconds())

	values.Set("language", c.language)
	if c.readToken == "" {
		values.Set("api_key", c.apiKey)
	}
	rel := &url.URL{Path: path, RawQuery: values.Encode()}
	reqURL := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", requestID)
	if c.readToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.readToken)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordUpstream(endpoint, 0, time.Since(start))
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.RecordUpstream(endpoint, resp.StatusCode, time.Since(start))
	c.logger.Debug("tmdb request",
		slog.String("endpoint", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", requestID),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return decodeAPIError("/"+path, resp)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(path string, resp *http.Response) error {
	apiErr := &APIError{Path: path, Status: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil || len(body) == 0 {
		return apiErr
	}
	var payload struct {
		StatusCode    int    `json:"status_code"`
		StatusMessage string `json:"status_message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		apiErr.Code = payload.StatusCode
		apiErr.Message = strings.TrimSpace(payload.StatusMessage)
	}
	return apiErr
}

func normalizePage(p Page[Movie]) Page[Movie] {
	if p.Results == nil {
		p.Results = []Movie{}
	}
	if p.Page <= 0 {
		p.Page = 1
	}
	return p
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func valueOr(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

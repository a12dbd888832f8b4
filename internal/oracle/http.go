package oracle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/avast/retry-go/v4"
	cache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/multiyield-labs/multiyield-engine/internal/config"
	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

const (
	latestPricePath = "/v2/updates/price/latest"
	maxResponseSize = 1 << 20
)

// statusError is returned for non 2xx responses
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("price feed returned status %d: %s", e.code, e.body)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= http.StatusInternalServerError
}

// HTTPClient reads the latest price of a feed from a Hermes compatible price service.
type HTTPClient struct {
	httpClient *http.Client
	cfg        *config.OracleConfig
	limiter    *rate.Limiter
	cache      *cache.Cache
}

func NewHTTPClient(cfg *config.OracleConfig) *HTTPClient {
	c := &HTTPClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
	if cfg.CacheTTL > 0 {
		c.cache = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return c
}

func (c *HTTPClient) GetPrice(ctx context.Context, feedID string) (*PriceData, error) {
	feed := normalizeFeedID(feedID)
	if feed == "" {
		return nil, types.NewErrorWithMsg(types.OracleError, "empty price feed id")
	}

	if c.cache != nil {
		if cached, found := c.cache.Get(feed); found {
			data := cached.(PriceData)
			return &data, nil
		}
	}

	call := func() (*PriceData, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, retry.Unrecoverable(err)
		}
		return c.fetch(ctx, feed)
	}

	data, err := retry.DoWithData(call,
		retry.Context(ctx),
		retry.Attempts(c.cfg.MaxRetryTimes),
		retry.Delay(c.cfg.RetryInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var se *statusError
			if errors.As(err, &se) {
				return se.retryable()
			}
			// transport errors are retried, decode errors are not
			return !errors.Is(err, errMalformedResponse)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Ctx(ctx).Debug().
				Str("feed", feed).
				Uint("attempt", n+1).
				Uint("max_attempts", c.cfg.MaxRetryTimes).
				Err(err).
				Msg("failed to fetch price, retrying")
		}))
	if err != nil {
		return nil, types.NewError(types.OracleError.StatusCode(), types.OracleError,
			fmt.Errorf("failed to load price feed %s: %w", feedID, err))
	}

	if c.cache != nil {
		c.cache.SetDefault(feed, *data)
	}
	return data, nil
}

var errMalformedResponse = errors.New("malformed price response")

func (c *HTTPClient) fetch(ctx context.Context, feed string) (*PriceData, error) {
	endpoint := strings.TrimSuffix(c.cfg.Endpoint, "/") + latestPricePath + "?ids[]=" + url.QueryEscape(feed)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, body: string(body)}
	}

	return parsePriceUpdate(body, feed)
}

// parsePriceUpdate extracts feed from a payload of the form
// {"parsed":[{"id":"...","price":{"price":"123","conf":"4","expo":-8,"publish_time":1700000000}}]}
func parsePriceUpdate(body []byte, feed string) (*PriceData, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json", errMalformedResponse)
	}

	var entry gjson.Result
	gjson.GetBytes(body, "parsed").ForEach(func(_, value gjson.Result) bool {
		if normalizeFeedID(value.Get("id").String()) == feed {
			entry = value
			return false
		}
		return true
	})
	if !entry.Exists() {
		return nil, fmt.Errorf("%w: feed %s missing from response", errMalformedResponse, feed)
	}

	price, err := strconv.ParseInt(entry.Get("price.price").String(), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: price: %v", errMalformedResponse, err)
	}

	conf, err := strconv.ParseUint(entry.Get("price.conf").String(), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: confidence: %v", errMalformedResponse, err)
	}

	expo := entry.Get("price.expo")
	publishTime := entry.Get("price.publish_time")
	if !expo.Exists() || !publishTime.Exists() {
		return nil, fmt.Errorf("%w: expo and publish_time are required", errMalformedResponse)
	}

	return &PriceData{
		Price:       price,
		Confidence:  conf,
		Expo:        int32(expo.Int()),
		PublishTime: publishTime.Int(),
	}, nil
}

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"
	"valorant-sync/internal/config"

	"github.com/valyala/fasthttp"
)

type RiotClient struct {
	apiKey      string
	baseURL     string
	client      *fasthttp.Client
	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

type RateLimitInfo struct {
	Limit  int    `json:"limit"`
	Count  int    `json:"count"`
	Method string `json:"method"`

	// seconds to wait after a 429
	RetryAfter int `json:"retry_after"`

	UpdatedAt time.Time `json:"updated_at"`
}

func NewRiotClient(cfg *config.Config) *RiotClient {
	return &RiotClient{
		apiKey:  cfg.RiotAPIKey,
		baseURL: cfg.RiotBaseURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

func (c *RiotClient) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *RiotClient) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if limit := string(resp.Header.Peek("X-App-Rate-Limit")); limit != "" {
		if val, err := strconv.Atoi(firstField(limit)); err == nil {
			c.rateLimit.Limit = val
		}
	}
	if count := string(resp.Header.Peek("X-App-Rate-Limit-Count")); count != "" {
		if val, err := strconv.Atoi(firstField(count)); err == nil {
			c.rateLimit.Count = val
		}
	}
	if method := string(resp.Header.Peek("X-Method-Rate-Limit")); method != "" {
		c.rateLimit.Method = method
	}
	if retryAfter := string(resp.Header.Peek("Retry-After")); retryAfter != "" {
		if val, err := strconv.Atoi(retryAfter); err == nil {
			c.rateLimit.RetryAfter = val
		}
	}
	c.rateLimit.UpdatedAt = time.Now()
}

// firstField strips the window suffix from a "count:window" rate header.
func firstField(header string) string {
	for i := 0; i < len(header); i++ {
		if header[i] == ':' {
			return header[:i]
		}
	}
	return header
}

// FetchMatchIDs lists the match IDs known to the remote for one account,
// most recent first.
func (c *RiotClient) FetchMatchIDs(ctx context.Context, puuid string) ([]string, error) {
	url := fmt.Sprintf("%s/val/match/v1/matchlists/by-puuid/%s", c.baseURL, puuid)
	matchlist, err := doRequest[RawMatchlist](ctx, c, url)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(matchlist.History))
	for _, entry := range matchlist.History {
		if entry.MatchID != "" {
			ids = append(ids, entry.MatchID)
		}
	}
	return ids, nil
}

// FetchMatch retrieves one full match record.
func (c *RiotClient) FetchMatch(ctx context.Context, matchID string) (*RawMatch, error) {
	url := fmt.Sprintf("%s/val/match/v1/matches/%s", c.baseURL, matchID)
	return doRequest[RawMatch](ctx, c, url)
}

func doRequest[T any](ctx context.Context, client *RiotClient, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("X-Riot-Token", client.apiKey)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTransient, url, err)
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTransient, url, err)
		}
	}

	client.updateRateLimit(resp)

	switch status := resp.StatusCode(); {
	case status == fasthttp.StatusOK:
	case status == fasthttp.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	case status == fasthttp.StatusUnauthorized || status == fasthttp.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrUnauthorized, status)
	default:
		return nil, fmt.Errorf("%w: status %d from %s", ErrTransient, status, url)
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrTransient, url, err)
	}
	return &result, nil
}

package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
	"valorant-sync/internal/config"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/singleflight"
)

// failureTTL is how long a failed endpoint fetch is remembered before a
// lookup tries the network again.
const failureTTL = 30 * time.Second

// Client resolves static game IDs (maps, weapons, agents, player cards)
// against the community reference API. Each endpoint is fetched once and
// cached for the process lifetime; an unknown ID or a failed fetch yields
// an empty string, never an error.
type Client struct {
	baseURL string
	client  *fasthttp.Client
	logger  zerolog.Logger

	group      singleflight.Group
	failureTTL time.Duration

	mu      sync.Mutex
	cache   map[string][]entry
	retryAt map[string]time.Time
}

type entry struct {
	UUID        string `json:"uuid"`
	DisplayName string `json:"displayName"`
	DisplayIcon string `json:"displayIcon"`
	MapURL      string `json:"mapUrl"`
	Splash      string `json:"splash"`
}

type payload struct {
	Status int     `json:"status"`
	Data   []entry `json:"data"`
}

func New(cfg *config.Config, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: cfg.CatalogURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     10,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		logger:     logger,
		failureTTL: failureTTL,
		cache:      make(map[string][]entry),
		retryAt:    make(map[string]time.Time),
	}
}

// entries returns the cached catalog for one endpoint, fetching it on the
// first call. The fetch runs outside the lock and concurrent lookups for
// one endpoint collapse into a single request; a failed fetch is remembered
// for failureTTL so an outage resolves lookups to empty names instead of
// stalling every caller on fresh attempts.
func (c *Client) entries(endpoint string) []entry {
	c.mu.Lock()
	if cached, ok := c.cache[endpoint]; ok {
		c.mu.Unlock()
		return cached
	}
	if until, ok := c.retryAt[endpoint]; ok && time.Now().Before(until) {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	fetched, err, _ := c.group.Do(endpoint, func() (any, error) {
		return c.fetch(endpoint)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("catalog fetch failed")
		c.retryAt[endpoint] = time.Now().Add(c.failureTTL)
		return nil
	}

	data := fetched.([]entry)
	c.cache[endpoint] = data
	delete(c.retryAt, endpoint)
	return data
}

func (c *Client) fetch(endpoint string) ([]entry, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fmt.Sprintf("%s/%s", c.baseURL, endpoint))
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := c.client.Do(req, resp); err != nil {
		return nil, err
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("catalog %s: status %d", endpoint, resp.StatusCode())
	}

	var body payload
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("catalog %s: decode: %w", endpoint, err)
	}
	return body.Data, nil
}

func (c *Client) MapNameFromURL(mapURL string) string {
	for _, e := range c.entries("maps") {
		if e.MapURL == mapURL {
			return e.DisplayName
		}
	}
	return ""
}

func (c *Client) MapSplash(mapName string) string {
	for _, e := range c.entries("maps") {
		if e.DisplayName == mapName {
			return e.Splash
		}
	}
	return ""
}

func (c *Client) WeaponName(weaponID string) string {
	for _, e := range c.entries("weapons") {
		if strings.EqualFold(e.UUID, weaponID) {
			return e.DisplayName
		}
	}
	return ""
}

func (c *Client) AgentName(agentID string) string {
	for _, e := range c.entries("agents") {
		if strings.EqualFold(e.UUID, agentID) {
			return e.DisplayName
		}
	}
	return ""
}

func (c *Client) CardIcon(cardID string) string {
	for _, e := range c.entries("playercards") {
		if strings.EqualFold(e.UUID, cardID) {
			return e.DisplayIcon
		}
	}
	return ""
}

var queueNames = map[string]string{
	"competitive": "Competitive",
	"custom":      "Custom",
	"":            "Custom",
	"deathmatch":  "Deathmatch",
	"ggteam":      "Escalation",
	"newmap":      "Pearl",
	"onefa":       "Replication",
	"snowball":    "Snowball Fight",
	"spikerush":   "SpikeRush",
	"unrated":     "Unrated",
	"swiftplay":   "Swift Play",
}

// QueueName maps a queue ID to its display name. The table is fixed; an
// unrecognized queue is "Unknown".
func (c *Client) QueueName(queueID string) string {
	if name, ok := queueNames[queueID]; ok {
		return name
	}
	return "Unknown"
}

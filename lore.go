package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// LoreClient is the seam to the external flavor-text service. It is only
// consulted for boss encounters and castle taunts, and every failure mode
// degrades to a canned fallback string.
type LoreClient interface {
	GenerateLore(ctx context.Context, subject string, zone Zone) (string, error)
	GenerateTaunt(ctx context.Context, ownerName string) (string, error)
}

const loreTimeout = 5 * time.Second

func fallbackLore(subject string) string {
	return fmt.Sprintf("A wild %s appears!", subject)
}

const fallbackTaunt = "I am the lord of this castle! Begone!"

var errLoreDisabled = errors.New("lore generation disabled")

// disabledLoreClient always fails, which resolves every request to its
// fallback string.
type disabledLoreClient struct{}

func (disabledLoreClient) GenerateLore(context.Context, string, Zone) (string, error) {
	return "", errLoreDisabled
}

func (disabledLoreClient) GenerateTaunt(context.Context, string) (string, error) {
	return "", errLoreDisabled
}

// httpLoreClient calls an external text-generation endpoint. The wire
// shape is a single prompt in, a single line of text out.
type httpLoreClient struct {
	baseURL string
	client  *http.Client
}

type lorePrompt struct {
	Prompt string `json:"prompt"`
}

type loreReply struct {
	Text string `json:"text"`
}

func (c *httpLoreClient) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(lorePrompt{Prompt: prompt})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lore endpoint returned %d", resp.StatusCode)
	}
	var reply loreReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", err
	}
	return strings.TrimSpace(reply.Text), nil
}

func (c *httpLoreClient) GenerateLore(ctx context.Context, subject string, zone Zone) (string, error) {
	prompt := fmt.Sprintf("Write one short dramatic sentence announcing a boss monster named %s appearing in the %s. Max 15 words.", subject, zone)
	return c.generate(ctx, prompt)
}

func (c *httpLoreClient) GenerateTaunt(ctx context.Context, ownerName string) (string, error) {
	prompt := fmt.Sprintf("Write one short arrogant taunt from %s, lord of a castle, to a challenger. Max 12 words.", ownerName)
	return c.generate(ctx, prompt)
}

// NewLoreClient builds the flavor-text client from configuration. With no
// endpoint configured, or lore disabled outright, every call resolves to
// the canned fallbacks.
func NewLoreClient(cfg Config) LoreClient {
	if cfg.LoreDisabled || cfg.LoreURL == "" {
		return disabledLoreClient{}
	}
	return &httpLoreClient{
		baseURL: cfg.LoreURL,
		client:  &http.Client{Timeout: loreTimeout},
	}
}

// loreResult is the completion message posted back to the tick loop.
// EncounterID guards against a stale response from an abandoned
// encounter being applied to a newer one.
type loreResult struct {
	EncounterID string
	Text        string
}

// loreRequester runs lore fetches off the tick loop. Completions queue on
// a buffered channel consumed at the next tick; if the channel is full
// the result is dropped, never blocking the fetch goroutine.
type loreRequester struct {
	client  LoreClient
	results chan loreResult
}

func newLoreRequester(client LoreClient) *loreRequester {
	if client == nil {
		client = disabledLoreClient{}
	}
	return &loreRequester{
		client:  client,
		results: make(chan loreResult, 4),
	}
}

// Request fires the fetch in the background and returns immediately.
func (r *loreRequester) Request(ctx context.Context, encounterID, subject string, zone Zone) {
	go func() {
		fetchCtx, cancel := context.WithTimeout(ctx, loreTimeout)
		defer cancel()
		text, err := r.client.GenerateLore(fetchCtx, subject, zone)
		if err != nil || text == "" {
			text = fallbackLore(subject)
		}
		select {
		case r.results <- loreResult{EncounterID: encounterID, Text: text}:
		default:
		}
	}()
}

// drain returns every completion that has arrived since the last tick.
func (r *loreRequester) drain() []loreResult {
	var out []loreResult
	for {
		select {
		case res := <-r.results:
			out = append(out, res)
		default:
			return out
		}
	}
}

// FetchTaunt resolves a castle taunt synchronously with the same
// fail-soft contract. It is only called from request handlers, never from
// the tick loop.
func FetchTaunt(ctx context.Context, client LoreClient, ownerName string) string {
	if client == nil {
		return fallbackTaunt
	}
	fetchCtx, cancel := context.WithTimeout(ctx, loreTimeout)
	defer cancel()
	text, err := client.GenerateTaunt(fetchCtx, ownerName)
	if err != nil || text == "" {
		return fallbackTaunt
	}
	return text
}

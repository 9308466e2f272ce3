// Package apollo implements the people search-and-enrichment capability
// against the Apollo.io REST API.
package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fundwire/extractor/internal/funding"
)

const defaultBaseURL = "https://api.apollo.io"

// Config captures the parameters for the Apollo client.
type Config struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	PerPage int           `mapstructure:"per_page"`
}

// Client talks to the Apollo people API.
type Client struct {
	baseURL string
	apiKey  string
	perPage int
	http    *http.Client
	logger  *zap.Logger
}

// New constructs a Client. Each search or enrichment call runs under the
// configured timeout (default 12s).
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("apollo api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 12 * time.Second
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		perPage: cfg.PerPage,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}, nil
}

type searchRequest struct {
	OrganizationName string   `json:"q_organization_name"`
	PersonTitles     []string `json:"person_titles"`
	Page             int      `json:"page"`
	PerPage          int      `json:"per_page"`
}

type searchResponse struct {
	People []struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Title     string `json:"title"`
	} `json:"people"`
}

// SearchByOrgAndTitles returns people at the organization holding any of
// the given titles, in the service's relevance order.
func (c *Client) SearchByOrgAndTitles(ctx context.Context, org string, titles []string) ([]funding.ExecutiveCandidate, error) {
	var resp searchResponse
	err := c.post(ctx, "/v1/mixed_people/search", searchRequest{
		OrganizationName: org,
		PersonTitles:     titles,
		Page:             1,
		PerPage:          c.perPage,
	}, &resp)
	if err != nil {
		return nil, err
	}

	candidates := make([]funding.ExecutiveCandidate, 0, len(resp.People))
	for _, p := range resp.People {
		candidates = append(candidates, funding.ExecutiveCandidate{
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Title:     p.Title,
		})
	}
	return candidates, nil
}

type enrichRequest struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	OrganizationName string `json:"organization_name"`
}

type enrichResponse struct {
	Person struct {
		Email string `json:"email"`
	} `json:"person"`
}

// Enrich asks the match endpoint for a verified email. An empty string
// means the service has no email for the person.
func (c *Client) Enrich(ctx context.Context, firstName, lastName, org string) (string, error) {
	var resp enrichResponse
	err := c.post(ctx, "/v1/people/match", enrichRequest{
		FirstName:        firstName,
		LastName:         lastName,
		OrganizationName: org,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Person.Email, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("close response body", zap.Error(closeErr))
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("post %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Package supabase stores milestones in a hosted Supabase table through its REST API.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/bryan-cox/launchledger/internal/model"
	"github.com/bryan-cox/launchledger/internal/store"
)

// Table is the milestone table name.
const Table = "business_milestones"

// KeyEnv names the environment variable holding the service key.
const KeyEnv = "SUPABASE_KEY"

// Client implements store.MilestoneStore against the PostgREST endpoint of a project.
type Client struct {
	BaseURL    string
	apiKey     string
	httpClient *http.Client
}

// New returns a client for the project at baseURL, e.g. https://xyz.supabase.co.
func New(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewFromEnv returns a client whose key is read from SUPABASE_KEY.
func NewFromEnv(baseURL string) (*Client, error) {
	key := os.Getenv(KeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%s is not set", KeyEnv)
	}
	return New(baseURL, key), nil
}

// updateRequest is the PATCH body for a completion toggle.
type updateRequest struct {
	Completed     bool       `json:"completed"`
	CompletedDate *time.Time `json:"completed_date"`
}

func (c *Client) tableURL(query url.Values) string {
	u := fmt.Sprintf("%s/rest/v1/%s", c.BaseURL, Table)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, method, apiURL string, body any, prefer string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase %s %s: %w", method, Table, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("supabase %s %s returned status %d: %s", method, Table, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return resp, nil
}

// List fetches the user's milestones.
func (c *Client) List(ctx context.Context, userID string) ([]model.Milestone, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("user_id", "eq."+userID)
	query.Set("order", "phase.asc,order_index.asc")

	resp, err := c.do(ctx, http.MethodGet, c.tableURL(query), nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var milestones []model.Milestone
	if err := json.NewDecoder(resp.Body).Decode(&milestones); err != nil {
		return nil, fmt.Errorf("failed to decode milestones: %w", err)
	}
	store.SortMilestones(milestones)
	slog.Debug("fetched milestones", "user_id", userID, "count", len(milestones))
	return milestones, nil
}

// Update sets the completion fields of one milestone.
func (c *Client) Update(ctx context.Context, id string, completed bool, completedAt *time.Time) error {
	query := url.Values{}
	query.Set("id", "eq."+id)

	resp, err := c.do(ctx, http.MethodPatch, c.tableURL(query), updateRequest{Completed: completed, CompletedDate: completedAt}, "return=representation")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var updated []model.Milestone
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return fmt.Errorf("failed to decode update response: %w", err)
	}
	if len(updated) == 0 {
		return fmt.Errorf("milestone %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// Insert creates milestone rows.
func (c *Client) Insert(ctx context.Context, milestones []model.Milestone) error {
	resp, err := c.do(ctx, http.MethodPost, c.tableURL(nil), milestones, "return=minimal")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

var _ store.MilestoneStore = (*Client)(nil)

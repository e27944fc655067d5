// Package client provides an HTTP client SDK for a stosim server,
// together with a fluent builder for model configurations.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/stosim/stosim/internal/gillespie"
)

// ModelBuilder provides a fluent API for building model configurations.
// Use it to declare species with initial populations and reactions with
// stoichiometry and rate constants.
type ModelBuilder struct {
	name      string
	species   []gillespie.SpeciesConfig
	reactions []*ReactionBuilder
	volume    float64
	chemFlag  bool
}

// NewModel creates a model builder with the given name.
func NewModel(name string) *ModelBuilder {
	return &ModelBuilder{
		name:      name,
		species:   make([]gillespie.SpeciesConfig, 0),
		reactions: make([]*ReactionBuilder, 0),
	}
}

// Species adds a species with its initial population count.
func (mb *ModelBuilder) Species(name string, initialCount int) *ModelBuilder {
	mb.species = append(mb.species, gillespie.SpeciesConfig{
		Name:         name,
		InitialCount: initialCount,
	})
	return mb
}

// Reaction adds a reaction definition to the model.
func (mb *ModelBuilder) Reaction(rb *ReactionBuilder) *ModelBuilder {
	mb.reactions = append(mb.reactions, rb)
	return mb
}

// Volume sets the reactor volume (defaults to 1.0 server-side).
func (mb *ModelBuilder) Volume(v float64) *ModelBuilder {
	mb.volume = v
	return mb
}

// MolarUnits declares the rate constants as molar: the conversion to
// stochastic rates scales volumes by Avogadro's number.
func (mb *ModelBuilder) MolarUnits() *ModelBuilder {
	mb.chemFlag = true
	return mb
}

// Build converts the builder into a ModelConfig.
func (mb *ModelBuilder) Build() gillespie.ModelConfig {
	reactions := make([]gillespie.ReactionConfig, 0, len(mb.reactions))
	for _, rb := range mb.reactions {
		reactions = append(reactions, rb.Build())
	}
	return gillespie.ModelConfig{
		Name:      mb.name,
		Species:   mb.species,
		Reactions: reactions,
		Volume:    mb.volume,
		ChemFlag:  mb.chemFlag,
	}
}

// ReactionBuilder provides a fluent API for one reaction: consumed
// species, produced species, and the deterministic rate constant.
type ReactionBuilder struct {
	id        string
	reactants map[string]int
	products  map[string]int
	rate      float64
}

// NewReaction creates a reaction builder with the given ID. The rate
// defaults to 1.0.
func NewReaction(id string) *ReactionBuilder {
	return &ReactionBuilder{
		id:        id,
		reactants: make(map[string]int),
		products:  make(map[string]int),
		rate:      1.0,
	}
}

// Consumes adds a reactant with its stoichiometric coefficient.
func (rb *ReactionBuilder) Consumes(species string, coefficient int) *ReactionBuilder {
	rb.reactants[species] = coefficient
	return rb
}

// Produces adds a product with its stoichiometric coefficient.
func (rb *ReactionBuilder) Produces(species string, coefficient int) *ReactionBuilder {
	rb.products[species] = coefficient
	return rb
}

// Rate sets the deterministic rate constant.
func (rb *ReactionBuilder) Rate(rate float64) *ReactionBuilder {
	rb.rate = rate
	return rb
}

// Build converts the builder into a ReactionConfig.
func (rb *ReactionBuilder) Build() gillespie.ReactionConfig {
	return gillespie.ReactionConfig{
		ID:        rb.id,
		Reactants: rb.reactants,
		Products:  rb.products,
		Rate:      rb.rate,
	}
}

// RunParams are the optional parameters of a run request.
type RunParams struct {
	MaxT    float64 `json:"max_t"`
	MaxIter int     `json:"max_iter"`
	Seed    int64   `json:"seed"`
	Reps    int     `json:"reps"`
	Seeds   []int64 `json:"seeds,omitempty"`
}

// DefaultRunParams mirrors the engine defaults: one trajectory, max_t 1.0,
// max_iter 100, seed 0.
func DefaultRunParams() RunParams {
	return RunParams{MaxT: 1.0, MaxIter: 100, Reps: 1}
}

// Client talks to a stosim server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the server at baseURL (e.g. "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewWithHTTPClient creates a client using a caller-supplied http.Client.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, http: httpClient}
}

// ApplyModel registers (or replaces) a model under the given ID.
func (c *Client) ApplyModel(ctx context.Context, modelID string, cfg gillespie.ModelConfig) error {
	path := "/model/" + url.PathEscape(modelID)
	return c.post(ctx, path, cfg, nil)
}

// Run executes trajectories of a registered model and returns the results.
func (c *Client) Run(ctx context.Context, modelID string, params RunParams) (gillespie.Results, error) {
	var results gillespie.Results
	path := "/model/" + url.PathEscape(modelID) + "/run"
	if err := c.post(ctx, path, params, &results); err != nil {
		return gillespie.Results{}, err
	}
	return results, nil
}

// Results fetches the accumulated run history of a model.
func (c *Client) Results(ctx context.Context, modelID string) (gillespie.Results, error) {
	var results gillespie.Results
	path := "/model/" + url.PathEscape(modelID) + "/results"
	if err := c.get(ctx, path, &results); err != nil {
		return gillespie.Results{}, err
	}
	return results, nil
}

// ListModels returns the IDs of all registered models.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	var resp struct {
		Models []string `json:"models"`
	}
	if err := c.get(ctx, "/models", &resp); err != nil {
		return nil, err
	}
	return resp.Models, nil
}

// DeleteModel removes a model and its run history.
func (c *Client) DeleteModel(ctx context.Context, modelID string) error {
	path := "/model/" + url.PathEscape(modelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, nil)
}

// SaveSnapshot asks the server to persist the latest run of a model and
// returns the server-side snapshot path.
func (c *Client) SaveSnapshot(ctx context.Context, modelID string) (string, error) {
	var resp struct {
		Status string `json:"status"`
		Path   string `json:"path"`
	}
	path := "/model/" + url.PathEscape(modelID) + "/snapshot"
	if err := c.post(ctx, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.Path, nil
}

// GetSnapshot fetches the persisted snapshot of a model.
func (c *Client) GetSnapshot(ctx context.Context, modelID string) (gillespie.Snapshot, error) {
	var snap gillespie.Snapshot
	path := "/model/" + url.PathEscape(modelID) + "/snapshot"
	if err := c.get(ctx, path, &snap); err != nil {
		return gillespie.Snapshot{}, err
	}
	return snap, nil
}

// RegisterWebhook registers a webhook notifier with the server.
func (c *Client) RegisterWebhook(ctx context.Context, notifierID, webhookURL string, headers map[string]string) error {
	cfg := map[string]any{"url": webhookURL}
	if len(headers) > 0 {
		hs := make(map[string]any, len(headers))
		for k, v := range headers {
			hs[k] = v
		}
		cfg["headers"] = hs
	}
	body := map[string]any{
		"type":   "webhook",
		"id":     notifierID,
		"config": cfg,
	}
	return c.post(ctx, "/notifiers", body, nil)
}

// UnregisterNotifier removes a notifier by ID.
func (c *Client) UnregisterNotifier(ctx context.Context, notifierID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/notifiers/"+url.PathEscape(notifierID), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, nil)
}

// Health checks the server health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, nil)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

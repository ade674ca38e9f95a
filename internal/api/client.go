package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/amirbrooks/todoist-action-cli/internal/tasks"
)

// SyncError wraps any collaborator-call failure: transport, decode, or
// per-command rejection. A commit that surfaces one leaves the queue
// untouched and is safe to retry.
type SyncError struct {
	Op       string
	Err      error
	Failures map[string]string // command uuid -> service error message
}

func (e *SyncError) Error() string {
	if len(e.Failures) > 0 {
		uuids := make([]string, 0, len(e.Failures))
		for id := range e.Failures {
			uuids = append(uuids, id)
		}
		sort.Strings(uuids)
		parts := make([]string, len(uuids))
		for i, id := range uuids {
			parts[i] = fmt.Sprintf("%s: %s", id, e.Failures[id])
		}
		return fmt.Sprintf("%s: service rejected %d command(s): %s", e.Op, len(e.Failures), strings.Join(parts, "; "))
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// SyncResponse is the full state the service returns from either call.
type SyncResponse struct {
	Tasks     []tasks.Task    `json:"items"`
	Projects  []tasks.Project `json:"projects"`
	Labels    []tasks.Label   `json:"labels"`
	SyncToken string          `json:"sync_token"`
}

// Service is the remote collaborator contract. Sync is a read-only refresh;
// SyncWithCommands submits the pending queue and fails as a unit if the
// service rejects any command.
type Service interface {
	Sync(ctx context.Context) (*SyncResponse, error)
	SyncWithCommands(ctx context.Context, cmds []Command) (*SyncResponse, error)
}

// Client is the HTTP implementation of Service.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient wires a client for the given endpoint and access token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type syncRequest struct {
	SyncToken     string    `json:"sync_token"`
	ResourceTypes []string  `json:"resource_types"`
	Commands      []Command `json:"commands,omitempty"`
}

type syncEnvelope struct {
	SyncResponse
	SyncStatus map[string]json.RawMessage `json:"sync_status,omitempty"`
}

func (c *Client) Sync(ctx context.Context) (*SyncResponse, error) {
	return c.doSync(ctx, "sync", nil)
}

func (c *Client) SyncWithCommands(ctx context.Context, cmds []Command) (*SyncResponse, error) {
	return c.doSync(ctx, "commit", cmds)
}

func (c *Client) doSync(ctx context.Context, op string, cmds []Command) (*SyncResponse, error) {
	payload := syncRequest{
		SyncToken:     "*",
		ResourceTypes: []string{"items", "projects", "labels"},
		Commands:      cmds,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &SyncError{Op: op, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/sync", bytes.NewReader(body))
	if err != nil {
		return nil, &SyncError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &SyncError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &SyncError{Op: op, Err: fmt.Errorf("service returned %s: %s", resp.Status, strings.TrimSpace(string(data)))}
	}

	var envelope syncEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &SyncError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	if failures := commandFailures(envelope.SyncStatus); len(failures) > 0 {
		return nil, &SyncError{Op: op, Err: fmt.Errorf("command rejected"), Failures: failures}
	}
	return &envelope.SyncResponse, nil
}

// commandFailures extracts per-command rejections from the sync_status map.
// A status is either the literal string "ok" or an error object.
func commandFailures(status map[string]json.RawMessage) map[string]string {
	var failures map[string]string
	for id, raw := range status {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s == "ok" {
			continue
		}
		var detail struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(raw))
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Error != "" {
			msg = detail.Error
		}
		if failures == nil {
			failures = make(map[string]string)
		}
		failures[id] = msg
	}
	return failures
}

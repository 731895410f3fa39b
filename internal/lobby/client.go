// internal/lobby/client.go
package lobby

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client performs the HTTP session-establishment calls (create, join, start).
// These are the only calls whose failures are surfaced to the user directly,
// since the user initiated them and expects feedback.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a lobby client against the server's HTTP base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Membership identifies a seat within a game session.
type Membership struct {
	GameID   int `json:"game_id"`
	PlayerID int `json:"player_id"`
}

// CreateGame creates a new game session and returns its id and the host seat.
func (c *Client) CreateGame(ctx context.Context) (Membership, error) {
	var m Membership
	if err := c.post(ctx, "/create", nil, &m); err != nil {
		return Membership{}, fmt.Errorf("create game: %w", err)
	}
	return m, nil
}

// JoinGame joins an existing game session and returns the assigned seat.
func (c *Client) JoinGame(ctx context.Context, gameID int) (Membership, error) {
	var m Membership
	body := map[string]int{"game_id": gameID}
	if err := c.post(ctx, "/join", body, &m); err != nil {
		return Membership{}, fmt.Errorf("join game %d: %w", gameID, err)
	}
	return m, nil
}

// StartGame asks the server to start the session. Only meaningful for the
// host; the server rejects premature or duplicate starts.
func (c *Client) StartGame(ctx context.Context, gameID int) error {
	body := map[string]int{"game_id": gameID}
	if err := c.post(ctx, fmt.Sprintf("/game/%d/start", gameID), body, nil); err != nil {
		return fmt.Errorf("start game %d: %w", gameID, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		// Error bodies carry a user-facing "message" field.
		var serverErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &serverErr) == nil && serverErr.Message != "" {
			return fmt.Errorf("%s", serverErr.Message)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"vidtycoon/internal/game"
)

// Profile is the account summary returned by register and login.
type Profile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Subscribers int64  `json:"subscribers"`
}

type LeaderboardEntry struct {
	Username    string `json:"username"`
	Subscribers int64  `json:"subscribers"`
}

// StatusError is a non-2xx response. Message carries the server's error text.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api status %d", e.Code)
	}
	return fmt.Sprintf("api status %d: %s", e.Code, e.Message)
}

// IsAuthFailure reports whether err is a rejected registration or login that
// should be shown to the player.
func IsAuthFailure(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == http.StatusBadRequest || se.Code == http.StatusUnauthorized
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) Register(ctx context.Context, username, password string) (Profile, error) {
	var out Profile
	err := c.jsonRequest(ctx, http.MethodPost, "/api/auth/register", map[string]any{
		"username": username,
		"password": password,
	}, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, username, password string) (Profile, error) {
	var out Profile
	err := c.jsonRequest(ctx, http.MethodPost, "/api/auth/login", map[string]any{
		"username": username,
		"password": password,
	}, &out)
	return out, err
}

func (c *Client) UpdateScore(ctx context.Context, userID string, score game.Score) error {
	var out struct {
		Success bool `json:"success"`
	}
	err := c.jsonRequest(ctx, http.MethodPost, "/api/score/update", map[string]any{
		"userId":      userID,
		"subscribers": score.Subscribers,
		"views":       score.Views,
	}, &out)
	if err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("score update not acknowledged")
	}
	return nil
}

func (c *Client) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var out []LeaderboardEntry
	err := c.jsonRequest(ctx, http.MethodGet, "/api/leaderboard", nil, &out)
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Message: errorText(raw)}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func errorText(raw []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}

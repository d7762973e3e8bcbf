package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"traderoom/internal/game"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) CreateSession(ctx context.Context, participant string) (game.SessionView, error) {
	var out game.SessionView
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/sessions", map[string]any{
		"participant": participant,
	}, &out, "")
	return out, err
}

func (c *Client) SetParticipant(ctx context.Context, sessionID, participant string) error {
	return c.jsonRequest(ctx, http.MethodPut, "/v1/sessions/"+url.PathEscape(sessionID)+"/participant", map[string]any{
		"participant": participant,
	}, nil, "")
}

func (c *Client) Round(ctx context.Context, sessionID string) (game.RoundView, error) {
	var out game.RoundView
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/sessions/"+url.PathEscape(sessionID)+"/round", nil, &out, "")
	return out, err
}

func (c *Client) SelectChoice(ctx context.Context, sessionID, ticker, choice string) error {
	return c.jsonRequest(ctx, http.MethodPut, "/v1/sessions/"+url.PathEscape(sessionID)+"/choices", map[string]any{
		"ticker": ticker,
		"choice": choice,
	}, nil, "")
}

func (c *Client) Submit(ctx context.Context, sessionID string) (game.SubmitResult, error) {
	var out game.SubmitResult
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/sessions/"+url.PathEscape(sessionID)+"/submit", nil, &out, "")
	return out, err
}

func (c *Client) Advance(ctx context.Context, sessionID string) (game.RoundView, error) {
	var out game.RoundView
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/sessions/"+url.PathEscape(sessionID)+"/advance", nil, &out, "")
	return out, err
}

func (c *Client) Retreat(ctx context.Context, sessionID string) (game.RoundView, error) {
	var out game.RoundView
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/sessions/"+url.PathEscape(sessionID)+"/retreat", nil, &out, "")
	return out, err
}

func (c *Client) ResetPlayer(ctx context.Context, sessionID string) error {
	return c.jsonRequest(ctx, http.MethodPost, "/v1/sessions/"+url.PathEscape(sessionID)+"/reset", nil, nil, "")
}

func (c *Client) DestroySession(ctx context.Context, sessionID string) error {
	return c.jsonRequest(ctx, http.MethodDelete, "/v1/sessions/"+url.PathEscape(sessionID), nil, nil, "")
}

func (c *Client) Scores(ctx context.Context, sessionID string) (game.ScoreTable, error) {
	var out game.ScoreTable
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/sessions/"+url.PathEscape(sessionID)+"/scores", nil, &out, "")
	return out, err
}

type leaderboardPayload struct {
	Entries []game.LeaderboardEntry `json:"entries"`
}

func (c *Client) Leaderboard(ctx context.Context) ([]game.LeaderboardEntry, error) {
	var out leaderboardPayload
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/leaderboard", nil, &out, "")
	return out.Entries, err
}

func (c *Client) ClearSubmissions(ctx context.Context, adminToken string) error {
	return c.jsonRequest(ctx, http.MethodDelete, "/v1/admin/submissions", nil, nil, adminToken)
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any, bearer string) error {
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
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, apiErrorMessage(raw))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func apiErrorMessage(raw []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}

package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/zhouzirui/dhamma-widget/internal/analysis/topic"
	"github.com/zhouzirui/dhamma-widget/internal/config"
	"github.com/zhouzirui/dhamma-widget/internal/model/chat"
	"github.com/zhouzirui/dhamma-widget/pkg/utils"
)

// ErrMissingReply is returned when the response JSON lacks a string "reply" field.
var ErrMissingReply = errors.New("response has no reply field")

// HistoryEntry is one prior turn in the optional history array accepted by /chat.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the body POSTed to /ask and /chat.
type Request struct {
	Message string         `json:"message"`
	History []HistoryEntry `json:"history,omitempty"`
}

type response struct {
	Reply *string `json:"reply"`
}

// Client talks to the backend that serves /ask and /chat.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a backend client. A zero cfg.Timeout leaves requests unbounded.
func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// URL returns the absolute endpoint URL for route.
func (c *Client) URL(route topic.Route) string {
	return c.baseURL + route.Path()
}

// Send posts req to the endpoint selected by route and returns the reply text.
func (c *Client) Send(ctx context.Context, route topic.Route, req Request) (string, error) {
	endpoint := c.URL(route)

	var resp response
	if err := utils.PostJSON(ctx, c.httpClient, endpoint, req, &resp); err != nil {
		return "", fmt.Errorf("post %s: %w", route.Path(), err)
	}
	if resp.Reply == nil {
		return "", fmt.Errorf("post %s: %w", route.Path(), ErrMissingReply)
	}

	c.logger.Debug("backend replied",
		zap.String("endpoint", route.Path()),
		zap.Int("length", len(*resp.Reply)),
	)
	return *resp.Reply, nil
}

// BuildHistory converts the newest transcript entries into history turns,
// skipping failure entries. At most limit entries are returned.
func BuildHistory(messages []chat.Message, limit int) []HistoryEntry {
	if len(messages) == 0 || limit <= 0 {
		return nil
	}

	kept := make([]chat.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Failed {
			continue
		}
		kept = append(kept, msg)
	}

	startIdx := 0
	if len(kept) > limit {
		startIdx = len(kept) - limit
	}

	history := make([]HistoryEntry, 0, len(kept)-startIdx)
	for _, msg := range kept[startIdx:] {
		switch msg.Role {
		case chat.RoleUser:
			history = append(history, HistoryEntry{Role: "user", Content: msg.Text})
		case chat.RoleBot:
			history = append(history, HistoryEntry{Role: "assistant", Content: msg.Text})
		}
	}
	if len(history) == 0 {
		return nil
	}
	return history
}

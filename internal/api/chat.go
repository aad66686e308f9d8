package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Profile selects the chat persona. It maps to the backend request type:
// a newtimer gets beginner-oriented answers ("newbie"), a veteran gets
// the standard analyst persona ("chat").
type Profile string

const (
	ProfileNewtimer Profile = "newtimer"
	ProfileVeteran  Profile = "veteran"
)

// RequestType returns the wire value for the profile.
func (p Profile) RequestType() string {
	if p == ProfileNewtimer {
		return "newbie"
	}
	return "chat"
}

type sendRequest struct {
	Type           string  `json:"type"`
	UserQuery      string  `json:"user_query"`
	ConversationID *string `json:"conversation_id"`
}

type assetSendRequest struct {
	UserQuery      string  `json:"user_query"`
	Symbol         string  `json:"symbol"`
	ConversationID *string `json:"conversation_id"`
}

// optionalID maps the empty string to JSON null, the wire convention for
// "start a new conversation".
func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// SendMessage posts one user query to the main chat surface. An empty
// conversationID asks the server to open a new conversation; the reply
// carries the id to use from then on.
func (c *Client) SendMessage(ctx context.Context, profile Profile, query, conversationID string) (*ChatReply, error) {
	req := sendRequest{
		Type:           profile.RequestType(),
		UserQuery:      query,
		ConversationID: optionalID(conversationID),
	}

	var reply ChatReply
	if err := c.do(ctx, http.MethodPost, "/api/v1/chat/send", req, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// ChatHistory lists conversation summaries for the sidebar.
func (c *Client) ChatHistory(ctx context.Context) ([]HistoryEntry, error) {
	var payload struct {
		History []HistoryEntry `json:"history"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/chat/history", nil, &payload); err != nil {
		return nil, err
	}
	return payload.History, nil
}

// Conversation fetches the full message list for one conversation.
func (c *Client) Conversation(ctx context.Context, id string) ([]Message, error) {
	var payload struct {
		Messages []Message `json:"messages"`
	}
	path := "/api/v1/chat/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Messages, nil
}

// SendAssetMessage posts one query to the per-asset chat surface.
func (c *Client) SendAssetMessage(ctx context.Context, symbol, query, conversationID string) (*ChatReply, error) {
	req := assetSendRequest{
		UserQuery:      query,
		Symbol:         symbol,
		ConversationID: optionalID(conversationID),
	}

	var reply ChatReply
	if err := c.do(ctx, http.MethodPost, "/api/v1/asset-chat/", req, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// AssetChatHistory lists past conversations about one asset.
func (c *Client) AssetChatHistory(ctx context.Context, symbol string) ([]HistoryEntry, error) {
	var payload struct {
		History []HistoryEntry `json:"history"`
	}
	path := fmt.Sprintf("/api/v1/asset-chat/%s/history", url.PathEscape(symbol))
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.History, nil
}

// AssetConversation fetches the messages of one asset conversation.
func (c *Client) AssetConversation(ctx context.Context, symbol, id string) ([]Message, error) {
	var payload struct {
		Messages []Message `json:"messages"`
	}
	path := fmt.Sprintf("/api/v1/asset-chat/%s/%s", url.PathEscape(symbol), url.PathEscape(id))
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Messages, nil
}

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/parleyhq/parley/internal/chat"
	"github.com/parleyhq/parley/internal/errors"
	"github.com/parleyhq/parley/internal/logger"
)

const defaultTimeout = 15 * time.Second

// Client is the HTTP implementation of Transport: JSON over REST with a
// bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient returns a client for the given server.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// Wire types mirror the server's JSON. Ids are Mongo-style "_id" strings;
// images carry the storage provider's public id.

type wireUser struct {
	ID         string `json:"_id"`
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	ProfilePic string `json:"profilePic"`
}

type wireLatestMessage struct {
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	CreatedAt time.Time `json:"createdAt"`
}

type wireChat struct {
	ID            string             `json:"_id"`
	Users         []string           `json:"users"`
	LatestMessage *wireLatestMessage `json:"latestMessage"`
	UnseenCount   int                `json:"unseenCount"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

type wireImage struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

type wireMessage struct {
	ID          string     `json:"_id"`
	ChatID      string     `json:"chatId"`
	Sender      string     `json:"sender"`
	MessageType string     `json:"messageType"`
	Text        string     `json:"text"`
	Image       *wireImage `json:"image"`
	Seen        bool       `json:"seen"`
	SeenAt      *time.Time `json:"seenAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (u wireUser) raw() chat.RawUser {
	return chat.RawUser{
		ID:          u.ID,
		DisplayName: u.FullName,
		AvatarURL:   u.ProfilePic,
		Email:       u.Email,
	}
}

func (c wireChat) raw() chat.RawConversation {
	rec := chat.RawConversation{
		ID:             c.ID,
		ParticipantIDs: c.Users,
		UnseenCount:    c.UnseenCount,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
	if c.LatestMessage != nil {
		rec.LatestMessage = &chat.MessagePreview{
			Text:      c.LatestMessage.Text,
			SenderID:  c.LatestMessage.Sender,
			Timestamp: c.LatestMessage.CreatedAt,
		}
	}
	return rec
}

func (m wireMessage) raw() chat.RawMessage {
	kind := chat.MessageText
	if m.MessageType == "image" {
		kind = chat.MessageImage
	}
	rec := chat.RawMessage{
		ID:             m.ID,
		ConversationID: m.ChatID,
		SenderID:       m.Sender,
		Kind:           kind,
		Text:           m.Text,
		CreatedAt:      m.CreatedAt,
		Seen:           m.Seen,
	}
	if m.SeenAt != nil {
		rec.SeenAt = *m.SeenAt
	}
	if m.Image != nil {
		rec.Image = &chat.Image{URL: m.Image.URL, StorageID: m.Image.PublicID}
	}
	return rec
}

// FetchConversations implements Transport.
func (c *Client) FetchConversations(ctx context.Context, userID string) ([]chat.RawConversation, error) {
	var chats []wireChat
	endpoint := "/api/chats?userId=" + url.QueryEscape(userID)
	if err := c.getJSON(ctx, endpoint, &chats); err != nil {
		return nil, errors.FetchConversationsFailed(userID, err)
	}

	out := make([]chat.RawConversation, 0, len(chats))
	for _, wc := range chats {
		out = append(out, wc.raw())
	}
	return out, nil
}

// FetchMessages implements Transport.
func (c *Client) FetchMessages(ctx context.Context, conversationID string) (*chat.MessagePage, error) {
	var resp struct {
		Messages []wireMessage `json:"messages"`
		User     wireUser      `json:"user"`
	}
	endpoint := "/api/messages/" + url.PathEscape(conversationID)
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, errors.FetchMessagesFailed(conversationID, err)
	}

	page := &chat.MessagePage{
		Messages:         make([]chat.RawMessage, 0, len(resp.Messages)),
		OtherParticipant: resp.User.raw(),
	}
	for _, wm := range resp.Messages {
		page.Messages = append(page.Messages, wm.raw())
	}
	return page, nil
}

// CreateConversation implements Transport.
func (c *Client) CreateConversation(ctx context.Context, userID, otherUserID string) (string, error) {
	body := map[string]string{"userId": userID, "otherUserId": otherUserID}
	var resp struct {
		ID string `json:"_id"`
	}
	if err := c.postJSON(ctx, "/api/chats", body, &resp); err != nil {
		return "", errors.CreateConversationFailed(otherUserID, err)
	}
	return resp.ID, nil
}

// SendMessage implements Transport. Text-only sends post JSON; sends with an
// image post multipart form data so the server can stream the upload to its
// storage provider.
func (c *Client) SendMessage(ctx context.Context, conversationID, text string, image []byte) (*chat.RawMessage, error) {
	if text == "" && len(image) == 0 {
		return nil, errors.EmptyMessage()
	}

	var resp wireMessage
	if len(image) == 0 {
		body := map[string]string{"chatId": conversationID, "text": text}
		if err := c.postJSON(ctx, "/api/messages", body, &resp); err != nil {
			return nil, errors.SendMessageFailed(conversationID, err)
		}
	} else {
		if err := c.postImage(ctx, conversationID, text, image, &resp); err != nil {
			return nil, errors.SendMessageFailed(conversationID, err)
		}
	}

	raw := resp.raw()
	return &raw, nil
}

// AnnounceTyping implements Transport. Runs off the calling goroutine and
// swallows failures; a lost typing signal is not worth surfacing.
func (c *Client) AnnounceTyping(conversationID string, active bool) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()

		body := map[string]interface{}{"chatId": conversationID, "typing": active}
		if err := c.postJSON(ctx, "/api/typing", body, nil); err != nil {
			logger.Debug("typing announce failed for %s: %v", conversationID, err)
		}
	}()
}

// FetchRoster implements Transport.
func (c *Client) FetchRoster(ctx context.Context) ([]chat.RawUser, error) {
	var users []wireUser
	if err := c.getJSON(ctx, "/api/users", &users); err != nil {
		return nil, errors.E(errors.Op("transport.FetchRoster"), errors.KindTransport, "failed to fetch user roster", err)
	}

	out := make([]chat.RawUser, 0, len(users))
	for _, wu := range users {
		out = append(out, wu.raw())
	}
	return out, nil
}

// RequestOTP asks the server to email a one-time code. Used by login, not
// part of the Transport interface the core's owner consumes.
func (c *Client) RequestOTP(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	if err := c.postJSON(ctx, "/api/auth/otp", body, nil); err != nil {
		return errors.E(errors.Op("auth.RequestOTP"), errors.KindAuth, fmt.Sprintf("failed to request code for %s", email), err)
	}
	return nil
}

// VerifyOTP exchanges an emailed code for a bearer token and identity.
func (c *Client) VerifyOTP(ctx context.Context, email, code string) (*AuthResult, error) {
	body := map[string]string{"email": email, "code": code}
	var resp struct {
		Token string   `json:"token"`
		User  wireUser `json:"user"`
	}
	if err := c.postJSON(ctx, "/api/auth/verify", body, &resp); err != nil {
		return nil, errors.OTPVerifyFailed(email, err)
	}
	return &AuthResult{Token: resp.Token, User: resp.User.raw()}, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) postImage(ctx context.Context, conversationID, text string, image []byte, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("chatId", conversationID); err != nil {
		return err
	}
	if text != "" {
		if err := w.WriteField("text", text); err != nil {
			return err
		}
	}
	part, err := w.CreateFormFile("image", "clipboard.png")
	if err != nil {
		return err
	}
	if _, err := part.Write(image); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/messages", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return errors.NotLoggedIn()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

package webclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rpupo63/personal-blog-backend/models"
)

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// PostInput is the body of create and update calls.
type PostInput struct {
	Title         string  `json:"title,omitempty"`
	Author        string  `json:"author,omitempty"`
	Content       string  `json:"content,omitempty"`
	Category      string  `json:"category,omitempty"`
	FeaturedImage *string `json:"featuredImage,omitempty"`
	Excerpt       *string `json:"excerpt,omitempty"`
}

// Client calls the blog REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient takes the server root, e.g. "http://localhost:8080".
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), httpClient: httpClient}
}

// SetToken sets the bearer token sent with every request. Empty clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, respBody)
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Error string `json:"error"`
	}
	message := http.StatusText(status)
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	}
	return &APIError{StatusCode: status, Message: message}
}

func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := c.do(ctx, http.MethodGet, "/api/posts", nil, &posts)
	return posts, err
}

func (c *Client) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/posts/%d", id), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) CreatePost(ctx context.Context, in PostInput) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", in, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) UpdatePost(ctx context.Context, id int64, in PostInput) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/posts/%d", id), in, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) DeletePost(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d", id), nil, nil)
}

func (c *Client) LikePost(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/posts/%d/like", id), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) SharePost(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/posts/%d/share", id), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	var comments []models.Comment
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/comments/post/%d", postID), nil, &comments)
	return comments, err
}

func (c *Client) CreateComment(ctx context.Context, postID int64, author, content string) (*models.Comment, error) {
	body := map[string]any{"postId": postID, "author": author, "content": content}
	var comment models.Comment
	if err := c.do(ctx, http.MethodPost, "/api/comments", body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) DeleteComment(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/comments/%d", id), nil, nil)
}

func (c *Client) Subscribe(ctx context.Context, email string) (*models.Subscriber, error) {
	var subscriber models.Subscriber
	if err := c.do(ctx, http.MethodPost, "/api/subscribers/subscribe", map[string]string{"email": email}, &subscriber); err != nil {
		return nil, err
	}
	return &subscriber, nil
}

func (c *Client) Unsubscribe(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodDelete, "/api/subscribers/unsubscribe/"+url.PathEscape(email), nil, nil)
}

// AdminSession exchanges the admin password for a bearer token.
func (c *Client) AdminSession(ctx context.Context, password string) (string, time.Time, error) {
	var session struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/admin/session", map[string]string{"password": password}, &session); err != nil {
		return "", time.Time{}, err
	}
	return session.Token, session.ExpiresAt, nil
}

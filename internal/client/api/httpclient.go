package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dsmirnova/taskcrew/internal/client/models"
	"github.com/dsmirnova/taskcrew/internal/client/repositories/tokens"
	"github.com/dsmirnova/taskcrew/internal/common"
	"github.com/google/uuid"
)

// HTTPClient implements Client over the TaskCrew REST API.
//
// Every request goes through authTransport, which attaches the persisted
// bearer token and reports authorization-denied responses to a registered
// callback. Centralizing the 401 reaction means individual call sites never
// special-case a dead session.
type HTTPClient struct {
	baseURL   string
	http      *http.Client
	transport *authTransport
}

// authTransport decorates a base RoundTripper.
//
// The persisted token is read from the repository before every outgoing
// request rather than cached: login and logout mutate storage, and the next
// request must observe the change.
type authTransport struct {
	base           http.RoundTripper
	tokens         tokens.Repository
	onUnauthorized func()
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.tokens.Get(req.Context())
	if err != nil {
		return nil, err
	}

	// RoundTrippers must not mutate the caller's request.
	req = req.Clone(req.Context())

	authenticated := token != ""
	if authenticated {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// Only a rejected *authenticated* call means the session died server-side.
	// A 401 on signin is just a wrong password.
	if resp.StatusCode == http.StatusUnauthorized && authenticated && t.onUnauthorized != nil {
		t.onUnauthorized()
	}

	return resp, nil
}

// NewHTTPClient constructs a Client bound to baseURL. The token repository
// supplies the bearer credential for each request.
func NewHTTPClient(baseURL string, tokenRepo tokens.Repository, timeout time.Duration) *HTTPClient {
	transport := &authTransport{
		base:   http.DefaultTransport,
		tokens: tokenRepo,
	}
	return &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: transport,
		http: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// SetUnauthorizedHandler registers the callback fired when an authenticated
// request comes back 401. The session manager uses it to force a logout.
func (c *HTTPClient) SetUnauthorizedHandler(fn func()) {
	c.transport.onUnauthorized = fn
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do issues one JSON request and decodes the JSON response into out (when out
// is non-nil and the response has a body).
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.mapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapStatus(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// mapError translates transport-level failures (connection refused, timeout)
// into ErrUnavailable, mirroring how callers already branch on server status.
func (c *HTTPClient) mapError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return ErrUnavailable
	}
	return err
}

func mapStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		msg := readErrorMessage(resp.Body)
		if msg == "" {
			return ErrBadRequest
		}
		return fmt.Errorf("%w: %s", ErrBadRequest, msg)
	}
	if resp.StatusCode >= 500 {
		return ErrUnavailable
	}
	return fmt.Errorf("unexpected status: %s", resp.Status)
}

// readErrorMessage extracts a {"message": "..."} body if the server sent one.
func readErrorMessage(r io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	return payload.Message
}

func (c *HTTPClient) SignIn(ctx context.Context, email string, password []byte) (string, error) {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: string(password)}

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/signin", req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *HTTPClient) GetProfile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, user *models.User) (*models.User, error) {
	var updated models.User
	if err := c.do(ctx, http.MethodPut, "/profile", user, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *HTTPClient) GetNotifications(ctx context.Context) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := c.do(ctx, http.MethodGet, "/profile/get-notifications", nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (c *HTTPClient) GetJoinedProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.do(ctx, http.MethodGet, "/joinedprojects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *HTTPClient) GetProjectTasks(ctx context.Context, projectID string) ([]models.Task, error) {
	var tasks []models.Task
	path := "/projecttasks/" + url.PathEscape(projectID)
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *HTTPClient) UpdateTaskStatuses(ctx context.Context, updates []models.TaskStatusUpdate) error {
	req := struct {
		Updates []models.TaskStatusUpdate `json:"updates"`
	}{Updates: updates}
	return c.do(ctx, http.MethodPatch, "/projecttasks/tasks/update", req, nil)
}

func (c *HTTPClient) GetComments(ctx context.Context, taskID string) ([]models.Comment, error) {
	var comments []models.Comment
	path := "/tasks/" + url.PathEscape(taskID) + "/comments"
	if err := c.do(ctx, http.MethodGet, path, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *HTTPClient) AddComment(ctx context.Context, taskID string, body string) (*models.Comment, error) {
	req := struct {
		Body string `json:"body"`
	}{Body: body}

	var comment models.Comment
	path := "/tasks/" + url.PathEscape(taskID) + "/comments"
	if err := c.do(ctx, http.MethodPost, path, req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

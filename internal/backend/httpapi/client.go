// Package httpapi implements the service.Service interface against the
// remote task REST API.
package httpapi

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

	"tasklist/internal/service"
)

// Routes of the task API, appended to the base URL.
const (
	RouteCreate = "/add-task"
	RouteList   = "/get-task"
	RouteUpdate = "/update-task/"
	RouteDelete = "/delete-task/"
)

const (
	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 4 << 20
)

// Client implements service.Service over HTTP.
// Each call performs exactly one request; nothing is retried.
type Client struct {
	http    *http.Client
	baseURL string
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string) (*Client, error) {
	return NewWithHTTPClient(baseURL, &http.Client{})
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL: %s", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// BaseURL returns the endpoint routes are appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type createRequest struct {
	Text string `json:"text"`
}

// CreateTask creates a task. Succeeds only on 201 Created.
func (c *Client) CreateTask(ctx context.Context, text string) (service.Task, error) {
	body, err := c.do(ctx, http.MethodPost, RouteCreate, createRequest{Text: text}, http.StatusCreated)
	if err != nil {
		return service.Task{}, err
	}

	var task service.Task
	if err := decodeValidated(body, taskSchema(), &task); err != nil {
		return service.Task{}, fmt.Errorf("invalid create response: %w", err)
	}
	return task, nil
}

// ListTasks fetches the full collection. Succeeds only on 200 OK.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	body, err := c.do(ctx, http.MethodGet, RouteList, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var tasks []service.Task
	if err := decodeValidated(body, taskListSchema(), &tasks); err != nil {
		return nil, fmt.Errorf("invalid list response: %w", err)
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

// UpdateTask sends the set fields of upd. Succeeds only on 200 OK.
// The response body is optional; when it does not hold a record the sent
// fields are applied to a record carrying only the ID.
func (c *Client) UpdateTask(ctx context.Context, id string, upd service.TaskUpdate) (service.Task, error) {
	body, err := c.do(ctx, http.MethodPut, RouteUpdate+url.PathEscape(id), upd, http.StatusOK)
	if err != nil {
		return service.Task{}, err
	}

	var task service.Task
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &task); err == nil && task.ID != "" {
			return task, nil
		}
	}
	return upd.Apply(service.Task{ID: id}), nil
}

// DeleteTask removes a task. Succeeds only on 200 OK.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, RouteDelete+url.PathEscape(id), nil, http.StatusOK)
	return err
}

// do performs one round trip and returns the response body when the status
// equals want.
func (c *Client) do(ctx context.Context, method, route string, payload any, want int) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+route, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, wrapError(err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, wrapError(fmt.Errorf("read response: %w", err))
	}

	if res.StatusCode != want {
		return nil, wrapError(statusError(res, body))
	}
	return body, nil
}

var _ service.Service = (*Client)(nil)

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"todoapp/internal/adapter/http/validation"
	"todoapp/internal/core/model/request"
	"todoapp/internal/core/model/response"
)

const defaultTimeout = 10 * time.Second

// Client is a thin HTTP client for the todos API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	log        zerolog.Logger
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)

	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	client := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// FetchAll returns every todo in the server's canonical order.
func (c *Client) FetchAll(ctx context.Context) ([]response.TodoResponse, error) {
	res, err := c.do(ctx, http.MethodGet, "/todos", nil)

	if err != nil {
		return nil, err
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, c.unexpectedStatus("fetch todos", res)
	}

	var todos []response.TodoResponse

	if err := json.NewDecoder(res.Body).Decode(&todos); err != nil {
		return nil, &NetworkError{Op: "fetch todos", Err: err}
	}

	return todos, nil
}

// Create posts a new todo and returns the record the server stored.
func (c *Client) Create(ctx context.Context, text string, completed bool) (response.TodoResponse, error) {
	payload := request.CreateTodoRequest{Text: text, Completed: completed}

	if err := validation.Validator.Struct(payload); err != nil {
		return response.TodoResponse{}, validationError(err)
	}

	res, err := c.do(ctx, http.MethodPost, "/todos", payload)

	if err != nil {
		return response.TodoResponse{}, err
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusCreated {
		return response.TodoResponse{}, c.unexpectedStatus("create todo", res)
	}

	var todo response.TodoResponse

	if err := json.NewDecoder(res.Body).Decode(&todo); err != nil {
		return response.TodoResponse{}, &NetworkError{Op: "create todo", Err: err}
	}

	return todo, nil
}

// Update patches the given fields of a todo. Nil fields are left untouched.
func (c *Client) Update(ctx context.Context, id string, req request.UpdateTodoRequest) (response.TodoResponse, error) {
	if req.Empty() {
		return response.TodoResponse{}, &ValidationError{Message: "at least one field must be set"}
	}

	if err := validation.Validator.Struct(req); err != nil {
		return response.TodoResponse{}, validationError(err)
	}

	res, err := c.do(ctx, http.MethodPatch, "/todos/"+url.PathEscape(id), req)

	if err != nil {
		return response.TodoResponse{}, err
	}

	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return response.TodoResponse{}, c.notFound(id, res)
	default:
		return response.TodoResponse{}, c.unexpectedStatus("update todo", res)
	}

	var todo response.TodoResponse

	if err := json.NewDecoder(res.Body).Decode(&todo); err != nil {
		return response.TodoResponse{}, &NetworkError{Op: "update todo", Err: err}
	}

	return todo, nil
}

// Delete removes a todo. A 404 maps to NotFoundError.
func (c *Client) Delete(ctx context.Context, id string) error {
	res, err := c.do(ctx, http.MethodDelete, "/todos/"+url.PathEscape(id), nil)

	if err != nil {
		return err
	}

	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return c.notFound(id, res)
	default:
		return c.unexpectedStatus("delete todo", res)
	}
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	endpoint := c.baseURL.JoinPath(path)

	var reader io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)

		if err != nil {
			return nil, &NetworkError{Op: method + " " + path, Err: err}
		}

		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)

	if err != nil {
		return nil, &NetworkError{Op: method + " " + path, Err: err}
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug().Str("method", method).Str("path", path).Msg("request")

	res, err := c.httpClient.Do(req)

	if err != nil {
		return nil, &NetworkError{Op: method + " " + path, Err: err}
	}

	return res, nil
}

// validationError maps a pre-flight validator failure to the same
// field/message shape the server would have answered with.
func validationError(err error) error {
	if formatted := validation.FormatValidationErrors(err); len(formatted) > 0 {
		return &ValidationError{Field: formatted[0].Field, Message: formatted[0].Message}
	}

	return &ValidationError{Message: err.Error()}
}

func (c *Client) notFound(id string, res *http.Response) error {
	var msg response.MessageResponse
	_ = json.NewDecoder(res.Body).Decode(&msg)

	return &NotFoundError{ID: id, Message: msg.Message}
}

func (c *Client) unexpectedStatus(op string, res *http.Response) error {
	if res.StatusCode == http.StatusBadRequest {
		var errRes response.ErrorResponse
		_ = json.NewDecoder(res.Body).Decode(&errRes)

		if len(errRes.Error.Errors) > 0 {
			return &ValidationError{Field: errRes.Error.Errors[0].Field, Message: errRes.Error.Errors[0].Message}
		}

		return &ValidationError{Message: "request rejected"}
	}

	return &NetworkError{Op: op, StatusCode: res.StatusCode}
}

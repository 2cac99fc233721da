// Package googletasks implements the service.Service interface using Google Tasks API.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"gtaskbot/internal/config"
	"gtaskbot/internal/service"
)

const (
	// PageSize is the number of tasks requested per API page.
	PageSize = 100

	// APITimeout is the timeout for one store operation.
	APITimeout = 10 * time.Second

	statusCompleted = "completed"
)

// Client implements service.Service using Google Tasks API.
// It is bound to one task list.
type Client struct {
	svc    *tasks.Service
	listID string
}

var _ service.Service = (*Client)(nil)

// New creates a Google Tasks client from the configured OAuth client and
// refresh token. The access token is obtained lazily on the first call.
func New(ctx context.Context, cfg config.GoogleConfig) (*Client, error) {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{tasks.TasksScope},
	}

	// Create token source that refreshes from the stored refresh token
	tokenSource := oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	httpClient := oauth2.NewClient(ctx, tokenSource)

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	return &Client{svc: svc, listID: listIDOrDefault(cfg.TaskListID)}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client and endpoint (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint, listID string) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, listID: listIDOrDefault(listID)}, nil
}

func listIDOrDefault(id string) string {
	if id == "" {
		return config.DefaultTaskListID
	}
	return id
}

// ListOpenTasks returns every open task of the list, following page tokens.
func (c *Client) ListOpenTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	call := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(false).
		ShowDeleted(false).
		ShowHidden(false)

	result := []service.Task{}
	err := call.Pages(ctx, func(resp *tasks.Tasks) error {
		for _, task := range resp.Items {
			if task.Status == statusCompleted || task.Deleted || task.Hidden {
				continue
			}
			result = append(result, toTask(task))
		}
		return nil
	})
	if err != nil {
		return nil, wrapError("list", err)
	}

	return result, nil
}

// CreateTask creates a new task at the top of the list.
func (c *Client) CreateTask(ctx context.Context, title string) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	created, err := c.svc.Tasks.Insert(c.listID, &tasks.Task{Title: title}).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError("insert", err)
	}
	return toTask(created), nil
}

// DeleteTask deletes a task by its durable ID.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, taskID).Context(ctx).Do(); err != nil {
		return wrapError("delete", err)
	}
	return nil
}

func toTask(t *tasks.Task) service.Task {
	return service.Task{
		ID:        t.Id,
		Title:     t.Title,
		Position:  t.Position,
		Completed: t.Status == statusCompleted,
	}
}

// wrapError converts API errors into a *service.StoreError with a user-friendly reason.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "context deadline exceeded") {
		return &service.StoreError{Op: op, Err: errors.New("request timed out")}
	}

	// Refresh failures surface as *oauth2.RetrieveError before any API call is made
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return &service.StoreError{Op: op, Err: errors.New("credentials expired or revoked")}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &service.StoreError{Op: op, Err: errors.New("credentials expired or revoked")}
		case http.StatusNotFound:
			return &service.StoreError{Op: op, Err: errors.New("not found")}
		}
		if apiErr.Message != "" {
			return &service.StoreError{Op: op, Err: fmt.Errorf("google tasks: %s", apiErr.Message)}
		}
	}

	return &service.StoreError{Op: op, Err: err}
}

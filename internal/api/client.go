package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNoFiles is returned when a task submission carries no attachments.
// The backend requires at least one, so the request is never sent.
var ErrNoFiles = errors.New("task submission requires at least one file")

// BackendError is a logical failure reported by a backend that answered
// the HTTP request but set success=false.
type BackendError struct {
	Endpoint string
	Message  string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: backend reported failure", e.Endpoint)
	}
	return fmt.Sprintf("%s: %s", e.Endpoint, e.Message)
}

// Client talks to the task and user services.
type Client struct {
	taskBase string
	userBase string
	http     *http.Client
	log      *zap.Logger
}

func New(taskBase, userBase string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		taskBase: strings.TrimRight(taskBase, "/"),
		userBase: strings.TrimRight(userBase, "/"),
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

// FetchFeed issues the status-update and user fetches in parallel and
// joins them. Either failure aborts the whole load; there is no
// partial-success path.
func (c *Client) FetchFeed(ctx context.Context) (*Feed, error) {
	g, ctx := errgroup.WithContext(ctx)
	feed := &Feed{}

	g.Go(func() error {
		updates, err := c.ListStatusUpdates(ctx)
		if err != nil {
			return err
		}
		feed.Updates = updates
		return nil
	})
	g.Go(func() error {
		users, err := c.ListUsers(ctx)
		if err != nil {
			return err
		}
		feed.Users = users
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return feed, nil
}

func (c *Client) ListStatusUpdates(ctx context.Context) ([]StatusUpdate, error) {
	var resp struct {
		StatusUpdates []StatusUpdate `json:"statusUpdates"`
	}
	url := c.taskBase + "/api/task-assignment/allTaskStatusUpdates"
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	return resp.StatusUpdates, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var resp struct {
		Users []User `json:"users"`
	}
	url := c.userBase + "/api/auth/users"
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *Client) ListAssignments(ctx context.Context, userID int64) ([]Assignment, error) {
	var resp struct {
		Success     bool         `json:"success"`
		Message     string       `json:"message"`
		Assignments []Assignment `json:"assignments"`
	}
	url := fmt.Sprintf("%s/api/task-assignment/userAssignments/%d", c.taskBase, userID)
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &BackendError{Endpoint: "userAssignments", Message: resp.Message}
	}
	return resp.Assignments, nil
}

// UpdateTaskStatus requests a status change for a task. The caller is
// expected to have validated the transition against the workflow.
func (c *Client) UpdateTaskStatus(ctx context.Context, taskID int64, status Status) error {
	if !status.Known() {
		return fmt.Errorf("unknown task status %q", status)
	}

	body, err := json.Marshal(map[string]Status{"status": status})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/task-assignment/task_status_update/%d", c.taskBase, taskID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.do(req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &BackendError{Endpoint: "task_status_update", Message: resp.Message}
	}
	return nil
}

// SubmitTask uploads the given files and marks the task Completed in the
// same request. Zero files is rejected locally without touching the
// network.
func (c *Client) SubmitTask(ctx context.Context, taskID, updatedBy int64, filePaths []string) error {
	if len(filePaths) == 0 {
		return ErrNoFiles
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, path := range filePaths {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open attachment: %w", err)
		}
		part, err := w.CreateFormFile("file_url", filepath.Base(path))
		if err != nil {
			f.Close()
			return err
		}
		if _, err := io.Copy(part, f); err != nil {
			f.Close()
			return fmt.Errorf("read attachment %s: %w", path, err)
		}
		f.Close()
	}
	w.WriteField("updated_by", strconv.FormatInt(updatedBy, 10))
	w.WriteField("status", string(StatusCompleted))
	if err := w.Close(); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/task-assignment/submitTask/%d", c.taskBase, taskID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.do(req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &BackendError{Endpoint: "submitTask", Message: resp.Message}
	}
	return nil
}

// UpdatePassword changes a user's password and returns the updated user.
func (c *Client) UpdatePassword(ctx context.Context, userID int64, password string) (*User, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("password", password)
	if err := w.Close(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/auth/users/%d", c.userBase, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var user User
	if err := c.do(req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("unexpected status",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// Package github is a client of the GitHub REST API for the repository contents and refs that the
// publisher needs.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopl/shoplcon/publish"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseURL is the URL of the public GitHub API.
const DefaultBaseURL = "https://api.github.com"

// APIError is a response of the API with an unsuccessful status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (err *APIError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("github: %d %s", err.StatusCode, http.StatusText(err.StatusCode))
	}
	return fmt.Sprintf("github: %d %s", err.StatusCode, err.Message)
}

// Client accesses a single repository.
type Client struct {
	BaseURL string
	Owner   string
	Repo    string
	HTTP    *http.Client
	Tokens  TokenSource

	tracer trace.Tracer
}

var _ publish.Repository = (*Client)(nil)

// NewClient returns a client for owner/repo. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL, owner, repo string, tokens TokenSource) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Owner:   owner,
		Repo:    repo,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Tokens:  tokens,
		tracer:  otel.Tracer("github.com/shopl/shoplcon/github"),
	}
}

func escapePath(path string) string {
	segs := strings.Split(path, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return strings.Join(segs, "/")
}

func (c *Client) repoURL(format string, args ...interface{}) string {
	return fmt.Sprintf("%s/repos/%s/%s", c.BaseURL, url.PathEscape(c.Owner), url.PathEscape(c.Repo)) + fmt.Sprintf(format, args...)
}

// do sends a request with an optional JSON body and decodes the JSON response into out if not nil.
func (c *Client) do(ctx context.Context, method, u string, in, out interface{}) error {
	ctx, span := c.tracer.Start(ctx, "github "+method, trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.url", u),
	))
	defer span.End()

	err := c.roundTrip(ctx, method, u, in, out, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, u string, in, out interface{}, span trace.Span) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Tokens != nil {
		token, err := c.Tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("token: %w", err)
		}
		req.Header.Set("Authorization", "token "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || 300 <= resp.StatusCode {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&msg); err == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

type ref struct {
	Ref    string `json:"ref"`
	Object struct {
		SHA string `json:"sha"`
	} `json:"object"`
}

// BranchSHA returns the commit SHA at the head of branch.
func (c *Client) BranchSHA(ctx context.Context, branch string) (string, error) {
	var r ref
	if err := c.do(ctx, http.MethodGet, c.repoURL("/git/refs/heads/%s", escapePath(branch)), nil, &r); err != nil {
		return "", err
	}
	return r.Object.SHA, nil
}

// CreateBranch creates branch name at the head of branch from. It returns publish.ErrBranchExists
// if name already exists.
func (c *Client) CreateBranch(ctx context.Context, from, name string) error {
	sha, err := c.BranchSHA(ctx, from)
	if err != nil {
		return fmt.Errorf("get branch %s: %w", from, err)
	}

	in := map[string]string{
		"ref": "refs/heads/" + name,
		"sha": sha,
	}
	err = c.do(ctx, http.MethodPost, c.repoURL("/git/refs"), in, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnprocessableEntity && strings.Contains(apiErr.Message, "Reference already exists") {
		return publish.ErrBranchExists
	}
	return err
}

type content struct {
	SHA string `json:"sha"`
}

// GetFile returns whether path exists on branch, and its blob SHA as revision.
func (c *Client) GetFile(ctx context.Context, path, branch string) (publish.FileInfo, error) {
	u := c.repoURL("/contents/%s?ref=%s", escapePath(path), url.QueryEscape(branch))
	var f content
	if err := c.do(ctx, http.MethodGet, u, nil, &f); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return publish.FileInfo{}, nil
		}
		return publish.FileInfo{}, err
	}
	return publish.FileInfo{Exists: true, Revision: f.SHA}, nil
}

// PutFile creates path on branch, or updates it when revision is the SHA of the current file.
func (c *Client) PutFile(ctx context.Context, path string, b []byte, branch, message, revision string) error {
	in := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(b),
		"branch":  branch,
	}
	if revision != "" {
		in["sha"] = revision
	}
	return c.do(ctx, http.MethodPut, c.repoURL("/contents/%s", escapePath(path)), in, nil)
}

// DeleteFile deletes path from branch, revision must be the SHA of the current file.
func (c *Client) DeleteFile(ctx context.Context, path, branch, revision, message string) error {
	in := map[string]string{
		"message": message,
		"sha":     revision,
		"branch":  branch,
	}
	return c.do(ctx, http.MethodDelete, c.repoURL("/contents/%s", escapePath(path)), in, nil)
}

package semgrep

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const defaultBaseURL = "https://semgrep.dev/api/v1"

// ManagedScanPayload is the PATCH body that turns on both managed-scan
// sub-flags. It is also what dry-run mode logs, so the log always shows
// exactly what would be sent.
const ManagedScanPayload = `{"diff_scan":{"enabled":true},"full_scan":{"enabled":true}}`

// APIError is a non-2xx response from the Semgrep API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("semgrep API returned %d: %s", e.StatusCode, body)
}

// Client talks to the Semgrep v1 REST API using bearer-token auth.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient returns a client authenticated with the given API token.
func NewClient(httpClient *http.Client, token string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		token:      token,
	}
}

// WithBaseURL points the client at a different API root, mainly for
// tests against httptest servers.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do issues the request and returns the response body for any 2xx
// status in okStatuses, or an *APIError otherwise.
func (c *Client) do(req *http.Request, okStatuses ...int) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	for _, s := range okStatuses {
		if resp.StatusCode == s {
			return data, nil
		}
	}
	return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
}

// ListDeployments returns the deployments visible to the token.
func (c *Client) ListDeployments(ctx context.Context) ([]Deployment, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/deployments", nil)
	if err != nil {
		return nil, err
	}
	data, err := c.do(req, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}

	var wrapped struct {
		Deployments []Deployment `json:"deployments"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("list deployments: decode response: %w", err)
	}
	return wrapped.Deployments, nil
}

// ListProjects returns all projects of a deployment. The endpoint has
// been observed returning either a bare array or {"projects": [...]};
// both shapes are normalized here, anything else is an error.
func (c *Client) ListProjects(ctx context.Context, deploymentSlug string) ([]Project, error) {
	path := fmt.Sprintf("/deployments/%s/projects", url.PathEscape(deploymentSlug))
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	data, err := c.do(req, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return decodeProjectList(data)
}

func decodeProjectList(data []byte) ([]Project, error) {
	switch firstJSONByte(data) {
	case '[':
		var projects []Project
		if err := json.Unmarshal(data, &projects); err != nil {
			return nil, fmt.Errorf("list projects: decode array response: %w", err)
		}
		return projects, nil
	case '{':
		var wrapped struct {
			Projects *[]Project `json:"projects"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("list projects: decode object response: %w", err)
		}
		if wrapped.Projects == nil {
			return nil, fmt.Errorf("list projects: unexpected response format (object without 'projects' key)")
		}
		return *wrapped.Projects, nil
	default:
		return nil, fmt.Errorf("list projects: unexpected response format")
	}
}

func firstJSONByte(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}

// GetProject fetches one project's detail, including its managed-scan
// config. A {"project": {...}} wrapper is unwrapped when present.
func (c *Client) GetProject(ctx context.Context, deploymentSlug, projectName string) (*Project, error) {
	path := fmt.Sprintf("/deployments/%s/projects/%s",
		url.PathEscape(deploymentSlug), url.PathEscape(projectName))
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	data, err := c.do(req, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("get project %q: %w", projectName, err)
	}

	var wrapped struct {
		Project *Project `json:"project"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Project != nil {
		return wrapped.Project, nil
	}

	var project Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("get project %q: decode response: %w", projectName, err)
	}
	return &project, nil
}

// ManagedScanEndpoint returns the full URL the managed-scan PATCH for a
// project goes to. Used by dry-run logging.
func (c *Client) ManagedScanEndpoint(deploymentSlug, projectName string) string {
	return fmt.Sprintf("%s/deployments/%s/projects/%s/managed-scan",
		c.baseURL, url.PathEscape(deploymentSlug), url.PathEscape(projectName))
}

// EnableManagedScan PATCHes a project's managed-scan config so that
// both diff and full scans are enabled. 200 and 204 count as success.
func (c *Client) EnableManagedScan(ctx context.Context, deploymentSlug, projectName string) error {
	path := fmt.Sprintf("/deployments/%s/projects/%s/managed-scan",
		url.PathEscape(deploymentSlug), url.PathEscape(projectName))
	req, err := c.newRequest(ctx, http.MethodPatch, path, bytes.NewBufferString(ManagedScanPayload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if _, err := c.do(req, http.StatusOK, http.StatusNoContent); err != nil {
		return fmt.Errorf("enable managed scan for %q: %w", projectName, err)
	}
	return nil
}

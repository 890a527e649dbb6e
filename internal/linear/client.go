// Package linear provides a client for the Linear GraphQL API.
package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oronculzac/wrapup/internal/output"
	"github.com/oronculzac/wrapup/internal/retry"
	"github.com/oronculzac/wrapup/internal/session"
)

// apiURL is the Linear GraphQL endpoint.
const apiURL = "https://api.linear.app/graphql"

// HTTPDoer defines the HTTP operations required by Client.
// This allows injection of test doubles for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the Linear GraphQL API. All calls run under the bounded
// retry policy; the client holds no state between calls.
type Client struct {
	apiKey     string
	httpClient HTTPDoer
	retryCfg   retry.Config
}

// New creates a Linear client with the given API key.
func New(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, output.NewUserError("no Linear API key configured (set LINEAR_API_KEY or linear.api_key)")
	}
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retryCfg:   retry.DefaultConfig(),
	}, nil
}

// WithHTTPClient replaces the HTTP client, for tests.
func (c *Client) WithHTTPClient(doer HTTPDoer) *Client {
	c.httpClient = doer
	return c
}

// issueNode mirrors the GraphQL issue shape we request.
type issueNode struct {
	Identifier  string `json:"identifier"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	State       struct {
		Name string `json:"name"`
	} `json:"state"`
	Project *struct {
		Name string `json:"name"`
	} `json:"project"`
}

// issuesEnvelope is the common response shape for issue queries.
type issuesEnvelope struct {
	Issues struct {
		Nodes []issueNode `json:"nodes"`
	} `json:"issues"`
}

// sessionTicketsQuery selects tickets relevant to the current session:
// anything In Progress plus anything completed since the given time.
const sessionTicketsQuery = `
query SessionTickets($since: DateTimeOrDuration!) {
  issues(filter: {
    or: [
      { state: { name: { eq: "In Progress" } } },
      { completedAt: { gt: $since } }
    ]
  }) {
    nodes {
      identifier
      title
      url
      description
      state { name }
      project { name }
    }
  }
}`

// SessionTickets returns tickets in progress or completed within sinceHours.
func (c *Client) SessionTickets(ctx context.Context, sinceHours int) ([]session.Ticket, error) {
	since := time.Now().Add(-time.Duration(sinceHours) * time.Hour).UTC().Format(time.RFC3339)

	var envelope issuesEnvelope
	err := c.query(ctx, "session tickets", sessionTicketsQuery, map[string]any{"since": since}, &envelope)
	if err != nil {
		return nil, err
	}
	return toTickets(envelope.Issues.Nodes), nil
}

const issueByIDQuery = `
query GetIssue($id: String!) {
  issue(id: $id) {
    identifier
    title
    url
    description
    state { name }
    project { name }
  }
}`

// IssueByID fetches one issue by its identifier (e.g. "ENG-123").
// A missing issue returns nil, nil.
func (c *Client) IssueByID(ctx context.Context, identifier string) (*session.Ticket, error) {
	var envelope struct {
		Issue *issueNode `json:"issue"`
	}
	err := c.query(ctx, "get issue", issueByIDQuery, map[string]any{"id": identifier}, &envelope)
	if err != nil {
		return nil, err
	}
	if envelope.Issue == nil {
		return nil, nil
	}
	t := toTicket(*envelope.Issue)
	return &t, nil
}

const searchIssuesQuery = `
query SearchIssues($query: String!) {
  issues(filter: { title: { containsIgnoreCase: $query } }) {
    nodes {
      identifier
      title
      url
      description
      state { name }
      project { name }
    }
  }
}`

// SearchIssues returns issues whose title contains the query text.
func (c *Client) SearchIssues(ctx context.Context, text string) ([]session.Ticket, error) {
	var envelope issuesEnvelope
	err := c.query(ctx, "search issues", searchIssuesQuery, map[string]any{"query": text}, &envelope)
	if err != nil {
		return nil, err
	}
	return toTickets(envelope.Issues.Nodes), nil
}

const createIssueMutation = `
mutation CreateIssue($title: String!, $description: String!, $teamId: String!) {
  issueCreate(input: { title: $title, description: $description, teamId: $teamId }) {
    success
    issue {
      identifier
      title
      url
      state { name }
    }
  }
}`

// CreateIssue creates a new issue in the given team and returns it.
func (c *Client) CreateIssue(ctx context.Context, title, description, teamID string) (*session.Ticket, error) {
	if teamID == "" {
		return nil, output.NewUserError("no Linear team ID configured (linear.team_id)")
	}

	var envelope struct {
		IssueCreate struct {
			Success bool      `json:"success"`
			Issue   issueNode `json:"issue"`
		} `json:"issueCreate"`
	}
	vars := map[string]any{"title": title, "description": description, "teamId": teamID}
	if err := c.query(ctx, "create issue", createIssueMutation, vars, &envelope); err != nil {
		return nil, err
	}
	if !envelope.IssueCreate.Success {
		return nil, output.NewSystemError("Linear refused to create the issue")
	}
	t := toTicket(envelope.IssueCreate.Issue)
	return &t, nil
}

const viewerQuery = `
query Viewer {
  viewer { name email }
}`

// TestConnection verifies the API key by fetching the viewer.
// Returns the account name on success.
func (c *Client) TestConnection(ctx context.Context) (string, error) {
	var envelope struct {
		Viewer struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"viewer"`
	}
	if err := c.query(ctx, "test connection", viewerQuery, nil, &envelope); err != nil {
		return "", err
	}
	return envelope.Viewer.Name, nil
}

// query executes a GraphQL request under the retry policy and unmarshals the
// data payload into out.
func (c *Client) query(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	payload := map[string]any{"query": query}
	if len(variables) > 0 {
		payload["variables"] = variables
	}

	var body []byte
	err := retry.Do(ctx, c.retryCfg, "Linear "+operation, func(attemptCtx context.Context) error {
		var attemptErr error
		body, attemptErr = c.doRequest(attemptCtx, payload)
		return attemptErr
	})
	if err != nil {
		return err
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return output.NewSystemErrorWithCause("failed to parse Linear response", err)
	}
	if len(envelope.Errors) > 0 {
		return output.NewSystemError("Linear GraphQL error: " + envelope.Errors[0].Message)
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return output.NewSystemErrorWithCause("failed to parse Linear data", err)
		}
	}
	return nil
}

// doRequest performs one HTTP POST to the GraphQL endpoint.
func (c *Client) doRequest(ctx context.Context, payload any) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Truncate error body to prevent sensitive data leakage
		errBody := string(respBody)
		if len(errBody) > 500 {
			errBody = errBody[:500]
		}
		return nil, output.NewSystemError(fmt.Sprintf("Linear API error (status %d): %s", resp.StatusCode, errBody))
	}

	return respBody, nil
}

// toTickets converts GraphQL nodes to session tickets.
func toTickets(nodes []issueNode) []session.Ticket {
	tickets := make([]session.Ticket, 0, len(nodes))
	for _, n := range nodes {
		tickets = append(tickets, toTicket(n))
	}
	return tickets
}

func toTicket(n issueNode) session.Ticket {
	t := session.Ticket{
		Identifier: n.Identifier,
		Title:      n.Title,
		State:      n.State.Name,
	}
	if n.Project != nil {
		t.Project = n.Project.Name
	}
	return t
}

package devto

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/oronculzac/wrapup/internal/retry"
)

type fakeDoer struct {
	response *http.Response
	requests []*http.Request
	bodies   []string
}

func (f *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.requests = append(f.requests, req)
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		f.bodies = append(f.bodies, string(b))
	}
	return f.response, nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

func newTestClient(t *testing.T, doer *fakeDoer) *Client {
	t.Helper()
	c, err := New("devto-test-key")
	if err != nil {
		t.Fatal(err)
	}
	c.retryCfg = retry.Config{MaxAttempts: 1}
	return c.WithHTTPClient(doer)
}

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestCreateArticle(t *testing.T) {
	doer := &fakeDoer{response: jsonResponse(201, `{"id": 12345, "url": "https://dev.to/dana/learning-go-1abc"}`)}
	c := newTestClient(t, doer)

	result, err := c.CreateArticle(context.Background(), Article{
		Title:        "Learning Go",
		BodyMarkdown: "# Learning Go\n\nNotes from today.",
		Published:    false,
		Tags:         []string{"go", "learning"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.ID != 12345 || result.URL != "https://dev.to/dana/learning-go-1abc" {
		t.Errorf("result = %+v", result)
	}

	req := doer.requests[0]
	if req.Method != http.MethodPost {
		t.Errorf("method = %s", req.Method)
	}
	if !strings.HasSuffix(req.URL.Path, "/articles") {
		t.Errorf("path = %s", req.URL.Path)
	}
	if got := req.Header.Get("api-key"); got != "devto-test-key" {
		t.Errorf("api-key = %q", got)
	}
	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}

	var payload struct {
		Article Article `json:"article"`
	}
	if err := json.Unmarshal([]byte(doer.bodies[0]), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Article.Title != "Learning Go" || payload.Article.Published {
		t.Errorf("payload = %+v", payload.Article)
	}
}

func TestCreateArticle_APIError(t *testing.T) {
	doer := &fakeDoer{response: jsonResponse(422, strings.Repeat("e", 1000))}
	c := newTestClient(t, doer)

	_, err := c.CreateArticle(context.Background(), Article{Title: "x"})
	if err == nil {
		t.Fatal("expected error for status 422")
	}
	if !strings.Contains(err.Error(), "status 422") {
		t.Errorf("error = %v", err)
	}
	if len(err.Error()) > 700 {
		t.Errorf("error body not truncated: %d chars", len(err.Error()))
	}
}

func TestArticles(t *testing.T) {
	doer := &fakeDoer{response: jsonResponse(200, `[{"id": 1, "title": "First"}, {"id": 2, "title": "Second"}]`)}
	c := newTestClient(t, doer)

	articles, err := c.Articles(context.Background(), 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 2 || articles[0]["title"] != "First" {
		t.Errorf("articles = %v", articles)
	}

	req := doer.requests[0]
	if req.Method != http.MethodGet {
		t.Errorf("method = %s", req.Method)
	}
	if got := req.URL.Query().Get("per_page"); got != "10" {
		t.Errorf("per_page = %q", got)
	}
	// GET requests carry no body and no content type.
	if req.Header.Get("Content-Type") != "" {
		t.Error("unexpected Content-Type on GET")
	}
}

func TestTestConnection(t *testing.T) {
	doer := &fakeDoer{response: jsonResponse(200, `{"username": "dana"}`)}
	c := newTestClient(t, doer)

	username, err := c.TestConnection(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if username != "dana" {
		t.Errorf("username = %q", username)
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"go", []string{"go"}},
		{"go, learning , cli", []string{"go", "learning", "cli"}},
		{"go,,cli", []string{"go", "cli"}},
		{" , ", []string{}},
	}
	for _, tt := range tests {
		got := ParseTags(tt.in)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseTags(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

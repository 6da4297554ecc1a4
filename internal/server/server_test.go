package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/schemamap/pkg/errors"
	"github.com/matzehuels/schemamap/pkg/schema"
	"github.com/matzehuels/schemamap/pkg/session"
)

const blogSDL = `
type Query { user(id: ID!): User, posts: [Post!]! }
type User { name: String, friend: User, posts: [Post] }
type Post { title: String!, author: User! }
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s, err := schema.ParseSDL(blogSDL)
	require.NoError(t, err)
	srv := New(Config{
		Schema:   s,
		Sessions: session.NewMemoryStore(0),
		Logger:   log.New(io.Discard),
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createSession(t *testing.T, ts *httptest.Server, root string) sessionResponse {
	t.Helper()
	resp := do(t, http.MethodPost, ts.URL+"/api/sessions", sessionRequest{Root: root})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[sessionResponse](t, resp)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]any](t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "build")
}

func TestTypes(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/api/types", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[struct {
		Root  string     `json:"root"`
		Types []typeInfo `json:"types"`
	}](t, resp)
	assert.Equal(t, "Query", body.Root)

	byName := map[string]typeInfo{}
	for _, ti := range body.Types {
		byName[ti.Name] = ti
	}
	assert.Equal(t, 3, byName["User"].Fields)
	assert.Equal(t, schema.KindScalar, byName["String"].Kind)
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)
	sess := createSession(t, ts, "")
	assert.Equal(t, "Query", sess.Root)
	assert.Equal(t, "idle", sess.State)
	require.NotNil(t, sess.Model)
	assert.Equal(t, "Query", sess.Model.Root)

	base := ts.URL + "/api/sessions/" + sess.ID

	resp := do(t, http.MethodPost, base+"/select", nameRequest{Name: "User"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rr := decodeBody[rerootResponse](t, resp)
	assert.Equal(t, "User", rr.Root)
	assert.True(t, rr.Delta.Changed())
	require.Len(t, rr.Delta.ExitNodes, 1)
	assert.Equal(t, "Query", rr.Delta.ExitNodes[0].Name)

	resp = do(t, http.MethodPost, base+"/hover", nameRequest{Name: "Post"})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[sessionResponse](t, resp)
	assert.Equal(t, "User", got.Root)
	assert.Equal(t, "Post", got.Highlight)
	assert.Equal(t, []string{"Query"}, got.History)

	resp = do(t, http.MethodGet, base+"/svg", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	svg, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(svg)), "<svg"))

	resp = do(t, http.MethodDelete, base+"/hover", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodPost, base+"/back", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Query", decodeBody[rerootResponse](t, resp).Root)

	resp = do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func depthPtr(d int) *int { return &d }

func TestErrors(t *testing.T) {
	ts := newTestServer(t)
	sess := createSession(t, ts, "Query")
	base := ts.URL + "/api/sessions/" + sess.ID

	tests := []struct {
		name   string
		method string
		url    string
		body   any
		status int
		code   errors.Code
	}{
		{"unknown session", http.MethodGet, ts.URL + "/api/sessions/nope", nil, http.StatusNotFound, errors.ErrCodeNotFound},
		{"unknown root", http.MethodPost, ts.URL + "/api/sessions", sessionRequest{Root: "Ghost"}, http.StatusNotFound, errors.ErrCodeNotFound},
		{"select unknown", http.MethodPost, base + "/select", nameRequest{Name: "Ghost"}, http.StatusNotFound, errors.ErrCodeNotFound},
		{"select empty", http.MethodPost, base + "/select", nameRequest{}, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"back without history", http.MethodPost, base + "/back", nil, http.StatusNotFound, errors.ErrCodeNotFound},
		{"bad format", http.MethodGet, ts.URL + "/api/render/Query?format=gif", nil, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad depth", http.MethodGet, ts.URL + "/api/render/Query?depth=x", nil, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"huge depth", http.MethodGet, ts.URL + "/api/render/Query?depth=1000000000", nil, http.StatusBadRequest, errors.ErrCodeInvalidConfiguration},
		{"negative depth", http.MethodGet, ts.URL + "/api/render/Query?depth=-1", nil, http.StatusBadRequest, errors.ErrCodeInvalidConfiguration},
		{"huge session depth", http.MethodPost, ts.URL + "/api/sessions", sessionRequest{MaxDepth: depthPtr(1 << 30)}, http.StatusBadRequest, errors.ErrCodeInvalidConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, tt.url, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			body := decodeBody[errorResponse](t, resp)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}

	// The failed select left the session where it was.
	resp := do(t, http.MethodGet, base, nil)
	assert.Equal(t, "Query", decodeBody[sessionResponse](t, resp).Root)
}

func TestRender(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/api/render/User?format=json&depth=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get("ETag"))

	body := decodeBody[struct {
		Root  string `json:"root"`
		Nodes []struct {
			Name  string `json:"name"`
			Depth int    `json:"depth"`
		} `json:"nodes"`
	}](t, resp)
	assert.Equal(t, "User", body.Root)
	for _, n := range body.Nodes {
		assert.LessOrEqual(t, n.Depth, 1)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/render/User", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
}

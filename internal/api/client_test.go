package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"))
}

// memTokens is an in-memory TokenSource for tests.
type memTokens struct {
	mu    sync.Mutex
	token string
}

func (m *memTokens) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *memTokens) Set(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memTokens) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

func decodeJSON(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}

func newTestClient(t *testing.T, handler http.Handler, tokens TokenSource) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, tokens, WithHTTPClient(srv.Client()))
}

func TestNormalizeBaseURL(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"http://api.finsight.example", "https://api.finsight.example"},
		{"http://api.finsight.example/", "https://api.finsight.example"},
		{"http://localhost:8000", "http://localhost:8000"},
		{"http://127.0.0.1:8000", "http://127.0.0.1:8000"},
		{"https://api.finsight.example", "https://api.finsight.example"},
		{"  http://localhost:8000/  ", "http://localhost:8000"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizeBaseURL(tc.in), "input %q", tc.in)
	}
}

func TestBearerTokenInjected(t *testing.T) {
	var got string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}), &memTokens{token: "tok-123"})

	_, err := client.doRaw(context.Background(), http.MethodGet, "/ping", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", got)
}

func TestTokenReadFreshPerRequest(t *testing.T) {
	var seen []string
	tokens := &memTokens{token: "first"}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}), tokens)

	_, err := client.doRaw(context.Background(), http.MethodGet, "/a", "", nil)
	require.NoError(t, err)
	require.NoError(t, tokens.Set("second"))
	_, err = client.doRaw(context.Background(), http.MethodGet, "/b", "", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer first", "Bearer second"}, seen)
}

func TestUnauthorizedClearsToken(t *testing.T) {
	tokens := &memTokens{token: "stale"}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Could not validate credentials"}`, http.StatusUnauthorized)
	}), tokens)

	_, err := client.doRaw(context.Background(), http.MethodGet, "/api/v1/chat/history", "", nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, tokens.Token(), "token must be cleared on 401")
}

func TestStatusErrorCarriesDetail(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Asset not found"}`, http.StatusNotFound)
	}), &memTokens{})

	_, err := client.doRaw(context.Background(), http.MethodGet, "/missing", "", nil)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Equal(t, "Asset not found", statusErr.Detail)
}

func TestStatusErrorPlainBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}), &memTokens{})

	_, err := client.doRaw(context.Background(), http.MethodGet, "/boom", "", nil)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "internal server error", statusErr.Detail)
}

func TestLoginStoresToken(t *testing.T) {
	tokens := &memTokens{}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "user@example.com", r.FormValue("username"))
		assert.Equal(t, "hunter2", r.FormValue("password"))
		w.Write([]byte(`{"access_token":"tok-abc","token_type":"bearer"}`))
	}), tokens)

	require.NoError(t, client.Login(context.Background(), "user@example.com", "hunter2"))
	assert.Equal(t, "tok-abc", tokens.Token())
}

func TestLoginBadCredentialsKeepsNothing(t *testing.T) {
	tokens := &memTokens{}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Incorrect email or password"}`, http.StatusUnauthorized)
	}), tokens)

	err := client.Login(context.Background(), "user@example.com", "wrong")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr, "login 401 is bad credentials, not a forced logout")
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Incorrect email or password", statusErr.Detail)
	assert.Empty(t, tokens.Token())
}

func TestRegisterDoesNotLogIn(t *testing.T) {
	tokens := &memTokens{}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/register", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"u1","email":"user@example.com"}`))
	}), tokens)

	require.NoError(t, client.Register(context.Background(), "user@example.com", "hunter2"))
	assert.Empty(t, tokens.Token())
}

func TestSendMessageRoundTrip(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/chat/send", r.URL.Path)
		w.Write([]byte(`{
			"conversation_id": "c1",
			"response": {
				"type": "text",
				"data": {"choices": [{"message": {"content": "Apple looks steady."}}]},
				"citations": ["https://example.com/aapl"]
			}
		}`))
	}), &memTokens{token: "tok"})

	reply, err := client.SendMessage(context.Background(), ProfileVeteran, "Tell me about AAPL", "")
	require.NoError(t, err)
	assert.Equal(t, "c1", reply.ConversationID)
	content, ok := reply.Content()
	assert.True(t, ok)
	assert.Equal(t, "Apple looks steady.", content)
	assert.Equal(t, []string{"https://example.com/aapl"}, reply.Response.Citations)
}

func TestSendMessageProfileAndID(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, decodeJSON(r, &body))
		w.Write([]byte(`{"conversation_id":"c1","response":{"data":{"choices":[]}}}`))
	}), &memTokens{})

	_, err := client.SendMessage(context.Background(), ProfileNewtimer, "hello", "c1")
	require.NoError(t, err)
	assert.Equal(t, "newbie", body["type"])
	assert.Equal(t, "hello", body["user_query"])
	assert.Equal(t, "c1", body["conversation_id"])

	_, err = client.SendMessage(context.Background(), ProfileVeteran, "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "chat", body["type"])
	assert.Nil(t, body["conversation_id"], "no id yet means null, not empty string")
}

package cli

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtycoon/internal/game"
)

func TestClientRegisterAndLogin(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		switch r.URL.Path {
		case "/api/auth/register":
			_, _ = io.WriteString(w, `{"id":"u-1","username":"`+in["username"]+`","subscribers":0}`)
		case "/api/auth/login":
			if in["password"] != "secret1" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(w, `{"error":"invalid username or password"}`)
				return
			}
			_, _ = io.WriteString(w, `{"id":"u-1","username":"`+in["username"]+`","subscribers":42}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	c := NewClient(ts.URL + "/")
	p, err := c.Register(context.Background(), "maya", "secret1")
	require.NoError(t, err)
	assert.Equal(t, Profile{ID: "u-1", Username: "maya"}, p)

	p, err = c.Login(context.Background(), "maya", "secret1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.Subscribers)

	_, err = c.Login(context.Background(), "maya", "bad")
	require.Error(t, err)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Equal(t, "invalid username or password", se.Message)
	assert.True(t, IsAuthFailure(err))
}

func TestClientScorePusher(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/score/update", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	defer ts.Close()

	var sink game.ScoreSink = NewScorePusher(NewClient(ts.URL), "u-9")
	require.NoError(t, sink.PushScore(context.Background(), game.Score{Subscribers: 2.5, Views: 50}))
	assert.Equal(t, "u-9", got["userId"])
	assert.Equal(t, 2.5, got["subscribers"])
	assert.Equal(t, 50.0, got["views"])
}

func TestClientScoreUpdateErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"account not found"}`)
	}))
	defer ts.Close()

	err := NewClient(ts.URL).UpdateScore(context.Background(), "gone", game.Score{})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.False(t, IsAuthFailure(err))
	assert.Equal(t, "api status 404: account not found", err.Error())
}

func TestClientLeaderboard(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = io.WriteString(w, `[{"username":"a","subscribers":80},{"username":"b","subscribers":50}]`)
	}))
	defer ts.Close()

	board, err := NewClient(ts.URL).Leaderboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []LeaderboardEntry{{Username: "a", Subscribers: 80}, {Username: "b", Subscribers: 50}}, board)
}

func TestClientUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := NewClient(url).Leaderboard(context.Background())
	require.Error(t, err)
	assert.False(t, IsAuthFailure(err))
}

func TestErrorTextFallsBackToBody(t *testing.T) {
	assert.Equal(t, "bad gateway", errorText([]byte(" bad gateway \n")))
	assert.Equal(t, "nope", errorText([]byte(`{"error":"nope"}`)))
}

func TestSessionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadSession(dir)
	require.Error(t, err)

	require.NoError(t, SaveSession(dir, Session{UserID: "u-1", Username: "maya"}))
	s, err := LoadSession(dir)
	require.NoError(t, err)
	assert.Equal(t, Session{UserID: "u-1", Username: "maya"}, s)

	require.NoError(t, ClearSession(dir))
	require.NoError(t, ClearSession(dir))
	_, err = LoadSession(dir)
	assert.Error(t, err)
}

func TestLoadSessionRequiresUserID(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveSession(dir, Session{Username: "ghost"}))
	_, err := LoadSession(dir)
	assert.Error(t, err)
}

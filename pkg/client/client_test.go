package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shakil-official/comment-system/pkg/thread"
)

func TestLoginDecodesCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"_id":"u1","email":"a@b.c","token":"tok"}`))
	}))
	defer srv.Close()

	creds, err := New(srv.URL).Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", creds.ID)
	assert.Equal(t, "tok", creds.Token)
}

func TestBearerTokenAttached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok"))
	require.NoError(t, c.CreateComment(context.Background(), "hello", "p1", nil))
}

func TestToggleReactionPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok"))
	require.NoError(t, c.ToggleReaction(context.Background(), "c1", thread.Dislike))
	assert.Equal(t, "PATCH /comment/c1/dislike", gotPath)

	assert.Error(t, c.ToggleReaction(context.Background(), "c1", thread.Kind("meh")))
}

func TestPostAcceptsNestedCommentsVariant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/post/p1", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Write([]byte(`{
			"post": {"_id":"p1","title":"t"},
			"comments": [{"_id":"c1","parent":null,"favoritesCount":"1"}],
			"pagination": {"total":1,"page":2,"limit":10,"totalPages":1}
		}`))
	}))
	defer srv.Close()

	thr, err := New(srv.URL).Post(context.Background(), "p1", 2, 10)
	require.NoError(t, err)
	assert.Equal(t, "p1", thr.Post.ID)
	require.Len(t, thr.Comments, 1)
	assert.EqualValues(t, 1, thr.Comments[0].FavoritesCount)
}

func TestAPIErrorMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"token required"}`))
	}))
	defer srv.Close()

	err := New(srv.URL).DeleteComment(context.Background(), "c1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "token required", apiErr.Message)
}

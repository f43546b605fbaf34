package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileAnonymousOmitsPrivateShelves(t *testing.T) {
	db, svc := newTestEnv(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	id := seedArticle(t, svc, alice, "Intro", "Tech", "go")
	_, err := svc.ToggleFavorite(context.Background(), id, bob)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/users/:username", NewUserController(db, svc).Profile)

	w := doRequest(r, http.MethodGet, "/users/alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Data, "articles")
	assert.Contains(t, body.Data, "liked_num")
	assert.Contains(t, body.Data, "category_counts")
	assert.Contains(t, body.Data, "tag_counts")
	assert.NotContains(t, body.Data, "favorite_articles")
	assert.NotContains(t, body.Data, "read_articles")

	var likedNum int64
	require.NoError(t, json.Unmarshal(body.Data["liked_num"], &likedNum))
	assert.Equal(t, int64(1), likedNum)
}

func TestProfileOwnerSeesPrivateShelves(t *testing.T) {
	db, svc := newTestEnv(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	id := seedArticle(t, svc, bob, "Theirs", "Tech")
	_, err := svc.ToggleFavorite(context.Background(), id, alice)
	require.NoError(t, err)
	require.NoError(t, svc.RecordView(context.Background(), id, alice))

	r := gin.New()
	r.GET("/users/:username", asViewer(alice), NewUserController(db, svc).Profile)

	w := doRequest(r, http.MethodGet, "/users/alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Data, "favorite_articles")
	assert.Contains(t, body.Data, "read_articles")
}

func TestProfileUnknownUser(t *testing.T) {
	db, svc := newTestEnv(t)

	r := gin.New()
	r.GET("/users/:username", NewUserController(db, svc).Profile)

	w := doRequest(r, http.MethodGet, "/users/nobody", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

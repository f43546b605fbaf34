package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suisen-cp/algopedia/models"
)

func TestGetArticleRecordsViewForViewer(t *testing.T) {
	db, svc := newTestEnv(t)
	author := seedUser(t, db, "alice")
	reader := seedUser(t, db, "bob")
	id := seedArticle(t, svc, author, "Intro", "Tech", "go")

	r := gin.New()
	r.GET("/articles/:id", asViewer(reader), NewArticleController(svc).GetArticle)

	w := doRequest(r, http.MethodGet, "/articles/"+strconv.Itoa(int(id)), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Article struct {
				Title     string   `json:"title"`
				Category  string   `json:"category"`
				Tags      []string `json:"tags"`
				Favorited bool     `json:"favorited"`
			} `json:"article"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Intro", body.Data.Article.Title)
	assert.Equal(t, "Tech", body.Data.Article.Category)
	assert.Equal(t, []string{"go"}, body.Data.Article.Tags)
	assert.False(t, body.Data.Article.Favorited)

	var count int64
	require.NoError(t, db.Model(&models.ReadingHistory{}).
		Where("article_id = ? AND user_id = ?", id, reader).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetArticleSurvivesHistoryWriteFailure(t *testing.T) {
	db, svc := newTestEnv(t)
	author := seedUser(t, db, "alice")
	reader := seedUser(t, db, "bob")
	id := seedArticle(t, svc, author, "Intro", "Tech")

	// The reading-history touch is best effort: a storage failure there must
	// not break the detail response, logger initialized or not.
	require.NoError(t, db.Migrator().DropTable(&models.ReadingHistory{}))

	r := gin.New()
	r.GET("/articles/:id", asViewer(reader), NewArticleController(svc).GetArticle)

	w := doRequest(r, http.MethodGet, "/articles/"+strconv.Itoa(int(id)), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Intro")
}

func TestCreateArticleValidationEnvelope(t *testing.T) {
	db, svc := newTestEnv(t)
	userID := seedUser(t, db, "alice")

	r := gin.New()
	r.POST("/articles", asViewer(userID), NewArticleController(svc).CreateArticle)

	payload := `{"title":"","content":"","category":""}`
	w := doRequest(r, http.MethodPost, "/articles", strings.NewReader(payload))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    struct {
			Errors struct {
				Title    []string `json:"title"`
				Content  []string `json:"content"`
				Category []string `json:"category"`
			} `json:"errors"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 40021, body.Code)
	assert.Equal(t, "validation failed", body.Message)
	assert.NotEmpty(t, body.Data.Errors.Title)
	assert.NotEmpty(t, body.Data.Errors.Content)
	assert.NotEmpty(t, body.Data.Errors.Category)
}

func TestDeleteArticleRequiresAuthor(t *testing.T) {
	db, svc := newTestEnv(t)
	author := seedUser(t, db, "alice")
	other := seedUser(t, db, "bob")
	id := seedArticle(t, svc, author, "Intro", "Tech")

	r := gin.New()
	r.DELETE("/articles/:id", asViewer(other), NewArticleController(svc).DeleteArticle)

	w := doRequest(r, http.MethodDelete, "/articles/"+strconv.Itoa(int(id)), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Article{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

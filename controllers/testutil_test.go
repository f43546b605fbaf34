package controllers

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/suisen-cp/algopedia/cms"
	"github.com/suisen-cp/algopedia/middleware"
	"github.com/suisen-cp/algopedia/models"
)

// newTestEnv opens an isolated in-memory sqlite database with the full schema.
// Redis is absent in tests; the cache helpers degrade to misses.
func newTestEnv(t *testing.T) (*gorm.DB, *cms.Service) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Article{},
		&models.Category{},
		&models.Tag{},
		&models.Author{},
		&models.ArticleCategory{},
		&models.ArticleTag{},
		&models.Favorite{},
		&models.ReadingHistory{},
	))

	return db, cms.NewService(db)
}

func seedUser(t *testing.T, db *gorm.DB, username string) uint {
	t.Helper()
	user := models.User{Username: username, PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func seedArticle(t *testing.T, svc *cms.Service, userID uint, title, category string, tags ...string) uint {
	t.Helper()
	id, fieldErrs, err := svc.SaveArticle(context.Background(), cms.SaveArticleInput{
		Title:        title,
		Content:      "content of " + title,
		CategoryName: category,
		TagNames:     tags,
		ActingUserID: userID,
	})
	require.NoError(t, err)
	require.Nil(t, fieldErrs)
	return id
}

// asViewer injects an authenticated identity the way the auth middleware does.
func asViewer(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

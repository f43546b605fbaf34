package cms

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/suisen-cp/algopedia/models"
)

// newTestService opens an isolated in-memory sqlite database with the full
// schema migrated. Error translation is enabled to mirror production, so
// duplicate-key failures surface as gorm.ErrDuplicatedKey here too.
func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the whole test on one in-memory database.
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

	return NewService(db), db
}

func seedUser(t *testing.T, db *gorm.DB, username string) uint {
	t.Helper()
	user := models.User{Username: username, PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

// mustSaveArticle creates an article and fails the test on any validation or
// storage error.
func mustSaveArticle(t *testing.T, svc *Service, userID uint, title, category string, tags ...string) uint {
	t.Helper()
	id, fieldErrs, err := svc.SaveArticle(context.Background(), SaveArticleInput{
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

func categoryArticleNum(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	var category models.Category
	require.NoError(t, db.Where("name = ?", name).First(&category).Error)
	return category.ArticleNum
}

func tagArticleNum(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	var tag models.Tag
	require.NoError(t, db.Where("name = ?", name).First(&tag).Error)
	return tag.ArticleNum
}

func articleFavNum(t *testing.T, db *gorm.DB, id uint) uint {
	t.Helper()
	var article models.Article
	require.NoError(t, db.First(&article, id).Error)
	return article.FavNum
}

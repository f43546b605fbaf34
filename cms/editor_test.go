package cms

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suisen-cp/algopedia/models"
)

func TestSaveArticleCreatesClassificationAndCounters(t *testing.T) {
	svc, db := newTestService(t)
	userID := seedUser(t, db, "alice")

	id := mustSaveArticle(t, svc, userID, "Intro", "Tech", "go", "rust")

	article, err := svc.GetArticle(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Intro", article.Title)
	assert.Equal(t, uint(0), article.FavNum)

	assert.Equal(t, uint(1), categoryArticleNum(t, db, "Tech"))
	assert.Equal(t, uint(1), tagArticleNum(t, db, "go"))
	assert.Equal(t, uint(1), tagArticleNum(t, db, "rust"))

	name, err := svc.ArticleCategoryName(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Tech", name)

	tags, err := svc.ArticleTagNames(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "rust"}, tags)

	authorID, err := svc.ArticleAuthorID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, userID, authorID)
}

func TestSaveArticleReusesExistingCategoryAndTags(t *testing.T) {
	svc, db := newTestService(t)
	userID := seedUser(t, db, "alice")

	mustSaveArticle(t, svc, userID, "First", "Tech", "go")
	mustSaveArticle(t, svc, userID, "Second", "Tech", "go", "rust")

	assert.Equal(t, uint(2), categoryArticleNum(t, db, "Tech"))
	assert.Equal(t, uint(2), tagArticleNum(t, db, "go"))
	assert.Equal(t, uint(1), tagArticleNum(t, db, "rust"))

	var categoryCount int64
	require.NoError(t, db.Model(&models.Category{}).Count(&categoryCount).Error)
	assert.Equal(t, int64(1), categoryCount)
}

func TestSaveArticleAggregatesValidationErrors(t *testing.T) {
	svc, db := newTestService(t)
	userID := seedUser(t, db, "alice")

	longTag := strings.Repeat("x", 16)
	_, fieldErrs, err := svc.SaveArticle(context.Background(), SaveArticleInput{
		Title:        "   ",
		Content:      "",
		CategoryName: "",
		TagNames:     []string{longTag},
		ActingUserID: userID,
	})
	require.NoError(t, err)
	require.NotNil(t, fieldErrs)
	assert.NotEmpty(t, fieldErrs.Title)
	assert.NotEmpty(t, fieldErrs.Content)
	assert.NotEmpty(t, fieldErrs.Category)
	assert.NotEmpty(t, fieldErrs.Tags[longTag])

	// Nothing may be written on a validation failure, including the staged tag.
	var articleCount, tagCount int64
	require.NoError(t, db.Model(&models.Article{}).Count(&articleCount).Error)
	require.NoError(t, db.Model(&models.Tag{}).Count(&tagCount).Error)
	assert.Zero(t, articleCount)
	assert.Zero(t, tagCount)
}

func TestSaveArticleRejectsOverlongTitle(t *testing.T) {
	svc, db := newTestService(t)
	userID := seedUser(t, db, "alice")

	_, fieldErrs, err := svc.SaveArticle(context.Background(), SaveArticleInput{
		Title:        strings.Repeat("t", 51),
		Content:      "body",
		CategoryName: "Tech",
		ActingUserID: userID,
	})
	require.NoError(t, err)
	require.NotNil(t, fieldErrs)
	assert.NotEmpty(t, fieldErrs.Title)
}

func TestSaveArticleDeduplicatesTags(t *testing.T) {
	svc, db := newTestService(t)
	userID := seedUser(t, db, "alice")

	id := mustSaveArticle(t, svc, userID, "Intro", "Tech", "go", " go ", "go")

	tags, err := svc.ArticleTagNames(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, tags)
	assert.Equal(t, uint(1), tagArticleNum(t, db, "go"))
}

func TestSaveArticleUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, fieldErrs, err := svc.SaveArticle(context.Background(), SaveArticleInput{
		Title:        "Intro",
		Content:      "body",
		CategoryName: "Tech",
		ActingUserID: 999,
	})
	assert.Nil(t, fieldErrs)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditArticleReconcilesTagSet(t *testing.T) {
	svc, db := newTestService(t)
	userID := seedUser(t, db, "alice")

	id := mustSaveArticle(t, svc, userID, "Intro", "Tech", "go", "rust")

	_, fieldErrs, err := svc.SaveArticle(context.Background(), SaveArticleInput{
		ArticleID:    &id,
		Title:        "Intro v2",
		Content:      "updated",
		CategoryName: "Tech",
		TagNames:     []string{"rust", "zig"},
		ActingUserID: userID,
	})
	require.NoError(t, err)
	require.Nil(t, fieldErrs)

	assert.Equal(t, uint(0), tagArticleNum(t, db, "go"))
	assert.Equal(t, uint(1), tagArticleNum(t, db, "rust"))
	assert.Equal(t, uint(1), tagArticleNum(t, db, "zig"))

	tags, err := svc.ArticleTagNames(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []string{"rust", "zig"}, tags)

	article, err := svc.GetArticle(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Intro v2", article.Title)
}

func TestEditArticleRepointsCategory(t *testing.T) {
	svc, db := newTestService(t)
	userID := seedUser(t, db, "alice")

	id := mustSaveArticle(t, svc, userID, "Intro", "C1")

	_, fieldErrs, err := svc.SaveArticle(context.Background(), SaveArticleInput{
		ArticleID:    &id,
		Title:        "Intro",
		Content:      "body",
		CategoryName: "C2",
		ActingUserID: userID,
	})
	require.NoError(t, err)
	require.Nil(t, fieldErrs)

	assert.Equal(t, uint(0), categoryArticleNum(t, db, "C1"))
	assert.Equal(t, uint(1), categoryArticleNum(t, db, "C2"))

	name, err := svc.ArticleCategoryName(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "C2", name)
}

func TestEditArticleSameCategoryNoCounterChurn(t *testing.T) {
	svc, db := newTestService(t)
	userID := seedUser(t, db, "alice")

	id := mustSaveArticle(t, svc, userID, "Intro", "Tech", "go")

	_, fieldErrs, err := svc.SaveArticle(context.Background(), SaveArticleInput{
		ArticleID:    &id,
		Title:        "Intro",
		Content:      "new body",
		CategoryName: "Tech",
		TagNames:     []string{"go"},
		ActingUserID: userID,
	})
	require.NoError(t, err)
	require.Nil(t, fieldErrs)

	assert.Equal(t, uint(1), categoryArticleNum(t, db, "Tech"))
	assert.Equal(t, uint(1), tagArticleNum(t, db, "go"))
}

func TestEditUnknownArticle(t *testing.T) {
	svc, db := newTestService(t)
	userID := seedUser(t, db, "alice")

	missing := uint(404)
	_, fieldErrs, err := svc.SaveArticle(context.Background(), SaveArticleInput{
		ArticleID:    &missing,
		Title:        "Intro",
		Content:      "body",
		CategoryName: "Tech",
		ActingUserID: userID,
	})
	assert.Nil(t, fieldErrs)
	assert.ErrorIs(t, err, ErrNotFound)

	// The staged category from the failed edit must have been rolled back.
	var categoryCount int64
	require.NoError(t, db.Model(&models.Category{}).Count(&categoryCount).Error)
	assert.Zero(t, categoryCount)
}

func TestDeleteArticleCascadesAndDecrements(t *testing.T) {
	svc, db := newTestService(t)
	author := seedUser(t, db, "alice")
	reader := seedUser(t, db, "bob")

	id := mustSaveArticle(t, svc, author, "Intro", "Tech", "go", "rust")

	_, err := svc.ToggleFavorite(context.Background(), id, reader)
	require.NoError(t, err)
	require.NoError(t, svc.RecordView(context.Background(), id, reader))

	require.NoError(t, svc.DeleteArticle(context.Background(), id))

	_, err = svc.GetArticle(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)

	// Counters return to zero, the vocabulary rows survive.
	assert.Equal(t, uint(0), categoryArticleNum(t, db, "Tech"))
	assert.Equal(t, uint(0), tagArticleNum(t, db, "go"))
	assert.Equal(t, uint(0), tagArticleNum(t, db, "rust"))

	for _, model := range []interface{}{
		&models.ArticleCategory{}, &models.ArticleTag{},
		&models.Favorite{}, &models.ReadingHistory{}, &models.Author{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestDeleteUnknownArticle(t *testing.T) {
	svc, _ := newTestService(t)
	assert.ErrorIs(t, svc.DeleteArticle(context.Background(), 404), ErrNotFound)
}

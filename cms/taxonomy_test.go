package cms

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategoryStandalone(t *testing.T) {
	svc, db := newTestService(t)

	category, errs, err := svc.CreateCategory(context.Background(), "  Tech  ")
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.Equal(t, "Tech", category.Name)
	assert.Equal(t, uint(0), category.ArticleNum)
	assert.Equal(t, uint(0), categoryArticleNum(t, db, "Tech"))
}

func TestCreateCategoryRejectsDuplicate(t *testing.T) {
	svc, _ := newTestService(t)

	_, errs, err := svc.CreateCategory(context.Background(), "Tech")
	require.NoError(t, err)
	require.Empty(t, errs)

	_, errs, err = svc.CreateCategory(context.Background(), "Tech")
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "already exists")
}

func TestCreateCategoryValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, errs, err := svc.CreateCategory(context.Background(), "   ")
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "required")

	_, errs, err = svc.CreateCategory(context.Background(), strings.Repeat("x", 16))
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "at most 15")
}

func TestCreateTagStandalone(t *testing.T) {
	svc, _ := newTestService(t)

	tag, errs, err := svc.CreateTag(context.Background(), "go")
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.Equal(t, "go", tag.Name)

	_, errs, err = svc.CreateTag(context.Background(), "go")
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "already exists")
}

func TestVocabularyListings(t *testing.T) {
	svc, db := newTestService(t)
	alice := seedUser(t, db, "alice")

	mustSaveArticle(t, svc, alice, "A1", "Math", "go", "rust")
	mustSaveArticle(t, svc, alice, "A2", "Tech", "go")

	categories, err := svc.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Math", categories[0].Name)
	assert.Equal(t, "Tech", categories[1].Name)
	assert.Equal(t, uint(1), categories[0].ArticleNum)

	tags, err := svc.Tags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "go", tags[0].Name)
	assert.Equal(t, uint(2), tags[0].ArticleNum)
	assert.Equal(t, "rust", tags[1].Name)
	assert.Equal(t, uint(1), tags[1].ArticleNum)
}
